package sweetservice

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"sweetshop/internal/domain"
	apperror "sweetshop/internal/errors"
	"sweetshop/internal/pkg/logger"
)

// Service implementa a lógica de negócio do catálogo e do livro de estoque.
type Service struct {
	repo   domain.SweetRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Doces.
func NewService(repo domain.SweetRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// validateSweet aplica as regras de negócio do item de catálogo e retorna
// as mensagens por campo. Usada na criação e no resultado da mesclagem de
// uma atualização parcial.
func validateSweet(sweet domain.Sweet) map[string]string {
	fields := map[string]string{}
	if sweet.Name == "" {
		fields["name"] = "O nome é obrigatório."
	}
	if sweet.Category == "" {
		fields["category"] = "A categoria é obrigatória."
	}
	if sweet.Price <= 0 {
		fields["price"] = "O preço deve ser maior que zero."
	}
	if sweet.Stock < 0 {
		fields["stock"] = "O estoque não pode ser negativo."
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// parseID valida o formato do identificador. Um ID que não é um UUID não
// pode referenciar nenhum doce, então é tratado como não encontrado.
func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewNotFoundError(fmt.Sprintf("Doce com ID %s não existe.", id))
	}
	return nil
}

// Create valida e persiste um novo doce. Estoque omitido no payload chega
// aqui como zero, que é o default do domínio.
func (s *Service) Create(ctx context.Context, sweet domain.Sweet) (domain.Sweet, error) {
	if fields := validateSweet(sweet); fields != nil {
		return domain.Sweet{}, apperror.NewFieldValidationError("Dados do doce inválidos.", fields)
	}

	created, err := s.repo.Save(ctx, sweet)
	if err != nil {
		return domain.Sweet{}, err
	}

	s.logger.Info("Doce criado.", map[string]interface{}{"sweet_id": created.ID, "name": created.Name})
	return created, nil
}

// GetByID retorna um doce pelo identificador.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Sweet, error) {
	if err := parseID(id); err != nil {
		return domain.Sweet{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// List retorna todos os doces do catálogo, sem filtro.
func (s *Service) List(ctx context.Context) ([]domain.Sweet, error) {
	return s.repo.FindAll(ctx, domain.SweetFilter{})
}

// Search retorna os doces que satisfazem o filtro. Filtro vazio se comporta
// exatamente como List.
func (s *Service) Search(ctx context.Context, filter domain.SweetFilter) ([]domain.Sweet, error) {
	return s.repo.FindAll(ctx, filter)
}

// Update mescla os campos fornecidos sobre o registro existente, revalida o
// resultado com as mesmas regras da criação e persiste. Campos não
// fornecidos permanecem intactos.
func (s *Service) Update(ctx context.Context, id string, patch domain.SweetUpdate) (domain.Sweet, error) {
	if err := parseID(id); err != nil {
		return domain.Sweet{}, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Sweet{}, err
	}

	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.Category != nil {
		existing.Category = *patch.Category
	}
	if patch.Price != nil {
		existing.Price = *patch.Price
	}
	if patch.Stock != nil {
		existing.Stock = *patch.Stock
	}

	if fields := validateSweet(existing); fields != nil {
		return domain.Sweet{}, apperror.NewFieldValidationError("Dados do doce inválidos.", fields)
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return domain.Sweet{}, err
	}

	s.logger.Info("Doce atualizado.", map[string]interface{}{"sweet_id": updated.ID})
	return updated, nil
}

// Delete remove o doce permanentemente.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Doce removido.", map[string]interface{}{"sweet_id": id})
	return nil
}

// parseQuantity valida a quantidade de uma operação de estoque: precisa
// estar presente, ser um número inteiro de unidades e ser positiva.
func parseQuantity(quantity *float64) (int, error) {
	if quantity == nil {
		return 0, apperror.NewInvalidQuantityError("A quantidade é obrigatória.")
	}
	if *quantity != math.Trunc(*quantity) {
		return 0, apperror.NewInvalidQuantityError("A quantidade deve ser um número inteiro de unidades.")
	}
	q := int(*quantity)
	if q <= 0 {
		return 0, apperror.NewInvalidQuantityError("A quantidade deve ser maior que zero.")
	}
	return q, nil
}

// Purchase decrementa o estoque do doce na quantidade pedida. A suficiência
// é verificada dentro da mesma transação que aplica o decremento, então o
// estoque nunca fica negativo, mesmo sob compras concorrentes.
func (s *Service) Purchase(ctx context.Context, id string, quantity *float64) (domain.Sweet, error) {
	q, err := parseQuantity(quantity)
	if err != nil {
		return domain.Sweet{}, err
	}
	if err := parseID(id); err != nil {
		return domain.Sweet{}, err
	}

	sweet, err := s.repo.AdjustStock(ctx, id, -q)
	if err != nil {
		return domain.Sweet{}, err
	}

	s.logger.Info("Compra registrada.", map[string]interface{}{"sweet_id": id, "quantity": q, "stock": sweet.Stock})
	return sweet, nil
}

// Restock incrementa o estoque do doce na quantidade pedida. Não há limite
// superior de estoque.
func (s *Service) Restock(ctx context.Context, id string, quantity *float64) (domain.Sweet, error) {
	q, err := parseQuantity(quantity)
	if err != nil {
		return domain.Sweet{}, err
	}
	if err := parseID(id); err != nil {
		return domain.Sweet{}, err
	}

	sweet, err := s.repo.AdjustStock(ctx, id, q)
	if err != nil {
		return domain.Sweet{}, err
	}

	s.logger.Info("Reposição registrada.", map[string]interface{}{"sweet_id": id, "quantity": q, "stock": sweet.Stock})
	return sweet, nil
}
