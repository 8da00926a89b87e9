package domain

import (
	"context"
	"time"
)

// Sweet representa o item do catálogo (a Entidade principal do domínio).
// Invariantes: Name e Category não vazios, Price > 0 e Stock >= 0.
type Sweet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SweetUpdate representa uma atualização parcial de um Sweet.
// Campos nil não são alterados; os demais substituem o valor atual e o
// resultado da mesclagem passa pela mesma validação da criação.
type SweetUpdate struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
}

// SweetFilter define os parâmetros de busca do catálogo.
// Cada filtro presente restringe o resultado (composição por AND):
// Name e Category por substring (case-insensitive), MinPrice/MaxPrice
// como limites inclusivos. Filtro vazio equivale a listar tudo.
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// IsEmpty informa se nenhum filtro foi fornecido.
func (f SweetFilter) IsEmpty() bool {
	return f.Name == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// SweetRepository define o contrato de persistência para a entidade Sweet.
type SweetRepository interface {
	Save(ctx context.Context, sweet Sweet) (Sweet, error)
	FindByID(ctx context.Context, id string) (Sweet, error)
	FindAll(ctx context.Context, filter SweetFilter) ([]Sweet, error)
	Update(ctx context.Context, sweet Sweet) (Sweet, error)
	Delete(ctx context.Context, id string) error

	// AdjustStock aplica um delta ao estoque do item de forma atômica
	// (transação com lock de linha). Delta negativo que levaria o estoque
	// abaixo de zero falha sem alterar o registro.
	AdjustStock(ctx context.Context, id string, delta int) (Sweet, error)
}
