package sweetrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sweetshop/internal/domain"
	apperror "sweetshop/internal/errors"
	"sweetshop/internal/pkg/cache"
	"sweetshop/internal/pkg/logger"
)

// sweetCacheKey é o formato da chave de cache de um doce individual.
const sweetCacheKey = "sweet:%s"

// sweetCacheTTL é o tempo de vida das entradas de cache de leitura.
const sweetCacheTTL = 5 * time.Minute

const sweetColumns = "id, name, category, price, stock, created_at, updated_at"

// SweetRepository implementa a interface domain.SweetRepository sobre
// PostgreSQL, com cache-aside em Redis para leituras por ID.
type SweetRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSweetRepository cria e retorna uma nova instância do Repositório,
// injetando as dependências de infraestrutura (DB e Cache).
func NewSweetRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, log logger.Logger) *SweetRepository {
	return &SweetRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// scanSweet mapeia uma linha do resultado para a struct domain.Sweet.
func scanSweet(row interface{ Scan(...interface{}) error }) (domain.Sweet, error) {
	var s domain.Sweet
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Stock, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// invalidate remove a entrada de cache de um doce após qualquer mutação.
// Falha de cache não derruba a operação; a entrada expira pelo TTL.
func (r *SweetRepository) invalidate(ctx context.Context, id string) {
	if err := r.Cache.Delete(ctx, fmt.Sprintf(sweetCacheKey, id)); err != nil {
		r.logger.Warn("Falha ao invalidar cache do doce.", map[string]interface{}{"sweet_id": id})
	}
}

// Save persiste um novo doce no banco de dados.
func (r *SweetRepository) Save(ctx context.Context, sweet domain.Sweet) (domain.Sweet, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	sweet.ID = uuid.NewString()
	now := time.Now().UTC()
	sweet.CreatedAt = now
	sweet.UpdatedAt = now

	const insertSQL = `INSERT INTO sweets (id, name, category, price, stock, created_at, updated_at)
	                   VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		sweet.ID, sweet.Name, sweet.Category, sweet.Price, sweet.Stock, sweet.CreatedAt, sweet.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir doce no DB.", err)
		return domain.Sweet{}, apperror.NewDBError("failed to insert sweet", err)
	}

	r.logger.Debug("Doce salvo no repositório.", map[string]interface{}{"sweet_id": sweet.ID, "name": sweet.Name})
	return sweet, nil
}

// FindByID busca um doce pelo ID, utilizando a estratégia Cache-Aside:
// tenta o Redis primeiro; no miss, busca no DB e popula o cache.
func (r *SweetRepository) FindByID(ctx context.Context, id string) (domain.Sweet, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(sweetCacheKey, id)
	var sweet domain.Sweet

	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		if json.Unmarshal([]byte(cachedData), &sweet) == nil {
			return sweet, nil
		}
		// Entrada corrompida: segue para o DB e o Set abaixo a sobrescreve.
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler do cache; seguindo para o DB.", map[string]interface{}{"sweet_id": id})
	}

	query := fmt.Sprintf("SELECT %s FROM sweets WHERE id = $1", sweetColumns)
	sweet, err = scanSweet(r.DB.QueryRowContext(ctxTimeout, query, id))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sweet{}, apperror.NewNotFoundError(fmt.Sprintf("Doce com ID %s não existe.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar doce no DB.", err)
		return domain.Sweet{}, apperror.NewDBError("failed to find sweet", err)
	}

	if sweetJSON, marshalErr := json.Marshal(sweet); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, sweetJSON, sweetCacheTTL)
	}

	return sweet, nil
}

// buildFilter compila o SweetFilter em uma lista ordenada de predicados
// {campo, matcher} combinados por AND, com os respectivos argumentos
// posicionais. Filtros ausentes não impõem restrição.
func buildFilter(filter domain.SweetFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, "%"+filter.Category+"%")
		conds = append(conds, fmt.Sprintf("category ILIKE $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// FindAll retorna os doces que satisfazem o filtro, em ordem estável
// (created_at, id) dentro de um mesmo snapshot do banco.
func (r *SweetRepository) FindAll(ctx context.Context, filter domain.SweetFilter) ([]domain.Sweet, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	where, args := buildFilter(filter)
	query := fmt.Sprintf("SELECT %s FROM sweets%s ORDER BY created_at, id", sweetColumns, where)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar doces no DB.", err)
		return nil, apperror.NewDBError("failed to list sweets", err)
	}
	defer rows.Close()

	sweets := []domain.Sweet{}
	for rows.Next() {
		sweet, scanErr := scanSweet(rows)
		if scanErr != nil {
			return nil, apperror.NewDBError("failed to scan sweet row", scanErr)
		}
		sweets = append(sweets, sweet)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate sweet rows", err)
	}

	return sweets, nil
}

// Update substitui todos os campos mutáveis do doce identificado.
// A mesclagem parcial é responsabilidade do serviço; aqui a linha já chega
// validada e completa.
func (r *SweetRepository) Update(ctx context.Context, sweet domain.Sweet) (domain.Sweet, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	sweet.UpdatedAt = time.Now().UTC()

	const updateSQL = `UPDATE sweets
	                   SET name = $1, category = $2, price = $3, stock = $4, updated_at = $5
	                   WHERE id = $6`

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		sweet.Name, sweet.Category, sweet.Price, sweet.Stock, sweet.UpdatedAt, sweet.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar doce no DB.", err)
		return domain.Sweet{}, apperror.NewDBError("failed to update sweet", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Sweet{}, apperror.NewDBError("failed to check affected rows", err)
	}
	if rowsAffected == 0 {
		return domain.Sweet{}, apperror.NewNotFoundError(fmt.Sprintf("Doce com ID %s não existe.", sweet.ID))
	}

	r.invalidate(ctxTimeout, sweet.ID)
	return sweet, nil
}

// Delete remove o doce permanentemente (não há soft-delete).
func (r *SweetRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar doce no DB.", err)
		return apperror.NewDBError("failed to delete sweet", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to check affected rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Doce com ID %s não existe.", id))
	}

	r.invalidate(ctxTimeout, id)
	return nil
}

// AdjustStock aplica um delta ao estoque dentro de uma transação com
// SELECT ... FOR UPDATE. O lock de linha serializa mutações concorrentes
// sobre o mesmo doce: duas compras simultâneas nunca leem o mesmo estoque
// pré-decremento, e o invariante stock >= 0 se mantém sob corrida.
func (r *SweetRepository) AdjustStock(ctx context.Context, id string, delta int) (domain.Sweet, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de ajuste de estoque.", err)
		return domain.Sweet{}, apperror.NewDBError("failed to begin tx", err)
	}
	defer tx.Rollback()

	querySelect := fmt.Sprintf("SELECT %s FROM sweets WHERE id = $1 FOR UPDATE", sweetColumns)
	current, err := scanSweet(tx.QueryRowContext(ctxTimeout, querySelect, id))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sweet{}, apperror.NewNotFoundError(fmt.Sprintf("Doce com ID %s não existe.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao selecionar doce para ajuste de estoque.", err)
		return domain.Sweet{}, apperror.NewDBError("failed to select sweet for update", err)
	}

	newStock := current.Stock + delta
	if newStock < 0 {
		// Rollback via defer; o registro permanece intacto.
		return domain.Sweet{}, apperror.NewInsufficientStockError(current.Stock, -delta)
	}

	updatedAt := time.Now().UTC()
	_, err = tx.ExecContext(ctxTimeout,
		`UPDATE sweets SET stock = $1, updated_at = $2 WHERE id = $3`,
		newStock, updatedAt, id,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar estoque do doce.", err)
		return domain.Sweet{}, apperror.NewDBError("failed to adjust stock", err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar ajuste de estoque.", commitErr)
		return domain.Sweet{}, apperror.NewDBError("failed to commit tx", commitErr)
	}

	current.Stock = newStock
	current.UpdatedAt = updatedAt
	r.invalidate(ctxTimeout, id)

	r.logger.Info("Estoque ajustado.", map[string]interface{}{
		"sweet_id":  id,
		"delta":     delta,
		"new_stock": newStock,
	})
	return current, nil
}
