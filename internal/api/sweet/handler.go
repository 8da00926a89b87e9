package sweet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"sweetshop/internal/domain"
	apperror "sweetshop/internal/errors"
	"sweetshop/internal/pkg/logger"
	"sweetshop/internal/pkg/middleware"
)

// SweetService define o contrato que o Handler espera da camada de Serviço.
type SweetService interface {
	Create(ctx context.Context, sweet domain.Sweet) (domain.Sweet, error)
	GetByID(ctx context.Context, id string) (domain.Sweet, error)
	List(ctx context.Context) ([]domain.Sweet, error)
	Search(ctx context.Context, filter domain.SweetFilter) ([]domain.Sweet, error)
	Update(ctx context.Context, id string, patch domain.SweetUpdate) (domain.Sweet, error)
	Delete(ctx context.Context, id string) error
	Purchase(ctx context.Context, id string, quantity *float64) (domain.Sweet, error)
	Restock(ctx context.Context, id string, quantity *float64) (domain.Sweet, error)
}

// QuantityRequest é o payload das operações de compra e reposição.
// Quantity é um ponteiro para distinguir "ausente" de zero, e float64 para
// que quantidades fracionárias cheguem ao serviço e sejam rejeitadas lá.
type QuantityRequest struct {
	Quantity *float64 `json:"quantity"`
}

// Handler agrupa os métodos de Handler do catálogo de doces.
type Handler struct {
	Service SweetService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc SweetService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse padroniza o tratamento de erros e respostas HTTP.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, _ := apperror.MapToHTTPStatus(err)
	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	middleware.WriteError(w, err)
}

// CreateSweetHandler lida com a requisição POST /api/sweets.
// @Summary Cria um novo doce no catálogo
// @Tags sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sweet body domain.Sweet true "Dados do doce (estoque omitido assume 0)"
// @Success 201 {object} domain.Sweet
// @Failure 400 {object} domain.ErrorResponse "Dados inválidos"
// @Failure 401 {object} domain.ErrorResponse "Não autenticado"
// @Router /sweets [post]
func (h *Handler) CreateSweetHandler(w http.ResponseWriter, r *http.Request) {
	var sweet domain.Sweet
	if err := json.NewDecoder(r.Body).Decode(&sweet); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), 0)
		return
	}

	created, err := h.Service.Create(r.Context(), sweet)
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}

// ListSweetsHandler lida com a requisição GET /api/sweets.
// @Summary Lista todos os doces do catálogo
// @Tags sweets
// @Produce json
// @Success 200 {array} domain.Sweet
// @Router /sweets [get]
func (h *Handler) ListSweetsHandler(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.Service.List(r.Context())
	h.handleServiceResponse(w, r, sweets, err, http.StatusOK)
}

// GetSweetByIDHandler lida com a requisição GET /api/sweets/{id}.
// @Summary Busca um doce pelo ID
// @Tags sweets
// @Produce json
// @Param id path string true "ID do doce (UUID)"
// @Success 200 {object} domain.Sweet
// @Failure 404 {object} domain.ErrorResponse "Doce não encontrado"
// @Router /sweets/{id} [get]
func (h *Handler) GetSweetByIDHandler(w http.ResponseWriter, r *http.Request) {
	sweet, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, sweet, err, http.StatusOK)
}

// parseSearchFilter monta o SweetFilter a partir da query string.
func parseSearchFilter(r *http.Request) (domain.SweetFilter, error) {
	query := r.URL.Query()
	filter := domain.SweetFilter{
		Name:     query.Get("name"),
		Category: query.Get("category"),
	}

	if raw := query.Get("minPrice"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.SweetFilter{}, apperror.NewValidationError("minPrice deve ser um número.")
		}
		filter.MinPrice = &value
	}
	if raw := query.Get("maxPrice"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.SweetFilter{}, apperror.NewValidationError("maxPrice deve ser um número.")
		}
		filter.MaxPrice = &value
	}

	return filter, nil
}

// SearchSweetsHandler lida com a requisição GET /api/sweets/search.
// Cada filtro presente restringe o resultado (AND); sem filtros, o
// comportamento é idêntico à listagem.
// @Summary Busca doces por nome, categoria e faixa de preço
// @Tags sweets
// @Produce json
// @Param name query string false "Substring do nome (case-insensitive)"
// @Param category query string false "Substring da categoria (case-insensitive)"
// @Param minPrice query number false "Preço mínimo (inclusivo)"
// @Param maxPrice query number false "Preço máximo (inclusivo)"
// @Success 200 {array} domain.Sweet
// @Failure 400 {object} domain.ErrorResponse "Parâmetro de preço inválido"
// @Router /sweets/search [get]
func (h *Handler) SearchSweetsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSearchFilter(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	sweets, err := h.Service.Search(r.Context(), filter)
	h.handleServiceResponse(w, r, sweets, err, http.StatusOK)
}

// UpdateSweetHandler lida com a requisição PUT /api/sweets/{id}.
// @Summary Atualiza campos de um doce (parcial)
// @Tags sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do doce (UUID)"
// @Param sweet body domain.SweetUpdate true "Campos a atualizar"
// @Success 200 {object} domain.Sweet
// @Failure 400 {object} domain.ErrorResponse "Dados inválidos"
// @Failure 403 {object} domain.ErrorResponse "Apenas admin"
// @Failure 404 {object} domain.ErrorResponse "Doce não encontrado"
// @Router /sweets/{id} [put]
func (h *Handler) UpdateSweetHandler(w http.ResponseWriter, r *http.Request) {
	var patch domain.SweetUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), 0)
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), patch)
	h.handleServiceResponse(w, r, updated, err, http.StatusOK)
}

// DeleteSweetHandler lida com a requisição DELETE /api/sweets/{id}.
// A remoção é permanente (não há soft-delete).
// @Summary Remove um doce do catálogo
// @Tags sweets
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do doce (UUID)"
// @Success 200 {object} map[string]string
// @Failure 403 {object} domain.ErrorResponse "Apenas admin"
// @Failure 404 {object} domain.ErrorResponse "Doce não encontrado"
// @Router /sweets/{id} [delete]
func (h *Handler) DeleteSweetHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.Delete(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, map[string]string{"message": "Doce removido com sucesso."}, err, http.StatusOK)
}

// PurchaseSweetHandler lida com a requisição POST /api/sweets/{id}/purchase.
// @Summary Compra unidades de um doce (decrementa o estoque)
// @Tags sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do doce (UUID)"
// @Param purchase body QuantityRequest true "Quantidade a comprar"
// @Success 200 {object} domain.Sweet
// @Failure 400 {object} domain.ErrorResponse "Quantidade inválida ou estoque insuficiente"
// @Failure 404 {object} domain.ErrorResponse "Doce não encontrado"
// @Router /sweets/{id}/purchase [post]
func (h *Handler) PurchaseSweetHandler(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), 0)
		return
	}

	sweet, err := h.Service.Purchase(r.Context(), r.PathValue("id"), req.Quantity)
	h.handleServiceResponse(w, r, sweet, err, http.StatusOK)
}

// RestockSweetHandler lida com a requisição POST /api/sweets/{id}/restock.
// @Summary Repõe unidades de um doce (incrementa o estoque)
// @Tags sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do doce (UUID)"
// @Param restock body QuantityRequest true "Quantidade a repor"
// @Success 200 {object} domain.Sweet
// @Failure 400 {object} domain.ErrorResponse "Quantidade inválida"
// @Failure 403 {object} domain.ErrorResponse "Apenas admin"
// @Failure 404 {object} domain.ErrorResponse "Doce não encontrado"
// @Router /sweets/{id}/restock [post]
func (h *Handler) RestockSweetHandler(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), 0)
		return
	}

	sweet, err := h.Service.Restock(r.Context(), r.PathValue("id"), req.Quantity)
	h.handleServiceResponse(w, r, sweet, err, http.StatusOK)
}
