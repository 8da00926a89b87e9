package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"sweetshop/internal/api/router"
	"sweetshop/internal/api/sweet"
	"sweetshop/internal/api/user"
	"sweetshop/internal/domain"
	apperror "sweetshop/internal/errors"
	"sweetshop/internal/pkg/logger"
	"sweetshop/internal/pkg/middleware"
	"sweetshop/internal/pkg/token"
	"sweetshop/internal/service/sweetservice"
	"sweetshop/internal/service/userservice"
)

// --- Fakes em memória (substituem o Postgres nos testes de API) ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User // chave: email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) Save(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[u.Email]; exists {
		return domain.User{}, apperror.NewDuplicateEmailError(u.Email)
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.Email] = u
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, exists := r.users[email]
	if !exists {
		return domain.User{}, apperror.NewNotFoundError("usuário não encontrado")
	}
	return u, nil
}

type fakeSweetRepo struct {
	mu     sync.Mutex
	sweets map[string]domain.Sweet
}

func newFakeSweetRepo() *fakeSweetRepo {
	return &fakeSweetRepo{sweets: map[string]domain.Sweet{}}
}

func (r *fakeSweetRepo) Save(ctx context.Context, s domain.Sweet) (domain.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	r.sweets[s.ID] = s
	return s, nil
}

func (r *fakeSweetRepo) FindByID(ctx context.Context, id string) (domain.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, exists := r.sweets[id]
	if !exists {
		return domain.Sweet{}, apperror.NewNotFoundError("doce não encontrado")
	}
	return s, nil
}

func (r *fakeSweetRepo) FindAll(ctx context.Context, filter domain.SweetFilter) ([]domain.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Sweet{}
	for _, s := range r.sweets {
		if filter.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Category != "" && !strings.Contains(strings.ToLower(s.Category), strings.ToLower(filter.Category)) {
			continue
		}
		if filter.MinPrice != nil && s.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && s.Price > *filter.MaxPrice {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (r *fakeSweetRepo) Update(ctx context.Context, s domain.Sweet) (domain.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sweets[s.ID]; !exists {
		return domain.Sweet{}, apperror.NewNotFoundError("doce não encontrado")
	}
	s.UpdatedAt = time.Now()
	r.sweets[s.ID] = s
	return s, nil
}

func (r *fakeSweetRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sweets[id]; !exists {
		return apperror.NewNotFoundError("doce não encontrado")
	}
	delete(r.sweets, id)
	return nil
}

func (r *fakeSweetRepo) AdjustStock(ctx context.Context, id string, delta int) (domain.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, exists := r.sweets[id]
	if !exists {
		return domain.Sweet{}, apperror.NewNotFoundError("doce não encontrado")
	}
	newStock := s.Stock + delta
	if newStock < 0 {
		return domain.Sweet{}, apperror.NewInsufficientStockError(s.Stock, -delta)
	}
	s.Stock = newStock
	s.UpdatedAt = time.Now()
	r.sweets[id] = s
	return s, nil
}

// --- Montagem da API completa sobre os fakes ---

type testAPI struct {
	handler   http.Handler
	sweetRepo *fakeSweetRepo
	userRepo  *fakeUserRepo
}

func newTestAPI() *testAPI {
	log := logger.NewLogger("error")
	tokenSvc := token.NewService("chave-de-teste", time.Hour)

	userRepo := newFakeUserRepo()
	userSvc := userservice.NewService(userRepo, tokenSvc, log)
	userHandler := user.NewHandler(userSvc, log, time.Hour)

	sweetRepo := newFakeSweetRepo()
	sweetSvc := sweetservice.NewService(sweetRepo, log)
	sweetHandler := sweet.NewHandler(sweetSvc, log)

	// cache nil e limit 0 desligam o rate limiter nos testes
	handler := router.NewRouter(sweetHandler, userHandler, tokenSvc, nil, 0, 0)

	return &testAPI{handler: handler, sweetRepo: sweetRepo, userRepo: userRepo}
}

func (api *testAPI) do(t *testing.T, method, path, tokenString string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if tokenString != "" {
		req.Header.Set("Authorization", "Bearer "+tokenString)
	}
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin registra um usuário e retorna o token de sessão.
func (api *testAPI) registerAndLogin(t *testing.T, email, password, role string) string {
	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": password, "role": role,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotEmpty(t, body.Token)
	return body.Token
}

func decodeSweet(t *testing.T, rec *httptest.ResponseRecorder) domain.Sweet {
	var s domain.Sweet
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&s))
	return s
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorResponse {
	var e domain.ErrorResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
	return e
}

// --- Cenários ---

// TestScenario_AdminCreateAndPurchase percorre o fluxo completo: registro de
// admin, login, criação de doce, compra acima do estoque (falha) e compra
// que zera o estoque.
func TestScenario_AdminCreateAndPurchase(t *testing.T) {
	api := newTestAPI()
	adminToken := api.registerAndLogin(t, "a@x.com", "pw123456", "admin")

	rec := api.do(t, http.MethodPost, "/api/sweets", adminToken, map[string]interface{}{
		"name": "X", "category": "Y", "price": 1, "stock": 5,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	created := decodeSweet(t, rec)
	assert.Equal(t, 5, created.Stock)

	// Compra acima do estoque: 400 INSUFFICIENT_STOCK, estoque intacto.
	rec = api.do(t, http.MethodPost, fmt.Sprintf("/api/sweets/%s/purchase", created.ID), adminToken,
		map[string]interface{}{"quantity": 6})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, rec).Category)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/sweets/%s", created.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, decodeSweet(t, rec).Stock)

	// Compra exata: 200 com estoque zerado.
	rec = api.do(t, http.MethodPost, fmt.Sprintf("/api/sweets/%s/purchase", created.ID), adminToken,
		map[string]interface{}{"quantity": 5})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeSweet(t, rec).Stock)
}

// TestScenario_PurchaseThenRestockRestoresStock testa a propriedade de ida e
// volta: purchase(q) seguido de restock(q) restaura o estoque original.
func TestScenario_PurchaseThenRestockRestoresStock(t *testing.T) {
	api := newTestAPI()
	adminToken := api.registerAndLogin(t, "a@x.com", "pw123456", "admin")

	rec := api.do(t, http.MethodPost, "/api/sweets", adminToken, map[string]interface{}{
		"name": "Torrone", "category": "Nozes", "price": 8, "stock": 12,
	})
	created := decodeSweet(t, rec)

	rec = api.do(t, http.MethodPost, fmt.Sprintf("/api/sweets/%s/purchase", created.ID), adminToken,
		map[string]interface{}{"quantity": 7})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, decodeSweet(t, rec).Stock)

	rec = api.do(t, http.MethodPost, fmt.Sprintf("/api/sweets/%s/restock", created.ID), adminToken,
		map[string]interface{}{"quantity": 7})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 12, decodeSweet(t, rec).Stock)
}

// TestScenario_AccessControl testa os portões de acesso: criação sem token
// responde 401 e remoção por customer responde 403 mantendo o item.
func TestScenario_AccessControl(t *testing.T) {
	api := newTestAPI()
	adminToken := api.registerAndLogin(t, "adm@x.com", "pw123456", "admin")
	customerToken := api.registerAndLogin(t, "cli@x.com", "pw123456", "customer")

	// Sem token: 401.
	rec := api.do(t, http.MethodPost, "/api/sweets", "", map[string]interface{}{
		"name": "Pirulito", "category": "Açúcar", "price": 0.5,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, rec).Category)

	// Admin cria o item.
	rec = api.do(t, http.MethodPost, "/api/sweets", adminToken, map[string]interface{}{
		"name": "Pirulito", "category": "Açúcar", "price": 0.5, "stock": 3,
	})
	created := decodeSweet(t, rec)

	// Customer tenta deletar: 403 e o item continua existindo.
	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/api/sweets/%s", created.ID), customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/sweets/%s", created.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Customer também não repõe estoque.
	rec = api.do(t, http.MethodPost, fmt.Sprintf("/api/sweets/%s/restock", created.ID), customerToken,
		map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Mas compra normalmente.
	rec = api.do(t, http.MethodPost, fmt.Sprintf("/api/sweets/%s/purchase", created.ID), customerToken,
		map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusOK, rec.Code)

	// E o admin remove.
	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/api/sweets/%s", created.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/sweets/%s", created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestScenario_SearchFiltersComposeAsAND testa a composição AND dos filtros
// de busca sobre um catálogo conhecido.
func TestScenario_SearchFiltersComposeAsAND(t *testing.T) {
	api := newTestAPI()
	adminToken := api.registerAndLogin(t, "a@x.com", "pw123456", "admin")

	seed := []map[string]interface{}{
		{"name": "Chocolate Bar", "category": "Chocolate", "price": 2, "stock": 1},
		{"name": "Gummy Bears", "category": "Candy", "price": 1, "stock": 1},
		{"name": "Truffle", "category": "Chocolate", "price": 50, "stock": 1},
	}
	for _, item := range seed {
		rec := api.do(t, http.MethodPost, "/api/sweets", adminToken, item)
		assert.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := api.do(t, http.MethodGet, "/api/sweets/search?category=Chocolate&maxPrice=10", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var results []domain.Sweet
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&results))
	assert.Len(t, results, 1)
	assert.Equal(t, "Chocolate Bar", results[0].Name)

	// Busca sem filtros equivale à listagem completa.
	rec = api.do(t, http.MethodGet, "/api/sweets/search", "", nil)
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&results))
	assert.Len(t, results, 3)
}

// TestScenario_RegisterIsNotIdempotent testa que o segundo registro com o
// mesmo email sempre responde 400, independente de senha ou role.
func TestScenario_RegisterIsNotIdempotent(t *testing.T) {
	api := newTestAPI()

	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "a@x.com", "password": "pw123456",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "a@x.com", "password": "outra", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", decodeError(t, rec).Category)
}

// TestScenario_LoginSetsSessionCookie testa o contrato de transporte: o login
// entrega o cookie HTTP-only e o cookie sozinho autentica uma criação.
func TestScenario_LoginSetsSessionCookie(t *testing.T) {
	api := newTestAPI()

	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "a@x.com", "password": "pw123456", "role": "admin",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "pw123456",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			sessionCookie = c
		}
	}
	assert.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.NotEmpty(t, sessionCookie.Value)

	// Autenticação só pelo cookie, sem header.
	body, _ := json.Marshal(map[string]interface{}{
		"name": "Cocada", "category": "Coco", "price": 3, "stock": 2,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/sweets", bytes.NewBuffer(body))
	req.AddCookie(sessionCookie)
	cookieRec := httptest.NewRecorder()
	api.handler.ServeHTTP(cookieRec, req)
	assert.Equal(t, http.StatusCreated, cookieRec.Code)

	// Logout limpa o cookie do cliente.
	rec = api.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			assert.Empty(t, c.Value)
			assert.True(t, c.MaxAge < 0)
		}
	}
}

// TestScenario_InvalidCredentials testa que email errado e senha errada
// respondem o mesmo 401.
func TestScenario_InvalidCredentials(t *testing.T) {
	api := newTestAPI()

	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "a@x.com", "password": "pw123456",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	recWrongPassword := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "errada",
	})
	recNoAccount := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ninguem@x.com", "password": "pw123456",
	})

	assert.Equal(t, http.StatusUnauthorized, recWrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, recNoAccount.Code)
	assert.Equal(t, decodeError(t, recWrongPassword).Message, decodeError(t, recNoAccount).Message)
}

// TestScenario_CreateRoundTrip testa que um item criado aparece na listagem
// com os mesmos valores de campo.
func TestScenario_CreateRoundTrip(t *testing.T) {
	api := newTestAPI()
	adminToken := api.registerAndLogin(t, "a@x.com", "pw123456", "admin")

	rec := api.do(t, http.MethodPost, "/api/sweets", adminToken, map[string]interface{}{
		"name": "Alfajor", "category": "Doce de Leite", "price": 6.5, "stock": 9,
	})
	created := decodeSweet(t, rec)

	rec = api.do(t, http.MethodGet, "/api/sweets", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var listed []domain.Sweet
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&listed))
	assert.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, "Alfajor", listed[0].Name)
	assert.Equal(t, "Doce de Leite", listed[0].Category)
	assert.Equal(t, 6.5, listed[0].Price)
	assert.Equal(t, 9, listed[0].Stock)
}

// TestScenario_UpdatePartial testa a atualização parcial via PUT: apenas os
// campos enviados mudam.
func TestScenario_UpdatePartial(t *testing.T) {
	api := newTestAPI()
	adminToken := api.registerAndLogin(t, "a@x.com", "pw123456", "admin")

	rec := api.do(t, http.MethodPost, "/api/sweets", adminToken, map[string]interface{}{
		"name": "Suspiro", "category": "Merengue", "price": 2, "stock": 10,
	})
	created := decodeSweet(t, rec)

	rec = api.do(t, http.MethodPut, fmt.Sprintf("/api/sweets/%s", created.ID), adminToken,
		map[string]interface{}{"price": 15, "stock": 5})
	assert.Equal(t, http.StatusOK, rec.Code)

	updated := decodeSweet(t, rec)
	assert.Equal(t, "Suspiro", updated.Name)
	assert.Equal(t, "Merengue", updated.Category)
	assert.Equal(t, 15.0, updated.Price)
	assert.Equal(t, 5, updated.Stock)

	// PUT em ID inexistente: 404.
	rec = api.do(t, http.MethodPut, fmt.Sprintf("/api/sweets/%s", uuid.NewString()), adminToken,
		map[string]interface{}{"price": 20})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestScenario_InvalidQuantityVariants testa as variantes de quantidade
// inválida na rota de compra.
func TestScenario_InvalidQuantityVariants(t *testing.T) {
	api := newTestAPI()
	adminToken := api.registerAndLogin(t, "a@x.com", "pw123456", "admin")

	rec := api.do(t, http.MethodPost, "/api/sweets", adminToken, map[string]interface{}{
		"name": "Jujuba", "category": "Goma", "price": 0.25, "stock": 50,
	})
	created := decodeSweet(t, rec)

	for _, body := range []map[string]interface{}{
		{},                // ausente
		{"quantity": 0},   // zero
		{"quantity": -2},  // negativa
		{"quantity": 1.5}, // fracionária
	} {
		rec = api.do(t, http.MethodPost, fmt.Sprintf("/api/sweets/%s/purchase", created.ID), adminToken, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_QUANTITY", decodeError(t, rec).Category)
	}
}
