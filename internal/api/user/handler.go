package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sweetshop/internal/domain"
	apperror "sweetshop/internal/errors"
	"sweetshop/internal/pkg/logger"
	"sweetshop/internal/pkg/middleware"
)

// UserService define o contrato que o Handler espera da camada de Serviço.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (string, domain.User, error)
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Handler agrupa os métodos de Handler de autenticação.
type Handler struct {
	Service   UserService
	Logger    logger.Logger
	CookieTTL time.Duration
}

// NewHandler cria uma nova instância do Handler, injetando o Service, o
// Logger e o TTL do cookie de sessão (igual ao TTL do token).
func NewHandler(svc UserService, log logger.Logger, cookieTTL time.Duration) *Handler {
	return &Handler{
		Service:   svc,
		Logger:    log,
		CookieTTL: cookieTTL,
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

// RegisterUserHandler lida com a requisição POST /api/auth/register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário, hasheia a senha e salva no banco de dados.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Credenciais de registro (email, senha e role opcional)"
// @Success 201 {object} map[string]interface{} "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auth/register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reg domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), 0)
		return
	}

	newUser, err := h.Service.Register(ctx, reg)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	// O hash nunca aparece na resposta: domain.User usa a tag json:"-".
	response := map[string]interface{}{
		"message": "Usuário registrado com sucesso.",
		"user":    newUser,
	}
	h.handleServiceResponse(w, r, response, nil, http.StatusCreated)
}

// LoginUserHandler lida com a requisição POST /api/auth/login.
// Além do token no corpo, a sessão é entregue em um cookie HTTP-only para
// clientes navegador.
// @Summary Autentica um usuário e emite um token de sessão
// @Description Recebe email/senha, verifica as credenciais e emite um JWT (corpo + cookie HTTP-only).
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário (email e senha)"
// @Success 200 {object} map[string]interface{} "Token emitido e dados do usuário"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auth/login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), 0)
		return
	}

	tokenString, loggedUser, err := h.Service.Login(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(h.CookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response := map[string]interface{}{
		"token": tokenString,
		"user":  loggedUser,
	}
	h.handleServiceResponse(w, r, response, nil, http.StatusOK)
}

// LogoutUserHandler lida com a requisição POST /api/auth/logout.
// Apenas limpa o cookie do lado do cliente; o token em si continua válido
// até expirar (não há lista de revogação).
// @Summary Encerra a sessão do cliente
// @Description Limpa o cookie de sessão. O token emitido permanece válido até o fim do TTL.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Sessão encerrada"
// @Router /auth/logout [post]
func (h *Handler) LogoutUserHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.handleServiceResponse(w, r, map[string]string{"message": "Logout realizado com sucesso."}, nil, http.StatusOK)
}
