package errors

import (
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do SweetShop.
// Ela permite que o código externo (Handler, Middleware) acesse a Categoria
// e o status HTTP sugerido sem conhecer o tipo concreto.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria estável do erro (e.g., "VALIDATION_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular o erro subjacente
}

// --- Erros de Validação ---

// ValidationError representa falhas de validação de dados de entrada.
// Fields carrega mensagens por campo quando a validação é de formulário.
type ValidationError struct {
	Msg    string
	Fields map[string]string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação simples.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NewFieldValidationError cria um erro de validação com mensagens por campo.
func NewFieldValidationError(msg string, fields map[string]string) AppError {
	return &ValidationError{Msg: msg, Fields: fields}
}

// DuplicateEmailError indica tentativa de registro com e-mail já existente.
// O original responde 400 (não 409) para este caso; mantemos o contrato.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("O email '%s' já está em uso.", e.Email)
}
func (e *DuplicateEmailError) Category() string { return "DUPLICATE_EMAIL" }
func (e *DuplicateEmailError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *DuplicateEmailError) Unwrap() error    { return nil }

// NewDuplicateEmailError cria um erro de e-mail duplicado.
func NewDuplicateEmailError(email string) AppError {
	return &DuplicateEmailError{Email: email}
}

// --- Erros de Autenticação e Autorização ---

// UnauthorizedError representa falhas de autenticação (401). Reason distingue
// as variantes do token (ausente, inválido, expirado) de forma estável para o
// cliente, sem vazar detalhes internos.
type UnauthorizedError struct {
	Msg    string
	Reason string
}

func (e *UnauthorizedError) Error() string { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "UNAUTHORIZED"
}
func (e *UnauthorizedError) HTTPStatus() int { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error   { return nil }

// NewUnauthorizedError cria um erro 401 genérico (e.g., credenciais inválidas).
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// NewMissingTokenError indica requisição sem token de sessão.
func NewMissingTokenError() AppError {
	return &UnauthorizedError{Msg: "Token de autenticação ausente.", Reason: "MISSING_TOKEN"}
}

// NewInvalidTokenError indica token malformado ou com assinatura inválida.
func NewInvalidTokenError() AppError {
	return &UnauthorizedError{Msg: "Token de autenticação inválido.", Reason: "INVALID_TOKEN"}
}

// NewExpiredTokenError indica token com prazo de validade vencido.
func NewExpiredTokenError() AppError {
	return &UnauthorizedError{Msg: "Token de autenticação expirado.", Reason: "EXPIRED_TOKEN"}
}

// ForbiddenError representa acesso negado por papel insuficiente (403).
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("Acesso negado: %s", e.Msg) }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um erro de permissão insuficiente.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// --- Erros de Recurso ---

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// --- Erros do Livro de Estoque ---

// InvalidQuantityError indica quantidade ausente, não inteira, zero ou negativa
// em uma operação de compra ou reposição.
type InvalidQuantityError struct {
	Msg string
}

func (e *InvalidQuantityError) Error() string    { return fmt.Sprintf("Quantidade inválida: %s", e.Msg) }
func (e *InvalidQuantityError) Category() string { return "INVALID_QUANTITY" }
func (e *InvalidQuantityError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *InvalidQuantityError) Unwrap() error    { return nil }

// NewInvalidQuantityError cria um erro de quantidade inválida.
func NewInvalidQuantityError(msg string) AppError {
	return &InvalidQuantityError{Msg: msg}
}

// InsufficientStockError indica compra acima do estoque disponível.
// O registro permanece intacto quando este erro é retornado.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Estoque insuficiente: disponível %d, solicitado %d.", e.Available, e.Requested)
}
func (e *InsufficientStockError) Category() string { return "INSUFFICIENT_STOCK" }
func (e *InsufficientStockError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *InsufficientStockError) Unwrap() error    { return nil }

// NewInsufficientStockError cria um erro de estoque insuficiente.
func NewInsufficientStockError(available, requested int) AppError {
	return &InsufficientStockError{Available: available, Requested: requested}
}

// --- Erros de Infraestrutura ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor para falhas não previstas.
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB): %s", msg, err.Error()), err)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP, a categoria
// e a mensagem da resposta. Erros não tipados viram 500 genérico sem vazar
// detalhe interno ao cliente.
func MapToHTTPStatus(err error) (int, string, string) {
	if appErr, ok := err.(AppError); ok {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "Ocorreu um erro inesperado."
}
