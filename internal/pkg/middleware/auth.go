package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"sweetshop/internal/domain"
	apperror "sweetshop/internal/errors"
	"sweetshop/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
// Usamos um tipo próprio para garantir que a chave seja única e não haja
// conflito com chaves string de outros pacotes.
type ContextKey int

const (
	// UserClaimsKey é a chave usada para armazenar as claims do usuário no contexto.
	UserClaimsKey ContextKey = iota
)

// SessionCookieName é o nome do cookie HTTP-only que transporta o token de
// sessão para clientes navegador. Clientes sem cookie usam o header Bearer.
const SessionCookieName = "token"

// UserClaims representa os dados do usuário extraídos do token de sessão,
// anexados ao contexto da requisição após a autenticação.
type UserClaims struct {
	UserID string
	Role   domain.UserRole
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// extractToken procura o token de sessão na requisição: primeiro no header
// Authorization (Bearer), depois no cookie de sessão. O header tem precedência
// quando os dois canais estão presentes.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") || len(authHeader) <= 7 {
			return "", apperror.NewInvalidTokenError()
		}
		return authHeader[7:], nil
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", apperror.NewMissingTokenError()
}

// NewAuthMiddleware cria uma função de middleware que valida o token de sessão
// e anexa as claims (UserID e Role) ao contexto da requisição. Qualquer falha
// (token ausente, inválido ou expirado) responde 401 com a categoria do erro.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := extractToken(r)
			if err != nil {
				WriteError(w, err)
				return
			}

			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				WriteError(w, err)
				return
			}

			userClaims := UserClaims{
				UserID: claims.UserID,
				Role:   domain.UserRole(claims.Role),
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext extrai as claims anexadas pelo middleware de
// autenticação. O segundo retorno indica se a requisição está autenticada.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// PermissionMiddleware restringe o acesso às roles informadas. Assume que o
// middleware de autenticação já rodou; requisição sem claims no contexto é
// tratada como não autenticada. A autorização é estritamente por papel: um
// customer nunca passa por uma rota de admin, independente de outros atributos.
func PermissionMiddleware(requiredRoles ...domain.UserRole) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				WriteError(w, apperror.NewMissingTokenError())
				return
			}

			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			WriteError(w, apperror.NewForbiddenError("Você não tem a permissão necessária para esta operação."))
		}
	}
}

// WriteError serializa um erro da aplicação no formato padronizado de resposta.
// Exportado para que o middleware e os handlers usem o mesmo corpo de erro.
func WriteError(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	resp := domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	}

	var validationErr *apperror.ValidationError
	if errors.As(err, &validationErr) && validationErr.Fields != nil {
		resp.Fields = validationErr.Fields
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
