package domain

import (
	"context"
	"time"
)

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Constantes para os papéis de usuário. O domínio conhece exatamente dois papéis:
// admin (gestão do catálogo e do estoque) e customer (compra).
const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// IsValid informa se o papel é um dos dois papéis aceitos pelo domínio.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// UserRegistration representa o payload de entrada para o registro.
// Role é opcional; quando ausente, o serviço assume RoleCustomer.
type UserRegistration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}
