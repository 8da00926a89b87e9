package userservice

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"sweetshop/internal/domain"
	apperror "sweetshop/internal/errors"
	"sweetshop/internal/pkg/logger"
)

// TokenService é o contrato da camada de token necessário para o login.
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
}

// UserService implementa a lógica de negócio de registro e autenticação.
// É o único componente que manipula senhas em texto puro; depois do hash
// no registro, nenhuma outra camada vê a senha original.
type UserService struct {
	UserRepo domain.UserRepository
	TokenSvc TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do UserService, injetando as dependências.
func NewService(repo domain.UserRepository, tokenSvc TokenService, log logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   log,
	}
}

// Register registra um novo usuário no sistema. O hash da senha é computado
// exatamente uma vez, aqui; a role ausente vira customer e roles fora do
// enum são rejeitadas.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	fields := map[string]string{}
	if registration.Email == "" {
		fields["email"] = "O email é obrigatório."
	}
	if registration.Password == "" {
		fields["password"] = "A senha é obrigatória."
	}

	role := domain.UserRole(registration.Role)
	if registration.Role == "" {
		role = domain.RoleCustomer
	} else if !role.IsValid() {
		fields["role"] = "A role deve ser 'admin' ou 'customer'."
	}

	if len(fields) > 0 {
		return domain.User{}, apperror.NewFieldValidationError("Dados de registro inválidos.", fields)
	}

	// bcrypt com custo padrão (10), salted e one-way.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	newUser := domain.User{
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	user, err := s.UserRepo.Save(ctx, newUser)
	if err != nil {
		// DuplicateEmailError e erros de DB sobem como estão; o handler traduz.
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "role": string(user.Role)})
	return user, nil
}

// Login autentica um usuário, verifica a senha e emite um token de sessão.
// Conta inexistente e senha incorreta produzem o MESMO erro 401, para não
// revelar qual dos dois casos ocorreu.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, domain.User, error) {
	if email == "" || password == "" {
		return "", domain.User{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return "", domain.User{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", domain.User{}, err
	}

	// Comparação de estrutura constante provida pelo bcrypt.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", domain.User{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Login realizado.", map[string]interface{}{"user_id": user.ID})
	return tokenString, user, nil
}
