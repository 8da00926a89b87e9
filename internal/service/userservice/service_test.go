package userservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"sweetshop/internal/domain"
	apperror "sweetshop/internal/errors"
	"sweetshop/internal/pkg/logger"
	"sweetshop/internal/service/userservice"
)

// MockUserRepository é uma implementação mock da interface domain.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

// MockTokenService é uma implementação mock do contrato de emissão de tokens.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID string, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

func newTestService(repo *MockUserRepository, tokenSvc *MockTokenService) *userservice.UserService {
	return userservice.NewService(repo, tokenSvc, logger.NewLogger("error"))
}

// TestRegister_Success_DefaultRole testa o registro sem role explícita:
// a role assume customer e a senha é persistida como hash bcrypt.
func TestRegister_Success_DefaultRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenService)
	svc := newTestService(mockRepo, mockToken)

	var savedUser domain.User
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			savedUser = args.Get(1).(domain.User)
		}).
		Return(domain.User{ID: uuid.NewString(), Email: "a@x.com", Role: domain.RoleCustomer}, nil)

	reg := domain.UserRegistration{Email: "a@x.com", Password: "pw123456"}
	user, err := svc.Register(context.Background(), reg)

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)

	// O hash deve ser um bcrypt válido da senha original, nunca a senha em si.
	assert.NotEqual(t, "pw123456", savedUser.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedUser.PasswordHash), []byte("pw123456")))
	mockRepo.AssertExpectations(t)
}

// TestRegister_Success_AdminRole testa o registro com role admin explícita.
func TestRegister_Success_AdminRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenService)
	svc := newTestService(mockRepo, mockToken)

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.User")).
		Return(domain.User{ID: uuid.NewString(), Email: "adm@x.com", Role: domain.RoleAdmin}, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{
		Email: "adm@x.com", Password: "pw123456", Role: "admin",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	mockRepo.AssertExpectations(t)
}

// TestRegister_Fail_InvalidRole testa que roles fora do enum são rejeitadas.
func TestRegister_Fail_InvalidRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenService)
	svc := newTestService(mockRepo, mockToken)

	_, err := svc.Register(context.Background(), domain.UserRegistration{
		Email: "a@x.com", Password: "pw123456", Role: "superuser",
	})

	assert.Error(t, err)
	var validationErr *apperror.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields, "role")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestRegister_Fail_MissingFields testa email e senha obrigatórios.
func TestRegister_Fail_MissingFields(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenService)
	svc := newTestService(mockRepo, mockToken)

	_, err := svc.Register(context.Background(), domain.UserRegistration{})

	assert.Error(t, err)
	var validationErr *apperror.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields, "email")
	assert.Contains(t, validationErr.Fields, "password")
}

// TestRegister_Fail_DuplicateEmail testa que um segundo registro com o mesmo
// email sempre falha com DUPLICATE_EMAIL, independente de senha ou role.
func TestRegister_Fail_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenService)
	svc := newTestService(mockRepo, mockToken)

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.User")).
		Return(domain.User{}, apperror.NewDuplicateEmailError("a@x.com"))

	_, err := svc.Register(context.Background(), domain.UserRegistration{
		Email: "a@x.com", Password: "outra-senha", Role: "admin",
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.DuplicateEmailError{}, err)
	appErr := err.(apperror.AppError)
	assert.Equal(t, "DUPLICATE_EMAIL", appErr.Category())
	assert.Equal(t, 400, appErr.HTTPStatus())
}

// TestLogin_Success testa o login com credenciais corretas.
func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenService)
	svc := newTestService(mockRepo, mockToken)

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.DefaultCost)
	userID := uuid.NewString()
	stored := domain.User{ID: userID, Email: "a@x.com", PasswordHash: string(hash), Role: domain.RoleAdmin}

	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(stored, nil)
	mockToken.On("GenerateToken", userID, "admin").Return("jwt-token", nil)

	tokenString, user, err := svc.Login(context.Background(), "a@x.com", "pw123456")

	assert.NoError(t, err)
	assert.Equal(t, "jwt-token", tokenString)
	assert.Equal(t, userID, user.ID)
	mockRepo.AssertExpectations(t)
	mockToken.AssertExpectations(t)
}

// TestLogin_Fail_SameErrorForBothCases testa que conta inexistente e senha
// incorreta produzem exatamente o mesmo erro 401, sem revelar qual ocorreu.
func TestLogin_Fail_SameErrorForBothCases(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenService)
	svc := newTestService(mockRepo, mockToken)

	hash, _ := bcrypt.GenerateFromPassword([]byte("senha-certa"), bcrypt.DefaultCost)
	stored := domain.User{ID: uuid.NewString(), Email: "a@x.com", PasswordHash: string(hash), Role: domain.RoleCustomer}

	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(stored, nil)
	mockRepo.On("FindByEmail", mock.Anything, "fantasma@x.com").
		Return(domain.User{}, apperror.NewNotFoundError("não encontrado"))

	_, _, errWrongPassword := svc.Login(context.Background(), "a@x.com", "senha-errada")
	_, _, errNoAccount := svc.Login(context.Background(), "fantasma@x.com", "qualquer")

	assert.Error(t, errWrongPassword)
	assert.Error(t, errNoAccount)
	assert.Equal(t, errWrongPassword.Error(), errNoAccount.Error())
	assert.Equal(t, 401, errWrongPassword.(apperror.AppError).HTTPStatus())
	assert.Equal(t, 401, errNoAccount.(apperror.AppError).HTTPStatus())
	mockToken.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}
