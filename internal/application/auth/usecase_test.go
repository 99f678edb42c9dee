package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/Almacen-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuthUC() *auth.AuthUseCase {
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.UserRepo(), auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "almacen-api-test",
	})
}

func TestRegister_YLogin(t *testing.T) {
	uc := newAuthUC()

	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@almacen.co",
		Password: "secreto-largo",
		Name:     "Ana",
		Role:     entity.RoleBodeguero,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ana@almacen.co", user.Email)
	assert.Equal(t, entity.RoleBodeguero, user.Role)
	assert.Equal(t, "active", user.Status)

	resp, err := uc.Login(dto.LoginRequest{Email: "ana@almacen.co", Password: "secreto-largo"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	// El token emitido debe parsear con el mismo secret y llevar los claims.
	userID, role, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, entity.RoleBodeguero, role)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc := newAuthUC()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@almacen.co", Password: "secreto-largo"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@almacen.co", Password: "otro-secreto"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_RolPorDefecto(t *testing.T) {
	uc := newAuthUC()

	user, err := uc.RegisterUser(dto.RegisterRequest{Email: "sin-rol@almacen.co", Password: "secreto-largo"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, user.Role, "sin rol explícito se asigna vendedor")
	assert.Equal(t, "sin-rol@almacen.co", user.Name, "sin nombre se usa el email")
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := newAuthUC()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@almacen.co", Password: "secreto-largo"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@almacen.co", Password: "equivocado"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := newAuthUC()

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@almacen.co", Password: "lo-que-sea"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
