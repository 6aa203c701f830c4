package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
	"github.com/jhoicas/marketplace-api/pkg/jwt"
)

const testSecret = "clave-de-prueba-auth"

func newAuth(db *memory.DB, runner auth.SignupTxRunner) *auth.AuthUseCase {
	return auth.NewAuthUseCase(runner, db.Users(), db.Stores(), auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 15, Issuer: "marketplace-api-test",
	})
}

// ─── Registro ──────────────────────────────────────────────────────────────────

func TestSignup_CreaUsuarioYTienda(t *testing.T) {
	db := memory.New()
	uc := newAuth(db, db)
	ctx := context.Background()

	out, err := uc.Signup(ctx, dto.SignupRequest{Email: "  Ana@Ejemplo.com ", Password: "secreto123", Name: "Ana", StoreName: "Dulces Ana"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "ana@ejemplo.com", out.User.Email)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
	require.NotNil(t, out.Store)
	assert.Equal(t, "Dulces Ana", out.Store.Name)
	assert.Equal(t, out.User.ID, out.Store.OwnerID)
	assert.Equal(t, out.Store.ID, out.User.StoreID)

	userID, storeID, role, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, out.Store.ID, storeID)
	assert.Equal(t, entity.RoleAdmin, role)

	stored, err := db.Stores().GetByOwner(ctx, out.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, out.Store.ID, stored.ID)
}

func TestSignup_Validaciones(t *testing.T) {
	db := memory.New()
	uc := newAuth(db, db)
	ctx := context.Background()

	_, err := uc.Signup(ctx, dto.SignupRequest{Email: "", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Signup(ctx, dto.SignupRequest{Email: "a@b.co", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Signup(ctx, dto.SignupRequest{Email: "a@b.co", Password: "secreto123", StoreName: "Única"})
	require.NoError(t, err)
	_, err = uc.Signup(ctx, dto.SignupRequest{Email: "A@B.CO", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Signup(ctx, dto.SignupRequest{Email: "otro@b.co", Password: "secreto123", StoreName: "Única"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	u, err := db.Users().GetByEmail(ctx, "otro@b.co")
	require.NoError(t, err)
	assert.Nil(t, u, "si la tienda falla no queda el usuario")
}

// failingUsers falla al crear el usuario, después de que la tienda ya se insertó en la misma tx.
type failingUsers struct {
	repository.UserRepository
}

var errUserInsert = errors.New("insert users falló")

func (failingUsers) Create(context.Context, *entity.User) error { return errUserInsert }

type failingRunner struct{ db *memory.DB }

func (r failingRunner) RunSignup(ctx context.Context, fn func(users repository.UserRepository, stores repository.StoreRepository) error) error {
	return r.db.RunSignup(ctx, func(users repository.UserRepository, stores repository.StoreRepository) error {
		return fn(failingUsers{users}, stores)
	})
}

func TestSignup_FalloDelUsuarioNoDejaTienda(t *testing.T) {
	db := memory.New()
	uc := newAuth(db, failingRunner{db: db})
	ctx := context.Background()

	_, err := uc.Signup(ctx, dto.SignupRequest{Email: "luis@ejemplo.com", Password: "secreto123", StoreName: "Tienda Luis"})
	require.ErrorIs(t, err, errUserInsert)

	stores, err := db.Stores().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, stores)
}

// ─── Login ─────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	db := memory.New()
	uc := newAuth(db, db)
	ctx := context.Background()

	signup, err := uc.Signup(ctx, dto.SignupRequest{Email: "bodega@ejemplo.com", Password: "secreto123", Role: entity.RoleBodeguero})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "BODEGA@ejemplo.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, out.User.ID)
	assert.Equal(t, entity.RoleBodeguero, out.User.Role)
	assert.Equal(t, signup.Store.ID, out.Store.ID)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "bodega@ejemplo.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@ejemplo.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	db := memory.New()
	uc := newAuth(db, db)
	ctx := context.Background()

	signup, err := uc.Signup(ctx, dto.SignupRequest{Email: "pausa@ejemplo.com", Password: "secreto123"})
	require.NoError(t, err)

	u, err := db.Users().GetByID(ctx, signup.User.ID)
	require.NoError(t, err)
	u.Status = "suspended"
	require.NoError(t, db.Users().Update(ctx, u))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "pausa@ejemplo.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
