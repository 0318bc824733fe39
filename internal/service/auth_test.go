package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/riddlebox/riddle-api/internal/apperr"
	"github.com/riddlebox/riddle-api/internal/hash"
	"github.com/riddlebox/riddle-api/internal/models"
	"github.com/riddlebox/riddle-api/internal/repo"
	"github.com/riddlebox/riddle-api/internal/tokens"
)

func InitTestDB(t *testing.T) *repo.GormRepo {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Score{}, &models.Riddle{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return &repo.GormRepo{DB: db}
}

func newAuthService(t *testing.T) *AuthService {
	return &AuthService{
		Repo:      InitTestDB(t),
		Issuer:    tokens.NewIssuer([]byte("test_secret"), time.Hour),
		AdminCode: "super_secret_admin_code",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice_01", "password123", "")
	require.NoError(t, err)
	require.Equal(t, "alice_01", reg.User.Username)
	require.Equal(t, models.RoleUser, reg.User.Role)
	require.NotEmpty(t, reg.Token)

	login, err := svc.Login(ctx, "alice_01", "password123")
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, login.User.ID)

	claims, err := svc.Issuer.Parse(login.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, id)
	require.Equal(t, "alice_01", claims.Username)
	require.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "abcd", "password123", "")
	require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = svc.Register(ctx, "alice_01", "short", "")
	require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice_01", "password123", "")
	require.NoError(t, err)

	// Caught by the pre-query.
	_, err = svc.Register(ctx, "alice_01", "password456", "")
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterDuplicateViaConstraint(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	// Bypass the service pre-query path: the row appears between check and
	// insert, the unique constraint must still surface the same Conflict.
	require.NoError(t, svc.Repo.CreateUser(ctx, &models.User{Username: "alice_01", Role: models.RoleUser}))
	err := svc.Repo.CreateUser(ctx, &models.User{Username: "alice_01", Role: models.RoleUser})
	require.ErrorIs(t, err, repo.ErrUsernameTaken)

	_, regErr := svc.Register(ctx, "alice_01", "password123", "")
	require.Equal(t, apperr.KindConflict, apperr.KindOf(regErr))
}

func TestRegisterAdminCode(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "admin_user_01", "password123", "super_secret_admin_code")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, reg.User.Role)

	reg2, err := svc.Register(ctx, "plain_user_01", "password123", "wrong_code")
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, reg2.User.Role)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice_01", "password123", "")
	require.NoError(t, err)

	// Unknown user and wrong password produce the identical message.
	_, errUnknown := svc.Login(ctx, "no_such_user", "password123")
	_, errWrongPw := svc.Login(ctx, "alice_01", "wrongpass")

	for _, err := range []error{errUnknown, errWrongPw} {
		require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	}
	require.Equal(t, errUnknown.Error(), errWrongPw.Error())
	require.Equal(t, "Invalid username or password", errUnknown.Error())
}

func TestLoginLegacyUserWithoutPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.Repo.CreateUser(ctx, &models.User{Username: "old_timer", Role: models.RoleUser}))

	_, err := svc.Login(ctx, "old_timer", "whatever123")
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	require.NotEqual(t, "Invalid username or password", err.Error())
}

func TestResolveUser(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	pwHash, err := hash.HashPassword("password123")
	require.NoError(t, err)
	u := &models.User{Username: "alice_01", PasswordHash: pwHash, Role: models.RoleUser}
	require.NoError(t, svc.Repo.CreateUser(ctx, u))

	resolved, err := svc.ResolveUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, resolved.Username)

	missing, err := svc.ResolveUser(ctx, 9999)
	require.NoError(t, err)
	require.Nil(t, missing)
}
