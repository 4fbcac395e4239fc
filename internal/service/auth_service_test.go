package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

func newAuthFixture() (*AuthService, *memAccountRepo) {
	accounts := newMemAccountRepo()
	svc := NewAuthService(AuthDependencies{
		AccountRepo: accounts,
		Tokens:      auth.NewTokenManager("test-secret", 15),
		Logger:      zap.NewNop(),
		BcryptCost:  bcrypt.MinCost,
	})
	return svc, accounts
}

func TestRegisterCustomer(t *testing.T) {
	svc, _ := newAuthFixture()

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "Jamie@Example.com",
		Password:  "hunter2hunter2",
		FirstName: "Jamie",
		LastName:  "Rivera",
		Role:      domain.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, "jamie@example.com", result.Account.Email)
	assert.True(t, result.Account.IsApproved)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "hunter2hunter2", result.Account.PasswordHash)
}

func TestRegisterDesignerStartsUnapproved(t *testing.T) {
	svc, _ := newAuthFixture()

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "d@example.com",
		Password:  "hunter2hunter2",
		FirstName: "Dana",
		LastName:  "Kim",
		Role:      domain.RoleDesigner,
	})
	require.NoError(t, err)
	assert.False(t, result.Account.IsApproved)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "bad", Password: "hunter2hunter2", FirstName: "A", LastName: "B", Role: domain.RoleCustomer},
		{Email: "a@example.com", Password: "short", FirstName: "A", LastName: "B", Role: domain.RoleCustomer},
		{Email: "a@example.com", Password: "hunter2hunter2", FirstName: "", LastName: "B", Role: domain.RoleCustomer},
		{Email: "a@example.com", Password: "hunter2hunter2", FirstName: "A", LastName: "B", Role: domain.RoleAdmin},
		{Email: "a@example.com", Password: "hunter2hunter2", FirstName: "A", LastName: "B", Role: "archduke"},
	}
	for _, input := range cases {
		_, err := svc.Register(ctx, input)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	input := RegisterInput{
		Email:     "dup@example.com",
		Password:  "hunter2hunter2",
		FirstName: "A",
		LastName:  "B",
		Role:      domain.RoleCustomer,
	}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email:     "login@example.com",
		Password:  "hunter2hunter2",
		FirstName: "A",
		LastName:  "B",
		Role:      domain.RoleCustomer,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "LOGIN@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login(ctx, "login@example.com", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))

	_, err = svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
}
