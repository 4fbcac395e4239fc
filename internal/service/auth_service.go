package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// Roles a caller may self-select at registration. Staff roles are created
// out of band.
var registrableRoles = map[string]struct{}{
	domain.RoleCustomer: {},
	domain.RoleDesigner: {},
	domain.RoleVendor:   {},
}

// Roles that start approved. Everyone else waits for an admin.
var autoApprovedRoles = map[string]struct{}{
	domain.RoleCustomer: {},
}

// AuthService handles registration and login.
type AuthService struct {
	accounts   repository.AccountRepository
	tokens     *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies bundles collaborators for NewAuthService.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Tokens      *auth.TokenManager
	Logger      *zap.Logger
	BcryptCost  int
}

// RegisterInput carries a self-service signup.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	CityID    *string
}

// AuthResult is returned on successful register/login.
type AuthResult struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

// NewAuthService creates the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts:   deps.AccountRepo,
		tokens:     deps.Tokens,
		logger:     deps.Logger,
		bcryptCost: deps.BcryptCost,
	}
}

// TokenManager exposes the signer for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Register creates an account. Customers are usable immediately; designers
// and vendors stay unapproved until an admin reviews them, and logging in
// before approval yields an unapproved principal that every role gate
// rejects.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("a valid email is required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, apperrors.NewValidationError("first and last name are required", nil)
	}
	if _, ok := registrableRoles[input.Role]; !ok {
		return nil, apperrors.NewValidationError("role is not open for registration", map[string]any{"role": input.Role})
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email is already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	_, approved := autoApprovedRoles[input.Role]
	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
		Role:         input.Role,
		CityID:       input.CityID,
		IsApproved:   approved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("account registered",
		zap.String("account_id", account.ID),
		zap.String("role", account.Role),
		zap.Bool("approved", account.IsApproved))

	return s.issue(account)
}

// Login verifies credentials and issues a token. Unapproved accounts can
// log in; authorization gates reject them downstream.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthenticated("invalid credentials")
	}
	return s.issue(account)
}

func (s *AuthService) issue(account *domain.Account) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Account: account, Token: token, ExpiresAt: expiresAt}, nil
}
