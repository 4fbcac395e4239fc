package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// Authorizer decides whether a resolved account satisfies a required
// minimum role. Levels come from the roles table on every call; there is no
// in-process cache, so catalog edits take effect immediately.
type Authorizer struct {
	roles repository.RoleRepository
}

// NewAuthorizer constructs an Authorizer.
func NewAuthorizer(roles repository.RoleRepository) *Authorizer {
	return &Authorizer{roles: roles}
}

// Authorize allows iff the account is approved and its role level meets the
// required role's level. An unknown role name on either side is a hard
// deny, never a level-zero pass-through.
func (a *Authorizer) Authorize(ctx context.Context, account *domain.Account, requiredRole string) error {
	if account == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if !account.IsApproved {
		return apperrors.NewUnapproved("account pending approval")
	}

	required, err := a.roles.GetByName(ctx, requiredRole)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("role", map[string]any{"role": requiredRole})
		}
		return apperrors.MapError(err)
	}

	current, err := a.roles.GetByName(ctx, account.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInsufficientRole(requiredRole, account.Role)
		}
		return apperrors.MapError(err)
	}
	if !current.IsActive || current.Level < required.Level {
		return apperrors.NewInsufficientRole(requiredRole, account.Role)
	}
	return nil
}

// CanBypassOwnership reports whether the account's role is on the explicit
// elevated allow-list that may act on resources it does not own.
func CanBypassOwnership(account *domain.Account) bool {
	if account == nil {
		return false
	}
	_, ok := domain.OwnershipBypassRoles[account.Role]
	return ok
}
