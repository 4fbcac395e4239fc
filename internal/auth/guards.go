package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// OwnerResolver resolves the owning account id for the resource a request
// targets. An empty id means the resource exists but has no owner yet.
type OwnerResolver func(c *fiber.Ctx) (string, error)

// RequireRole returns a guard that enforces a minimum role via the
// hierarchy authorizer. It composes after Middleware.Handle.
func RequireRole(authorizer *Authorizer, requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if err := authorizer.Authorize(c.UserContext(), principal, requiredRole); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireOwnership narrows a role-level grant to the specific resource
// instance the principal owns. Elevated roles bypass via an explicit
// allow-list; ownerless resources are not yet exclusive and pass.
func RequireOwnership(resolve OwnerResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if CanBypassOwnership(principal) {
			return c.Next()
		}

		ownerID, err := resolve(c)
		if err != nil {
			return apperrors.MapError(err)
		}
		if ownerID != "" && ownerID != principal.ID {
			return apperrors.NewForbiddenOwnership("resource not owned by account")
		}
		return c.Next()
	}
}

// RequireCityAccess restricts city-qualified operations. Super admins pass
// unconditionally; admins are currently allowed for any city because no
// city-assignment table exists yet. The contract stays fixed so the check
// can narrow later.
func RequireCityAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if principal.Role == domain.RoleSuperAdmin {
			return c.Next()
		}
		if principal.Role == domain.RoleAdmin {
			// No city-assignment table exists yet; admins currently manage
			// every city. Narrow here once assignments land.
			return c.Next()
		}
		return apperrors.NewInsufficientRole(domain.RoleAdmin, principal.Role)
	}
}
