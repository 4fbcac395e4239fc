package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

func newGuardApp(principal *domain.Account, guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		if principal != nil {
			c.Locals(principalKey, principal)
		}
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func guardStatus(t *testing.T, app *fiber.App) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRequireRole(t *testing.T) {
	authorizer := NewAuthorizer(newStubRoleRepo())
	guard := RequireRole(authorizer, domain.RoleAdmin)

	assert.Equal(t, http.StatusOK, guardStatus(t, newGuardApp(account(domain.RoleAdmin, true), guard)))
	assert.Equal(t, http.StatusOK, guardStatus(t, newGuardApp(account(domain.RoleSuperAdmin, true), guard)))
	assert.Equal(t, http.StatusForbidden, guardStatus(t, newGuardApp(account(domain.RoleEmployee, true), guard)))
	assert.Equal(t, http.StatusForbidden, guardStatus(t, newGuardApp(account(domain.RoleAdmin, false), guard)))
	assert.Equal(t, http.StatusUnauthorized, guardStatus(t, newGuardApp(nil, guard)))
}

func TestRequireOwnership(t *testing.T) {
	ownedBy := func(owner string) OwnerResolver {
		return func(*fiber.Ctx) (string, error) { return owner, nil }
	}

	owner := account(domain.RoleDesigner, true)

	assert.Equal(t, http.StatusOK, guardStatus(t, newGuardApp(owner, RequireOwnership(ownedBy(owner.ID)))))
	assert.Equal(t, http.StatusForbidden, guardStatus(t, newGuardApp(owner, RequireOwnership(ownedBy("someone-else")))))

	// elevated roles bypass without resolving ownership
	assert.Equal(t, http.StatusOK, guardStatus(t, newGuardApp(account(domain.RoleAdmin, true), RequireOwnership(ownedBy("someone-else")))))

	// ownerless resources are not yet exclusive
	assert.Equal(t, http.StatusOK, guardStatus(t, newGuardApp(owner, RequireOwnership(ownedBy("")))))

	// resolver errors propagate with their own code
	failing := RequireOwnership(func(*fiber.Ctx) (string, error) {
		return "", apperrors.NewNotFound("project", nil)
	})
	assert.Equal(t, http.StatusNotFound, guardStatus(t, newGuardApp(owner, failing)))

	assert.Equal(t, http.StatusUnauthorized, guardStatus(t, newGuardApp(nil, RequireOwnership(ownedBy("x")))))
}

func TestRequireCityAccess(t *testing.T) {
	guard := RequireCityAccess()

	assert.Equal(t, http.StatusOK, guardStatus(t, newGuardApp(account(domain.RoleSuperAdmin, true), guard)))
	assert.Equal(t, http.StatusOK, guardStatus(t, newGuardApp(account(domain.RoleAdmin, true), guard)))
	assert.Equal(t, http.StatusForbidden, guardStatus(t, newGuardApp(account(domain.RoleEmployee, true), guard)))
	assert.Equal(t, http.StatusForbidden, guardStatus(t, newGuardApp(account(domain.RoleDesigner, true), guard)))
	assert.Equal(t, http.StatusUnauthorized, guardStatus(t, newGuardApp(nil, guard)))
}
