package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civitas-dev/remote-visit-service/internal/domain"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// IsCitizen reports whether the principal is a citizen.
func (p *Principal) IsCitizen() bool {
	return p != nil && p.User != nil && p.User.Role == domain.RoleCitizen
}

// IsStaff reports whether the principal is a staff member.
func (p *Principal) IsStaff() bool {
	return p != nil && p.User != nil && p.User.Role == domain.RoleStaff
}

// RequireCitizen ensures a citizen is authenticated.
func RequireCitizen() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.IsCitizen() {
			return apperrors.NewForbidden("citizen role required")
		}
		return c.Next()
	}
}

// RequireStaff ensures a staff member is authenticated.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.IsStaff() {
			return apperrors.NewForbidden("staff role required")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures the caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
