package serverutils

import (
	"context"
	"strings"

	"asset-management-be/pkg/access"
	"asset-management-be/pkg/apperror"
	"asset-management-be/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const principalKey = "principal"

// PrincipalResolver turns a token subject into the current principal.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userId uuid.UUID) (*access.Principal, error)
}

// NewJwtMiddleware authenticates the bearer token and stores the principal,
// loaded fresh from the user store, in ctx.Locals.
func NewJwtMiddleware(tokens *token.Manager, resolver PrincipalResolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return apperror.Authentication("Authentication credentials were not provided.")
		}

		userId, _, err := tokens.ParseAccess(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return apperror.Authentication("Given token not valid for any token type")
		}

		principal, err := resolver.ResolvePrincipal(ctx.UserContext(), userId)
		if err != nil {
			return err
		}

		ctx.Locals(principalKey, principal)
		return ctx.Next()
	}
}

// Principal returns the authenticated caller, or nil outside the JWT middleware.
func Principal(ctx *fiber.Ctx) *access.Principal {
	p, _ := ctx.Locals(principalKey).(*access.Principal)
	return p
}

// SetPrincipal is used by handlers mounted behind a custom authenticator.
func SetPrincipal(ctx *fiber.Ctx, principal *access.Principal) {
	ctx.Locals(principalKey, principal)
}
