// Package middleware guards routes with JWT authentication and role
// checks.
package middleware

import (
	"context"
	"errors"

	"github.com/amirasaad/backoffice/pkg/apiutil"
	"github.com/amirasaad/backoffice/pkg/config"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenKey = "user"
	actorKey = "actor"
)

// ActorResolver turns a verified token into the acting user.
type ActorResolver interface {
	Actor(ctx context.Context, token *jwt.Token) (user.Actor, error)
}

// JwtProtected verifies the bearer token with the configured secret,
// resolves the acting user and stores both in the request locals.
func JwtProtected(cfg *config.Jwt, resolver ActorResolver) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.Secret)},
		ContextKey:     tokenKey,
		ErrorHandler:   jwtError,
		SuccessHandler: resolveActor(resolver),
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return apiutil.ProblemDetailsJSON(c, "Bad Request", err, "Missing or malformed JWT", fiber.StatusBadRequest)
	}
	return apiutil.ProblemDetailsJSON(c, "Unauthorized", err, "Invalid or expired JWT", fiber.StatusUnauthorized)
}

// resolveActor loads the active user named by the verified token.
func resolveActor(resolver ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals(tokenKey).(*jwt.Token)
		actor, err := resolver.Actor(c.UserContext(), token)
		if err != nil {
			return apiutil.ProblemDetailsJSON(c, "Unauthorized", err, "Invalid or expired JWT")
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// RequireAdmin rejects actors without the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok || !actor.IsAdmin() {
			return apiutil.ProblemDetailsJSON(c, "Forbidden", domain.ErrForbidden, "Admin role required")
		}
		return c.Next()
	}
}

// ActorFrom returns the actor stored by ResolveActor.
func ActorFrom(c *fiber.Ctx) (user.Actor, bool) {
	actor, ok := c.Locals(actorKey).(user.Actor)
	return actor, ok
}
