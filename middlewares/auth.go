package middlewares

import (
	"errors"
	"strings"

	"cayo/errs"
	"cayo/helpers"
	"cayo/services/auth"
	"cayo/services/policy"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const identityKey = "identity"

type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

// BearerAuth resolves the Authorization header into an identity stored on
// the request. Missing, malformed, invalid and expired credentials all
// answer 401; only the log tells them apart.
func BearerAuth(v Verifier, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			log.Debug("request unauthenticated", zap.String("path", c.Path()), zap.String("reason", "missing"))
			return helpers.JSONError(c, errs.NewUnauthenticated("UNAUTHENTICATED"))
		}

		id, err := v.Verify(token)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, auth.ErrExpired) {
				reason = "expired"
			}
			log.Info("request unauthenticated", zap.String("path", c.Path()), zap.String("reason", reason))
			return helpers.JSONError(c, err)
		}

		c.Locals(identityKey, id)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentIdentity returns the identity BearerAuth stored. Handlers behind
// BearerAuth can rely on it being present.
func CurrentIdentity(c *fiber.Ctx) auth.Identity {
	id, _ := c.Locals(identityKey).(auth.Identity)
	return id
}

// Require rejects callers whose role lacks obj:act.
func Require(p *policy.Policy, obj, act string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !p.Can(CurrentIdentity(c).Role, obj, act) {
			return helpers.JSONError(c, errs.NewForbidden("REQUIRES_"+strings.ToUpper(obj+"_"+act)))
		}
		return c.Next()
	}
}
