// path: middleware/identity.go
package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Authentication itself lives outside this service (hosted identity
// provider); the API only needs the opaque id of the already-authenticated
// user. The gateway in front of us injects it as a header after verifying
// the session.
const userHeader = "X-User-Id"

const localsKey = "userID"

// Identity resolves the current user id into c.Locals. Requests without the
// header are rejected unless DEV_USER_ID provides a development fallback.
func Identity() fiber.Handler {
	fallback := strings.TrimSpace(os.Getenv("DEV_USER_ID"))
	return func(c *fiber.Ctx) error {
		uid := strings.TrimSpace(c.Get(userHeader))
		if uid == "" {
			uid = fallback
		}
		if uid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "missing user identity",
			})
		}
		c.Locals(localsKey, uid)
		return c.Next()
	}
}

// UserID returns the id stored by Identity, or "" when the middleware did
// not run.
func UserID(c *fiber.Ctx) string {
	if v, ok := c.Locals(localsKey).(string); ok {
		return v
	}
	return ""
}
