package middleware

import (
	"pixbank/models"
	"pixbank/store"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles returns a middleware that rejects the request before any mutation
// when the authenticated user's role is not in the allowed set. The user row is
// re-read from the store so a stale token cannot outlive a role change or a
// deleted account.
func RequireRoles(st store.Store, roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		user, err := st.UserByID(userID)
		if err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
		}

		for _, role := range roles {
			if user.Role == role {
				c.Locals("currentUser", user)
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}
