package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response header carrying the ray ID.
const Header = "X-Ray-ID"

// LocalsKey is the fiber.Ctx locals key holding the ray ID.
const LocalsKey = "ray_id"

// New returns a middleware assigning a ray ID to every request.
// An incoming X-Ray-ID header is reused.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.New().String()
		}
		c.Locals(LocalsKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}
