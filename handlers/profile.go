// handlers/profile.go
package handlers

import (
	"log"

	"social-gaming-system/middleware"
	"social-gaming-system/realtime"
	"social-gaming-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService, paymentService *services.PaymentService, wsSecret []byte) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/profiles/me", profileService.GetMe)
	secured.Get("/profiles/:id", profileService.GetProfile)
	secured.Get("/friends", profileService.GetFriends)

	// Payment processor webhook relay (idempotent by payment reference)
	secured.Post("/payments/verify", paymentService.VerifyPayment)

	// Short-lived token for the WebSocket hub, which cannot receive
	// gateway headers on the upgrade request.
	secured.Post("/realtime/token", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		token, err := realtime.MintToken(userID, wsSecret)
		if err != nil {
			log.Printf("❌ Failed to mint realtime token for %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mint token"})
		}
		return c.JSON(fiber.Map{"token": token})
	})
}
