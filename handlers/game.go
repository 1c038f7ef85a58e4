// handlers/game.go
package handlers

import (
	"social-gaming-system/middleware"
	"social-gaming-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService, invitationService *services.InvitationService) {
	// 🔐 All game routes require user context forwarded by the Gateway.
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Open challenges (shareable join code)
	secured.Post("/games/open", invitationService.CreateOpenGame)
	secured.Post("/games/join/:code", invitationService.JoinOpenGame)

	// Live play
	secured.Get("/games/:id", gameService.GetGame)
	secured.Post("/games/:id/actions", gameService.ApplyAction)
	secured.Post("/games/:id/forfeit", gameService.ForfeitGame)
	secured.Post("/games/:id/cancel", gameService.CancelGame)
}
