// handlers/invitation.go
package handlers

import (
	"social-gaming-system/middleware"
	"social-gaming-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupInvitationRoutes(app *fiber.App, invitationService *services.InvitationService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/invitations", invitationService.ListInvitations)
	secured.Post("/invitations", invitationService.CreateInvitation)
	secured.Post("/invitations/:id/respond", invitationService.RespondToInvitation)
}
