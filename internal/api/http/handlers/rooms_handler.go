package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civitas-dev/remote-visit-service/internal/api/dto"
	"github.com/civitas-dev/remote-visit-service/internal/auth"
	"github.com/civitas-dev/remote-visit-service/internal/service"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// RoomsHandler issues video room join credentials.
type RoomsHandler struct {
	rooms *service.RoomService
}

// NewRoomsHandler constructs handler.
func NewRoomsHandler(roomService *service.RoomService) *RoomsHandler {
	return &RoomsHandler{rooms: roomService}
}

// Token handles GET /rooms/token.
func (h *RoomsHandler) Token(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	room := c.Query("room")
	username := c.Query("username")
	if username == "" {
		username = principal.User.DisplayName()
	}

	grant, err := h.rooms.IssueGrant(c.UserContext(), principal.User, room, username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RoomTokenResponse{
		Token:     grant.Token,
		Room:      grant.Room,
		Identity:  grant.Identity,
		ExpiresAt: grant.ExpiresAt,
	}})
}
