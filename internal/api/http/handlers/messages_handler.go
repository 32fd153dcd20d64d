package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civitas-dev/remote-visit-service/internal/api/dto"
	"github.com/civitas-dev/remote-visit-service/internal/domain"
	"github.com/civitas-dev/remote-visit-service/internal/service"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// MessagesHandler exposes the lobby message board.
type MessagesHandler struct {
	messages *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messageService}
}

// List handles GET /messages.
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	msgs, err := h.messages.ListLatest(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, messageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create handles POST /messages.
func (h *MessagesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	msg, err := h.messages.Post(c.UserContext(), req.Username, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": messageResponse(msg)})
}

func messageResponse(msg *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        msg.ID,
		Username:  msg.Username,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}
