package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civitas-dev/remote-visit-service/internal/api/dto"
	"github.com/civitas-dev/remote-visit-service/internal/service"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// GuideHandler exposes the AI routing assistant.
type GuideHandler struct {
	guide *service.GuideService
}

// NewGuideHandler constructs handler.
func NewGuideHandler(guideService *service.GuideService) *GuideHandler {
	return &GuideHandler{guide: guideService}
}

// Chat handles POST /guide/chat.
func (h *GuideHandler) Chat(c *fiber.Ctx) error {
	var req dto.GuideChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Messages) == 0 {
		return apperrors.NewValidationError("messages required", nil)
	}

	messages := make([]service.ChatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, service.ChatMessage{Role: m.Role, Content: m.Content})
	}

	reply, err := h.guide.Chat(c.UserContext(), messages)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.GuideChatResponse{
		Content:      reply.Content,
		DepartmentID: reply.DepartmentID,
		Confidence:   reply.Confidence,
	}})
}
