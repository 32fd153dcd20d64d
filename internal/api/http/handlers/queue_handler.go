package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/civitas-dev/remote-visit-service/internal/api/dto"
	"github.com/civitas-dev/remote-visit-service/internal/auth"
	"github.com/civitas-dev/remote-visit-service/internal/domain"
	"github.com/civitas-dev/remote-visit-service/internal/service"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// QueueHandler exposes the waiting-queue endpoints for citizens and staff.
type QueueHandler struct {
	queue *service.QueueService
}

// NewQueueHandler constructs handler.
func NewQueueHandler(queueService *service.QueueService) *QueueHandler {
	return &QueueHandler{queue: queueService}
}

// Join handles POST /queue/join.
func (h *QueueHandler) Join(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.JoinQueueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.DepartmentID == "" {
		return apperrors.NewValidationError("department_id required", nil)
	}

	entry, err := h.queue.Join(c.UserContext(), principal.User, req.DepartmentID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": queueEntryResponse(entry)})
}

// Status handles GET /queue/status.
func (h *QueueHandler) Status(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	entry, err := h.queue.Status(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	position, err := h.queue.Position(c.UserContext(), entry.DepartmentID, entry.TicketNumber)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.QueueStatusResponse{
		Entry:    queueEntryResponse(entry),
		Position: position,
	}})
}

// Position handles GET /queue/position.
func (h *QueueHandler) Position(c *fiber.Ctx) error {
	departmentID := c.Query("department_id")
	ticketStr := c.Query("ticket_number")
	if departmentID == "" || ticketStr == "" {
		return apperrors.NewValidationError("department_id and ticket_number required", nil)
	}
	ticketNumber, err := strconv.Atoi(ticketStr)
	if err != nil || ticketNumber < 1 {
		return apperrors.NewValidationError("ticket_number must be a positive integer", nil)
	}

	position, err := h.queue.Position(c.UserContext(), departmentID, ticketNumber)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PositionResponse{
		DepartmentID: departmentID,
		TicketNumber: ticketNumber,
		Position:     position,
	}})
}

// ListWaiting handles GET /departments/:id/waiting.
func (h *QueueHandler) ListWaiting(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	entries, err := h.queue.ListWaiting(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.QueueEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, queueEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// WaitingCount handles GET /departments/:id/waiting-count.
func (h *QueueHandler) WaitingCount(c *fiber.Ctx) error {
	departmentID := c.Params("id")
	count, err := h.queue.WaitingCount(c.UserContext(), departmentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.WaitingCountResponse{
		DepartmentID: departmentID,
		Waiting:      count,
	}})
}

// Start handles POST /queue/:id/start.
func (h *QueueHandler) Start(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	entry, err := h.queue.StartConsultation(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.StartConsultationResponse{Entry: queueEntryResponse(entry)}
	if entry.RoomID != nil {
		resp.RoomID = *entry.RoomID
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Complete handles POST /queue/:id/complete.
func (h *QueueHandler) Complete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	entry, err := h.queue.CompleteConsultation(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": queueEntryResponse(entry)})
}

func queueEntryResponse(entry *domain.QueueEntry) dto.QueueEntryResponse {
	return dto.QueueEntryResponse{
		ID:           entry.ID,
		CitizenID:    entry.CitizenID,
		CitizenName:  entry.CitizenName,
		DepartmentID: entry.DepartmentID,
		TicketNumber: entry.TicketNumber,
		Status:       string(entry.Status),
		StaffID:      entry.StaffID,
		RoomID:       entry.RoomID,
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
	}
}
