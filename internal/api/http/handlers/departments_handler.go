package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civitas-dev/remote-visit-service/internal/api/dto"
	"github.com/civitas-dev/remote-visit-service/internal/directory"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// DepartmentsHandler serves the static department directory.
type DepartmentsHandler struct{}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler() *DepartmentsHandler {
	return &DepartmentsHandler{}
}

// List handles GET /departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	departments := directory.All()
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		items = append(items, departmentResponse(d))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	dept, ok := directory.Lookup(c.Params("id"))
	if !ok {
		return apperrors.NewNotFound("department", map[string]any{"department_id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": departmentResponse(dept)})
}

func departmentResponse(d directory.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Keywords:    d.Keywords,
		Floor:       d.Floor,
		Counter:     d.Counter,
	}
}
