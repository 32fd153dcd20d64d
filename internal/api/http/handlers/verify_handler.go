package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/civitas-dev/remote-visit-service/internal/api/dto"
	"github.com/civitas-dev/remote-visit-service/internal/service"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// VerifyHandler exposes the pre-consultation identity check.
type VerifyHandler struct {
	verify *service.VerifyService
}

// NewVerifyHandler constructs handler.
func NewVerifyHandler(verifyService *service.VerifyService) *VerifyHandler {
	return &VerifyHandler{verify: verifyService}
}

// Check handles POST /verify.
func (h *VerifyHandler) Check(c *fiber.Ctx) error {
	cardImage, err := formFileBytes(c, "card_image")
	if err != nil {
		return err
	}
	liveImage, err := formFileBytes(c, "live_image")
	if err != nil {
		return err
	}

	result, err := h.verify.Verify(c.UserContext(), cardImage, liveImage)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.VerifyResponse{
		IsMatch:    result.IsMatch,
		Similarity: result.Similarity,
		Threshold:  result.Threshold,
		Message:    result.Message,
	}})
}

func formFileBytes(c *fiber.Ctx, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, apperrors.NewValidationError(field+" file required", nil)
	}
	return readMultipartFile(header)
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return data, nil
}
