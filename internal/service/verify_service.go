package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/civitas-dev/remote-visit-service/internal/config"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// VerifyResult is the outcome of an identity check.
type VerifyResult struct {
	IsMatch    bool    `json:"is_match"`
	Similarity float64 `json:"similarity"`
	Threshold  float64 `json:"threshold"`
	Message    string  `json:"message"`
}

// VerifyService proxies identity verification to the external face-match
// backend: the visitor's ID-card photo is compared against a live camera
// capture before a consultation.
type VerifyService struct {
	cfg    config.VerifyConfig
	client *http.Client
}

// NewVerifyService constructs the service.
func NewVerifyService(cfg config.VerifyConfig) *VerifyService {
	return &VerifyService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

type verifyFailure struct {
	Detail struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	} `json:"detail"`
}

// Verify sends both images to the face-match backend and returns its verdict.
func (s *VerifyService) Verify(ctx context.Context, cardImage, liveImage []byte) (*VerifyResult, error) {
	if s.cfg.BaseURL == "" {
		return nil, apperrors.NewUnavailable("identity verification not configured")
	}
	if len(cardImage) == 0 || len(liveImage) == 0 {
		return nil, apperrors.NewValidationError("card_image and live_image required", nil)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, part := range []struct {
		field string
		data  []byte
	}{
		{"card_image", cardImage},
		{"live_image", liveImage},
	} {
		fw, err := writer.CreateFormFile(part.field, part.field+".jpg")
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if _, err := fw.Write(part.data); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.MapError(err)
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/verify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewUnavailable("verification service unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var result VerifyResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, apperrors.MapError(err)
		}
		return &result, nil
	case resp.StatusCode == http.StatusBadRequest:
		// The backend rejects images it cannot find a face in; surface its
		// reason to the visitor.
		var failure verifyFailure
		if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil && failure.Detail.Message != "" {
			return nil, apperrors.NewValidationError(failure.Detail.Message,
				map[string]any{"reason": failure.Detail.Error})
		}
		return nil, apperrors.NewValidationError("verification rejected the images", nil)
	default:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.NewUnavailable(fmt.Sprintf("verification service returned status %d", resp.StatusCode))
	}
}
