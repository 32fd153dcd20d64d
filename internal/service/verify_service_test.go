package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civitas-dev/remote-visit-service/internal/config"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

func TestVerifyMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify" {
			t.Errorf("path = %q, want /verify", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		for _, field := range []string{"card_image", "live_image"} {
			file, _, err := r.FormFile(field)
			if err != nil {
				t.Errorf("missing %s: %v", field, err)
				continue
			}
			file.Close()
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"is_match":   true,
			"similarity": 0.91,
			"threshold":  0.4,
			"message":    "verified",
		})
	}))
	defer server.Close()

	svc := NewVerifyService(config.VerifyConfig{BaseURL: server.URL})
	result, err := svc.Verify(context.Background(), []byte("card"), []byte("live"))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.IsMatch || result.Similarity != 0.91 || result.Threshold != 0.4 {
		t.Fatalf("result = %+v", result)
	}
}

func TestVerifyFaceNotDetected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"detail": map[string]any{
				"error":   "card_face_not_detected",
				"message": "no face found on the card image",
			},
		})
	}))
	defer server.Close()

	svc := NewVerifyService(config.VerifyConfig{BaseURL: server.URL})
	_, err := svc.Verify(context.Background(), []byte("card"), []byte("live"))
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("err = %v, want VALIDATION_FAILED", err)
	}
	if domainErr.Details["reason"] != "card_face_not_detected" {
		t.Fatalf("details = %v", domainErr.Details)
	}
}

func TestVerifyBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewVerifyService(config.VerifyConfig{BaseURL: server.URL})
	_, err := svc.Verify(context.Background(), []byte("card"), []byte("live"))
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "UNAVAILABLE" {
		t.Fatalf("err = %v, want UNAVAILABLE", err)
	}
}

func TestVerifyGuards(t *testing.T) {
	unconfigured := NewVerifyService(config.VerifyConfig{})
	_, err := unconfigured.Verify(context.Background(), []byte("card"), []byte("live"))
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "UNAVAILABLE" {
		t.Fatalf("err = %v, want UNAVAILABLE", err)
	}

	configured := NewVerifyService(config.VerifyConfig{BaseURL: "http://127.0.0.1:0"})
	if _, err := configured.Verify(context.Background(), nil, []byte("live")); err == nil {
		t.Fatal("expected validation error for missing card image")
	}
}
