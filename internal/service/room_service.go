package service

import (
	"context"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/civitas-dev/remote-visit-service/internal/config"
	"github.com/civitas-dev/remote-visit-service/internal/domain"
	"github.com/civitas-dev/remote-visit-service/internal/repository"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// RoomService issues short-lived join grants for consultation video rooms.
// The grant format follows the conferencing provider's access-token scheme:
// an HS256 JWT whose video claim names the room and the caller's permissions.
type RoomService struct {
	queue repository.QueueRepository
	cfg   config.VideoConfig
}

// RoomGrant is a signed join credential for one room.
type RoomGrant struct {
	Token     string
	Room      string
	Identity  string
	ExpiresAt time.Time
}

type videoGrantClaims struct {
	Video videoGrant `json:"video"`
	jwt.RegisteredClaims
}

type videoGrant struct {
	Room         string `json:"room"`
	RoomJoin     bool   `json:"roomJoin"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
}

// NewRoomService constructs the service.
func NewRoomService(cfg config.VideoConfig, queue repository.QueueRepository) *RoomService {
	return &RoomService{queue: queue, cfg: cfg}
}

// IssueGrant mints a join credential for the caller. Staff may join any room;
// citizens only the room of their own in-progress consultation.
func (s *RoomService) IssueGrant(ctx context.Context, caller *domain.User, room, identity string) (*RoomGrant, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if room == "" || identity == "" {
		return nil, apperrors.NewValidationError("room and username required", nil)
	}
	if s.cfg.APIKey == "" || s.cfg.APISecret == "" {
		return nil, apperrors.NewUnavailable("video provider not configured")
	}

	if caller.Role == domain.RoleCitizen {
		entry, err := s.queue.ActiveByCitizen(ctx, caller.ID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, apperrors.NewForbidden("no consultation in progress")
			}
			return nil, apperrors.MapError(err)
		}
		if entry.Status != domain.QueueStatusInProgress || entry.RoomID == nil || *entry.RoomID != room {
			return nil, apperrors.NewForbidden("no consultation in progress for this room")
		}
	}

	expiresAt := time.Now().Add(s.cfg.GrantTTL())
	claims := &videoGrantClaims{
		Video: videoGrant{
			Room:         room,
			RoomJoin:     true,
			CanPublish:   true,
			CanSubscribe: true,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.APIKey,
			Subject:   identity,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.APISecret))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &RoomGrant{Token: token, Room: room, Identity: identity, ExpiresAt: expiresAt}, nil
}
