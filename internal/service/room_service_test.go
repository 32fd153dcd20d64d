package service

import (
	"context"
	"errors"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/civitas-dev/remote-visit-service/internal/config"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

func testVideoConfig() config.VideoConfig {
	return config.VideoConfig{APIKey: "api-key", APISecret: "api-secret", GrantTTLMinutes: 10}
}

func TestIssueGrantForStaff(t *testing.T) {
	svc := NewRoomService(testVideoConfig(), newFakeQueueRepo())

	grant, err := svc.IssueGrant(context.Background(), staffMember("s1", "tax"), "consultation-abc123", "Taro")
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}
	if grant.Room != "consultation-abc123" || grant.Identity != "Taro" {
		t.Fatalf("grant = %+v", grant)
	}

	claims := &videoGrantClaims{}
	parsed, err := jwt.ParseWithClaims(grant.Token, claims, func(*jwt.Token) (any, error) {
		return []byte("api-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Issuer != "api-key" || claims.Subject != "Taro" {
		t.Fatalf("claims = %+v", claims.RegisteredClaims)
	}
	if claims.Video.Room != "consultation-abc123" || !claims.Video.RoomJoin || !claims.Video.CanPublish || !claims.Video.CanSubscribe {
		t.Fatalf("video grant = %+v", claims.Video)
	}
}

func TestIssueGrantCitizenRestrictedToOwnRoom(t *testing.T) {
	repo := newFakeQueueRepo()
	queue := newQueueService(repo)
	rooms := NewRoomService(testVideoConfig(), repo)
	ctx := context.Background()
	alice := citizen("alice")

	// No active consultation yet.
	_, err := rooms.IssueGrant(ctx, alice, "consultation-abc123", "Alice")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "FORBIDDEN" {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}

	entry, _ := queue.Join(ctx, alice, "tax")

	// Still waiting, not in progress.
	if _, err := rooms.IssueGrant(ctx, alice, "consultation-abc123", "Alice"); err == nil {
		t.Fatal("expected forbidden while waiting")
	}

	started, err := queue.StartConsultation(ctx, staffMember("s1", "tax"), entry.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := rooms.IssueGrant(ctx, alice, "consultation-someoneelse", "Alice"); err == nil {
		t.Fatal("expected forbidden for another citizen's room")
	}

	grant, err := rooms.IssueGrant(ctx, alice, *started.RoomID, "Alice")
	if err != nil {
		t.Fatalf("issue grant for own room: %v", err)
	}
	if grant.Room != *started.RoomID {
		t.Fatalf("grant room %q, want %q", grant.Room, *started.RoomID)
	}
}

func TestIssueGrantGuards(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := NewRoomService(testVideoConfig(), repo)
	ctx := context.Background()

	if _, err := svc.IssueGrant(ctx, nil, "room", "id"); err == nil {
		t.Fatal("expected unauthorized for anonymous caller")
	}
	if _, err := svc.IssueGrant(ctx, staffMember("s1", "tax"), "", "id"); err == nil {
		t.Fatal("expected validation error for empty room")
	}

	unconfigured := NewRoomService(config.VideoConfig{}, repo)
	_, err := unconfigured.IssueGrant(ctx, staffMember("s1", "tax"), "room", "id")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "UNAVAILABLE" {
		t.Fatalf("err = %v, want UNAVAILABLE", err)
	}
}
