package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/civitas-dev/remote-visit-service/internal/directory"
	"github.com/civitas-dev/remote-visit-service/internal/domain"
	"github.com/civitas-dev/remote-visit-service/internal/events"
	"github.com/civitas-dev/remote-visit-service/internal/repository"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// waitingCountTTL matches the dashboard poll interval; a stale count is
// corrected on the next refresh.
const waitingCountTTL = 10 * time.Second

// QueueService coordinates the waiting-queue workflow: ticket issuance,
// consultation hand-off and position reporting.
type QueueService struct {
	queue      repository.QueueRepository
	cache      *redis.Client
	dispatcher events.Dispatcher
}

// QueueDependencies bundles collaborators for the queue service.
type QueueDependencies struct {
	QueueRepo  repository.QueueRepository
	Cache      *redis.Client
	Dispatcher events.Dispatcher
}

// NewQueueService constructs the service.
func NewQueueService(deps QueueDependencies) *QueueService {
	return &QueueService{
		queue:      deps.QueueRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// Join places a citizen in the department's queue. While the citizen already
// has an active entry the call is idempotent and returns that entry.
func (s *QueueService) Join(ctx context.Context, citizen *domain.User, departmentID string) (*domain.QueueEntry, error) {
	if err := requireRole(citizen, domain.RoleCitizen); err != nil {
		return nil, err
	}
	if !directory.Exists(departmentID) {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{"department_id": departmentID})
	}

	entry, created, err := s.queue.CreateEntry(ctx, citizen.ID, departmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if created {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventVisitorJoined,
			EntryID: entry.ID,
			ActorID: citizen.ID,
			Payload: events.VisitorJoinedPayload{
				DepartmentID: entry.DepartmentID,
				TicketNumber: entry.TicketNumber,
			},
		})
	}
	return entry, nil
}

// ListWaiting returns the department's WAITING entries in service order,
// lowest ticket number first.
func (s *QueueService) ListWaiting(ctx context.Context, staff *domain.User, departmentID string) ([]domain.QueueEntry, error) {
	if err := requireRole(staff, domain.RoleStaff); err != nil {
		return nil, err
	}
	entries, err := s.queue.ListWaiting(ctx, departmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// StartConsultation moves a WAITING entry to IN_PROGRESS, assigning the
// calling staff member and a freshly generated room identifier. Starting an
// entry twice is a conflict.
func (s *QueueService) StartConsultation(ctx context.Context, staff *domain.User, entryID string) (*domain.QueueEntry, error) {
	if err := requireRole(staff, domain.RoleStaff); err != nil {
		return nil, err
	}

	roomID := generateRoomID()
	entry, err := s.queue.Start(ctx, entryID, staff.ID, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			return nil, apperrors.NewConflict("consultation already started", map[string]any{"entry_id": entryID})
		}
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("queue entry", map[string]any{"entry_id": entryID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventConsultationStarted,
		EntryID: entry.ID,
		ActorID: staff.ID,
		Payload: events.ConsultationStartedPayload{
			DepartmentID: entry.DepartmentID,
			TicketNumber: entry.TicketNumber,
			StaffID:      staff.ID,
			RoomID:       roomID,
		},
	})
	return entry, nil
}

// CompleteConsultation moves an IN_PROGRESS entry to COMPLETED. Completing an
// already COMPLETED entry is accepted as a no-op.
func (s *QueueService) CompleteConsultation(ctx context.Context, staff *domain.User, entryID string) (*domain.QueueEntry, error) {
	if err := requireRole(staff, domain.RoleStaff); err != nil {
		return nil, err
	}

	entry, err := s.queue.Complete(ctx, entryID)
	if err == nil {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventConsultationCompleted,
			EntryID: entry.ID,
			ActorID: staff.ID,
			Payload: events.ConsultationCompletedPayload{
				DepartmentID: entry.DepartmentID,
				TicketNumber: entry.TicketNumber,
			},
		})
		return entry, nil
	}

	if errors.Is(err, repository.ErrInvalidTransition) {
		current, getErr := s.queue.GetByID(ctx, entryID)
		if getErr == nil && current.Status == domain.QueueStatusCompleted {
			return current, nil
		}
		return nil, apperrors.NewConflict("consultation not in progress", map[string]any{"entry_id": entryID})
	}
	if repository.IsNotFound(err) {
		return nil, apperrors.NewNotFound("queue entry", map[string]any{"entry_id": entryID})
	}
	return nil, apperrors.MapError(err)
}

// Status returns the citizen's current active entry.
func (s *QueueService) Status(ctx context.Context, citizen *domain.User) (*domain.QueueEntry, error) {
	if err := requireRole(citizen, domain.RoleCitizen); err != nil {
		return nil, err
	}
	entry, err := s.queue.ActiveByCitizen(ctx, citizen.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("queue entry", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return entry, nil
}

// Position returns how many citizens are ahead of the given ticket in the
// department's waiting line. The ticket itself is not counted.
func (s *QueueService) Position(ctx context.Context, departmentID string, ticketNumber int) (int, error) {
	if ticketNumber < 1 {
		return 0, apperrors.NewValidationError("ticket number must be positive", nil)
	}
	count, err := s.queue.CountWaitingBefore(ctx, departmentID, ticketNumber)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// WaitingCount returns the department's waiting-line length for the public
// lobby display. Counts are cached briefly; a cache outage falls back to the
// store.
func (s *QueueService) WaitingCount(ctx context.Context, departmentID string) (int, error) {
	if !directory.Exists(departmentID) {
		return 0, apperrors.NewValidationError("unknown department", map[string]any{"department_id": departmentID})
	}

	key := "waiting_count:" + departmentID
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Int(); err == nil {
			return cached, nil
		}
	}

	count, err := s.queue.CountWaiting(ctx, departmentID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, count, waitingCountTTL).Err()
	}
	return count, nil
}

func (s *QueueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func requireRole(user *domain.User, role domain.Role) error {
	if user == nil || user.Role != role {
		return apperrors.NewForbidden(fmt.Sprintf("%s role required", strings.ToLower(string(role))))
	}
	return nil
}

func generateRoomID() string {
	return "consultation-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
