package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/civitas-dev/remote-visit-service/internal/domain"
	"github.com/civitas-dev/remote-visit-service/internal/repository"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// fakeQueueRepo mimics the Postgres store semantics in memory: per-day
// department numbering, a single active entry per citizen and guarded
// transitions.
type fakeQueueRepo struct {
	entries []*domain.QueueEntry
	day     time.Time
	nextID  int
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{day: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeQueueRepo) CreateEntry(_ context.Context, citizenID, departmentID string) (*domain.QueueEntry, bool, error) {
	for _, e := range f.entries {
		if e.CitizenID == citizenID && e.Active() {
			cp := *e
			return &cp, false, nil
		}
	}

	max := 0
	for _, e := range f.entries {
		if e.DepartmentID == departmentID && e.TicketDay.Equal(f.day) && e.TicketNumber > max {
			max = e.TicketNumber
		}
	}

	f.nextID++
	entry := &domain.QueueEntry{
		ID:           fmt.Sprintf("entry-%d", f.nextID),
		CitizenID:    citizenID,
		DepartmentID: departmentID,
		TicketDay:    f.day,
		TicketNumber: max + 1,
		Status:       domain.QueueStatusWaiting,
		CreatedAt:    f.day.Add(time.Duration(f.nextID) * time.Minute),
		UpdatedAt:    f.day.Add(time.Duration(f.nextID) * time.Minute),
	}
	f.entries = append(f.entries, entry)
	cp := *entry
	return &cp, true, nil
}

func (f *fakeQueueRepo) GetByID(_ context.Context, id string) (*domain.QueueEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeQueueRepo) ActiveByCitizen(_ context.Context, citizenID string) (*domain.QueueEntry, error) {
	var latest *domain.QueueEntry
	for _, e := range f.entries {
		if e.CitizenID == citizenID && e.Active() {
			if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
				latest = e
			}
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeQueueRepo) ListWaiting(_ context.Context, departmentID string) ([]domain.QueueEntry, error) {
	var out []domain.QueueEntry
	for _, e := range f.entries {
		if e.DepartmentID == departmentID && e.Status == domain.QueueStatusWaiting {
			out = append(out, *e)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].TicketNumber < out[j-1].TicketNumber; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeQueueRepo) CountWaitingBefore(_ context.Context, departmentID string, ticketNumber int) (int, error) {
	count := 0
	for _, e := range f.entries {
		if e.DepartmentID == departmentID && e.Status == domain.QueueStatusWaiting && e.TicketNumber < ticketNumber {
			count++
		}
	}
	return count, nil
}

func (f *fakeQueueRepo) CountWaiting(_ context.Context, departmentID string) (int, error) {
	count := 0
	for _, e := range f.entries {
		if e.DepartmentID == departmentID && e.Status == domain.QueueStatusWaiting {
			count++
		}
	}
	return count, nil
}

func (f *fakeQueueRepo) Start(_ context.Context, entryID, staffID, roomID string) (*domain.QueueEntry, error) {
	for _, e := range f.entries {
		if e.ID != entryID {
			continue
		}
		if e.Status != domain.QueueStatusWaiting {
			return nil, repository.ErrInvalidTransition
		}
		e.Status = domain.QueueStatusInProgress
		e.StaffID = &staffID
		room := roomID
		e.RoomID = &room
		e.UpdatedAt = time.Now()
		cp := *e
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeQueueRepo) Complete(_ context.Context, entryID string) (*domain.QueueEntry, error) {
	for _, e := range f.entries {
		if e.ID != entryID {
			continue
		}
		if e.Status != domain.QueueStatusInProgress {
			return nil, repository.ErrInvalidTransition
		}
		e.Status = domain.QueueStatusCompleted
		e.UpdatedAt = time.Now()
		cp := *e
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func citizen(id string) *domain.User {
	return &domain.User{ID: id, Email: id + "@example.com", Role: domain.RoleCitizen}
}

func staffMember(id, departmentID string) *domain.User {
	return &domain.User{ID: id, Email: id + "@example.com", Role: domain.RoleStaff, DepartmentID: &departmentID}
}

func newQueueService(repo repository.QueueRepository) *QueueService {
	return NewQueueService(QueueDependencies{QueueRepo: repo})
}

func TestJoinIssuesSequentialTickets(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := newQueueService(repo)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		entry, err := svc.Join(ctx, citizen(fmt.Sprintf("c%d", i)), "tax")
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		if entry.TicketNumber != i {
			t.Fatalf("join %d: ticket %d, want %d", i, entry.TicketNumber, i)
		}
	}

	// Per-department counters are independent.
	entry, err := svc.Join(ctx, citizen("c4"), "resident")
	if err != nil {
		t.Fatalf("join resident: %v", err)
	}
	if entry.TicketNumber != 1 {
		t.Fatalf("resident ticket %d, want 1", entry.TicketNumber)
	}

	// A new calendar day restarts numbering at 1.
	repo.day = repo.day.AddDate(0, 0, 1)
	entry, err = svc.Join(ctx, citizen("c5"), "tax")
	if err != nil {
		t.Fatalf("join next day: %v", err)
	}
	if entry.TicketNumber != 1 {
		t.Fatalf("next-day ticket %d, want 1", entry.TicketNumber)
	}
}

func TestJoinIsIdempotentWhileActive(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := newQueueService(repo)
	ctx := context.Background()

	first, err := svc.Join(ctx, citizen("c1"), "tax")
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	second, err := svc.Join(ctx, citizen("c1"), "tax")
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if second.TicketNumber != first.TicketNumber || second.ID != first.ID {
		t.Fatalf("rejoin returned %+v, want original entry %+v", second, first)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 row, got %d", len(repo.entries))
	}
}

func TestJoinRejectsUnknownDepartmentAndWrongRole(t *testing.T) {
	svc := newQueueService(newFakeQueueRepo())
	ctx := context.Background()

	if _, err := svc.Join(ctx, citizen("c1"), "passport"); err == nil {
		t.Fatal("expected validation error for unknown department")
	}
	if _, err := svc.Join(ctx, staffMember("s1", "tax"), "tax"); err == nil {
		t.Fatal("expected forbidden error for staff caller")
	}
	if _, err := svc.Join(ctx, nil, "tax"); err == nil {
		t.Fatal("expected forbidden error for anonymous caller")
	}
}

func TestListWaitingIsFIFOAndStaffOnly(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := newQueueService(repo)
	ctx := context.Background()

	for _, id := range []string{"c1", "c2", "c3"} {
		if _, err := svc.Join(ctx, citizen(id), "tax"); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}

	entries, err := svc.ListWaiting(ctx, staffMember("s1", "tax"), "tax")
	if err != nil {
		t.Fatalf("list waiting: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, e := range entries {
		if e.TicketNumber != i+1 {
			t.Fatalf("entry %d has ticket %d, want %d", i, e.TicketNumber, i+1)
		}
		if e.Status != domain.QueueStatusWaiting {
			t.Fatalf("entry %d has status %q", i, e.Status)
		}
	}

	if _, err := svc.ListWaiting(ctx, citizen("c1"), "tax"); err == nil {
		t.Fatal("expected forbidden error for citizen caller")
	}
}

func TestStartConsultation(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := newQueueService(repo)
	ctx := context.Background()

	a, _ := svc.Join(ctx, citizen("c1"), "tax")
	b, _ := svc.Join(ctx, citizen("c2"), "tax")

	started, err := svc.StartConsultation(ctx, staffMember("s1", "tax"), a.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != domain.QueueStatusInProgress {
		t.Fatalf("status %q, want IN_PROGRESS", started.Status)
	}
	if started.RoomID == nil || !strings.HasPrefix(*started.RoomID, "consultation-") {
		t.Fatalf("room id %v, want consultation- prefix", started.RoomID)
	}
	if started.StaffID == nil || *started.StaffID != "s1" {
		t.Fatalf("staff id %v, want s1", started.StaffID)
	}

	// The other entry is untouched.
	other, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if other.Status != domain.QueueStatusWaiting || other.RoomID != nil || other.StaffID != nil {
		t.Fatalf("entry b mutated: %+v", other)
	}

	// Double-start is a conflict.
	_, err = svc.StartConsultation(ctx, staffMember("s2", "tax"), a.ID)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("double start error = %v, want CONFLICT", err)
	}

	// Unknown entry is not found.
	_, err = svc.StartConsultation(ctx, staffMember("s1", "tax"), "missing")
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Fatalf("unknown entry error = %v, want NOT_FOUND", err)
	}

	// Citizens cannot start consultations.
	if _, err := svc.StartConsultation(ctx, citizen("c1"), b.ID); err == nil {
		t.Fatal("expected forbidden error for citizen caller")
	}
}

func TestCompleteConsultation(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := newQueueService(repo)
	ctx := context.Background()
	staff := staffMember("s1", "tax")

	a, _ := svc.Join(ctx, citizen("c1"), "tax")
	if _, err := svc.StartConsultation(ctx, staff, a.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	done, err := svc.CompleteConsultation(ctx, staff, a.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != domain.QueueStatusCompleted {
		t.Fatalf("status %q, want COMPLETED", done.Status)
	}

	// Completing a completed entry is an accepted no-op.
	again, err := svc.CompleteConsultation(ctx, staff, a.ID)
	if err != nil {
		t.Fatalf("repeat complete: %v", err)
	}
	if again.Status != domain.QueueStatusCompleted {
		t.Fatalf("repeat status %q, want COMPLETED", again.Status)
	}

	// A WAITING entry cannot skip straight to COMPLETED.
	b, _ := svc.Join(ctx, citizen("c2"), "tax")
	_, err = svc.CompleteConsultation(ctx, staff, b.ID)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("skip complete error = %v, want CONFLICT", err)
	}
}

func TestPosition(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := newQueueService(repo)
	ctx := context.Background()

	if pos, err := svc.Position(ctx, "tax", 1); err != nil || pos != 0 {
		t.Fatalf("Position(tax, 1) = %d, %v; want 0, nil", pos, err)
	}

	for _, id := range []string{"c1", "c2", "c3"} {
		if _, err := svc.Join(ctx, citizen(id), "tax"); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}

	if pos, _ := svc.Position(ctx, "tax", 3); pos != 2 {
		t.Fatalf("Position(tax, 3) = %d, want 2", pos)
	}

	if _, err := svc.Position(ctx, "tax", 0); err == nil {
		t.Fatal("expected validation error for non-positive ticket number")
	}
}

func TestCitizenStatus(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := newQueueService(repo)
	ctx := context.Background()

	_, err := svc.Status(ctx, citizen("c1"))
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Fatalf("status without entry = %v, want NOT_FOUND", err)
	}

	joined, _ := svc.Join(ctx, citizen("c1"), "tax")
	got, err := svc.Status(ctx, citizen("c1"))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if got.ID != joined.ID {
		t.Fatalf("status entry %s, want %s", got.ID, joined.ID)
	}
}

func TestWaitingCount(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := newQueueService(repo)
	ctx := context.Background()

	if _, err := svc.WaitingCount(ctx, "passport"); err == nil {
		t.Fatal("expected validation error for unknown department")
	}

	if n, err := svc.WaitingCount(ctx, "tax"); err != nil || n != 0 {
		t.Fatalf("empty count = %d, %v; want 0, nil", n, err)
	}

	for _, id := range []string{"c1", "c2"} {
		if _, err := svc.Join(ctx, citizen(id), "tax"); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	if n, _ := svc.WaitingCount(ctx, "tax"); n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func TestQueueEndToEnd(t *testing.T) {
	repo := newFakeQueueRepo()
	svc := newQueueService(repo)
	ctx := context.Background()
	staff := staffMember("s1", "tax")

	a, err := svc.Join(ctx, citizen("alice"), "tax")
	if err != nil || a.TicketNumber != 1 {
		t.Fatalf("alice join: %+v, %v", a, err)
	}
	b, err := svc.Join(ctx, citizen("bob"), "tax")
	if err != nil || b.TicketNumber != 2 {
		t.Fatalf("bob join: %+v, %v", b, err)
	}

	waiting, _ := svc.ListWaiting(ctx, staff, "tax")
	if len(waiting) != 2 || waiting[0].ID != a.ID || waiting[1].ID != b.ID {
		t.Fatalf("waiting = %+v, want [alice, bob]", waiting)
	}

	started, err := svc.StartConsultation(ctx, staff, a.ID)
	if err != nil {
		t.Fatalf("start alice: %v", err)
	}
	if started.RoomID == nil || !strings.HasPrefix(*started.RoomID, "consultation-") {
		t.Fatalf("room id %v", started.RoomID)
	}

	waiting, _ = svc.ListWaiting(ctx, staff, "tax")
	if len(waiting) != 1 || waiting[0].ID != b.ID {
		t.Fatalf("waiting after start = %+v, want [bob]", waiting)
	}

	if pos, _ := svc.Position(ctx, "tax", b.TicketNumber); pos != 0 {
		t.Fatalf("bob position = %d, want 0 once alice left the line", pos)
	}
}
