package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civitas-dev/remote-visit-service/internal/domain"
)

// ErrInvalidTransition indicates a guarded status update found the entry in
// the wrong state.
var ErrInvalidTransition = errors.New("invalid status transition")

// allocationAttempts bounds retries when concurrent joins collide on the
// (department, day, ticket_number) unique constraint.
const allocationAttempts = 3

const entryColumns = `
        q.id, q.citizen_id, u.name, q.department_id, q.ticket_day, q.ticket_number,
        q.status, q.staff_id, q.room_id, q.created_at, q.updated_at`

// QueueRepository encapsulates waiting-queue persistence.
type QueueRepository interface {
	// CreateEntry allocates the next ticket for the department's current day
	// and inserts a WAITING entry. If the citizen already has an active
	// entry it is returned unchanged and the second result is false.
	CreateEntry(ctx context.Context, citizenID, departmentID string) (*domain.QueueEntry, bool, error)
	GetByID(ctx context.Context, id string) (*domain.QueueEntry, error)
	ActiveByCitizen(ctx context.Context, citizenID string) (*domain.QueueEntry, error)
	ListWaiting(ctx context.Context, departmentID string) ([]domain.QueueEntry, error)
	CountWaitingBefore(ctx context.Context, departmentID string, ticketNumber int) (int, error)
	CountWaiting(ctx context.Context, departmentID string) (int, error)
	// Start transitions WAITING -> IN_PROGRESS, recording the staff member
	// and room. Returns ErrInvalidTransition when the entry is not WAITING.
	Start(ctx context.Context, entryID, staffID, roomID string) (*domain.QueueEntry, error)
	// Complete transitions IN_PROGRESS -> COMPLETED. Returns
	// ErrInvalidTransition when the entry is not IN_PROGRESS.
	Complete(ctx context.Context, entryID string) (*domain.QueueEntry, error)
}

type queueRepository struct {
	pool *pgxpool.Pool
}

// NewQueueRepository returns a Postgres-backed implementation.
func NewQueueRepository(pool *pgxpool.Pool) QueueRepository {
	return &queueRepository{pool: pool}
}

func (r *queueRepository) CreateEntry(ctx context.Context, citizenID, departmentID string) (*domain.QueueEntry, bool, error) {
	var lastErr error
	for attempt := 0; attempt < allocationAttempts; attempt++ {
		entry, created, err := r.tryCreateEntry(ctx, citizenID, departmentID)
		if err == nil {
			return entry, created, nil
		}
		if !isTicketNumberConflict(err) {
			return nil, false, err
		}
		lastErr = err
	}
	return nil, false, lastErr
}

func (r *queueRepository) tryCreateEntry(ctx context.Context, citizenID, departmentID string) (*domain.QueueEntry, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	existing, err := scanEntry(tx.QueryRow(ctx, `
        SELECT`+entryColumns+`
        FROM waiting_queue q
        LEFT JOIN users u ON u.id = q.citizen_id
        WHERE q.citizen_id = $1 AND q.status IN ('WAITING', 'IN_PROGRESS')
        ORDER BY q.created_at DESC
        LIMIT 1`, citizenID))
	if err == nil {
		return existing, false, tx.Commit(ctx)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	var next int
	if err := tx.QueryRow(ctx, `
        SELECT COALESCE(MAX(ticket_number), 0) + 1
        FROM waiting_queue
        WHERE department_id = $1 AND ticket_day = CURRENT_DATE`, departmentID).Scan(&next); err != nil {
		return nil, false, err
	}

	entry := &domain.QueueEntry{
		CitizenID:    citizenID,
		DepartmentID: departmentID,
		TicketNumber: next,
		Status:       domain.QueueStatusWaiting,
	}
	if err := tx.QueryRow(ctx, `
        INSERT INTO waiting_queue (citizen_id, department_id, ticket_number, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, ticket_day, created_at, updated_at`,
		citizenID, departmentID, next, entry.Status,
	).Scan(&entry.ID, &entry.TicketDay, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		// A concurrent join by the same citizen can slip in between the
		// active-entry check and the insert; surface the winner.
		if isActiveCitizenConflict(err) {
			_ = tx.Rollback(ctx)
			winner, winErr := r.ActiveByCitizen(ctx, citizenID)
			if winErr != nil {
				return nil, false, err
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

func (r *queueRepository) GetByID(ctx context.Context, id string) (*domain.QueueEntry, error) {
	return scanEntry(r.pool.QueryRow(ctx, `
        SELECT`+entryColumns+`
        FROM waiting_queue q
        LEFT JOIN users u ON u.id = q.citizen_id
        WHERE q.id = $1`, id))
}

func (r *queueRepository) ActiveByCitizen(ctx context.Context, citizenID string) (*domain.QueueEntry, error) {
	return scanEntry(r.pool.QueryRow(ctx, `
        SELECT`+entryColumns+`
        FROM waiting_queue q
        LEFT JOIN users u ON u.id = q.citizen_id
        WHERE q.citizen_id = $1 AND q.status IN ('WAITING', 'IN_PROGRESS')
        ORDER BY q.created_at DESC
        LIMIT 1`, citizenID))
}

func (r *queueRepository) ListWaiting(ctx context.Context, departmentID string) ([]domain.QueueEntry, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT`+entryColumns+`
        FROM waiting_queue q
        LEFT JOIN users u ON u.id = q.citizen_id
        WHERE q.department_id = $1 AND q.status = 'WAITING'
        ORDER BY q.ticket_number ASC`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.QueueEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *queueRepository) CountWaitingBefore(ctx context.Context, departmentID string, ticketNumber int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM waiting_queue
        WHERE department_id = $1 AND status = 'WAITING' AND ticket_number < $2`,
		departmentID, ticketNumber).Scan(&count)
	return count, err
}

func (r *queueRepository) CountWaiting(ctx context.Context, departmentID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM waiting_queue
        WHERE department_id = $1 AND status = 'WAITING'`, departmentID).Scan(&count)
	return count, err
}

func (r *queueRepository) Start(ctx context.Context, entryID, staffID, roomID string) (*domain.QueueEntry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, `
        UPDATE waiting_queue q
        SET status = 'IN_PROGRESS', staff_id = $2, room_id = $3, updated_at = NOW()
        FROM users u
        WHERE q.id = $1 AND q.status = 'WAITING' AND u.id = q.citizen_id
        RETURNING`+entryColumns, entryID, staffID, roomID))
	if err == nil {
		return entry, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.transitionFailure(ctx, entryID)
	}
	return nil, err
}

func (r *queueRepository) Complete(ctx context.Context, entryID string) (*domain.QueueEntry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, `
        UPDATE waiting_queue q
        SET status = 'COMPLETED', updated_at = NOW()
        FROM users u
        WHERE q.id = $1 AND q.status = 'IN_PROGRESS' AND u.id = q.citizen_id
        RETURNING`+entryColumns, entryID))
	if err == nil {
		return entry, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.transitionFailure(ctx, entryID)
	}
	return nil, err
}

// transitionFailure distinguishes an unknown entry from one in the wrong
// state after a guarded update matched no rows.
func (r *queueRepository) transitionFailure(ctx context.Context, entryID string) error {
	if _, err := r.GetByID(ctx, entryID); err != nil {
		return err
	}
	return ErrInvalidTransition
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.QueueEntry, error) {
	var entry domain.QueueEntry
	if err := row.Scan(
		&entry.ID,
		&entry.CitizenID,
		&entry.CitizenName,
		&entry.DepartmentID,
		&entry.TicketDay,
		&entry.TicketNumber,
		&entry.Status,
		&entry.StaffID,
		&entry.RoomID,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}

func isTicketNumberConflict(err error) bool {
	return isUniqueViolation(err, "waiting_queue_ticket_unique")
}

func isActiveCitizenConflict(err error) bool {
	return isUniqueViolation(err, "waiting_queue_active_citizen")
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
