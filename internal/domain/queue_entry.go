package domain

import "time"

// QueueStatus enumerates lifecycle states for a queue entry.
type QueueStatus string

const (
	QueueStatusWaiting    QueueStatus = "WAITING"
	QueueStatusInProgress QueueStatus = "IN_PROGRESS"
	QueueStatusCompleted  QueueStatus = "COMPLETED"
)

// QueueEntry is one citizen's visit record, tracked from joining the line
// until the consultation ends.
type QueueEntry struct {
	ID           string
	CitizenID    string
	CitizenName  *string
	DepartmentID string
	TicketDay    time.Time
	TicketNumber int
	Status       QueueStatus
	StaffID      *string
	RoomID       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the entry still occupies the citizen's single
// active-visit slot.
func (e *QueueEntry) Active() bool {
	return e.Status == QueueStatusWaiting || e.Status == QueueStatusInProgress
}

var queueTransitions = map[QueueStatus][]QueueStatus{
	QueueStatusWaiting:    {QueueStatusInProgress},
	QueueStatusInProgress: {QueueStatusCompleted},
	QueueStatusCompleted:  {},
}

// CanTransition reports whether a queue entry may move from one status to
// another. The only path is WAITING -> IN_PROGRESS -> COMPLETED.
func CanTransition(from, to QueueStatus) bool {
	for _, candidate := range queueTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
