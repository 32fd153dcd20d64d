package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventVisitorJoined         EventType = "visitor_joined"
	EventConsultationStarted   EventType = "consultation_started"
	EventConsultationCompleted EventType = "consultation_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntryID   string      `json:"entry_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// VisitorJoinedPayload payload.
type VisitorJoinedPayload struct {
	DepartmentID string `json:"department_id"`
	TicketNumber int    `json:"ticket_number"`
}

// ConsultationStartedPayload payload.
type ConsultationStartedPayload struct {
	DepartmentID string `json:"department_id"`
	TicketNumber int    `json:"ticket_number"`
	StaffID      string `json:"staff_id"`
	RoomID       string `json:"room_id"`
}

// ConsultationCompletedPayload payload.
type ConsultationCompletedPayload struct {
	DepartmentID string `json:"department_id"`
	TicketNumber int    `json:"ticket_number"`
}
