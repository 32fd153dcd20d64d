package dto

import "time"

// JoinQueueRequest is the citizen join payload.
type JoinQueueRequest struct {
	DepartmentID string `json:"department_id"`
}

// QueueEntryResponse is the API view of a queue entry.
type QueueEntryResponse struct {
	ID           string    `json:"id"`
	CitizenID    string    `json:"citizen_id"`
	CitizenName  *string   `json:"citizen_name,omitempty"`
	DepartmentID string    `json:"department_id"`
	TicketNumber int       `json:"ticket_number"`
	Status       string    `json:"status"`
	StaffID      *string   `json:"staff_id,omitempty"`
	RoomID       *string   `json:"room_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// QueueStatusResponse pairs a citizen's entry with their live position.
type QueueStatusResponse struct {
	Entry    QueueEntryResponse `json:"entry"`
	Position int                `json:"position"`
}

// StartConsultationResponse returns the allocated room.
type StartConsultationResponse struct {
	Entry  QueueEntryResponse `json:"entry"`
	RoomID string             `json:"room_id"`
}

// PositionResponse reports how many visitors are ahead of a ticket.
type PositionResponse struct {
	DepartmentID string `json:"department_id"`
	TicketNumber int    `json:"ticket_number"`
	Position     int    `json:"position"`
}

// WaitingCountResponse reports a department's waiting-line length.
type WaitingCountResponse struct {
	DepartmentID string `json:"department_id"`
	Waiting      int    `json:"waiting"`
}
