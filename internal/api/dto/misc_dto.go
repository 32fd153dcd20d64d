package dto

import "time"

// DepartmentResponse is the API view of a directory entry.
type DepartmentResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Floor       string   `json:"floor"`
	Counter     string   `json:"counter"`
}

// MessageResponse is the API view of a lobby message.
type MessageResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMessageRequest is the message board post payload.
type CreateMessageRequest struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

// GuideChatRequest carries the visitor conversation so far.
type GuideChatRequest struct {
	Messages []GuideChatMessage `json:"messages"`
}

// GuideChatMessage is one conversation turn.
type GuideChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GuideChatResponse is the assistant reply plus routing decision.
type GuideChatResponse struct {
	Content      string  `json:"content"`
	DepartmentID *string `json:"department_id,omitempty"`
	Confidence   *string `json:"confidence,omitempty"`
}

// VerifyResponse reports an identity verification outcome.
type VerifyResponse struct {
	IsMatch    bool    `json:"is_match"`
	Similarity float64 `json:"similarity"`
	Threshold  float64 `json:"threshold"`
	Message    string  `json:"message"`
}

// RoomTokenResponse carries a signed room join credential.
type RoomTokenResponse struct {
	Token     string    `json:"token"`
	Room      string    `json:"room"`
	Identity  string    `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}
