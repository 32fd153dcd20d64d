package domain

import "time"

// Message is a lobby message board post.
type Message struct {
	ID        string
	Username  string
	Content   string
	CreatedAt time.Time
}
