package entity

import (
	"time"

	"github.com/google/uuid"
)

// Lead represents a discovered business website and the contact details
// gathered for it during one pipeline run.
type Lead struct {
	ID         uuid.UUID `json:"id"`
	Website    string    `json:"website"`
	Email      string    `json:"email"`
	EmailFound bool      `json:"email_found"`
	Emails     []string  `json:"emails,omitempty"`
	Phones     []string  `json:"phones,omitempty"`
	Snippet    *string   `json:"snippet,omitempty"`
	Title      *string   `json:"title,omitempty"`
	Keyword    string    `json:"keyword"`
	Location   string    `json:"location"`
	Query      *string   `json:"query,omitempty"`
	Engine     *string   `json:"engine,omitempty"`
	Source     *string   `json:"source,omitempty"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
