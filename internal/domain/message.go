package domain

import (
	"strings"
	"time"
)

// Message is one guestbook entry.
type Message struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Text      string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

// Submission is a visitor's form input.
type Submission struct {
	Name    string `schema:"name" validate:"required"`
	Message string `schema:"message" validate:"required"`
}

// Trimmed returns s with surrounding whitespace removed from both fields.
func (s Submission) Trimmed() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Message: strings.TrimSpace(s.Message),
	}
}
