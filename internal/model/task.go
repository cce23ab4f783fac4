package model

import (
	"strings"
	"time"
)

// Task is a single unit of work inside a project. Tasks are embedded in
// their parent project's sequence and have no identity outside it.
type Task struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTask creates an active task with the current timestamp
func NewTask(id, text, description string) Task {
	return Task{
		ID:          id,
		Text:        strings.TrimSpace(text),
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now(),
	}
}
