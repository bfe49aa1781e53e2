package domain

import (
	"strings"
	"time"
)

const (
	SeedTodoTitle       = "Sample Todo"
	SeedTodoDescription = "This is a sample todo item"
)

type Todo struct {
	ID          int
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoPatch carries the fields of a partial update. Nil fields are left untouched.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Now returns the current time in UTC at millisecond resolution, the precision
// timestamps are exposed with.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func NewTodo(title, description string, now time.Time) Todo {
	return Todo{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewSeedTodo builds the record every store starts with.
func NewSeedTodo(now time.Time) Todo {
	return NewTodo(SeedTodoTitle, SeedTodoDescription, now)
}

// Apply mutates the todo with the present fields of p and refreshes UpdatedAt,
// even when nothing else changed.
func (t *Todo) Apply(p TodoPatch, now time.Time) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}

	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}

	if p.Completed != nil {
		t.Completed = *p.Completed
	}

	t.UpdatedAt = now
}

func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}
