package sqlite

import (
	"fmt"
	"time"

	"todoapi/internal/core/domain"
)

// TimeLayout is how timestamps are stored in TEXT columns.
const TimeLayout = time.RFC3339Nano

// TodoColumns lists the todos columns in the order ScanTodo expects.
var TodoColumns = []string{"id", "title", "description", "completed", "created_at", "updated_at"}

type RowScanner interface {
	Scan(dest ...any) error
}

func ScanTodo(row RowScanner) (domain.Todo, error) {
	var (
		todo      domain.Todo
		createdAt string
		updatedAt string
	)

	err := row.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed, &createdAt, &updatedAt)
	if err != nil {
		return domain.Todo{}, err
	}

	if todo.CreatedAt, err = time.Parse(TimeLayout, createdAt); err != nil {
		return domain.Todo{}, fmt.Errorf("parse created_at: %w", err)
	}

	if todo.UpdatedAt, err = time.Parse(TimeLayout, updatedAt); err != nil {
		return domain.Todo{}, fmt.Errorf("parse updated_at: %w", err)
	}

	todo.CreatedAt = todo.CreatedAt.UTC()
	todo.UpdatedAt = todo.UpdatedAt.UTC()

	return todo, nil
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
