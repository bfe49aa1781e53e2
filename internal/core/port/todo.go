package port

import (
	"context"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
)

// TodoRepository is an ordered collection of todos keyed by a monotonic id.
// Implementations must make every method atomic with respect to the others.
type TodoRepository interface {
	List(ctx context.Context) ([]domain.Todo, error)
	GetByID(ctx context.Context, id int) (domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	// Update looks the todo up and runs mutate on a copy while holding the
	// store's lock. The copy is stored only when mutate returns nil.
	Update(ctx context.Context, id int, mutate func(*domain.Todo) error) (domain.Todo, error)
	Delete(ctx context.Context, id int) (domain.Todo, error)
	Close() error
}

type TodoService interface {
	List(ctx context.Context) ([]domain.Todo, error)
	GetByID(ctx context.Context, id int) (domain.Todo, error)
	Create(ctx context.Context, req request.CreateTodoRequest) (domain.Todo, error)
	Update(ctx context.Context, id int, req request.UpdateTodoRequest) (domain.Todo, error)
	Delete(ctx context.Context, id int) (domain.Todo, error)
}
