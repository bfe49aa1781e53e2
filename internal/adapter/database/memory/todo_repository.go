// Package memory keeps todos in process memory. Everything is lost when the
// process exits.
package memory

import (
	"context"
	"fmt"
	"sync"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const store = "memory"

type TodoRepository struct {
	mu     sync.RWMutex
	order  []int
	items  map[int]domain.Todo
	nextID int

	telemetry port.Telemetry
}

var _ port.TodoRepository = (*TodoRepository)(nil)

// NewTodoRepository returns a store holding the seed todo (id 1) with the
// counter at 2.
func NewTodoRepository(telemetry port.Telemetry) *TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	repo := &TodoRepository{
		items:     make(map[int]domain.Todo),
		nextID:    1,
		telemetry: telemetry,
	}

	repo.insert(domain.NewSeedTodo(domain.Now()))

	return repo
}

func (r *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	_, finish := r.start(ctx, "List", nil)

	r.mu.RLock()
	todos := make([]domain.Todo, 0, len(r.order))
	for _, id := range r.order {
		todos = append(todos, r.items[id])
	}
	r.mu.RUnlock()

	finish(map[string]interface{}{"result.count": len(todos)}, nil)

	return todos, nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id int) (todo domain.Todo, err error) {
	_, finish := r.start(ctx, "GetByID", map[string]interface{}{"todo.id": id})
	defer func() { finish(nil, err) }()

	r.mu.RLock()
	todo, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return domain.Todo{}, fmt.Errorf("get todo %d: %w", id, domain.ErrTodoNotFound)
	}

	return todo, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	_, finish := r.start(ctx, "Create", nil)

	r.mu.Lock()
	created := r.insert(todo)
	r.mu.Unlock()

	finish(map[string]interface{}{"todo.id": created.ID}, nil)

	return created, nil
}

func (r *TodoRepository) Update(ctx context.Context, id int, mutate func(*domain.Todo) error) (updated domain.Todo, err error) {
	_, finish := r.start(ctx, "Update", map[string]interface{}{"todo.id": id})
	defer func() { finish(nil, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	todo, ok := r.items[id]
	if !ok {
		return domain.Todo{}, fmt.Errorf("update todo %d: %w", id, domain.ErrTodoNotFound)
	}

	if mutateErr := mutate(&todo); mutateErr != nil {
		return domain.Todo{}, mutateErr
	}

	// id and createdAt are owned by the store
	todo.ID = id
	todo.CreatedAt = r.items[id].CreatedAt
	r.items[id] = todo

	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int) (deleted domain.Todo, err error) {
	_, finish := r.start(ctx, "Delete", map[string]interface{}{"todo.id": id})
	defer func() { finish(nil, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	todo, ok := r.items[id]
	if !ok {
		return domain.Todo{}, fmt.Errorf("delete todo %d: %w", id, domain.ErrTodoNotFound)
	}

	for i, current := range r.order {
		if current == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	delete(r.items, id)

	return todo, nil
}

// start opens a span for one store call. finish ends it, recording err and
// any attributes only known once the call is done.
func (r *TodoRepository) start(ctx context.Context, operation string, attrs map[string]interface{}) (context.Context, func(map[string]interface{}, error)) {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	attrs["db.system"] = store

	ctx, span := r.telemetry.StartRepositorySpan(ctx, store, operation, attrs)
	op := tel.StartOperation(r.telemetry, ctx, store, operation)

	return ctx, func(result map[string]interface{}, err error) {
		if result != nil {
			span.SetAttributes(result)
		}

		op.End(err)
		span.End()
	}
}

// Len reports how many todos are stored.
func (r *TodoRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// NextID reports the id the next created todo will receive.
func (r *TodoRepository) NextID() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.nextID
}

func (r *TodoRepository) Close() error {
	return nil
}

// insert must be called with mu held for writing (or before the store is shared).
func (r *TodoRepository) insert(todo domain.Todo) domain.Todo {
	todo.ID = r.nextID
	r.nextID++

	if todo.CreatedAt.IsZero() {
		now := domain.Now()
		todo.CreatedAt = now
		todo.UpdatedAt = now
	}

	r.items[todo.ID] = todo
	r.order = append(r.order, todo.ID)

	return todo
}
