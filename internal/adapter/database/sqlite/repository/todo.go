package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"todoapi/internal/adapter/database/sqlite"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const (
	store = "sqlite"
	table  = "todos"
)

// TodoRepository stores todos in SQLite. AUTOINCREMENT keeps ids monotonic
// and never reused; insertion order is id order.
type TodoRepository struct {
	db        *sqlite.DB
	mu        sync.Mutex
	telemetry port.Telemetry
}

var _ port.TodoRepository = (*TodoRepository)(nil)

// NewTodoRepository wraps db and inserts the seed todo when the table is empty.
func NewTodoRepository(ctx context.Context, db *sqlite.DB, telemetry port.Telemetry) (*TodoRepository, error) {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	tr := &TodoRepository{
		db:        db,
		telemetry: telemetry,
	}

	if err := tr.seed(ctx); err != nil {
		return nil, err
	}

	return tr, nil
}

func (tr *TodoRepository) seed(ctx context.Context) error {
	var count int

	if err := tr.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return fmt.Errorf("count todos: %w", err)
	}

	if count > 0 {
		return nil
	}

	if _, err := tr.Create(ctx, domain.NewSeedTodo(domain.Now())); err != nil {
		return fmt.Errorf("seed todos: %w", err)
	}

	return nil
}

func (tr *TodoRepository) List(ctx context.Context) (todos []domain.Todo, err error) {
	ctx, finish := tr.start(ctx, "List", map[string]interface{}{})
	defer func() { finish(err) }()

	query, args, err := tr.db.QueryBuilder.Select(sqlite.TodoColumns...).
		From(table).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos = make([]domain.Todo, 0)

	for rows.Next() {
		todo, err := sqlite.ScanTodo(rows)
		if err != nil {
			return nil, err
		}

		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return todos, nil
}

func (tr *TodoRepository) GetByID(ctx context.Context, id int) (todo domain.Todo, err error) {
	ctx, finish := tr.start(ctx, "GetByID", map[string]interface{}{"todo.id": id})
	defer func() { finish(err) }()

	return tr.getByID(ctx, tr.db, id)
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (created domain.Todo, err error) {
	ctx, finish := tr.start(ctx, "Create", map[string]interface{}{"db.operation": "INSERT"})
	defer func() { finish(err) }()

	if todo.CreatedAt.IsZero() {
		now := domain.Now()
		todo.CreatedAt = now
		todo.UpdatedAt = now
	}

	query, args, err := tr.db.QueryBuilder.Insert(table).
		Columns("title", "description", "completed", "created_at", "updated_at").
		Values(todo.Title, todo.Description, todo.Completed, sqlite.FormatTime(todo.CreatedAt), sqlite.FormatTime(todo.UpdatedAt)).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	result, err := tr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.Todo{}, fmt.Errorf("read inserted id: %w", err)
	}

	todo.ID = int(id)

	return todo, nil
}

func (tr *TodoRepository) Update(ctx context.Context, id int, mutate func(*domain.Todo) error) (updated domain.Todo, err error) {
	ctx, finish := tr.start(ctx, "Update", map[string]interface{}{"todo.id": id, "db.operation": "UPDATE"})
	defer func() { finish(err) }()

	tr.mu.Lock()
	defer tr.mu.Unlock()

	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Todo{}, err
	}
	defer tx.Rollback()

	todo, err := tr.getByID(ctx, tx, id)
	if err != nil {
		return domain.Todo{}, err
	}

	if err := mutate(&todo); err != nil {
		return domain.Todo{}, err
	}

	query, args, err := tr.db.QueryBuilder.Update(table).
		Set("title", todo.Title).
		Set("description", todo.Description).
		Set("completed", todo.Completed).
		Set("updated_at", sqlite.FormatTime(todo.UpdatedAt)).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return domain.Todo{}, fmt.Errorf("update todo %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Todo{}, err
	}

	// id and createdAt are owned by the store
	return tr.getByID(ctx, tr.db, id)
}

func (tr *TodoRepository) Delete(ctx context.Context, id int) (deleted domain.Todo, err error) {
	ctx, finish := tr.start(ctx, "Delete", map[string]interface{}{"todo.id": id, "db.operation": "DELETE"})
	defer func() { finish(err) }()

	tr.mu.Lock()
	defer tr.mu.Unlock()

	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Todo{}, err
	}
	defer tx.Rollback()

	todo, err := tr.getByID(ctx, tx, id)
	if err != nil {
		return domain.Todo{}, err
	}

	query, args, err := tr.db.QueryBuilder.Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return domain.Todo{}, fmt.Errorf("delete todo %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Close() error {
	return tr.db.Close()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (tr *TodoRepository) getByID(ctx context.Context, q querier, id int) (domain.Todo, error) {
	query, args, err := tr.db.QueryBuilder.Select(sqlite.TodoColumns...).
		From(table).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	todo, err := sqlite.ScanTodo(q.QueryRowContext(ctx, query, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, fmt.Errorf("get todo %d: %w", id, domain.ErrTodoNotFound)
	}

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

// start opens a repository span; the returned func records the outcome.
func (tr *TodoRepository) start(ctx context.Context, operation string, attrs map[string]interface{}) (context.Context, func(error)) {
	attrs["db.system"] = store
	attrs["db.table"] = table

	ctx, span := tr.telemetry.StartRepositorySpan(ctx, store, operation, attrs)
	startTime := time.Now()

	return ctx, func(err error) {
		if tel.Outcome(err) == tel.ResultError {
			span.SetStatus("error", err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus("ok", "")
		}

		tr.telemetry.RecordRepositoryOperation(ctx, store, operation, time.Since(startTime), err)
		span.End()
	}
}
