package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const serviceName = "todo"

type TodoService struct {
	repo      port.TodoRepository
	validator port.Validator
	telemetry port.Telemetry
	now       func() time.Time
}

func NewTodoService(repo port.TodoRepository, validator port.Validator, telemetry port.Telemetry) *TodoService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoService{
		repo:      repo,
		validator: validator,
		telemetry: telemetry,
		now:       domain.Now,
	}
}

// WithClock replaces the time source used to stamp createdAt/updatedAt.
func (ts *TodoService) WithClock(now func() time.Time) *TodoService {
	ts.now = now
	return ts
}

func (ts *TodoService) List(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo

	err := ts.observe(ctx, "List", func(ctx context.Context) error {
		var err error
		todos, err = ts.repo.List(ctx)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}

func (ts *TodoService) GetByID(ctx context.Context, id int) (domain.Todo, error) {
	var todo domain.Todo

	err := ts.observe(ctx, "GetByID", func(ctx context.Context) error {
		var err error
		todo, err = ts.repo.GetByID(ctx, id)
		return err
	})

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (ts *TodoService) Create(ctx context.Context, req request.CreateTodoRequest) (domain.Todo, error) {
	var todo domain.Todo

	err := ts.observe(ctx, "Create", func(ctx context.Context) error {
		if err := ts.validate(req); err != nil {
			return err
		}

		description := ""
		if req.Description != nil {
			description = *req.Description
		}

		created, err := ts.repo.Create(ctx, domain.NewTodo(*req.Title, description, ts.now()))
		if err != nil {
			slog.Error("Repository create failed", "error", err, "title", *req.Title)
			return err
		}

		todo = created
		return nil
	})

	if err != nil {
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "created", serviceName, strconv.Itoa(todo.ID), nil)

	return todo, nil
}

// Update applies the present fields of req. The lookup happens first, so an
// unknown id wins over an invalid body.
func (ts *TodoService) Update(ctx context.Context, id int, req request.UpdateTodoRequest) (domain.Todo, error) {
	var todo domain.Todo

	patch := domain.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	err := ts.observe(ctx, "Update", func(ctx context.Context) error {
		updated, err := ts.repo.Update(ctx, id, func(t *domain.Todo) error {
			if err := ts.validate(req); err != nil {
				return err
			}

			t.Apply(patch, ts.now())
			return nil
		})

		if err != nil {
			return err
		}

		todo = updated
		return nil
	})

	if err != nil {
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "updated", serviceName, strconv.Itoa(todo.ID), map[string]interface{}{
		"empty_patch": patch.IsEmpty(),
	})

	return todo, nil
}

func (ts *TodoService) Delete(ctx context.Context, id int) (domain.Todo, error) {
	var todo domain.Todo

	err := ts.observe(ctx, "Delete", func(ctx context.Context) error {
		var err error
		todo, err = ts.repo.Delete(ctx, id)
		return err
	})

	if err != nil {
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "deleted", serviceName, strconv.Itoa(todo.ID), nil)

	return todo, nil
}

func (ts *TodoService) validate(req any) error {
	err := ts.validator.ValidateStruct(req)
	if err == nil {
		return nil
	}

	if errs := ts.validator.FormatValidationErrors(err); len(errs) > 0 {
		return domain.NewValidationError(errs[0].Field, errs[0].Message)
	}

	return fmt.Errorf("validate request: %w", err)
}

func (ts *TodoService) observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, operation, nil)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	ts.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(start), err)

	return err
}
