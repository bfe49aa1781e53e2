package handler

import (
	"context"
	"errors"
	"net/http"

	. "todoapi/internal/adapter/http/helper"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/port"
	"todoapi/internal/core/util"
	"todoapi/pkg/config"
	. "todoapi/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type TodoHandler struct {
	svc    port.TodoService
	Logger *config.Logger
}

func NewTodoHandler(todoService port.TodoService, logger *config.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    todoService,
		Logger: logger,
	}
}

func (t *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx, span := t.startSpan(c, "GetAllTodos")
	defer span.End()

	todos, err := t.svc.List(ctx)

	if err != nil {
		t.fail(c, ctx, span, "list", err)
		return
	}

	span.SetAttributes(attribute.Int("todo.count", len(todos)))

	SendList(c, ToTodoResponses(todos))
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	ctx, span := t.startSpan(c, "GetTodo")
	defer span.End()

	id := util.ParseID(c.Param("id"))
	span.SetAttributes(attribute.Int("todo.id", id))

	todo, err := t.svc.GetByID(ctx, id)

	if err != nil {
		t.fail(c, ctx, span, "get", err)
		return
	}

	SendSuccess(c, http.StatusOK, ToTodoResponse(todo))
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx, span := t.startSpan(c, "CreateTodo")
	defer span.End()

	body, err := util.ParamsToMap[request.CreateTodoBody](c)

	var params request.CreateTodoRequest
	if err == nil {
		params, err = body.Request()
	}

	if err != nil {
		t.Logger.Logger.Ctx(ctx).Debug("Invalid create body", zap.Error(err))
		SendBadRequestError(c, MessageInvalidBody)
		return
	}

	todo, err := t.svc.Create(ctx, params)

	if err != nil {
		t.fail(c, ctx, span, "create", err)
		return
	}

	span.SetAttributes(attribute.Int("todo.id", todo.ID))

	t.Logger.Info(ctx, "Todo created", zap.Int("todo_id", todo.ID))

	SendSuccess(c, http.StatusCreated, ToTodoResponse(todo), "Todo created successfully")
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx, span := t.startSpan(c, "UpdateTodo")
	defer span.End()

	id := util.ParseID(c.Param("id"))
	span.SetAttributes(attribute.Int("todo.id", id))

	body, err := util.ParamsToMap[request.UpdateTodoBody](c)

	var params request.UpdateTodoRequest
	if err == nil {
		params, err = body.Request()
	}

	if err != nil {
		t.Logger.Logger.Ctx(ctx).Debug("Invalid update body", zap.Error(err), zap.Int("todo_id", id))
		SendBadRequestError(c, MessageInvalidBody)
		return
	}

	todo, err := t.svc.Update(ctx, id, params)

	if err != nil {
		t.fail(c, ctx, span, "update", err)
		return
	}

	t.Logger.Info(ctx, "Todo updated", zap.Int("todo_id", todo.ID))

	SendSuccess(c, http.StatusOK, ToTodoResponse(todo), "Todo updated successfully")
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx, span := t.startSpan(c, "DeleteTodo")
	defer span.End()

	id := util.ParseID(c.Param("id"))
	span.SetAttributes(attribute.Int("todo.id", id))

	todo, err := t.svc.Delete(ctx, id)

	if err != nil {
		t.fail(c, ctx, span, "delete", err)
		return
	}

	t.Logger.Info(ctx, "Todo deleted", zap.Int("todo_id", todo.ID))

	SendSuccess(c, http.StatusOK, ToTodoResponse(todo), "Todo deleted successfully")
}

func (t *TodoHandler) startSpan(c *gin.Context, operation string) (context.Context, trace.Span) {
	return CreateChildSpan(c.Request.Context(), "handler.todo."+operation, []attribute.KeyValue{
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
}

// fail translates a service error into the response envelope. Only
// unexpected errors are logged and marked on the span.
func (t *TodoHandler) fail(c *gin.Context, ctx context.Context, span trace.Span, operation string, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrTodoNotFound):
		SendNotFoundError(c, MessageTodoNotFound)
	case errors.As(err, &validationErr):
		SendValidationError(c, validationErr)
	default:
		AddSpanError(span, err)

		t.Logger.Error(ctx, "Todo operation failed",
			zap.String("operation", operation),
			zap.Error(err),
		)

		SendInternalError(c)
	}
}
