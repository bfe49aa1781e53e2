package helper

import (
	"net/http"
	"time"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

const (
	MessageTodoNotFound     = "Todo not found"
	MessageEndpointNotFound = "Endpoint not found"
	MessageInvalidBody      = "Invalid request body"
	MessageInternalError    = "Internal server error"
)

func ToTodoResponse(todo domain.Todo) response.TodoResponse {
	return response.TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		CreatedAt:   response.ISOTime(todo.CreatedAt),
		UpdatedAt:   response.ISOTime(todo.UpdatedAt),
	}
}

func ToTodoResponses(todos []domain.Todo) []response.TodoResponse {
	data := make([]response.TodoResponse, 0, len(todos))

	for _, todo := range todos {
		data = append(data, ToTodoResponse(todo))
	}

	return data
}

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	response := response.SuccessResponse{
		Success: true,
		Data:    data,
	}

	if len(message) > 0 && message[0] != "" {
		response.Message = message[0]
	}

	c.JSON(statusCode, response)
}

func SendList(c *gin.Context, data []response.TodoResponse) {
	c.JSON(http.StatusOK, response.ListResponse{
		Success: true,
		Data:    data,
		Count:   len(data),
	})
}

func SendHealth(c *gin.Context, now time.Time) {
	c.JSON(http.StatusOK, response.HealthResponse{
		Success:   true,
		Message:   "Server is running",
		Timestamp: response.ISOTime(now),
	})
}

func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, response.ErrorResponse{
		Success: false,
		Message: message,
	})
}

func SendValidationError(c *gin.Context, err *domain.ValidationError) {
	SendError(c, http.StatusBadRequest, err.Message)
}

func SendBadRequestError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalError(c *gin.Context) {
	SendError(c, http.StatusInternalServerError, MessageInternalError)
}
