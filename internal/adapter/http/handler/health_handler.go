package handler

import (
	"time"

	. "todoapi/internal/adapter/http/helper"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: func() time.Time { return time.Now().UTC() }}
}

func (h *HealthHandler) Health(c *gin.Context) {
	SendHealth(c, h.now())
}
