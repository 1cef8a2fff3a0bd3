package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/internal/application"
	"github.com/oksasatya/birthday-reminder-api/internal/interface/middleware"
	"github.com/oksasatya/birthday-reminder-api/pkg/response"
)

type ReminderHandler struct {
	Reminders *application.ReminderService
	Logger    *logrus.Logger
}

func NewReminderHandler(svc *application.ReminderService, logger *logrus.Logger) *ReminderHandler {
	return &ReminderHandler{Reminders: svc, Logger: logger}
}

type recipientRequest struct {
	Email   string `json:"email" binding:"required"`
	Enabled *bool  `json:"enabled"`
}

func (h *ReminderHandler) GetRecipient(c *gin.Context) {
	rec, err := h.Reminders.GetRecipient(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err, "Failed to fetch reminder recipient")
		return
	}
	response.JSON(c, http.StatusOK, rec)
}

func (h *ReminderHandler) PutRecipient(c *gin.Context) {
	var req recipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	rec, err := h.Reminders.SetRecipient(c.Request.Context(), middleware.UserID(c), req.Email, req.Enabled)
	if err != nil {
		writeError(c, h.Logger, err, "Failed to save reminder recipient")
		return
	}
	response.JSON(c, http.StatusOK, rec)
}
