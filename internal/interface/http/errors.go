package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/internal/application"
	"github.com/oksasatya/birthday-reminder-api/internal/interface/middleware"
	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
	"github.com/oksasatya/birthday-reminder-api/pkg/response"
	"github.com/oksasatya/birthday-reminder-api/pkg/validation"
)

// writeError maps service errors onto status codes. Anything unrecognised is
// logged and answered with failMsg so internals never reach the client.
func writeError(c *gin.Context, logger *logrus.Logger, err error, failMsg string) {
	var (
		fe       *validation.FieldError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &fe):
		response.Error(c, http.StatusBadRequest, fe.Message)
	case errors.Is(err, application.ErrFriendNotFound):
		response.Error(c, http.StatusNotFound, "Friend not found")
	case errors.Is(err, application.ErrRecipientNotFound):
		response.Error(c, http.StatusNotFound, "Reminder recipient not set")
	case errors.Is(err, application.ErrInvalidSuggestionKind):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrSearchQueryRequired):
		response.Error(c, http.StatusBadRequest, "Query parameter q is required")
	case errors.As(err, &tooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "Body must be 1 MB or smaller")
	case errors.Is(err, application.ErrInvalidImport):
		response.Error(c, http.StatusBadRequest, "Body must be a vCard file")
	case errors.Is(err, application.ErrStorageNotConfigured):
		response.Error(c, http.StatusServiceUnavailable, "Calendar publishing is not configured")
	default:
		if logger != nil {
			helpers.LogError(logger, failMsg, err, logrus.Fields{
				"request_id": c.GetString(middleware.CtxRequestIDKey),
				"user_id":    middleware.UserID(c),
				"path":       c.FullPath(),
			})
		}
		response.Error(c, http.StatusInternalServerError, failMsg)
	}
}

// writeBindError reports a request body that could not be decoded or bound.
func writeBindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, validation.FirstMessage(err))
}
