package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/internal/application"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
	"github.com/oksasatya/birthday-reminder-api/internal/interface/middleware"
	"github.com/oksasatya/birthday-reminder-api/pkg/response"
	"github.com/oksasatya/birthday-reminder-api/pkg/validation"
)

const maxImportBytes = 1 << 20

type FriendHandler struct {
	Friends     *application.FriendService
	Suggestions *application.SuggestionService
	Calendar    *application.CalendarService
	Logger      *logrus.Logger
}

func NewFriendHandler(friends *application.FriendService, suggestions *application.SuggestionService, calendar *application.CalendarService, logger *logrus.Logger) *FriendHandler {
	return &FriendHandler{Friends: friends, Suggestions: suggestions, Calendar: calendar, Logger: logger}
}

type friendListResponse struct {
	Friends []entity.FriendWithFacts `json:"friends"`
	Count   int                      `json:"count"`
}

func newFriendList(items []entity.FriendWithFacts) friendListResponse {
	if items == nil {
		items = []entity.FriendWithFacts{}
	}
	return friendListResponse{Friends: items, Count: len(items)}
}

type suggestionRequest struct {
	SuggestionType string `json:"suggestion_type" binding:"required"`
}

type publishResponse struct {
	URL string `json:"url"`
}

func queryFlag(c *gin.Context, key string) bool {
	return strings.ToLower(c.Query(key)) == "true"
}

func (h *FriendHandler) List(c *gin.Context) {
	filter := application.ListFilter{
		Upcoming:  queryFlag(c, "upcoming"),
		Reminders: queryFlag(c, "reminders"),
	}
	items, err := h.Friends.List(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		writeError(c, h.Logger, err, "Failed to fetch friends")
		return
	}
	response.JSON(c, http.StatusOK, newFriendList(items))
}

func (h *FriendHandler) Get(c *gin.Context) {
	f, err := h.Friends.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, "Failed to fetch friend")
		return
	}
	response.JSON(c, http.StatusOK, f)
}

func (h *FriendHandler) Create(c *gin.Context) {
	var in validation.FriendInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err)
		return
	}
	f, err := h.Friends.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		writeError(c, h.Logger, err, "Failed to create friend")
		return
	}
	response.JSON(c, http.StatusCreated, f)
}

func (h *FriendHandler) Update(c *gin.Context) {
	var in validation.FriendInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err)
		return
	}
	f, err := h.Friends.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err, "Failed to update friend")
		return
	}
	response.JSON(c, http.StatusOK, f)
}

func (h *FriendHandler) Delete(c *gin.Context) {
	if err := h.Friends.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err, "Failed to delete friend")
		return
	}
	response.NoContent(c)
}

func (h *FriendHandler) Suggest(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "suggestion_type is required (gifts or events)")
		return
	}
	res, err := h.Suggestions.Suggest(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.SuggestionType)
	if err != nil {
		writeError(c, h.Logger, err, "Failed to generate suggestions")
		return
	}
	response.JSON(c, http.StatusOK, res)
}

func (h *FriendHandler) Search(c *gin.Context) {
	items, err := h.Friends.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"))
	if err != nil {
		writeError(c, h.Logger, err, "Failed to search friends")
		return
	}
	response.JSON(c, http.StatusOK, newFriendList(items))
}

// ExportCalendar serves the caller's birthdays as an .ics download.
func (h *FriendHandler) ExportCalendar(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Calendar.Export(c.Request.Context(), middleware.UserID(c), &buf); err != nil {
		writeError(c, h.Logger, err, "Failed to export calendar")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="birthdays.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func (h *FriendHandler) PublishCalendar(c *gin.Context) {
	url, err := h.Calendar.Publish(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err, "Failed to publish calendar")
		return
	}
	response.JSON(c, http.StatusOK, publishResponse{URL: url})
}

func (h *FriendHandler) Import(c *gin.Context) {
	// Read the whole body first so an oversized upload creates nothing.
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes))
	if err != nil {
		writeError(c, h.Logger, fmt.Errorf("%w: %w", application.ErrInvalidImport, err), "Failed to read import")
		return
	}
	res, err := h.Friends.Import(c.Request.Context(), middleware.UserID(c), bytes.NewReader(body))
	if err != nil {
		writeError(c, h.Logger, err, "Failed to import friends")
		return
	}
	response.JSON(c, http.StatusOK, res)
}
