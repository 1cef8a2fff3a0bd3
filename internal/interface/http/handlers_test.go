package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/birthday-reminder-api/internal/application"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/birthday"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
	"github.com/oksasatya/birthday-reminder-api/internal/infrastructure/memory"
	"github.com/oksasatya/birthday-reminder-api/internal/interface/middleware"
	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
	"github.com/oksasatya/birthday-reminder-api/pkg/response"
	"github.com/oksasatya/birthday-reminder-api/pkg/validation"
)

const (
	owner    = "6f1c2a4e-8b1d-4c1e-9a0b-3f7f1b2c9d10"
	stranger = "0b9d7a1e-1111-4c1e-9a0b-3f7f1b2c9d10"
)

var now = time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

type failingProvider struct{}

func (failingProvider) Generate(context.Context, string) (string, error) {
	return "", errors.New("quota exceeded")
}

type fakeStore struct{ path string }

func (s *fakeStore) Put(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	s.path = objectPath
	return "https://storage.googleapis.com/bucket/" + objectPath, nil
}

type HandlerSuite struct {
	suite.Suite
	router  *gin.Engine
	friends *application.FriendService
	store   *fakeStore
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func (s *HandlerSuite) SetupTest() {
	logger := helpers.NopLogger()
	clock := birthday.FixedClock(now)
	calc := birthday.NewCalculator(birthday.DefaultReminderThreshold)
	repo := memory.NewFriendRepository()

	s.friends = application.NewFriendService(repo, calc, clock, time.UTC, 30, logger)
	suggestions := application.NewSuggestionService(s.friends, failingProvider{}, nil, nil, logger)
	s.store = &fakeStore{}
	calendar := &application.CalendarService{Friends: s.friends, Store: s.store}
	reminders := &application.ReminderService{
		Recipients: memory.NewRecipientRepository(),
		Friends:    repo,
		Calc:       calc,
		Clock:      clock,
		Logger:     logger,
	}

	fh := NewFriendHandler(s.friends, suggestions, calendar, logger)
	rh := NewReminderHandler(reminders, logger)
	hh := NewHealthHandler(nil, nil, clock)

	r := gin.New()
	r.GET("/health", hh.Live)
	r.GET("/health/ready", hh.Ready)

	// X-User stands in for the bearer middleware.
	auth := r.Group("/", func(c *gin.Context) {
		if uid := c.GetHeader("X-User"); uid != "" {
			c.Set(middleware.CtxUserIDKey, uid)
		}
		c.Next()
	})
	auth.GET("/friends", fh.List)
	auth.POST("/friends", fh.Create)
	auth.GET("/friends/search", fh.Search)
	auth.GET("/friends/calendar.ics", fh.ExportCalendar)
	auth.POST("/friends/calendar/publish", fh.PublishCalendar)
	auth.POST("/friends/import", fh.Import)
	auth.GET("/friends/:id", fh.Get)
	auth.PUT("/friends/:id", fh.Update)
	auth.DELETE("/friends/:id", fh.Delete)
	auth.POST("/friends/:id/suggestions", fh.Suggest)
	auth.GET("/reminders/recipient", rh.GetRecipient)
	auth.PUT("/reminders/recipient", rh.PutRecipient)
	s.router = r
}

func (s *HandlerSuite) do(method, path, user, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User", user)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) errorBody(w *httptest.ResponseRecorder) response.ErrorBody {
	var body response.ErrorBody
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (s *HandlerSuite) createFriend(name, dob string) entity.FriendWithFacts {
	w := s.do(http.MethodPost, "/friends", owner, `{"name":"`+name+`","date_of_birth":"`+dob+`"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var f entity.FriendWithFacts
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &f))
	return f
}

func (s *HandlerSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"healthy","timestamp":"2025-06-15T14:00:00Z"}`, w.Body.String())

	w = s.do(http.MethodGet, "/health/ready", "", "")
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestCreateAndGet() {
	f := s.createFriend("Ada", "1990-06-20")
	s.Equal(34, f.Age)
	s.Equal("2025-06-20", f.NextBirthday)
	s.Equal(5, f.DaysUntilBirthday)
	s.False(f.IsReminderDue)

	w := s.do(http.MethodGet, "/friends/"+f.ID, owner, "")
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/friends/"+f.ID, stranger, "")
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(response.ErrorBody{Error: "Not Found", Message: "Friend not found"}, s.errorBody(w))

	w = s.do(http.MethodGet, "/friends/not-a-uuid", owner, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestCreate_Validation() {
	w := s.do(http.MethodPost, "/friends", owner, `{"date_of_birth":"1990-01-01"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	body := s.errorBody(w)
	s.Equal("Bad Request", body.Error)
	s.Contains(strings.ToLower(body.Message), "name")

	w = s.do(http.MethodPost, "/friends", owner, `{"name":"Ada","date_of_birth":"2030-01-01"}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/friends", owner, `not json`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Request body must be JSON", s.errorBody(w).Message)
}

func (s *HandlerSuite) TestList_Filters() {
	s.createFriend("In forty", "1990-07-25")
	s.createFriend("In five", "1990-06-20")
	s.createFriend("In one", "1990-06-16")

	w := s.do(http.MethodGet, "/friends?upcoming=TRUE", owner, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var list friendListResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Equal(2, list.Count)
	s.Equal("In one", list.Friends[0].Name)
	s.Equal("In five", list.Friends[1].Name)

	w = s.do(http.MethodGet, "/friends?reminders=true", owner, "")
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Equal(1, list.Count)

	w = s.do(http.MethodGet, "/friends?upcoming=1", owner, "")
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Equal(3, list.Count)

	w = s.do(http.MethodGet, "/friends", stranger, "")
	s.JSONEq(`{"friends":[],"count":0}`, w.Body.String())
}

func (s *HandlerSuite) TestUpdateAndDelete() {
	f := s.createFriend("Ada", "1990-06-20")

	w := s.do(http.MethodPut, "/friends/"+f.ID, owner, `{"notes":"likes jazz"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	var updated entity.FriendWithFacts
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	s.Require().NotNil(updated.Notes)
	s.Equal("likes jazz", *updated.Notes)
	s.Equal("Ada", updated.Name)

	w = s.do(http.MethodPut, "/friends/"+f.ID, stranger, `{"name":"Mallory"}`)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, "/friends/"+f.ID, owner, `{"name":null}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Name is required", s.errorBody(w).Message)

	w = s.do(http.MethodDelete, "/friends/"+f.ID, stranger, "")
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/friends/"+f.ID, owner, "")
	s.Equal(http.StatusNoContent, w.Code)
	s.Empty(w.Body.String())

	w = s.do(http.MethodDelete, "/friends/"+f.ID, owner, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestSuggestions_FallbackIs200() {
	f := s.createFriend("Ada", "1990-06-20")

	w := s.do(http.MethodPost, "/friends/"+f.ID+"/suggestions", owner, `{"suggestion_type":"GIFTS"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	var res entity.SuggestionResult
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Equal("Ada", res.FriendName)
	s.Equal(34, res.Age)
	s.Equal(entity.SuggestionGifts, res.SuggestionType)
	s.Len(res.Suggestions, 3)
}

func (s *HandlerSuite) TestSuggestions_Errors() {
	f := s.createFriend("Ada", "1990-06-20")

	w := s.do(http.MethodPost, "/friends/"+f.ID+"/suggestions", owner, `{}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("suggestion_type is required (gifts or events)", s.errorBody(w).Message)

	w = s.do(http.MethodPost, "/friends/"+f.ID+"/suggestions", owner, `{"suggestion_type":"flowers"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(`suggestion_type must be "gifts" or "events"`, s.errorBody(w).Message)

	w = s.do(http.MethodPost, "/friends/"+f.ID+"/suggestions", stranger, `{"suggestion_type":"events"}`)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestSearch() {
	w := s.do(http.MethodGet, "/friends/search?q=%20", owner, "")
	s.Equal(http.StatusBadRequest, w.Code)

	// No index configured: empty result.
	w = s.do(http.MethodGet, "/friends/search?q=ada", owner, "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"friends":[],"count":0}`, w.Body.String())
}

func (s *HandlerSuite) TestCalendar() {
	s.createFriend("Ada", "1990-06-20")

	w := s.do(http.MethodGet, "/friends/calendar.ics", owner, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "birthdays.ics")
	s.Contains(w.Body.String(), "SUMMARY:Ada's birthday (turns 35)")

	w = s.do(http.MethodPost, "/friends/calendar/publish", owner, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(strings.HasPrefix(s.store.path, "calendars/"+owner+"/"))
	s.Contains(w.Body.String(), `"url":"https://storage.googleapis.com/bucket/calendars/`)
}

func (s *HandlerSuite) TestImport() {
	body := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Grace Hopper\r\nBDAY:1985-07-25\r\nEND:VCARD\r\n"
	w := s.do(http.MethodPost, "/friends/import", owner, body)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Contains(w.Body.String(), `"imported":1`)

	w = s.do(http.MethodPost, "/friends/import", owner, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Body must be a vCard file", s.errorBody(w).Message)
}

func (s *HandlerSuite) TestImport_TooLarge() {
	card := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Grace Hopper\r\nBDAY:1985-07-25\r\nEND:VCARD\r\n"
	body := strings.Repeat(card, maxImportBytes/len(card)+1)

	w := s.do(http.MethodPost, "/friends/import", owner, body)
	s.Equal(http.StatusRequestEntityTooLarge, w.Code)
	s.Equal("Body must be 1 MB or smaller", s.errorBody(w).Message)

	w = s.do(http.MethodGet, "/friends", owner, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"count":0`, "nothing is imported from an oversized body")
}

func (s *HandlerSuite) TestReminderRecipient() {
	w := s.do(http.MethodGet, "/reminders/recipient", owner, "")
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, "/reminders/recipient", owner, `{}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("email is required", s.errorBody(w).Message)

	w = s.do(http.MethodPut, "/reminders/recipient", owner, `{"email":"Me@Example.com","enabled":false}`)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/reminders/recipient", owner, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var rec entity.ReminderRecipient
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rec))
	s.Equal("me@example.com", rec.Email)
	s.False(rec.Enabled)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func TestReady_Unhealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(failingPinger{}, nil, birthday.FixedClock(now))
	r := gin.New()
	r.GET("/ready", h.Ready)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unhealthy","timestamp":"2025-06-15T14:00:00Z","checks":{"database":"unavailable"}}`, w.Body.String())
}

type brokenRepo struct{ *memory.FriendRepository }

func (brokenRepo) ListByOwner(context.Context, string) ([]entity.Friend, error) {
	return nil, errors.New("connection reset")
}

func TestList_PersistenceFailureIsGeneric500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := application.NewFriendService(brokenRepo{memory.NewFriendRepository()}, birthday.Calculator{}, birthday.FixedClock(now), time.UTC, 30, helpers.NopLogger())
	h := NewFriendHandler(svc, nil, nil, helpers.NopLogger())
	r := gin.New()
	r.GET("/friends", func(c *gin.Context) { c.Set(middleware.CtxUserIDKey, owner) }, h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/friends", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error","message":"Failed to fetch friends"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "connection reset")
}
