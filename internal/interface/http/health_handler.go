package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/birthday"
	"github.com/oksasatya/birthday-reminder-api/pkg/response"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB    Pinger        // optional
	Redis *redis.Client // optional
	Clock birthday.Clock
}

func NewHealthHandler(db Pinger, rdb *redis.Client, clock birthday.Clock) *HealthHandler {
	if clock == nil {
		clock = birthday.SystemClock{}
	}
	return &HealthHandler{DB: db, Redis: rdb, Clock: clock}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) now() string {
	return h.Clock.Now().UTC().Format(time.RFC3339)
}

// Live answers as long as the process serves HTTP.
func (h *HealthHandler) Live(c *gin.Context) {
	response.JSON(c, http.StatusOK, healthResponse{Status: "healthy", Timestamp: h.now()})
}

// Ready pings the configured backing stores.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	record := func(name string, err error) {
		if err != nil {
			checks[name] = "unavailable"
			healthy = false
			return
		}
		checks[name] = "ok"
	}
	if h.DB != nil {
		record("database", h.DB.Ping(ctx))
	}
	if h.Redis != nil {
		record("redis", h.Redis.Ping(ctx).Err())
	}

	res := healthResponse{Status: "healthy", Timestamp: h.now(), Checks: checks}
	status := http.StatusOK
	if !healthy {
		res.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	response.JSON(c, status, res)
}
