package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/internal/interface/middleware"
	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
	"github.com/oksasatya/birthday-reminder-api/pkg/metrics"
)

// Limits configures the per-user limiter shared by authenticated modules.
type Limits struct {
	Redis     *redis.Client
	PerMinute int
	Metrics   *metrics.Metrics
}

// protect returns bearer auth followed by the per-user limiter.
func protect(jwt *helpers.JWTVerifier, logger *logrus.Logger, l Limits) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.Auth(jwt, logger),
		middleware.RateLimit(l.Redis, l.PerMinute, time.Minute, middleware.KeyByUserID(), nil, l.Metrics),
	}
}
