package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/birthday-reminder-api/internal/interface/middleware"
	"github.com/oksasatya/birthday-reminder-api/pkg/metrics"
)

type MetricsModule struct {
	Metrics *metrics.Metrics
	Redis   *redis.Client
}

func NewMetricsModule(m *metrics.Metrics, rdb *redis.Client) *MetricsModule {
	return &MetricsModule{Metrics: m, Redis: rdb}
}

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	// Public Prometheus endpoint, rate-limited per IP; private networks bypass.
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP(), m.Metrics)
	rg.GET("/metrics", rl, gin.WrapH(m.Metrics.Handler()))
}
