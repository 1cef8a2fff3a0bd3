package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/birthday-reminder-api/internal/interface/http"
)

// HealthModule serves unauthenticated liveness and readiness probes.
type HealthModule struct {
	Handler *handlers.HealthHandler
}

func NewHealthModule(h *handlers.HealthHandler) *HealthModule {
	return &HealthModule{Handler: h}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Handler.Live)
	rg.GET("/health/ready", m.Handler.Ready)
}
