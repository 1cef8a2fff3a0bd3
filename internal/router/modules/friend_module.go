package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/birthday-reminder-api/internal/interface/http"
	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
)

// FriendModule wires the friend collection routes. Every route requires a
// bearer token.
type FriendModule struct {
	Handler *handlers.FriendHandler
	JWT     *helpers.JWTVerifier
	Logger  *logrus.Logger
	Limits  Limits
}

func NewFriendModule(h *handlers.FriendHandler, jwt *helpers.JWTVerifier, logger *logrus.Logger, l Limits) *FriendModule {
	return &FriendModule{Handler: h, JWT: jwt, Logger: logger, Limits: l}
}

func (m *FriendModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/friends")
	auth.Use(protect(m.JWT, m.Logger, m.Limits)...)
	{
		auth.GET("", m.Handler.List)
		auth.POST("", m.Handler.Create)

		// Static segments before :id.
		auth.GET("/search", m.Handler.Search)
		auth.GET("/calendar.ics", m.Handler.ExportCalendar)
		auth.POST("/calendar/publish", m.Handler.PublishCalendar)
		auth.POST("/import", m.Handler.Import)

		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/suggestions", m.Handler.Suggest)
	}
}
