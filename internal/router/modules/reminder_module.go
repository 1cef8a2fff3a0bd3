package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/birthday-reminder-api/internal/interface/http"
	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
)

type ReminderModule struct {
	Handler *handlers.ReminderHandler
	JWT     *helpers.JWTVerifier
	Logger  *logrus.Logger
	Limits  Limits
}

func NewReminderModule(h *handlers.ReminderHandler, jwt *helpers.JWTVerifier, logger *logrus.Logger, l Limits) *ReminderModule {
	return &ReminderModule{Handler: h, JWT: jwt, Logger: logger, Limits: l}
}

func (m *ReminderModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/reminders")
	auth.Use(protect(m.JWT, m.Logger, m.Limits)...)
	{
		auth.GET("/recipient", m.Handler.GetRecipient)
		auth.PUT("/recipient", m.Handler.PutRecipient)
	}
}
