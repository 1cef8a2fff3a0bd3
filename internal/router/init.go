package router

import (
	"github.com/oksasatya/birthday-reminder-api/internal/container"
	handlers "github.com/oksasatya/birthday-reminder-api/internal/interface/http"
	"github.com/oksasatya/birthday-reminder-api/internal/router/modules"
)

type FriendModuleDeps struct {
	Friend   *handlers.FriendHandler
	Reminder *handlers.ReminderHandler
	Health   *handlers.HealthHandler
}

func buildDeps(c *container.Container) FriendModuleDeps {
	friends := c.FriendService()

	var db handlers.Pinger
	if c.PGPool != nil {
		db = c.PGPool
	}

	return FriendModuleDeps{
		Friend: handlers.NewFriendHandler(
			friends,
			c.SuggestionService(friends),
			c.CalendarService(friends),
			c.Logger,
		),
		Reminder: handlers.NewReminderHandler(c.ReminderService(), c.Logger),
		Health:   handlers.NewHealthHandler(db, c.Redis, c.Clock),
	}
}

// InitModules wires every module from c and adds it to r. Call once at
// startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	deps := buildDeps(c)
	limit := modules.Limits{
		Redis:     c.Redis,
		PerMinute: c.Config.RateLimitPerMinute,
		Metrics:   c.Metrics,
	}

	r.Add(modules.NewHealthModule(deps.Health))
	r.Add(modules.NewFriendModule(deps.Friend, c.JWT, c.Logger, limit))
	r.Add(modules.NewReminderModule(deps.Reminder, c.JWT, c.Logger, limit))
	if c.Config.MetricsEnabled && c.Metrics != nil {
		r.AddRoot(modules.NewMetricsModule(c.Metrics, c.Redis))
	}
}
