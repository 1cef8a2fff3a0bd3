// Package container carries the process-wide handles built once in main and
// handed to the router and the workers.
package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/config"
	"github.com/oksasatya/birthday-reminder-api/internal/application"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/birthday"
	repo "github.com/oksasatya/birthday-reminder-api/internal/domain/repository"
	"github.com/oksasatya/birthday-reminder-api/internal/infrastructure/cache"
	"github.com/oksasatya/birthday-reminder-api/internal/infrastructure/gemini"
	pginfra "github.com/oksasatya/birthday-reminder-api/internal/infrastructure/postgres"
	"github.com/oksasatya/birthday-reminder-api/internal/infrastructure/search"
	gcsstore "github.com/oksasatya/birthday-reminder-api/internal/infrastructure/storage"
	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
	"github.com/oksasatya/birthday-reminder-api/pkg/metrics"
)

// Container holds optional infrastructure: a nil client means the feature
// it backs is disabled.
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Clock   birthday.Clock
	Metrics *metrics.Metrics

	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	GCS       *storage.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher
	Gemini    *gemini.Provider
	JWT       *helpers.JWTVerifier

	// Repositories default to Postgres over PGPool when left nil.
	Friends    repo.FriendRepository
	Recipients repo.RecipientRepository
}

func (c *Container) FriendRepository() repo.FriendRepository {
	if c.Friends == nil {
		c.Friends = pginfra.NewFriendRepository(c.PGPool)
	}
	return c.Friends
}

func (c *Container) RecipientRepository() repo.RecipientRepository {
	if c.Recipients == nil {
		c.Recipients = pginfra.NewRecipientRepository(c.PGPool)
	}
	return c.Recipients
}

func (c *Container) clock() birthday.Clock {
	if c.Clock == nil {
		return birthday.SystemClock{}
	}
	return c.Clock
}

func (c *Container) calculator() birthday.Calculator {
	return birthday.NewCalculator(c.Config.ReminderThresholdDays)
}

// FriendService wires the friend collection with the optional search index
// and suggestion cache.
func (c *Container) FriendService() *application.FriendService {
	svc := application.NewFriendService(
		c.FriendRepository(),
		c.calculator(),
		c.clock(),
		c.Config.Location(),
		c.Config.UpcomingWindowDays,
		c.Logger,
	)
	if idx := search.NewFriendIndex(c.ES, c.Config.ESFriendsIndex); idx != nil {
		svc.Index = idx
	}
	if sc := c.suggestionCache(); sc != nil {
		svc.Cache = sc
	}
	return svc
}

func (c *Container) SuggestionService(friends *application.FriendService) *application.SuggestionService {
	var provider application.SuggestionProvider
	if c.Gemini != nil {
		provider = c.Gemini
	}
	var sc application.SuggestionCache
	if v := c.suggestionCache(); v != nil {
		sc = v
	}
	return application.NewSuggestionService(friends, provider, sc, c.Metrics, c.Logger)
}

func (c *Container) CalendarService(friends *application.FriendService) *application.CalendarService {
	svc := &application.CalendarService{Friends: friends}
	if store := gcsstore.NewGCSStore(c.GCS, c.Config.GCSBucket); store != nil {
		svc.Store = store
	}
	return svc
}

func (c *Container) ReminderService() *application.ReminderService {
	svc := &application.ReminderService{
		Recipients: c.RecipientRepository(),
		Friends:    c.FriendRepository(),
		Calc:       c.calculator(),
		Clock:      c.clock(),
		Location:   c.Config.Location(),
		DedupTTL:   c.Config.ReminderDedupTTL,
		Metrics:    c.Metrics,
		Logger:     c.Logger,
	}
	if c.RabbitPub != nil {
		svc.Publisher = c.RabbitPub
	}
	if g := cache.NewOccurrenceGuard(c.Redis); g != nil {
		svc.Guard = g
	}
	return svc
}

func (c *Container) suggestionCache() *cache.SuggestionCache {
	return cache.NewSuggestionCache(c.Redis, c.Config.SuggestionCacheTTL, c.Logger)
}

// Close releases every handle that was opened. Safe on a partly filled
// Container.
func (c *Container) Close() {
	if c.RabbitPub != nil {
		c.RabbitPub.Close()
	}
	if c.Gemini != nil {
		c.Gemini.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}
