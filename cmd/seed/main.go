package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/oksasatya/birthday-reminder-api/config"
	"github.com/oksasatya/birthday-reminder-api/internal/container"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/birthday"
	pginfra "github.com/oksasatya/birthday-reminder-api/internal/infrastructure/postgres"
	"github.com/oksasatya/birthday-reminder-api/internal/infrastructure/search"
	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
	"github.com/oksasatya/birthday-reminder-api/pkg/validation"
)

type demoFriend struct {
	name, notes string
	// days from today to the birthday, and age turned on it
	inDays, turning int
}

var demo = []demoFriend{
	{"Ada Lovelace", "Loves mathematics and poetry", 0, 36},
	{"Grace Hopper", "Collects vintage computers", 2, 45},
	{"Alan Turing", "Marathon runner, enjoys chess", 12, 41},
	{"Katherine Johnson", "", 45, 29},
	{"Leap Day Larry", "Born on 29 February", -1, 0},
}

// Seeds demo friends for SEED_OWNER_ID so the UI has data relative to today.
// With SUPABASE_JWT_SECRET set it also prints a token for that owner. With
// -reindex it only writes the owner's existing friends to Elasticsearch.
func main() {
	reindexOnly := flag.Bool("reindex", false, "index existing friends of SEED_OWNER_ID and exit")
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.Debug)

	owner := os.Getenv("SEED_OWNER_ID")
	if _, err := uuid.Parse(owner); err != nil {
		log.Fatalf("SEED_OWNER_ID must be a user uuid: %v", err)
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	c := &container.Container{Config: cfg, Logger: logger, Clock: birthday.SystemClock{}, PGPool: pool}
	defer c.Close()

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("failed to create elasticsearch client: %v", err)
	}
	c.ES = es
	if idx := search.NewFriendIndex(es, cfg.ESFriendsIndex); idx != nil {
		if err := idx.EnsureIndex(ctx); err != nil {
			log.Fatalf("failed to ensure search index: %v", err)
		}
	}

	svc := c.FriendService()
	if *reindexOnly {
		if es == nil {
			log.Fatal("ELASTICSEARCH_ADDRS is not set")
		}
		n, err := svc.Reindex(ctx, owner)
		if err != nil {
			log.Fatalf("reindex stopped after %d friends: %v", n, err)
		}
		fmt.Printf("reindexed %d friends\n", n)
		return
	}
	today := svc.Today()
	for _, d := range demo {
		in := input(d, today)
		f, err := svc.Create(ctx, owner, in)
		if err != nil {
			log.Fatalf("failed to seed %s: %v", d.name, err)
		}
		fmt.Printf("seeded friend: id=%s name=%s dob=%s next=%s\n", f.ID, f.Name, f.DateOfBirth, f.NextBirthday)
	}

	if cfg.SupabaseJWTSecret != "" {
		tok, err := helpers.NewJWTVerifier(cfg.SupabaseJWTSecret, cfg.SupabaseJWTAudience).Sign(owner, "", 24*time.Hour)
		if err != nil {
			log.Fatalf("failed to sign token: %v", err)
		}
		fmt.Printf("bearer token (24h): %s\n", tok)
	}
}

func input(d demoFriend, today time.Time) validation.FriendInput {
	var dob time.Time
	if d.inDays < 0 {
		dob = time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC)
	} else {
		next := today.AddDate(0, 0, d.inDays)
		dob = next.AddDate(-d.turning, 0, 0)
	}
	name, date := d.name, birthday.FormatDate(dob)
	in := validation.FriendInput{Name: &name, DateOfBirth: &date}
	if d.notes != "" {
		notes := d.notes
		in.Notes = &notes
	}
	return in
}
