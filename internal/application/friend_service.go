package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/birthday"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
	repo "github.com/oksasatya/birthday-reminder-api/internal/domain/repository"
	"github.com/oksasatya/birthday-reminder-api/pkg/validation"
)

// DefaultUpcomingWindow is how many days ahead the "upcoming" filter looks.
const DefaultUpcomingWindow = 30

const searchSize = 20

type FriendService struct {
	Repo           repo.FriendRepository
	Calc           birthday.Calculator
	Clock          birthday.Clock
	Location       *time.Location
	UpcomingWindow int
	Index          FriendIndex     // optional
	Cache          SuggestionCache // optional; invalidated on writes
	Logger         *logrus.Logger
}

func NewFriendService(r repo.FriendRepository, calc birthday.Calculator, clock birthday.Clock, loc *time.Location, upcomingWindow int, logger *logrus.Logger) *FriendService {
	if clock == nil {
		clock = birthday.SystemClock{}
	}
	if upcomingWindow <= 0 {
		upcomingWindow = DefaultUpcomingWindow
	}
	return &FriendService{
		Repo:           r,
		Calc:           calc,
		Clock:          clock,
		Location:       loc,
		UpcomingWindow: upcomingWindow,
		Logger:         logger,
	}
}

// ListFilter narrows List. Both filters may be combined.
type ListFilter struct {
	Upcoming  bool
	Reminders bool
}

// Today is the reference date used for every computation in this service.
func (s *FriendService) Today() time.Time {
	return birthday.Today(s.Clock, s.Location)
}

// List returns the caller's friends enriched for today, filtered, and sorted
// by days until the next birthday. Ties keep the repository order.
func (s *FriendService) List(ctx context.Context, userID string, f ListFilter) ([]entity.FriendWithFacts, error) {
	friends, err := s.Repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filterAndSort(s.enrichAll(friends), f, s.UpcomingWindow), nil
}

func (s *FriendService) enrichAll(friends []entity.Friend) []entity.FriendWithFacts {
	today := s.Today()
	out := make([]entity.FriendWithFacts, 0, len(friends))
	for _, f := range friends {
		out = append(out, s.Calc.Enrich(f, today))
	}
	return out
}

func filterAndSort(items []entity.FriendWithFacts, f ListFilter, window int) []entity.FriendWithFacts {
	out := make([]entity.FriendWithFacts, 0, len(items))
	for _, it := range items {
		if f.Upcoming && it.DaysUntilBirthday > window {
			continue
		}
		if f.Reminders && !it.IsReminderDue {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysUntilBirthday < out[j].DaysUntilBirthday
	})
	return out
}

// Friend loads a raw friend record. Malformed ids are reported as not found.
func (s *FriendService) Friend(ctx context.Context, userID, id string) (*entity.Friend, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrFriendNotFound
	}
	f, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFriendNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *FriendService) Get(ctx context.Context, userID, id string) (*entity.FriendWithFacts, error) {
	f, err := s.Friend(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	out := s.Calc.Enrich(*f, s.Today())
	return &out, nil
}

func (s *FriendService) Create(ctx context.Context, userID string, in validation.FriendInput) (*entity.FriendWithFacts, error) {
	today := s.Today()
	if err := validation.ValidateFriend(in, false, today); err != nil {
		return nil, err
	}
	dob, err := birthday.ParseDate(*in.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("parse validated date: %w", err)
	}

	f := &entity.Friend{
		UserID:      userID,
		Name:        strings.TrimSpace(*in.Name),
		DateOfBirth: dob,
		Notes:       normalizeNotes(in.Notes),
	}
	if err := s.Repo.Create(ctx, f); err != nil {
		return nil, err
	}
	s.index(ctx, *f)

	out := s.Calc.Enrich(*f, today)
	return &out, nil
}

func (s *FriendService) Update(ctx context.Context, userID, id string, in validation.FriendInput) (*entity.FriendWithFacts, error) {
	today := s.Today()
	if err := validation.ValidateFriend(in, true, today); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrFriendNotFound
	}

	var patch entity.FriendPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		patch.Name = &name
	}
	if in.DateOfBirth != nil {
		dob, err := birthday.ParseDate(*in.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("parse validated date: %w", err)
		}
		patch.DateOfBirth = &dob
	}
	if in.Notes != nil {
		notes := strings.TrimSpace(*in.Notes)
		patch.Notes = &notes
	}

	f, err := s.Repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFriendNotFound
		}
		return nil, err
	}
	s.index(ctx, *f)
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, f.ID)
	}

	out := s.Calc.Enrich(*f, today)
	return &out, nil
}

func (s *FriendService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrFriendNotFound
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrFriendNotFound
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, userID, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("friend_id", id).Warn("search index remove failed")
		}
	}
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, id)
	}
	return nil
}

// Search runs a full-text query over the caller's friends. Without an index
// it returns an empty result.
func (s *FriendService) Search(ctx context.Context, userID, query string) ([]entity.FriendWithFacts, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryRequired
	}
	if s.Index == nil {
		return []entity.FriendWithFacts{}, nil
	}
	ids, err := s.Index.Search(ctx, userID, query, searchSize)
	if err != nil {
		return nil, fmt.Errorf("search friends: %w", err)
	}
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	friends, err := s.Repo.ListByIDs(ctx, userID, valid)
	if err != nil {
		return nil, err
	}

	// Keep the index ranking; drop hits whose row is gone.
	byID := make(map[string]entity.Friend, len(friends))
	for _, f := range friends {
		byID[f.ID] = f
	}
	ranked := make([]entity.Friend, 0, len(friends))
	for _, id := range valid {
		if f, ok := byID[id]; ok {
			ranked = append(ranked, f)
		}
	}
	return s.enrichAll(ranked), nil
}

// Reindex writes every friend of userID to the search index, for rows created
// before the index existed or written around the service. It stops at the
// first index error and reports how many were written.
func (s *FriendService) Reindex(ctx context.Context, userID string) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	friends, err := s.Repo.ListByOwner(ctx, userID)
	if err != nil {
		return 0, err
	}
	for i, f := range friends {
		if err := s.Index.Index(ctx, f); err != nil {
			return i, fmt.Errorf("reindex friend %s: %w", f.ID, err)
		}
	}
	return len(friends), nil
}

func (s *FriendService) index(ctx context.Context, f entity.Friend) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, f); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("friend_id", f.ID).Warn("search index update failed")
	}
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
