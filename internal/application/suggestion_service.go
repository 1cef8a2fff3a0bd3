package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
	"github.com/oksasatya/birthday-reminder-api/pkg/metrics"
)

// MaxSuggestions caps how many provider items are returned.
const MaxSuggestions = 5

var errNoSuggestions = errors.New("provider returned no usable suggestions")

type SuggestionService struct {
	Friends  *FriendService
	Provider SuggestionProvider // optional; nil always falls back
	Cache    SuggestionCache    // optional
	Metrics  *metrics.Metrics
	Logger   *logrus.Logger
}

func NewSuggestionService(friends *FriendService, provider SuggestionProvider, cache SuggestionCache, m *metrics.Metrics, logger *logrus.Logger) *SuggestionService {
	return &SuggestionService{Friends: friends, Provider: provider, Cache: cache, Metrics: m, Logger: logger}
}

// ParseKind accepts "gifts" or "events" in any case.
func ParseKind(s string) (entity.SuggestionKind, error) {
	switch entity.SuggestionKind(strings.ToLower(strings.TrimSpace(s))) {
	case entity.SuggestionGifts:
		return entity.SuggestionGifts, nil
	case entity.SuggestionEvents:
		return entity.SuggestionEvents, nil
	default:
		return "", ErrInvalidSuggestionKind
	}
}

// Suggest returns ideas for one friend. Provider and parse failures never
// surface: the fixed list for the kind is returned instead.
func (s *SuggestionService) Suggest(ctx context.Context, userID, friendID, rawKind string) (*entity.SuggestionResult, error) {
	kind, err := ParseKind(rawKind)
	if err != nil {
		return nil, err
	}
	f, err := s.Friends.Friend(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	enriched := s.Friends.Calc.Enrich(*f, s.Friends.Today())

	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, f.ID, kind); ok && cached.Age == enriched.Age && cached.FriendName == enriched.Name {
			s.Metrics.IncrementSuggestions(string(kind), metrics.SuggestionCache)
			return cached, nil
		}
	}

	res := &entity.SuggestionResult{
		FriendName:     enriched.Name,
		Age:            enriched.Age,
		SuggestionType: kind,
		GeneratedAt:    s.Friends.Clock.Now().UTC(),
	}

	items, err := s.generate(ctx, kind, enriched.Name, enriched.Age, enriched.Notes)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"friend_id": f.ID, "kind": kind}).Warn("suggestion provider failed, using fallback")
		}
		res.Suggestions = FallbackSuggestions(kind)
		s.Metrics.IncrementSuggestions(string(kind), metrics.SuggestionFallback)
		return res, nil
	}

	res.Suggestions = items
	s.Metrics.IncrementSuggestions(string(kind), metrics.SuggestionProvider)
	if s.Cache != nil {
		s.Cache.Set(ctx, f.ID, *res)
	}
	return res, nil
}

func (s *SuggestionService) generate(ctx context.Context, kind entity.SuggestionKind, name string, age int, notes *string) ([]entity.Suggestion, error) {
	if s.Provider == nil {
		return nil, errors.New("suggestion provider not configured")
	}
	text, err := s.Provider.Generate(ctx, BuildPrompt(kind, name, age, notes))
	if err != nil {
		return nil, err
	}
	return ParseSuggestions(text)
}

// BuildPrompt renders the instruction sent to the provider.
func BuildPrompt(kind entity.SuggestionKind, name string, age int, notes *string) string {
	relationship := "No additional context provided"
	if notes != nil && strings.TrimSpace(*notes) != "" {
		relationship = strings.TrimSpace(*notes)
	}
	details := fmt.Sprintf("Friend Details:\n- Name: %s\n- Age: %d (turning %d)\n- Relationship Context: %s\n", name, age, age+1, relationship)

	if kind == entity.SuggestionEvents {
		return "You are a creative event planning assistant. Based on the following information about a friend, suggest 5 small celebration or surprise ideas for their upcoming birthday.\n\n" +
			details + `
Requirements:
1. Suggest events ranging from intimate to small group activities
2. Include both in-person and virtual options
3. Consider age-appropriate activities
4. Provide brief planning tips for each
5. Format as JSON array with fields: title, description, planning_tips, estimated_budget

Output ONLY valid JSON in this exact format:
[
  {
    "title": "Event name",
    "description": "Brief description",
    "planning_tips": "How to execute this",
    "estimated_budget": "$X-$Y or Free"
  }
]`
	}

	return "You are a thoughtful gift recommendation assistant. Based on the following information about a friend, suggest 5 personalized gift ideas for their upcoming birthday.\n\n" +
		details + `
Requirements:
1. Suggest gifts appropriate for their age and interests
2. Include a mix of price ranges (budget-friendly to premium)
3. Provide brief reasoning for each suggestion
4. Format as JSON array with fields: title, description, reasoning, estimated_price_range

Output ONLY valid JSON in this exact format:
[
  {
    "title": "Gift name",
    "description": "Brief description",
    "reasoning": "Why this gift fits",
    "estimated_price_range": "$X-$Y"
  }
]`
}

// ParseSuggestions decodes the provider's JSON array, tolerating a markdown
// code fence around it. Items without a title are dropped and at most
// MaxSuggestions are kept.
func ParseSuggestions(text string) ([]entity.Suggestion, error) {
	text = stripFence(strings.TrimSpace(text))

	var raw []entity.Suggestion
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	out := make([]entity.Suggestion, 0, MaxSuggestions)
	for _, it := range raw {
		if strings.TrimSpace(it.Title) == "" {
			continue
		}
		out = append(out, it)
		if len(out) == MaxSuggestions {
			break
		}
	}
	if len(out) == 0 {
		return nil, errNoSuggestions
	}
	return out, nil
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	parts := strings.SplitN(text, "```", 3)
	if len(parts) < 2 {
		return text
	}
	body := strings.TrimSpace(parts[1])
	if strings.HasPrefix(strings.ToLower(body), "json") {
		body = body[len("json"):]
	}
	return strings.TrimSpace(body)
}

// FallbackSuggestions is the fixed list served when the provider cannot help.
func FallbackSuggestions(kind entity.SuggestionKind) []entity.Suggestion {
	if kind == entity.SuggestionEvents {
		return []entity.Suggestion{
			{
				Title:           "Surprise Birthday Dinner",
				Description:     "Organize a dinner at their favorite restaurant",
				PlanningTips:    "Make a reservation, invite close friends, coordinate arrival time",
				EstimatedBudget: "$30-$100 per person",
			},
			{
				Title:           "Virtual Birthday Party",
				Description:     "Host a video call celebration with friends and family",
				PlanningTips:    "Send calendar invites, prepare games or activities, arrange for cake delivery",
				EstimatedBudget: "Free-$50",
			},
			{
				Title:           "Movie Night",
				Description:     "Host a movie marathon with their favorite films",
				PlanningTips:    "Prepare snacks, create cozy atmosphere, let them choose movies",
				EstimatedBudget: "$20-$50",
			},
		}
	}
	return []entity.Suggestion{
		{
			Title:               "Personalized Photo Album",
			Description:         "A custom photo album with memorable moments",
			Reasoning:           "Thoughtful and personal gift suitable for any age",
			EstimatedPriceRange: "$20-$50",
		},
		{
			Title:               "Gift Card",
			Description:         "Gift card to their favorite store or restaurant",
			Reasoning:           "Flexible option that lets them choose what they want",
			EstimatedPriceRange: "$25-$100",
		},
		{
			Title:               "Book or E-Reader",
			Description:         "A bestselling book or Kindle device",
			Reasoning:           "Great for readers of all ages",
			EstimatedPriceRange: "$15-$150",
		},
	}
}
