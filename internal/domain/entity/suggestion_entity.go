package entity

import "time"

// SuggestionKind is the category of ideas requested for a friend.
type SuggestionKind string

const (
	SuggestionGifts  SuggestionKind = "gifts"
	SuggestionEvents SuggestionKind = "events"
)

// Suggestion is one idea returned by the provider or the fallback list.
// Gift ideas fill Reasoning and EstimatedPriceRange; event ideas fill
// PlanningTips and EstimatedBudget.
type Suggestion struct {
	Title               string `json:"title"`
	Description         string `json:"description"`
	Reasoning           string `json:"reasoning,omitempty"`
	EstimatedPriceRange string `json:"estimated_price_range,omitempty"`
	PlanningTips        string `json:"planning_tips,omitempty"`
	EstimatedBudget     string `json:"estimated_budget,omitempty"`
}

// SuggestionResult is the response body of a suggestion request.
type SuggestionResult struct {
	FriendName     string         `json:"friend_name"`
	Age            int            `json:"age"`
	SuggestionType SuggestionKind `json:"suggestion_type"`
	Suggestions    []Suggestion   `json:"suggestions"`
	GeneratedAt    time.Time      `json:"generated_at"`
}
