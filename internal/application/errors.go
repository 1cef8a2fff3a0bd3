package application

import "errors"

var (
	ErrFriendNotFound        = errors.New("friend not found")
	ErrInvalidSuggestionKind = errors.New(`suggestion_type must be "gifts" or "events"`)
	ErrRecipientNotFound     = errors.New("reminder recipient not set")
	ErrStorageNotConfigured  = errors.New("calendar storage not configured")
	ErrSearchQueryRequired   = errors.New("search query is required")
	ErrInvalidImport         = errors.New("body is not a valid vCard file")
)
