package validation

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type recipientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type suggestionRequest struct {
	SuggestionType string `json:"suggestion_type" binding:"required"`
}

func TestFirstMessage(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&suggestionRequest{})
	assert.Equal(t, "suggestion_type is required", FirstMessage(err))

	err = binding.Validator.ValidateStruct(&recipientRequest{Email: "nope"})
	assert.Equal(t, "email must be a valid email", FirstMessage(err))

	var v map[string]any
	err = json.Unmarshal([]byte("{"), &v)
	assert.Equal(t, "Request body must be JSON", FirstMessage(err))

	assert.Equal(t, "", FirstMessage(nil))
}
