// Package gemini adapts Google's Gemini models to the suggestion provider port.
package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-pro"

var ErrEmptyResponse = errors.New("gemini returned no text")

// Provider generates suggestion text with a single Gemini model.
type Provider struct {
	client *genai.Client
	model  *genai.GenerativeModel

	// Timeout bounds each call; zero leaves it to the caller's context.
	Timeout time.Duration
}

// NewProvider returns nil, nil when apiKey is empty so callers can fall back
// to canned suggestions.
func NewProvider(ctx context.Context, apiKey, model string, timeout time.Duration) (*Provider, error) {
	if apiKey == "" {
		return nil, nil
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0.8)
	return &Provider{client: client, model: m, Timeout: timeout}, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	c, cancel := p.callContext(ctx)
	defer cancel()

	resp, err := p.model.GenerateContent(c, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (p *Provider) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.Timeout)
}

func (p *Provider) Close() {
	if p == nil || p.client == nil {
		return
	}
	_ = p.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		// First candidate only.
		break
	}
	return strings.TrimSpace(b.String())
}
