/*
Package gemini implements the external text-generation boundary on top of the official
Google Gemini SDK.

The client performs exactly one generation attempt per call: no retries, no backoff.
A missing API key is a distinct, detectable failure mode reported before any network
call is attempted.
*/
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"friendhub/internal/pkg/logx"
)

// ErrMissingCredential is returned when no API key was configured.
// It is detected before any request is made.
var ErrMissingCredential = errors.New("gemini api key is not configured")

// Client wraps the Gemini SDK for single-prompt text generation.
type Client struct {
	api    *genai.Client
	model  string
	logger zerolog.Logger
}

// NewClient builds a generation client for the given API key and model.
// An empty API key is allowed: the returned client reports ErrMissingCredential
// on every generation attempt instead of failing construction.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	clientLogger := logx.Logger().With().
		Str("component", "Gemini").
		Str("model", model).
		Logger()

	c := &Client{
		model:  model,
		logger: clientLogger,
	}

	if apiKey == "" {
		clientLogger.Warn().Msg("No API key configured. Generation requests will be rejected.")
		return c, nil
	}

	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	c.api = api
	return c, nil
}

// GenerateText sends the prompt to the configured model and returns the trimmed
// generated text. Exactly one attempt is made per call.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.api == nil {
		return "", ErrMissingCredential
	}

	result, err := c.api.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("Generation request failed.")
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("generation returned an empty response")
	}

	return text, nil
}
