// Package assistant turns a free-text guardrail description into a draft of
// the request form, using the Gemini generateContent API.
//
// The draft is a convenience for filling the form; it is never fed to the
// engine without the user confirming it.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/piwi3910/RailCut/internal/model"
)

var (
	// ErrNotConfigured is returned when no API key was supplied.
	ErrNotConfigured = errors.New("assistant is not configured")

	// ErrBadResponse is returned when the model answer holds no usable JSON.
	ErrBadResponse = errors.New("assistant returned an unusable answer")
)

// Config holds what a Client needs. APIKey is the secret itself, not the
// name of the variable holding it.
type Config struct {
	BaseURL  string
	Model    string
	APIKey   string
	Timeout  time.Duration
	Defaults model.FormDraft
	Logger   *log.Logger
}

// ConfigFrom builds a client Config from the application config and an API
// key read at startup.
func ConfigFrom(app model.AppConfig, apiKey string, logger *log.Logger) Config {
	return Config{
		BaseURL:  app.Assistant.BaseURL,
		Model:    app.Assistant.Model,
		APIKey:   apiKey,
		Timeout:  time.Duration(app.Assistant.TimeoutSeconds) * time.Second,
		Defaults: app.NewFormDraft(),
		Logger:   logger,
	}
}

// Client calls Gemini to draft request forms. It is safe for concurrent use.
type Client struct {
	http     *resty.Client
	model    string
	apiKey   string
	defaults model.FormDraft
	logger   *log.Logger
}

// New creates a Client. A Client without an API key is valid; every call
// then fails with ErrNotConfigured.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:     httpClient,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		defaults: cfg.Defaults,
		logger:   logger,
	}
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ParseText asks the model to extract a form draft from description.
// Fields the model leaves out keep the client's default values.
func (c *Client) ParseText(ctx context.Context, description string) (model.FormDraft, error) {
	if !c.Configured() {
		return model.FormDraft{}, ErrNotConfigured
	}

	body := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: buildPrompt(description)}}}},
		GenerationConfig: generationConfig{Temperature: 0},
	}

	c.logger.Debug("calling gemini", "model", c.model, "chars", len(description))
	start := time.Now()

	var result generateResponse
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("model", c.model).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		SetResult(&result).
		SetError(&failure).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return model.FormDraft{}, fmt.Errorf("failed to call gemini: %w", err)
	}
	if resp.IsError() {
		msg := failure.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return model.FormDraft{}, fmt.Errorf("gemini error (status %d): %s", resp.StatusCode(), msg)
	}

	c.logger.Debug("gemini answered", "status", resp.StatusCode(), "elapsed", time.Since(start).Round(time.Millisecond))

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return model.FormDraft{}, fmt.Errorf("%w: no candidates", ErrBadResponse)
	}
	return c.decodeDraft(result.Candidates[0].Content.Parts[0].Text)
}

// fencePattern matches a fenced code block, optionally tagged json.
var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

// extractJSON returns the JSON object in a model answer, unwrapping a
// Markdown code fence when present.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

func (c *Client) decodeDraft(text string) (model.FormDraft, error) {
	draft := c.defaults
	draft.Pieces = nil
	if err := json.Unmarshal([]byte(extractJSON(text)), &draft); err != nil {
		return model.FormDraft{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if draft.Pieces == nil {
		draft.Pieces = []model.Piece{}
	}
	for i := range draft.Pieces {
		p := &draft.Pieces[i]
		if p.SectionCount == 0 {
			p.SectionCount = p.CountType(model.ItemSection)
		}
	}
	if draft.PieceCount == 0 {
		draft.PieceCount = len(draft.Pieces)
	}
	return draft, nil
}
