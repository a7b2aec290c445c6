// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/knowledge-agent/internal/httputil"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// ErrNoAPIKey is returned when the team has no API key configured.
var ErrNoAPIKey = errors.New("API key missing")

const teamName = "Analysis Team"

// OpenAITeam runs the analysis team against an OpenAI-compatible
// chat-completions API. The roster travels in the system message and the
// model coordinates among members. It holds no per-call state and is safe
// for concurrent use.
type OpenAITeam struct {
	cfg     types.AgentConfig
	client  *http.Client
	members []Member
	system  string
	logger  *zap.Logger
}

// Option customizes an OpenAITeam.
type Option func(*OpenAITeam)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *OpenAITeam) { t.client = c }
}

// WithMembers replaces the default roster.
func WithMembers(members []Member) Option {
	return func(t *OpenAITeam) { t.members = members }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *OpenAITeam) { t.logger = l }
}

// NewOpenAITeam creates a team for cfg. Empty BaseURL and Model fall back to
// types.DefaultBaseURL and types.DefaultModelID.
func NewOpenAITeam(cfg types.AgentConfig, opts ...Option) (*OpenAITeam, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = types.DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = types.DefaultModelID
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	t := &OpenAITeam{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		members: DefaultMembers,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.system = SystemPrompt(teamName, t.members, cfg.StructuredOutput)
	return t, nil
}

// Members returns the team roster.
func (t *OpenAITeam) Members() []Member {
	out := make([]Member, len(t.members))
	copy(out, t.members)
	return out
}

// Model returns the configured model identifier.
func (t *OpenAITeam) Model() string { return t.cfg.Model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// resultPayload is the canonical one-field structured reply.
type resultPayload struct {
	Result *string `json:"result"`
}

// Run sends prompt to the team and returns its reply.
func (t *OpenAITeam) Run(ctx context.Context, prompt string) (Response, error) {
	reqBody := chatRequest{
		Model: t.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: t.system},
			{Role: "user", Content: prompt},
		},
	}
	if t.cfg.StructuredOutput {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.BaseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	if t.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", t.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, t.client, req, t.cfg.MaxRetries)
	if err != nil {
		return Response{}, fmt.Errorf("calling %s: %w", t.cfg.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Response{}, fmt.Errorf("model API returned %d: %s", resp.StatusCode, errorMessage(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return Response{}, fmt.Errorf("decoding model response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return Response{}, fmt.Errorf("model API returned no choices")
	}

	content := cResp.Choices[0].Message.Content
	t.logger.Debug("team reply", zap.String("model", t.cfg.Model), zap.Int("bytes", len(content)))

	if t.cfg.StructuredOutput {
		var p resultPayload
		if err := json.Unmarshal([]byte(content), &p); err == nil && p.Result != nil {
			return StructuredResponse(*p.Result, content), nil
		}
	}
	return TextResponse(content), nil
}

// errorMessage extracts the API's error message, falling back to the raw body.
func errorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(body))
}
