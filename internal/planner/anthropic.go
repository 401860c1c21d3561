package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com/v1/messages"
	anthropicVersion    = "2023-06-01"
	anthropicMaxRetries = 5
	anthropicInitDelay  = 2 * time.Second

	// DefaultModel is used when the configuration names none.
	DefaultModel = "claude-sonnet-4-20250514"
)

const systemPrompt = `You are a pragmatic personal task planner. Given what the
user finished recently and what is still pending, pick the handful of pending
tasks the user should focus on today. Prefer overdue and due-today work, then
high priority, then tasks already in progress. Keep reasons to one sentence.`

// AnthropicAssistant implements Assistant over the Anthropic Messages API.
type AnthropicAssistant struct {
	apiKey    string
	model     string
	baseURL   string
	client    *http.Client
	initDelay time.Duration
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// NewAnthropicAssistant creates an assistant talking to the Messages API.
// An empty model selects DefaultModel.
func NewAnthropicAssistant(apiKey, model string) *AnthropicAssistant {
	if model == "" {
		model = DefaultModel
	}
	return &AnthropicAssistant{
		apiKey:    apiKey,
		model:     model,
		baseURL:   anthropicBaseURL,
		client:    &http.Client{Timeout: 60 * time.Second},
		initDelay: anthropicInitDelay,
	}
}

// Suggest sends the task summaries to the model and parses its JSON answer.
// Rate limits and server errors are retried with exponential backoff.
func (a *AnthropicAssistant) Suggest(ctx context.Context, done, pending []Summary) (Plan, error) {
	if a.apiKey == "" {
		return Plan{}, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	req := anthropicRequest{
		Model:     a.model,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildPrompt(done, pending)},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Plan{}, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < anthropicMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * a.initDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Plan{}, ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL, bytes.NewReader(body))
		if err != nil {
			return Plan{}, fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("x-api-key", a.apiKey)
		httpReq.Header.Set("anthropic-version", anthropicVersion)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := a.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("assistant request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("assistant API error (%d): %s", resp.StatusCode, string(respBody))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return Plan{}, lastErr
		}

		var apiResp anthropicResponse
		if err := json.Unmarshal(respBody, &apiResp); err != nil {
			return Plan{}, fmt.Errorf("decode response: %w", err)
		}

		if len(apiResp.Content) == 0 {
			return Plan{}, fmt.Errorf("empty response content")
		}

		return parsePlan(apiResp.Content[0].Text)
	}

	return Plan{}, fmt.Errorf("max retries (%d) exceeded: %w", anthropicMaxRetries, lastErr)
}

// buildPrompt renders both task lists and pins the answer to a JSON shape.
func buildPrompt(done, pending []Summary) string {
	var b strings.Builder

	b.WriteString("Recently completed tasks:\n")
	if len(done) == 0 {
		b.WriteString("(none)\n")
	}
	for _, s := range done {
		writeSummary(&b, s)
	}

	b.WriteString("\nPending tasks:\n")
	for _, s := range pending {
		writeSummary(&b, s)
	}

	b.WriteString("\nPick the pending tasks to focus on today, referencing them by id. Return ONLY valid JSON:\n")
	b.WriteString(`{"picks": [{"id": 12, "reason": "..."}], "summary": "...", "tip": "..."}`)
	b.WriteString("\n")

	return b.String()
}

func writeSummary(b *strings.Builder, s Summary) {
	fmt.Fprintf(b, "[id %d] %s (priority %s, status %s", s.ID, s.Title, s.Priority, s.Status)
	if s.DueDate != "" {
		fmt.Fprintf(b, ", due %s", s.DueDate)
	}
	if s.EstimatedHours > 0 {
		fmt.Fprintf(b, ", est %gh", s.EstimatedHours)
	}
	b.WriteString(")\n")
}

// parsePlan extracts JSON from the model response, handling markdown code fences.
func parsePlan(text string) (Plan, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		}
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var plan Plan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return Plan{}, fmt.Errorf("parse plan JSON: %w (raw: %s)", err, text)
	}
	return plan, nil
}
