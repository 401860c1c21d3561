package planner

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestAssistant(srv *httptest.Server) *AnthropicAssistant {
	return &AnthropicAssistant{
		apiKey:    "test-key",
		model:     "test-model",
		baseURL:   srv.URL,
		client:    srv.Client(),
		initDelay: time.Millisecond,
	}
}

func messagesResponse(text string) string {
	body, _ := json.Marshal(map[string]any{
		"content":     []map[string]string{{"type": "text", "text": text}},
		"stop_reason": "end_turn",
	})
	return string(body)
}

func TestAnthropicSuggest(t *testing.T) {
	var gotReq anthropicRequest
	var gotKey, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		io.WriteString(w, messagesResponse(`{"picks": [{"id": 7, "reason": "due today"}], "summary": "focus on the release", "tip": "start early"}`))
	}))
	defer srv.Close()

	assistant := newTestAssistant(srv)
	pending := []Summary{{ID: 7, Title: "cut the release", Priority: "high", Status: "todo", DueDate: "2026-02-10"}}

	plan, err := assistant.Suggest(context.Background(), nil, pending)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}

	if gotKey != "test-key" {
		t.Fatalf("expected x-api-key header, got %q", gotKey)
	}
	if gotVersion != anthropicVersion {
		t.Fatalf("expected anthropic-version %q, got %q", anthropicVersion, gotVersion)
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("expected model test-model, got %q", gotReq.Model)
	}
	if gotReq.System == "" {
		t.Fatal("expected a system prompt")
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("expected one user message, got %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[0].Content, "[id 7] cut the release") {
		t.Fatalf("prompt missing task entry: %q", gotReq.Messages[0].Content)
	}
	if !strings.Contains(gotReq.Messages[0].Content, "due 2026-02-10") {
		t.Fatalf("prompt missing due date: %q", gotReq.Messages[0].Content)
	}

	if len(plan.Picks) != 1 || plan.Picks[0].ID != 7 || plan.Picks[0].Reason != "due today" {
		t.Fatalf("unexpected picks: %+v", plan.Picks)
	}
	if plan.Summary != "focus on the release" || plan.Tip != "start early" {
		t.Fatalf("unexpected plan text: %+v", plan)
	}
}

func TestAnthropicSuggestStripsCodeFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		text := "```json\n{\"picks\": [{\"id\": 3, \"reason\": \"overdue\"}], \"summary\": \"catch up\"}\n```"
		io.WriteString(w, messagesResponse(text))
	}))
	defer srv.Close()

	plan, err := newTestAssistant(srv).Suggest(context.Background(), nil, []Summary{{ID: 3, Title: "t"}})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(plan.Picks) != 1 || plan.Picks[0].ID != 3 {
		t.Fatalf("fenced JSON not parsed: %+v", plan)
	}
}

func TestAnthropicSuggestRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, messagesResponse(`{"picks": [], "summary": "quiet day"}`))
	}))
	defer srv.Close()

	plan, err := newTestAssistant(srv).Suggest(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if plan.Summary != "quiet day" {
		t.Fatalf("unexpected plan after retry: %+v", plan)
	}
}

func TestAnthropicSuggestStopsOnClientError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": {"message": "bad request"}}`)
	}))
	defer srv.Close()

	_, err := newTestAssistant(srv).Suggest(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("expected error on 400")
	}
	if calls != 1 {
		t.Fatalf("expected no retry on 400, got %d calls", calls)
	}
}

func TestAnthropicSuggestRequiresAPIKey(t *testing.T) {
	assistant := NewAnthropicAssistant("", "")
	if _, err := assistant.Suggest(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestParsePlan(t *testing.T) {
	t.Run("bare json", func(t *testing.T) {
		plan, err := parsePlan(`{"picks": [{"id": 1, "reason": "r"}], "summary": "s"}`)
		if err != nil {
			t.Fatalf("parsePlan: %v", err)
		}
		if len(plan.Picks) != 1 || plan.Summary != "s" {
			t.Fatalf("unexpected plan: %+v", plan)
		}
	})

	t.Run("fenced without language tag", func(t *testing.T) {
		plan, err := parsePlan("```\n{\"picks\": [], \"summary\": \"s\"}\n```")
		if err != nil {
			t.Fatalf("parsePlan: %v", err)
		}
		if plan.Summary != "s" {
			t.Fatalf("unexpected plan: %+v", plan)
		}
	})

	t.Run("not json", func(t *testing.T) {
		if _, err := parsePlan("sure, here is a plan"); err == nil {
			t.Fatal("expected parse error")
		}
	})
}
