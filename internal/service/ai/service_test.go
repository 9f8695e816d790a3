package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lkoster/screenlens/internal/config"
	ai "github.com/lkoster/screenlens/internal/service/ai"
)

func TestExtractTextWithoutCredential(t *testing.T) {
	svc := ai.NewService(config.AIConfig{})
	ctx := context.Background()

	first, src := svc.ExtractText(ctx, "data:image/png;base64,AAAA")
	if src != ai.SourceMock {
		t.Fatalf("expected mock source, got %s", src)
	}
	if !strings.Contains(first, "Dashboard Overview") {
		t.Fatalf("mock transcript missing title: %q", first)
	}
	if !strings.Contains(first, "Total Users: 1,245") {
		t.Fatalf("mock transcript missing metrics: %q", first)
	}

	second, _ := svc.ExtractText(ctx, "data:image/jpeg;base64,BBBB")
	if first != second {
		t.Fatal("mock transcript must be identical regardless of input")
	}
}

func TestGenerateChatResponseWithoutCredential(t *testing.T) {
	svc := ai.NewService(config.AIConfig{})
	ctx := context.Background()

	first, src := svc.GenerateChatResponse(ctx, "What is the revenue?", "some context")
	if src != ai.SourceMock {
		t.Fatalf("expected mock source, got %s", src)
	}
	if !strings.Contains(first, "$12,450") {
		t.Fatalf("mock reply missing revenue figure: %q", first)
	}

	second, _ := svc.GenerateChatResponse(ctx, "Something entirely different", "")
	if first != second {
		t.Fatal("mock reply must be identical regardless of input")
	}
}

func TestExtractTextCallsProvider(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"PROVIDER TEXT"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	svc := ai.NewService(config.AIConfig{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		VisionModel:    "pixtral-12b-2409",
		ChatModel:      "mistral-large-latest",
		TimeoutSeconds: 5,
	})

	text, src := svc.ExtractText(context.Background(), "data:image/png;base64,AAAA")
	if src != ai.SourceProvider {
		t.Fatalf("expected provider source, got %s", src)
	}
	if text != "PROVIDER TEXT" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if gotBody["model"] != "pixtral-12b-2409" {
		t.Fatalf("unexpected model: %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(1000) {
		t.Fatalf("unexpected max_tokens: %v", gotBody["max_tokens"])
	}
}

func TestExtractTextFallsBackOnProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := ai.NewService(config.AIConfig{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		VisionModel:    "pixtral-12b-2409",
		TimeoutSeconds: 5,
	})

	text, src := svc.ExtractText(context.Background(), "data:image/png;base64,AAAA")
	if src != ai.SourceFallback {
		t.Fatalf("expected fallback source, got %s", src)
	}
	if !strings.Contains(text, "Dashboard Overview") {
		t.Fatalf("fallback should serve the mock transcript, got %q", text)
	}
}

func TestGenerateChatResponseFallsBackOnMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	svc := ai.NewService(config.AIConfig{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		ChatModel:      "mistral-large-latest",
		TimeoutSeconds: 5,
	})

	reply, src := svc.GenerateChatResponse(context.Background(), "hello", "context")
	if src != ai.SourceFallback {
		t.Fatalf("expected fallback source, got %s", src)
	}
	if !strings.Contains(reply, "$12,450") {
		t.Fatalf("fallback should serve the mock reply, got %q", reply)
	}
}

func TestSmartMockReplies(t *testing.T) {
	svc := ai.NewService(config.AIConfig{SmartMockReplies: true})
	ctx := context.Background()

	reply, _ := svc.GenerateChatResponse(ctx, "What is the revenue?", "")
	if !strings.Contains(reply, "$12,450") {
		t.Fatalf("revenue question should mention the figure, got %q", reply)
	}

	reply, _ = svc.GenerateChatResponse(ctx, "How many users are there?", "")
	if !strings.Contains(reply, "1,245") {
		t.Fatalf("user question should mention the count, got %q", reply)
	}
}
