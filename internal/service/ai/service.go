package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/lkoster/screenlens/internal/config"
)

// Source tags where a gateway result came from. The public response body
// never exposes it; handlers and tests use it to reproduce the original
// status-code behavior and to observe fallbacks.
type Source string

const (
	// SourceProvider marks a real completion from the provider.
	SourceProvider Source = "provider"
	// SourceMock marks mock content served because no credential is configured.
	SourceMock Source = "mock"
	// SourceFallback marks mock content substituted after a provider failure.
	SourceFallback Source = "fallback"
)

// Token caps are product constants, not runtime configuration.
const (
	visionMaxTokens = 1000
	chatMaxTokens   = 500
)

const extractPrompt = "Extract and transcribe all text from this screenshot. Format it clearly and preserve the layout as much as possible."

const chatSystemPrompt = "You are an assistant that helps analyze screenshots. The user has uploaded a screenshot with the following extracted text. Answer their questions about this content."

// Service translates extraction and chat intents into Mistral
// chat-completions calls, degrading to fixed mock content when the
// credential is missing or the provider misbehaves. Neither operation ever
// returns an error to the caller.
type Service struct {
	cfg    config.AIConfig
	client *http.Client
}

// NewService builds the gateway. A single attempt per call, no retries; the
// client timeout is the only transport bound.
func NewService(cfg config.AIConfig) *Service {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// chat-completions wire format: model, role-tagged messages (content is
// either plain text or a list of typed parts), max_tokens in; the first
// choice's message content out.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// ExtractText transcribes the text visible in a data-URL-encoded screenshot
// via the vision model. Missing credential or any provider failure yields
// the fixed mock transcript instead of an error.
func (s *Service) ExtractText(ctx context.Context, imageDataURL string) (string, Source) {
	if !s.cfg.Enabled() {
		log.Printf("[ai] no Mistral API key configured, using mock transcript")
		return mockTranscript, SourceMock
	}

	request := chatRequest{
		Model: s.cfg.VisionModel,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: extractPrompt},
				{Type: "image_url", ImageURL: imageDataURL},
			},
		}},
		MaxTokens: visionMaxTokens,
	}

	text, err := s.complete(ctx, request)
	if err != nil {
		log.Printf("[ai] text extraction failed, falling back to mock transcript: %v", err)
		return mockTranscript, SourceFallback
	}

	return text, SourceProvider
}

// GenerateChatResponse answers a question about previously extracted text
// via the chat model. Same fallback contract as ExtractText.
func (s *Service) GenerateChatResponse(ctx context.Context, userMessage, extractedText string) (string, Source) {
	if !s.cfg.Enabled() {
		log.Printf("[ai] no Mistral API key configured, using mock reply")
		return s.mockReply(userMessage), SourceMock
	}

	request := chatRequest{
		Model: s.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Here is the text extracted from my screenshot:\n\n%s\n\nMy question is: %s", extractedText, userMessage)},
		},
		MaxTokens: chatMaxTokens,
	}

	reply, err := s.complete(ctx, request)
	if err != nil {
		log.Printf("[ai] chat completion failed, falling back to mock reply: %v", err)
		return s.mockReply(userMessage), SourceFallback
	}

	return reply, SourceProvider
}

func (s *Service) mockReply(userMessage string) string {
	if s.cfg.SmartMockReplies {
		return smartMockReply(userMessage)
	}
	return mockChatReply
}

func (s *Service) complete(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("provider returned status %d: %s", resp.StatusCode, snippet)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
