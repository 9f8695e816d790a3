package analyzer

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lkoster/screenlens/internal/model/chat"
	"github.com/lkoster/screenlens/internal/model/notify"
	aiservice "github.com/lkoster/screenlens/internal/service/ai"
	notifyservice "github.com/lkoster/screenlens/internal/service/notify"
	"github.com/lkoster/screenlens/internal/service/session"
)

// Views the frontend can show.
const (
	ViewUpload = "upload"
	ViewChat   = "chat"
)

var (
	// ErrEmptyMessage rejects blank input before any network call.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy rejects a duplicate submission while a call is in flight.
	ErrBusy = errors.New("another request is in flight")
	// ErrSessionCleared marks a provider result discarded because the
	// session was cleared while the call was outstanding.
	ErrSessionCleared = errors.New("session cleared while request in flight")
	// ErrNoResponse marks an empty completion from the gateway.
	ErrNoResponse = errors.New("no response generated")
)

// Gateway is the slice of the AI service the controller needs.
type Gateway interface {
	ExtractText(ctx context.Context, imageDataURL string) (string, aiservice.Source)
	GenerateChatResponse(ctx context.Context, userMessage, extractedText string) (string, aiservice.Source)
}

// State is a point-in-time copy of the UI-visible controller state.
type State struct {
	Session      chat.Session
	ActiveView   string
	IsProcessing bool
	IsResponding bool
}

// Service sequences user actions (upload, send message, clear) against the
// gateway, the session store and the notification bus, and owns the single
// session record plus the coarse UI state around it.
type Service struct {
	gateway Gateway
	store   session.Store
	bus     *notifyservice.Bus

	mu           sync.Mutex
	session      chat.Session
	activeView   string
	isProcessing bool
	isResponding bool
	// epoch increments on every clear; in-flight calls stamp it before
	// going out and discard their result if it moved.
	epoch uint64
}

// NewService restores any persisted session before serving requests. A
// restored screenshot lands the user back on the chat view.
func NewService(ctx context.Context, gateway Gateway, store session.Store, bus *notifyservice.Bus) *Service {
	svc := &Service{
		gateway:    gateway,
		store:      store,
		bus:        bus,
		activeView: ViewUpload,
	}

	restored, err := store.Load(ctx)
	if err != nil {
		log.Printf("[analyzer] failed to load persisted session: %v", err)
	} else if restored != nil {
		svc.session = *restored
		if restored.Screenshot != nil {
			svc.activeView = ViewChat
		}
	}

	return svc
}

// UploadScreenshot stores the image, extracts its text through the gateway
// and switches the active view to chat. Success and fallback content are
// indistinguishable here by design; the Source tag is for observers only.
func (s *Service) UploadScreenshot(ctx context.Context, imageDataURL string) (string, aiservice.Source, error) {
	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		return "", "", ErrBusy
	}
	s.isProcessing = true
	img := imageDataURL
	s.session.Screenshot = &img
	s.persistLocked(ctx)
	epoch := s.epoch
	s.mu.Unlock()

	text, src := s.gateway.ExtractText(ctx, imageDataURL)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isProcessing = false

	if s.epoch != epoch {
		log.Printf("[analyzer] session cleared during extraction, discarding result")
		return "", src, ErrSessionCleared
	}

	s.session.ExtractedText = text
	s.activeView = ViewChat
	s.persistLocked(ctx)
	s.bus.Publish("Screenshot processed", "The text has been extracted successfully.", notify.VariantSuccess)

	return text, src, nil
}

// SendMessage appends the user message optimistically, asks the gateway for
// a reply using contextText (or the stored extracted text when empty) and
// appends the assistant message. Blank input is ignored without side
// effects.
func (s *Service) SendMessage(ctx context.Context, content, contextText string) (chat.Message, aiservice.Source, error) {
	if strings.TrimSpace(content) == "" {
		return chat.Message{}, "", ErrEmptyMessage
	}

	s.mu.Lock()
	if s.isResponding {
		s.mu.Unlock()
		return chat.Message{}, "", ErrBusy
	}
	s.isResponding = true

	now := time.Now()
	userMessage := chat.Message{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Role:      chat.RoleUser,
		Content:   content,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
	s.session.Messages = append(s.session.Messages, userMessage)
	if contextText == "" {
		contextText = s.session.ExtractedText
	}
	s.persistLocked(ctx)
	epoch := s.epoch
	s.mu.Unlock()

	reply, src := s.gateway.GenerateChatResponse(ctx, content, contextText)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isResponding = false

	if s.epoch != epoch {
		log.Printf("[analyzer] session cleared while awaiting reply, discarding result")
		return chat.Message{}, src, ErrSessionCleared
	}

	if reply == "" {
		s.bus.Publish("Response failed", "Failed to get a response from the AI.", notify.VariantDestructive)
		return chat.Message{}, src, ErrNoResponse
	}

	repliedAt := time.Now()
	assistantMessage := chat.Message{
		ID:        strconv.FormatInt(repliedAt.UnixMilli()+1, 10),
		Role:      chat.RoleAssistant,
		Content:   reply,
		Timestamp: repliedAt.UTC().Format(time.RFC3339),
	}
	s.session.Messages = append(s.session.Messages, assistantMessage)
	s.persistLocked(ctx)

	return assistantMessage, src, nil
}

// ClearSession wipes the session, deletes the persisted record and returns
// the UI to the upload view. Outstanding provider calls see the epoch bump
// and discard their results instead of resurrecting the session.
func (s *Service) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = chat.Session{}
	s.activeView = ViewUpload
	s.epoch++

	if err := s.store.Save(ctx, nil); err != nil {
		return err
	}

	s.bus.Publish("Session cleared", "All data has been cleared from this session.", notify.VariantDefault)
	return nil
}

// Snapshot returns a copy of the current state for rendering.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := s.session
	copied.Messages = append([]chat.Message(nil), s.session.Messages...)

	return State{
		Session:      copied,
		ActiveView:   s.activeView,
		IsProcessing: s.isProcessing,
		IsResponding: s.isResponding,
	}
}

// persistLocked re-persists the full session whenever a mutation leaves a
// screenshot or messages behind. Persistence is a side effect of state
// change, not an explicit user action.
func (s *Service) persistLocked(ctx context.Context) {
	if s.session.Screenshot == nil && len(s.session.Messages) == 0 {
		return
	}

	snapshot := s.session
	if err := s.store.Save(ctx, &snapshot); err != nil {
		log.Printf("[analyzer] failed to persist session: %v", err)
	}
}
