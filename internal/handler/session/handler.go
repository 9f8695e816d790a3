package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lkoster/screenlens/internal/model/chat"
	analyzerservice "github.com/lkoster/screenlens/internal/service/analyzer"
	"github.com/lkoster/screenlens/pkg/utils"
)

// Handler exposes the session snapshot and clear endpoints.
type Handler struct {
	analyzer *analyzerservice.Service
}

// New creates the session handler.
func New(analyzer *analyzerservice.Service) *Handler {
	return &Handler{analyzer: analyzer}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session", h.handleGetSession)
	r.Delete("/session", h.handleClearSession)
}

type sessionResponse struct {
	Screenshot    *string        `json:"screenshot"`
	ExtractedText string         `json:"extractedText"`
	Messages      []chat.Message `json:"messages"`
	ActiveView    string         `json:"activeView"`
	IsProcessing  bool           `json:"isProcessing"`
	IsResponding  bool           `json:"isResponding"`
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	state := h.analyzer.Snapshot()

	messages := state.Session.Messages
	if messages == nil {
		messages = make([]chat.Message, 0)
	}

	utils.RespondJSON(w, http.StatusOK, sessionResponse{
		Screenshot:    state.Session.Screenshot,
		ExtractedText: state.Session.ExtractedText,
		Messages:      messages,
		ActiveView:    state.ActiveView,
		IsProcessing:  state.IsProcessing,
		IsResponding:  state.IsResponding,
	})
}

func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if err := h.analyzer.ClearSession(r.Context()); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
