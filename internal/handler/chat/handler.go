package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	aiservice "github.com/lkoster/screenlens/internal/service/ai"
	analyzerservice "github.com/lkoster/screenlens/internal/service/analyzer"
	"github.com/lkoster/screenlens/pkg/utils"
)

// Handler exposes the conversational endpoint.
type Handler struct {
	analyzer *analyzerservice.Service
}

// New creates the chat handler.
func New(analyzer *analyzerservice.Service) *Handler {
	return &Handler{analyzer: analyzer}
}

// RegisterRoutes mounts the chat route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserMessage   string `json:"userMessage"`
		ExtractedText string `json:"extractedText"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, src, err := h.analyzer.SendMessage(r.Context(), payload.UserMessage, payload.ExtractedText)
	switch {
	case errors.Is(err, analyzerservice.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, "userMessage is required")
		return
	case errors.Is(err, analyzerservice.ErrBusy):
		utils.RespondError(w, http.StatusConflict, "a reply is already in progress")
		return
	case errors.Is(err, analyzerservice.ErrSessionCleared):
		utils.RespondError(w, http.StatusConflict, "session was cleared while awaiting the reply")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "failed to generate a response")
		return
	}

	status := http.StatusOK
	if src == aiservice.SourceFallback {
		status = http.StatusInternalServerError
	}

	utils.RespondJSON(w, status, map[string]string{"response": message.Content})
}
