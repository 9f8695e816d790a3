package screenshot

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	aiservice "github.com/lkoster/screenlens/internal/service/ai"
	analyzerservice "github.com/lkoster/screenlens/internal/service/analyzer"
	"github.com/lkoster/screenlens/pkg/utils"
)

// Handler exposes the text-extraction endpoint.
type Handler struct {
	analyzer *analyzerservice.Service
}

// New creates the screenshot handler.
func New(analyzer *analyzerservice.Service) *Handler {
	return &Handler{analyzer: analyzer}
}

// RegisterRoutes mounts the extraction route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/extract-text", h.handleExtractText)
}

func (h *Handler) handleExtractText(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ImageDataURL string `json:"imageDataUrl"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.ImageDataURL == "" {
		utils.RespondError(w, http.StatusBadRequest, "imageDataUrl is required")
		return
	}

	// The gateway contract only accepts self-describing data URIs.
	if !strings.HasPrefix(payload.ImageDataURL, "data:") {
		utils.RespondError(w, http.StatusBadRequest, "imageDataUrl must be a data URL")
		return
	}

	text, src, err := h.analyzer.UploadScreenshot(r.Context(), payload.ImageDataURL)
	switch {
	case errors.Is(err, analyzerservice.ErrBusy):
		utils.RespondError(w, http.StatusConflict, "an extraction is already in progress")
		return
	case errors.Is(err, analyzerservice.ErrSessionCleared):
		utils.RespondError(w, http.StatusConflict, "session was cleared during extraction")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "extraction failed")
		return
	}

	// A fallback after a provider failure keeps the original contract:
	// documented error status, usable mock text in the body.
	status := http.StatusOK
	if src == aiservice.SourceFallback {
		status = http.StatusInternalServerError
	}

	utils.RespondJSON(w, status, map[string]string{"text": text})
}
