package notify

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lkoster/screenlens/internal/model/notify"
	notifyservice "github.com/lkoster/screenlens/internal/service/notify"
	"github.com/lkoster/screenlens/pkg/utils"
)

// Handler exposes the notification bus over REST, SSE and websocket.
type Handler struct {
	bus      *notifyservice.Bus
	upgrader websocket.Upgrader
}

// New creates the notification handler.
func New(bus *notifyservice.Bus) *Handler {
	return &Handler{
		bus: bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the notification routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/notifications", h.handleList)
	r.Post("/notifications", h.handlePublish)
	r.Delete("/notifications/{id}", h.handleDismiss)
	r.Get("/notifications/stream", h.handleStream)
	r.Get("/notifications/ws", h.handleWebSocket)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.bus.Toasts())
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Variant     string `json:"variant"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Title == "" {
		utils.RespondError(w, http.StatusBadRequest, "title is required")
		return
	}

	switch payload.Variant {
	case "", notify.VariantDefault, notify.VariantDestructive, notify.VariantSuccess:
	default:
		utils.RespondError(w, http.StatusBadRequest, "unknown variant")
		return
	}

	id := h.bus.Publish(payload.Title, payload.Description, payload.Variant)
	utils.RespondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	h.bus.Dismiss(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// handleStream pushes the full toast list on every bus change as SSE frames.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	updates := make(chan []notify.Toast, 8)
	unsubscribe := h.bus.Subscribe(func(toasts []notify.Toast) {
		select {
		case updates <- toasts:
		default:
		}
	})
	defer unsubscribe()

	utils.SendSSEChunk(w, flusher, map[string]any{"toasts": h.bus.Toasts()})

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case toasts := <-updates:
			utils.SendSSEChunk(w, flusher, map[string]any{"toasts": toasts})
		}
	}
}
