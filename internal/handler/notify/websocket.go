package notify

import (
	"log"
	"net/http"
	"time"

	"github.com/lkoster/screenlens/internal/model/notify"
)

type inboundMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type outgoingMessage struct {
	Type      string         `json:"type"`
	Toasts    []notify.Toast `json:"toasts"`
	Timestamp int64          `json:"timestamp"`
}

// handleWebSocket pushes the toast list on every change and accepts
// {"type":"dismiss","id":...} commands from the client.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[notify] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates := make(chan []notify.Toast, 8)
	unsubscribe := h.bus.Subscribe(func(toasts []notify.Toast) {
		select {
		case updates <- toasts:
		default:
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == "dismiss" && msg.ID != "" {
				h.bus.Dismiss(msg.ID)
			}
		}
	}()

	write := func(toasts []notify.Toast) error {
		return conn.WriteJSON(outgoingMessage{
			Type:      "toasts",
			Toasts:    toasts,
			Timestamp: time.Now().UnixMilli(),
		})
	}

	if err := write(h.bus.Toasts()); err != nil {
		return
	}

	ctx := r.Context()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case toasts := <-updates:
			if err := write(toasts); err != nil {
				return
			}
		}
	}
}
