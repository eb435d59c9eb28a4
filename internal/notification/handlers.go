package notification

import (
	"net/http"

	"github.com/avillagarcia/academia/internal/httpapi"
	"github.com/go-chi/chi/v5"
)

// DevHandler exposes the captured notification store for development.
type DevHandler struct {
	sink *MemorySink
}

// NewDevHandler constructs a DevHandler.
func NewDevHandler(sink *MemorySink) *DevHandler {
	return &DevHandler{sink: sink}
}

// Register binds the dev notification handlers to the router.
func (h *DevHandler) Register(r chi.Router) {
	r.Get("/dev/emails", h.listEmails)
	r.Delete("/dev/emails", h.clearEmails)
}

func (h *DevHandler) listEmails(w http.ResponseWriter, _ *http.Request) {
	emails := h.sink.All()
	httpapi.JSON(w, http.StatusOK, map[string]any{
		"total":  len(emails),
		"emails": emails,
	})
}

func (h *DevHandler) clearEmails(w http.ResponseWriter, _ *http.Request) {
	h.sink.Clear()
	httpapi.JSON(w, http.StatusOK, map[string]any{"message": "email store cleared"})
}
