package generate

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the generation endpoint.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/generate", h.HandleGenerate).Methods("POST", "OPTIONS")
}

// HandleGenerate - POST /api/generate
// Relays one generation request and mirrors the upstream outcome.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [Generate] Invalid request: %v", err)
		writeError(w, &RelayError{Status: http.StatusBadRequest, Message: "Invalid request format"})
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, validationError("prompt is required"))
		return
	}

	resp, relayErr := h.service.Generate(r.Context(), req.Prompt, &req.GenerationSettings)
	if relayErr != nil {
		writeError(w, relayErr)
		return
	}

	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, relayErr *RelayError) {
	w.WriteHeader(relayErr.Status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   relayErr.Message,
		Details: relayErr.Details,
	})
}
