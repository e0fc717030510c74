package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ChatResponder relays a prompt plus catalog context to the text-generation
// API; it never fails, it degrades to a fallback reply.
type ChatResponder interface {
	Reply(ctx context.Context, userPrompt, catalogContext string) string
}

type ChatHandler struct {
	responder ChatResponder
	catalog   Catalog
	log       *zap.Logger
}

func NewChatHandler(responder ChatResponder, catalog Catalog, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		responder: responder,
		catalog:   catalog,
		log:       log,
	}
}

type ChatRequestDTO struct {
	Message string `json:"message"`
}

type ChatResponseDTO struct {
	Reply string `json:"reply"`
}

const emptyStockContext = "No products in stock at the moment."

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "empty_message", "message must not be empty")
		return
	}

	reply := h.responder.Reply(r.Context(), req.Message, h.catalogContext(r.Context()))
	respondJSON(w, http.StatusOK, ChatResponseDTO{Reply: reply})
}

// catalogContext renders the in-stock products as "Name (price€)" pairs for
// the assistant prompt. A catalog failure degrades to the empty-stock
// context, the chat endpoint never turns a database hiccup into a 5xx.
func (h *ChatHandler) catalogContext(ctx context.Context) string {
	products, err := h.catalog.ListAvailable(ctx)
	if err != nil {
		h.log.Warn("failed to build catalog context for chat", zap.Error(err))
		return emptyStockContext
	}
	if len(products) == 0 {
		return emptyStockContext
	}

	entries := make([]string, len(products))
	for i, p := range products {
		entries[i] = fmt.Sprintf("%s (%s€)", p.Name, p.Price.StringFixed(2))
	}
	return strings.Join(entries, ", ")
}
