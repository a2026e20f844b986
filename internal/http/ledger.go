package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pennyledger/pennyledger/internal/domain"
	"github.com/pennyledger/pennyledger/internal/service"
	"github.com/pennyledger/pennyledger/pkg/httpx"
	"github.com/pennyledger/pennyledger/pkg/slogx"
)

// LedgerHandler serves the transaction API behind the session gate.
type LedgerHandler struct {
	LedgerService *service.LedgerService
}

type transactionPayload struct {
	ID        string  `json:"id,omitempty"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	Notes     string  `json:"notes"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

func toPayload(t domain.Transaction) transactionPayload {
	return transactionPayload{
		ID:        t.ID,
		Amount:    t.Amount,
		Category:  t.Category,
		Date:      t.OccurredOn,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *LedgerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	session, ok := sessionFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "no_session", "Sign in to continue.")
		return
	}

	entries, err := h.LedgerService.List(ctx, session.AccountID)
	if err != nil {
		log.Error("list transactions failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Could not load transactions.")
		return
	}

	out := make([]transactionPayload, 0, len(entries))
	for _, t := range entries {
		out = append(out, toPayload(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *LedgerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	session, ok := sessionFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "no_session", "Sign in to continue.")
		return
	}

	var req transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Request body must be valid JSON.")
		return
	}

	created, err := h.LedgerService.Add(ctx, session.AccountID, req.Amount, req.Category, req.Date, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			httpx.WriteError(w, http.StatusBadRequest,
				"invalid_amount", "Amount must be a positive number.")
		case errors.Is(err, service.ErrInvalidDate):
			httpx.WriteError(w, http.StatusBadRequest,
				"invalid_date", "Date must be in YYYY-MM-DD format.")
		default:
			log.Error("create transaction failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError,
				"server_error", "Could not save the transaction.")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPayload(created))
}
