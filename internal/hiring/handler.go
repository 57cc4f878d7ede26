// HTTP handlers for the negotiation protocol.
//
// Routes:
//
//	POST /candidates/{addr}/quote          → employer issues a quote
//	POST /candidates/{addr}/quote/approve  → candidate consents
//	POST /candidates/{addr}/quote/reject   → candidate declines
//	POST /candidates/{addr}/hire           → employer finalizes
//	GET  /candidates/{addr}/quote          → quote + resolution flags
//	GET  /candidates/{addr}/hired          → hired status
//	GET  /negotiations/events              → audit history (Postgres)
package hiring

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/AllenGeorge08/SkillBridge/internal/events"
	"github.com/AllenGeorge08/SkillBridge/internal/httpx"
	"github.com/AllenGeorge08/SkillBridge/internal/metrics"
)

// Handler holds shared dependencies.
type Handler struct {
	svc *Service
	rec *events.Recorder
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service, rec *events.Recorder) *Handler {
	return &Handler{svc: svc, rec: rec}
}

// RegisterRoutes mounts all negotiation routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/candidates/", h.handleCandidate)
	mux.HandleFunc("/negotiations/events", h.listEvents)
}

// handleCandidate dispatches /candidates/{addr}/{action...}.
func (h *Handler) handleCandidate(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 {
		httpx.Error(w, "invalid path", http.StatusNotFound)
		return
	}

	addr := parts[1]
	action := strings.Join(parts[2:], "/")

	switch {
	case action == "quote" && r.Method == http.MethodGet:
		h.getQuote(w, addr)
	case action == "quote" && r.Method == http.MethodPost:
		h.quoteHire(w, r, addr)
	case action == "quote/approve" && r.Method == http.MethodPost:
		h.resolveQuote(w, r, addr, StateApproved)
	case action == "quote/reject" && r.Method == http.MethodPost:
		h.resolveQuote(w, r, addr, StateRejected)
	case action == "hire" && r.Method == http.MethodPost:
		h.hire(w, r, addr)
	case action == "hired" && r.Method == http.MethodGet:
		h.getHired(w, addr)
	default:
		httpx.Error(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
	}
}

func (h *Handler) quoteHire(w http.ResponseWriter, r *http.Request, candidate string) {
	employer, ok := httpx.Caller(r)
	if !ok {
		httpx.Error(w, "missing x-caller-address header", http.StatusUnauthorized)
		return
	}

	var body struct {
		Amount uint64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	quote, err := h.svc.QuoteHire(r.Context(), employer, candidate, body.Amount)
	metrics.Observe("quoteHire", err)
	if err != nil {
		httpx.Error(w, err.Error(), statusFor(err))
		return
	}
	httpx.OK(w, quote)
}

func (h *Handler) resolveQuote(w http.ResponseWriter, r *http.Request, candidate string, to State) {
	caller, ok := httpx.Caller(r)
	if !ok {
		httpx.Error(w, "missing x-caller-address header", http.StatusUnauthorized)
		return
	}
	// Only the candidate may resolve their own quote.
	if caller != candidate {
		httpx.Error(w, "caller is not the candidate", http.StatusForbidden)
		return
	}

	var (
		err error
		op  string
	)
	if to == StateApproved {
		op = "approveQuote"
		err = h.svc.ApproveQuote(r.Context(), candidate)
	} else {
		op = "rejectQuote"
		err = h.svc.RejectQuote(r.Context(), candidate)
	}
	metrics.Observe(op, err)
	if err != nil {
		httpx.Error(w, err.Error(), statusFor(err))
		return
	}

	quote, _ := h.svc.QuoteFor(candidate)
	httpx.OK(w, quote)
}

func (h *Handler) hire(w http.ResponseWriter, r *http.Request, candidate string) {
	employer, ok := httpx.Caller(r)
	if !ok {
		httpx.Error(w, "missing x-caller-address header", http.StatusUnauthorized)
		return
	}

	err := h.svc.Hire(r.Context(), employer, candidate)
	metrics.Observe("hire", err)
	if err != nil {
		httpx.Error(w, err.Error(), statusFor(err))
		return
	}

	httpx.OK(w, map[string]any{
		"candidate": candidate,
		"hiredBy":   employer,
		"state":     h.svc.StateOf(candidate),
	})
}

func (h *Handler) getQuote(w http.ResponseWriter, candidate string) {
	quote, err := h.svc.QuoteFor(candidate)
	if err != nil {
		httpx.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	httpx.OK(w, map[string]any{
		"quote": quote,
		"state": h.svc.StateOf(candidate),
	})
}

func (h *Handler) getHired(w http.ResponseWriter, candidate string) {
	hiredBy, hired := h.svc.HiredBy(candidate)
	httpx.OK(w, map[string]any{
		"hired":   hired,
		"hiredBy": hiredBy,
	})
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			httpx.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = v
	}

	evts, err := h.rec.History(r.Context(), r.URL.Query().Get("candidate"), limit)
	if err != nil {
		httpx.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	httpx.OK(w, evts)
}

// statusFor maps protocol errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoQuote):
		return http.StatusNotFound
	case errors.Is(err, ErrNotEligible), errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyResolved), errors.Is(err, ErrQuotePending):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
