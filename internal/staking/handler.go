// HTTP handlers for the staking pool.
//
// Routes:
//
//	POST /employers              → registerAndStake (caller = employer)
//	GET  /employers/{addr}/stake → staked flag + collateral amount
//	POST /admin/tokens           → approve a collateral token (admin)
//	POST /admin/withdrawals      → withdraw a token's pool balance (admin)
package staking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/AllenGeorge08/SkillBridge/internal/admin"
	"github.com/AllenGeorge08/SkillBridge/internal/httpx"
	"github.com/AllenGeorge08/SkillBridge/internal/metrics"
	"github.com/AllenGeorge08/SkillBridge/internal/token"
)

// Handler holds shared dependencies.
type Handler struct {
	ledger *Ledger
}

// NewHandler returns a configured Handler.
func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// RegisterRoutes mounts the public staking routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/employers", h.handleEmployers)
	mux.HandleFunc("/employers/", h.handleEmployerRead)
}

// RegisterAdminRoutes mounts the owner-restricted routes behind the gate.
func (h *Handler) RegisterAdminRoutes(mux *http.ServeMux, gate *admin.Gate) {
	mux.HandleFunc("/admin/tokens", gate.Middleware(h.approveToken))
	mux.HandleFunc("/admin/withdrawals", gate.Middleware(h.withdraw))
}

// handleEmployers handles POST /employers.
func (h *Handler) handleEmployers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	employer, ok := httpx.Caller(r)
	if !ok {
		httpx.Error(w, "missing x-caller-address header", http.StatusUnauthorized)
		return
	}

	var body struct {
		DisplayName string   `json:"displayName"`
		CompanyName string   `json:"companyName"`
		SalaryFloor uint64   `json:"salaryFloor"`
		Skills      []string `json:"skills"`
		Token       string   `json:"token"`
		Amount      uint64   `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	id, err := h.ledger.RegisterAndStake(r.Context(), RegisterInput{
		Employer:    employer,
		DisplayName: body.DisplayName,
		CompanyName: body.CompanyName,
		SalaryFloor: body.SalaryFloor,
		Skills:      body.Skills,
		Token:       body.Token,
		Amount:      body.Amount,
	})
	metrics.Observe("registerAndStake", err)
	if err != nil {
		httpx.Error(w, err.Error(), statusFor(err))
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{"employerId": id})
}

// handleEmployerRead handles GET /employers/{addr}/stake.
func (h *Handler) handleEmployerRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[2] != "stake" {
		httpx.Error(w, "invalid path", http.StatusNotFound)
		return
	}

	addr := parts[1]
	httpx.OK(w, map[string]any{
		"staked": h.ledger.IsStaked(addr),
		"amount": h.ledger.StakedAmount(addr),
	})
}

func (h *Handler) approveToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		httpx.Error(w, "body must contain token", http.StatusBadRequest)
		return
	}

	err := h.ledger.ApproveToken(r.Context(), body.Token)
	metrics.Observe("approveToken", err)
	if err != nil {
		httpx.Error(w, err.Error(), statusFor(err))
		return
	}
	httpx.OK(w, map[string]string{"token": body.Token, "status": "approved"})
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Token string `json:"token"`
		To    string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" || body.To == "" {
		httpx.Error(w, "body must contain token and to", http.StatusBadRequest)
		return
	}

	err := h.ledger.Withdraw(r.Context(), body.Token, body.To)
	metrics.Observe("withdraw", err)
	if err != nil {
		httpx.Error(w, err.Error(), statusFor(err))
		return
	}
	httpx.OK(w, map[string]string{"token": body.Token, "to": body.To, "status": "withdrawn"})
}

// statusFor maps staking errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAddress), errors.Is(err, ErrSalaryTooLow), errors.Is(err, ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, token.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrTokenNotApproved):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyStaked):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyPool):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
