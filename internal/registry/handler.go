// HTTP handlers for the skill registry.
//
// Routes:
//
//	GET  /graduates              → all records, first-registration order
//	GET  /graduates/count
//	GET  /graduates/{addr}/skill
//	POST /admin/graduates        → upsert a graduate (admin)
package registry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/AllenGeorge08/SkillBridge/internal/admin"
	"github.com/AllenGeorge08/SkillBridge/internal/httpx"
	"github.com/AllenGeorge08/SkillBridge/internal/metrics"
)

// Handler holds shared dependencies.
type Handler struct {
	reg *Registry
}

// NewHandler returns a configured Handler.
func NewHandler(reg *Registry) *Handler {
	return &Handler{reg: reg}
}

// RegisterRoutes mounts the public registry routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/graduates", h.listGraduates)
	mux.HandleFunc("/graduates/", h.handleGraduateRead)
}

// RegisterAdminRoutes mounts the owner-restricted routes behind the gate.
func (h *Handler) RegisterAdminRoutes(mux *http.ServeMux, gate *admin.Gate) {
	mux.HandleFunc("/admin/graduates", gate.Middleware(h.addGraduate))
}

func (h *Handler) listGraduates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	httpx.OK(w, h.reg.Graduates())
}

// handleGraduateRead handles GET /graduates/count and /graduates/{addr}/skill.
func (h *Handler) handleGraduateRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 2 && parts[1] == "count":
		httpx.OK(w, map[string]int{"count": h.reg.Count()})
	case len(parts) == 3 && parts[2] == "skill":
		g, err := h.reg.Skill(parts[1])
		if errors.Is(err, ErrNotGraduate) {
			httpx.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		httpx.OK(w, g)
	default:
		httpx.Error(w, "invalid path", http.StatusNotFound)
	}
}

func (h *Handler) addGraduate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Address   string `json:"address"`
		SkillName string `json:"skillName"`
		Level     string `json:"level"`
		Issuer    string `json:"issuer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	err := h.reg.AddGraduate(r.Context(), body.Address, body.SkillName, body.Level, body.Issuer)
	metrics.Observe("addGraduate", err)
	if err != nil {
		httpx.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, _ := h.reg.Skill(body.Address)
	httpx.JSON(w, http.StatusCreated, g)
}
