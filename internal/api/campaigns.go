package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/crowdfund3r/donorx/internal/app/progression"
)

// ─── Campaign API ───────────────────────────────────────────────────────────
//
// POST /api/campaigns      — register a campaign
// GET  /api/campaigns      — all campaigns, oldest first
// GET  /api/campaigns/{id} — one campaign

// handleCreateCampaign registers a campaign. The owner is credited for
// authorship, which may grant the creator badge.
// POST /api/campaigns
func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Owner       string          `json:"owner"`
		Target      decimal.Decimal `json:"target"`
		Deadline    time.Time       `json:"deadline"`
		Category    string          `json:"category"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	c, newBadges, err := s.svc.CreateCampaign(progression.CampaignInput{
		Title:       req.Title,
		Description: req.Description,
		Owner:       req.Owner,
		Target:      req.Target,
		Deadline:    req.Deadline,
		Category:    req.Category,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"campaign":     c,
		"owner_badges": badgeList(newBadges),
	})
}

// GET /api/campaigns
func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.svc.ListCampaigns()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaigns": campaigns,
	})
}

// GET /api/campaigns/{id}
func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.GetCampaign(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
