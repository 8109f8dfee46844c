package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/crowdfund3r/donorx/internal/app/progression"
	"github.com/crowdfund3r/donorx/internal/domain"
)

// ─── Donor & Donation API ───────────────────────────────────────────────────
//
// POST /api/donations                             — record a donation
// GET  /api/donations/{campaignID}                — donations for a campaign
// GET  /api/donors/{address}                      — progression view
// GET  /api/donors/{address}/donations            — donor's donation history
// POST /api/donors/xp                             — grant non-donation XP
// POST /api/donors/{address}/claim-welcome-badge  — one-time welcome badge
// POST /api/donors/badges/check                   — re-evaluate badge rules
// GET  /api/leaderboard?filter=all|weekly|streak  — ranked donors

// donorView is the JSON shape of a donor's progression state.
type donorView struct {
	Address          string           `json:"address"`
	XP               int64            `json:"xp"`
	Level            int              `json:"level"`
	NextLevelXP      int64            `json:"next_level_xp"`
	StreakCount      int              `json:"streak_count"`
	LastDonationTime string           `json:"last_donation_time,omitempty"`
	TotalDonated     string           `json:"total_donated"`
	Badges           []domain.BadgeID `json:"badges"`
	HasWelcomeBadge  bool             `json:"has_welcome_badge"`
	CampaignsCreated int              `json:"campaigns_created"`
}

func toDonorView(d domain.DonorRecord) donorView {
	v := donorView{
		Address:          d.Address,
		XP:               d.XP,
		Level:            d.Level(),
		NextLevelXP:      d.NextLevelXP(),
		StreakCount:      d.StreakCount,
		TotalDonated:     d.TotalDonated.String(),
		Badges:           d.Badges,
		HasWelcomeBadge:  d.HasWelcomeBadge,
		CampaignsCreated: d.CampaignsCreated,
	}
	if v.Badges == nil {
		v.Badges = []domain.BadgeID{}
	}
	if d.LastDonationTime != nil {
		v.LastDonationTime = d.LastDonationTime.Format(time.RFC3339)
	}
	return v
}

type donationView struct {
	ID           string `json:"id"`
	DonorAddress string `json:"donor_address"`
	CampaignID   string `json:"campaign_id"`
	Amount       string `json:"amount"`
	Timestamp    string `json:"timestamp"`
}

func toDonationView(d domain.DonationRecord) donationView {
	return donationView{
		ID:           d.ID,
		DonorAddress: d.DonorAddress,
		CampaignID:   d.CampaignID,
		Amount:       d.Amount.String(),
		Timestamp:    d.Timestamp.Format(time.RFC3339),
	}
}

func toDonationViews(recs []domain.DonationRecord) []donationView {
	out := make([]donationView, 0, len(recs))
	for _, d := range recs {
		out = append(out, toDonationView(d))
	}
	return out
}

// handleRecordDonation records a donation and returns the updated donor.
// POST /api/donations
func (s *Server) handleRecordDonation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DonorAddress string          `json:"donor_address"`
		CampaignID   string          `json:"campaign_id"`
		Amount       decimal.Decimal `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := s.svc.RecordDonation(req.DonorAddress, req.CampaignID, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"donation":   toDonationView(res.Donation),
		"donor":      toDonorView(res.Donor),
		"new_badges": badgeList(res.NewBadges),
	})
}

// handleListDonations returns a campaign's donations in arrival order.
// GET /api/donations/{campaignID}
func (s *Server) handleListDonations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.Donations(chi.URLParam(r, "campaignID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"donations": toDonationViews(recs),
	})
}

// handleGetDonor returns the progression view. Unseen addresses get the
// zero-state view rather than a 404; no record is created.
// GET /api/donors/{address}
func (s *Server) handleGetDonor(w http.ResponseWriter, r *http.Request) {
	donor, err := s.svc.GetDonor(chi.URLParam(r, "address"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDonorView(donor))
}

// handleDonorDonations returns a donor's donation history.
// GET /api/donors/{address}/donations
func (s *Server) handleDonorDonations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.DonorDonations(chi.URLParam(r, "address"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"donations": toDonationViews(recs),
	})
}

// handleAwardXP grants XP for a non-donation action. When amount is
// omitted the configured award for the reason applies.
// POST /api/donors/xp
func (s *Server) handleAwardXP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
		Amount  *int64 `json:"amount"`
		Reason  string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reason := domain.AwardReason(req.Reason)
	amount := s.svc.AwardFor(reason)
	if req.Amount != nil {
		amount = *req.Amount
	}

	donor, newBadges, err := s.svc.AwardXP(req.Address, amount, reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"donor":      toDonorView(donor),
		"awarded":    amount,
		"new_badges": badgeList(newBadges),
	})
}

// handleClaimWelcomeBadge grants the one-time welcome badge.
// POST /api/donors/{address}/claim-welcome-badge
func (s *Server) handleClaimWelcomeBadge(w http.ResponseWriter, r *http.Request) {
	donor, newly, err := s.svc.ClaimWelcomeBadge(chi.URLParam(r, "address"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"donor":         toDonorView(donor),
		"newly_granted": newly,
	})
}

// handleCheckBadges re-runs the badge rules for a donor.
// POST /api/donors/badges/check
func (s *Server) handleCheckBadges(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	donor, newBadges, err := s.svc.CheckBadges(req.Address)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"donor":      toDonorView(donor),
		"new_badges": badgeList(newBadges),
	})
}

// handleLeaderboard returns the ranked donor board.
// GET /api/leaderboard?filter=all|weekly|streak&limit=N
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	filter, ok := progression.ParseFilter(r.URL.Query().Get("filter"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown filter")
		return
	}

	limit := s.leaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	rows, err := s.svc.Leaderboard(filter, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filter":  string(filter),
		"entries": rows,
	})
}

// badgeList keeps nil badge slices rendering as [] instead of null.
func badgeList(ids []domain.BadgeID) []domain.BadgeID {
	if ids == nil {
		return []domain.BadgeID{}
	}
	return ids
}
