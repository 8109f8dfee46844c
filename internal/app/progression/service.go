// Package progression implements the donor progression pipeline: a donation
// arrives at the ledger, the streak evaluator and XP calculator run against
// the donor's prior state, the badge rules run against the updated state, and
// the donor record is written back — all inside one per-donor critical
// section. This is the only path that mutates donor state.
package progression

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/crowdfund3r/donorx/internal/domain"
	"github.com/crowdfund3r/donorx/internal/metrics"
)

// Config wires the service's collaborators. Zero-value policy fields fall
// back to the platform defaults.
type Config struct {
	Donors    domain.DonorStore
	Ledger    domain.DonationLedger
	Campaigns domain.CampaignStore

	Awards domain.AwardTable  // nil → domain.DefaultAwardTable()
	Rules  []domain.BadgeRule // nil → domain.BadgeRegistry()
	Clock  func() time.Time   // nil → time.Now; injectable for tests
	Logger *zap.Logger        // nil → zap.NewNop()
}

// Service drives all donor-state mutation.
type Service struct {
	donors    domain.DonorStore
	ledger    domain.DonationLedger
	campaigns domain.CampaignStore
	awards    domain.AwardTable
	rules     []domain.BadgeRule
	clock     func() time.Time
	log       *zap.Logger

	// locks serializes the read-modify-write per donor address.
	// Donations from different donors proceed in parallel.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates the progression service.
func New(cfg Config) *Service {
	if cfg.Awards == nil {
		cfg.Awards = domain.DefaultAwardTable()
	}
	if cfg.Rules == nil {
		cfg.Rules = domain.BadgeRegistry()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Service{
		donors:    cfg.Donors,
		ledger:    cfg.Ledger,
		campaigns: cfg.Campaigns,
		awards:    cfg.Awards,
		rules:     cfg.Rules,
		clock:     cfg.Clock,
		log:       cfg.Logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (s *Service) donorLock(address string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[address]
	if !ok {
		l = &sync.Mutex{}
		s.locks[address] = l
	}
	return l
}

// AwardFor exposes the configured XP grant for a reason.
func (s *Service) AwardFor(reason domain.AwardReason) int64 {
	return s.awards.XPFor(reason)
}

// ─── Donation Pipeline ──────────────────────────────────────────────────────

// DonationResult is the outcome of one processed donation.
type DonationResult struct {
	Donation  domain.DonationRecord
	Donor     domain.DonorRecord
	NewBadges []domain.BadgeID
}

// RecordDonation validates and persists a donation, then runs the streak,
// XP and badge stages for the donor. Validation failures reject before any
// state mutation.
func (s *Service) RecordDonation(donorAddress, campaignID string, amount decimal.Decimal) (DonationResult, error) {
	if donorAddress == "" {
		metrics.DonationsRejected.Inc()
		return DonationResult{}, domain.ErrInvalidAddress
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		metrics.DonationsRejected.Inc()
		return DonationResult{}, domain.ErrInvalidAmount
	}

	lock := s.donorLock(donorAddress)
	lock.Lock()
	defer lock.Unlock()

	now := s.clock().UTC()
	rec := domain.DonationRecord{
		ID:           uuid.NewString(),
		DonorAddress: donorAddress,
		CampaignID:   campaignID,
		Amount:       amount,
		Timestamp:    now,
	}
	if err := s.ledger.AppendDonation(rec); err != nil {
		return DonationResult{}, fmt.Errorf("append donation: %w", err)
	}

	xp := s.awards.XPFor(domain.AwardDonation)
	var newBadges []domain.BadgeID
	donor, err := s.donors.UpdateDonor(donorAddress, func(d *domain.DonorRecord) error {
		if d.LastDonationTime != nil && now.Sub(*d.LastDonationTime) >= domain.StreakGrace {
			metrics.StreakResets.Inc()
		}
		count, last := domain.EvaluateStreak(d.StreakCount, d.LastDonationTime, now)
		d.StreakCount = count
		d.LastDonationTime = &last

		d.XP += xp
		d.TotalDonated = d.TotalDonated.Add(amount)

		newBadges = domain.EvaluateBadges(s.rules, *d)
		for _, id := range newBadges {
			d.GrantBadge(id)
		}
		return nil
	})
	if err != nil {
		// The ledger row stays: the log is append-only and the caller may
		// retry the state update without re-donating.
		return DonationResult{}, fmt.Errorf("update donor %s: %w", donorAddress, err)
	}

	if campaignID != "" {
		if err := s.campaigns.AddCollected(campaignID, amount); err != nil && err != domain.ErrCampaignNotFound {
			return DonationResult{}, fmt.Errorf("accumulate campaign %s: %w", campaignID, err)
		}
	}

	metrics.DonationsTotal.Inc()
	metrics.XPAwarded.WithLabelValues(string(domain.AwardDonation)).Add(float64(xp))
	for _, id := range newBadges {
		metrics.BadgesGranted.WithLabelValues(string(id)).Inc()
	}

	s.log.Info("donation recorded",
		zap.String("donor", donorAddress),
		zap.String("campaign", campaignID),
		zap.String("amount", amount.String()),
		zap.Int("streak", donor.StreakCount),
		zap.Int64("xp", donor.XP),
		zap.Int("new_badges", len(newBadges)),
	)

	return DonationResult{Donation: rec, Donor: donor, NewBadges: newBadges}, nil
}

// ─── XP Awards ──────────────────────────────────────────────────────────────

// AwardXP grants XP for a non-donation action (daily login, share, challenge
// completion). XP is additive only; a negative amount is rejected.
func (s *Service) AwardXP(address string, amount int64, reason domain.AwardReason) (domain.DonorRecord, []domain.BadgeID, error) {
	if address == "" {
		return domain.DonorRecord{}, nil, domain.ErrInvalidAddress
	}
	if amount < 0 {
		return domain.DonorRecord{}, nil, domain.ErrInvalidAward
	}

	lock := s.donorLock(address)
	lock.Lock()
	defer lock.Unlock()

	var newBadges []domain.BadgeID
	donor, err := s.donors.UpdateDonor(address, func(d *domain.DonorRecord) error {
		d.XP += amount
		newBadges = domain.EvaluateBadges(s.rules, *d)
		for _, id := range newBadges {
			d.GrantBadge(id)
		}
		return nil
	})
	if err != nil {
		return domain.DonorRecord{}, nil, err
	}

	metrics.XPAwarded.WithLabelValues(string(reason)).Add(float64(amount))
	for _, id := range newBadges {
		metrics.BadgesGranted.WithLabelValues(string(id)).Inc()
	}
	return donor, newBadges, nil
}

// ─── Welcome Badge ──────────────────────────────────────────────────────────

// ClaimWelcomeBadge grants the one-time welcome badge. Idempotent: a second
// claim is a no-op and reports no new badge.
func (s *Service) ClaimWelcomeBadge(address string) (domain.DonorRecord, bool, error) {
	if address == "" {
		return domain.DonorRecord{}, false, domain.ErrInvalidAddress
	}

	lock := s.donorLock(address)
	lock.Lock()
	defer lock.Unlock()

	newly := false
	donor, err := s.donors.UpdateDonor(address, func(d *domain.DonorRecord) error {
		if d.HasWelcomeBadge {
			return nil
		}
		d.HasWelcomeBadge = true
		newly = d.GrantBadge(domain.BadgeWelcome)
		return nil
	})
	if err != nil {
		return domain.DonorRecord{}, false, err
	}
	if newly {
		metrics.BadgesGranted.WithLabelValues(string(domain.BadgeWelcome)).Inc()
	}
	return donor, newly, nil
}

// ─── Queries & Re-evaluation ────────────────────────────────────────────────

// GetDonor returns the donor's current snapshot; unseen addresses get the
// defined default record.
func (s *Service) GetDonor(address string) (domain.DonorRecord, error) {
	if address == "" {
		return domain.DonorRecord{}, domain.ErrInvalidAddress
	}
	return s.donors.GetDonor(address)
}

// CheckBadges re-runs the rule set against the donor's current stats and
// merges any newly crossed thresholds. Safe to call any number of times.
func (s *Service) CheckBadges(address string) (domain.DonorRecord, []domain.BadgeID, error) {
	if address == "" {
		return domain.DonorRecord{}, nil, domain.ErrInvalidAddress
	}

	lock := s.donorLock(address)
	lock.Lock()
	defer lock.Unlock()

	var newBadges []domain.BadgeID
	donor, err := s.donors.UpdateDonor(address, func(d *domain.DonorRecord) error {
		newBadges = domain.EvaluateBadges(s.rules, *d)
		for _, id := range newBadges {
			d.GrantBadge(id)
		}
		return nil
	})
	if err != nil {
		return domain.DonorRecord{}, nil, err
	}
	for _, id := range newBadges {
		metrics.BadgesGranted.WithLabelValues(string(id)).Inc()
	}
	return donor, newBadges, nil
}

// Donations lists the ledger entries for a campaign, oldest first.
func (s *Service) Donations(campaignID string) ([]domain.DonationRecord, error) {
	return s.ledger.DonationsByCampaign(campaignID)
}

// DonorDonations lists a donor's ledger entries, oldest first.
func (s *Service) DonorDonations(address string) ([]domain.DonationRecord, error) {
	if address == "" {
		return nil, domain.ErrInvalidAddress
	}
	return s.ledger.DonationsByDonor(address)
}
