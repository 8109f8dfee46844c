// Package memstore is the in-memory implementation of the engine's store
// interfaces. It is the reference implementation used by tests and small
// deployments; the sqlite store provides durability with the same contract.
package memstore

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/crowdfund3r/donorx/internal/domain"
)

// Store implements domain.DonorStore, domain.DonationLedger and
// domain.CampaignStore over process-local maps.
type Store struct {
	mu        sync.RWMutex
	donors    map[string]domain.DonorRecord
	donations []domain.DonationRecord
	campaigns map[string]domain.Campaign

	// locks serializes read-modify-write per donor address; unrelated
	// donors never contend.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates an empty store.
func New() *Store {
	return &Store{
		donors:    make(map[string]domain.DonorRecord),
		campaigns: make(map[string]domain.Campaign),
		locks:     make(map[string]*sync.Mutex),
	}
}

func (s *Store) donorLock(address string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[address]
	if !ok {
		l = &sync.Mutex{}
		s.locks[address] = l
	}
	return l
}

// ─── DonorStore ─────────────────────────────────────────────────────────────

// GetDonor returns the donor's record, or the default record for an unseen
// address. It never creates state.
func (s *Store) GetDonor(address string) (domain.DonorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.donors[address]; ok {
		return d.Clone(), nil
	}
	return domain.NewDonorRecord(address), nil
}

// UpdateDonor runs fn under the donor's lock. The record is created on first
// update and the version counter bumps on every successful write.
func (s *Store) UpdateDonor(address string, fn func(*domain.DonorRecord) error) (domain.DonorRecord, error) {
	lock := s.donorLock(address)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	cur, ok := s.donors[address]
	s.mu.RUnlock()
	if !ok {
		cur = domain.NewDonorRecord(address)
	}

	work := cur.Clone()
	if err := fn(&work); err != nil {
		return domain.DonorRecord{}, err
	}
	work.Version = cur.Version + 1

	s.mu.Lock()
	s.donors[address] = work
	s.mu.Unlock()
	return work.Clone(), nil
}

// ListDonors returns a snapshot of all donor records.
func (s *Store) ListDonors() ([]domain.DonorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DonorRecord, 0, len(s.donors))
	for _, d := range s.donors {
		out = append(out, d.Clone())
	}
	return out, nil
}

// ─── DonationLedger ─────────────────────────────────────────────────────────

// AppendDonation records a donation. The log is append-only.
func (s *Store) AppendDonation(rec domain.DonationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donations = append(s.donations, rec)
	return nil
}

// DonationsByCampaign returns all donations for a campaign, oldest first.
func (s *Store) DonationsByCampaign(campaignID string) ([]domain.DonationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.DonationRecord
	for _, rec := range s.donations {
		if rec.CampaignID == campaignID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// DonationsByDonor returns all donations made by an address, oldest first.
func (s *Store) DonationsByDonor(address string) ([]domain.DonationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.DonationRecord
	for _, rec := range s.donations {
		if rec.DonorAddress == address {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ─── CampaignStore ──────────────────────────────────────────────────────────

func (s *Store) CreateCampaign(c domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[c.ID] = c
	return nil
}

func (s *Store) GetCampaign(id string) (domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[id]
	if !ok {
		return domain.Campaign{}, domain.ErrCampaignNotFound
	}
	return c, nil
}

func (s *Store) ListCampaigns() ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// AddCollected accumulates a donation amount onto the campaign.
func (s *Store) AddCollected(id string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return domain.ErrCampaignNotFound
	}
	c.AmountCollected = c.AmountCollected.Add(amount)
	s.campaigns[id] = c
	return nil
}
