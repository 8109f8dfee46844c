package memstore

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crowdfund3r/donorx/internal/domain"
)

func TestGetDonor_UnseenReturnsDefault(t *testing.T) {
	s := New()
	d, err := s.GetDonor("0xA")
	if err != nil {
		t.Fatalf("GetDonor: %v", err)
	}
	if d.Address != "0xA" || d.XP != 0 || d.StreakCount != 0 {
		t.Errorf("unexpected default: %+v", d)
	}

	// A plain read must not create the record.
	donors, _ := s.ListDonors()
	if len(donors) != 0 {
		t.Errorf("GetDonor created state: %v", donors)
	}
}

func TestUpdateDonor_CreatesAndBumpsVersion(t *testing.T) {
	s := New()
	d, err := s.UpdateDonor("0xA", func(rec *domain.DonorRecord) error {
		rec.XP += 100
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateDonor: %v", err)
	}
	if d.XP != 100 {
		t.Errorf("XP = %d, want 100", d.XP)
	}
	if d.Version != 1 {
		t.Errorf("Version = %d, want 1", d.Version)
	}

	d, _ = s.UpdateDonor("0xA", func(rec *domain.DonorRecord) error {
		rec.XP += 100
		return nil
	})
	if d.XP != 200 || d.Version != 2 {
		t.Errorf("after second update: xp=%d version=%d", d.XP, d.Version)
	}
}

func TestUpdateDonor_ErrorLeavesRecordUntouched(t *testing.T) {
	s := New()
	s.UpdateDonor("0xA", func(rec *domain.DonorRecord) error {
		rec.XP = 100
		return nil
	})

	boom := errors.New("boom")
	_, err := s.UpdateDonor("0xA", func(rec *domain.DonorRecord) error {
		rec.XP = 999
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	d, _ := s.GetDonor("0xA")
	if d.XP != 100 {
		t.Errorf("failed update mutated record: xp=%d", d.XP)
	}
}

func TestUpdateDonor_ConcurrentSameDonor(t *testing.T) {
	s := New()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.UpdateDonor("0xA", func(rec *domain.DonorRecord) error {
				rec.XP += 100
				return nil
			})
		}()
	}
	wg.Wait()

	d, _ := s.GetDonor("0xA")
	if d.XP != n*100 {
		t.Errorf("lost updates: xp=%d, want %d", d.XP, n*100)
	}
	if d.Version != n {
		t.Errorf("version = %d, want %d", d.Version, n)
	}
}

func TestDonationLedger(t *testing.T) {
	s := New()
	now := time.Now()
	recs := []domain.DonationRecord{
		{ID: "d1", DonorAddress: "0xA", CampaignID: "c1", Amount: decimal.NewFromInt(1), Timestamp: now},
		{ID: "d2", DonorAddress: "0xB", CampaignID: "c1", Amount: decimal.NewFromInt(2), Timestamp: now},
		{ID: "d3", DonorAddress: "0xA", CampaignID: "c2", Amount: decimal.NewFromInt(3), Timestamp: now},
	}
	for _, r := range recs {
		if err := s.AppendDonation(r); err != nil {
			t.Fatalf("AppendDonation: %v", err)
		}
	}

	byCampaign, _ := s.DonationsByCampaign("c1")
	if len(byCampaign) != 2 {
		t.Errorf("c1 donations = %d, want 2", len(byCampaign))
	}
	byDonor, _ := s.DonationsByDonor("0xA")
	if len(byDonor) != 2 {
		t.Errorf("0xA donations = %d, want 2", len(byDonor))
	}
	empty, _ := s.DonationsByCampaign("missing")
	if len(empty) != 0 {
		t.Errorf("missing campaign donations = %d, want 0", len(empty))
	}
}

func TestCampaignStore(t *testing.T) {
	s := New()
	c := domain.Campaign{
		ID:              "c1",
		Title:           "Test",
		Owner:           "0xA",
		Target:          decimal.NewFromInt(10),
		AmountCollected: decimal.Zero,
		CreatedAt:       time.Now(),
	}
	if err := s.CreateCampaign(c); err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}

	if err := s.AddCollected("c1", decimal.RequireFromString("2.5")); err != nil {
		t.Fatalf("AddCollected: %v", err)
	}
	got, err := s.GetCampaign("c1")
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if !got.AmountCollected.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("AmountCollected = %s, want 2.5", got.AmountCollected)
	}

	if err := s.AddCollected("missing", decimal.NewFromInt(1)); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Errorf("AddCollected(missing) = %v, want ErrCampaignNotFound", err)
	}
	if _, err := s.GetCampaign("missing"); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Errorf("GetCampaign(missing) = %v, want ErrCampaignNotFound", err)
	}
}
