package sqlite

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crowdfund3r/donorx/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetDonor_UnseenReturnsDefault(t *testing.T) {
	db := openTestDB(t)
	d, err := db.GetDonor("0xA")
	if err != nil {
		t.Fatalf("GetDonor: %v", err)
	}
	if d.Address != "0xA" || d.XP != 0 || d.LastDonationTime != nil {
		t.Errorf("unexpected default: %+v", d)
	}
}

func TestUpdateDonor_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := db.UpdateDonor("0xA", func(rec *domain.DonorRecord) error {
		rec.XP = 250
		rec.StreakCount = 3
		rec.LastDonationTime = &now
		rec.TotalDonated = decimal.RequireFromString("1.25")
		rec.HasWelcomeBadge = true
		rec.CampaignsCreated = 1
		rec.GrantBadge(domain.BadgeStreakBronze)
		rec.GrantBadge(domain.BadgeStreakSilver)
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateDonor: %v", err)
	}

	got, err := db.GetDonor("0xA")
	if err != nil {
		t.Fatalf("GetDonor: %v", err)
	}
	if got.XP != 250 || got.StreakCount != 3 {
		t.Errorf("xp=%d streak=%d", got.XP, got.StreakCount)
	}
	if got.LastDonationTime == nil || !got.LastDonationTime.Equal(now) {
		t.Errorf("last donation = %v, want %v", got.LastDonationTime, now)
	}
	if !got.TotalDonated.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("total = %s, want 1.25", got.TotalDonated)
	}
	if !got.HasWelcomeBadge || got.CampaignsCreated != 1 {
		t.Errorf("welcome=%v campaigns=%d", got.HasWelcomeBadge, got.CampaignsCreated)
	}
	if len(got.Badges) != 2 || !got.HasBadge(domain.BadgeStreakSilver) {
		t.Errorf("badges = %v", got.Badges)
	}
	if got.Version != 1 {
		t.Errorf("version = %d, want 1", got.Version)
	}
}

func TestUpdateDonor_VersionIncrements(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 3; i++ {
		if _, err := db.UpdateDonor("0xA", func(rec *domain.DonorRecord) error {
			rec.XP += 100
			return nil
		}); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	got, _ := db.GetDonor("0xA")
	if got.XP != 300 || got.Version != 3 {
		t.Errorf("xp=%d version=%d, want 300/3", got.XP, got.Version)
	}
}

func TestUpdateDonor_ErrorLeavesRecordUntouched(t *testing.T) {
	db := openTestDB(t)
	db.UpdateDonor("0xA", func(rec *domain.DonorRecord) error {
		rec.XP = 100
		return nil
	})

	boom := errors.New("boom")
	if _, err := db.UpdateDonor("0xA", func(rec *domain.DonorRecord) error {
		rec.XP = 999
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := db.GetDonor("0xA")
	if got.XP != 100 {
		t.Errorf("failed update mutated record: xp=%d", got.XP)
	}
}

// Concurrent same-donor updates must all land: the write transaction keeps
// the read-modify-write atomic, so no increment is lost and no writer fails
// with a busy error.
func TestUpdateDonor_Concurrent(t *testing.T) {
	db := openTestDB(t)
	const n = 25

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.UpdateDonor("0xA", func(rec *domain.DonorRecord) error {
				rec.XP += 100
				return nil
			}); err != nil {
				t.Errorf("UpdateDonor: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := db.GetDonor("0xA")
	if err != nil {
		t.Fatalf("GetDonor: %v", err)
	}
	if got.XP != n*100 {
		t.Errorf("lost updates: xp = %d, want %d", got.XP, n*100)
	}
	if got.Version != n {
		t.Errorf("version = %d, want %d", got.Version, n)
	}
}

func TestDonations_AppendAndList(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	recs := []domain.DonationRecord{
		{ID: "d1", DonorAddress: "0xA", CampaignID: "c1", Amount: decimal.RequireFromString("0.5"), Timestamp: base},
		{ID: "d2", DonorAddress: "0xB", CampaignID: "c1", Amount: decimal.NewFromInt(2), Timestamp: base.Add(time.Hour)},
		{ID: "d3", DonorAddress: "0xA", CampaignID: "c2", Amount: decimal.NewFromInt(3), Timestamp: base.Add(2 * time.Hour)},
	}
	for _, r := range recs {
		if err := db.AppendDonation(r); err != nil {
			t.Fatalf("AppendDonation: %v", err)
		}
	}

	byCampaign, err := db.DonationsByCampaign("c1")
	if err != nil {
		t.Fatalf("DonationsByCampaign: %v", err)
	}
	if len(byCampaign) != 2 {
		t.Fatalf("c1 donations = %d, want 2", len(byCampaign))
	}
	if byCampaign[0].ID != "d1" || byCampaign[1].ID != "d2" {
		t.Errorf("wrong order: %s, %s", byCampaign[0].ID, byCampaign[1].ID)
	}
	if !byCampaign[0].Amount.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("amount = %s, want 0.5", byCampaign[0].Amount)
	}

	byDonor, _ := db.DonationsByDonor("0xA")
	if len(byDonor) != 2 {
		t.Errorf("0xA donations = %d, want 2", len(byDonor))
	}
}

func TestCampaigns_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	c := domain.Campaign{
		ID:              "c1",
		Title:           "Clean Water",
		Description:     "Wells for the village",
		Owner:           "0xA",
		Target:          decimal.NewFromInt(10),
		Deadline:        time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		AmountCollected: decimal.Zero,
		Category:        "community",
		CreatedAt:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.CreateCampaign(c); err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}

	if err := db.AddCollected("c1", decimal.RequireFromString("2.5")); err != nil {
		t.Fatalf("AddCollected: %v", err)
	}
	if err := db.AddCollected("c1", decimal.RequireFromString("0.5")); err != nil {
		t.Fatalf("AddCollected: %v", err)
	}

	got, err := db.GetCampaign("c1")
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if !got.AmountCollected.Equal(decimal.NewFromInt(3)) {
		t.Errorf("collected = %s, want 3", got.AmountCollected)
	}
	if got.Title != "Clean Water" || !got.Deadline.Equal(c.Deadline) {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if err := db.AddCollected("missing", decimal.NewFromInt(1)); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Errorf("AddCollected(missing) = %v, want ErrCampaignNotFound", err)
	}

	all, _ := db.ListCampaigns()
	if len(all) != 1 {
		t.Errorf("ListCampaigns = %d entries, want 1", len(all))
	}
}

// Concurrent donations to one campaign from different donors: every
// accumulation must land in the total.
func TestAddCollected_Concurrent(t *testing.T) {
	db := openTestDB(t)
	c := domain.Campaign{
		ID:              "c1",
		Title:           "Flood Relief",
		Owner:           "0xA",
		Target:          decimal.NewFromInt(100),
		AmountCollected: decimal.Zero,
		CreatedAt:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.CreateCampaign(c); err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := db.AddCollected("c1", decimal.NewFromInt(1)); err != nil {
				t.Errorf("AddCollected: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := db.GetCampaign("c1")
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if !got.AmountCollected.Equal(decimal.NewFromInt(n)) {
		t.Errorf("collected = %s, want %d (lost updates)", got.AmountCollected, n)
	}
}
