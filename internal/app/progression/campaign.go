package progression

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/crowdfund3r/donorx/internal/domain"
	"github.com/crowdfund3r/donorx/internal/metrics"
)

// CampaignInput is the caller-supplied part of a new campaign.
type CampaignInput struct {
	Title       string
	Description string
	Owner       string
	Target      decimal.Decimal
	Deadline    time.Time
	Category    string
}

// CreateCampaign registers a campaign and credits the owner's
// campaigns-created counter through the badge pipeline, so the creator badge
// fires on the first authored campaign.
func (s *Service) CreateCampaign(in CampaignInput) (domain.Campaign, []domain.BadgeID, error) {
	if in.Title == "" || in.Owner == "" {
		return domain.Campaign{}, nil, domain.ErrInvalidCampaign
	}

	c := domain.Campaign{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Description:     in.Description,
		Owner:           in.Owner,
		Target:          in.Target,
		Deadline:        in.Deadline,
		AmountCollected: decimal.Zero,
		Category:        in.Category,
		CreatedAt:       s.clock().UTC(),
	}
	if err := s.campaigns.CreateCampaign(c); err != nil {
		return domain.Campaign{}, nil, fmt.Errorf("create campaign: %w", err)
	}

	lock := s.donorLock(in.Owner)
	lock.Lock()
	defer lock.Unlock()

	var newBadges []domain.BadgeID
	if _, err := s.donors.UpdateDonor(in.Owner, func(d *domain.DonorRecord) error {
		d.CampaignsCreated++
		newBadges = domain.EvaluateBadges(s.rules, *d)
		for _, id := range newBadges {
			d.GrantBadge(id)
		}
		return nil
	}); err != nil {
		return domain.Campaign{}, nil, fmt.Errorf("credit campaign owner: %w", err)
	}
	for _, id := range newBadges {
		metrics.BadgesGranted.WithLabelValues(string(id)).Inc()
	}

	s.log.Info("campaign created",
		zap.String("campaign", c.ID),
		zap.String("owner", in.Owner),
		zap.String("title", in.Title),
	)
	return c, newBadges, nil
}

// GetCampaign returns one campaign by id.
func (s *Service) GetCampaign(id string) (domain.Campaign, error) {
	return s.campaigns.GetCampaign(id)
}

// ListCampaigns returns all campaigns, oldest first.
func (s *Service) ListCampaigns() ([]domain.Campaign, error) {
	return s.campaigns.ListCampaigns()
}
