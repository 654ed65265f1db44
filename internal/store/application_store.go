package store

import (
	"context"

	"infco/internal/models"
)

type ApplicationStore struct {
	db DB
}

func NewApplicationStore(db DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

// ApplicationWithCampaign is an application joined with the fields an
// influencer sees in their list.
type ApplicationWithCampaign struct {
	models.CampaignApplication
	CampaignTitle string                `db:"campaign_title" json:"campaign_title"`
	CampaignSlug  string                `db:"campaign_slug" json:"campaign_slug"`
	CampaignState models.CampaignStatus `db:"campaign_status" json:"campaign_status"`
}

func (s *ApplicationStore) Create(ctx context.Context, tx Execer, a models.CampaignApplication) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO campaign_applications (id, campaign_id, influencer_id, status)
		VALUES ($1, $2, $3, $4)
	`, a.ID, a.CampaignID, a.InfluencerID, a.Status)
	return err
}

func (s *ApplicationStore) Exists(ctx context.Context, campaignID, influencerID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM campaign_applications
			WHERE campaign_id = $1 AND influencer_id = $2
		)
	`, campaignID, influencerID)
	return exists, err
}

func (s *ApplicationStore) GetByID(ctx context.Context, applicationID string) (models.CampaignApplication, error) {
	var row models.CampaignApplication
	err := s.db.GetContext(ctx, &row, `
		SELECT id, campaign_id, influencer_id, status, created_at
		FROM campaign_applications
		WHERE id = $1
	`, applicationID)
	return row, err
}

func (s *ApplicationStore) ListByInfluencer(ctx context.Context, influencerID string) ([]ApplicationWithCampaign, error) {
	rows := []ApplicationWithCampaign{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.id, a.campaign_id, a.influencer_id, a.status, a.created_at,
		       c.title AS campaign_title, c.slug AS campaign_slug, c.status AS campaign_status
		FROM campaign_applications a
		JOIN campaigns c ON c.id = a.campaign_id
		WHERE a.influencer_id = $1
		ORDER BY a.created_at DESC
	`, influencerID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
