package store

import (
	"context"

	"infco/internal/models"
)

type CampaignStore struct {
	db DB
}

func NewCampaignStore(db DB) *CampaignStore {
	return &CampaignStore{db: db}
}

const campaignColumns = `id, brand_id, title, slug, description, platform, total_pool,
	price_per_1000_views, max_cpm, image_url, status, start_date, end_date, created_at`

func (s *CampaignStore) Create(ctx context.Context, tx Execer, c models.Campaign) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO campaigns (
			id, brand_id, title, slug, description, platform, total_pool,
			price_per_1000_views, max_cpm, image_url, status, start_date, end_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, c.ID, c.BrandID, c.Title, c.Slug, c.Description, c.Platform, c.TotalPool,
		c.PricePer1000Views, c.MaxCpm, c.ImageURL, c.Status, c.StartDate, c.EndDate)
	return err
}

func (s *CampaignStore) GetByID(ctx context.Context, campaignID string) (models.Campaign, error) {
	var row models.Campaign
	err := s.db.GetContext(ctx, &row, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, campaignID)
	return row, err
}

func (s *CampaignStore) GetBySlug(ctx context.Context, slug string) (models.Campaign, error) {
	var row models.Campaign
	err := s.db.GetContext(ctx, &row, `SELECT `+campaignColumns+` FROM campaigns WHERE slug = $1`, slug)
	return row, err
}

func (s *CampaignStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM campaigns WHERE slug = $1)`, slug)
	return exists, err
}

func (s *CampaignStore) ListByStatus(ctx context.Context, status models.CampaignStatus, limit, offset int) ([]models.Campaign, error) {
	limit, offset = clampPage(limit, offset)
	rows := []models.Campaign{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CampaignStore) ListByBrand(ctx context.Context, brandID string) ([]models.Campaign, error) {
	rows := []models.Campaign{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+campaignColumns+`
		FROM campaigns
		WHERE brand_id = $1
		ORDER BY created_at DESC
	`, brandID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TransitionStatus changes status only when the campaign is currently in from.
func (s *CampaignStore) TransitionStatus(ctx context.Context, tx Execer, campaignID string, from, to models.CampaignStatus) (int64, error) {
	return rowsAffected(tx.ExecContext(ctx, `
		UPDATE campaigns
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, campaignID, from))
}
