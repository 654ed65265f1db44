package store

import (
	"context"

	"infco/internal/models"

	"github.com/shopspring/decimal"
)

type ContentStore struct {
	db DB
}

func NewContentStore(db DB) *ContentStore {
	return &ContentStore{db: db}
}

// ContentForReview is a locked content row together with everything the
// approval needs to price it and find the wallet to credit.
type ContentForReview struct {
	ID                string               `db:"id"`
	CampaignID        string               `db:"campaign_id"`
	InfluencerID      string               `db:"influencer_id"`
	InfluencerUserID  string               `db:"influencer_user_id"`
	Views             *int64               `db:"views"`
	Earning           *decimal.Decimal     `db:"earning"`
	Status            models.ContentStatus `db:"status"`
	PricePer1000Views decimal.Decimal      `db:"price_per_1000_views"`
	MaxCpm            decimal.Decimal      `db:"max_cpm"`
}

// ContentListing is a content row with its campaign and influencer names.
type ContentListing struct {
	models.Content
	CampaignTitle     string          `db:"campaign_title" json:"campaign_title"`
	InfluencerName    string          `db:"influencer_name" json:"influencer_name"`
	PricePer1000Views decimal.Decimal `db:"price_per_1000_views" json:"price_per_1000_views"`
	MaxCpm            decimal.Decimal `db:"max_cpm" json:"max_cpm"`
}

const contentColumns = `c.id, c.campaign_id, c.influencer_id, c.application_id, c.platform, c.url,
	c.views, c.likes, c.comments, c.shares, c.followers, c.earning, c.status, c.posted_at, c.created_at`

func (s *ContentStore) Create(ctx context.Context, tx Execer, c models.Content) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO contents (
			id, campaign_id, influencer_id, application_id, platform, url,
			views, likes, comments, shares, followers, earning, status, posted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, c.ID, c.CampaignID, c.InfluencerID, c.ApplicationID, c.Platform, c.URL,
		c.Views, c.Likes, c.Comments, c.Shares, c.Followers, c.Earning, c.Status, c.PostedAt)
	return err
}

// HasLive reports whether the influencer already has a non-rejected
// submission for the campaign.
func (s *ContentStore) HasLive(ctx context.Context, q Getter, campaignID, influencerID string) (bool, error) {
	var exists bool
	err := q.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM contents
			WHERE campaign_id = $1 AND influencer_id = $2 AND status <> 'REJECTED'
		)
	`, campaignID, influencerID)
	return exists, err
}

// GetForReview locks the content row for the rest of the transaction.
func (s *ContentStore) GetForReview(ctx context.Context, tx Getter, contentID string) (ContentForReview, error) {
	var row ContentForReview
	err := tx.GetContext(ctx, &row, `
		SELECT c.id, c.campaign_id, c.influencer_id, p.user_id AS influencer_user_id,
		       c.views, c.earning, c.status,
		       k.price_per_1000_views, k.max_cpm
		FROM contents c
		JOIN campaigns k ON k.id = c.campaign_id
		JOIN influencer_profiles p ON p.id = c.influencer_id
		WHERE c.id = $1
		FOR UPDATE OF c
	`, contentID)
	return row, err
}

func (s *ContentStore) TransitionStatus(ctx context.Context, tx Execer, contentID string, from, to models.ContentStatus) (int64, error) {
	return rowsAffected(tx.ExecContext(ctx, `
		UPDATE contents
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, contentID, from))
}

func (s *ContentStore) ListByInfluencer(ctx context.Context, influencerID string) ([]ContentListing, error) {
	rows := []ContentListing{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+contentColumns+`,
		       k.title AS campaign_title, p.display_name AS influencer_name,
		       k.price_per_1000_views, k.max_cpm
		FROM contents c
		JOIN campaigns k ON k.id = c.campaign_id
		JOIN influencer_profiles p ON p.id = c.influencer_id
		WHERE c.influencer_id = $1
		ORDER BY c.created_at DESC
	`, influencerID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ContentStore) ListByStatus(ctx context.Context, status models.ContentStatus, limit, offset int) ([]ContentListing, error) {
	limit, offset = clampPage(limit, offset)
	rows := []ContentListing{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+contentColumns+`,
		       k.title AS campaign_title, p.display_name AS influencer_name,
		       k.price_per_1000_views, k.max_cpm
		FROM contents c
		JOIN campaigns k ON k.id = c.campaign_id
		JOIN influencer_profiles p ON p.id = c.influencer_id
		WHERE c.status = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PendingEarnings sums the stored earning of the influencer's submissions
// still awaiting review.
func (s *ContentStore) PendingEarnings(ctx context.Context, influencerUserID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(c.earning), 0)
		FROM contents c
		JOIN influencer_profiles p ON p.id = c.influencer_id
		WHERE p.user_id = $1 AND c.status = 'PENDING'
	`, influencerUserID)
	return sum, err
}
