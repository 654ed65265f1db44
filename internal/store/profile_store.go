package store

import (
	"context"

	"infco/internal/models"
)

type ProfileStore struct {
	db DB
}

func NewProfileStore(db DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const influencerColumns = `id, user_id, display_name, bio, category, country, city, gender, age_range,
	follower_count, instagram_followers, instagram_url, tiktok_followers, tiktok_url,
	youtube_followers, youtube_url, created_at, updated_at`

func (s *ProfileStore) CreateInfluencer(ctx context.Context, tx Execer, p models.InfluencerProfile) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO influencer_profiles (
			id, user_id, display_name, bio, category, country, city, gender, age_range,
			follower_count, instagram_followers, instagram_url, tiktok_followers, tiktok_url,
			youtube_followers, youtube_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, p.ID, p.UserID, p.DisplayName, p.Bio, p.Category, p.Country, p.City, p.Gender, p.AgeRange,
		p.FollowerCount, p.InstagramFollowers, p.InstagramURL, p.TiktokFollowers, p.TiktokURL,
		p.YoutubeFollowers, p.YoutubeURL)
	return err
}

func (s *ProfileStore) GetInfluencerByUser(ctx context.Context, userID string) (models.InfluencerProfile, error) {
	var row models.InfluencerProfile
	err := s.db.GetContext(ctx, &row, `SELECT `+influencerColumns+` FROM influencer_profiles WHERE user_id = $1`, userID)
	return row, err
}

// UpdateInfluencer overwrites the editable fields of the profile owned by
// p.UserID.
func (s *ProfileStore) UpdateInfluencer(ctx context.Context, tx Execer, p models.InfluencerProfile) (int64, error) {
	return rowsAffected(tx.ExecContext(ctx, `
		UPDATE influencer_profiles
		SET display_name = $2, bio = $3, category = $4, country = $5, city = $6, gender = $7,
		    age_range = $8, follower_count = $9, instagram_followers = $10, instagram_url = $11,
		    tiktok_followers = $12, tiktok_url = $13, youtube_followers = $14, youtube_url = $15,
		    updated_at = NOW()
		WHERE user_id = $1
	`, p.UserID, p.DisplayName, p.Bio, p.Category, p.Country, p.City, p.Gender, p.AgeRange,
		p.FollowerCount, p.InstagramFollowers, p.InstagramURL, p.TiktokFollowers, p.TiktokURL,
		p.YoutubeFollowers, p.YoutubeURL))
}

func (s *ProfileStore) CreateBrand(ctx context.Context, tx Execer, p models.BrandProfile) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO brand_profiles (id, user_id, company_name, website, description)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.UserID, p.CompanyName, p.Website, p.Description)
	return err
}

func (s *ProfileStore) GetBrandByUser(ctx context.Context, userID string) (models.BrandProfile, error) {
	var row models.BrandProfile
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, company_name, website, description, created_at
		FROM brand_profiles
		WHERE user_id = $1
	`, userID)
	return row, err
}
