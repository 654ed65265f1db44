package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleInfluencer Role = "INFLUENCER"
	RoleBrand      Role = "BRAND"
	RoleAdmin      Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleInfluencer, RoleBrand, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserPending  UserStatus = "PENDING"
	UserApproved UserStatus = "APPROVED"
	UserRejected UserStatus = "REJECTED"
)

type CampaignStatus string

const (
	CampaignDraft         CampaignStatus = "DRAFT"
	CampaignPendingReview CampaignStatus = "PENDING_REVIEW"
	CampaignActive        CampaignStatus = "ACTIVE"
	CampaignRejected      CampaignStatus = "REJECTED"
	CampaignCompleted     CampaignStatus = "COMPLETED"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

type ContentStatus string

const (
	ContentPending  ContentStatus = "PENDING"
	ContentApproved ContentStatus = "APPROVED"
	ContentRejected ContentStatus = "REJECTED"
)

type TransactionType string

const (
	TransactionEarning    TransactionType = "EARNING"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
)

type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	Status       UserStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type InfluencerProfile struct {
	ID                 string    `db:"id" json:"id"`
	UserID             string    `db:"user_id" json:"user_id"`
	DisplayName        string    `db:"display_name" json:"display_name"`
	Bio                string    `db:"bio" json:"bio"`
	Category           string    `db:"category" json:"category"`
	Country            string    `db:"country" json:"country"`
	City               string    `db:"city" json:"city"`
	Gender             string    `db:"gender" json:"gender"`
	AgeRange           string    `db:"age_range" json:"age_range"`
	FollowerCount      int64     `db:"follower_count" json:"follower_count"`
	InstagramFollowers int64     `db:"instagram_followers" json:"instagram_followers"`
	InstagramURL       string    `db:"instagram_url" json:"instagram_url"`
	TiktokFollowers    int64     `db:"tiktok_followers" json:"tiktok_followers"`
	TiktokURL          string    `db:"tiktok_url" json:"tiktok_url"`
	YoutubeFollowers   int64     `db:"youtube_followers" json:"youtube_followers"`
	YoutubeURL         string    `db:"youtube_url" json:"youtube_url"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// Complete reports whether the profile carries the basics brands filter on
// and at least one platform audience.
func (p InfluencerProfile) Complete() bool {
	if p.DisplayName == "" || p.Category == "" || p.Country == "" || p.FollowerCount <= 0 {
		return false
	}
	return p.InstagramFollowers > 0 || p.TiktokFollowers > 0 || p.YoutubeFollowers > 0
}

type BrandProfile struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	CompanyName string    `db:"company_name" json:"company_name"`
	Website     string    `db:"website" json:"website"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Campaign struct {
	ID                string          `db:"id" json:"id"`
	BrandID           string          `db:"brand_id" json:"brand_id"`
	Title             string          `db:"title" json:"title"`
	Slug              string          `db:"slug" json:"slug"`
	Description       string          `db:"description" json:"description"`
	Platform          string          `db:"platform" json:"platform"`
	TotalPool         decimal.Decimal `db:"total_pool" json:"total_pool"`
	PricePer1000Views decimal.Decimal `db:"price_per_1000_views" json:"price_per_1000_views"`
	MaxCpm            decimal.Decimal `db:"max_cpm" json:"max_cpm"`
	ImageURL          string          `db:"image_url" json:"image_url"`
	Status            CampaignStatus  `db:"status" json:"status"`
	StartDate         *time.Time      `db:"start_date" json:"start_date,omitempty"`
	EndDate           *time.Time      `db:"end_date" json:"end_date,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}

type CampaignApplication struct {
	ID           string            `db:"id" json:"id"`
	CampaignID   string            `db:"campaign_id" json:"campaign_id"`
	InfluencerID string            `db:"influencer_id" json:"influencer_id"`
	Status       ApplicationStatus `db:"status" json:"status"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
}

type Content struct {
	ID            string           `db:"id" json:"id"`
	CampaignID    string           `db:"campaign_id" json:"campaign_id"`
	InfluencerID  string           `db:"influencer_id" json:"influencer_id"`
	ApplicationID *string          `db:"application_id" json:"application_id,omitempty"`
	Platform      string           `db:"platform" json:"platform"`
	URL           string           `db:"url" json:"url"`
	Views         *int64           `db:"views" json:"views"`
	Likes         *int64           `db:"likes" json:"likes"`
	Comments      *int64           `db:"comments" json:"comments"`
	Shares        *int64           `db:"shares" json:"shares"`
	Followers     *int64           `db:"followers" json:"followers"`
	Earning       *decimal.Decimal `db:"earning" json:"earning"`
	Status        ContentStatus    `db:"status" json:"status"`
	PostedAt      *time.Time       `db:"posted_at" json:"posted_at,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
}

type Wallet struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

type WalletTransaction struct {
	ID                string          `db:"id" json:"id"`
	WalletID          string          `db:"wallet_id" json:"wallet_id"`
	Type              TransactionType `db:"type" json:"type"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
	RelatedCampaignID *string         `db:"related_campaign_id" json:"related_campaign_id,omitempty"`
	RelatedContentID  *string         `db:"related_content_id" json:"related_content_id,omitempty"`
	ClientRequestID   *string         `db:"client_request_id" json:"client_request_id,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}
