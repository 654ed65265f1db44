package handlers

import (
	"time"

	"infco/internal/models"
	"infco/internal/money"
	"infco/internal/pricing"
	"infco/internal/store"

	"github.com/shopspring/decimal"
)

// Money leaves the API as decimal strings with at least two places, e.g.
// "50.00" or "0.005".

type campaignView struct {
	ID                string                `json:"id"`
	BrandID           string                `json:"brand_id"`
	Title             string                `json:"title"`
	Slug              string                `json:"slug"`
	Description       string                `json:"description"`
	Platform          string                `json:"platform"`
	TotalPool         string                `json:"total_pool"`
	PricePer1000Views string                `json:"price_per_1000_views"`
	MaxCpm            string                `json:"max_cpm"`
	ImageURL          string                `json:"image_url"`
	Status            models.CampaignStatus `json:"status"`
	StartDate         *time.Time            `json:"start_date,omitempty"`
	EndDate           *time.Time            `json:"end_date,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

func newCampaignView(c models.Campaign) campaignView {
	return campaignView{
		ID:                c.ID,
		BrandID:           c.BrandID,
		Title:             c.Title,
		Slug:              c.Slug,
		Description:       c.Description,
		Platform:          c.Platform,
		TotalPool:         money.Format(c.TotalPool),
		PricePer1000Views: money.Format(c.PricePer1000Views),
		MaxCpm:            money.Format(c.MaxCpm),
		ImageURL:          c.ImageURL,
		Status:            c.Status,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		CreatedAt:         c.CreatedAt,
	}
}

func newCampaignViews(rows []models.Campaign) []campaignView {
	views := make([]campaignView, 0, len(rows))
	for _, c := range rows {
		views = append(views, newCampaignView(c))
	}
	return views
}

type contentView struct {
	ID             string               `json:"id"`
	CampaignID     string               `json:"campaign_id"`
	CampaignTitle  string               `json:"campaign_title,omitempty"`
	InfluencerID   string               `json:"influencer_id"`
	InfluencerName string               `json:"influencer_name,omitempty"`
	ApplicationID  *string              `json:"application_id,omitempty"`
	Platform       string               `json:"platform"`
	URL            string               `json:"url"`
	Views          *int64               `json:"views"`
	Likes          *int64               `json:"likes"`
	Comments       *int64               `json:"comments"`
	Shares         *int64               `json:"shares"`
	Followers      *int64               `json:"followers"`
	EngagementRate *string              `json:"engagement_rate"`
	Earning        string               `json:"earning"`
	Status         models.ContentStatus `json:"status"`
	PostedAt       *time.Time           `json:"posted_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

func newContentView(c models.Content) contentView {
	view := contentView{
		ID:            c.ID,
		CampaignID:    c.CampaignID,
		InfluencerID:  c.InfluencerID,
		ApplicationID: c.ApplicationID,
		Platform:      c.Platform,
		URL:           c.URL,
		Views:         c.Views,
		Likes:         c.Likes,
		Comments:      c.Comments,
		Shares:        c.Shares,
		Followers:     c.Followers,
		Earning:       money.Format(decimal.Zero),
		Status:        c.Status,
		PostedAt:      c.PostedAt,
		CreatedAt:     c.CreatedAt,
	}
	if c.Earning != nil {
		view.Earning = money.Format(*c.Earning)
	}
	if rate, ok := pricing.EngagementRate(c.Likes, c.Comments, c.Shares, c.Views); ok {
		formatted := rate.StringFixed(2)
		view.EngagementRate = &formatted
	}
	return view
}

func newContentListingViews(rows []store.ContentListing) []contentView {
	views := make([]contentView, 0, len(rows))
	for _, row := range rows {
		view := newContentView(row.Content)
		view.CampaignTitle = row.CampaignTitle
		view.InfluencerName = row.InfluencerName
		views = append(views, view)
	}
	return views
}

type applicationView struct {
	ID             string                   `json:"id"`
	CampaignID     string                   `json:"campaign_id"`
	CampaignTitle  string                   `json:"campaign_title,omitempty"`
	CampaignSlug   string                   `json:"campaign_slug,omitempty"`
	CampaignStatus models.CampaignStatus    `json:"campaign_status,omitempty"`
	Status         models.ApplicationStatus `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
}

type transactionView struct {
	ID                string                 `json:"id"`
	Type              models.TransactionType `json:"type"`
	Amount            string                 `json:"amount"`
	RelatedCampaignID *string                `json:"related_campaign_id,omitempty"`
	RelatedContentID  *string                `json:"related_content_id,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
}

func newTransactionViews(rows []models.WalletTransaction) []transactionView {
	views := make([]transactionView, 0, len(rows))
	for _, t := range rows {
		views = append(views, transactionView{
			ID:                t.ID,
			Type:              t.Type,
			Amount:            money.Format(t.Amount),
			RelatedCampaignID: t.RelatedCampaignID,
			RelatedContentID:  t.RelatedContentID,
			CreatedAt:         t.CreatedAt,
		})
	}
	return views
}

type reconciliationView struct {
	WalletID        string  `json:"wallet_id"`
	UserID          string  `json:"user_id"`
	Email           *string `json:"email,omitempty"`
	StoredBalance   string  `json:"stored_balance"`
	ReplayedBalance string  `json:"replayed_balance"`
	Difference      string  `json:"difference"`
}
