package services

import (
	"context"
	"strings"
	"time"

	"infco/internal/db"
	"infco/internal/models"
	"infco/internal/pricing"
	"infco/internal/store"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const slugAttempts = 5

type CampaignService struct {
	txRunner         db.TxRunner
	campaignStore    CampaignStore
	applicationStore ApplicationStore
	contentStore     SubmissionContentStore
	profileStore     ProfileReader
	auditStore       AuditStore
	calculator       pricing.Calculator
}

type CampaignStore interface {
	Create(ctx context.Context, tx store.Execer, c models.Campaign) error
	GetByID(ctx context.Context, campaignID string) (models.Campaign, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	TransitionStatus(ctx context.Context, tx store.Execer, campaignID string, from, to models.CampaignStatus) (int64, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, tx store.Execer, a models.CampaignApplication) error
	Exists(ctx context.Context, campaignID, influencerID string) (bool, error)
	GetByID(ctx context.Context, applicationID string) (models.CampaignApplication, error)
}

type SubmissionContentStore interface {
	Create(ctx context.Context, tx store.Execer, c models.Content) error
	HasLive(ctx context.Context, q store.Getter, campaignID, influencerID string) (bool, error)
}

type ProfileReader interface {
	GetInfluencerByUser(ctx context.Context, userID string) (models.InfluencerProfile, error)
	GetBrandByUser(ctx context.Context, userID string) (models.BrandProfile, error)
}

func NewCampaignService(txRunner db.TxRunner, campaignStore CampaignStore, applicationStore ApplicationStore, contentStore SubmissionContentStore, profileStore ProfileReader, auditStore AuditStore, calculator pricing.Calculator) *CampaignService {
	return &CampaignService{
		txRunner:         txRunner,
		campaignStore:    campaignStore,
		applicationStore: applicationStore,
		contentStore:     contentStore,
		profileStore:     profileStore,
		auditStore:       auditStore,
		calculator:       calculator,
	}
}

type CampaignInput struct {
	Title             string
	Description       string
	Platform          string
	TotalPool         decimal.Decimal
	PricePer1000Views decimal.Decimal
	MaxCpm            decimal.Decimal
	ImageURL          string
	StartDate         *time.Time
	EndDate           *time.Time
}

// CreateCampaign files a campaign for admin review under the brand owned by
// userID.
func (s *CampaignService) CreateCampaign(ctx context.Context, userID string, in CampaignInput) (models.Campaign, error) {
	if strings.TrimSpace(in.Title) == "" || !in.TotalPool.IsPositive() || !in.PricePer1000Views.IsPositive() || in.MaxCpm.IsNegative() {
		return models.Campaign{}, ErrInvalidCampaign
	}
	if in.StartDate != nil && in.EndDate != nil && !in.StartDate.Before(*in.EndDate) {
		return models.Campaign{}, ErrInvalidCampaign
	}
	brand, err := s.profileStore.GetBrandByUser(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return models.Campaign{}, ErrProfileNotFound
		}
		return models.Campaign{}, err
	}
	campaignSlug, err := s.uniqueSlug(ctx, in.Title)
	if err != nil {
		return models.Campaign{}, err
	}
	campaign := models.Campaign{
		ID:                uuid.NewString(),
		BrandID:           brand.ID,
		Title:             strings.TrimSpace(in.Title),
		Slug:              campaignSlug,
		Description:       in.Description,
		Platform:          in.Platform,
		TotalPool:         in.TotalPool,
		PricePer1000Views: in.PricePer1000Views,
		MaxCpm:            in.MaxCpm,
		ImageURL:          in.ImageURL,
		Status:            models.CampaignPendingReview,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		CreatedAt:         time.Now().UTC(),
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.campaignStore.Create(ctx, tx, campaign); err != nil {
			if db.IsUniqueViolation(err, "campaigns_slug_key") {
				return ErrSlugTaken
			}
			return err
		}
		return s.auditStore.Log(ctx, tx, userID, "campaign.create", "campaign", campaign.ID, map[string]string{
			"slug": campaign.Slug,
		})
	})
	if err != nil {
		return models.Campaign{}, err
	}
	return campaign, nil
}

func (s *CampaignService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "campaign"
	}
	candidate := base
	for i := 0; i < slugAttempts; i++ {
		exists, err := s.campaignStore.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + uuid.NewString()[:8]
	}
	return "", ErrSlugTaken
}

// ReviewCampaign moves a PENDING_REVIEW campaign to ACTIVE or REJECTED.
func (s *CampaignService) ReviewCampaign(ctx context.Context, actorID, campaignID string, approve bool) error {
	to := models.CampaignRejected
	action := "campaign.reject"
	if approve {
		to = models.CampaignActive
		action = "campaign.approve"
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.campaignStore.TransitionStatus(ctx, tx, campaignID, models.CampaignPendingReview, to)
		if err != nil {
			return err
		}
		if affected == 0 {
			if _, err := s.campaignStore.GetByID(ctx, campaignID); err != nil {
				if store.IsNotFound(err) {
					return ErrCampaignNotFound
				}
				return err
			}
			return ErrCampaignNotPending
		}
		return s.auditStore.Log(ctx, tx, actorID, action, "campaign", campaignID, nil)
	})
}

// Apply records an approved application for the influencer owned by userID.
func (s *CampaignService) Apply(ctx context.Context, userID, campaignID string) (models.CampaignApplication, error) {
	profile, err := s.influencerProfile(ctx, userID)
	if err != nil {
		return models.CampaignApplication{}, err
	}
	if !profile.Complete() {
		return models.CampaignApplication{}, ErrProfileIncomplete
	}
	campaign, err := s.campaign(ctx, campaignID)
	if err != nil {
		return models.CampaignApplication{}, err
	}
	if campaign.Status != models.CampaignActive {
		return models.CampaignApplication{}, ErrCampaignNotActive
	}
	exists, err := s.applicationStore.Exists(ctx, campaign.ID, profile.ID)
	if err != nil {
		return models.CampaignApplication{}, err
	}
	if exists {
		return models.CampaignApplication{}, ErrApplicationExists
	}

	application := models.CampaignApplication{
		ID:           uuid.NewString(),
		CampaignID:   campaign.ID,
		InfluencerID: profile.ID,
		Status:       models.ApplicationApproved,
		CreatedAt:    time.Now().UTC(),
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.applicationStore.Create(ctx, tx, application); err != nil {
			if db.IsUniqueViolation(err, "") {
				return ErrApplicationExists
			}
			return err
		}
		return s.auditStore.Log(ctx, tx, userID, "application.create", "campaign_application", application.ID, map[string]string{
			"campaign_id": campaign.ID,
		})
	})
	if err != nil {
		return models.CampaignApplication{}, err
	}
	return application, nil
}

type ContentInput struct {
	CampaignID    string
	ApplicationID *string
	Platform      string
	URL           string
	Views         *int64
	Likes         *int64
	Comments      *int64
	Shares        *int64
	Followers     *int64
	PostedAt      *time.Time
}

type SubmissionResult struct {
	Content  models.Content
	Earning  decimal.Decimal
	Estimate decimal.Decimal
}

// SubmitContent stores a PENDING submission with its computed earning. Only
// one non-rejected submission may exist per campaign and influencer.
func (s *CampaignService) SubmitContent(ctx context.Context, userID string, in ContentInput) (SubmissionResult, error) {
	for _, metric := range []*int64{in.Views, in.Likes, in.Comments, in.Shares, in.Followers} {
		if metric != nil && *metric < 0 {
			return SubmissionResult{}, ErrInvalidAmount
		}
	}
	profile, err := s.influencerProfile(ctx, userID)
	if err != nil {
		return SubmissionResult{}, err
	}
	campaign, err := s.campaign(ctx, in.CampaignID)
	if err != nil {
		return SubmissionResult{}, err
	}
	if in.ApplicationID != nil {
		application, err := s.applicationStore.GetByID(ctx, *in.ApplicationID)
		if err != nil {
			if store.IsNotFound(err) {
				return SubmissionResult{}, ErrApplicationInvalid
			}
			return SubmissionResult{}, err
		}
		if application.CampaignID != campaign.ID || application.InfluencerID != profile.ID {
			return SubmissionResult{}, ErrApplicationInvalid
		}
	}

	earning := s.calculator.Payout(in.Views, campaign.PricePer1000Views, campaign.MaxCpm)
	content := models.Content{
		ID:            uuid.NewString(),
		CampaignID:    campaign.ID,
		InfluencerID:  profile.ID,
		ApplicationID: in.ApplicationID,
		Platform:      in.Platform,
		URL:           in.URL,
		Views:         in.Views,
		Likes:         in.Likes,
		Comments:      in.Comments,
		Shares:        in.Shares,
		Followers:     in.Followers,
		Earning:       &earning,
		Status:        models.ContentPending,
		PostedAt:      in.PostedAt,
		CreatedAt:     time.Now().UTC(),
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		live, err := s.contentStore.HasLive(ctx, tx, campaign.ID, profile.ID)
		if err != nil {
			return err
		}
		if live {
			return ErrContentExists
		}
		if err := s.contentStore.Create(ctx, tx, content); err != nil {
			if db.IsUniqueViolation(err, "contents_live_per_influencer_idx") {
				return ErrContentExists
			}
			return err
		}
		return s.auditStore.Log(ctx, tx, userID, "content.submit", "content", content.ID, map[string]string{
			"campaign_id": campaign.ID,
		})
	})
	if err != nil {
		return SubmissionResult{}, err
	}
	return SubmissionResult{
		Content:  content,
		Earning:  earning,
		Estimate: s.calculator.Estimate(in.Views, campaign.PricePer1000Views, campaign.MaxCpm),
	}, nil
}

func (s *CampaignService) influencerProfile(ctx context.Context, userID string) (models.InfluencerProfile, error) {
	profile, err := s.profileStore.GetInfluencerByUser(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return models.InfluencerProfile{}, ErrProfileNotFound
		}
		return models.InfluencerProfile{}, err
	}
	return profile, nil
}

func (s *CampaignService) campaign(ctx context.Context, campaignID string) (models.Campaign, error) {
	campaign, err := s.campaignStore.GetByID(ctx, campaignID)
	if err != nil {
		if store.IsNotFound(err) {
			return models.Campaign{}, ErrCampaignNotFound
		}
		return models.Campaign{}, err
	}
	return campaign, nil
}
