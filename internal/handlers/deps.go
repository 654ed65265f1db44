package handlers

import (
	"context"

	"infco/internal/auth"
	"infco/internal/models"
	"infco/internal/services"
	"infco/internal/store"

	"github.com/shopspring/decimal"
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
	GetPrincipal(ctx context.Context, userID string) (auth.Principal, error)
	ListByStatus(ctx context.Context, status models.UserStatus, limit, offset int) ([]models.User, error)
}

type ProfileStore interface {
	GetInfluencerByUser(ctx context.Context, userID string) (models.InfluencerProfile, error)
	GetBrandByUser(ctx context.Context, userID string) (models.BrandProfile, error)
}

type CampaignStore interface {
	GetBySlug(ctx context.Context, slug string) (models.Campaign, error)
	ListByStatus(ctx context.Context, status models.CampaignStatus, limit, offset int) ([]models.Campaign, error)
	ListByBrand(ctx context.Context, brandID string) ([]models.Campaign, error)
}

type ApplicationStore interface {
	ListByInfluencer(ctx context.Context, influencerID string) ([]store.ApplicationWithCampaign, error)
}

type ContentStore interface {
	ListByInfluencer(ctx context.Context, influencerID string) ([]store.ContentListing, error)
	ListByStatus(ctx context.Context, status models.ContentStatus, limit, offset int) ([]store.ContentListing, error)
	PendingEarnings(ctx context.Context, influencerUserID string) (decimal.Decimal, error)
}

type WalletStore interface {
	GetByUser(ctx context.Context, userID string) (models.Wallet, error)
}

type LedgerStore interface {
	ListByWallet(ctx context.Context, walletID string, limit int) ([]models.WalletTransaction, error)
}

type AuditStore interface {
	List(ctx context.Context, limit, offset int) ([]store.AuditEntry, error)
}

type AccountService interface {
	Register(ctx context.Context, req services.RegisterRequest) (models.User, error)
	Login(ctx context.Context, email, password string, role models.Role) (models.User, error)
	ReviewUser(ctx context.Context, actorID, userID string, approve bool) error
	UpdateProfile(ctx context.Context, userID string, profile models.InfluencerProfile) (models.InfluencerProfile, error)
}

type CampaignService interface {
	CreateCampaign(ctx context.Context, userID string, in services.CampaignInput) (models.Campaign, error)
	ReviewCampaign(ctx context.Context, actorID, campaignID string, approve bool) error
	Apply(ctx context.Context, userID, campaignID string) (models.CampaignApplication, error)
	SubmitContent(ctx context.Context, userID string, in services.ContentInput) (services.SubmissionResult, error)
}

type WalletService interface {
	ApproveContent(ctx context.Context, actorID, contentID string) (services.ApprovalResult, error)
	RejectContent(ctx context.Context, actorID, contentID string) error
	Withdraw(ctx context.Context, req services.WithdrawRequest) (services.WithdrawalResult, error)
	ReconcileWallet(ctx context.Context, actorID, walletID string) (services.ReconcileResult, error)
	ReconcileReport(ctx context.Context) ([]store.WalletReconciliation, error)
}

type Stores struct {
	Users        UserStore
	Profiles     ProfileStore
	Campaigns    CampaignStore
	Applications ApplicationStore
	Contents     ContentStore
	Wallets      WalletStore
	Ledger       LedgerStore
	Audit        AuditStore
}

type Services struct {
	Accounts  AccountService
	Campaigns CampaignService
	Wallets   WalletService
}
