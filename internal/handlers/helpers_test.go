package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"infco/internal/auth"
	"infco/internal/config"
	"infco/internal/models"
	"infco/internal/services"
	"infco/internal/store"
	"infco/internal/websocket"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const testSecret = "secret"

type stubUserStore struct {
	principals   map[string]auth.Principal
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
	listByStatus func(ctx context.Context, status models.UserStatus, limit, offset int) ([]models.User, error)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, sql.ErrNoRows
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetPrincipal(_ context.Context, userID string) (auth.Principal, error) {
	principal, ok := s.principals[userID]
	if !ok {
		return auth.Principal{}, sql.ErrNoRows
	}
	return principal, nil
}

func (s stubUserStore) ListByStatus(ctx context.Context, status models.UserStatus, limit, offset int) ([]models.User, error) {
	if s.listByStatus == nil {
		return nil, nil
	}
	return s.listByStatus(ctx, status, limit, offset)
}

type stubProfileStore struct {
	influencerFn func(ctx context.Context, userID string) (models.InfluencerProfile, error)
	brandFn      func(ctx context.Context, userID string) (models.BrandProfile, error)
}

func (s stubProfileStore) GetInfluencerByUser(ctx context.Context, userID string) (models.InfluencerProfile, error) {
	if s.influencerFn == nil {
		return models.InfluencerProfile{}, sql.ErrNoRows
	}
	return s.influencerFn(ctx, userID)
}

func (s stubProfileStore) GetBrandByUser(ctx context.Context, userID string) (models.BrandProfile, error) {
	if s.brandFn == nil {
		return models.BrandProfile{}, sql.ErrNoRows
	}
	return s.brandFn(ctx, userID)
}

type stubCampaignStore struct {
	getBySlugFn    func(ctx context.Context, slug string) (models.Campaign, error)
	listByStatusFn func(ctx context.Context, status models.CampaignStatus, limit, offset int) ([]models.Campaign, error)
	listByBrandFn  func(ctx context.Context, brandID string) ([]models.Campaign, error)
}

func (s stubCampaignStore) GetBySlug(ctx context.Context, slug string) (models.Campaign, error) {
	if s.getBySlugFn == nil {
		return models.Campaign{}, sql.ErrNoRows
	}
	return s.getBySlugFn(ctx, slug)
}

func (s stubCampaignStore) ListByStatus(ctx context.Context, status models.CampaignStatus, limit, offset int) ([]models.Campaign, error) {
	if s.listByStatusFn == nil {
		return nil, nil
	}
	return s.listByStatusFn(ctx, status, limit, offset)
}

func (s stubCampaignStore) ListByBrand(ctx context.Context, brandID string) ([]models.Campaign, error) {
	if s.listByBrandFn == nil {
		return nil, nil
	}
	return s.listByBrandFn(ctx, brandID)
}

type stubApplicationStore struct {
	listFn func(ctx context.Context, influencerID string) ([]store.ApplicationWithCampaign, error)
}

func (s stubApplicationStore) ListByInfluencer(ctx context.Context, influencerID string) ([]store.ApplicationWithCampaign, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, influencerID)
}

type stubContentStore struct {
	listByInfluencerFn func(ctx context.Context, influencerID string) ([]store.ContentListing, error)
	listByStatusFn     func(ctx context.Context, status models.ContentStatus, limit, offset int) ([]store.ContentListing, error)
	pendingEarnings    decimal.Decimal
}

func (s stubContentStore) ListByInfluencer(ctx context.Context, influencerID string) ([]store.ContentListing, error) {
	if s.listByInfluencerFn == nil {
		return nil, nil
	}
	return s.listByInfluencerFn(ctx, influencerID)
}

func (s stubContentStore) ListByStatus(ctx context.Context, status models.ContentStatus, limit, offset int) ([]store.ContentListing, error) {
	if s.listByStatusFn == nil {
		return nil, nil
	}
	return s.listByStatusFn(ctx, status, limit, offset)
}

func (s stubContentStore) PendingEarnings(context.Context, string) (decimal.Decimal, error) {
	return s.pendingEarnings, nil
}

type stubWalletStore struct {
	getByUserFn func(ctx context.Context, userID string) (models.Wallet, error)
}

func (s stubWalletStore) GetByUser(ctx context.Context, userID string) (models.Wallet, error) {
	if s.getByUserFn == nil {
		return models.Wallet{}, sql.ErrNoRows
	}
	return s.getByUserFn(ctx, userID)
}

type stubLedgerStore struct {
	listFn func(ctx context.Context, walletID string, limit int) ([]models.WalletTransaction, error)
}

func (s stubLedgerStore) ListByWallet(ctx context.Context, walletID string, limit int) ([]models.WalletTransaction, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, walletID, limit)
}

type stubAuditStore struct {
	listFn func(ctx context.Context, limit, offset int) ([]store.AuditEntry, error)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]store.AuditEntry, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubAccountService struct {
	registerFn      func(ctx context.Context, req services.RegisterRequest) (models.User, error)
	loginFn         func(ctx context.Context, email, password string, role models.Role) (models.User, error)
	reviewUserFn    func(ctx context.Context, actorID, userID string, approve bool) error
	updateProfileFn func(ctx context.Context, userID string, profile models.InfluencerProfile) (models.InfluencerProfile, error)
}

func (s stubAccountService) Register(ctx context.Context, req services.RegisterRequest) (models.User, error) {
	if s.registerFn == nil {
		return models.User{}, nil
	}
	return s.registerFn(ctx, req)
}

func (s stubAccountService) Login(ctx context.Context, email, password string, role models.Role) (models.User, error) {
	if s.loginFn == nil {
		return models.User{}, services.ErrInvalidCredentials
	}
	return s.loginFn(ctx, email, password, role)
}

func (s stubAccountService) ReviewUser(ctx context.Context, actorID, userID string, approve bool) error {
	if s.reviewUserFn == nil {
		return nil
	}
	return s.reviewUserFn(ctx, actorID, userID, approve)
}

func (s stubAccountService) UpdateProfile(ctx context.Context, userID string, profile models.InfluencerProfile) (models.InfluencerProfile, error) {
	if s.updateProfileFn == nil {
		return profile, nil
	}
	return s.updateProfileFn(ctx, userID, profile)
}

type stubCampaignService struct {
	createFn func(ctx context.Context, userID string, in services.CampaignInput) (models.Campaign, error)
	reviewFn func(ctx context.Context, actorID, campaignID string, approve bool) error
	applyFn  func(ctx context.Context, userID, campaignID string) (models.CampaignApplication, error)
	submitFn func(ctx context.Context, userID string, in services.ContentInput) (services.SubmissionResult, error)
}

func (s stubCampaignService) CreateCampaign(ctx context.Context, userID string, in services.CampaignInput) (models.Campaign, error) {
	if s.createFn == nil {
		return models.Campaign{}, nil
	}
	return s.createFn(ctx, userID, in)
}

func (s stubCampaignService) ReviewCampaign(ctx context.Context, actorID, campaignID string, approve bool) error {
	if s.reviewFn == nil {
		return nil
	}
	return s.reviewFn(ctx, actorID, campaignID, approve)
}

func (s stubCampaignService) Apply(ctx context.Context, userID, campaignID string) (models.CampaignApplication, error) {
	if s.applyFn == nil {
		return models.CampaignApplication{}, nil
	}
	return s.applyFn(ctx, userID, campaignID)
}

func (s stubCampaignService) SubmitContent(ctx context.Context, userID string, in services.ContentInput) (services.SubmissionResult, error) {
	if s.submitFn == nil {
		return services.SubmissionResult{}, nil
	}
	return s.submitFn(ctx, userID, in)
}

type stubWalletService struct {
	approveFn   func(ctx context.Context, actorID, contentID string) (services.ApprovalResult, error)
	rejectFn    func(ctx context.Context, actorID, contentID string) error
	withdrawFn  func(ctx context.Context, req services.WithdrawRequest) (services.WithdrawalResult, error)
	reconcileFn func(ctx context.Context, actorID, walletID string) (services.ReconcileResult, error)
	reportFn    func(ctx context.Context) ([]store.WalletReconciliation, error)
}

func (s stubWalletService) ApproveContent(ctx context.Context, actorID, contentID string) (services.ApprovalResult, error) {
	if s.approveFn == nil {
		return services.ApprovalResult{}, nil
	}
	return s.approveFn(ctx, actorID, contentID)
}

func (s stubWalletService) RejectContent(ctx context.Context, actorID, contentID string) error {
	if s.rejectFn == nil {
		return nil
	}
	return s.rejectFn(ctx, actorID, contentID)
}

func (s stubWalletService) Withdraw(ctx context.Context, req services.WithdrawRequest) (services.WithdrawalResult, error) {
	if s.withdrawFn == nil {
		return services.WithdrawalResult{}, nil
	}
	return s.withdrawFn(ctx, req)
}

func (s stubWalletService) ReconcileWallet(ctx context.Context, actorID, walletID string) (services.ReconcileResult, error) {
	if s.reconcileFn == nil {
		return services.ReconcileResult{}, nil
	}
	return s.reconcileFn(ctx, actorID, walletID)
}

func (s stubWalletService) ReconcileReport(ctx context.Context) ([]store.WalletReconciliation, error) {
	if s.reportFn == nil {
		return nil, nil
	}
	return s.reportFn(ctx)
}

// Seeded principals: one approved account per role plus a pending influencer.
var testPrincipals = map[string]auth.Principal{
	"admin-1":      {UserID: "admin-1", Role: models.RoleAdmin, Status: models.UserApproved},
	"brand-1":      {UserID: "brand-1", Role: models.RoleBrand, Status: models.UserApproved},
	"influencer-1": {UserID: "influencer-1", Role: models.RoleInfluencer, Status: models.UserApproved},
	"pending-1":    {UserID: "pending-1", Role: models.RoleInfluencer, Status: models.UserPending},
}

func testStores() Stores {
	return Stores{
		Users:        stubUserStore{principals: testPrincipals},
		Profiles:     stubProfileStore{},
		Campaigns:    stubCampaignStore{},
		Applications: stubApplicationStore{},
		Contents:     stubContentStore{},
		Wallets:      stubWalletStore{},
		Ledger:       stubLedgerStore{},
		Audit:        stubAuditStore{},
	}
}

func testServices() Services {
	return Services{
		Accounts:  stubAccountService{},
		Campaigns: stubCampaignService{},
		Wallets:   stubWalletService{},
	}
}

func newTestHandler(stores Stores, svcs Services) *Handler {
	cfg := config.Config{
		AppEnv:            "test",
		Port:              "0",
		JWTSecret:         testSecret,
		TokenTTL:          time.Minute,
		AllowedOrigins:    "https://app.infco.io",
		SessionCookieName: "infco_session",
	}
	return New(cfg, stores, svcs, websocket.NewHub(), zap.NewNop())
}

// serve routes a request through the full router. A non-empty userID is
// sent as a bearer token carrying that principal's role.
func serve(t *testing.T, h *Handler, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, err := auth.GenerateToken(testSecret, userID, testPrincipals[userID].Role, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode body %q: %v", rr.Body.String(), err)
	}
	return payload
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
	if got := decodeBody(t, rr)["error"]; got != code {
		t.Fatalf("expected error %q, got %v", code, got)
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
