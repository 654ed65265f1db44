package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"infco/internal/models"
	"infco/internal/store"
	"infco/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubReviewContentStore struct {
	getForReviewFn func(ctx context.Context, contentID string) (store.ContentForReview, error)
	transitionFn   func(ctx context.Context, contentID string, from, to models.ContentStatus) (int64, error)
}

func (s stubReviewContentStore) GetForReview(ctx context.Context, _ store.Getter, contentID string) (store.ContentForReview, error) {
	if s.getForReviewFn == nil {
		return store.ContentForReview{}, sql.ErrNoRows
	}
	return s.getForReviewFn(ctx, contentID)
}

func (s stubReviewContentStore) TransitionStatus(ctx context.Context, _ store.Execer, contentID string, from, to models.ContentStatus) (int64, error) {
	if s.transitionFn == nil {
		return 1, nil
	}
	return s.transitionFn(ctx, contentID, from, to)
}

// memoryWallets keeps one wallet per user and applies balance changes so
// tests can assert on the state after a sequence of calls.
type memoryWallets struct {
	mu      sync.Mutex
	byUser  map[string]*models.Wallet
	ensured int
}

func newMemoryWallets(wallets ...models.Wallet) *memoryWallets {
	m := &memoryWallets{byUser: make(map[string]*models.Wallet)}
	for i := range wallets {
		w := wallets[i]
		m.byUser[w.UserID] = &w
	}
	return m
}

func (m *memoryWallets) Ensure(_ context.Context, _ store.Execer, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured++
	if _, ok := m.byUser[userID]; !ok {
		m.byUser[userID] = &models.Wallet{ID: id, UserID: userID}
	}
	return nil
}

func (m *memoryWallets) GetForUpdateByUser(_ context.Context, _ store.Getter, userID string) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.byUser[userID]
	if !ok {
		return models.Wallet{}, sql.ErrNoRows
	}
	return *w, nil
}

func (m *memoryWallets) GetForUpdate(_ context.Context, _ store.Getter, walletID string) (models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w := m.find(walletID); w != nil {
		return *w, nil
	}
	return models.Wallet{}, sql.ErrNoRows
}

func (m *memoryWallets) AdjustBalance(_ context.Context, _ store.Getter, walletID string, delta decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.find(walletID)
	if w == nil {
		return decimal.Zero, sql.ErrNoRows
	}
	w.Balance = w.Balance.Add(delta)
	return w.Balance, nil
}

func (m *memoryWallets) SetBalance(_ context.Context, _ store.Execer, walletID string, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w := m.find(walletID); w != nil {
		w.Balance = balance
	}
	return nil
}

func (m *memoryWallets) ListReconciliation(_ context.Context) ([]store.WalletReconciliation, error) {
	return nil, nil
}

func (m *memoryWallets) find(walletID string) *models.Wallet {
	for _, w := range m.byUser {
		if w.ID == walletID {
			return w
		}
	}
	return nil
}

func (m *memoryWallets) balance(userID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.byUser[userID]; ok {
		return w.Balance
	}
	return decimal.Zero
}

type memoryLedger struct {
	mu        sync.Mutex
	entries   []models.WalletTransaction
	appendErr error
}

func (l *memoryLedger) Append(_ context.Context, _ store.Execer, entry store.LedgerEntryInput) error {
	if l.appendErr != nil {
		return l.appendErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, models.WalletTransaction{
		ID:                entry.ID,
		WalletID:          entry.WalletID,
		Type:              entry.Type,
		Amount:            entry.Amount,
		RelatedCampaignID: entry.RelatedCampaignID,
		RelatedContentID:  entry.RelatedContentID,
		ClientRequestID:   entry.ClientRequestID,
	})
	return nil
}

func (l *memoryLedger) ListAllByWallet(_ context.Context, _ store.Selecter, walletID string) ([]models.WalletTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var rows []models.WalletTransaction
	for _, e := range l.entries {
		if e.WalletID == walletID {
			rows = append(rows, e)
		}
	}
	return rows, nil
}

func (l *memoryLedger) GetByClientRequest(_ context.Context, _ store.Getter, walletID, clientRequestID string) (models.WalletTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.WalletID == walletID && e.ClientRequestID != nil && *e.ClientRequestID == clientRequestID {
			return e, nil
		}
	}
	return models.WalletTransaction{}, sql.ErrNoRows
}

type auditRecord struct {
	actorID  string
	action   string
	entityID string
}

type recordingAudit struct {
	mu      sync.Mutex
	records []auditRecord
}

func (a *recordingAudit) Log(_ context.Context, _ store.Execer, actorID, action, _ string, entityID string, _ any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, auditRecord{actorID: actorID, action: action, entityID: entityID})
	return nil
}

type recordingHub struct {
	mu      sync.Mutex
	updates map[string][]websocket.BalanceUpdate
}

func (h *recordingHub) BroadcastBalance(userID string, update websocket.BalanceUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.updates == nil {
		h.updates = make(map[string][]websocket.BalanceUpdate)
	}
	h.updates[userID] = append(h.updates[userID], update)
}

type stubUserStore struct {
	createFn       func(ctx context.Context, input store.UserInput) error
	getByEmailFn   func(ctx context.Context, email string) (models.User, error)
	getByIDFn      func(ctx context.Context, userID string) (models.User, error)
	updateStatusFn func(ctx context.Context, userID string, status models.UserStatus) (int64, error)
}

func (s stubUserStore) Create(ctx context.Context, _ store.Execer, input store.UserInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, input)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, sql.ErrNoRows
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, sql.ErrNoRows
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) UpdateStatus(ctx context.Context, _ store.Execer, userID string, status models.UserStatus) (int64, error) {
	if s.updateStatusFn == nil {
		return 1, nil
	}
	return s.updateStatusFn(ctx, userID, status)
}

type stubProfileStore struct {
	influencer        *models.InfluencerProfile
	brand             *models.BrandProfile
	createdInfluencer []models.InfluencerProfile
	createdBrand      []models.BrandProfile
	updateFn          func(p models.InfluencerProfile) (int64, error)
}

func (s *stubProfileStore) CreateInfluencer(_ context.Context, _ store.Execer, p models.InfluencerProfile) error {
	s.createdInfluencer = append(s.createdInfluencer, p)
	return nil
}

func (s *stubProfileStore) CreateBrand(_ context.Context, _ store.Execer, p models.BrandProfile) error {
	s.createdBrand = append(s.createdBrand, p)
	return nil
}

func (s *stubProfileStore) GetInfluencerByUser(_ context.Context, _ string) (models.InfluencerProfile, error) {
	if s.influencer == nil {
		return models.InfluencerProfile{}, sql.ErrNoRows
	}
	return *s.influencer, nil
}

func (s *stubProfileStore) GetBrandByUser(_ context.Context, _ string) (models.BrandProfile, error) {
	if s.brand == nil {
		return models.BrandProfile{}, sql.ErrNoRows
	}
	return *s.brand, nil
}

func (s *stubProfileStore) UpdateInfluencer(_ context.Context, _ store.Execer, p models.InfluencerProfile) (int64, error) {
	if s.updateFn != nil {
		return s.updateFn(p)
	}
	if s.influencer == nil {
		return 0, nil
	}
	p.ID = s.influencer.ID
	s.influencer = &p
	return 1, nil
}

type adminList []string

func (a adminList) IsAdminEmail(email string) bool {
	for _, e := range a {
		if e == email {
			return true
		}
	}
	return false
}

type stubCampaignStore struct {
	campaigns    map[string]models.Campaign
	takenSlugs   map[string]bool
	created      []models.Campaign
	createErr    error
	transitionFn func(campaignID string, from, to models.CampaignStatus) (int64, error)
}

func (s *stubCampaignStore) Create(_ context.Context, _ store.Execer, c models.Campaign) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, c)
	return nil
}

func (s *stubCampaignStore) GetByID(_ context.Context, campaignID string) (models.Campaign, error) {
	c, ok := s.campaigns[campaignID]
	if !ok {
		return models.Campaign{}, sql.ErrNoRows
	}
	return c, nil
}

func (s *stubCampaignStore) SlugExists(_ context.Context, slug string) (bool, error) {
	return s.takenSlugs[slug], nil
}

func (s *stubCampaignStore) TransitionStatus(_ context.Context, _ store.Execer, campaignID string, from, to models.CampaignStatus) (int64, error) {
	if s.transitionFn == nil {
		return 1, nil
	}
	return s.transitionFn(campaignID, from, to)
}

type stubApplicationStore struct {
	applications map[string]models.CampaignApplication
	exists       bool
	createErr    error
	created      []models.CampaignApplication
}

func (s *stubApplicationStore) Create(_ context.Context, _ store.Execer, a models.CampaignApplication) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, a)
	return nil
}

func (s *stubApplicationStore) Exists(_ context.Context, _, _ string) (bool, error) {
	return s.exists, nil
}

func (s *stubApplicationStore) GetByID(_ context.Context, applicationID string) (models.CampaignApplication, error) {
	a, ok := s.applications[applicationID]
	if !ok {
		return models.CampaignApplication{}, sql.ErrNoRows
	}
	return a, nil
}

type stubSubmissionStore struct {
	live      bool
	createErr error
	created   []models.Content
}

func (s *stubSubmissionStore) Create(_ context.Context, _ store.Execer, c models.Content) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, c)
	return nil
}

func (s *stubSubmissionStore) HasLive(_ context.Context, _ store.Getter, _, _ string) (bool, error) {
	return s.live, nil
}

func int64Ptr(v int64) *int64 {
	return &v
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

// requireAmount compares decimals by value, so "50" and "50.00" match.
func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "expected %s, got %s", want, got)
}
