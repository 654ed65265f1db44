package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"infco/internal/models"
	"infco/internal/services"
	"infco/internal/store"
)

func TestAdminApproveContentAccess(t *testing.T) {
	called := 0
	svcs := testServices()
	svcs.Wallets = stubWalletService{
		approveFn: func(context.Context, string, string) (services.ApprovalResult, error) {
			called++
			return services.ApprovalResult{}, nil
		},
	}
	h := newTestHandler(testStores(), svcs)

	cases := []struct {
		name   string
		userID string
		status int
		code   string
	}{
		{"anonymous", "", http.StatusUnauthorized, "unauthenticated"},
		{"influencer", "influencer-1", http.StatusForbidden, "forbidden"},
		{"brand", "brand-1", http.StatusForbidden, "forbidden"},
		{"pending account", "pending-1", http.StatusForbidden, "account_not_approved"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(t, h, http.MethodPost, "/api/admin/content/c-1/approve", "", tc.userID)
			expectError(t, rr, tc.status, tc.code)
		})
	}
	if called != 0 {
		t.Fatalf("service must not run for rejected callers, ran %d times", called)
	}
}

func TestAdminApproveContentErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing", services.ErrContentNotFound, http.StatusNotFound, "content_not_found"},
		{"already reviewed", services.ErrContentNotPending, http.StatusBadRequest, "content_not_pending"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svcs := testServices()
			svcs.Wallets = stubWalletService{
				approveFn: func(context.Context, string, string) (services.ApprovalResult, error) {
					return services.ApprovalResult{}, tc.err
				},
			}
			rr := serve(t, newTestHandler(testStores(), svcs), http.MethodPost, "/api/admin/content/c-1/approve", "", "admin-1")
			expectError(t, rr, tc.status, tc.code)
		})
	}
}

func TestAdminApproveContentSuccess(t *testing.T) {
	var gotActor, gotContent string
	svcs := testServices()
	svcs.Wallets = stubWalletService{
		approveFn: func(_ context.Context, actorID, contentID string) (services.ApprovalResult, error) {
			gotActor, gotContent = actorID, contentID
			return services.ApprovalResult{ContentID: contentID, WalletID: "w-1", Earning: dec("0.005"), WalletBalance: dec("125.505")}, nil
		},
	}
	rr := serve(t, newTestHandler(testStores(), svcs), http.MethodPost, "/api/admin/content/c-42/approve", "", "admin-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotActor != "admin-1" || gotContent != "c-42" {
		t.Fatalf("unexpected service args %q %q", gotActor, gotContent)
	}
	body := decodeBody(t, rr)
	if body["content_id"] != "c-42" || body["earning"] != "0.005" || body["wallet_balance"] != "125.505" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAdminRejectContent(t *testing.T) {
	svcs := testServices()
	svcs.Wallets = stubWalletService{
		rejectFn: func(context.Context, string, string) error { return services.ErrContentNotPending },
	}
	rr := serve(t, newTestHandler(testStores(), svcs), http.MethodPost, "/api/admin/content/c-1/reject", "", "admin-1")
	expectError(t, rr, http.StatusBadRequest, "content_not_pending")

	rr = serve(t, newTestHandler(testStores(), testServices()), http.MethodPost, "/api/admin/content/c-1/reject", "", "admin-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := decodeBody(t, rr)["status"]; got != string(models.ContentRejected) {
		t.Fatalf("expected REJECTED, got %v", got)
	}
}

func TestAdminListContentDefaultsToPending(t *testing.T) {
	var gotStatus models.ContentStatus
	stores := testStores()
	stores.Contents = stubContentStore{
		listByStatusFn: func(_ context.Context, status models.ContentStatus, _, _ int) ([]store.ContentListing, error) {
			gotStatus = status
			return []store.ContentListing{{
				Content:        models.Content{ID: "c-1", Views: int64Ptr(200), Likes: int64Ptr(10), Status: status},
				CampaignTitle:  "Launch",
				InfluencerName: "Ana",
			}}, nil
		},
	}
	rr := serve(t, newTestHandler(stores, testServices()), http.MethodGet, "/api/admin/content", "", "admin-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotStatus != models.ContentPending {
		t.Fatalf("expected PENDING filter, got %q", gotStatus)
	}
	items := decodeBody(t, rr)["content"].([]any)
	first := items[0].(map[string]any)
	if first["engagement_rate"] != "5.00" || first["campaign_title"] != "Launch" {
		t.Fatalf("unexpected listing %v", first)
	}
}

func TestAdminReviewUser(t *testing.T) {
	var approved *bool
	svcs := testServices()
	svcs.Accounts = stubAccountService{
		reviewUserFn: func(_ context.Context, _, userID string, approve bool) error {
			if userID == "done" {
				return services.ErrUserNotPending
			}
			approved = &approve
			return nil
		},
	}
	h := newTestHandler(testStores(), svcs)

	rr := serve(t, h, http.MethodPost, "/api/admin/users/u-9/approve", "", "admin-1")
	if rr.Code != http.StatusOK || approved == nil || !*approved {
		t.Fatalf("expected approval, got %d", rr.Code)
	}
	rr = serve(t, h, http.MethodPost, "/api/admin/users/u-9/reject", "", "admin-1")
	if rr.Code != http.StatusOK || *approved {
		t.Fatalf("expected rejection, got %d", rr.Code)
	}
	rr = serve(t, h, http.MethodPost, "/api/admin/users/done/approve", "", "admin-1")
	expectError(t, rr, http.StatusBadRequest, "user_not_pending")
}

func TestAdminReviewCampaign(t *testing.T) {
	svcs := testServices()
	svcs.Campaigns = stubCampaignService{
		reviewFn: func(context.Context, string, string, bool) error { return services.ErrCampaignNotFound },
	}
	rr := serve(t, newTestHandler(testStores(), svcs), http.MethodPost, "/api/admin/campaigns/x/approve", "", "admin-1")
	expectError(t, rr, http.StatusNotFound, "campaign_not_found")

	rr = serve(t, newTestHandler(testStores(), testServices()), http.MethodPost, "/api/admin/campaigns/x/approve", "", "admin-1")
	if got := decodeBody(t, rr)["status"]; got != string(models.CampaignActive) {
		t.Fatalf("expected ACTIVE, got %v", got)
	}
}

func TestReconcileReport(t *testing.T) {
	svcs := testServices()
	svcs.Wallets = stubWalletService{
		reportFn: func(context.Context) ([]store.WalletReconciliation, error) {
			return []store.WalletReconciliation{
				{WalletID: "w-1", UserID: "u-1", StoredBalance: dec("50"), ReplayedBalance: dec("50")},
				{WalletID: "w-2", UserID: "u-2", StoredBalance: dec("70"), ReplayedBalance: dec("50"), Difference: dec("20")},
			}, nil
		},
	}
	rr := serve(t, newTestHandler(testStores(), svcs), http.MethodGet, "/api/admin/reconcile", "", "admin-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["mismatched"] != float64(1) {
		t.Fatalf("expected one mismatch, got %v", body["mismatched"])
	}
	second := body["wallets"].([]any)[1].(map[string]any)
	if second["difference"] != "20.00" || second["replayed_balance"] != "50.00" {
		t.Fatalf("unexpected row %v", second)
	}
}

func TestReconcileWallet(t *testing.T) {
	svcs := testServices()
	svcs.Wallets = stubWalletService{
		reconcileFn: func(_ context.Context, _, walletID string) (services.ReconcileResult, error) {
			if walletID == "missing" {
				return services.ReconcileResult{}, services.ErrWalletNotFound
			}
			return services.ReconcileResult{WalletID: walletID, PreviousBalance: dec("70"), Balance: dec("50"), Entries: 2}, nil
		},
	}
	h := newTestHandler(testStores(), svcs)

	rr := serve(t, h, http.MethodPost, "/api/admin/wallets/missing/reconcile", "", "admin-1")
	expectError(t, rr, http.StatusNotFound, "wallet_not_found")

	rr = serve(t, h, http.MethodPost, "/api/admin/wallets/w-2/reconcile", "", "admin-1")
	body := decodeBody(t, rr)
	if body["previous_balance"] != "70.00" || body["balance"] != "50.00" || body["entries"] != float64(2) {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestListAuditLogs(t *testing.T) {
	var gotLimit int
	stores := testStores()
	stores.Audit = stubAuditStore{
		listFn: func(_ context.Context, limit, _ int) ([]store.AuditEntry, error) {
			gotLimit = limit
			return []store.AuditEntry{{ID: "a-1", Action: "content.approve"}}, nil
		},
	}
	rr := serve(t, newTestHandler(stores, testServices()), http.MethodGet, "/api/admin/audit?limit=5", "", "admin-1")
	if rr.Code != http.StatusOK || gotLimit != 5 {
		t.Fatalf("expected 200 with limit 5, got %d limit %d", rr.Code, gotLimit)
	}
}
