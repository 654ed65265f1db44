package handlers

import (
	"net/http"

	"infco/internal/models"
	"infco/internal/money"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	status := models.UserStatus(r.URL.Query().Get("status"))
	users, err := h.stores.Users.ListByStatus(r.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) AdminApproveUser(w http.ResponseWriter, r *http.Request) {
	h.reviewUser(w, r, true)
}

func (h *Handler) AdminRejectUser(w http.ResponseWriter, r *http.Request) {
	h.reviewUser(w, r, false)
}

func (h *Handler) reviewUser(w http.ResponseWriter, r *http.Request, approve bool) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "id")
	if err := h.services.Accounts.ReviewUser(r.Context(), actorID, userID, approve); err != nil {
		respondServiceError(w, r, err)
		return
	}
	status := models.UserRejected
	if approve {
		status = models.UserApproved
	}
	respondJSON(w, http.StatusOK, map[string]any{"user_id": userID, "status": status})
}

func (h *Handler) AdminListCampaigns(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	status := models.CampaignStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.CampaignPendingReview
	}
	rows, err := h.stores.Campaigns.ListByStatus(r.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"campaigns": newCampaignViews(rows)})
}

func (h *Handler) AdminApproveCampaign(w http.ResponseWriter, r *http.Request) {
	h.reviewCampaign(w, r, true)
}

func (h *Handler) AdminRejectCampaign(w http.ResponseWriter, r *http.Request) {
	h.reviewCampaign(w, r, false)
}

func (h *Handler) reviewCampaign(w http.ResponseWriter, r *http.Request, approve bool) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "id")
	if err := h.services.Campaigns.ReviewCampaign(r.Context(), actorID, campaignID, approve); err != nil {
		respondServiceError(w, r, err)
		return
	}
	status := models.CampaignRejected
	if approve {
		status = models.CampaignActive
	}
	respondJSON(w, http.StatusOK, map[string]any{"campaign_id": campaignID, "status": status})
}

func (h *Handler) AdminListContent(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	status := models.ContentStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.ContentPending
	}
	rows, err := h.stores.Contents.ListByStatus(r.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"content": newContentListingViews(rows)})
}

// AdminApproveContent approves a pending submission and credits the
// influencer wallet.
func (h *Handler) AdminApproveContent(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	result, err := h.services.Wallets.ApproveContent(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"content_id":     result.ContentID,
		"earning":        money.Format(result.Earning),
		"wallet_balance": money.Format(result.WalletBalance),
	})
}

func (h *Handler) AdminRejectContent(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	contentID := chi.URLParam(r, "id")
	if err := h.services.Wallets.RejectContent(r.Context(), actorID, contentID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"content_id": contentID, "status": models.ContentRejected})
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	rows, err := h.services.Wallets.ReconcileReport(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	views := make([]reconciliationView, 0, len(rows))
	mismatched := 0
	for _, row := range rows {
		if !row.Difference.IsZero() {
			mismatched++
		}
		views = append(views, reconciliationView{
			WalletID:        row.WalletID,
			UserID:          row.UserID,
			Email:           row.Email,
			StoredBalance:   money.Format(row.StoredBalance),
			ReplayedBalance: money.Format(row.ReplayedBalance),
			Difference:      money.Format(row.Difference),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"wallets":    views,
		"mismatched": mismatched,
	})
}

func (h *Handler) ReconcileWallet(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	result, err := h.services.Wallets.ReconcileWallet(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"wallet_id":        result.WalletID,
		"previous_balance": money.Format(result.PreviousBalance),
		"balance":          money.Format(result.Balance),
		"entries":          result.Entries,
	})
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	entries, err := h.stores.Audit.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"audit_logs": entries})
}
