package handlers

import (
	"net/http"
	"time"

	"infco/internal/models"
	"infco/internal/money"
	"infco/internal/services"
	"infco/internal/store"
	"infco/internal/websocket"

	"github.com/shopspring/decimal"
)

const walletHistoryLimit = 50

func (h *Handler) influencerProfile(w http.ResponseWriter, r *http.Request) (models.InfluencerProfile, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return models.InfluencerProfile{}, false
	}
	profile, err := h.stores.Profiles.GetInfluencerByUser(r.Context(), userID)
	if err != nil {
		if store.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "profile_not_found")
			return models.InfluencerProfile{}, false
		}
		respondServiceError(w, r, err)
		return models.InfluencerProfile{}, false
	}
	return profile, true
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.influencerProfile(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"profile":  profile,
		"complete": profile.Complete(),
	})
}

type updateProfileRequest struct {
	influencerFields
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	profile, err := h.services.Accounts.UpdateProfile(r.Context(), userID, req.profile())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"profile":  profile,
		"complete": profile.Complete(),
	})
}

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.influencerProfile(w, r)
	if !ok {
		return
	}
	rows, err := h.stores.Applications.ListByInfluencer(r.Context(), profile.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	views := make([]applicationView, 0, len(rows))
	for _, row := range rows {
		views = append(views, applicationView{
			ID:             row.ID,
			CampaignID:     row.CampaignID,
			CampaignTitle:  row.CampaignTitle,
			CampaignSlug:   row.CampaignSlug,
			CampaignStatus: row.CampaignState,
			Status:         row.Status,
			CreatedAt:      row.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"applications": views})
}

type applyRequest struct {
	CampaignID string `json:"campaign_id" validate:"required"`
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req applyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	application, err := h.services.Campaigns.Apply(r.Context(), userID, req.CampaignID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"application": application})
}

func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.influencerProfile(w, r)
	if !ok {
		return
	}
	rows, err := h.stores.Contents.ListByInfluencer(r.Context(), profile.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"content": newContentListingViews(rows)})
}

type submitContentRequest struct {
	CampaignID    string     `json:"campaign_id" validate:"required"`
	ApplicationID *string    `json:"application_id" validate:"omitempty,min=1"`
	Platform      string     `json:"platform" validate:"required,max=40"`
	URL           string     `json:"url" validate:"required,url"`
	Views         *int64     `json:"views" validate:"omitempty,min=0"`
	Likes         *int64     `json:"likes" validate:"omitempty,min=0"`
	Comments      *int64     `json:"comments" validate:"omitempty,min=0"`
	Shares        *int64     `json:"shares" validate:"omitempty,min=0"`
	Followers     *int64     `json:"followers" validate:"omitempty,min=0"`
	PostedAt      *time.Time `json:"posted_at" validate:"required"`
}

func (h *Handler) SubmitContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req submitContentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.PostedAt.After(time.Now().Add(time.Minute)) {
		respondError(w, http.StatusBadRequest, "invalid_posted_at")
		return
	}
	result, err := h.services.Campaigns.SubmitContent(r.Context(), userID, services.ContentInput{
		CampaignID:    req.CampaignID,
		ApplicationID: req.ApplicationID,
		Platform:      req.Platform,
		URL:           req.URL,
		Views:         req.Views,
		Likes:         req.Likes,
		Comments:      req.Comments,
		Shares:        req.Shares,
		Followers:     req.Followers,
		PostedAt:      req.PostedAt,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"content":  newContentView(result.Content),
		"earning":  money.Format(result.Earning),
		"estimate": money.Format(result.Estimate),
	})
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	pending, err := h.stores.Contents.PendingEarnings(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	payload := map[string]any{
		"wallet_id":        nil,
		"balance":          money.Format(decimal.Zero),
		"pending_earnings": money.Format(pending),
		"transactions":     []transactionView{},
	}
	wallet, err := h.stores.Wallets.GetByUser(r.Context(), userID)
	if err != nil {
		if store.IsNotFound(err) {
			respondJSON(w, http.StatusOK, payload)
			return
		}
		respondServiceError(w, r, err)
		return
	}
	transactions, err := h.stores.Ledger.ListByWallet(r.Context(), wallet.ID, walletHistoryLimit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	payload["wallet_id"] = wallet.ID
	payload["balance"] = money.Format(wallet.Balance)
	payload["transactions"] = newTransactionViews(transactions)
	respondJSON(w, http.StatusOK, payload)
}

type withdrawRequest struct {
	Amount          string  `json:"amount" validate:"required,amount"`
	ClientRequestID *string `json:"client_request_id" validate:"omitempty,min=1,max=100"`
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req withdrawRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.services.Wallets.Withdraw(r.Context(), services.WithdrawRequest{
		UserID:          userID,
		Amount:          amount,
		ClientRequestID: req.ClientRequestID,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	respondJSON(w, status, map[string]any{
		"transaction_id": result.TransactionID,
		"amount":         money.Format(result.Amount),
		"balance":        money.Format(result.Balance),
	})
}

// WalletSocket streams balance changes for the signed-in influencer.
func (h *Handler) WalletSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	websocket.ServeWS(w, r, h.hub, userID)
}
