package handlers

import (
	"net/http"
	"time"

	"infco/internal/models"
	"infco/internal/money"
	"infco/internal/services"
	"infco/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	rows, err := h.stores.Campaigns.ListByStatus(r.Context(), models.CampaignActive, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"campaigns": newCampaignViews(rows)})
}

// GetCampaign only exposes ACTIVE campaigns to the public.
func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.stores.Campaigns.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if store.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "campaign_not_found")
			return
		}
		respondServiceError(w, r, err)
		return
	}
	if campaign.Status != models.CampaignActive {
		respondError(w, http.StatusNotFound, "campaign_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"campaign": newCampaignView(campaign)})
}

func (h *Handler) ListBrandCampaigns(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	brand, err := h.stores.Profiles.GetBrandByUser(r.Context(), userID)
	if err != nil {
		if store.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "profile_not_found")
			return
		}
		respondServiceError(w, r, err)
		return
	}
	rows, err := h.stores.Campaigns.ListByBrand(r.Context(), brand.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"campaigns": newCampaignViews(rows)})
}

type createCampaignRequest struct {
	Title             string     `json:"title" validate:"required,max=200"`
	Description       string     `json:"description" validate:"max=5000"`
	Platform          string     `json:"platform" validate:"required,max=40"`
	TotalPool         string     `json:"total_pool" validate:"required,amount"`
	PricePer1000Views string     `json:"price_per_1000_views" validate:"required,amount"`
	MaxCpm            string     `json:"max_cpm" validate:"omitempty,amount"`
	ImageURL          string     `json:"image_url" validate:"omitempty,url"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
}

func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req createCampaignRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	// amounts were checked by the amount tag
	totalPool, _ := money.Parse(req.TotalPool)
	price, _ := money.Parse(req.PricePer1000Views)
	maxCpm := decimal.Zero
	if req.MaxCpm != "" {
		maxCpm, _ = money.Parse(req.MaxCpm)
	}
	campaign, err := h.services.Campaigns.CreateCampaign(r.Context(), userID, services.CampaignInput{
		Title:             req.Title,
		Description:       req.Description,
		Platform:          req.Platform,
		TotalPool:         totalPool,
		PricePer1000Views: price,
		MaxCpm:            maxCpm,
		ImageURL:          req.ImageURL,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"campaign": newCampaignView(campaign)})
}
