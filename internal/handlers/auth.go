package handlers

import (
	"net/http"
	"time"

	"infco/internal/auth"
	"infco/internal/models"
	"infco/internal/services"
	"infco/internal/store"
)

// influencerFields is shared by registration and profile edits.
type influencerFields struct {
	DisplayName        string `json:"display_name" validate:"max=120"`
	Bio                string `json:"bio" validate:"max=2000"`
	Category           string `json:"category" validate:"max=60"`
	Country            string `json:"country" validate:"max=60"`
	City               string `json:"city" validate:"max=60"`
	Gender             string `json:"gender" validate:"max=30"`
	AgeRange           string `json:"age_range" validate:"max=30"`
	FollowerCount      int64  `json:"follower_count" validate:"min=0"`
	InstagramFollowers int64  `json:"instagram_followers" validate:"min=0"`
	InstagramURL       string `json:"instagram_url" validate:"omitempty,url"`
	TiktokFollowers    int64  `json:"tiktok_followers" validate:"min=0"`
	TiktokURL          string `json:"tiktok_url" validate:"omitempty,url"`
	YoutubeFollowers   int64  `json:"youtube_followers" validate:"min=0"`
	YoutubeURL         string `json:"youtube_url" validate:"omitempty,url"`
}

func (f influencerFields) profile() models.InfluencerProfile {
	return models.InfluencerProfile{
		DisplayName:        f.DisplayName,
		Bio:                f.Bio,
		Category:           f.Category,
		Country:            f.Country,
		City:               f.City,
		Gender:             f.Gender,
		AgeRange:           f.AgeRange,
		FollowerCount:      f.FollowerCount,
		InstagramFollowers: f.InstagramFollowers,
		InstagramURL:       f.InstagramURL,
		TiktokFollowers:    f.TiktokFollowers,
		TiktokURL:          f.TiktokURL,
		YoutubeFollowers:   f.YoutubeFollowers,
		YoutubeURL:         f.YoutubeURL,
	}
}

type registerRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=INFLUENCER BRAND"`
	influencerFields
	CompanyName string `json:"company_name" validate:"max=200"`
	Website     string `json:"website" validate:"omitempty,url"`
	Description string `json:"description" validate:"max=2000"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	user, err := h.services.Accounts.Register(r.Context(), services.RegisterRequest{
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Influencer: req.profile(),
		Brand: models.BrandProfile{
			CompanyName: req.CompanyName,
			Website:     req.Website,
			Description: req.Description,
		},
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

type loginRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=INFLUENCER BRAND ADMIN"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	user, err := h.services.Accounts.Login(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenTTL)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	http.SetCookie(w, h.sessionCookie(token, h.cfg.TokenTTL))
	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := h.sessionCookie("", 0)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := h.stores.Users.GetByID(r.Context(), userID)
	if err != nil {
		if store.IsNotFound(err) {
			respondError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		respondServiceError(w, r, err)
		return
	}
	payload := map[string]any{"user": user}
	switch user.Role {
	case models.RoleInfluencer:
		if profile, err := h.stores.Profiles.GetInfluencerByUser(r.Context(), userID); err == nil {
			payload["profile"] = profile
			payload["profile_complete"] = profile.Complete()
		}
	case models.RoleBrand:
		if profile, err := h.stores.Profiles.GetBrandByUser(r.Context(), userID); err == nil {
			payload["profile"] = profile
		}
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}
