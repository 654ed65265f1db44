package handlers

import (
	"net/http"
	"strings"

	"infco/internal/config"
	"infco/internal/metrics"
	"infco/internal/middleware"
	"infco/internal/models"
	"infco/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	cfg      config.Config
	stores   Stores
	services Services
	hub      *websocket.Hub
	logger   *zap.Logger
}

func New(cfg config.Config, stores Stores, services Services, hub *websocket.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		stores:   stores,
		services: services,
		hub:      hub,
		logger:   logger,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.AccessLog(h.logger))
	router.Use(middleware.Metrics)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(corsOptions(h.cfg.AllowedOrigins)))

	authn := middleware.Auth(h.cfg.JWTSecret, h.cfg.SessionCookieName)
	role := func(roles ...models.Role) func(http.Handler) http.Handler {
		return middleware.RequireRole(h.stores.Users, roles...)
	}

	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(authn).Get("/me", h.Me)
	})

	router.Get("/api/campaigns", h.ListCampaigns)
	router.Get("/api/campaigns/{slug}", h.GetCampaign)

	router.Route("/api/brand", func(r chi.Router) {
		r.Use(authn, role(models.RoleBrand))
		r.Get("/campaigns", h.ListBrandCampaigns)
		r.Post("/campaigns", h.CreateCampaign)
	})

	router.Route("/api/influencer", func(r chi.Router) {
		r.Use(authn, role(models.RoleInfluencer))
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Get("/applications", h.ListApplications)
		r.Post("/applications", h.Apply)
		r.Get("/content", h.ListContent)
		r.Post("/content", h.SubmitContent)
		r.Get("/wallet", h.GetWallet)
		r.Post("/wallet/withdraw", h.Withdraw)
	})

	router.Route("/api/admin", func(r chi.Router) {
		r.Use(authn, role(models.RoleAdmin))
		r.Get("/users", h.AdminListUsers)
		r.Post("/users/{id}/approve", h.AdminApproveUser)
		r.Post("/users/{id}/reject", h.AdminRejectUser)
		r.Get("/campaigns", h.AdminListCampaigns)
		r.Post("/campaigns/{id}/approve", h.AdminApproveCampaign)
		r.Post("/campaigns/{id}/reject", h.AdminRejectCampaign)
		r.Get("/content", h.AdminListContent)
		r.Post("/content/{id}/approve", h.AdminApproveContent)
		r.Post("/content/{id}/reject", h.AdminRejectContent)
		r.Get("/reconcile", h.Reconcile)
		r.Post("/wallets/{id}/reconcile", h.ReconcileWallet)
		r.Get("/audit", h.ListAuditLogs)
		r.Method(http.MethodGet, "/metrics", metrics.NewHandler())
	})

	router.With(authn, role(models.RoleInfluencer)).Get("/ws/wallet", h.WalletSocket)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

// corsOptions allows credentialed requests from the configured origins only.
// With none configured every cross-origin request is refused.
func corsOptions(raw string) cors.Options {
	options := cors.Options{
		AllowedOrigins:   allowedOrigins(raw),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(options.AllowedOrigins) == 0 {
		// cors treats an empty list as "*"
		options.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	return options
}

// allowedOrigins splits a comma list of exact origins. Wildcards are dropped
// since cookies travel with every request.
func allowedOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" || strings.Contains(origin, "*") {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
