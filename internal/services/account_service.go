package services

import (
	"context"
	"strings"

	"infco/internal/auth"
	"infco/internal/db"
	"infco/internal/models"
	"infco/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AccountService struct {
	txRunner     db.TxRunner
	userStore    UserStore
	profileStore ProfileStore
	walletStore  WalletEnsurer
	auditStore   AuditStore
	admins       AdminDirectory
}

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, input store.UserInput) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	UpdateStatus(ctx context.Context, tx store.Execer, userID string, status models.UserStatus) (int64, error)
}

type ProfileStore interface {
	CreateInfluencer(ctx context.Context, tx store.Execer, p models.InfluencerProfile) error
	CreateBrand(ctx context.Context, tx store.Execer, p models.BrandProfile) error
	GetInfluencerByUser(ctx context.Context, userID string) (models.InfluencerProfile, error)
	UpdateInfluencer(ctx context.Context, tx store.Execer, p models.InfluencerProfile) (int64, error)
}

type WalletEnsurer interface {
	Ensure(ctx context.Context, tx store.Execer, id, userID string) error
}

// AdminDirectory decides which registering emails receive the ADMIN role.
type AdminDirectory interface {
	IsAdminEmail(email string) bool
}

func NewAccountService(txRunner db.TxRunner, userStore UserStore, profileStore ProfileStore, walletStore WalletEnsurer, auditStore AuditStore, admins AdminDirectory) *AccountService {
	return &AccountService{
		txRunner:     txRunner,
		userStore:    userStore,
		profileStore: profileStore,
		walletStore:  walletStore,
		auditStore:   auditStore,
		admins:       admins,
	}
}

type RegisterRequest struct {
	Email      string
	Password   string
	Role       models.Role
	Influencer models.InfluencerProfile
	Brand      models.BrandProfile
}

// Register creates the user with its role-specific profile in one
// transaction. Influencers also get an empty wallet.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := models.User{
		ID:     uuid.NewString(),
		Email:  email,
		Role:   req.Role,
		Status: models.UserPending,
	}
	if s.admins != nil && s.admins.IsAdminEmail(email) {
		user.Role = models.RoleAdmin
		user.Status = models.UserApproved
	} else if user.Role != models.RoleInfluencer && user.Role != models.RoleBrand {
		return models.User{}, ErrInvalidRole
	}
	switch user.Role {
	case models.RoleInfluencer:
		p := req.Influencer
		if p.DisplayName == "" || p.Category == "" || p.Country == "" || p.FollowerCount <= 0 {
			return models.User{}, ErrMissingProfile
		}
	case models.RoleBrand:
		if strings.TrimSpace(req.Brand.CompanyName) == "" {
			return models.User{}, ErrMissingProfile
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = hash

	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.userStore.Create(ctx, tx, store.UserInput{
			ID:           user.ID,
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
			Role:         user.Role,
			Status:       user.Status,
		}); err != nil {
			if db.IsUniqueViolation(err, "") {
				return ErrEmailTaken
			}
			return err
		}
		switch user.Role {
		case models.RoleInfluencer:
			profile := req.Influencer
			profile.ID = uuid.NewString()
			profile.UserID = user.ID
			if err := s.profileStore.CreateInfluencer(ctx, tx, profile); err != nil {
				return err
			}
			if err := s.walletStore.Ensure(ctx, tx, uuid.NewString(), user.ID); err != nil {
				return err
			}
		case models.RoleBrand:
			profile := req.Brand
			profile.ID = uuid.NewString()
			profile.UserID = user.ID
			if err := s.profileStore.CreateBrand(ctx, tx, profile); err != nil {
				return err
			}
		}
		return s.auditStore.Log(ctx, tx, user.ID, "user.register", "user", user.ID, map[string]string{
			"role": string(user.Role),
		})
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login checks credentials and account state. An empty role accepts any.
func (s *AccountService) Login(ctx context.Context, email, password string, role models.Role) (models.User, error) {
	user, err := s.userStore.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if store.IsNotFound(err) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	if user.Status != models.UserApproved {
		return models.User{}, ErrNotApproved
	}
	if role != "" && role != user.Role {
		return models.User{}, ErrRoleMismatch
	}
	return user, nil
}

// ReviewUser approves or rejects a PENDING user.
func (s *AccountService) ReviewUser(ctx context.Context, actorID, userID string, approve bool) error {
	status := models.UserRejected
	action := "user.reject"
	if approve {
		status = models.UserApproved
		action = "user.approve"
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.userStore.UpdateStatus(ctx, tx, userID, status)
		if err != nil {
			return err
		}
		if affected == 0 {
			if _, err := s.userStore.GetByID(ctx, userID); err != nil {
				if store.IsNotFound(err) {
					return ErrUserNotFound
				}
				return err
			}
			return ErrUserNotPending
		}
		return s.auditStore.Log(ctx, tx, actorID, action, "user", userID, nil)
	})
}

// UpdateProfile replaces the editable influencer profile fields.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, profile models.InfluencerProfile) (models.InfluencerProfile, error) {
	profile.UserID = userID
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.profileStore.UpdateInfluencer(ctx, tx, profile)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrProfileNotFound
		}
		return s.auditStore.Log(ctx, tx, userID, "profile.update", "influencer_profile", userID, map[string]bool{
			"complete": profile.Complete(),
		})
	})
	if err != nil {
		return models.InfluencerProfile{}, err
	}
	updated, err := s.profileStore.GetInfluencerByUser(ctx, userID)
	if err != nil {
		return models.InfluencerProfile{}, err
	}
	return updated, nil
}
