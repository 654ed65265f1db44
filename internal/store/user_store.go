package store

import (
	"context"

	"infco/internal/auth"
	"infco/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

type UserInput struct {
	ID           string
	Email        string
	PasswordHash string
	Role         models.Role
	Status       models.UserStatus
}

const userColumns = `id, email, password_hash, role, status, created_at`

func (s *UserStore) Create(ctx context.Context, tx Execer, input UserInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5)
	`, input.ID, input.Email, input.PasswordHash, input.Role, input.Status)
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return row, err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return row, err
}

// GetPrincipal loads the role and status that authorization decisions use.
func (s *UserStore) GetPrincipal(ctx context.Context, userID string) (auth.Principal, error) {
	var row auth.Principal
	err := s.db.GetContext(ctx, &row, `SELECT id, role, status FROM users WHERE id = $1`, userID)
	return row, err
}

func (s *UserStore) ListByStatus(ctx context.Context, status models.UserStatus, limit, offset int) ([]models.User, error) {
	limit, offset = clampPage(limit, offset)
	rows := []models.User{}
	var err error
	if status == "" {
		err = s.db.SelectContext(ctx, &rows, `
			SELECT `+userColumns+`
			FROM users
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	} else {
		err = s.db.SelectContext(ctx, &rows, `
			SELECT `+userColumns+`
			FROM users
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, status, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus moves a user out of PENDING. It returns the rows affected so
// callers can tell a missing user from one already reviewed.
func (s *UserStore) UpdateStatus(ctx context.Context, tx Execer, userID string, status models.UserStatus) (int64, error) {
	return rowsAffected(tx.ExecContext(ctx, `
		UPDATE users
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'PENDING'
	`, status, userID))
}
