package auth

import (
	"errors"

	"infco/internal/models"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotApproved     = errors.New("account not approved")
	ErrForbidden       = errors.New("forbidden")
)

// Principal is the persisted identity behind a session, never the token's
// own role claim.
type Principal struct {
	UserID string            `db:"id"`
	Role   models.Role       `db:"role"`
	Status models.UserStatus `db:"status"`
}

// Authorize is the single access policy for protected routes. The principal
// must be approved and, when roles are given, hold one of them.
func Authorize(p Principal, roles ...models.Role) error {
	if p.UserID == "" {
		return ErrUnauthenticated
	}
	if p.Status != models.UserApproved {
		return ErrNotApproved
	}
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if p.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
