package store

import (
	"context"

	"infco/internal/models"

	"github.com/shopspring/decimal"
)

type WalletStore struct {
	db DB
}

// WalletReconciliation compares a wallet's running balance with the balance
// replayed from its ledger.
type WalletReconciliation struct {
	WalletID        string  `db:"wallet_id"`
	UserID          string  `db:"user_id"`
	Email           *string `db:"email"`
	StoredBalance   decimal.Decimal `db:"stored_balance"`
	ReplayedBalance decimal.Decimal `db:"replayed_balance"`
	Difference      decimal.Decimal `db:"difference"`
}

func NewWalletStore(db DB) *WalletStore {
	return &WalletStore{db: db}
}

const walletColumns = `id, user_id, balance, created_at, updated_at`

// Ensure creates a zero wallet for userID unless one already exists.
func (s *WalletStore) Ensure(ctx context.Context, tx Execer, id, userID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallets (id, user_id, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, id, userID)
	return err
}

func (s *WalletStore) GetByUser(ctx context.Context, userID string) (models.Wallet, error) {
	var row models.Wallet
	err := s.db.GetContext(ctx, &row, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	return row, err
}

func (s *WalletStore) GetForUpdateByUser(ctx context.Context, tx Getter, userID string) (models.Wallet, error) {
	var row models.Wallet
	err := tx.GetContext(ctx, &row, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`, userID)
	return row, err
}

func (s *WalletStore) GetForUpdate(ctx context.Context, tx Getter, walletID string) (models.Wallet, error) {
	var row models.Wallet
	err := tx.GetContext(ctx, &row, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE id = $1
		FOR UPDATE
	`, walletID)
	return row, err
}

// AdjustBalance adds delta to the running balance and returns the result.
func (s *WalletStore) AdjustBalance(ctx context.Context, tx Getter, walletID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.GetContext(ctx, &balance, `
		UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance
	`, delta, walletID)
	return balance, err
}

func (s *WalletStore) SetBalance(ctx context.Context, tx Execer, walletID string, balance decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, walletID)
	return err
}

func (s *WalletStore) ListReconciliation(ctx context.Context) ([]WalletReconciliation, error) {
	rows := []WalletReconciliation{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT w.id AS wallet_id,
		       w.user_id,
		       u.email,
		       w.balance AS stored_balance,
		       `+replayExpr+` AS replayed_balance,
		       (w.balance - `+replayExpr+`) AS difference
		FROM wallets w
		LEFT JOIN users u ON u.id = w.user_id
		LEFT JOIN wallet_transactions t ON t.wallet_id = w.id
		GROUP BY w.id, w.user_id, u.email, w.balance
		ORDER BY w.id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// replayExpr mirrors ReplayBalance in SQL.
const replayExpr = `COALESCE(SUM(CASE WHEN t.type = 'EARNING' THEN t.amount ELSE -ABS(t.amount) END), 0)`
