package store

import (
	"context"

	"infco/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerStore is the append-only wallet_transactions table.
type LedgerStore struct {
	db DB
}

func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

type LedgerEntryInput struct {
	ID                string
	WalletID          string
	Type              models.TransactionType
	Amount            decimal.Decimal
	RelatedCampaignID *string
	RelatedContentID  *string
	ClientRequestID   *string
}

const ledgerColumns = `id, wallet_id, type, amount, related_campaign_id, related_content_id, client_request_id, created_at`

func (s *LedgerStore) Append(ctx context.Context, tx Execer, entry LedgerEntryInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (id, wallet_id, type, amount, related_campaign_id, related_content_id, client_request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.WalletID, entry.Type, entry.Amount, entry.RelatedCampaignID, entry.RelatedContentID, entry.ClientRequestID)
	return err
}

func (s *LedgerStore) ListByWallet(ctx context.Context, walletID string, limit int) ([]models.WalletTransaction, error) {
	limit, _ = clampPage(limit, 0)
	rows := []models.WalletTransaction{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+ledgerColumns+`
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, walletID, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAllByWallet returns the full history of a wallet through q, which is
// normally the transaction holding the wallet lock.
func (s *LedgerStore) ListAllByWallet(ctx context.Context, q Selecter, walletID string) ([]models.WalletTransaction, error) {
	rows := []models.WalletTransaction{}
	err := q.SelectContext(ctx, &rows, `
		SELECT `+ledgerColumns+`
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at, id
	`, walletID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *LedgerStore) GetByClientRequest(ctx context.Context, q Getter, walletID, clientRequestID string) (models.WalletTransaction, error) {
	var row models.WalletTransaction
	err := q.GetContext(ctx, &row, `
		SELECT `+ledgerColumns+`
		FROM wallet_transactions
		WHERE wallet_id = $1 AND client_request_id = $2
	`, walletID, clientRequestID)
	return row, err
}

// ReplayBalance folds a ledger into a balance: earnings add their amount and
// withdrawals subtract their absolute amount, whichever sign they were
// stored with.
func ReplayBalance(entries []models.WalletTransaction) decimal.Decimal {
	balance := decimal.Zero
	for _, entry := range entries {
		switch entry.Type {
		case models.TransactionEarning:
			balance = balance.Add(entry.Amount)
		case models.TransactionWithdrawal:
			balance = balance.Sub(entry.Amount.Abs())
		}
	}
	return balance
}
