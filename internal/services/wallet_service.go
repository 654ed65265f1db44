package services

import (
	"context"
	"fmt"

	"infco/internal/db"
	"infco/internal/metrics"
	"infco/internal/models"
	"infco/internal/money"
	"infco/internal/pricing"
	"infco/internal/store"
	"infco/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WalletService struct {
	txRunner     db.TxRunner
	contentStore ReviewContentStore
	walletStore  WalletStore
	ledgerStore  LedgerStore
	auditStore   AuditStore
	calculator   pricing.Calculator
	hub          BalanceHub
}

type ReviewContentStore interface {
	GetForReview(ctx context.Context, tx store.Getter, contentID string) (store.ContentForReview, error)
	TransitionStatus(ctx context.Context, tx store.Execer, contentID string, from, to models.ContentStatus) (int64, error)
}

type WalletStore interface {
	Ensure(ctx context.Context, tx store.Execer, id, userID string) error
	GetForUpdateByUser(ctx context.Context, tx store.Getter, userID string) (models.Wallet, error)
	GetForUpdate(ctx context.Context, tx store.Getter, walletID string) (models.Wallet, error)
	AdjustBalance(ctx context.Context, tx store.Getter, walletID string, delta decimal.Decimal) (decimal.Decimal, error)
	SetBalance(ctx context.Context, tx store.Execer, walletID string, balance decimal.Decimal) error
	ListReconciliation(ctx context.Context) ([]store.WalletReconciliation, error)
}

type LedgerStore interface {
	Append(ctx context.Context, tx store.Execer, entry store.LedgerEntryInput) error
	ListAllByWallet(ctx context.Context, q store.Selecter, walletID string) ([]models.WalletTransaction, error)
	GetByClientRequest(ctx context.Context, q store.Getter, walletID, clientRequestID string) (models.WalletTransaction, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID string, data any) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

func NewWalletService(txRunner db.TxRunner, contentStore ReviewContentStore, walletStore WalletStore, ledgerStore LedgerStore, auditStore AuditStore, calculator pricing.Calculator, hub BalanceHub) *WalletService {
	return &WalletService{
		txRunner:     txRunner,
		contentStore: contentStore,
		walletStore:  walletStore,
		ledgerStore:  ledgerStore,
		auditStore:   auditStore,
		calculator:   calculator,
		hub:          hub,
	}
}

type ApprovalResult struct {
	ContentID     string
	WalletID      string
	Earning       decimal.Decimal
	WalletBalance decimal.Decimal
}

// ApproveContent marks a pending content APPROVED and credits its earning to
// the influencer's wallet. Every step runs in one serializable transaction;
// the websocket push and metrics happen only after commit.
func (s *WalletService) ApproveContent(ctx context.Context, actorID, contentID string) (ApprovalResult, error) {
	var result ApprovalResult
	var influencerUserID string
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		content, err := s.contentStore.GetForReview(ctx, tx, contentID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrContentNotFound
			}
			return err
		}
		if content.Status != models.ContentPending {
			return ErrContentNotPending
		}
		earning := s.calculator.Payout(content.Views, content.PricePer1000Views, content.MaxCpm)
		if content.Earning != nil {
			earning = *content.Earning
		}

		if err := s.walletStore.Ensure(ctx, tx, uuid.NewString(), content.InfluencerUserID); err != nil {
			return err
		}
		wallet, err := s.walletStore.GetForUpdateByUser(ctx, tx, content.InfluencerUserID)
		if err != nil {
			return err
		}

		affected, err := s.contentStore.TransitionStatus(ctx, tx, content.ID, models.ContentPending, models.ContentApproved)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrContentNotPending
		}

		balance := wallet.Balance
		if earning.IsPositive() {
			err := s.ledgerStore.Append(ctx, tx, store.LedgerEntryInput{
				ID:                uuid.NewString(),
				WalletID:          wallet.ID,
				Type:              models.TransactionEarning,
				Amount:            earning,
				RelatedCampaignID: &content.CampaignID,
				RelatedContentID:  &content.ID,
			})
			if err != nil {
				if db.IsUniqueViolation(err, "wallet_transactions_earning_content_idx") {
					return ErrContentNotPending
				}
				return err
			}
			balance, err = s.walletStore.AdjustBalance(ctx, tx, wallet.ID, earning)
			if err != nil {
				return err
			}
		}

		influencerUserID = content.InfluencerUserID
		result = ApprovalResult{
			ContentID:     content.ID,
			WalletID:      wallet.ID,
			Earning:       earning,
			WalletBalance: balance,
		}
		return s.auditStore.Log(ctx, tx, actorID, "content.approve", "content", content.ID, map[string]string{
			"wallet_id": wallet.ID,
			"earning":   money.Format(earning),
		})
	})
	if err != nil {
		return ApprovalResult{}, err
	}

	metrics.ContentReviewed("approved")
	if result.Earning.IsPositive() {
		metrics.LedgerAppended(string(models.TransactionEarning), result.Earning)
		s.hub.BroadcastBalance(influencerUserID, websocket.BalanceUpdate{
			WalletID: result.WalletID,
			Balance:  money.Format(result.WalletBalance),
			Delta:    money.Format(result.Earning),
			Reason:   "earning",
		})
	}
	zap.L().Info("content approved",
		zap.String("content_id", result.ContentID),
		zap.String("actor_id", actorID),
		zap.String("earning", money.Format(result.Earning)),
	)
	return result, nil
}

// RejectContent has no ledger effect. The (campaign, influencer) slot is
// released for a new submission.
func (s *WalletService) RejectContent(ctx context.Context, actorID, contentID string) error {
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		content, err := s.contentStore.GetForReview(ctx, tx, contentID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrContentNotFound
			}
			return err
		}
		if content.Status != models.ContentPending {
			return ErrContentNotPending
		}
		affected, err := s.contentStore.TransitionStatus(ctx, tx, content.ID, models.ContentPending, models.ContentRejected)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrContentNotPending
		}
		return s.auditStore.Log(ctx, tx, actorID, "content.reject", "content", content.ID, nil)
	})
	if err != nil {
		return err
	}
	metrics.ContentReviewed("rejected")
	return nil
}

type WithdrawRequest struct {
	UserID          string
	Amount          decimal.Decimal
	ClientRequestID *string
}

type WithdrawalResult struct {
	TransactionID string
	WalletID      string
	Amount        decimal.Decimal
	Balance       decimal.Decimal
	Replayed      bool
}

// Withdraw debits the wallet immediately. A repeated ClientRequestID returns
// the original withdrawal without debiting again.
func (s *WalletService) Withdraw(ctx context.Context, req WithdrawRequest) (WithdrawalResult, error) {
	if !req.Amount.IsPositive() {
		return WithdrawalResult{}, ErrInvalidAmount
	}
	var result WithdrawalResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		wallet, err := s.walletStore.GetForUpdateByUser(ctx, tx, req.UserID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrWalletNotFound
			}
			return err
		}
		if req.ClientRequestID != nil {
			existing, err := s.ledgerStore.GetByClientRequest(ctx, tx, wallet.ID, *req.ClientRequestID)
			if err == nil {
				result = WithdrawalResult{
					TransactionID: existing.ID,
					WalletID:      wallet.ID,
					Amount:        existing.Amount.Abs(),
					Balance:       wallet.Balance,
					Replayed:      true,
				}
				return nil
			}
			if !store.IsNotFound(err) {
				return err
			}
		}
		if wallet.Balance.LessThan(req.Amount) {
			return ErrInsufficientFunds
		}

		transactionID := uuid.NewString()
		if err := s.ledgerStore.Append(ctx, tx, store.LedgerEntryInput{
			ID:              transactionID,
			WalletID:        wallet.ID,
			Type:            models.TransactionWithdrawal,
			Amount:          req.Amount.Neg(),
			ClientRequestID: req.ClientRequestID,
		}); err != nil {
			return err
		}
		balance, err := s.walletStore.AdjustBalance(ctx, tx, wallet.ID, req.Amount.Neg())
		if err != nil {
			return err
		}
		result = WithdrawalResult{
			TransactionID: transactionID,
			WalletID:      wallet.ID,
			Amount:        req.Amount,
			Balance:       balance,
		}
		return s.auditStore.Log(ctx, tx, req.UserID, "wallet.withdraw", "wallet_transaction", transactionID, map[string]string{
			"wallet_id": wallet.ID,
			"amount":    money.Format(req.Amount),
		})
	})
	if err != nil {
		return WithdrawalResult{}, err
	}
	if !result.Replayed {
		metrics.LedgerAppended(string(models.TransactionWithdrawal), result.Amount)
		s.hub.BroadcastBalance(req.UserID, websocket.BalanceUpdate{
			WalletID: result.WalletID,
			Balance:  money.Format(result.Balance),
			Delta:    money.Format(result.Amount.Neg()),
			Reason:   "withdrawal",
		})
	}
	return result, nil
}

type ReconcileResult struct {
	WalletID        string
	PreviousBalance decimal.Decimal
	Balance         decimal.Decimal
	Entries         int
}

// ReconcileWallet rebuilds the stored balance from the ledger. Running it
// twice in a row leaves the wallet unchanged.
func (s *WalletService) ReconcileWallet(ctx context.Context, actorID, walletID string) (ReconcileResult, error) {
	var result ReconcileResult
	var ownerID string
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		wallet, err := s.walletStore.GetForUpdate(ctx, tx, walletID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrWalletNotFound
			}
			return err
		}
		entries, err := s.ledgerStore.ListAllByWallet(ctx, tx, wallet.ID)
		if err != nil {
			return err
		}
		balance := store.ReplayBalance(entries)
		ownerID = wallet.UserID
		result = ReconcileResult{
			WalletID:        wallet.ID,
			PreviousBalance: wallet.Balance,
			Balance:         balance,
			Entries:         len(entries),
		}
		if balance.Equal(wallet.Balance) {
			return nil
		}
		if err := s.walletStore.SetBalance(ctx, tx, wallet.ID, balance); err != nil {
			return err
		}
		return s.auditStore.Log(ctx, tx, actorID, "wallet.reconcile", "wallet", wallet.ID, map[string]string{
			"previous_balance": money.Format(wallet.Balance),
			"balance":          money.Format(balance),
		})
	})
	if err != nil {
		return ReconcileResult{}, err
	}
	if !result.Balance.Equal(result.PreviousBalance) {
		zap.L().Warn("wallet balance drift corrected",
			zap.String("wallet_id", result.WalletID),
			zap.String("previous_balance", money.Format(result.PreviousBalance)),
			zap.String("balance", money.Format(result.Balance)),
		)
		s.hub.BroadcastBalance(ownerID, websocket.BalanceUpdate{
			WalletID: result.WalletID,
			Balance:  money.Format(result.Balance),
			Delta:    money.Format(result.Balance.Sub(result.PreviousBalance)),
			Reason:   "reconcile",
		})
	}
	return result, nil
}

// ReconcileReport compares every stored balance with its ledger replay
// without changing anything.
func (s *WalletService) ReconcileReport(ctx context.Context) ([]store.WalletReconciliation, error) {
	rows, err := s.walletStore.ListReconciliation(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconciliation report: %w", err)
	}
	return rows, nil
}

