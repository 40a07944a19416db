package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	crediterrors "bokclean/internal/credits/errors"
	"bokclean/internal/credits/repository"
	"bokclean/pkg/client"
	"bokclean/pkg/config"
	apperrors "bokclean/pkg/errors"
	"bokclean/pkg/model"
	"bokclean/pkg/sealer"

	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentVerifier is the slice of the payment gateway the ledger needs.
// *client.PaystackClient satisfies it.
type PaymentVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*client.PaymentVerification, error)
}

// EventPublisher announces settled purchases. Publishing is a side
// effect: failures are logged, never surfaced to the customer.
type EventPublisher interface {
	CreditsPurchased(ctx context.Context, userID string, amount, newBalance float64) error
}

// DeltaResult reports the outcome of one balance mutation. A pending
// EFT purchase additionally carries the opaque token for its
// back-office approval link.
type DeltaResult struct {
	NewBalance    float64 `json:"new_balance"`
	TransactionID string  `json:"transaction_id"`
	ApprovalToken string  `json:"approval_token,omitempty"`
}

type CreditService interface {
	ApplyDelta(ctx context.Context, userID string, amount float64, txType, method, reference, status string, metadata map[string]any) (*DeltaResult, error)
	Purchase(ctx context.Context, userID string, amount float64, method, reference string) (*DeltaResult, error)
	ApproveEFT(ctx context.Context, userID, reference string, amount float64) (*DeltaResult, error)
	Balance(ctx context.Context, userID string) (float64, error)
	Transactions(ctx context.Context, userID string, limit int, offset int64) ([]*model.CreditTransaction, int64, error)
}

type creditService struct {
	repo    repository.CreditRepository
	gateway PaymentVerifier
	events  EventPublisher
	cfg     *config.Config
}

func NewCreditService(repo repository.CreditRepository, gateway PaymentVerifier, events EventPublisher, cfg *config.Config) CreditService {
	return &creditService{
		repo:    repo,
		gateway: gateway,
		events:  events,
		cfg:     cfg,
	}
}

// ApplyDelta appends one ledger entry and, for completed entries, runs
// the atomic balance mutation. Mutation and ledger row commit inside
// one store transaction, so a failed insert never strands a moved
// balance. The row always satisfies balance_after = balance_before +
// amount (completed) or balance_after = balance_before (pending);
// drift between that and the store's returned balance is logged, not
// raised.
func (s *creditService) ApplyDelta(ctx context.Context, userID string, amount float64, txType, method, reference, status string, metadata map[string]any) (*DeltaResult, error) {
	if amount == 0 {
		return nil, apperrors.InvalidInput(crediterrors.ErrInvalidAmount.Error())
	}

	balanceBefore, err := s.repo.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	if status == model.TransactionCompleted && amount < 0 {
		if balanceBefore+amount < -model.AmountTolerance {
			return nil, apperrors.InsufficientCredits(-amount, balanceBefore)
		}
	}

	tx := &model.CreditTransaction{
		UserID:           userID,
		Type:             txType,
		Amount:           amount,
		BalanceBefore:    balanceBefore,
		BalanceAfter:     balanceBefore,
		PaymentMethod:    method,
		PaymentReference: reference,
		Status:           status,
		Metadata:         metadata,
	}

	newBalance := balanceBefore
	if status == model.TransactionCompleted {
		err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			adjusted, adjErr := s.repo.AdjustBalance(sessCtx, userID, amount)
			if adjErr != nil {
				return adjErr
			}
			newBalance = adjusted
			tx.BalanceAfter = model.Round2(balanceBefore + amount)
			return s.repo.InsertTransaction(sessCtx, tx)
		})
		if err != nil {
			return nil, err
		}
		s.verifyBalance(userID, balanceBefore, amount, newBalance)
	} else if err := s.repo.InsertTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return &DeltaResult{
		NewBalance:    model.Round2(newBalance),
		TransactionID: tx.ID,
	}, nil
}

// Purchase tops up a user's balance. Card purchases settle immediately
// after gateway verification; EFT purchases stay pending until an
// admin approves the transfer.
func (s *creditService) Purchase(ctx context.Context, userID string, amount float64, method, reference string) (*DeltaResult, error) {
	if amount <= 0 {
		return nil, apperrors.InvalidInput("purchase amount must be positive")
	}

	switch method {
	case model.PayMethodCard:
		verification, err := s.gateway.VerifyTransaction(ctx, reference)
		if err != nil {
			return nil, apperrors.Internal("Payment verification failed", err)
		}
		if !verification.Verified() {
			return nil, apperrors.PaymentDeclined(
				fmt.Sprintf("card payment %s not verified (status: %s)", reference, verification.Status))
		}
		result, err := s.ApplyDelta(ctx, userID, amount, model.CreditPurchase, method, reference, model.TransactionCompleted, nil)
		if err != nil {
			return nil, err
		}
		s.publishPurchased(ctx, userID, amount, result.NewBalance)
		return result, nil

	case model.PayMethodEFT:
		result, err := s.ApplyDelta(ctx, userID, amount, model.CreditPurchase, method, reference, model.TransactionPending, nil)
		if err != nil {
			return nil, err
		}
		token, err := sealer.CreateApprovalToken(userID, reference)
		if err != nil {
			s.cfg.Log.Error("Failed to mint EFT approval token",
				"user_id", userID,
				"payment_reference", reference,
				"error", err,
			)
			return result, nil
		}
		result.ApprovalToken = token
		return result, nil

	default:
		return nil, apperrors.InvalidInput("unsupported payment method: " + method)
	}
}

// ApproveEFT settles a pending EFT purchase. The status flip and the
// balance mutation run inside one store transaction: a transient
// failure of either aborts both, leaving the row pending so the
// approval can simply be retried. The one-way status guard still makes
// a racing second approval a no-op. If the pending row was lost, a
// fresh completed transaction for the claimed amount is created so the
// customer's transfer is never silently dropped.
func (s *creditService) ApproveEFT(ctx context.Context, userID, reference string, amount float64) (*DeltaResult, error) {
	pending, err := s.repo.FindPendingEFT(ctx, userID, reference)
	if err != nil {
		if errors.Is(err, crediterrors.ErrTransactionNotFound) {
			s.cfg.Log.Warn("Pending EFT transaction not found, creating completed fallback",
				"user_id", userID,
				"payment_reference", reference,
				"amount", amount,
			)
			if amount <= 0 {
				return nil, apperrors.InvalidInput("approval amount required when no pending transaction exists")
			}
			result, err := s.ApplyDelta(ctx, userID, amount, model.CreditPurchase, model.PayMethodEFT, reference, model.TransactionCompleted,
				map[string]any{"approval_fallback": true})
			if err != nil {
				return nil, err
			}
			s.publishPurchased(ctx, userID, amount, result.NewBalance)
			return result, nil
		}
		return nil, err
	}

	balanceBefore, err := s.repo.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	balanceAfter := model.Round2(balanceBefore + pending.Amount)
	var newBalance float64
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.CompleteTransaction(sessCtx, pending.ID, balanceAfter); err != nil {
			return err
		}
		var adjErr error
		newBalance, adjErr = s.repo.AdjustBalance(sessCtx, userID, pending.Amount)
		return adjErr
	})
	if err != nil {
		if errors.Is(err, crediterrors.ErrAlreadyCompleted) {
			// A concurrent approval already settled it.
			current, balErr := s.repo.Balance(ctx, userID)
			if balErr != nil {
				return nil, balErr
			}
			return &DeltaResult{NewBalance: model.Round2(current), TransactionID: pending.ID}, nil
		}
		return nil, err
	}
	s.verifyBalance(userID, balanceBefore, pending.Amount, newBalance)
	s.publishPurchased(ctx, userID, pending.Amount, newBalance)

	return &DeltaResult{
		NewBalance:    model.Round2(newBalance),
		TransactionID: pending.ID,
	}, nil
}

func (s *creditService) Balance(ctx context.Context, userID string) (float64, error) {
	balance, err := s.repo.Balance(ctx, userID)
	if err != nil {
		return 0, err
	}
	return model.Round2(balance), nil
}

func (s *creditService) Transactions(ctx context.Context, userID string, limit int, offset int64) ([]*model.CreditTransaction, int64, error) {
	transactions, err := s.repo.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.CountTransactions(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

func (s *creditService) publishPurchased(ctx context.Context, userID string, amount, newBalance float64) {
	if s.events == nil {
		return
	}
	if err := s.events.CreditsPurchased(ctx, userID, amount, newBalance); err != nil {
		s.cfg.Log.Error("Failed to publish credits purchased event",
			"user_id", userID,
			"amount", amount,
			"error", err,
		)
	}
}

func (s *creditService) verifyBalance(userID string, before, amount, returned float64) {
	expected := before + amount
	if math.Abs(returned-expected) > model.AmountTolerance {
		s.cfg.Log.Warn("Credit balance consistency mismatch after atomic mutation",
			"user_id", userID,
			"balance_before", before,
			"amount", amount,
			"expected_balance", expected,
			"returned_balance", returned,
		)
	}
}
