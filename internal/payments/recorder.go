// ABOUTME: Payment recording workflow: ledger insert plus cart invalidation
// ABOUTME: Idempotent by transaction id so the two-step write is safely re-runnable

package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarkerlabs/fashion-backend/internal/store"
)

// Receipt reports both halves of the recording workflow. The two writes are
// not atomic: InsertedID can be set while DeletedCount falls short of
// RequestedDeletes if the cart delete failed partway. Callers detecting a
// shortfall can simply re-run Record: the insert is idempotent and deleting
// already-gone cart entries is a no-op.
type Receipt struct {
	InsertedID       string
	Duplicate        bool
	RequestedDeletes int
	DeletedCount     int64
}

// Recorder persists completed payments and invalidates the cart entries they
// consumed.
type Recorder struct {
	payments store.PaymentStore
	carts    store.CartStore
	logger   *slog.Logger
}

// NewRecorder creates a Recorder over the payment ledger and cart stores.
func NewRecorder(payments store.PaymentStore, carts store.CartStore, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		payments: payments,
		carts:    carts,
		logger:   logger.With("component", "payments"),
	}
}

// Record appends the payment to the ledger, then deletes every cart entry it
// consumed. The processor transaction id doubles as an idempotency key: a
// payment already recorded under the same id is not inserted again, but the
// cart delete still runs so a retry after a partial failure converges.
func (r *Recorder) Record(ctx context.Context, payment *store.Payment) (*Receipt, error) {
	receipt := &Receipt{RequestedDeletes: len(payment.CartItemIDs)}

	if payment.TransactionID != "" {
		existing, err := r.payments.GetPaymentByTransactionID(ctx, payment.TransactionID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("checking for recorded payment: %w", err)
		}
		if existing != nil {
			receipt.Duplicate = true
			receipt.InsertedID = existing.ID.Hex()
			r.logger.Info("payment already recorded, skipping insert",
				"transaction_id", payment.TransactionID,
			)
		}
	}

	if !receipt.Duplicate {
		id, err := r.payments.InsertPayment(ctx, payment)
		if err != nil {
			return nil, fmt.Errorf("recording payment: %w", err)
		}
		receipt.InsertedID = id
	}

	deleted, err := r.carts.DeleteCartItems(ctx, payment.CartItemIDs)
	if err != nil {
		// The ledger write stands; surfacing the error lets the caller retry
		// the whole step.
		return nil, fmt.Errorf("invalidating cart after payment %s: %w", receipt.InsertedID, err)
	}
	receipt.DeletedCount = deleted

	if deleted < int64(receipt.RequestedDeletes) && !receipt.Duplicate {
		r.logger.Warn("cart invalidation fell short",
			"payment_id", receipt.InsertedID,
			"requested", receipt.RequestedDeletes,
			"deleted", deleted,
		)
	}

	r.logger.Info("payment recorded",
		"payment_id", receipt.InsertedID,
		"email", payment.Email,
		"price", payment.Price,
		"cart_items_deleted", deleted,
	)

	return receipt, nil
}
