// ABOUTME: Tests for the payment recording workflow
// ABOUTME: Covers ledger insert, cart invalidation, idempotent retries, and shortfall reporting

package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sarkerlabs/fashion-backend/internal/store"
)

func seedCart(t *testing.T, mock *store.MockStore, email string, n int) []string {
	t.Helper()

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := mock.AddCartItem(t.Context(), &store.CartItem{Email: email, Price: 10})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestRecord_InsertsAndClearsCart(t *testing.T) {
	mock := store.NewMockStore()
	recorder := NewRecorder(mock, mock, nil)

	ids := seedCart(t, mock, "a@x.com", 2)

	receipt, err := recorder.Record(t.Context(), &store.Payment{
		Email:         "a@x.com",
		TransactionID: "tx_1",
		Price:         39.98,
		CartItemIDs:   ids,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.InsertedID)
	assert.False(t, receipt.Duplicate)
	assert.Equal(t, 2, receipt.RequestedDeletes)
	assert.Equal(t, int64(2), receipt.DeletedCount)

	// The consumed entries are gone from the live cart.
	items, err := mock.ListCartItems(t.Context(), "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, items)

	payments, err := mock.ListPayments(t.Context())
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 39.98, payments[0].Price)
}

func TestRecord_IdempotentByTransactionID(t *testing.T) {
	mock := store.NewMockStore()
	recorder := NewRecorder(mock, mock, nil)

	ids := seedCart(t, mock, "a@x.com", 2)
	payment := &store.Payment{
		Email:         "a@x.com",
		TransactionID: "tx_retry",
		Price:         20,
		CartItemIDs:   ids,
	}

	first, err := recorder.Record(t.Context(), payment)
	require.NoError(t, err)

	// Rerunning the same step must not duplicate the ledger entry.
	second, err := recorder.Record(t.Context(), payment)
	require.NoError(t, err)

	assert.True(t, second.Duplicate)
	assert.Equal(t, first.InsertedID, second.InsertedID)
	assert.Equal(t, int64(0), second.DeletedCount, "entries already deleted on the first run")

	payments, err := mock.ListPayments(t.Context())
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestRecord_ReportsDeleteShortfall(t *testing.T) {
	mock := store.NewMockStore()
	recorder := NewRecorder(mock, mock, nil)

	ids := seedCart(t, mock, "a@x.com", 1)
	// One requested id never existed; the delete count must expose the gap.
	ids = append(ids, "64a000000000000000000000")

	receipt, err := recorder.Record(t.Context(), &store.Payment{
		Email:       "a@x.com",
		Price:       10,
		CartItemIDs: ids,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, receipt.RequestedDeletes)
	assert.Equal(t, int64(1), receipt.DeletedCount)
}

func TestRecord_NoTransactionID(t *testing.T) {
	// Without an idempotency key every call appends; the source behavior.
	mock := store.NewMockStore()
	recorder := NewRecorder(mock, mock, nil)

	payment := &store.Payment{Email: "a@x.com", Price: 5}

	_, err := recorder.Record(t.Context(), payment)
	require.NoError(t, err)
	payment.ID = primitive.ObjectID{} // reset store-assigned id before reuse
	_, err = recorder.Record(t.Context(), payment)
	require.NoError(t, err)

	payments, err := mock.ListPayments(t.Context())
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}
