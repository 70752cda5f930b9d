package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-warehouse-ws/internal/model"
)

func TestCodeLocksSerializeSameCode(t *testing.T) {
	locks := NewCodeLocks()

	unlock := locks.Lock("P-100")

	acquired := make(chan struct{})
	go func() {
		defer locks.Lock("P-100")()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock for the same code acquired while the first is held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("lock was not released to the waiting goroutine")
	}
}

func TestCodeLocksIndependentCodes(t *testing.T) {
	locks := NewCodeLocks()

	unlock := locks.Lock("P-100")
	defer unlock()

	done := make(chan struct{})
	go func() {
		defer locks.Lock("P-200")()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock for an unrelated code blocked")
	}
}

func TestUpdateItemByCodeStockWriteTakesLock(t *testing.T) {
	db := setupTestDB(t)
	locks := NewCodeLocks()
	svc := newInventoryServiceWithLocks(db, locks)
	user := seedUser(t, db, "manager", model.RoleManager, "관리부")

	seedItem(t, db, "P-500", "A-1-01", 8, time.Now().Add(-time.Hour))

	unlock := locks.Lock("P-500")

	done := make(chan struct{})
	go func() {
		_, err := svc.UpdateItemByCode("P-500", map[string]interface{}{"stock": float64(3)}, user)
		assert.NoError(t, err)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("stock update ran while the code's lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stock update never acquired the released lock")
	}

	assert.Equal(t, 3, itemStockAt(t, db, "P-500", "A-1-01"))
}

// Exchange processing and transaction posting mutate the same stock rows, so
// both services must take the same per-code mutex.
func TestStockMutationsSerializedAcrossServices(t *testing.T) {
	db := setupTestDB(t)
	locks := NewCodeLocks()
	invSvc := newInventoryServiceWithLocks(db, locks)
	exSvc := newExchangeServiceWithLocks(db, locks)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	seedItem(t, db, "P-999", "A-1-01", 10, time.Now().Add(-time.Hour))

	_, err := invSvc.PostTransaction(&model.Transaction{
		Type:     model.TxOutbound,
		ItemCode: "P-999",
		ItemName: "테스트 부품 P-999",
		Quantity: 4,
		Reason:   model.ReasonDefectiveExchange,
	}, user)
	require.NoError(t, err)

	entry := pendingEntry(t, db, "P-999")

	// Hold the code's lock the way an in-flight outbound would
	unlock := locks.Lock("P-999")

	processed := make(chan error, 1)
	go func() {
		processed <- exSvc.Process(entry.ID, user)
	}()

	select {
	case <-processed:
		t.Fatal("exchange processing ran while the code's lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case err := <-processed:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("exchange processing never acquired the released lock")
	}

	assert.Equal(t, 10, itemStockAt(t, db, "P-999", "A-1-01"))
}
