package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
)

func newExchangeService(db *gorm.DB) ExchangeService {
	return newExchangeServiceWithLocks(db, NewCodeLocks())
}

func newExchangeServiceWithLocks(db *gorm.DB, locks *CodeLocks) ExchangeService {
	return NewExchangeService(
		repository.NewExchangeRepo(db),
		repository.NewItemRepo(db),
		repository.NewTransactionRepo(db),
		db,
		locks,
	)
}

func pendingEntry(t *testing.T, db *gorm.DB, code string) *model.ExchangeQueueItem {
	t.Helper()

	var entry model.ExchangeQueueItem
	require.NoError(t, db.Where("item_code = ? AND processed = ?", code, false).First(&entry).Error)
	return &entry
}

func TestExchangeRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	invSvc := newInventoryService(db)
	exSvc := newExchangeService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	seedItem(t, db, "P-200", "C-3-01", 5, time.Now().Add(-time.Hour))

	_, err := invSvc.PostTransaction(&model.Transaction{
		Type:     model.TxOutbound,
		ItemCode: "P-200",
		ItemName: "테스트 부품 P-200",
		Quantity: 3,
		Reason:   model.ReasonDefectiveExchange,
	}, user)
	require.NoError(t, err)
	require.Equal(t, 2, itemStockAt(t, db, "P-200", "C-3-01"))

	entry := pendingEntry(t, db, "P-200")
	require.NoError(t, exSvc.Process(entry.ID, user))

	// Replacement stock is back at the drained location
	assert.Equal(t, 5, itemStockAt(t, db, "P-200", "C-3-01"))

	var inbound model.Transaction
	require.NoError(t, db.Where("item_code = ? AND type = ?", "P-200", model.TxInbound).First(&inbound).Error)
	assert.Equal(t, model.ReasonExchangeInbound, inbound.Reason)
	assert.Equal(t, "C-3-01", inbound.ToLocation)
	assert.Equal(t, 3, inbound.Quantity)
	assert.Equal(t, fmt.Sprintf("교환대기목록 ID: %s에서 처리됨", entry.ID), inbound.Memo)

	// The entry is flagged, a second processing attempt fails
	assert.ErrorIs(t, exSvc.Process(entry.ID, user), ErrQueueItemNotFound)
}

func TestExchangeMultiLocationSplit(t *testing.T) {
	db := setupTestDB(t)
	invSvc := newInventoryService(db)
	exSvc := newExchangeService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	base := time.Now().Add(-time.Hour)
	seedItem(t, db, "P-201", "A-1-01", 2, base)
	seedItem(t, db, "P-201", "B-1-01", 3, base.Add(time.Minute))

	tx, err := invSvc.PostTransaction(&model.Transaction{
		Type:     model.TxOutbound,
		ItemCode: "P-201",
		ItemName: "테스트 부품 P-201",
		Quantity: 4,
		Reason:   model.ReasonDefectiveExchange,
	}, user)
	require.NoError(t, err)
	require.Equal(t, "A-1-01, B-1-01", tx.FromLocation)
	require.Equal(t, 0, itemStockAt(t, db, "P-201", "A-1-01"))
	require.Equal(t, 1, itemStockAt(t, db, "P-201", "B-1-01"))

	entry := pendingEntry(t, db, "P-201")
	require.NoError(t, exSvc.Process(entry.ID, user))

	// Four units split evenly across the two drained locations
	assert.Equal(t, 2, itemStockAt(t, db, "P-201", "A-1-01"))
	assert.Equal(t, 3, itemStockAt(t, db, "P-201", "B-1-01"))

	var inbound model.Transaction
	require.NoError(t, db.Where("item_code = ? AND type = ?", "P-201", model.TxInbound).First(&inbound).Error)
	assert.Equal(t, "A-1-01, B-1-01", inbound.ToLocation)
}

func TestExchangeUnevenSplitRemainderToFirst(t *testing.T) {
	db := setupTestDB(t)
	invSvc := newInventoryService(db)
	exSvc := newExchangeService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	base := time.Now().Add(-time.Hour)
	seedItem(t, db, "P-202", "A-1-01", 3, base)
	seedItem(t, db, "P-202", "B-1-01", 3, base.Add(time.Minute))

	_, err := invSvc.PostTransaction(&model.Transaction{
		Type:     model.TxOutbound,
		ItemCode: "P-202",
		ItemName: "테스트 부품 P-202",
		Quantity: 5,
		Reason:   model.ReasonDefectiveExchange,
	}, user)
	require.NoError(t, err)

	entry := pendingEntry(t, db, "P-202")
	require.NoError(t, exSvc.Process(entry.ID, user))

	// floor(5/2)=2 each, remainder 1 to the first location
	assert.Equal(t, 3, itemStockAt(t, db, "P-202", "A-1-01"))
	assert.Equal(t, 3, itemStockAt(t, db, "P-202", "B-1-01"))
}

func TestExchangeNoOriginFallsBackToFirstRow(t *testing.T) {
	db := setupTestDB(t)
	exSvc := newExchangeService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	seedItem(t, db, "P-203", "D-1-01", 1, time.Now().Add(-time.Hour))

	// Queue entry without a matching outbound inside the time window
	entry := &model.ExchangeQueueItem{
		ItemCode:     "P-203",
		ItemName:     "테스트 부품 P-203",
		Quantity:     2,
		OutboundDate: time.Now().Add(-2 * time.Hour),
	}
	entry.CreatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Create(entry).Error)

	require.NoError(t, exSvc.Process(entry.ID, user))

	assert.Equal(t, 3, itemStockAt(t, db, "P-203", "D-1-01"))

	var inbound model.Transaction
	require.NoError(t, db.Where("item_code = ? AND type = ?", "P-203", model.TxInbound).First(&inbound).Error)
	assert.Equal(t, "위치없음", inbound.ToLocation)
}

func TestGetPendingExcludesProcessed(t *testing.T) {
	db := setupTestDB(t)
	invSvc := newInventoryService(db)
	exSvc := newExchangeService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	seedItem(t, db, "P-204", "A-1-01", 10, time.Now().Add(-time.Hour))

	for i := 0; i < 2; i++ {
		_, err := invSvc.PostTransaction(&model.Transaction{
			Type:     model.TxOutbound,
			ItemCode: "P-204",
			ItemName: "테스트 부품 P-204",
			Quantity: 2,
			Reason:   model.ReasonDefectiveExchange,
		}, user)
		require.NoError(t, err)
	}

	pending, err := exSvc.GetPending()
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, exSvc.Process(pending[0].ID, user))

	pending, err = exSvc.GetPending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
