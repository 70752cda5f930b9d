package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
)

func newInventoryService(db *gorm.DB) InventoryService {
	return newInventoryServiceWithLocks(db, NewCodeLocks())
}

func newInventoryServiceWithLocks(db *gorm.DB, locks *CodeLocks) InventoryService {
	return NewInventoryService(
		repository.NewItemRepo(db),
		repository.NewTransactionRepo(db),
		repository.NewExchangeRepo(db),
		db,
		nil,
		locks,
	)
}

func TestPostTransaction_OutboundFIFO(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	base := time.Now().Add(-time.Hour)
	seedItem(t, db, "P-100", "A-1-01", 3, base)
	seedItem(t, db, "P-100", "B-1-01", 5, base.Add(time.Minute))

	tx, err := svc.PostTransaction(&model.Transaction{
		Type:     model.TxOutbound,
		ItemCode: "P-100",
		ItemName: "테스트 부품 P-100",
		Quantity: 6,
	}, user)
	require.NoError(t, err)

	// Oldest row drains first, the rest comes from the next row
	assert.Equal(t, 0, itemStockAt(t, db, "P-100", "A-1-01"))
	assert.Equal(t, 2, itemStockAt(t, db, "P-100", "B-1-01"))
	assert.Equal(t, "A-1-01, B-1-01", tx.FromLocation)
	assert.EqualValues(t, 1, ledgerCount(t, db, "P-100"))
}

func TestPostTransaction_OutboundPartialRowUntouched(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	base := time.Now().Add(-time.Hour)
	seedItem(t, db, "P-101", "A-1-01", 4, base)
	seedItem(t, db, "P-101", "B-1-01", 4, base.Add(time.Minute))

	tx, err := svc.PostTransaction(&model.Transaction{
		Type:     model.TxOutbound,
		ItemCode: "P-101",
		ItemName: "테스트 부품 P-101",
		Quantity: 3,
	}, user)
	require.NoError(t, err)

	assert.Equal(t, 1, itemStockAt(t, db, "P-101", "A-1-01"))
	assert.Equal(t, 4, itemStockAt(t, db, "P-101", "B-1-01"))
	assert.Equal(t, "A-1-01", tx.FromLocation)
}

func TestPostTransaction_InsufficientStockRollsBack(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	base := time.Now().Add(-time.Hour)
	seedItem(t, db, "P-102", "A-1-01", 3, base)
	seedItem(t, db, "P-102", "B-1-01", 2, base.Add(time.Minute))

	_, err := svc.PostTransaction(&model.Transaction{
		Type:     model.TxOutbound,
		ItemCode: "P-102",
		ItemName: "테스트 부품 P-102",
		Quantity: 6,
	}, user)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing was written: no row changed, no ledger entry
	assert.Equal(t, 3, itemStockAt(t, db, "P-102", "A-1-01"))
	assert.Equal(t, 2, itemStockAt(t, db, "P-102", "B-1-01"))
	assert.EqualValues(t, 0, ledgerCount(t, db, "P-102"))
}

func TestPostTransaction_DefectiveExchangeEnqueues(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	seedItem(t, db, "P-103", "C-2-01", 5, time.Now().Add(-time.Hour))

	_, err := svc.PostTransaction(&model.Transaction{
		Type:     model.TxOutbound,
		ItemCode: "P-103",
		ItemName: "테스트 부품 P-103",
		Quantity: 3,
		Reason:   model.ReasonDefectiveExchange,
	}, user)
	require.NoError(t, err)

	assert.Equal(t, 2, itemStockAt(t, db, "P-103", "C-2-01"))

	var entries []model.ExchangeQueueItem
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "P-103", entries[0].ItemCode)
	assert.Equal(t, 3, entries[0].Quantity)
	assert.False(t, entries[0].Processed)
}

func TestPostTransaction_LineSideMoveDeductsOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	seedItem(t, db, "P-104", "A-3-01", 10, time.Now().Add(-time.Hour))

	_, err := svc.PostTransaction(&model.Transaction{
		Type:     model.TxOutbound,
		ItemCode: "P-104",
		ItemName: "테스트 부품 P-104",
		Quantity: 4,
		Reason:   model.ReasonLineSideMove,
	}, user)
	require.NoError(t, err)

	assert.Equal(t, 6, itemStockAt(t, db, "P-104", "A-3-01"))

	// No queue entry for a plain line-side move
	var count int64
	require.NoError(t, db.Model(&model.ExchangeQueueItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestPostTransaction_OutboundReturn(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	seedItem(t, db, "P-105", "B-2-03", 5, time.Now().Add(-time.Hour))

	_, err := svc.PostTransaction(&model.Transaction{
		Type:     model.TxOutbound,
		ItemCode: "P-105",
		ItemName: "테스트 부품 P-105",
		Quantity: 2,
	}, user)
	require.NoError(t, err)
	require.Equal(t, 3, itemStockAt(t, db, "P-105", "B-2-03"))

	// Return lands at the source location of the most recent outbound
	_, err = svc.PostTransaction(&model.Transaction{
		Type:     model.TxOutbound,
		ItemCode: "P-105",
		ItemName: "테스트 부품 P-105",
		Quantity: 2,
		Reason:   model.ReasonOutboundReturn,
	}, user)
	require.NoError(t, err)

	assert.Equal(t, 5, itemStockAt(t, db, "P-105", "B-2-03"))
}

func TestPostTransaction_MoveFullRewritesLocation(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	seedItem(t, db, "P-106", "A-1-01", 4, time.Now().Add(-time.Hour))

	_, err := svc.PostTransaction(&model.Transaction{
		Type:         model.TxMove,
		ItemCode:     "P-106",
		ItemName:     "테스트 부품 P-106",
		Quantity:     4,
		FromLocation: "A-1-01",
		ToLocation:   "D-5-02",
	}, user)
	require.NoError(t, err)

	// One row, relocated in place
	var count int64
	require.NoError(t, db.Model(&model.InventoryItem{}).Where("code = ?", "P-106").Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 4, itemStockAt(t, db, "P-106", "D-5-02"))
}

func TestPostTransaction_MovePartialSplitsRow(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	seedItem(t, db, "P-107", "A-1-01", 5, time.Now().Add(-time.Hour))

	_, err := svc.PostTransaction(&model.Transaction{
		Type:         model.TxMove,
		ItemCode:     "P-107",
		ItemName:     "테스트 부품 P-107",
		Quantity:     2,
		FromLocation: "A-1-01",
		ToLocation:   "B-1-01",
	}, user)
	require.NoError(t, err)

	assert.Equal(t, 3, itemStockAt(t, db, "P-107", "A-1-01"))
	assert.Equal(t, 2, itemStockAt(t, db, "P-107", "B-1-01"))

	// A second partial move to the same destination merges into the row
	_, err = svc.PostTransaction(&model.Transaction{
		Type:         model.TxMove,
		ItemCode:     "P-107",
		ItemName:     "테스트 부품 P-107",
		Quantity:     1,
		FromLocation: "A-1-01",
		ToLocation:   "B-1-01",
	}, user)
	require.NoError(t, err)

	assert.Equal(t, 2, itemStockAt(t, db, "P-107", "A-1-01"))
	assert.Equal(t, 3, itemStockAt(t, db, "P-107", "B-1-01"))

	var count int64
	require.NoError(t, db.Model(&model.InventoryItem{}).Where("code = ?", "P-107").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestPostTransaction_MoveSourceMissing(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	seedItem(t, db, "P-108", "A-1-01", 1, time.Now().Add(-time.Hour))

	_, err := svc.PostTransaction(&model.Transaction{
		Type:         model.TxMove,
		ItemCode:     "P-108",
		ItemName:     "테스트 부품 P-108",
		Quantity:     2,
		FromLocation: "A-1-01",
		ToLocation:   "B-1-01",
	}, user)
	require.ErrorIs(t, err, ErrSourceNotFound)
	assert.EqualValues(t, 0, ledgerCount(t, db, "P-108"))
}

func TestPostTransaction_RejectsMalformedLocation(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	seedItem(t, db, "P-112", "A-1-01", 5, time.Now().Add(-time.Hour))

	_, err := svc.PostTransaction(&model.Transaction{
		Type:         model.TxMove,
		ItemCode:     "P-112",
		ItemName:     "테스트 부품 P-112",
		Quantity:     2,
		FromLocation: "A-1-01",
		ToLocation:   "창고안쪽",
	}, user)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location_code")

	assert.Equal(t, 5, itemStockAt(t, db, "P-112", "A-1-01"))
	assert.EqualValues(t, 0, ledgerCount(t, db, "P-112"))
}

func TestPostTransaction_AdjustmentSetsAbsoluteValue(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "manager", model.RoleManager, "관리부")

	seedItem(t, db, "P-109", "A-2-01", 12, time.Now().Add(-time.Hour))

	_, err := svc.PostTransaction(&model.Transaction{
		Type:     model.TxAdjustment,
		ItemCode: "P-109",
		ItemName: "테스트 부품 P-109",
		Quantity: 7,
	}, user)
	require.NoError(t, err)

	// Posted quantity is the new value, not a delta
	assert.Equal(t, 7, itemStockAt(t, db, "P-109", "A-2-01"))
}

func TestAdjustStockByID(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "manager", model.RoleManager, "관리부")

	item := seedItem(t, db, "P-110", "C-1-01", 10, time.Now().Add(-time.Hour))

	result, err := svc.AdjustStockByID(item.ID, 7, "파손", user)
	require.NoError(t, err)

	assert.Equal(t, 10, result.OldStock)
	assert.Equal(t, 7, result.NewStock)
	assert.Equal(t, -3, result.Difference)
	assert.Equal(t, 7, itemStockAt(t, db, "P-110", "C-1-01"))

	var record model.Transaction
	require.NoError(t, db.Where("item_code = ?", "P-110").First(&record).Error)
	assert.Equal(t, model.TxAdjustment, record.Type)
	assert.Equal(t, 3, record.Quantity)
	assert.Equal(t, "재고 조정 (파손): 10 → 7", record.Reason)
	assert.Equal(t, "C-1-01", record.ToLocation)
}

func TestAdjustStockByID_RejectsInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "manager", model.RoleManager, "관리부")

	item := seedItem(t, db, "P-111", "C-1-01", 4, time.Now().Add(-time.Hour))

	_, err := svc.AdjustStockByID(item.ID, -1, "오류", user)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AdjustStockByID(item.ID, 3, "", user)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateOrMergeItem(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)
	user := seedUser(t, db, "worker", model.RoleUser, "생산부")

	created, merged, err := svc.CreateOrMergeItem(&model.InventoryItem{
		Code:     "P-112",
		Name:     "테스트 부품 P-112",
		Category: "부품",
		Stock:    5,
		Unit:     "ea",
		Location: "A-1-01",
	}, user)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, 5, created.Stock)

	// Same code merges regardless of submitted location
	second, merged, err := svc.CreateOrMergeItem(&model.InventoryItem{
		Code:     "P-112",
		Name:     "테스트 부품 P-112",
		Category: "부품",
		Stock:    3,
		Unit:     "ea",
		Location: "B-1-01",
	}, user)
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, 8, second.Stock)

	var count int64
	require.NoError(t, db.Model(&model.InventoryItem{}).Where("code = ?", "P-112").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteItemByCode_RemovesAllRows(t *testing.T) {
	db := setupTestDB(t)
	svc := newInventoryService(db)

	base := time.Now().Add(-time.Hour)
	seedItem(t, db, "P-113", "A-1-01", 2, base)
	seedItem(t, db, "P-113", "B-1-01", 3, base.Add(time.Minute))

	require.NoError(t, svc.DeleteItemByCode("P-113"))

	var count int64
	require.NoError(t, db.Model(&model.InventoryItem{}).Where("code = ?", "P-113").Count(&count).Error)
	assert.EqualValues(t, 0, count)

	assert.ErrorIs(t, svc.DeleteItemByCode("P-113"), ErrItemNotFound)
}
