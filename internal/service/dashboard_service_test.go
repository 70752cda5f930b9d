package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
)

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(
		repository.NewItemRepo(db),
		repository.NewTransactionRepo(db),
		repository.NewExchangeRepo(db),
	)

	base := time.Now().Add(-time.Hour)

	// One product split across two locations: 3+4=7 against min 10 is low
	low1 := seedItem(t, db, "P-300", "A-1-01", 3, base)
	require.NoError(t, db.Model(low1).Update("min_stock", 10).Error)
	seedItem(t, db, "P-300", "B-1-01", 4, base.Add(time.Minute))

	// Healthy product: aggregate 12 over min 5
	ok1 := seedItem(t, db, "P-301", "A-2-01", 12, base)
	require.NoError(t, db.Model(ok1).Update("min_stock", 5).Error)

	// No threshold set means never low
	seedItem(t, db, "P-302", "C-1-01", 0, base)

	entry := &model.ExchangeQueueItem{ItemCode: "P-300", ItemName: "테스트", Quantity: 1, OutboundDate: time.Now()}
	require.NoError(t, db.Create(entry).Error)

	stats, err := svc.GetStats()
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 19, stats.TotalStock)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 1, stats.PendingExchange)
}
