package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-warehouse-ws/internal/model"
)

// setupTestDB opens a per-test in-memory database. The shared cache keeps the
// database alive across the pooled connections gorm opens.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.InventoryItem{},
		&model.Transaction{},
		&model.ExchangeQueueItem{},
		&model.BomGuide{},
		&model.WarehouseZone{},
		&model.WorkDiary{},
		&model.WorkDiaryComment{},
		&model.WorkNotification{},
		&model.StoredFile{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role, department string) *model.User {
	t.Helper()

	user := &model.User{
		Username:   username,
		Role:       role,
		Department: department,
		IsActive:   true,
	}
	model.ApplyRolePermissions(user, role)
	require.NoError(t, user.SetPassword("test1234"))
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedItem inserts an inventory row with an explicit creation time so tests
// control the stock deduction order.
func seedItem(t *testing.T, db *gorm.DB, code, location string, stock int, createdAt time.Time) *model.InventoryItem {
	t.Helper()

	item := &model.InventoryItem{
		Code:     code,
		Name:     "테스트 부품 " + code,
		Category: "부품",
		Stock:    stock,
		Unit:     "ea",
		Location: location,
	}
	item.CreatedAt = createdAt
	require.NoError(t, db.Create(item).Error)
	return item
}

func itemStockAt(t *testing.T, db *gorm.DB, code, location string) int {
	t.Helper()

	var item model.InventoryItem
	err := db.Where("code = ? AND location = ?", code, location).First(&item).Error
	require.NoError(t, err)
	return item.Stock
}

func ledgerCount(t *testing.T, db *gorm.DB, code string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Where("item_code = ?", code).Count(&count).Error)
	return count
}
