package repository

import (
	"go-warehouse-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository owns the per-location inventory rows. Mutating methods take a
// *gorm.DB so the transaction engine can run them inside one gorm transaction.
type ItemRepository interface {
	Create(tx *gorm.DB, item *model.InventoryItem) error
	FindAll() ([]model.InventoryItem, error)
	FindByID(id uuid.UUID) (*model.InventoryItem, error)
	FindByCode(code string) (*model.InventoryItem, error)
	FindAllByCode(tx *gorm.DB, code string) ([]model.InventoryItem, error)
	FindAvailableByCode(tx *gorm.DB, code string) ([]model.InventoryItem, error)
	FindByCodeAndLocation(tx *gorm.DB, code, location string) (*model.InventoryItem, error)
	UpdateByID(id uuid.UUID, updates map[string]interface{}) (*model.InventoryItem, error)
	UpdateByCode(code string, updates map[string]interface{}) (*model.InventoryItem, error)
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error
	UpdateLocation(tx *gorm.DB, id uuid.UUID, location, updatedBy string) error
	DeleteByCode(code string) (int64, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) tx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *itemRepo) Create(tx *gorm.DB, item *model.InventoryItem) error {
	return r.tx(tx).Create(item).Error
}

func (r *itemRepo) FindAll() ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByID(id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByCode returns the first row in insertion order. The code is not
// unique; callers that care about locations use FindAllByCode instead.
func (r *itemRepo) FindByCode(code string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.Where("code = ?", code).Order("created_at ASC").First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindAllByCode(tx *gorm.DB, code string) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.tx(tx).Where("code = ?", code).Order("created_at ASC").Find(&items).Error
	return items, err
}

// FindAvailableByCode returns rows with stock remaining, in insertion order.
// This ordering is what makes the outbound deduction FIFO.
func (r *itemRepo) FindAvailableByCode(tx *gorm.DB, code string) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.tx(tx).Where("code = ? AND stock > 0", code).Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByCodeAndLocation(tx *gorm.DB, code, location string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.tx(tx).Where("code = ? AND location = ?", code, location).Order("created_at ASC").First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) UpdateByID(id uuid.UUID, updates map[string]interface{}) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&item).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateByCode updates exactly the first matching row (legacy single-row call sites)
func (r *itemRepo) UpdateByCode(code string, updates map[string]interface{}) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.Where("code = ?", code).Order("created_at ASC").First(&item).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&item).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	return r.tx(tx).Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      newStock,
			"updated_by": updatedBy,
		}).Error
}

func (r *itemRepo) UpdateLocation(tx *gorm.DB, id uuid.UUID, location, updatedBy string) error {
	return r.tx(tx).Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"location":   location,
			"updated_by": updatedBy,
		}).Error
}

// DeleteByCode removes ALL rows carrying the code: the delete endpoint means
// "remove this product", locations included.
func (r *itemRepo) DeleteByCode(code string) (int64, error) {
	result := r.db.Where("code = ?", code).Delete(&model.InventoryItem{})
	return result.RowsAffected, result.Error
}
