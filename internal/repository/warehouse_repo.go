package repository

import (
	"go-warehouse-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WarehouseRepository interface {
	FindAll() ([]model.WarehouseZone, error)
	Create(zone *model.WarehouseZone) error
	Update(id uuid.UUID, updates map[string]interface{}) (*model.WarehouseZone, error)
	Delete(id uuid.UUID) error
	Count() (int64, error)
}

type warehouseRepo struct {
	db *gorm.DB
}

func NewWarehouseRepo(db *gorm.DB) WarehouseRepository {
	return &warehouseRepo{db}
}

func (r *warehouseRepo) FindAll() ([]model.WarehouseZone, error) {
	var zones []model.WarehouseZone
	err := r.db.Order("zone_name ASC, sub_zone_name ASC").Find(&zones).Error
	return zones, err
}

func (r *warehouseRepo) Create(zone *model.WarehouseZone) error {
	return r.db.Create(zone).Error
}

func (r *warehouseRepo) Update(id uuid.UUID, updates map[string]interface{}) (*model.WarehouseZone, error) {
	var zone model.WarehouseZone
	if err := r.db.First(&zone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&zone).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *warehouseRepo) Delete(id uuid.UUID) error {
	result := r.db.Delete(&model.WarehouseZone{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *warehouseRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.WarehouseZone{}).Count(&count).Error
	return count, err
}
