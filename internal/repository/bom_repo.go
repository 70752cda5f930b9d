package repository

import (
	"go-warehouse-ws/internal/model"

	"gorm.io/gorm"
)

type BomRepository interface {
	FindAll() ([]model.BomGuide, error)
	FindByGuideName(guideName string) ([]model.BomGuide, error)
	Create(bom *model.BomGuide) error
	DeleteByGuideName(guideName string) (int64, error)
}

type bomRepo struct {
	db *gorm.DB
}

func NewBomRepo(db *gorm.DB) BomRepository {
	return &bomRepo{db}
}

func (r *bomRepo) FindAll() ([]model.BomGuide, error) {
	var guides []model.BomGuide
	err := r.db.Order("guide_name ASC, created_at ASC").Find(&guides).Error
	return guides, err
}

func (r *bomRepo) FindByGuideName(guideName string) ([]model.BomGuide, error) {
	var guides []model.BomGuide
	err := r.db.Where("guide_name = ?", guideName).Order("created_at ASC").Find(&guides).Error
	return guides, err
}

func (r *bomRepo) Create(bom *model.BomGuide) error {
	return r.db.Create(bom).Error
}

func (r *bomRepo) DeleteByGuideName(guideName string) (int64, error) {
	result := r.db.Where("guide_name = ?", guideName).Delete(&model.BomGuide{})
	return result.RowsAffected, result.Error
}
