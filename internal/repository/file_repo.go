package repository

import (
	"go-warehouse-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileRepository interface {
	FindAll() ([]model.StoredFile, error)
	FindByID(id uuid.UUID) (*model.StoredFile, error)
	Create(file *model.StoredFile) error
	Delete(id uuid.UUID) error
}

type fileRepo struct {
	db *gorm.DB
}

func NewFileRepo(db *gorm.DB) FileRepository {
	return &fileRepo{db}
}

func (r *fileRepo) FindAll() ([]model.StoredFile, error) {
	var files []model.StoredFile
	err := r.db.Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *fileRepo) FindByID(id uuid.UUID) (*model.StoredFile, error) {
	var file model.StoredFile
	if err := r.db.First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepo) Create(file *model.StoredFile) error {
	return r.db.Create(file).Error
}

func (r *fileRepo) Delete(id uuid.UUID) error {
	result := r.db.Delete(&model.StoredFile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
