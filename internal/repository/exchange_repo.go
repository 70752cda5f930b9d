package repository

import (
	"go-warehouse-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExchangeRepository interface {
	Create(tx *gorm.DB, item *model.ExchangeQueueItem) error
	FindPending() ([]model.ExchangeQueueItem, error)
	FindUnprocessedByID(tx *gorm.DB, id uuid.UUID) (*model.ExchangeQueueItem, error)
	MarkProcessed(tx *gorm.DB, id uuid.UUID) error
}

type exchangeRepo struct {
	db *gorm.DB
}

func NewExchangeRepo(db *gorm.DB) ExchangeRepository {
	return &exchangeRepo{db}
}

func (r *exchangeRepo) tx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *exchangeRepo) Create(tx *gorm.DB, item *model.ExchangeQueueItem) error {
	return r.tx(tx).Create(item).Error
}

// FindPending excludes processed entries; a processed entry is invisible to
// subsequent queries, which is what makes reprocessing fail as not-found.
func (r *exchangeRepo) FindPending() ([]model.ExchangeQueueItem, error) {
	var items []model.ExchangeQueueItem
	err := r.db.Where("processed = ?", false).Order("outbound_date ASC").Find(&items).Error
	return items, err
}

func (r *exchangeRepo) FindUnprocessedByID(tx *gorm.DB, id uuid.UUID) (*model.ExchangeQueueItem, error) {
	var item model.ExchangeQueueItem
	if err := r.tx(tx).Where("id = ? AND processed = ?", id, false).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *exchangeRepo) MarkProcessed(tx *gorm.DB, id uuid.UUID) error {
	return r.tx(tx).Model(&model.ExchangeQueueItem{}).Where("id = ?", id).Update("processed", true).Error
}
