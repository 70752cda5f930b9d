package service

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"go-warehouse-ws/internal/model"
)

var ErrInvalidBackup = errors.New("backup payload is malformed")

type SystemService interface {
	ResetData() error
	CreateBackup() (*BackupPayload, error)
	RestoreBackup(raw []byte, user *model.User) error
}

// BackupPayload is the full portable dataset. Users and files stay out of it
// so a restore never clobbers accounts or uploaded blobs.
type BackupPayload struct {
	Version      int                       `json:"version"`
	Items        []model.InventoryItem     `json:"items"`
	Transactions []model.Transaction       `json:"transactions"`
	BomGuides    []model.BomGuide          `json:"bom_guides"`
	Exchanges    []model.ExchangeQueueItem `json:"exchanges"`
}

type systemService struct {
	db *gorm.DB
}

func NewSystemService(db *gorm.DB) SystemService {
	return &systemService{db: db}
}

// ResetData truncates every domain table in one transaction. Accounts and the
// warehouse layout survive a reset.
func (s *systemService) ResetData() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		tables := []interface{}{
			&model.Transaction{},
			&model.ExchangeQueueItem{},
			&model.InventoryItem{},
			&model.BomGuide{},
			&model.WorkDiaryComment{},
			&model.WorkNotification{},
			&model.WorkDiary{},
			&model.StoredFile{},
		}
		for _, table := range tables {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *systemService) CreateBackup() (*BackupPayload, error) {
	payload := &BackupPayload{Version: 1}

	if err := s.db.Find(&payload.Items).Error; err != nil {
		return nil, err
	}
	if err := s.db.Find(&payload.Transactions).Error; err != nil {
		return nil, err
	}
	if err := s.db.Find(&payload.BomGuides).Error; err != nil {
		return nil, err
	}
	if err := s.db.Find(&payload.Exchanges).Error; err != nil {
		return nil, err
	}

	return payload, nil
}

// RestoreBackup replaces the inventory, ledger, BOM and exchange tables with
// the backup contents. All or nothing.
func (s *systemService) RestoreBackup(raw []byte, user *model.User) error {
	var payload BackupPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ErrInvalidBackup
	}
	if payload.Version != 1 {
		return ErrInvalidBackup
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []interface{}{
			&model.Transaction{},
			&model.ExchangeQueueItem{},
			&model.InventoryItem{},
			&model.BomGuide{},
		} {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return err
			}
		}

		for i := range payload.Items {
			payload.Items[i].UpdatedBy = user.Username
			if err := tx.Create(&payload.Items[i]).Error; err != nil {
				return err
			}
		}
		for i := range payload.Transactions {
			if err := tx.Create(&payload.Transactions[i]).Error; err != nil {
				return err
			}
		}
		for i := range payload.BomGuides {
			if err := tx.Create(&payload.BomGuides[i]).Error; err != nil {
				return err
			}
		}
		for i := range payload.Exchanges {
			if err := tx.Create(&payload.Exchanges[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
