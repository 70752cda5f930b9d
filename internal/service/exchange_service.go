package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrQueueItemNotFound = errors.New("exchange queue item not found")

// originMatchWindow bounds the lookup for the outbound transaction that
// created a queue entry, disambiguating concurrent exchanges of the same code.
const originMatchWindow = 60 * time.Second

type ExchangeService interface {
	GetPending() ([]model.ExchangeQueueItem, error)
	Process(id uuid.UUID, user *model.User) error
}

type exchangeService struct {
	exchangeRepo repository.ExchangeRepository
	itemRepo     repository.ItemRepository
	txRepo       repository.TransactionRepository
	db           *gorm.DB
	locks        *CodeLocks
}

func NewExchangeService(exchangeRepo repository.ExchangeRepository, itemRepo repository.ItemRepository, txRepo repository.TransactionRepository, db *gorm.DB, locks *CodeLocks) ExchangeService {
	return &exchangeService{
		exchangeRepo: exchangeRepo,
		itemRepo:     itemRepo,
		txRepo:       txRepo,
		db:           db,
		locks:        locks,
	}
}

func (s *exchangeService) GetPending() ([]model.ExchangeQueueItem, error) {
	return s.exchangeRepo.FindPending()
}

// Process reconciles a returned exchange batch: the quantity goes back to the
// location(s) the originating outbound drained, a compensating inbound ledger
// entry is written, and the queue entry is flagged so a second call fails.
func (s *exchangeService) Process(id uuid.UUID, user *model.User) error {
	entry, err := s.exchangeRepo.FindUnprocessedByID(nil, id)
	if err != nil {
		return ErrQueueItemNotFound
	}

	unlock := s.locks.Lock(entry.ItemCode)
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Re-read under the lock; the entry may have been processed meanwhile
		entry, err := s.exchangeRepo.FindUnprocessedByID(tx, id)
		if err != nil {
			return ErrQueueItemNotFound
		}

		returnLocations := s.findOriginLocations(tx, entry)

		remaining := entry.Quantity
		if returnLocations != "" && strings.Contains(returnLocations, ",") {
			// Multi-location deduction: distribute the return as evenly as
			// possible, remainder to the first locations.
			locations := strings.Split(returnLocations, ",")
			for i := range locations {
				locations[i] = strings.TrimSpace(locations[i])
			}

			perLocation := remaining / len(locations)
			extra := remaining % len(locations)

			for i, loc := range locations {
				quantity := perLocation
				if i < extra {
					quantity++
				}
				if quantity == 0 {
					continue
				}
				if err := s.returnToLocation(tx, entry.ItemCode, loc, quantity, user.Username); err != nil {
					return err
				}
				remaining -= quantity
			}
		} else if returnLocations != "" {
			if err := s.returnToLocation(tx, entry.ItemCode, returnLocations, remaining, user.Username); err != nil {
				return err
			}
			remaining = 0
		}

		// No recoverable location, or rounding leftovers: first row of the code
		if remaining > 0 {
			items, err := s.itemRepo.FindAllByCode(tx, entry.ItemCode)
			if err != nil {
				return err
			}
			if len(items) > 0 {
				if err := s.itemRepo.UpdateStock(tx, items[0].ID, items[0].Stock+remaining, user.Username); err != nil {
					return err
				}
			}
		}

		toLocation := returnLocations
		if toLocation == "" {
			toLocation = "위치없음"
		}
		record := &model.Transaction{
			Type:       model.TxInbound,
			ItemCode:   entry.ItemCode,
			ItemName:   entry.ItemName,
			Quantity:   entry.Quantity,
			ToLocation: toLocation,
			Reason:     model.ReasonExchangeInbound,
			Memo:       fmt.Sprintf("교환대기목록 ID: %s에서 처리됨", entry.ID),
			UserID:     &user.ID,
		}
		record.CreatedBy = user.Username
		record.UpdatedBy = user.Username
		if err := s.txRepo.Create(tx, record); err != nil {
			return err
		}

		return s.exchangeRepo.MarkProcessed(tx, entry.ID)
	})
}

// findOriginLocations recovers the drained location list from the defective
// exchange outbound closest in time to the queue entry's creation.
func (s *exchangeService) findOriginLocations(tx *gorm.DB, entry *model.ExchangeQueueItem) string {
	history, err := s.txRepo.FindByItemCode(tx, entry.ItemCode)
	if err != nil {
		return ""
	}
	for _, past := range history { // newest first
		if past.Type != model.TxOutbound || past.Reason != model.ReasonDefectiveExchange {
			continue
		}
		delta := past.CreatedAt.Sub(entry.CreatedAt)
		if delta < 0 {
			delta = -delta
		}
		if delta < originMatchWindow {
			return past.FromLocation
		}
	}
	return ""
}

func (s *exchangeService) returnToLocation(tx *gorm.DB, itemCode, loc string, quantity int, updatedBy string) error {
	target, err := s.itemRepo.FindByCodeAndLocation(tx, itemCode, loc)
	if err == nil && target != nil {
		return s.itemRepo.UpdateStock(tx, target.ID, target.Stock+quantity, updatedBy)
	}

	items, err := s.itemRepo.FindAllByCode(tx, itemCode)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	clone := items[0].CloneAt(loc, quantity)
	clone.CreatedBy = updatedBy
	clone.UpdatedBy = updatedBy
	return s.itemRepo.Create(tx, clone)
}
