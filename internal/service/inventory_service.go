package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
	"go-warehouse-ws/internal/ws"
	"go-warehouse-ws/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSourceNotFound    = errors.New("source item not found or insufficient stock")
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidInput      = errors.New("invalid input")
)

// AdjustResult reports a by-id stock correction
type AdjustResult struct {
	Item       *model.InventoryItem `json:"item"`
	OldStock   int                  `json:"old_stock"`
	NewStock   int                  `json:"new_stock"`
	Difference int                  `json:"difference"`
}

type InventoryService interface {
	GetAllItems() ([]model.InventoryItem, error)
	GetItemByCode(code string) (*model.InventoryItem, error)
	CreateOrMergeItem(req *model.InventoryItem, user *model.User) (*model.InventoryItem, bool, error)
	UpdateItemByCode(code string, updates map[string]interface{}, user *model.User) (*model.InventoryItem, error)
	DeleteItemByCode(code string) error
	AdjustStockByID(id uuid.UUID, newStock int, reason string, user *model.User) (*AdjustResult, error)

	PostTransaction(req *model.Transaction, user *model.User) (*model.Transaction, error)
	GetAllTransactions() ([]model.Transaction, error)
	GetTransactionsByItemCode(itemCode string) ([]model.Transaction, error)
	GetTransactionByID(id uuid.UUID) (*model.Transaction, error)
}

type inventoryService struct {
	itemRepo     repository.ItemRepository
	txRepo       repository.TransactionRepository
	exchangeRepo repository.ExchangeRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	locks        *CodeLocks
}

func NewInventoryService(itemRepo repository.ItemRepository, txRepo repository.TransactionRepository, exchangeRepo repository.ExchangeRepository, db *gorm.DB, hub *ws.Hub, locks *CodeLocks) InventoryService {
	return &inventoryService{
		itemRepo:     itemRepo,
		txRepo:       txRepo,
		exchangeRepo: exchangeRepo,
		db:           db,
		wsHub:        hub,
		locks:        locks,
	}
}

func (s *inventoryService) GetAllItems() ([]model.InventoryItem, error) {
	return s.itemRepo.FindAll()
}

func (s *inventoryService) GetItemByCode(code string) (*model.InventoryItem, error) {
	item, err := s.itemRepo.FindByCode(code)
	if err != nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// CreateOrMergeItem implements the inbound stock path: an existing row with
// the same code (any location) absorbs the quantity and takes the submitted
// fields; otherwise a fresh row is inserted. Returns whether a merge happened.
func (s *inventoryService) CreateOrMergeItem(req *model.InventoryItem, user *model.User) (*model.InventoryItem, bool, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, false, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	unlock := s.locks.Lock(req.Code)
	defer unlock()

	existing, err := s.itemRepo.FindByCode(req.Code)
	if err == nil && existing != nil {
		updated, err := s.itemRepo.UpdateByID(existing.ID, map[string]interface{}{
			"stock":        existing.Stock + req.Stock,
			"name":         req.Name,
			"category":     req.Category,
			"manufacturer": req.Manufacturer,
			"unit":         req.Unit,
			"location":     req.Location,
			"min_stock":    req.MinStock,
			"box_size":     req.BoxSize,
			"updated_by":   user.Username,
		})
		if err != nil {
			return nil, false, err
		}
		s.broadcastStockUpdate("item_merged", updated, user)
		return updated, true, nil
	}

	req.CreatedBy = user.Username
	req.UpdatedBy = user.Username
	if err := s.itemRepo.Create(nil, req); err != nil {
		return nil, false, err
	}
	s.broadcastStockUpdate("item_created", req, user)
	return req, false, nil
}

func (s *inventoryService) UpdateItemByCode(code string, updates map[string]interface{}, user *model.User) (*model.InventoryItem, error) {
	if stock, ok := updates["stock"]; ok {
		if v, ok := stock.(float64); ok && v < 0 {
			return nil, ErrInvalidInput
		}
		// Stock writes go under the code's mutex like every other mutation
		unlock := s.locks.Lock(code)
		defer unlock()
	}
	updates["updated_by"] = user.Username
	item, err := s.itemRepo.UpdateByCode(code, updates)
	if err != nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (s *inventoryService) DeleteItemByCode(code string) error {
	affected, err := s.itemRepo.DeleteByCode(code)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// AdjustStockByID is the admin correction path: the row's stock is set to the
// absolute new value, and the ledger records the absolute difference with a
// formatted reason. Distinct from the adjustment transaction-post path, which
// treats the posted quantity as the new value.
func (s *inventoryService) AdjustStockByID(id uuid.UUID, newStock int, reason string, user *model.User) (*AdjustResult, error) {
	if newStock < 0 || reason == "" {
		return nil, ErrInvalidInput
	}

	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	unlock := s.locks.Lock(item.Code)
	defer unlock()

	oldStock := item.Stock
	difference := newStock - oldStock

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.itemRepo.UpdateStock(tx, item.ID, newStock, user.Username); err != nil {
			return err
		}

		record := &model.Transaction{
			Type:       model.TxAdjustment,
			ItemCode:   item.Code,
			ItemName:   item.Name,
			Quantity:   abs(difference),
			Reason:     fmt.Sprintf("재고 조정 (%s): %d → %d", reason, oldStock, newStock),
			ToLocation: item.Location,
			UserID:     &user.ID,
		}
		record.CreatedBy = user.Username
		record.UpdatedBy = user.Username
		return s.txRepo.Create(tx, record)
	})
	if err != nil {
		return nil, err
	}

	item.Stock = newStock
	s.broadcastStockUpdate("stock_adjusted", item, user)

	return &AdjustResult{Item: item, OldStock: oldStock, NewStock: newStock, Difference: difference}, nil
}

// PostTransaction applies a transaction request to the inventory rows and
// appends the ledger entry. All mutations run inside one database transaction
// under the item code's mutex, so a failed check rolls everything back.
func (s *inventoryService) PostTransaction(req *model.Transaction, user *model.User) (*model.Transaction, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	unlock := s.locks.Lock(req.ItemCode)
	defer unlock()

	req.UserID = &user.ID
	req.CreatedBy = user.Username
	req.UpdatedBy = user.Username

	err := s.db.Transaction(func(tx *gorm.DB) error {
		switch req.Type {
		case model.TxInbound:
			// Ledger only. Inbound stock enters through the inventory
			// create/merge endpoint, not through the transaction post.

		case model.TxOutbound:
			if err := s.applyOutbound(tx, req); err != nil {
				return err
			}

		case model.TxMove:
			if err := s.applyMove(tx, req); err != nil {
				return err
			}

		case model.TxAdjustment:
			if err := s.applyAdjustment(tx, req); err != nil {
				return err
			}
		}

		return s.txRepo.Create(tx, req)
	})
	if err != nil {
		return nil, err
	}

	s.broadcastTransaction(req, user)
	return req, nil
}

func (s *inventoryService) applyOutbound(tx *gorm.DB, req *model.Transaction) error {
	if req.Reason == model.ReasonOutboundReturn {
		return s.applyOutboundReturn(tx, req)
	}

	// Default outbound, 조립장 이동 and 불량품 교환 출고 all deduct FIFO
	// across the code's rows; the exchange reason additionally queues the
	// batch for return reconciliation.
	items, err := s.itemRepo.FindAvailableByCode(tx, req.ItemCode)
	if err != nil {
		return err
	}

	totalStock := 0
	for _, item := range items {
		totalStock += item.Stock
	}
	if totalStock < req.Quantity {
		return ErrInsufficientStock
	}

	remaining := req.Quantity
	var drainedLocations []string
	for _, item := range items {
		if remaining <= 0 {
			break
		}
		deduct := min(item.Stock, remaining)
		if err := s.itemRepo.UpdateStock(tx, item.ID, item.Stock-deduct, req.CreatedBy); err != nil {
			return err
		}
		if item.Location != "" {
			drainedLocations = append(drainedLocations, item.Location)
		}
		remaining -= deduct
	}
	req.FromLocation = strings.Join(drainedLocations, ", ")

	if req.Reason == model.ReasonDefectiveExchange {
		entry := &model.ExchangeQueueItem{
			ItemCode:     req.ItemCode,
			ItemName:     req.ItemName,
			Quantity:     req.Quantity,
			OutboundDate: time.Now(),
		}
		entry.CreatedBy = req.CreatedBy
		entry.UpdatedBy = req.CreatedBy
		if err := s.exchangeRepo.Create(tx, entry); err != nil {
			return err
		}
	}

	return nil
}

// applyOutboundReturn puts the quantity back at the most recent prior
// outbound's source location, or at the request's target location when no
// outbound history exists.
func (s *inventoryService) applyOutboundReturn(tx *gorm.DB, req *model.Transaction) error {
	history, err := s.txRepo.FindByItemCode(tx, req.ItemCode)
	if err != nil {
		return err
	}

	returnLocation := req.ToLocation
	for _, past := range history { // newest first
		if past.Type == model.TxOutbound && past.Reason != model.ReasonOutboundReturn {
			if past.FromLocation != "" {
				returnLocation = past.FromLocation
			}
			break
		}
	}

	return s.returnToLocation(tx, req.ItemCode, returnLocation, req.Quantity, req.CreatedBy)
}

func (s *inventoryService) applyMove(tx *gorm.DB, req *model.Transaction) error {
	items, err := s.itemRepo.FindAllByCode(tx, req.ItemCode)
	if err != nil {
		return err
	}

	var source *model.InventoryItem
	for i := range items {
		if items[i].Location == req.FromLocation && items[i].Stock >= req.Quantity {
			source = &items[i]
			break
		}
	}
	if source == nil {
		return ErrSourceNotFound
	}

	// Moving the whole row just rewrites its location in place
	if source.Stock == req.Quantity {
		return s.itemRepo.UpdateLocation(tx, source.ID, req.ToLocation, req.CreatedBy)
	}

	if err := s.itemRepo.UpdateStock(tx, source.ID, source.Stock-req.Quantity, req.CreatedBy); err != nil {
		return err
	}

	for i := range items {
		if items[i].Location == req.ToLocation {
			return s.itemRepo.UpdateStock(tx, items[i].ID, items[i].Stock+req.Quantity, req.CreatedBy)
		}
	}

	clone := source.CloneAt(req.ToLocation, req.Quantity)
	clone.CreatedBy = req.CreatedBy
	clone.UpdatedBy = req.CreatedBy
	return s.itemRepo.Create(tx, clone)
}

// applyAdjustment sets the first matching row's stock to the posted quantity
// (absolute value, not a delta)
func (s *inventoryService) applyAdjustment(tx *gorm.DB, req *model.Transaction) error {
	items, err := s.itemRepo.FindAllByCode(tx, req.ItemCode)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return s.itemRepo.UpdateStock(tx, items[0].ID, req.Quantity, req.CreatedBy)
}

// returnToLocation increments the code+location row, or clones a new row from
// the first row of the code when none exists there
func (s *inventoryService) returnToLocation(tx *gorm.DB, itemCode, loc string, quantity int, updatedBy string) error {
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

func (s *inventoryService) GetAllTransactions() ([]model.Transaction, error) {
	return s.txRepo.FindAll()
}

func (s *inventoryService) GetTransactionsByItemCode(itemCode string) ([]model.Transaction, error) {
	return s.txRepo.FindByItemCode(nil, itemCode)
}

func (s *inventoryService) GetTransactionByID(id uuid.UUID) (*model.Transaction, error) {
	return s.txRepo.FindByID(id)
}

func (s *inventoryService) broadcastStockUpdate(action string, item *model.InventoryItem, user *model.User) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": action,
			"item": map[string]interface{}{
				"id":       item.ID,
				"code":     item.Code,
				"name":     item.Name,
				"stock":    item.Stock,
				"location": item.Location,
			},
			"user": map[string]interface{}{
				"id":       user.ID,
				"username": user.Username,
			},
			"message": fmt.Sprintf("%s updated stock of '%s'", user.Username, item.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}

func (s *inventoryService) broadcastTransaction(req *model.Transaction, user *model.User) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "transaction_created",
			"transaction": map[string]interface{}{
				"id":            req.ID,
				"type":          req.Type,
				"item_code":     req.ItemCode,
				"item_name":     req.ItemName,
				"quantity":      req.Quantity,
				"from_location": req.FromLocation,
				"to_location":   req.ToLocation,
				"reason":        req.Reason,
			},
			"user": map[string]interface{}{
				"id":       user.ID,
				"username": user.Username,
			},
			"message": fmt.Sprintf("%s posted %s of %d x '%s'", user.Username, req.Type, req.Quantity, req.ItemName),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
