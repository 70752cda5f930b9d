package handler

import (
	"errors"

	"go-warehouse-ws/internal/middleware"
	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	inventory service.InventoryService
	exchange  service.ExchangeService
}

func NewInventoryHandler(inventory service.InventoryService, exchange service.ExchangeService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, exchange: exchange}
}

// Helper untuk parse UUID dari string
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func (h *InventoryHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.inventory.GetAllItems()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	code := c.Params("code")

	item, err := h.inventory.GetItemByCode(code)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
	}
	return c.JSON(item)
}

func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var item model.InventoryItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	created, merged, err := h.inventory.CreateOrMergeItem(&item, user)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	if merged {
		return c.JSON(fiber.Map{"message": "Item merged", "data": created})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": created})
}

func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	code := c.Params("code")

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	updated, err := h.inventory.UpdateItemByCode(code, updates, user)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Item updated", "data": updated})
}

func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	code := c.Params("code")

	if err := h.inventory.DeleteItemByCode(code); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"message": "Item deleted"})
}

type adjustStockRequest struct {
	NewStock int    `json:"new_stock"`
	Reason   string `json:"reason"`
}

func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	itemID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req adjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.NewStock < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Stock cannot be negative"})
	}

	user := middleware.CurrentUser(c)
	result, err := h.inventory.AdjustStockByID(itemID, req.NewStock, req.Reason, user)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": result})
}

func (h *InventoryHandler) CreateTransaction(c *fiber.Ctx) error {
	var tx model.Transaction
	if err := c.BodyParser(&tx); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	created, err := h.inventory.PostTransaction(&tx, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientStock):
			return c.Status(400).JSON(fiber.Map{"error": "Insufficient stock"})
		case errors.Is(err, service.ErrSourceNotFound):
			return c.Status(400).JSON(fiber.Map{"error": "Source item not found or insufficient stock at location"})
		case errors.Is(err, service.ErrItemNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": created})
}

func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	if code := c.Query("item_code"); code != "" {
		transactions, err := h.inventory.GetTransactionsByItemCode(code)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.JSON(transactions)
	}

	transactions, err := h.inventory.GetAllTransactions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	txID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.inventory.GetTransactionByID(txID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	return c.JSON(tx)
}

func (h *InventoryHandler) GetExchangeQueue(c *fiber.Ctx) error {
	pending, err := h.exchange.GetPending()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(pending)
}

func (h *InventoryHandler) ProcessExchange(c *fiber.Ctx) error {
	entryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid queue entry ID"})
	}

	user := middleware.CurrentUser(c)
	if err := h.exchange.Process(entryID, user); err != nil {
		if errors.Is(err, service.ErrQueueItemNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Exchange queue entry not found or already processed"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Exchange processed"})
}
