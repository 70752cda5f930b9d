package handler

import (
	"errors"

	"go-warehouse-ws/internal/middleware"
	"go-warehouse-ws/internal/service"
	"go-warehouse-ws/pkg/location"

	"github.com/gofiber/fiber/v2"
)

type WarehouseHandler struct {
	service service.WarehouseService
}

func NewWarehouseHandler(s service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{service: s}
}

func (h *WarehouseHandler) GetLayout(c *fiber.Ctx) error {
	zones, err := h.service.GetLayout()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(zones)
}

func (h *WarehouseHandler) CreateZone(c *fiber.Ctx) error {
	var req service.ZoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	zone, err := h.service.CreateZone(&req, user)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Zone created", "data": zone})
}

func (h *WarehouseHandler) UpdateZone(c *fiber.Ctx) error {
	zoneID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid zone ID"})
	}

	var req service.ZoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	zone, err := h.service.UpdateZone(zoneID, &req, user)
	if err != nil {
		if errors.Is(err, service.ErrZoneNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Zone not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Zone updated", "data": zone})
}

func (h *WarehouseHandler) DeleteZone(c *fiber.Ctx) error {
	zoneID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid zone ID"})
	}

	if err := h.service.DeleteZone(zoneID); err != nil {
		if errors.Is(err, service.ErrZoneNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Zone not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Zone deleted"})
}

// ParseLocation validates a location code and returns its parts
func (h *WarehouseHandler) ParseLocation(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing code parameter"})
	}

	info := location.Parse(code)
	if info == nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid location code", "valid": false})
	}
	return c.JSON(fiber.Map{"valid": true, "location": info})
}
