package handler

import (
	"errors"
	"strconv"

	"go-warehouse-ws/internal/middleware"
	"go-warehouse-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BomHandler struct {
	service service.BomService
}

func NewBomHandler(s service.BomService) *BomHandler {
	return &BomHandler{service: s}
}

func (h *BomHandler) GetGuides(c *fiber.Ctx) error {
	guides, err := h.service.GetAllGuides()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(guides)
}

func (h *BomHandler) GetGuide(c *fiber.Ctx) error {
	guideName := c.Params("name")

	lines, err := h.service.GetGuide(guideName)
	if err != nil {
		if errors.Is(err, service.ErrGuideNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Assembly guide not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(lines)
}

func (h *BomHandler) AddGuideLine(c *fiber.Ctx) error {
	var req service.BomLineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	line, err := h.service.AddGuideLine(&req, user)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Guide line added", "data": line})
}

func (h *BomHandler) DeleteGuide(c *fiber.Ctx) error {
	guideName := c.Params("name")

	if err := h.service.DeleteGuide(guideName); err != nil {
		if errors.Is(err, service.ErrGuideNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Assembly guide not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Guide deleted"})
}

func (h *BomHandler) CheckAvailability(c *fiber.Ctx) error {
	guideName := c.Params("name")

	sets, err := strconv.Atoi(c.Query("sets", "1"))
	if err != nil || sets <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sets parameter"})
	}

	result, err := h.service.CheckAvailability(guideName, sets)
	if err != nil {
		if errors.Is(err, service.ErrGuideNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Assembly guide not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(result)
}
