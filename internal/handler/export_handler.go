package handler

import (
	"bytes"
	"time"

	"go-warehouse-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	service service.ExportService
}

func NewExportHandler(s service.ExportService) *ExportHandler {
	return &ExportHandler{service: s}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func sendXlsx(c *fiber.Ctx, buf *bytes.Buffer, prefix string) error {
	filename := service.ExportFilename(prefix, time.Now().Format("2006-01-02"))
	c.Set("Content-Type", xlsxContentType)
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func (h *ExportHandler) ExportInventory(c *fiber.Ctx) error {
	buf, err := h.service.ExportInventory()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate export"})
	}
	return sendXlsx(c, buf, "inventory")
}

func (h *ExportHandler) ExportTransactions(c *fiber.Ctx) error {
	buf, err := h.service.ExportTransactions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate export"})
	}
	return sendXlsx(c, buf, "transactions")
}

func (h *ExportHandler) ExportBomGuides(c *fiber.Ctx) error {
	buf, err := h.service.ExportBomGuides()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate export"})
	}
	return sendXlsx(c, buf, "bom_guides")
}
