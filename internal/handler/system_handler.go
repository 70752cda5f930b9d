package handler

import (
	"errors"
	"time"

	"go-warehouse-ws/internal/middleware"
	"go-warehouse-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SystemHandler struct {
	service service.SystemService
}

func NewSystemHandler(s service.SystemService) *SystemHandler {
	return &SystemHandler{service: s}
}

func (h *SystemHandler) Reset(c *fiber.Ctx) error {
	if err := h.service.ResetData(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Reset failed"})
	}
	return c.JSON(fiber.Map{"message": "All domain data has been reset"})
}

func (h *SystemHandler) DownloadBackup(c *fiber.Ctx) error {
	payload, err := h.service.CreateBackup()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Backup failed"})
	}

	filename := "backup_" + time.Now().Format("2006-01-02") + ".json"
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.JSON(payload)
}

func (h *SystemHandler) RestoreBackup(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if err := h.service.RestoreBackup(c.Body(), user); err != nil {
		if errors.Is(err, service.ErrInvalidBackup) {
			return c.Status(400).JSON(fiber.Map{"error": "Backup payload is malformed"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Restore failed"})
	}
	return c.JSON(fiber.Map{"message": "Backup restored"})
}
