package handler

import (
	"errors"

	"go-warehouse-ws/internal/middleware"
	"go-warehouse-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FileHandler struct {
	service service.FileService
}

func NewFileHandler(s service.FileService) *FileHandler {
	return &FileHandler{service: s}
}

func (h *FileHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing file in form data"})
	}

	user := middleware.CurrentUser(c)
	category := c.FormValue("category", "general")

	stored, err := h.service.RegisterFile(
		fileHeader.Filename,
		category,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		user.ID,
	)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to register file"})
	}

	if err := c.SaveFile(fileHeader, stored.Path); err != nil {
		// Roll back the registry row so the listing stays truthful
		_ = h.service.DeleteFile(stored.ID)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to store file"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "File uploaded", "data": stored})
}

func (h *FileHandler) GetFiles(c *fiber.Ctx) error {
	files, err := h.service.GetAllFiles()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(files)
}

func (h *FileHandler) Download(c *fiber.Ctx) error {
	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid file ID"})
	}

	file, err := h.service.GetFile(fileID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "File not found"})
	}

	return c.Download(file.Path, file.OriginalName)
}

func (h *FileHandler) Delete(c *fiber.Ctx) error {
	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid file ID"})
	}

	if err := h.service.DeleteFile(fileID); err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "File not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "File deleted"})
}
