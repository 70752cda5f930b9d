package handler

import (
	"errors"
	"time"

	"go-warehouse-ws/internal/middleware"
	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DiaryHandler struct {
	service service.DiaryService
}

func NewDiaryHandler(s service.DiaryService) *DiaryHandler {
	return &DiaryHandler{service: s}
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter
func parseDateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *DiaryHandler) GetDiaries(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	startDate, err := parseDateQuery(c, "start_date")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid start_date, expected YYYY-MM-DD"})
	}
	endDate, err := parseDateQuery(c, "end_date")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid end_date, expected YYYY-MM-DD"})
	}

	diaries, err := h.service.GetWorkDiaries(user.ID, startDate, endDate)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(diaries)
}

func (h *DiaryHandler) GetDiary(c *fiber.Ctx) error {
	diaryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid diary ID"})
	}

	user := middleware.CurrentUser(c)
	diary, err := h.service.GetWorkDiary(diaryID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDiaryNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Work diary not found"})
		case errors.Is(err, service.ErrDiaryForbidden):
			return c.Status(403).JSON(fiber.Map{"error": "You do not have access to this work diary"})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
	}
	return c.JSON(diary)
}

func (h *DiaryHandler) CreateDiary(c *fiber.Ctx) error {
	var diary model.WorkDiary
	if err := c.BodyParser(&diary); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	author := middleware.CurrentUser(c)
	created, err := h.service.CreateWorkDiary(&diary, author)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Work diary created", "data": created})
}

func (h *DiaryHandler) UpdateDiary(c *fiber.Ctx) error {
	diaryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid diary ID"})
	}

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	updated, err := h.service.UpdateWorkDiary(diaryID, updates, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDiaryNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Work diary not found"})
		case errors.Is(err, service.ErrDiaryForbidden):
			return c.Status(403).JSON(fiber.Map{"error": "Only the author or an admin can update this diary"})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Work diary updated", "data": updated})
}

func (h *DiaryHandler) CompleteDiary(c *fiber.Ctx) error {
	diaryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid diary ID"})
	}

	user := middleware.CurrentUser(c)
	alreadyCompleted, err := h.service.CompleteWorkDiary(diaryID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDiaryNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Work diary not found"})
		case errors.Is(err, service.ErrNotAssignee):
			return c.Status(403).JSON(fiber.Map{"error": "Only an assignee can complete this diary"})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
	}

	if alreadyCompleted {
		return c.JSON(fiber.Map{"message": "Work diary was already completed"})
	}
	return c.JSON(fiber.Map{"message": "Work diary completed"})
}

func (h *DiaryHandler) DeleteDiary(c *fiber.Ctx) error {
	diaryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid diary ID"})
	}

	user := middleware.CurrentUser(c)
	diary, err := h.service.GetWorkDiary(diaryID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrDiaryNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Work diary not found"})
		}
		return c.Status(403).JSON(fiber.Map{"error": "You do not have access to this work diary"})
	}

	isAdmin := user.Role == model.RoleAdmin || user.Role == model.RoleSuperAdmin
	if diary.AuthorID != user.ID && !isAdmin {
		return c.Status(403).JSON(fiber.Map{"error": "Only the author or an admin can delete this diary"})
	}

	if err := h.service.DeleteWorkDiary(diaryID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Work diary deleted"})
}

func (h *DiaryHandler) GetComments(c *fiber.Ctx) error {
	diaryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid diary ID"})
	}

	comments, err := h.service.GetComments(diaryID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(comments)
}

func (h *DiaryHandler) CreateComment(c *fiber.Ctx) error {
	diaryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid diary ID"})
	}

	var comment model.WorkDiaryComment
	if err := c.BodyParser(&comment); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	comment.DiaryID = diaryID

	author := middleware.CurrentUser(c)
	created, err := h.service.CreateComment(&comment, author)
	if err != nil {
		if errors.Is(err, service.ErrDiaryNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Work diary not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Comment added", "data": created})
}

func (h *DiaryHandler) GetNotifications(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	notifications, err := h.service.GetNotifications(user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(notifications)
}

func (h *DiaryHandler) MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	if err := h.service.MarkNotificationRead(notificationID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Notification not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}
