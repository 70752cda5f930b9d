package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
	"go-warehouse-ws/internal/ws"
	"go-warehouse-ws/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrDiaryNotFound        = errors.New("work diary not found")
	ErrDiaryForbidden       = errors.New("not allowed to modify this work diary")
	ErrNotAssignee          = errors.New("only an assignee can complete this work diary")
	ErrNotificationNotFound = errors.New("notification not found")
)

type DiaryService interface {
	GetWorkDiaries(userID uuid.UUID, startDate, endDate *time.Time) ([]model.WorkDiary, error)
	GetWorkDiary(id, userID uuid.UUID) (*model.WorkDiary, error)
	CreateWorkDiary(diary *model.WorkDiary, author *model.User) (*model.WorkDiary, error)
	UpdateWorkDiary(id uuid.UUID, updates map[string]interface{}, user *model.User) (*model.WorkDiary, error)
	CompleteWorkDiary(id, userID uuid.UUID) (alreadyCompleted bool, err error)
	DeleteWorkDiary(id uuid.UUID) error

	GetComments(diaryID uuid.UUID) ([]model.WorkDiaryComment, error)
	CreateComment(comment *model.WorkDiaryComment, author *model.User) (*model.WorkDiaryComment, error)

	GetNotifications(userID uuid.UUID) ([]model.WorkNotification, error)
	MarkNotificationRead(id uuid.UUID) error
}

type diaryService struct {
	diaryRepo repository.DiaryRepository
	userRepo  repository.UserRepository
	wsHub     *ws.Hub
}

func NewDiaryService(diaryRepo repository.DiaryRepository, userRepo repository.UserRepository, hub *ws.Hub) DiaryService {
	return &diaryService{
		diaryRepo: diaryRepo,
		userRepo:  userRepo,
		wsHub:     hub,
	}
}

// GetWorkDiaries lists diaries visible to the user. An assignee reading a
// pending diary flips it to in_progress and notifies the author, once.
func (s *diaryService) GetWorkDiaries(userID uuid.UUID, startDate, endDate *time.Time) ([]model.WorkDiary, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	// The transition pass runs over every diary, not just the requested date
	// range, so a narrow listing still flips the user's other pending work
	diaries, err := s.diaryRepo.FindAll(nil, nil)
	if err != nil {
		return nil, err
	}

	for i := range diaries {
		if diaries[i].Status == model.DiaryPending && diaries[i].AssignedTo.Contains(userID) {
			if err := s.startProgress(&diaries[i], user); err != nil {
				return nil, err
			}
		}
	}

	visible := make([]model.WorkDiary, 0, len(diaries))
	for _, diary := range diaries {
		if startDate != nil && diary.WorkDate.Before(*startDate) {
			continue
		}
		if endDate != nil && diary.WorkDate.After(*endDate) {
			continue
		}
		ok, err := s.canView(&diary, user)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, diary)
		}
	}
	return visible, nil
}

func (s *diaryService) GetWorkDiary(id, userID uuid.UUID) (*model.WorkDiary, error) {
	diary, err := s.diaryRepo.FindByID(id)
	if err != nil {
		return nil, ErrDiaryNotFound
	}

	if diary.Status == model.DiaryPending && diary.AssignedTo.Contains(userID) {
		user, err := s.userRepo.FindByID(userID)
		if err != nil {
			return nil, err
		}
		if err := s.startProgress(diary, user); err != nil {
			return nil, err
		}
	}

	return diary, nil
}

// startProgress performs the automatic pending → in_progress transition
func (s *diaryService) startProgress(diary *model.WorkDiary, reader *model.User) error {
	updated, err := s.diaryRepo.Update(diary.ID, map[string]interface{}{"status": model.DiaryInProgress})
	if err != nil {
		return err
	}
	diary.Status = model.DiaryInProgress
	diary.UpdatedAt = updated.UpdatedAt

	return s.notify(&model.WorkNotification{
		UserID:  diary.AuthorID,
		DiaryID: diary.ID,
		Type:    model.NotifyStatusChange,
		Message: fmt.Sprintf("%s님이 업무를 확인했습니다: %s", reader.Username, diary.Title),
	})
}

func (s *diaryService) canView(diary *model.WorkDiary, user *model.User) (bool, error) {
	// Admins see everything
	if user.Role == model.RoleAdmin || user.Role == model.RoleSuperAdmin {
		return true, nil
	}

	switch diary.Visibility {
	case model.VisibilityPrivate:
		return diary.AuthorID == user.ID || diary.AssignedTo.Contains(user.ID), nil

	case model.VisibilityDepartment:
		if diary.AuthorID == user.ID {
			return true, nil
		}
		author, err := s.userRepo.FindByID(diary.AuthorID)
		if err != nil {
			return false, nil
		}
		return user.Department != "" && author.Department == user.Department, nil
	}

	// public
	return true, nil
}

func (s *diaryService) CreateWorkDiary(diary *model.WorkDiary, author *model.User) (*model.WorkDiary, error) {
	diary.AuthorID = author.ID
	diary.Status = model.DiaryPending // every new diary starts pending
	if diary.Priority == "" {
		diary.Priority = model.PriorityNormal
	}
	if diary.Visibility == "" {
		diary.Visibility = model.VisibilityDepartment
	}
	if diary.Category == "" {
		diary.Category = "기타"
	}

	if errs := validator.ValidateStruct(diary); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	diary.CreatedBy = author.Username
	diary.UpdatedBy = author.Username
	if err := s.diaryRepo.Create(diary); err != nil {
		return nil, err
	}

	if err := s.fanOutNewDiary(diary, author); err != nil {
		return nil, err
	}

	return diary, nil
}

// fanOutNewDiary notifies the audience implied by the visibility scope,
// always excluding the author
func (s *diaryService) fanOutNewDiary(diary *model.WorkDiary, author *model.User) error {
	var targets []uuid.UUID

	switch diary.Visibility {
	case model.VisibilityPrivate:
		targets = diary.AssignedTo

	case model.VisibilityDepartment:
		peers, err := s.userRepo.FindByDepartment(author.Department)
		if err != nil {
			return err
		}
		for _, peer := range peers {
			if peer.ID != author.ID {
				targets = append(targets, peer.ID)
			}
		}

	case model.VisibilityPublic:
		users, err := s.userRepo.FindAll()
		if err != nil {
			return err
		}
		for _, u := range users {
			if u.ID != author.ID {
				targets = append(targets, u.ID)
			}
		}
	}

	for _, target := range targets {
		if target == author.ID {
			continue
		}
		err := s.notify(&model.WorkNotification{
			UserID:  target,
			DiaryID: diary.ID,
			Type:    model.NotifyNewDiary,
			Message: fmt.Sprintf("%s님이 새로운 업무일지를 작성했습니다: %s", author.Username, diary.Title),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateWorkDiary is restricted to the author and admins
func (s *diaryService) UpdateWorkDiary(id uuid.UUID, updates map[string]interface{}, user *model.User) (*model.WorkDiary, error) {
	existing, err := s.diaryRepo.FindByID(id)
	if err != nil {
		return nil, ErrDiaryNotFound
	}

	isAdmin := user.Role == model.RoleAdmin || user.Role == model.RoleSuperAdmin
	if existing.AuthorID != user.ID && !isAdmin {
		return nil, ErrDiaryForbidden
	}

	updates["updated_by"] = user.Username
	return s.diaryRepo.Update(id, updates)
}

// CompleteWorkDiary marks a diary completed. Only assignees may complete;
// completing an already-completed diary is a no-op success.
func (s *diaryService) CompleteWorkDiary(id, userID uuid.UUID) (bool, error) {
	diary, err := s.diaryRepo.FindByID(id)
	if err != nil {
		return false, ErrDiaryNotFound
	}

	if diary.Status == model.DiaryCompleted {
		return true, nil
	}

	if !diary.AssignedTo.Contains(userID) {
		return false, ErrNotAssignee
	}

	if _, err := s.diaryRepo.Update(id, map[string]interface{}{"status": model.DiaryCompleted}); err != nil {
		return false, err
	}

	if diary.AuthorID != userID {
		user, err := s.userRepo.FindByID(userID)
		if err == nil {
			_ = s.notify(&model.WorkNotification{
				UserID:  diary.AuthorID,
				DiaryID: diary.ID,
				Type:    model.NotifyStatusChange,
				Message: fmt.Sprintf("%s님이 업무를 완료했습니다: %s", user.Username, diary.Title),
			})
		}
	}

	return false, nil
}

func (s *diaryService) DeleteWorkDiary(id uuid.UUID) error {
	if err := s.diaryRepo.Delete(id); err != nil {
		return ErrDiaryNotFound
	}
	// Comments go with the diary
	return s.diaryRepo.DeleteCommentsByDiary(id)
}

func (s *diaryService) GetComments(diaryID uuid.UUID) ([]model.WorkDiaryComment, error) {
	return s.diaryRepo.FindComments(diaryID)
}

func (s *diaryService) CreateComment(comment *model.WorkDiaryComment, author *model.User) (*model.WorkDiaryComment, error) {
	diary, err := s.diaryRepo.FindByID(comment.DiaryID)
	if err != nil {
		return nil, ErrDiaryNotFound
	}

	comment.AuthorID = author.ID
	if errs := validator.ValidateStruct(comment); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	comment.CreatedBy = author.Username
	comment.UpdatedBy = author.Username
	if err := s.diaryRepo.CreateComment(comment); err != nil {
		return nil, err
	}

	if diary.AuthorID != author.ID {
		_ = s.notify(&model.WorkNotification{
			UserID:  diary.AuthorID,
			DiaryID: diary.ID,
			Type:    model.NotifyComment,
			Message: fmt.Sprintf("%s님이 댓글을 남겼습니다: %s", author.Username, diary.Title),
		})
	}

	return comment, nil
}

func (s *diaryService) GetNotifications(userID uuid.UUID) ([]model.WorkNotification, error) {
	return s.diaryRepo.FindNotifications(userID)
}

func (s *diaryService) MarkNotificationRead(id uuid.UUID) error {
	if err := s.diaryRepo.MarkNotificationRead(id); err != nil {
		return ErrNotificationNotFound
	}
	return nil
}

// notify persists the notification and pushes it to the target user's
// websocket connections
func (s *diaryService) notify(notification *model.WorkNotification) error {
	if err := s.diaryRepo.CreateNotification(notification); err != nil {
		return err
	}

	if s.wsHub != nil {
		payload := map[string]interface{}{
			"type":         "work_notification",
			"notification": notification,
		}
		msg, _ := json.Marshal(payload)
		go func() {
			s.wsHub.Direct <- ws.UserMessage{UserID: notification.UserID, Payload: msg}
		}()
	}
	return nil
}
