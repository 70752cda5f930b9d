package repository

import (
	"time"

	"go-warehouse-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiaryRepository interface {
	FindAll(startDate, endDate *time.Time) ([]model.WorkDiary, error)
	FindByID(id uuid.UUID) (*model.WorkDiary, error)
	Create(diary *model.WorkDiary) error
	Update(id uuid.UUID, updates map[string]interface{}) (*model.WorkDiary, error)
	Delete(id uuid.UUID) error

	FindComments(diaryID uuid.UUID) ([]model.WorkDiaryComment, error)
	CreateComment(comment *model.WorkDiaryComment) error
	DeleteCommentsByDiary(diaryID uuid.UUID) error

	FindNotifications(userID uuid.UUID) ([]model.WorkNotification, error)
	CreateNotification(notification *model.WorkNotification) error
	MarkNotificationRead(id uuid.UUID) error
}

type diaryRepo struct {
	db *gorm.DB
}

func NewDiaryRepo(db *gorm.DB) DiaryRepository {
	return &diaryRepo{db}
}

func (r *diaryRepo) FindAll(startDate, endDate *time.Time) ([]model.WorkDiary, error) {
	query := r.db.Order("work_date DESC")
	if startDate != nil {
		query = query.Where("work_date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("work_date <= ?", *endDate)
	}
	var diaries []model.WorkDiary
	err := query.Find(&diaries).Error
	return diaries, err
}

func (r *diaryRepo) FindByID(id uuid.UUID) (*model.WorkDiary, error) {
	var diary model.WorkDiary
	if err := r.db.First(&diary, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &diary, nil
}

func (r *diaryRepo) Create(diary *model.WorkDiary) error {
	return r.db.Create(diary).Error
}

func (r *diaryRepo) Update(id uuid.UUID, updates map[string]interface{}) (*model.WorkDiary, error) {
	var diary model.WorkDiary
	if err := r.db.First(&diary, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&diary).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &diary, nil
}

func (r *diaryRepo) Delete(id uuid.UUID) error {
	result := r.db.Delete(&model.WorkDiary{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *diaryRepo) FindComments(diaryID uuid.UUID) ([]model.WorkDiaryComment, error) {
	var comments []model.WorkDiaryComment
	err := r.db.Where("diary_id = ?", diaryID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *diaryRepo) CreateComment(comment *model.WorkDiaryComment) error {
	return r.db.Create(comment).Error
}

func (r *diaryRepo) DeleteCommentsByDiary(diaryID uuid.UUID) error {
	return r.db.Where("diary_id = ?", diaryID).Delete(&model.WorkDiaryComment{}).Error
}

func (r *diaryRepo) FindNotifications(userID uuid.UUID) ([]model.WorkNotification, error) {
	var notifications []model.WorkNotification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (r *diaryRepo) CreateNotification(notification *model.WorkNotification) error {
	return r.db.Create(notification).Error
}

func (r *diaryRepo) MarkNotificationRead(id uuid.UUID) error {
	result := r.db.Model(&model.WorkNotification{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
