package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
)

func newDiaryService(db *gorm.DB) DiaryService {
	return NewDiaryService(
		repository.NewDiaryRepo(db),
		repository.NewUserRepo(db),
		nil,
	)
}

func seedDiary(t *testing.T, db *gorm.DB, svc DiaryService, author *model.User, title, visibility string, assignees ...*model.User) *model.WorkDiary {
	t.Helper()

	assigned := make(model.UUIDSlice, len(assignees))
	for i, a := range assignees {
		assigned[i] = a.ID
	}

	diary, err := svc.CreateWorkDiary(&model.WorkDiary{
		Title:      title,
		Content:    "내용",
		Category:   "생산",
		WorkDate:   time.Now(),
		Visibility: visibility,
		AssignedTo: assigned,
	}, author)
	require.NoError(t, err)
	return diary
}

func notificationsFor(t *testing.T, db *gorm.DB, userID interface{}) []model.WorkNotification {
	t.Helper()

	var list []model.WorkNotification
	require.NoError(t, db.Where("user_id = ?", userID).Find(&list).Error)
	return list
}

func TestDiaryAutoTransitionOnAssigneeRead(t *testing.T) {
	db := setupTestDB(t)
	svc := newDiaryService(db)

	author := seedUser(t, db, "author", model.RoleUser, "생산부")
	assignee := seedUser(t, db, "assignee", model.RoleUser, "생산부")

	diary := seedDiary(t, db, svc, author, "설비 점검", model.VisibilityDepartment, assignee)
	require.Equal(t, model.DiaryPending, diary.Status)

	// First read by the assignee flips the status and notifies the author
	got, err := svc.GetWorkDiary(diary.ID, assignee.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DiaryInProgress, got.Status)

	notes := notificationsFor(t, db, author.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotifyStatusChange, notes[0].Type)
	assert.Equal(t, fmt.Sprintf("%s님이 업무를 확인했습니다: %s", assignee.Username, diary.Title), notes[0].Message)

	// A second read does not notify again
	_, err = svc.GetWorkDiary(diary.ID, assignee.ID)
	require.NoError(t, err)
	assert.Len(t, notificationsFor(t, db, author.ID), 1)
}

func TestDiaryNoTransitionForNonAssignee(t *testing.T) {
	db := setupTestDB(t)
	svc := newDiaryService(db)

	author := seedUser(t, db, "author", model.RoleUser, "생산부")
	assignee := seedUser(t, db, "assignee", model.RoleUser, "생산부")
	reader := seedUser(t, db, "reader", model.RoleUser, "생산부")

	diary := seedDiary(t, db, svc, author, "설비 점검", model.VisibilityDepartment, assignee)

	got, err := svc.GetWorkDiary(diary.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DiaryPending, got.Status)
	assert.Empty(t, notificationsFor(t, db, author.ID))
}

func TestDiaryTransitionCoversDiariesOutsideDateRange(t *testing.T) {
	db := setupTestDB(t)
	svc := newDiaryService(db)

	author := seedUser(t, db, "author", model.RoleUser, "생산부")
	assignee := seedUser(t, db, "assignee", model.RoleUser, "생산부")

	old, err := svc.CreateWorkDiary(&model.WorkDiary{
		Title:      "지난주 작업",
		Content:    "내용",
		Category:   "생산",
		WorkDate:   time.Now().AddDate(0, 0, -7),
		Visibility: model.VisibilityDepartment,
		AssignedTo: model.UUIDSlice{assignee.ID},
	}, author)
	require.NoError(t, err)

	// Listing only today still flips the assignee's older pending diary
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	listed, err := svc.GetWorkDiaries(assignee.ID, &start, &end)
	require.NoError(t, err)
	assert.Empty(t, listed)

	var reloaded model.WorkDiary
	require.NoError(t, db.First(&reloaded, "id = ?", old.ID).Error)
	assert.Equal(t, model.DiaryInProgress, reloaded.Status)

	notes := notificationsFor(t, db, author.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotifyStatusChange, notes[0].Type)
}

func TestDiaryVisibilityFiltering(t *testing.T) {
	db := setupTestDB(t)
	svc := newDiaryService(db)

	author := seedUser(t, db, "author", model.RoleUser, "생산부")
	peer := seedUser(t, db, "peer", model.RoleUser, "생산부")
	outsider := seedUser(t, db, "outsider", model.RoleUser, "품질부")
	admin := seedUser(t, db, "boss", model.RoleAdmin, "관리부")

	seedDiary(t, db, svc, author, "비공개 일지", model.VisibilityPrivate)
	seedDiary(t, db, svc, author, "부서 일지", model.VisibilityDepartment)
	seedDiary(t, db, svc, author, "전체 일지", model.VisibilityPublic)

	titles := func(diaries []model.WorkDiary) []string {
		out := make([]string, len(diaries))
		for i, d := range diaries {
			out[i] = d.Title
		}
		return out
	}

	authorView, err := svc.GetWorkDiaries(author.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, authorView, 3)

	peerView, err := svc.GetWorkDiaries(peer.ID, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"부서 일지", "전체 일지"}, titles(peerView))

	outsiderView, err := svc.GetWorkDiaries(outsider.ID, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"전체 일지"}, titles(outsiderView))

	adminView, err := svc.GetWorkDiaries(admin.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, adminView, 3)
}

func TestDiaryCompleteOnlyByAssignee(t *testing.T) {
	db := setupTestDB(t)
	svc := newDiaryService(db)

	author := seedUser(t, db, "author", model.RoleUser, "생산부")
	assignee := seedUser(t, db, "assignee", model.RoleUser, "생산부")
	stranger := seedUser(t, db, "stranger", model.RoleUser, "생산부")

	diary := seedDiary(t, db, svc, author, "출하 준비", model.VisibilityDepartment, assignee)

	_, err := svc.CompleteWorkDiary(diary.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrNotAssignee)

	already, err := svc.CompleteWorkDiary(diary.ID, assignee.ID)
	require.NoError(t, err)
	assert.False(t, already)

	// Completion notified the author once
	var completionNotes int
	for _, n := range notificationsFor(t, db, author.ID) {
		if n.Type == model.NotifyStatusChange {
			completionNotes++
		}
	}
	assert.Equal(t, 1, completionNotes)

	// Completing again is a reported no-op
	already, err = svc.CompleteWorkDiary(diary.ID, assignee.ID)
	require.NoError(t, err)
	assert.True(t, already)
}

func TestDiaryFanOutByVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := newDiaryService(db)

	author := seedUser(t, db, "author", model.RoleUser, "생산부")
	peer := seedUser(t, db, "peer", model.RoleUser, "생산부")
	outsider := seedUser(t, db, "outsider", model.RoleUser, "품질부")

	// Department scope reaches the author's department, minus the author
	seedDiary(t, db, svc, author, "부서 공지", model.VisibilityDepartment)

	assert.Len(t, notificationsFor(t, db, peer.ID), 1)
	assert.Empty(t, notificationsFor(t, db, outsider.ID))
	assert.Empty(t, notificationsFor(t, db, author.ID))

	peerNotes := notificationsFor(t, db, peer.ID)
	assert.Equal(t, model.NotifyNewDiary, peerNotes[0].Type)
	assert.Equal(t, fmt.Sprintf("%s님이 새로운 업무일지를 작성했습니다: %s", author.Username, "부서 공지"), peerNotes[0].Message)

	// Public scope reaches everyone else
	seedDiary(t, db, svc, author, "전체 공지", model.VisibilityPublic)

	assert.Len(t, notificationsFor(t, db, peer.ID), 2)
	assert.Len(t, notificationsFor(t, db, outsider.ID), 1)
}

func TestDiaryUpdateRestrictedToAuthorOrAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := newDiaryService(db)

	author := seedUser(t, db, "author", model.RoleUser, "생산부")
	other := seedUser(t, db, "other", model.RoleUser, "생산부")
	admin := seedUser(t, db, "boss", model.RoleAdmin, "관리부")

	diary := seedDiary(t, db, svc, author, "자재 정리", model.VisibilityDepartment)

	_, err := svc.UpdateWorkDiary(diary.ID, map[string]interface{}{"title": "변경"}, other)
	assert.ErrorIs(t, err, ErrDiaryForbidden)

	updated, err := svc.UpdateWorkDiary(diary.ID, map[string]interface{}{"title": "변경"}, admin)
	require.NoError(t, err)
	assert.Equal(t, "변경", updated.Title)
}

func TestDiaryCommentNotifiesAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := newDiaryService(db)

	author := seedUser(t, db, "author", model.RoleUser, "생산부")
	commenter := seedUser(t, db, "commenter", model.RoleUser, "생산부")

	diary := seedDiary(t, db, svc, author, "재고 실사", model.VisibilityDepartment)

	_, err := svc.CreateComment(&model.WorkDiaryComment{
		DiaryID: diary.ID,
		Content: "확인했습니다",
	}, commenter)
	require.NoError(t, err)

	var found bool
	for _, n := range notificationsFor(t, db, author.ID) {
		if n.Type == model.NotifyComment {
			found = true
		}
	}
	assert.True(t, found)

	// Commenting on one's own diary stays silent
	_, err = svc.CreateComment(&model.WorkDiaryComment{
		DiaryID: diary.ID,
		Content: "메모",
	}, author)
	require.NoError(t, err)

	var selfNotes int
	for _, n := range notificationsFor(t, db, author.ID) {
		if n.Type == model.NotifyComment {
			selfNotes++
		}
	}
	assert.Equal(t, 1, selfNotes)
}

func TestDiaryDeleteRemovesComments(t *testing.T) {
	db := setupTestDB(t)
	svc := newDiaryService(db)

	author := seedUser(t, db, "author", model.RoleUser, "생산부")
	diary := seedDiary(t, db, svc, author, "청소 당번", model.VisibilityDepartment)

	_, err := svc.CreateComment(&model.WorkDiaryComment{DiaryID: diary.ID, Content: "메모"}, author)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWorkDiary(diary.ID))

	comments, err := svc.GetComments(diary.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = svc.GetWorkDiary(diary.ID, author.ID)
	assert.ErrorIs(t, err, ErrDiaryNotFound)
}
