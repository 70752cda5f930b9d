package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-warehouse-ws/internal/model"
	"go-warehouse-ws/internal/repository"
)

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepo(db))
	seedUser(t, db, "worker", model.RoleUser, "생산부")

	resp, err := svc.Login("worker", "test1234")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "worker", resp.User.Username)
	assert.True(t, resp.Permissions[model.PermProcessTransactions])
	assert.False(t, resp.Permissions[model.PermManageUsers])

	_, err = svc.Login("worker", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody", "test1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepo(db))
	user := seedUser(t, db, "retired", model.RoleUser, "생산부")

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err := svc.Login("retired", "test1234")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLoginRotatesTokenVersion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepo(db))
	seedUser(t, db, "worker", model.RoleUser, "생산부")

	first, err := svc.Login("worker", "test1234")
	require.NoError(t, err)

	// The first session's token still validates
	_, err = svc.ValidateToken(first.Token)
	require.NoError(t, err)

	// A second login rotates the version and kills the first session
	second, err := svc.Login("worker", "test1234")
	require.NoError(t, err)

	_, err = svc.ValidateToken(second.Token)
	require.NoError(t, err)

	_, err = svc.ValidateToken(first.Token)
	assert.Error(t, err)
}

func TestResetPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepo(db))
	seedUser(t, db, "worker", model.RoleUser, "생산부")

	assert.ErrorIs(t, svc.ResetPassword("worker", "wrong", "newpass123"), ErrWrongPassword)
	assert.ErrorIs(t, svc.ResetPassword("nobody", "test1234", "newpass123"), ErrUserNotFound)

	require.NoError(t, svc.ResetPassword("worker", "test1234", "newpass123"))

	_, err := svc.Login("worker", "test1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("worker", "newpass123")
	assert.NoError(t, err)
}
