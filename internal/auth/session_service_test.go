package auth

import (
	"fmt"
	"testing"

	"github.com/maxfil333/VinylVault/database/models"
	"github.com/maxfil333/VinylVault/database/repo/accounts"
	"github.com/maxfil333/VinylVault/database/repo/sessions"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestService 创建测试会话服务（每个测试独立的内存库）
func setupTestService(t *testing.T) *Service {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Session{})
	assert.NoError(t, err)

	return NewService(accounts.NewRepository(db), sessions.NewRepository(db))
}

func TestRegister(t *testing.T) {
	service := setupTestService(t)

	result, err := service.Register("alice", "secret123", "alice@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.User.UserID)
	assert.NotEmpty(t, result.SessionToken)

	// 密码不能以明文落库
	assert.NotEqual(t, "secret123", result.User.Password)
	assert.Contains(t, result.User.Password, "$argon2id$")

	// 注册即建立会话
	session, err := service.Resolve(result.SessionToken)
	assert.NoError(t, err)
	assert.Equal(t, result.User.UserID, session.UserID)
	assert.Equal(t, "alice", session.Username)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	service := setupTestService(t)

	_, err := service.Register("alice", "secret123", "alice@example.com")
	assert.NoError(t, err)

	_, err = service.Register("alice", "other456", "other@example.com")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	service := setupTestService(t)

	registered, err := service.Register("alice", "secret123", "alice@example.com")
	assert.NoError(t, err)

	result, err := service.Login("alice", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, registered.User.UserID, result.User.UserID)

	// 登录产生新的令牌，旧令牌继续有效
	assert.NotEqual(t, registered.SessionToken, result.SessionToken)
	_, err = service.Resolve(registered.SessionToken)
	assert.NoError(t, err)
}

// TestLogin_InvalidCredentials 未知用户和错误密码统一返回 ErrInvalidCredentials
func TestLogin_InvalidCredentials(t *testing.T) {
	service := setupTestService(t)

	_, err := service.Register("alice", "secret123", "alice@example.com")
	assert.NoError(t, err)

	_, err = service.Login("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login("nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	service := setupTestService(t)

	result, err := service.Register("alice", "secret123", "alice@example.com")
	assert.NoError(t, err)

	assert.NoError(t, service.Logout(result.SessionToken))

	_, err = service.Resolve(result.SessionToken)
	assert.ErrorIs(t, err, sessions.ErrSessionNotFound)
}

// TestLogout_Idempotent 重复登出与空令牌都不报错
func TestLogout_Idempotent(t *testing.T) {
	service := setupTestService(t)

	result, err := service.Register("alice", "secret123", "alice@example.com")
	assert.NoError(t, err)

	assert.NoError(t, service.Logout(result.SessionToken))
	assert.NoError(t, service.Logout(result.SessionToken))
	assert.NoError(t, service.Logout(""))
}

func TestResolve_UnknownToken(t *testing.T) {
	service := setupTestService(t)

	_, err := service.Resolve("garbage-token")
	assert.ErrorIs(t, err, sessions.ErrSessionNotFound)
}
