package sessions

import (
	"fmt"
	"testing"
	"time"

	"github.com/maxfil333/VinylVault/database/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 创建测试数据库（每个测试独立的内存库）
func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.Session{})
	assert.NoError(t, err)

	return db
}

func TestCreateAndGetSession(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	session := &models.Session{
		SessionID: "token-abc",
		UserID:    "user-1",
		Username:  "alice",
		LoginTime: time.Now(),
	}
	assert.NoError(t, repo.CreateSession(session))

	got, err := repo.GetSessionByID("token-abc")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "alice", got.Username)
}

func TestGetSessionByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.GetSessionByID("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	session := &models.Session{
		SessionID: "token-abc",
		UserID:    "user-1",
		Username:  "alice",
		LoginTime: time.Now(),
	}
	assert.NoError(t, repo.CreateSession(session))

	assert.NoError(t, repo.DeleteSession("token-abc"))

	_, err := repo.GetSessionByID("token-abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// TestDeleteSession_Idempotent 删除不存在的会话不报错
func TestDeleteSession_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	assert.NoError(t, repo.DeleteSession("missing"))
	assert.NoError(t, repo.DeleteSession("missing"))
}
