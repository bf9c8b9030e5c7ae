package sessions

import (
	"context"
	"errors"

	"github.com/maxfil333/VinylVault/database/models"
	"gorm.io/gorm"
)

// ErrSessionNotFound 会话不存在错误
var ErrSessionNotFound = errors.New("session not found")

// Repository 会话仓库 - 封装 sessions 集合的数据库操作
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的会话仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateSession 写入新会话
func (r *Repository) CreateSession(session *models.Session) error {
	return r.db.Create(session).Error
}

// GetSessionByID 通过会话令牌查找会话，查不到视为未认证
func (r *Repository) GetSessionByID(sessionID string) (*models.Session, error) {
	var session models.Session
	err := r.db.Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// DeleteSession 按令牌删除会话，幂等：不存在不报错
func (r *Repository) DeleteSession(sessionID string) error {
	return r.db.Unscoped().Where("session_id = ?", sessionID).Delete(&models.Session{}).Error
}

// WithContext 返回带上下文的仓库
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}
