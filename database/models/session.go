package models

import (
	"time"

	"gorm.io/gorm"
)

// Session 服务端会话
// SessionID 是下发到 cookie 的不透明令牌，查不到即视为未认证。
// 不做过期与轮换，登出时整行删除
type Session struct {
	gorm.Model
	SessionID string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"session_id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Username  string    `gorm:"type:varchar(100);not null" json:"username"`
	LoginTime time.Time `gorm:"not null" json:"login_time"`
}
