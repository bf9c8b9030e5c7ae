package models

import (
	"gorm.io/gorm"
)

// User 用户账户
// UserID 是对外暴露的不透明标识，Password 存 argon2id 哈希
type User struct {
	gorm.Model
	UserID   string `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Username string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Email    string `gorm:"type:varchar(255)" json:"email"`

	Albums []*Album `gorm:"foreignKey:UserID;references:UserID" json:"albums,omitempty"`
}
