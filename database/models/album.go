package models

import "gorm.io/gorm"

// Album 用户收藏中的一张专辑
// AlbumID 在单个用户的收藏内唯一；Order 决定展示顺序，
// 不要求连续或唯一，列表始终按 Order 升序返回
type Album struct {
	gorm.Model
	AlbumID         string `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_album" json:"album_id"`
	UserID          string `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_album;index" json:"-"`
	AlbumName       string `gorm:"type:varchar(255);not null" json:"album_name"`
	ArtistName      string `gorm:"type:varchar(255);not null" json:"artist_name"`
	CoverURL        string `gorm:"type:varchar(1024)" json:"cover_url"`
	CoverURLReserve string `gorm:"type:varchar(1024)" json:"cover_url_reserve"`
	Order           int    `gorm:"column:sort_order;not null;default:0" json:"order"`
}
