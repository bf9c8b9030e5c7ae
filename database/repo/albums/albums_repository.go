package albums

import (
	"context"
	"errors"

	"github.com/maxfil333/VinylVault/database/models"
	"gorm.io/gorm"
)

// ErrAlbumNotFound 专辑不存在错误
var ErrAlbumNotFound = errors.New("album not found")

// Repository 专辑仓库 - 封装用户收藏列表的数据库操作
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的专辑仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountUserAlbums 统计用户收藏的专辑数量
func (r *Repository) CountUserAlbums(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Album{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// AppendAlbum 追加专辑到用户收藏末尾
// Order 取当前数量（append-to-end）；读取和写入之间不加锁
func (r *Repository) AppendAlbum(album *models.Album) error {
	count, err := r.CountUserAlbums(album.UserID)
	if err != nil {
		return err
	}
	album.Order = int(count)
	return r.db.Create(album).Error
}

// GetUserAlbums 获取用户收藏列表，始终按 Order 升序
func (r *Repository) GetUserAlbums(userID string) ([]*models.Album, error) {
	var albums []*models.Album
	err := r.db.Where("user_id = ?", userID).Order("sort_order asc").Find(&albums).Error
	return albums, err
}

// GetAlbum 获取用户收藏中的单张专辑
func (r *Repository) GetAlbum(userID, albumID string) (*models.Album, error) {
	var album models.Album
	err := r.db.Where("user_id = ? AND album_id = ?", userID, albumID).First(&album).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}
	return &album, nil
}

// DeleteAlbum 按 album_id 从用户收藏中移除专辑
// 没有命中任何行时返回 ErrAlbumNotFound，其余条目的 Order 保持不变
func (r *Repository) DeleteAlbum(userID, albumID string) error {
	result := r.db.Unscoped().Where("user_id = ? AND album_id = ?", userID, albumID).Delete(&models.Album{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

// UpdateAlbumOrder 更新单张专辑的 Order 字段
// 逐条 last-write-wins，没有命中时返回 ErrAlbumNotFound
func (r *Repository) UpdateAlbumOrder(userID, albumID string, order int) error {
	result := r.db.Model(&models.Album{}).
		Where("user_id = ? AND album_id = ?", userID, albumID).
		Update("sort_order", order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

// WithContext 返回带上下文的仓库
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}
