package albums

import (
	"context"

	"github.com/maxfil333/VinylVault/database/repo/albums"
	"github.com/maxfil333/VinylVault/internal/metadata"
)

// CoverSource 封面来源 - 按艺术家+专辑名补全封面链接
type CoverSource interface {
	AlbumInfo(ctx context.Context, artistName, albumName string) (*metadata.Album, error)
}

// Handler 专辑收藏处理器
type Handler struct {
	albumsRepo *albums.Repository
	covers     CoverSource
}

// NewHandler 创建专辑收藏处理器
func NewHandler(albumsRepo *albums.Repository, covers CoverSource) *Handler {
	return &Handler{
		albumsRepo: albumsRepo,
		covers:     covers,
	}
}

type addAlbumRequest struct {
	AlbumName  string `json:"album_name" binding:"required"`
	ArtistName string `json:"artist_name" binding:"required"`
}

// reorderEntry 单条重排指令
// Order 用指针区分缺失与 0
type reorderEntry struct {
	AlbumID string `json:"album_id"`
	Order   *int   `json:"order"`
}
