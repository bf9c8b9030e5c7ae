package albums

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maxfil333/VinylVault/api/common"
	"github.com/maxfil333/VinylVault/api/middleware"
	"github.com/maxfil333/VinylVault/database/models"
)

// AddAlbumHandler POST /api/users/{user_id}/albums/add/
// 通过元数据 API 补全封面后追加到收藏末尾
// 封面补全失败不阻断添加，封面字段留空
func (h *Handler) AddAlbumHandler(c *gin.Context) {
	var req addAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID := c.GetString(middleware.ContextUserIDKey)

	album := &models.Album{
		AlbumID:    uuid.New().String(),
		UserID:     userID,
		AlbumName:  req.AlbumName,
		ArtistName: req.ArtistName,
	}

	info, err := h.covers.AlbumInfo(c.Request.Context(), req.ArtistName, req.AlbumName)
	if err != nil {
		log.Printf("Failed to fetch cover for %q by %q: %v", req.AlbumName, req.ArtistName, err)
	} else {
		album.CoverURL = info.CoverURL
		album.CoverURLReserve = info.CoverURLReserve
	}

	if err := h.albumsRepo.WithContext(c.Request.Context()).AppendAlbum(album); err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to add album")
		return
	}

	common.RespondSuccessMessage(c, "Album added", album)
}
