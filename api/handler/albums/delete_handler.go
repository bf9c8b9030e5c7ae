package albums

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxfil333/VinylVault/api/common"
	"github.com/maxfil333/VinylVault/api/middleware"
	repoAlbums "github.com/maxfil333/VinylVault/database/repo/albums"
)

// DeleteAlbumHandler DELETE /api/users/{user_id}/albums/delete/{album_id}
// 没有删到任何条目返回 404，其余条目的 Order 不变
func (h *Handler) DeleteAlbumHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	albumID := c.Param("album_id")

	err := h.albumsRepo.WithContext(c.Request.Context()).DeleteAlbum(userID, albumID)
	if err != nil {
		if errors.Is(err, repoAlbums.ErrAlbumNotFound) {
			common.RespondError(c, http.StatusNotFound, "Album not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to delete album")
		return
	}

	common.RespondSuccessMessage(c, "Album deleted", nil)
}
