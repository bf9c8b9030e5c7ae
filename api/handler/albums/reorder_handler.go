package albums

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxfil333/VinylVault/api/common"
	"github.com/maxfil333/VinylVault/api/middleware"
	repoAlbums "github.com/maxfil333/VinylVault/database/repo/albums"
)

// ReorderAlbumsHandler PUT /api/users/{user_id}/albums/reorder/
// 逐条更新 Order 字段，last-write-wins；重复执行结果相同
// 空列表或条目缺字段返回 400，album_id 没有命中返回 404
func (h *Handler) ReorderAlbumsHandler(c *gin.Context) {
	var entries []reorderEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if len(entries) == 0 {
		common.RespondError(c, http.StatusBadRequest, "Reorder list is empty")
		return
	}
	for i, entry := range entries {
		if entry.AlbumID == "" || entry.Order == nil {
			common.RespondError(c, http.StatusBadRequest, fmt.Sprintf("Entry %d is missing album_id or order", i))
			return
		}
	}

	userID := c.GetString(middleware.ContextUserIDKey)
	repo := h.albumsRepo.WithContext(c.Request.Context())

	for _, entry := range entries {
		if err := repo.UpdateAlbumOrder(userID, entry.AlbumID, *entry.Order); err != nil {
			if errors.Is(err, repoAlbums.ErrAlbumNotFound) {
				common.RespondError(c, http.StatusNotFound, fmt.Sprintf("Album %s not found", entry.AlbumID))
				return
			}
			common.RespondError(c, http.StatusInternalServerError, "Failed to reorder albums")
			return
		}
	}

	common.RespondSuccessMessage(c, "Albums reordered", nil)
}
