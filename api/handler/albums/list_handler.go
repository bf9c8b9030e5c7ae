package albums

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxfil333/VinylVault/api/common"
	"github.com/maxfil333/VinylVault/api/middleware"
)

// ListAlbumsHandler GET /api/users/{user_id}/albums/all/
// 返回收藏列表，按 Order 升序
func (h *Handler) ListAlbumsHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)

	albums, err := h.albumsRepo.WithContext(c.Request.Context()).GetUserAlbums(userID)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list albums")
		return
	}

	common.RespondSuccess(c, gin.H{"albums": albums})
}
