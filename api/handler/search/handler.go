package search

import (
	"github.com/gin-gonic/gin"
	"github.com/maxfil333/VinylVault/api/common"
	"github.com/maxfil333/VinylVault/internal/metadata"
)

// Handler 专辑搜索处理器 - 元数据 API 之上的查询入口
type Handler struct {
	client *metadata.Client
}

// NewHandler 创建搜索处理器
func NewHandler(client *metadata.Client) *Handler {
	return &Handler{client: client}
}

// SearchAlbumsHandler GET /api/search/albums/{name}
// 不分页，结果数量限制透传上游
func (h *Handler) SearchAlbumsHandler(c *gin.Context) {
	name := c.Param("name")

	albums, err := h.client.SearchAlbums(c.Request.Context(), name, h.client.SearchLimit())
	if err != nil {
		common.RespondUpstreamError(c, err.Error())
		return
	}

	common.RespondSuccess(c, gin.H{"albums": albums})
}

// SearchMixedHandler GET /api/search/mixed/{query}
// 专辑搜索与艺术家热门专辑并行执行，合并为两组带标签的结果
func (h *Handler) SearchMixedHandler(c *gin.Context) {
	query := c.Param("query")

	results, err := h.client.SearchMixed(c.Request.Context(), query, h.client.SearchLimit())
	if err != nil {
		common.RespondUpstreamError(c, err.Error())
		return
	}

	common.RespondSuccess(c, results)
}
