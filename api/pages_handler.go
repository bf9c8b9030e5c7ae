package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxfil333/VinylVault/api/common"
	"github.com/maxfil333/VinylVault/database/repo/accounts"
	"github.com/maxfil333/VinylVault/internal/pages"
)

// PagesHandler 用户页面处理器 - 从磁盘提供生成好的个人页面
type PagesHandler struct {
	generator    *pages.Generator
	accountsRepo *accounts.Repository
}

// NewPagesHandler 创建用户页面处理器
func NewPagesHandler(generator *pages.Generator, accountsRepo *accounts.Repository) *PagesHandler {
	return &PagesHandler{
		generator:    generator,
		accountsRepo: accountsRepo,
	}
}

// UserPageHandlerFunc serves /user/{user_id}.html
// 页面文件缺失但用户存在时现场重新生成再返回；用户不存在返回 404
func (h *PagesHandler) UserPageHandlerFunc(c *gin.Context) {
	page := c.Param("page")
	userID, ok := strings.CutSuffix(page, ".html")
	if !ok || userID == "" {
		common.RespondError(c, http.StatusNotFound, "Page not found")
		return
	}

	if !h.generator.Exists(userID) {
		user, err := h.accountsRepo.WithContext(c.Request.Context()).GetUserByUserID(userID)
		if err != nil {
			if errors.Is(err, accounts.ErrUserNotFound) {
				common.RespondError(c, http.StatusNotFound, "Page not found")
				return
			}
			common.RespondError(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		if err := h.generator.Generate(user.UserID, user.Username); err != nil {
			log.Printf("Failed to regenerate page for user %s: %v", userID, err)
			common.RespondError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	// 页面总是直接读盘，禁止任何中间缓存
	c.Header("Cache-Control", "no-store")
	c.File(h.generator.PagePath(userID))
}
