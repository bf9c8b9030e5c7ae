package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxfil333/VinylVault/api/common"
	"github.com/maxfil333/VinylVault/api/middleware"
	"github.com/maxfil333/VinylVault/internal/auth"
	"github.com/maxfil333/VinylVault/internal/pages"
)

// AuthHandler 认证处理器 - 注册、登录、登出与会话自省
type AuthHandler struct {
	sessionService *auth.Service
	pageGenerator  *pages.Generator
	cookieName     string
	secureCookie   bool
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(sessionService *auth.Service, pageGenerator *pages.Generator, cookieName string, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
		pageGenerator:  pageGenerator,
		cookieName:     cookieName,
		secureCookie:   secureCookie,
	}
}

type registerRequestBody struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
}

type loginRequestBody struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// RegisterHandlerFunc user registration (browser form flow)
// 用户名重复返回 409，成功则建立会话并重定向到用户页面
func (h *AuthHandler) RegisterHandlerFunc(c *gin.Context) {
	var req registerRequestBody
	if err := c.ShouldBind(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.sessionService.Register(req.Username, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			common.RespondError(c, http.StatusConflict, "Username already taken")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	// 注册即生成个人页面，失败不阻断注册流程
	if err := h.pageGenerator.Generate(result.User.UserID, result.User.Username); err != nil {
		log.Printf("Failed to generate page for user %s: %v", result.User.UserID, err)
	}

	h.setSessionCookie(c, result.SessionToken)
	c.Redirect(http.StatusSeeOther, "/user/"+result.User.UserID+".html")
}

// LoginHandlerFunc user login (browser form flow)
func (h *AuthHandler) LoginHandlerFunc(c *gin.Context) {
	var req loginRequestBody
	if err := c.ShouldBind(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.sessionService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			common.RespondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setSessionCookie(c, result.SessionToken)
	c.Redirect(http.StatusSeeOther, "/user/"+result.User.UserID+".html")
}

// LogoutHandlerFunc user logout
// 会话删除幂等：令牌缺失或已失效也返回成功
func (h *AuthHandler) LogoutHandlerFunc(c *gin.Context) {
	token, err := c.Cookie(h.cookieName)
	if err == nil && token != "" {
		if err := h.sessionService.Logout(token); err != nil {
			log.Printf("Failed to delete session: %v", err)
		}
	}

	h.clearSessionCookie(c)
	common.RespondSuccessMessage(c, "Logout successful", nil)
}

// AuthCheckHandlerFunc session introspection
// 区别于受保护接口：无会话时也返回 200，authenticated=false
func (h *AuthHandler) AuthCheckHandlerFunc(c *gin.Context) {
	token, err := c.Cookie(h.cookieName)
	if err != nil || token == "" {
		common.RespondSuccess(c, gin.H{"authenticated": false})
		return
	}

	session, err := h.sessionService.Resolve(token)
	if err != nil {
		common.RespondSuccess(c, gin.H{"authenticated": false})
		return
	}

	common.RespondSuccess(c, gin.H{
		"authenticated": true,
		"user_id":       session.UserID,
		"username":      session.Username,
	})
}

// UserIDHandlerFunc 返回当前会话的用户ID（需认证）
func (h *AuthHandler) UserIDHandlerFunc(c *gin.Context) {
	common.RespondSuccess(c, gin.H{"user_id": c.GetString(middleware.ContextUserIDKey)})
}

// setSessionCookie 下发 HttpOnly 会话 cookie
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	cookie := http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Secure:   h.secureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(c.Writer, &cookie)
}

// clearSessionCookie 让浏览器删除会话 cookie
func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secureCookie, true)
}
