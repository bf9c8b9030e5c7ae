package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxfil333/VinylVault/api/common"
	"github.com/maxfil333/VinylVault/internal/auth"
)

const (
	ContextUserIDKey    = "user_id"
	ContextUsernameKey  = "username"
	ContextSessionIDKey = "session_id"
)

// RequireSession 会话认证中间件
// 从 cookie 读取不透明令牌并解析到会话记录；查不到即 401
func RequireSession(cookieName string, sessionService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			common.RespondError(c, http.StatusUnauthorized, "No session cookie")
			c.Abort()
			return
		}

		session, err := sessionService.Resolve(token)
		if err != nil {
			common.RespondError(c, http.StatusUnauthorized, "Invalid or expired session")
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set(ContextUserIDKey, session.UserID)
		c.Set(ContextUsernameKey, session.Username)
		c.Set(ContextSessionIDKey, session.SessionID)

		c.Next()
	}
}

// RequirePathUser 校验会话用户与路径用户一致，否则 403
// 必须挂在 RequireSession 之后
func RequirePathUser(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionUserID := c.GetString(ContextUserIDKey)
		pathUserID := c.Param(param)
		if sessionUserID == "" || sessionUserID != pathUserID {
			common.RespondError(c, http.StatusForbidden, "Session does not match requested user")
			c.Abort()
			return
		}
		c.Next()
	}
}
