package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maxfil333/VinylVault/api/middleware"
	"github.com/maxfil333/VinylVault/database/models"
	"github.com/maxfil333/VinylVault/database/repo/accounts"
	"github.com/maxfil333/VinylVault/database/repo/sessions"
	"github.com/maxfil333/VinylVault/internal/auth"
	"github.com/maxfil333/VinylVault/internal/pages"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testCookieName = "vv_session"

// setupAuthRouter 创建带内存库的认证路由
func setupAuthRouter(t *testing.T) (*gin.Engine, *pages.Generator) {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}))

	sessionService := auth.NewService(accounts.NewRepository(db), sessions.NewRepository(db))

	generator, err := pages.NewGenerator(t.TempDir())
	assert.NoError(t, err)

	handler := NewAuthHandler(sessionService, generator, testCookieName, false)

	router := gin.New()
	router.POST("/register", handler.RegisterHandlerFunc)
	router.POST("/login", handler.LoginHandlerFunc)
	router.POST("/logout", handler.LogoutHandlerFunc)
	router.GET("/api/auth/check", handler.AuthCheckHandlerFunc)

	meGroup := router.Group("/api/me")
	meGroup.Use(middleware.RequireSession(testCookieName, sessionService))
	meGroup.GET("/userid", handler.UserIDHandlerFunc)

	return router, generator
}

func doForm(router *gin.Engine, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", testCookieName)
	return nil
}

var registerForm = url.Values{
	"username": {"alice"},
	"password": {"secret123"},
	"email":    {"alice@example.com"},
}

// --- 测试注册 ---

func TestRegisterHandlerFunc(t *testing.T) {
	router, generator := setupAuthRouter(t)

	w := doForm(router, "/register", registerForm, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	// 重定向到用户页面，且页面已生成
	location := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "/user/"))
	assert.True(t, strings.HasSuffix(location, ".html"))
	userID := strings.TrimSuffix(strings.TrimPrefix(location, "/user/"), ".html")
	assert.True(t, generator.Exists(userID))

	// 下发 HttpOnly 会话 cookie
	cookie := sessionCookie(t, w)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestRegisterHandlerFunc_DuplicateUsername(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doForm(router, "/register", registerForm, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = doForm(router, "/register", registerForm, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterHandlerFunc_Binding(t *testing.T) {
	router, _ := setupAuthRouter(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{
			name: "missing username",
			form: url.Values{"password": {"secret123"}, "email": {"a@example.com"}},
		},
		{
			name: "missing password",
			form: url.Values{"username": {"alice"}, "email": {"a@example.com"}},
		},
		{
			name: "invalid email",
			form: url.Values{"username": {"alice"}, "password": {"secret123"}, "email": {"not-an-email"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doForm(router, "/register", tt.form, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// --- 测试登录 ---

func TestLoginHandlerFunc(t *testing.T) {
	router, _ := setupAuthRouter(t)

	doForm(router, "/register", registerForm, nil)

	w := doForm(router, "/login", url.Values{
		"username": {"alice"},
		"password": {"secret123"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.NotEmpty(t, sessionCookie(t, w).Value)
}

func TestLoginHandlerFunc_InvalidCredentials(t *testing.T) {
	router, _ := setupAuthRouter(t)

	doForm(router, "/register", registerForm, nil)

	w := doForm(router, "/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doForm(router, "/login", url.Values{
		"username": {"nobody"},
		"password": {"secret123"},
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- 测试登出 ---

func TestLogoutHandlerFunc(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doForm(router, "/register", registerForm, nil)
	cookie := sessionCookie(t, w)

	w = doForm(router, "/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// cookie 被清除
	cleared := sessionCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	// 令牌随会话失效
	req := httptest.NewRequest(http.MethodGet, "/api/me/userid", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestLogoutHandlerFunc_NoSession 无 cookie 登出也返回成功
func TestLogoutHandlerFunc_NoSession(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := doForm(router, "/logout", url.Values{}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// --- 测试会话自省 ---

func TestAuthCheckHandlerFunc(t *testing.T) {
	router, _ := setupAuthRouter(t)

	// 未认证时也返回 200
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	// 认证后返回用户信息
	reg := doForm(router, "/register", registerForm, nil)
	cookie := sessionCookie(t, reg)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}

func TestUserIDHandlerFunc(t *testing.T) {
	router, _ := setupAuthRouter(t)

	reg := doForm(router, "/register", registerForm, nil)
	cookie := sessionCookie(t, reg)
	location := reg.Header().Get("Location")
	userID := strings.TrimSuffix(strings.TrimPrefix(location, "/user/"), ".html")

	req := httptest.NewRequest(http.MethodGet, "/api/me/userid", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
}

func TestUserIDHandlerFunc_NoSession(t *testing.T) {
	router, _ := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me/userid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
