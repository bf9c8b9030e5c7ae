package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maxfil333/VinylVault/database/models"
	"github.com/maxfil333/VinylVault/database/repo/accounts"
	"github.com/maxfil333/VinylVault/internal/pages"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupPagesRouter 创建用户页面测试路由
func setupPagesRouter(t *testing.T) (*gin.Engine, *pages.Generator, *accounts.Repository) {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}))

	repo := accounts.NewRepository(db)
	generator, err := pages.NewGenerator(t.TempDir())
	assert.NoError(t, err)

	handler := NewPagesHandler(generator, repo)
	router := gin.New()
	router.GET("/user/:page", handler.UserPageHandlerFunc)

	return router, generator, repo
}

func getPage(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserPageHandlerFunc(t *testing.T) {
	router, generator, repo := setupPagesRouter(t)

	assert.NoError(t, repo.CreateUser(&models.User{UserID: "user-1", Username: "alice", Password: "x", Email: "a@example.com"}))
	assert.NoError(t, generator.Generate("user-1", "alice"))

	w := getPage(router, "/user/user-1.html")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

// TestUserPageHandlerFunc_RegenerateOnMiss 页面文件缺失但用户存在时现场重建
func TestUserPageHandlerFunc_RegenerateOnMiss(t *testing.T) {
	router, generator, repo := setupPagesRouter(t)

	assert.NoError(t, repo.CreateUser(&models.User{UserID: "user-1", Username: "alice", Password: "x", Email: "a@example.com"}))
	assert.NoError(t, generator.Generate("user-1", "alice"))
	assert.NoError(t, os.Remove(generator.PagePath("user-1")))

	w := getPage(router, "/user/user-1.html")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
	assert.True(t, generator.Exists("user-1"))
}

func TestUserPageHandlerFunc_UnknownUser(t *testing.T) {
	router, _, _ := setupPagesRouter(t)

	w := getPage(router, "/user/nobody.html")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestUserPageHandlerFunc_BadPageName 路径必须以 .html 结尾
func TestUserPageHandlerFunc_BadPageName(t *testing.T) {
	router, _, _ := setupPagesRouter(t)

	w := getPage(router, "/user/user-1")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = getPage(router, "/user/.html")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
