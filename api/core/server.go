package core

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/maxfil333/VinylVault/api"
	"github.com/maxfil333/VinylVault/api/common"
	handlerAlbums "github.com/maxfil333/VinylVault/api/handler/albums"
	handlerSearch "github.com/maxfil333/VinylVault/api/handler/search"
	"github.com/maxfil333/VinylVault/api/middleware"
	"github.com/maxfil333/VinylVault/config"
	"github.com/maxfil333/VinylVault/database"
	repoAccounts "github.com/maxfil333/VinylVault/database/repo/accounts"
	repoAlbums "github.com/maxfil333/VinylVault/database/repo/albums"
	"github.com/maxfil333/VinylVault/internal/auth"
	"github.com/maxfil333/VinylVault/internal/metadata"
	"github.com/maxfil333/VinylVault/internal/pages"
)

var startTime = time.Now()

// ServerDependencies 服务器依赖项
type ServerDependencies struct {
	Provider       database.Provider
	AccountsRepo   *repoAccounts.Repository
	AlbumsRepo     *repoAlbums.Repository
	SessionService *auth.Service
	Metadata       *metadata.Client
	PageGenerator  *pages.Generator
}

// setupRouter 组装 gin 路由
func setupRouter(deps *ServerDependencies) (*gin.Engine, func()) {
	cfg := config.Get()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if config.IsDevelopment() {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())

	// 前端可从任意来源访问 API，cookie 凭据放行
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  false,
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)

	// 速率限制
	authRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	apiRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		apiRateLimiter.StopCleanup()
	}

	router.GET("/health", func(context *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks": gin.H{
				"database": checkDatabaseHealth(deps.Provider),
			},
		}
		httpStatus := http.StatusOK
		if health["checks"].(gin.H)["database"] != "ok" {
			httpStatus = http.StatusServiceUnavailable
		}
		context.JSON(httpStatus, health)
	})
	router.GET("/version", func(context *gin.Context) {
		common.RespondSuccess(context, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	// 创建处理器（依赖注入）
	authHandler := api.NewAuthHandler(deps.SessionService, deps.PageGenerator, cfg.SessionCookieName, config.IsProduction())
	pagesHandler := api.NewPagesHandler(deps.PageGenerator, deps.AccountsRepo)
	albumHandler := handlerAlbums.NewHandler(deps.AlbumsRepo, deps.Metadata)
	searchHandler := handlerSearch.NewHandler(deps.Metadata)

	// 浏览器表单流程
	formGroup := router.Group("/")
	formGroup.Use(authRateLimiter.Middleware())
	{
		formGroup.POST("/register", authHandler.RegisterHandlerFunc) // POST /register
		formGroup.POST("/login", authHandler.LoginHandlerFunc)       // POST /login
		formGroup.POST("/logout", authHandler.LogoutHandlerFunc)     // POST /logout
	}

	// 生成的用户页面与静态资源
	router.GET("/user/:page", pagesHandler.UserPageHandlerFunc) // GET /user/{user_id}.html
	router.Static("/static", cfg.WebsiteDir)

	apiGroup := router.Group("/api")
	apiGroup.Use(apiRateLimiter.Middleware())
	apiGroup.Use(func(context *gin.Context) { // 所有API禁止缓存
		context.Header("Cache-Control", "no-store")
		context.Next()
	})
	{
		// 会话自省
		apiGroup.GET("/auth/check", authHandler.AuthCheckHandlerFunc) // GET /api/auth/check
		meGroup := apiGroup.Group("/me")
		meGroup.Use(middleware.RequireSession(cfg.SessionCookieName, deps.SessionService))
		{
			meGroup.GET("/userid", authHandler.UserIDHandlerFunc) // GET /api/me/userid
		}

		// 元数据搜索
		searchGroup := apiGroup.Group("/search")
		{
			searchGroup.GET("/albums/:name", searchHandler.SearchAlbumsHandler) // GET /api/search/albums/{name}
			searchGroup.GET("/mixed/:query", searchHandler.SearchMixedHandler)  // GET /api/search/mixed/{query}
		}

		// 用户收藏，要求会话用户与路径用户一致
		userAlbums := apiGroup.Group("/users/:user_id/albums")
		userAlbums.Use(middleware.RequireSession(cfg.SessionCookieName, deps.SessionService))
		userAlbums.Use(middleware.RequirePathUser("user_id"))
		{
			userAlbums.POST("/add/", albumHandler.AddAlbumHandler)                 // POST /api/users/{user_id}/albums/add/
			userAlbums.DELETE("/delete/:album_id", albumHandler.DeleteAlbumHandler) // DELETE /api/users/{user_id}/albums/delete/{album_id}
			userAlbums.GET("/all/", albumHandler.ListAlbumsHandler)                // GET /api/users/{user_id}/albums/all/
			userAlbums.PUT("/reorder/", albumHandler.ReorderAlbumsHandler)         // PUT /api/users/{user_id}/albums/reorder/
		}
	}

	return router, cleanup
}

// StartServer 创建 http.Server
func StartServer(deps *ServerDependencies) (*http.Server, func()) {
	cfg := config.Get()
	router, clean := setupRouter(deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, clean
}
