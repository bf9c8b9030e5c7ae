package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maxfil333/VinylVault/api/core"
	"github.com/maxfil333/VinylVault/config"
	"github.com/maxfil333/VinylVault/database"
	"github.com/maxfil333/VinylVault/database/models"
	repoAccounts "github.com/maxfil333/VinylVault/database/repo/accounts"
	repoAlbums "github.com/maxfil333/VinylVault/database/repo/albums"
	repoSessions "github.com/maxfil333/VinylVault/database/repo/sessions"
	"github.com/maxfil333/VinylVault/internal/auth"
	"github.com/maxfil333/VinylVault/internal/metadata"
	"github.com/maxfil333/VinylVault/internal/pages"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if err := os.MkdirAll(cfg.UserPagesDir(), os.ModePerm); err != nil {
		log.Fatalf("Failed to create user pages directory: %v", err)
	}

	provider, err := database.NewGormProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Printf("Initializing database, database type: %s", provider.Name())

	// 自动DDL
	if err := provider.AutoMigrate(&models.User{}, &models.Album{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}
	log.Println("Database initialized successfully")

	accountsRepo := repoAccounts.NewRepository(provider.DB())
	albumsRepo := repoAlbums.NewRepository(provider.DB())
	sessionsRepo := repoSessions.NewRepository(provider.DB())
	sessionService := auth.NewService(accountsRepo, sessionsRepo)

	metadataClient, err := metadata.NewClient(metadata.Config{
		BaseURL:      cfg.LastfmAPIURL,
		APIKey:       cfg.LastfmAPIKey,
		SearchLimit:  cfg.LastfmSearchLimit,
		Timeout:      cfg.LastfmTimeout,
		CacheTTL:     cfg.CacheMetadataTTL,
		CacheEntries: cfg.CacheMetadataMaxEntries,
	})
	if err != nil {
		log.Fatalf("Failed to initialize metadata client: %v", err)
	}
	if cfg.LastfmAPIKey == "" {
		log.Println("[Warning] lastfm_api_key is empty, metadata search will fail upstream")
	}

	pageGenerator, err := pages.NewGenerator(cfg.UserPagesDir())
	if err != nil {
		log.Fatalf("Failed to initialize page generator: %v", err)
	}

	// 创建服务器依赖
	deps := &core.ServerDependencies{
		Provider:       provider,
		AccountsRepo:   accountsRepo,
		AlbumsRepo:     albumsRepo,
		SessionService: sessionService,
		Metadata:       metadataClient,
		PageGenerator:  pageGenerator,
	}

	// 启动gin
	server, cleanup := core.StartServer(deps)
	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 处理退出signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cleanup != nil {
		cleanup()
		log.Println("Cleanup tasks finished.")
	}

	metadataClient.Close()

	if err := provider.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited successfully")
}
