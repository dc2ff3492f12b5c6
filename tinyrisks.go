// Package tinyrisks is the content-management backend for the TinyRisks
// personal site: single-admin session auth, image uploads (standalone and
// community gallery posts), and a draft/published text post collection,
// all persisted in SQLite with uploaded files on the local filesystem.
package tinyrisks

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

// App is the central application. It wires together the store, the upload
// workflow, middleware, and routes.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store

	uploads      *uploader
	loginLimiter *loginLimiter
}

// New creates an App with the given configuration. Call Setup (or Start,
// which runs it implicitly) before serving requests.
func New(cfg SiteConfig) *App {
	cfg.setDefaults()
	return &App{
		Config: cfg,
		Echo:   echo.New(),
	}
}

// Setup initializes the database, seeds the admin account, prepares the
// upload directory, and registers middleware and routes. It does not start
// the listener, which keeps it usable from tests.
func (a *App) Setup() error {
	if err := a.Config.validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return err
	}
	a.Store = store

	if err := store.SeedAdmin(a.Config.AdminUsername, a.Config.AdminPassword); err != nil {
		return err
	}

	if err := os.MkdirAll(a.Config.UploadDir, 0o755); err != nil {
		return err
	}
	a.uploads = newUploader(UploadConfig{
		Dir:           a.Config.UploadDir,
		URLPrefix:     a.Config.UploadURLPrefix,
		MaxFileBytes:  a.Config.MaxUploadBytes,
		MaxBatchFiles: a.Config.MaxGalleryImages,
	})

	a.loginLimiter = newLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	return nil
}

// Start runs Setup if needed and starts the HTTP server.
func (a *App) Start() error {
	if a.Store == nil {
		if err := a.Setup(); err != nil {
			return err
		}
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close releases resources. Call when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Session and auth
	e.POST("/api/login", a.handleLogin)
	e.POST("/api/logout", a.handleLogout, a.requireAuth)

	// Single images
	e.POST("/api/upload", a.handleUpload, a.requireAuth)
	e.GET("/api/images", a.handleListImages)

	// Community gallery posts
	e.POST("/api/community-images", a.handleCreateGalleryPost, a.requireAuth)
	e.GET("/api/community-images", a.handleListGalleryPosts)
	e.GET("/api/community-images/:id", a.handleGetGalleryPost)
	e.PUT("/api/community-images/:id", a.handleUpdateGalleryPost, a.requireAuth)
	e.DELETE("/api/community-images/:id", a.handleDeleteGalleryPost, a.requireAuth)

	// Text posts
	e.POST("/api/text-posts", a.handleCreateTextPost, a.requireAuth)
	e.GET("/api/text-posts", a.handleListTextPosts)
	e.GET("/api/text-posts/:id", a.handleGetTextPost)
	e.PUT("/api/text-posts/:id", a.handleUpdateTextPost, a.requireAuth)
	e.DELETE("/api/text-posts/:id", a.handleDeleteTextPost, a.requireAuth)

	// Site surface
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.Static(a.Config.UploadURLPrefix, a.Config.UploadDir)
	e.Static("/", a.Config.StaticDir)
}
