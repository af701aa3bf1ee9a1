package main

import (
	"context"
	"net/http"
	"time"

	"talenta-backend/internal/shared/middleware"
	"talenta-backend/internal/shared/response"
	"talenta-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

// guards are the per-route middleware shared by the route groups.
type guards struct {
	auth     gin.HandlerFunc
	optional gin.HandlerFunc
	admin    gin.HandlerFunc
	uploads  gin.HandlerFunc
}

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	cfg := c.Config

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.ClientIP(),
		middleware.DebugErrors(!cfg.App.IsProduction()),
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.UploadsPerMinute, cfg.RateLimit.Burst)
	g := guards{
		auth:     middleware.Auth(c.JWTManager, c.UserService),
		optional: middleware.OptionalAuth(c.JWTManager, c.UserService),
		admin:    middleware.AdminOnly(),
		uploads:  limiter.Middleware(),
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupBookRoutes(v1, c, g)
		setupChapterRoutes(v1, c, g)
		setupAudioRoutes(v1, c, g)
		setupAudioChapterRoutes(v1, c, g)
		setupCategoryRoutes(v1, c, g)
		setupAdminRoutes(v1, c, g)
	}

	router.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, http.StatusNotFound, "Route not found", nil)
	})

	return router
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container, g guards) {
	books := v1.Group("/books")
	{
		books.GET("", g.optional, c.BookHandler.List)
		books.GET("/me", g.auth, c.BookHandler.ListMine)
		books.POST("", g.auth, g.uploads, c.BookHandler.Create)
		books.GET("/:id", g.optional, c.BookHandler.Get)
		books.PUT("/:id", g.auth, g.uploads, c.BookHandler.Update)
		books.DELETE("/:id", g.auth, c.BookHandler.Delete)
		books.POST("/:id/publish", g.auth, c.BookHandler.Publish)
		books.GET("/:id/download", g.optional, c.BookHandler.Download)

		books.POST("/:id/contributors", g.auth, c.ContributorHandler.Request)
		books.GET("/:id/contributors", g.auth, c.ContributorHandler.List)
		books.PATCH("/:id/contributors/:userId", g.auth, c.ContributorHandler.Decide)

		books.GET("/:id/chapters", g.optional, c.ChapterHandler.List)
		books.POST("/:id/chapters", g.auth, c.ChapterHandler.Create)
		books.PATCH("/:id/chapters/reorder", g.auth, c.ChapterHandler.Reorder)
	}
}

// ========================================
// CHAPTER ROUTES
// ========================================
func setupChapterRoutes(v1 *gin.RouterGroup, c *container.Container, g guards) {
	chapters := v1.Group("/chapters")
	{
		chapters.GET("/:chapterId", g.optional, c.ChapterHandler.Get)
		chapters.PUT("/:chapterId", g.auth, c.ChapterHandler.Update)
		chapters.DELETE("/:chapterId", g.auth, c.ChapterHandler.Delete)
	}
}

// ========================================
// AUDIO ROUTES
// ========================================
func setupAudioRoutes(v1 *gin.RouterGroup, c *container.Container, g guards) {
	audios := v1.Group("/audios")
	{
		audios.GET("", g.optional, c.AudioHandler.List)
		audios.GET("/me/drafts", g.auth, c.AudioHandler.ListDrafts)
		audios.POST("/upload", g.auth, g.uploads, c.AudioHandler.Upload)
		audios.GET("/play/:filename", c.AudioHandler.Play)
		audios.HEAD("/play/:filename", c.AudioHandler.Play)

		audios.GET("/:id", g.optional, c.AudioHandler.Get)
		audios.GET("/:id/stream", g.optional, c.AudioHandler.Stream)
		audios.HEAD("/:id/stream", g.optional, c.AudioHandler.Stream)
		audios.PATCH("/:id", g.auth, c.AudioHandler.Update)
		audios.PATCH("/:id/status", g.auth, c.AudioHandler.UpdateStatus)
		audios.POST("/:id/publish", g.auth, c.AudioHandler.Publish)
		audios.POST("/:id/merge", g.auth, c.AudioHandler.Merge)
		audios.DELETE("/:id", g.auth, c.AudioHandler.Delete)

		audios.POST("/:id/segments", g.auth, g.uploads, c.AudioHandler.AppendSegment)
		audios.PATCH("/:id/segments/order", g.auth, c.AudioHandler.ReorderSegments)
		audios.DELETE("/:id/segments", g.auth, c.AudioHandler.RemoveSegment)

		audios.GET("/:id/chapters", g.optional, c.AudioChapterHandler.List)
		audios.POST("/:id/chapters", g.auth, c.AudioChapterHandler.Create)
		audios.PATCH("/:id/chapters/reorder", g.auth, c.AudioChapterHandler.Reorder)
	}
}

// ========================================
// AUDIO CHAPTER & PART ROUTES
// ========================================
func setupAudioChapterRoutes(v1 *gin.RouterGroup, c *container.Container, g guards) {
	chapters := v1.Group("/audio-chapters")
	{
		chapters.GET("/:chapterId", g.optional, c.AudioChapterHandler.Get)
		chapters.PATCH("/:chapterId", g.auth, c.AudioChapterHandler.Update)
		chapters.DELETE("/:chapterId", g.auth, c.AudioChapterHandler.Delete)

		chapters.GET("/:chapterId/parts", g.optional, c.AudioPartHandler.List)
		chapters.POST("/:chapterId/parts", g.auth, g.uploads, c.AudioPartHandler.Create)
		chapters.PATCH("/:chapterId/parts/reorder", g.auth, c.AudioPartHandler.Reorder)
	}

	parts := v1.Group("/audio-parts")
	{
		parts.GET("/:partId", g.optional, c.AudioPartHandler.Get)
		parts.PATCH("/:partId", g.auth, g.uploads, c.AudioPartHandler.Update)
		parts.DELETE("/:partId", g.auth, c.AudioPartHandler.Delete)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container, g guards) {
	categories := v1.Group("/categories")
	{
		categories.GET("", g.optional, c.CategoryHandler.Tree)
		categories.GET("/:id", g.optional, c.CategoryHandler.Get)
		categories.POST("", g.auth, g.admin, c.CategoryHandler.Create)
		categories.PUT("/:id", g.auth, g.admin, c.CategoryHandler.Update)
		categories.PATCH("/:id/active", g.auth, g.admin, c.CategoryHandler.SetActive)
		categories.DELETE("/:id", g.auth, g.admin, c.CategoryHandler.Delete)
		categories.POST("/:id/subcategories", g.auth, g.admin, c.CategoryHandler.CreateSubCategory)
	}

	subCategories := v1.Group("/subcategories", g.auth, g.admin)
	{
		subCategories.PUT("/:id", c.CategoryHandler.UpdateSubCategory)
		subCategories.DELETE("/:id", c.CategoryHandler.DeleteSubCategory)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container, g guards) {
	admin := v1.Group("/admin", g.auth, g.admin)
	{
		users := admin.Group("/users")
		users.GET("", c.UserHandler.List)
		users.GET("/stats", c.UserHandler.Stats)
		users.GET("/export", c.UserHandler.Export)
		users.GET("/:id", c.UserHandler.Get)
		users.PUT("/:id", c.UserHandler.Update)
		users.DELETE("/:id", c.UserHandler.Delete)
		users.GET("/:id/content", c.UserHandler.Content)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		services := appCtx.Health(ctx)
		status := "ok"
		for _, s := range services {
			if s != "up" {
				status = "degraded"
			}
		}

		response.Success(c, http.StatusOK, "Service health", gin.H{
			"status":    status,
			"version":   appCtx.Config.App.Version,
			"timestamp": time.Now().Format(time.RFC3339),
			"services":  services,
			"database":  appCtx.PoolStats(),
		})
	}
}
