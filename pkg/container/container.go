package container

import (
	"context"
	"fmt"
	"time"

	"talenta-backend/internal/config"
	infraCache "talenta-backend/internal/infrastructure/cache"
	"talenta-backend/internal/infrastructure/database"
	"talenta-backend/internal/infrastructure/queue"
	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/infrastructure/transcoder"
	"talenta-backend/pkg/cache"
	"talenta-backend/pkg/jwt"

	"talenta-backend/internal/domains/audio"
	audioHandler "talenta-backend/internal/domains/audio/handler"
	audioRepo "talenta-backend/internal/domains/audio/repository"
	audioService "talenta-backend/internal/domains/audio/service"
	"talenta-backend/internal/domains/audiochapter"
	audioChapterHandler "talenta-backend/internal/domains/audiochapter/handler"
	audioChapterRepo "talenta-backend/internal/domains/audiochapter/repository"
	audioChapterService "talenta-backend/internal/domains/audiochapter/service"
	"talenta-backend/internal/domains/audiopart"
	audioPartHandler "talenta-backend/internal/domains/audiopart/handler"
	audioPartRepo "talenta-backend/internal/domains/audiopart/repository"
	audioPartService "talenta-backend/internal/domains/audiopart/service"
	"talenta-backend/internal/domains/book"
	bookHandler "talenta-backend/internal/domains/book/handler"
	bookRepo "talenta-backend/internal/domains/book/repository"
	bookService "talenta-backend/internal/domains/book/service"
	"talenta-backend/internal/domains/category"
	categoryHandler "talenta-backend/internal/domains/category/handler"
	categoryRepo "talenta-backend/internal/domains/category/repository"
	categoryService "talenta-backend/internal/domains/category/service"
	"talenta-backend/internal/domains/chapter"
	chapterHandler "talenta-backend/internal/domains/chapter/handler"
	chapterRepo "talenta-backend/internal/domains/chapter/repository"
	chapterService "talenta-backend/internal/domains/chapter/service"
	"talenta-backend/internal/domains/contributor"
	contributorHandler "talenta-backend/internal/domains/contributor/handler"
	contributorRepo "talenta-backend/internal/domains/contributor/repository"
	contributorService "talenta-backend/internal/domains/contributor/service"
	"talenta-backend/internal/domains/ordering"
	"talenta-backend/internal/domains/user"
	userHandler "talenta-backend/internal/domains/user/handler"
	userRepo "talenta-backend/internal/domains/user/repository"
	userService "talenta-backend/internal/domains/user/service"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph shared by the API and the
// worker. Every component is a singleton for the process lifetime.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	Blobs       *storage.MinIOStorage
	Images      *storage.ImageProcessor
	Transcoder  *transcoder.FFmpeg
	AsynqClient *asynq.Client
	Ordering    *ordering.Store
	References  *storage.PostgresReferences

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo         user.Repository
	CategoryRepo     category.Repository
	BookRepo         book.Repository
	ContributorRepo  contributor.Repository
	ChapterRepo      chapter.Repository
	AudioRepo        audio.Repository
	AudioChapterRepo audiochapter.Repository
	AudioPartRepo    audiopart.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService         user.Service
	CategoryService     category.Service
	BookService         book.Service
	ContributorService  contributor.Service
	ChapterService      chapter.Service
	AudioService        audio.Service
	AudioMerger         audio.BackgroundMerger
	AudioChapterService audiochapter.Service
	AudioPartService    audiopart.Service

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	UserHandler         *userHandler.AdminHandler
	CategoryHandler     *categoryHandler.CategoryHandler
	BookHandler         *bookHandler.BookHandler
	ContributorHandler  *contributorHandler.ContributorHandler
	ChapterHandler      *chapterHandler.ChapterHandler
	AudioHandler        *audioHandler.AudioHandler
	AudioChapterHandler *audioChapterHandler.AudioChapterHandler
	AudioPartHandler    *audioPartHandler.AudioPartHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the graph in dependency order: config,
// infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("env", cfg.App.Environment).Msg("Config loaded")

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		// the cache is optional; lookups fall through to the database
		log.Warn().Err(err).Msg("Redis connection failed, using in-memory cache")
		c.Cache = cache.NewMemory()
	} else {
		c.Cache = infraCache.NewRedisCache(c.Redis.Client, "talenta:")
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL)

	// ========================================
	// STEP 4: INITIALIZE MEDIA INFRASTRUCTURE
	// ========================================
	blobs, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init blob store: %w", err)
	}
	c.Blobs = blobs
	c.Images = storage.NewImageProcessor(cfg.Media.MaxImageSize)
	c.Transcoder = transcoder.NewFFmpeg(
		transcoder.WithBinary(cfg.Transcoder.Binary),
		transcoder.WithTimeout(cfg.Transcoder.Timeout),
		transcoder.WithBitrate(cfg.Transcoder.Bitrate),
	)
	if err := c.Transcoder.Available(); err != nil {
		// merges fail with an upstream error until the binary is installed
		log.Warn().Err(err).Msg("Transcoder not available")
	}
	c.AsynqClient = queue.NewClient(cfg.Redis)
	c.Ordering = ordering.NewStore(db.Pool)
	c.References = storage.NewPostgresReferences(db.Pool)

	// ========================================
	// STEP 5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.ContributorRepo = contributorRepo.NewPostgresRepository(pool)
	c.ChapterRepo = chapterRepo.NewPostgresRepository(pool, c.Ordering)
	c.AudioRepo = audioRepo.NewPostgresRepository(pool)
	c.AudioChapterRepo = audioChapterRepo.NewPostgresRepository(pool, c.Ordering)
	c.AudioPartRepo = audioPartRepo.NewPostgresRepository(pool, c.Ordering)
}

func (c *Container) initServices() {
	media := c.Config.Media

	c.UserService = userService.NewUserService(c.UserRepo, c.Cache)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo, c.Cache)
	c.BookService = bookService.NewBookService(c.BookRepo, c.CategoryService, c.Blobs, c.Images, media.PresignExpiry)
	c.ContributorService = contributorService.NewContributorService(c.ContributorRepo, c.BookRepo)
	c.ChapterService = chapterService.NewChapterService(c.ChapterRepo, c.BookRepo, c.ContributorService)

	audios := audioService.NewAudioService(
		c.AudioRepo,
		c.CategoryService,
		c.Blobs,
		c.Images,
		c.Transcoder,
		c.AsynqClient,
		audioService.Options{
			MaxFileSize:     media.MaxAudioSize,
			DownloadTimeout: media.DownloadTimeout,
			MergeTimeout:    c.Config.Transcoder.Timeout * 3,
			Queue:           c.Config.Queue.MergeQueue,
		},
	)
	c.AudioService = audios
	c.AudioMerger = audios

	c.AudioChapterService = audioChapterService.NewAudioChapterService(c.AudioChapterRepo, c.AudioRepo, c.Blobs)
	c.AudioPartService = audioPartService.NewAudioPartService(c.AudioPartRepo, c.AudioChapterRepo, c.AudioRepo, c.Blobs, media.MaxAudioSize)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewAdminHandler(c.UserService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.ContributorHandler = contributorHandler.NewContributorHandler(c.ContributorService)
	c.ChapterHandler = chapterHandler.NewChapterHandler(c.ChapterService)
	c.AudioHandler = audioHandler.NewAudioHandler(c.AudioService, c.Blobs)
	c.AudioChapterHandler = audioChapterHandler.NewAudioChapterHandler(c.AudioChapterService)
	c.AudioPartHandler = audioPartHandler.NewAudioPartHandler(c.AudioPartService)
}

// ========================================
// HEALTH
// ========================================

// Health reports each dependency as "up" or the error it returned.
func (c *Container) Health(ctx context.Context) map[string]string {
	status := map[string]string{}
	check := func(name string, err error) {
		if err != nil {
			status[name] = err.Error()
			return
		}
		status[name] = "up"
	}
	check("database", c.DB.Ping(ctx))
	check("redis", c.Redis.HealthCheck(ctx))
	check("storage", c.Blobs.HealthCheck(ctx))
	return status
}

// PoolStats exposes the database pool counters, or nil before Connect.
func (c *Container) PoolStats() *database.PoolStats {
	stats, err := c.DB.Stats()
	if err != nil {
		return nil
	}
	return stats
}

// Cleanup releases connections on shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
