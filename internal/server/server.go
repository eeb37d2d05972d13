package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/repository/mongorepo"
	"taskboard/internal/service"
)

type Server struct {
	Engine  *gin.Engine
	Config  *config.Config
	closers []func() error
}

// Stores bundles the repositories the services run on.
type Stores struct {
	Boards service.BoardStore
	Tasks  service.TaskStore
}

func Init(cfg *config.Config) (*Server, error) {
	s := &Server{Config: cfg}

	// Setup storage
	stores, err := s.openStorage(context.Background())
	if err != nil {
		s.Close()
		return nil, err
	}

	limiter, err := s.rateLimiter()
	if err != nil {
		s.Close()
		return nil, err
	}

	gin.SetMode(cfg.GinMode)
	s.Engine = NewRouter(cfg, stores, limiter)
	return s, nil
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(cfg *config.Config, stores Stores, limiter gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.RecoveryWithLog(), middleware.CORS(cfg.CORSOrigins))

	// Initialize services and handlers
	boardService := service.NewBoardService(stores.Boards)
	taskService := service.NewTaskService(stores.Boards, stores.Tasks, cfg.ReorderConcurrency)

	boardHandler := handler.NewBoardHandler(boardService)
	listHandler := handler.NewListHandler(boardService)
	taskHandler := handler.NewTaskHandler(taskService)

	// Public routes
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/api")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	if limiter != nil {
		authorized.Use(limiter)
	}
	handler.RegisterRoutes(authorized, boardHandler, listHandler, taskHandler)

	return r
}

func (s *Server) openStorage(ctx context.Context) (Stores, error) {
	cfg := s.Config

	switch cfg.StorageDriver {
	case config.DriverMongo:
		m, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return Stores{}, fmt.Errorf("❌ failed to connect to MongoDB: %w", err)
		}
		s.closers = append(s.closers, m.Disconnect)

		if err := mongorepo.EnsureIndexes(ctx, m.Database); err != nil {
			return Stores{}, fmt.Errorf("❌ failed to create MongoDB indexes: %w", err)
		}
		log.Info("✅ Connected to MongoDB")

		return Stores{
			Boards: mongorepo.NewBoardRepository(m.Database),
			Tasks:  mongorepo.NewTaskRepository(m.Database),
		}, nil

	case config.DriverPostgres:
		pool := repository.DefaultPoolConfig()
		pool.MaxOpenConns = cfg.DBMaxOpenConns
		pool.MaxIdleConns = cfg.DBMaxIdleConns
		pool.ConnMaxLifetime = cfg.DBConnMaxLifetime

		db, err := repository.OpenPostgres(cfg.DSN(), pool)
		if err != nil {
			return Stores{}, fmt.Errorf("❌ %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			s.closers = append(s.closers, sqlDB.Close)
		}
		log.Info("✅ Connected to database")

		if err := repository.Migrate(db, cfg.DBName); err != nil {
			return Stores{}, fmt.Errorf("❌ %w", err)
		}

		return Stores{
			Boards: repository.NewBoardRepository(db),
			Tasks:  repository.NewTaskRepository(db),
		}, nil

	default:
		return Stores{}, fmt.Errorf("❌ unknown storage driver %q", cfg.StorageDriver)
	}
}

// rateLimiter uses redis when REDIS_ADDR is set so that every instance shares
// the same windows.
func (s *Server) rateLimiter() (gin.HandlerFunc, error) {
	cfg := s.Config
	if cfg.RateLimitRPS <= 0 {
		return nil, nil
	}

	if cfg.RedisAddr == "" {
		return middleware.RateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, middleware.UserKeyFunc), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("❌ failed to connect to redis: %w", err)
	}
	s.closers = append(s.closers, client.Close)
	log.WithField("addr", cfg.RedisAddr).Info("✅ Connected to redis")

	limiter := middleware.NewDistributedRateLimiter(client)
	return limiter.Middleware("api", middleware.RateLimit{
		Rate:    int(cfg.RateLimitRPS * 60),
		Window:  time.Minute,
		KeyFunc: middleware.UserKeyFunc,
	}), nil
}

// Close releases storage and redis connections.
func (s *Server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.WithError(err).Warn("Failed to close connection")
		}
	}
	s.closers = nil
}

func (s *Server) Run() {
	defer s.Close()

	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Infof("🚀 Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("❌ Server forced to shutdown: %s", err)
		return
	}

	log.Info("✅ Server exited properly")
}
