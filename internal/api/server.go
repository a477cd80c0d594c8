package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Berserk-Vl/TaskManagement/internal/api/auth"
	"github.com/Berserk-Vl/TaskManagement/internal/api/middleware"
	"github.com/Berserk-Vl/TaskManagement/internal/config"
	"github.com/Berserk-Vl/TaskManagement/internal/model"
	"github.com/Berserk-Vl/TaskManagement/internal/pkg/metrics"
	"github.com/Berserk-Vl/TaskManagement/internal/pkg/ratelimit"
	"github.com/Berserk-Vl/TaskManagement/internal/service"
	"github.com/Berserk-Vl/TaskManagement/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Server wires the HTTP transport to the task service. It owns the
// database and redis connections and the gin router.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
	rdb    *redis.Client
	router *gin.Engine
	auth   *auth.Handler
	tasks  *service.TaskService
}

// NewServer connects MySQL and redis, migrates the schema and builds the
// router with all routes registered.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Task{}, &model.Comment{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	metrics.InitMetrics()

	users := store.NewUserStore(db)
	tasks := service.NewTaskService(store.NewTaskStore(db), store.NewCommentStore(db), users, logger)
	limiter := ratelimit.NewRedisRateLimiter(rdb, logger, "taskmanagement:ratelimit:login:",
		cfg.App.LoginRateLimit, cfg.App.LoginRateBurst)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	s := &Server{
		cfg:    cfg,
		logger: logger,
		db:     db,
		rdb:    rdb,
		router: r,
		auth:   auth.NewHandler(users, limiter, cfg.Security.JWTSecret, cfg.Security.TokenLifetime, logger),
		tasks:  tasks,
	}
	s.registerRoutes()
	return s, nil
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database and redis connections.
func (s *Server) Close() error {
	var firstErr error
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			firstErr = err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			if closeErr := sqlDB.Close(); closeErr != nil {
				if firstErr == nil {
					firstErr = closeErr
				}
			}
		}
	}
	return firstErr
}

func (s *Server) registerRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/healthz", s.handleHealthz)

	s.router.POST("/user/login", s.auth.Login)
	s.router.POST("/user/register", s.auth.Register)

	authed := s.router.Group("/")
	authed.Use(middleware.AuthMiddleware(s.cfg.Security.JWTSecret))
	authed.POST("/tasks", s.handleAddTask)
	authed.GET("/tasks", s.handleGetTasks)
	authed.PUT("/tasks/:taskId", s.handleUpdateTask)
	authed.PUT("/tasks/:taskId/status", s.handleSetTaskStatus)
	authed.PUT("/tasks/:taskId/performer", s.handleSetTaskPerformer)
	authed.PUT("/tasks/:taskId/comment", s.handleAddComment)
	authed.DELETE("/tasks/:taskId", s.handleDeleteTask)
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
