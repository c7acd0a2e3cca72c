package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/idealab-pce/idealab-api/api/swagger"
	"github.com/idealab-pce/idealab-api/internal/authz"
	"github.com/idealab-pce/idealab-api/internal/handler"
	"github.com/idealab-pce/idealab-api/internal/middleware"
	"github.com/idealab-pce/idealab-api/internal/repository"
	"github.com/idealab-pce/idealab-api/internal/service"
	"github.com/idealab-pce/idealab-api/pkg/cache"
	"github.com/idealab-pce/idealab-api/pkg/config"
	"github.com/idealab-pce/idealab-api/pkg/database"
	"github.com/idealab-pce/idealab-api/pkg/logger"
	"github.com/idealab-pce/idealab-api/pkg/mailer"
	corsmiddleware "github.com/idealab-pce/idealab-api/pkg/middleware/cors"
	reqidmiddleware "github.com/idealab-pce/idealab-api/pkg/middleware/requestid"
	"github.com/idealab-pce/idealab-api/pkg/storage"
)

// @title Idea Lab API
// @version 1.0.0
// @description Project tracking and showcase backend for the campus Idea Lab
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)

	var store storage.ObjectStore
	var filesHandler *handler.FilesHandler
	switch cfg.Storage.Backend {
	case "s3":
		s3Store, err := storage.NewS3Store(cfg.Storage)
		if err != nil {
			logr.Sugar().Fatalw("failed to init s3 storage", "error", err)
		}
		store = s3Store
	default:
		localStore, err := storage.NewLocalStore(cfg.Storage.LocalDir, signer, cfg.APIPrefix+"/files")
		if err != nil {
			logr.Sugar().Fatalw("failed to init local storage", "error", err)
		}
		store = localStore
		filesHandler = handler.NewFilesHandler(signer, localStore)
	}

	var mail mailer.Mailer
	switch cfg.Mail.Backend {
	case "sendgrid":
		mail = mailer.NewSendGridMailer(cfg.Mail.SendGridKey, cfg.Mail.FromName, cfg.Mail.FromAddress)
	default:
		mail = mailer.NewConsoleMailer(logr)
	}

	authority := authz.New(cfg.Access.SuperAdminEmails)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	overlordRepo := repository.NewOverlordRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	showcaseRepo := repository.NewShowcaseRepository(db)
	adminLogRepo := repository.NewAdminLogRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	stateStore := cache.NewStateStore(redisClient)

	metricsSvc := service.NewMetricsService()
	auditSvc := service.NewAdminLogService(adminLogRepo, logr)

	authSvc := service.NewAuthService(userRepo, overlordRepo, stateStore, authority, service.AuthConfig{
		ClientID:      cfg.OAuth.ClientID,
		ClientSecret:  cfg.OAuth.ClientSecret,
		RedirectURL:   cfg.OAuth.RedirectURL,
		StateTTL:      cfg.OAuth.StateTTL,
		SessionSecret: cfg.Session.Secret,
		SessionExpiry: cfg.Session.Expiration,
		AllowedDomain: cfg.Access.AllowedDomain,
	}, logr)

	userSvc := service.NewUserService(userRepo, authority, auditSvc, nil, logr)
	projectSvc := service.NewProjectService(projectRepo, userRepo, authority, auditSvc, store, nil, mail, metricsSvc, nil, logr)
	overlordSvc := service.NewOverlordService(overlordRepo, auditSvc, nil, logr)
	achievementSvc := service.NewAchievementService(achievementRepo, store, nil, logr)
	showcaseSvc := service.NewShowcaseService(showcaseRepo, cacheRepo, store, cfg.Showcase.CacheTTL, nil, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Maintenance(cfg.APIPrefix, func() bool { return cfg.Maintenance.Enabled }))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, metricsSvc, cfg.Session.CookieName, cfg.Session.Expiration, cfg.Env == config.EnvProduction),
		Project:     handler.NewProjectHandler(projectSvc, metricsSvc),
		User:        handler.NewUserHandler(userSvc),
		Overlord:    handler.NewOverlordHandler(overlordSvc),
		Achievement: handler.NewAchievementHandler(achievementSvc),
		Showcase:    handler.NewShowcaseHandler(showcaseSvc),
		AdminLog:    handler.NewAdminLogHandler(auditSvc),
		Files:       filesHandler,
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc, authority, cfg.Session.CookieName)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
