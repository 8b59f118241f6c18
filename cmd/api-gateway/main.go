package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/rpsoft/puntualidad-api/api/swagger"
	"github.com/rpsoft/puntualidad-api/internal/handler"
	"github.com/rpsoft/puntualidad-api/internal/middleware"
	"github.com/rpsoft/puntualidad-api/internal/repository"
	"github.com/rpsoft/puntualidad-api/internal/service"
	"github.com/rpsoft/puntualidad-api/pkg/cache"
	"github.com/rpsoft/puntualidad-api/pkg/config"
	"github.com/rpsoft/puntualidad-api/pkg/database"
	"github.com/rpsoft/puntualidad-api/pkg/logger"
	corsmiddleware "github.com/rpsoft/puntualidad-api/pkg/middleware/cors"
	reqidmiddleware "github.com/rpsoft/puntualidad-api/pkg/middleware/requestid"
)

// @title Puntualidad API
// @version 1.0.0
// @description Intern attendance, justification tickets, and recovery hours
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	cacheSvc := service.NewCacheService(nil, metricsSvc, cfg.Summary.CacheTTL, logr, false)
	if cfg.Summary.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, summaries uncached", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Summary.CacheTTL, logr, true)
		}
	}

	validate := validator.New()

	attendanceRepo := repository.NewAttendanceRepository(db)
	recoveryRepo := repository.NewRecoveryRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	internRepo := repository.NewInternRepository(db)

	justificationSvc := service.NewJustificationService(attendanceRepo, validate, logr, service.JustificationServiceConfig{
		TicketCap: cfg.Tickets.MonthlyCap,
		SLAWindow: cfg.Tickets.SLAWindow,
	})
	attendanceSvc := service.NewAttendanceService(attendanceRepo, internRepo, validate, logr)
	recoverySvc := service.NewRecoveryService(recoveryRepo, attendanceRepo, validate, logr, service.RecoveryServiceConfig{
		DefaultTargetHours: cfg.Recovery.DefaultTargetHours,
		MaxSessionHours:    cfg.Recovery.MaxSessionHours,
	})
	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr)
	summarySvc := service.NewSummaryService(attendanceRepo, scheduleRepo, internRepo, cacheSvc, logr, service.SummaryServiceConfig{
		CacheTTL:         cfg.Summary.CacheTTL,
		AlertPreviewSize: cfg.Summary.AlertPreviewSize,
		TicketCap:        cfg.Tickets.MonthlyCap,
	})

	justificationHandler := handler.NewJustificationHandler(justificationSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	recoveryHandler := handler.NewRecoveryHandler(recoverySvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	summaryHandler := handler.NewSummaryHandler(summarySvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/justifications", justificationHandler.Create)
		api.GET("/justifications", justificationHandler.List)
		api.POST("/justifications/:id/approve", justificationHandler.Approve)
		api.POST("/justifications/:id/reject", justificationHandler.Reject)

		api.POST("/attendance", attendanceHandler.Mark)
		api.GET("/attendance", attendanceHandler.List)
		api.GET("/attendance/board", attendanceHandler.Board)
		api.GET("/interns/active", attendanceHandler.ActiveInterns)

		api.GET("/recoveries", recoveryHandler.List)
		api.POST("/recoveries", recoveryHandler.Schedule)
		api.PATCH("/recoveries/:id/hours", recoveryHandler.RecordHours)
		api.POST("/recoveries/:id/cancel", recoveryHandler.Cancel)

		api.GET("/schedules", scheduleHandler.ByWeekday)
		api.PUT("/schedules", scheduleHandler.Upsert)
		api.GET("/schedules/:internId", scheduleHandler.ClassDay)

		api.GET("/punctuality/summary", summaryHandler.Daily)
		api.GET("/punctuality/alerts", summaryHandler.Alerts)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
