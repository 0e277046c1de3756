package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gator-scheduler/schedule-api/api/swagger"
	"github.com/gator-scheduler/schedule-api/internal/handler"
	"github.com/gator-scheduler/schedule-api/internal/middleware"
	"github.com/gator-scheduler/schedule-api/internal/repository"
	"github.com/gator-scheduler/schedule-api/internal/service"
	"github.com/gator-scheduler/schedule-api/pkg/cache"
	"github.com/gator-scheduler/schedule-api/pkg/config"
	"github.com/gator-scheduler/schedule-api/pkg/database"
	"github.com/gator-scheduler/schedule-api/pkg/logger"
	corsmiddleware "github.com/gator-scheduler/schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/gator-scheduler/schedule-api/pkg/middleware/requestid"
)

// @title Gator Scheduler API
// @version 1.0.0
// @description Weekly class schedule builder backend
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("postgres connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("redis connection failed", "error", err)
	}
	defer redisClient.Close()

	snapshots := repository.NewSnapshotRepository(redisClient, cfg.Storage.Namespace, cfg.Storage.Version, logr)
	if err := snapshots.EnsureVersion(context.Background()); err != nil {
		logr.Sugar().Fatalw("snapshot version check failed", "error", err)
	}

	catalogRepo := repository.NewCatalogRepository(db)
	searchCache := repository.NewCacheRepository(redisClient, logr)

	metrics := service.NewMetricsService()
	telemetry := service.NewTelemetryService(cfg.Telemetry, metrics, logr)
	telemetry.Start(context.Background())
	defer telemetry.Stop()

	stateCache := service.NewStateCache()
	calendarSvc := service.NewCalendarService(stateCache, snapshots, metrics, logr)
	selectionSvc := service.NewSelectionService(stateCache, snapshots, catalogRepo, calendarSvc, telemetry, metrics, logr)
	appointmentSvc := service.NewAppointmentService(stateCache, snapshots, calendarSvc, metrics, logr)
	exportSvc := service.NewExportService(stateCache, snapshots, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, searchCache, cfg.Catalog, metrics, logr)

	catalogs := handler.NewCatalogHandler(catalogSvc)
	selections := handler.NewSelectionHandler(selectionSvc)
	appointments := handler.NewAppointmentHandler(appointmentSvc)
	calendars := handler.NewCalendarHandler(calendarSvc, exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.PlannerIdentity(cfg.Auth))
	api.GET("/courses", catalogs.Search)
	api.GET("/planner", selections.List)
	api.POST("/planner/toggle", selections.Toggle)
	api.DELETE("/planner/courses/:code", selections.Remove)
	api.GET("/planner/credits", selections.Credits)
	api.GET("/planner/appointments", appointments.List)
	api.POST("/planner/appointments", appointments.Create)
	api.DELETE("/planner/appointments/:id", appointments.Remove)
	api.GET("/planner/calendar", calendars.Current)
	api.GET("/planner/calendar/export", calendars.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
