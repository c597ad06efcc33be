package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/academia-sys/academia-api/api/swagger"
	"github.com/academia-sys/academia-api/internal/handler"
	"github.com/academia-sys/academia-api/internal/middleware"
	"github.com/academia-sys/academia-api/internal/repository"
	"github.com/academia-sys/academia-api/internal/service"
	"github.com/academia-sys/academia-api/pkg/cache"
	"github.com/academia-sys/academia-api/pkg/config"
	"github.com/academia-sys/academia-api/pkg/database"
	"github.com/academia-sys/academia-api/pkg/logger"
	corsmiddleware "github.com/academia-sys/academia-api/pkg/middleware/cors"
	reqidmiddleware "github.com/academia-sys/academia-api/pkg/middleware/requestid"
	"github.com/academia-sys/academia-api/pkg/notify"
)

// @title Academia API
// @version 1.0.0
// @description Enrollment and billing back office for the academy
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

	store := repository.NewStore(db)
	studentRepo := repository.NewStudentRepository(store)
	teacherRepo := repository.NewTeacherRepository(store)
	cycleRepo := repository.NewCycleRepository(store)
	courseRepo := repository.NewCourseRepository(store)
	packageRepo := repository.NewPackageRepository(store)
	enrollmentRepo := repository.NewEnrollmentRepository(store)
	billingRepo := repository.NewBillingRepository(store)

	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Catalog.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cacheRepo != nil)

	validate := validator.New()

	checker := service.NewEligibilityChecker(enrollmentRepo, logr)
	expander := service.NewPackageExpander(packageRepo, courseRepo, enrollmentRepo, logr)
	billingGen := service.NewBillingGenerator(billingRepo, cfg.Billing)

	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	cycleSvc := service.NewCycleService(cycleRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	packageSvc := service.NewPackageService(packageRepo, validate, logr)
	paymentSvc := service.NewPaymentService(billingRepo, logr)
	enrollmentSvc := service.NewEnrollmentService(store, enrollmentRepo, courseRepo, packageRepo,
		studentRepo, checker, expander, billingGen, billingRepo, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reminderSvc := service.NewReminderService(billingRepo, notify.NewLogSender(logr), cfg.Reminders, metricsSvc, logr)
	if err := reminderSvc.Start(ctx); err != nil {
		logr.Sugar().Fatalw("failed to start reminder service", "error", err)
	}
	defer reminderSvc.Stop()

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Students:    handler.NewStudentHandler(studentSvc, enrollmentSvc),
		Teachers:    handler.NewTeacherHandler(teacherSvc),
		Cycles:      handler.NewCycleHandler(cycleSvc),
		Courses:     handler.NewCourseHandler(courseSvc, cacheSvc),
		Packages:    handler.NewPackageHandler(packageSvc, cacheSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc),
		Payments:    handler.NewPaymentHandler(paymentSvc, metricsSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
