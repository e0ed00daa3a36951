package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/registrar-api/api/swagger"
	"github.com/noah-isme/registrar-api/internal/middleware"
	"github.com/noah-isme/registrar-api/internal/repository"
	"github.com/noah-isme/registrar-api/internal/service"
	"github.com/noah-isme/registrar-api/pkg/cache"
	"github.com/noah-isme/registrar-api/pkg/certificate"
	"github.com/noah-isme/registrar-api/pkg/config"
	"github.com/noah-isme/registrar-api/pkg/database"
	"github.com/noah-isme/registrar-api/pkg/jobs"
	"github.com/noah-isme/registrar-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/registrar-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/registrar-api/pkg/middleware/requestid"
	"github.com/noah-isme/registrar-api/pkg/storage"
)

// @title Registrar API
// @version 1.0.0
// @description Grading structure, catalog and honor certificate administration.
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, grading structure cache disabled", zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	certStore, err := storage.NewLocalStorage(cfg.Certificates.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("certificate storage unavailable", "error", err)
	}
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("export storage unavailable", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Certificates.SignedURLSecret, cfg.Certificates.SignedURLTTL)

	validate := validator.New()

	levelRepo := repository.NewAcademicLevelRepository(db)
	periodRepo := repository.NewGradingPeriodRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	strandRepo := repository.NewStrandRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	honorRepo := repository.NewHonorTypeRepository(db)
	templateRepo := repository.NewCertificateTemplateRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	gradingSvc := service.NewGradingPeriodService(periodRepo, levelRepo, cacheSvc, metrics, validate, logr,
		service.GradingPeriodServiceConfig{CacheTTL: cfg.Cache.TTL})

	certDeps := service.CertificateDeps{
		Certificates: certificateRepo,
		Templates:    templateRepo,
		Honors:       honorRepo,
		Students:     studentRepo,
		Storage:      certStore,
		Logo:         certificate.NewLogoEmbedder(cfg.Certificates.LogoPath, logr),
		Metrics:      metrics,
	}
	worker := service.NewCertificateWorker(certDeps, logr)
	queue := jobs.NewQueue("certificates", worker.Handle, jobs.QueueConfig{
		Workers:     cfg.Certificates.WorkerConcurrency,
		MaxRetries:  cfg.Certificates.WorkerRetries,
		RetryDelay:  2 * time.Second,
		OnExhausted: worker.Exhausted,
		Logger:      logr,
	})
	queue.Start(ctx)
	defer queue.Stop()

	svcs := services{
		levels:       service.NewAcademicLevelService(levelRepo, validate, logr),
		grading:      gradingSvc,
		exports:      service.NewExportService(gradingSvc, exportStore, logr),
		subjects:     service.NewSubjectService(subjectRepo, levelRepo, strandRepo, validate, logr),
		strands:      service.NewStrandService(strandRepo, levelRepo, validate, logr),
		departments:  service.NewDepartmentService(departmentRepo, validate, logr),
		courses:      service.NewCourseService(courseRepo, departmentRepo, validate, logr),
		assignments:  service.NewAssignmentService(assignmentRepo, instructorRepo, levelRepo, subjectRepo, validate, logr),
		enrollments:  service.NewEnrollmentService(enrollmentRepo, studentRepo, subjectRepo, validate, logr),
		honors:       service.NewHonorTypeService(honorRepo, levelRepo, validate, logr),
		templates:    service.NewCertificateTemplateService(templateRepo, levelRepo, honorRepo, validate, logr),
		certificates: service.NewCertificateService(certDeps, queue, signer, validate, logr, service.CertificateServiceConfig{APIPrefix: cfg.APIPrefix}),
		audit:        service.NewAuditService(auditRepo, logr),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}
	registerRoutes(r, cfg, svcs, metrics, db, auditRepo, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
