package main

import (
	"context"
	"course-marketplace/internal/client"
	"course-marketplace/internal/config"
	"course-marketplace/internal/lock"
	"course-marketplace/internal/logger"
	"course-marketplace/internal/metrics"
	"course-marketplace/internal/repository"
	"course-marketplace/internal/scheduler"
	"course-marketplace/internal/server"
	"course-marketplace/internal/service"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	slog.SetDefault(log)
	metrics.Register(prometheus.DefaultRegisterer)

	db, err := client.InitDBClient(cfg.DatabaseURL)
	if err != nil {
		log.Error("database init failed", slog.Any("error", err))
		os.Exit(1)
	}

	locker := lock.NewMemoryLocker()
	if cfg.Redis.Addr != "" {
		rdb, err := client.InitRedisClient(context.Background(), &cfg.Redis)
		if err != nil {
			log.Error("redis init failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.Prefix)
	}

	invoiceClient := client.NewInvoiceClient(&cfg.Invoice)
	emailClient := client.NewEmailClient(&cfg.Email)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	checkoutRepo := repository.NewCheckoutRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	notificationService := service.NewNotificationService(
		emailClient,
		notificationRepo,
		enrollmentRepo,
		userRepo,
		cfg, log,
	)
	checkoutService := service.NewCheckoutService(
		db, invoiceClient, locker,
		checkoutRepo,
		courseRepo,
		enrollmentRepo,
		userRepo,
		webhookEventRepo,
		notificationService,
		cfg, log,
	)

	var jobs *scheduler.Scheduler
	if cfg.Jobs.Enabled {
		jobs = scheduler.NewScheduler(log,
			scheduler.Job{Name: "expire-checkouts", Interval: cfg.Jobs.ExpireInterval, Run: checkoutService.ExpireStale},
			scheduler.Job{Name: "progress-reminders", Interval: cfg.Jobs.ReminderInterval, Run: notificationService.SendProgressReminders},
		)
		jobs.Start()
	}

	srv := server.NewServer(server.Services{
		Proxy:        service.NewProxyService(invoiceClient),
		Checkout:     checkoutService,
		Course:       service.NewCourseService(courseRepo),
		Enrollment:   service.NewEnrollmentService(db, enrollmentRepo, userRepo),
		Notification: notificationService,
	}, cfg.Auth.JWTSecret, log)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info("starting HTTP server", slog.String("addr", serverAddr), slog.String("env", cfg.Environment.Name))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	if jobs != nil {
		jobs.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.Any("error", err))
	}
}
