package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"opsdesk/internal/config"
	"opsdesk/internal/mailer"
	"opsdesk/internal/repository"
	"opsdesk/internal/server"
	"opsdesk/internal/service"
)

// Seeded when the departments table is empty.
var defaultDepartments = []string{
	"Customer Support & Success",
	"Marketing",
	"Accounts & Admin",
	"Internal Development",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	if err := departmentRepo.Seed(ctx, defaultDepartments); err != nil {
		log.Fatal().Err(err).Msg("seed departments")
	}

	authSvc := service.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL, log)
	if err := authSvc.EnsureBootstrapAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin")
	}

	smtp := mailer.NewSMTP(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, log)

	taskSvc := service.NewTaskService(taskRepo, departmentRepo, completionRepo, userRepo, log)
	occurrenceSvc := service.NewOccurrenceService(taskRepo, holidayRepo, completionRepo, userRepo, log)
	reminderSvc := service.NewReminderService(taskRepo, holidayRepo, completionRepo, reminderRepo, userRepo, smtp, log)

	srv := server.NewServer(authSvc, taskSvc, occurrenceSvc, reminderSvc, holidayRepo, userRepo, cfg.CronSecret, log)

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.ReminderTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.ReminderTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			reminderSvc.Run(jobCtx, time.Now())
		}); err != nil {
			log.Fatal().Err(err).Msg("schedule reminders")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("opsdesk started")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server")
	}
	log.Info().Msg("shutdown complete")
}
