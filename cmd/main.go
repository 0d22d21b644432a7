package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	closeSessionHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/close_session"
	dismissErrorHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/dismiss_error"
	downloadConfirmationHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/download_confirmation"
	editFormHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/edit_form"
	getCalendarHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/get_calendar"
	getSessionHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/get_session"
	getTimeOptionsHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/get_time_options"
	goBackHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/go_back"
	listFailuresHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/list_failures"
	navigateCalendarHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/navigate_calendar"
	selectDateHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/select_date"
	selectTimeHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/select_time"
	startOverHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/start_over"
	startSessionHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/start_session"
	submitBookingHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/submit_booking"
	"github.com/m04kA/SMC-BookingWizard/internal/api/middleware"
	"github.com/m04kA/SMC-BookingWizard/internal/config"
	diagnosticsRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/diagnostics"
	sessionRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/session"
	schedulerClient "github.com/m04kA/SMC-BookingWizard/internal/integrations/scheduler"
	wizardService "github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
	"github.com/m04kA/SMC-BookingWizard/pkg/logger"
	"github.com/m04kA/SMC-BookingWizard/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-BookingWizard...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены). nil-коллектор безопасен для вызовов.
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	hours, err := cfg.Hours()
	if err != nil {
		log.Fatal("Invalid business hours: %v", err)
	}
	settings, err := cfg.WizardSettings()
	if err != nil {
		log.Fatal("Invalid wizard settings: %v", err)
	}

	// Инициализируем клиента бэкенда расписания
	backendTimeout := time.Duration(cfg.Scheduler.Timeout) * time.Second
	scheduler := schedulerClient.NewClient(
		cfg.Scheduler.URL,
		backendTimeout,
		cfg.Scheduler.RequestsPerSecond,
		cfg.Scheduler.Burst,
		log,
	)
	log.Info("Scheduler client initialized (url=%s timeout=%ds rps=%.1f)",
		cfg.Scheduler.URL, cfg.Scheduler.Timeout, cfg.Scheduler.RequestsPerSecond)

	// Журнал фоновых ошибок: PostgreSQL или только лог
	var (
		recorder          wizardService.FailureRecorder
		failureRepository *diagnosticsRepo.Repository
	)
	if cfg.Diagnostics.Enabled {
		dbCfg := cfg.Diagnostics.Database

		db, err := sql.Open("postgres", dbCfg.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(dbCfg.MaxOpenConns)
		db.SetMaxIdleConns(dbCfg.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(dbCfg.ConnMaxLifetime) * time.Second)

		// Проверяем соединение
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			dbCfg.Host, dbCfg.Port, dbCfg.DBName)

		failureRepository = diagnosticsRepo.NewRepository(db, metricsCollector)
		recorder = failureRepository
	} else {
		recorder = diagnosticsRepo.NewLogRecorder(log, metricsCollector)
		log.Info("Diagnostics database disabled, swallowed failures go to the log only")
	}

	// Хранилище сессий и сервис визарда
	sessions := sessionRepo.NewStore[*wizardService.Session](time.Duration(cfg.Wizard.SessionIdleMinutes) * time.Minute)

	wizard := wizardService.NewService(
		wizardService.Config{
			Hours:          hours,
			SubmissionMode: settings.SubmissionMode,
			TimeMode:       settings.TimeMode,
			ContactVariant: settings.ContactVariant,
			ConfirmDelay:   settings.ConfirmDelay,
			BackendTimeout: backendTimeout,
		},
		scheduler,
		sessions,
		recorder,
		metricsCollector,
		&wizardService.RealTimeProvider{},
		log,
	)
	log.Info("Wizard initialized (submission=%s, time=%s, contact=%s, timezone=%s)",
		settings.SubmissionMode, settings.TimeMode, settings.ContactVariant, hours.Location)

	// Фоновые задачи: очистка простаивающих сессий и старых записей журнала
	janitor, err := sessionRepo.NewJanitor(sessions, cfg.Wizard.SweepSchedule, metricsCollector, log)
	if err != nil {
		log.Fatal("Failed to schedule session sweep: %v", err)
	}
	if failureRepository != nil {
		retention := diagnosticsRepo.NewRetention(
			failureRepository,
			time.Duration(cfg.Diagnostics.RetentionDays)*24*time.Hour,
			time.Minute,
			log,
		)
		if err := janitor.AddJob(cfg.Diagnostics.RetentionSchedule, retention.RunOnce); err != nil {
			log.Fatal("Failed to schedule diagnostics retention: %v", err)
		}
	}
	janitor.Start()

	// Инициализируем handlers
	startSession := startSessionHandler.NewHandler(wizard, log)
	getSession := getSessionHandler.NewHandler(wizard, log)
	closeSession := closeSessionHandler.NewHandler(wizard, log)
	getCalendar := getCalendarHandler.NewHandler(wizard, log)
	navigateCalendar := navigateCalendarHandler.NewHandler(wizard, log)
	selectDate := selectDateHandler.NewHandler(wizard, log)
	getTimeOptions := getTimeOptionsHandler.NewHandler(wizard, log)
	selectTime := selectTimeHandler.NewHandler(wizard, log)
	goBack := goBackHandler.NewHandler(wizard, log)
	editForm := editFormHandler.NewHandler(wizard, log)
	submitBooking := submitBookingHandler.NewHandler(wizard, log)
	downloadConfirmation := downloadConfirmationHandler.NewHandler(wizard, log)
	startOver := startOverHandler.NewHandler(wizard, log)
	dismissError := dismissErrorHandler.NewHandler(wizard, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Сессия ---
	api.HandleFunc("/sessions", startSession.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}", getSession.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}", closeSession.Handle).Methods(http.MethodDelete)

	// --- Выбор даты ---
	api.HandleFunc("/sessions/{sessionId}/calendar", getCalendar.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/calendar/{direction}", navigateCalendar.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/date", selectDate.Handle).Methods(http.MethodPost)

	// --- Выбор времени ---
	api.HandleFunc("/sessions/{sessionId}/time-options", getTimeOptions.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/time", selectTime.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/back", goBack.Handle).Methods(http.MethodPost)

	// --- Контакты и бронирование ---
	api.HandleFunc("/sessions/{sessionId}/form", editForm.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/sessions/{sessionId}/booking", submitBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/booking.ics", downloadConfirmation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/reset", startOver.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/error", dismissError.Handle).Methods(http.MethodDelete)

	// --- Диагностика (только при включенном журнале в БД) ---
	if failureRepository != nil {
		listFailures := listFailuresHandler.NewHandler(failureRepository, log)
		api.HandleFunc("/diagnostics/failures", listFailures.Handle).Methods(http.MethodGet)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	janitor.Stop(shutdownCtx)

	// Дожидаемся фоновых запросов бронирования, чтобы ошибки успели попасть в журнал
	if err := wizard.Wait(shutdownCtx); err != nil {
		log.Warn("Background bookings still in flight: %v", err)
	}

	log.Info("Server stopped gracefully")
}
