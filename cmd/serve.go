package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingPolicyHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking_policy"
	getBusinessDaysHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_business_days"
	getProviderScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_provider_schedule"
	listAppointmentsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_appointments"
	portalAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/portal_available_slots"
	portalCreateBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/portal_create_booking"
	updateAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_appointment_status"
	updateBookingPolicyHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_booking_policy"
	updateBusinessDaysHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_business_days"
	updateProviderScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_provider_schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/portalauth"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	appointmentsService "github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	portalService "github.com/m04kA/SMC-SchedulingService/internal/service/portal"
	settingsService "github.com/m04kA/SMC-SchedulingService/internal/service/settings"
	admitBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/admit_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	portalAdmitBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/portal_admit_booking"
	portalAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/portal_available_slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

func runServe(configPath string) error {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	defaultLocation, err := cfg.Scheduling.Location()
	if err != nil {
		return fmt.Errorf("invalid default timezone: %w", err)
	}
	schedulingSettings := scheduling.Settings{
		StepMinutes:     cfg.Scheduling.StepMinutes,
		DefaultLocation: defaultLocation,
	}

	// Инициализируем метрики (если включены). nil-коллектор безопасен для всех вызовов
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Репозитории и менеджер транзакций
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	tenantRepository := tenantRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Интеграция с сервисом сессий портала
	sessionVerifier := portalauth.NewClient(
		cfg.PortalAuth.URL,
		time.Duration(cfg.PortalAuth.Timeout)*time.Second,
		log,
	)
	log.Info("Portal auth client initialized (url=%s, timeout=%ds)", cfg.PortalAuth.URL, cfg.PortalAuth.Timeout)

	// Сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		tenantRepository,
		txMgr,
		schedulingSettings,
		log,
	)
	settingsSvc := settingsService.NewService(
		tenantRepository,
		scheduleRepository,
		catalogRepository,
		txMgr,
		domain.Weekday(cfg.Scheduling.DefaultRestDay),
		log,
	)
	portalGate := portalService.NewService(
		tenantRepository,
		catalogRepository,
		appointmentRepository,
		sessionVerifier,
		log,
	)

	// Use cases: одна реализация допуска и доступности для всех поверхностей
	availabilityUseCase := getAvailableSlotsUC.NewUseCase(
		tenantRepository,
		scheduleRepository,
		appointmentRepository,
		catalogRepository,
		schedulingSettings,
		metricsCollector,
		log,
	)
	admissionUseCase := admitBookingUC.NewUseCase(
		appointmentRepository,
		tenantRepository,
		scheduleRepository,
		catalogRepository,
		txMgr,
		schedulingSettings,
		metricsCollector,
		log,
	)
	portalAvailabilityUseCase := portalAvailableSlotsUC.NewUseCase(portalGate, availabilityUseCase, log)
	portalAdmissionUseCase := portalAdmitBookingUC.NewUseCase(portalGate, admissionUseCase, log)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(availabilityUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(admissionUseCase, log)
	updateAppointment := updateAppointmentHandler.NewHandler(admissionUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getBookingPolicy := getBookingPolicyHandler.NewHandler(settingsSvc, log)
	updateBookingPolicy := updateBookingPolicyHandler.NewHandler(settingsSvc, log)
	getBusinessDays := getBusinessDaysHandler.NewHandler(settingsSvc, log)
	updateBusinessDays := updateBusinessDaysHandler.NewHandler(settingsSvc, log)
	getProviderSchedule := getProviderScheduleHandler.NewHandler(settingsSvc, log)
	updateProviderSchedule := updateProviderScheduleHandler.NewHandler(settingsSvc, log)
	portalAvailableSlots := portalAvailableSlotsHandler.NewHandler(portalAvailabilityUseCase, log)
	portalCreateBooking := portalCreateBookingHandler.NewHandler(portalAdmissionUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", healthHandler(db)).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PORTAL ROUTES (сессия клиента в теле запроса)
	// ============================================================

	portalRoutes := api.PathPrefix("/portal").Subrouter()

	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis is unavailable at %s, portal rate limit will pass requests: %v", cfg.RateLimit.RedisAddr, err)
		}

		portalRoutes.Use(middleware.RateLimit(
			middleware.NewRedisCounter(rdb),
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window(),
			"ratelimit:portal",
			log,
		))
		log.Info("Portal rate limit enabled: %d requests per %s", cfg.RateLimit.Requests, cfg.RateLimit.Window())
	}

	portalRoutes.HandleFunc("/available-slots", portalAvailableSlots.Handle).Methods(http.MethodPost)
	portalRoutes.HandleFunc("/bookings", portalCreateBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// STAFF ROUTES (Bearer JWT сотрудника)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.StaffAuth([]byte(cfg.Auth.JWTSecret), log))

	// --- Доступность и записи ---
	protected.HandleFunc("/providers/{providerId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Настройки салона ---
	protected.HandleFunc("/settings/booking-policy", getBookingPolicy.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/settings/booking-policy", updateBookingPolicy.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/settings/business-days", getBusinessDays.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/settings/business-days", updateBusinessDays.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/providers/{providerId}/schedule", getProviderSchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/schedule", updateProviderSchedule.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		close(stopMetricsCh)
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// healthHandler отвечает 200, пока доступна база данных
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
