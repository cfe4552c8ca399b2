package main

import (
	"context"
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
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_availability"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_customer_appointments"
	getShopAppointmentsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_shop_appointments"
	getShopHoursHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_shop_hours"
	patchAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/patch_appointment"
	updateShopHoursHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_shop_hours"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/events"
	appointmentsService "github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/conflicts"
	shopHoursService "github.com/m04kA/SMC-SchedulingService/internal/service/shophours"
	"github.com/m04kA/SMC-SchedulingService/internal/service/statemachine"
	createAppointmentUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
	getAvailabilityUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
	patchAppointmentUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/patch_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/tracing"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Трассировка
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to set up tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s (sample_ratio=%.2f)", cfg.Tracing.OTLPEndpoint, cfg.Tracing.SampleRatio)
	}

	// Подключаем хранилище
	store, err := openStorage(cfg, log, metricsCollector)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer store.close()

	// Публикация событий
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Events.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, log)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("Event publishing enabled (brokers=%v, topic=%s)", cfg.Events.Brokers, cfg.Events.Topic)
	} else {
		log.Info("Event publishing disabled: no brokers configured")
	}

	// Инициализируем доменные сервисы
	resolver := conflicts.NewResolver(store.appointments, metricsCollector, log)
	machine := statemachine.NewMachine(store.appointments, resolver, metricsCollector, log)

	appointmentSvc := appointmentsService.NewService(store.appointments, machine, publisher, store.tx, log)
	shopHoursSvc := shopHoursService.NewService(store.shops, cfg.Scheduling.DefaultTimezone, log)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(store.appointments, publisher, metricsCollector, log)
	patchAppointmentUseCase := patchAppointmentUC.NewUseCase(store.appointments, machine, store.tx, publisher, log)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(store.shops, store.appointments, cfg.Scheduling.MaxRangeDays, log)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	patchAppointment := patchAppointmentHandler.NewHandler(patchAppointmentUseCase, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	getShopAppointments := getShopAppointmentsHandler.NewHandler(appointmentSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getShopHours := getShopHoursHandler.NewHandler(shopHoursSvc, log)
	updateShopHours := updateShopHoursHandler.NewHandler(shopHoursSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Ограничение частоты запросов (только API, не /metrics)
	if cfg.RateLimit.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s: %v (fail_open=%t)", cfg.RateLimit.RedisAddr, err, cfg.RateLimit.FailOpen)
		}
		cancelPing()

		limiter := middleware.NewRateLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window(), cfg.RateLimit.FailOpen, log)
		api.Use(limiter.Middleware())
		log.Info("Rate limiting enabled: %d requests per %s", cfg.RateLimit.Limit, cfg.RateLimit.Window())
	}

	// --- Записи ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", patchAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- Мастерские ---
	api.HandleFunc("/shops/{shopId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/shops/{shopId}/appointments", getShopAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/shops/{shopId}/hours", getShopHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/shops/{shopId}/hours", updateShopHours.Handle).Methods(http.MethodPut)

	// --- Клиенты ---
	api.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
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
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
