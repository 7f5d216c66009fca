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

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	checkoutAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/checkout_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getDiscountConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_discount_config"
	getPriceCalendarHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_price_calendar"
	getStylistAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_stylist_appointments"
	previewAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/preview_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment_status"
	updateDiscountConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_discount_config"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	discountRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/discount"
	stylistServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/stylistservice"
	"github.com/m04kA/SMC-AppointmentService/internal/pricing"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	discountsService "github.com/m04kA/SMC-AppointmentService/internal/service/discounts"
	checkoutAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/checkout_appointment"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getPriceCalendarUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_price_calendar"
	previewAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/preview_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/worker/autocheckout"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Настройки ценообразования
	taxRate, err := cfg.Pricing.TaxRate()
	if err != nil {
		log.Fatal("Invalid pricing config: %v", err)
	}
	cardFee, err := cfg.Pricing.CardFee()
	if err != nil {
		log.Fatal("Invalid pricing config: %v", err)
	}
	pricingSettings := pricing.Settings{
		TaxRatePercent: taxRate,
		CardFeePercent: cardFee,
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент StylistService
	stylistClient := stylistServiceClient.NewClient(
		cfg.StylistService.URL,
		time.Duration(cfg.StylistService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (StylistService=%s timeout=%ds)",
		cfg.StylistService.URL, cfg.StylistService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		discountRepository    *discountRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		discountRepository = discountRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		discountRepository = discountRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		txMgr,
		log,
	)
	discountSvc := discountsService.NewService(
		discountRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	previewAppointmentUseCase := previewAppointmentUC.NewUseCase(
		appointmentRepository,
		discountRepository,
		stylistClient,
		pricingSettings,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		discountRepository,
		stylistClient,
		txMgr,
		log,
	)
	checkoutAppointmentUseCase := checkoutAppointmentUC.NewUseCase(
		appointmentRepository,
		txMgr,
		pricingSettings,
		log,
	)
	getPriceCalendarUseCase := getPriceCalendarUC.NewUseCase(
		appointmentRepository,
		discountRepository,
		stylistClient,
		log,
	)

	// Инициализируем handlers
	previewAppointment := previewAppointmentHandler.NewHandler(previewAppointmentUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	checkoutAppointment := checkoutAppointmentHandler.NewHandler(checkoutAppointmentUseCase, log)
	getPriceCalendar := getPriceCalendarHandler.NewHandler(getPriceCalendarUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getStylistAppointments := getStylistAppointmentsHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getDiscountConfig := getDiscountConfigHandler.NewHandler(discountSvc, log)
	updateDiscountConfig := updateDiscountConfigHandler.NewHandler(discountSvc, log)

	// Фоновый авто-checkout записей старше порога
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	if cfg.AutoCheckout.Enabled {
		var workerMetrics autocheckout.Metrics
		if cfg.Metrics.Enabled {
			workerMetrics = metricsCollector
		}

		checkoutWorker := autocheckout.NewWorker(
			appointmentRepository,
			txMgr,
			pricingSettings,
			workerMetrics,
			time.Duration(cfg.AutoCheckout.IntervalMinutes)*time.Minute,
			time.Duration(cfg.AutoCheckout.CheckoutAfterHour)*time.Hour,
			cfg.AutoCheckout.SystemUserID,
			log,
		)
		go checkoutWorker.Run(workerCtx)
		log.Info("AutoCheckout worker enabled (interval=%dm, after=%dh)",
			cfg.AutoCheckout.IntervalMinutes, cfg.AutoCheckout.CheckoutAfterHour)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Ценовой календарь услуги стилиста
	api.HandleFunc("/stylists/{stylistId}/price-calendar",
		getPriceCalendar.Handle).Methods(http.MethodGet)

	// Конфигурация скидок стилиста
	api.HandleFunc("/stylists/{stylistId}/discounts",
		getDiscountConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Предпросмотр записи с расчётом цены
	protected.HandleFunc("/appointments/preview", previewAppointment.Handle).Methods(http.MethodPost)

	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Checkout записи с фиксацией сумм
	protected.HandleFunc("/appointments/{appointmentId}/checkout", checkoutAppointment.Handle).Methods(http.MethodPost)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Удаление завершённой записи
	protected.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)

	// Смена статуса записи (no_show и т.п.)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Управление стилистом ---
	// Список записей стилиста
	protected.HandleFunc("/stylists/{stylistId}/appointments", getStylistAppointments.Handle).Methods(http.MethodGet)

	// Обновление конфигурации скидок
	protected.HandleFunc("/stylists/{stylistId}/discounts", updateDiscountConfig.Handle).Methods(http.MethodPut)

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

	// Останавливаем фоновый воркер
	stopWorker()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
