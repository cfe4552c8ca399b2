package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	shopRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/shop"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// appointmentStore общий набор операций postgres и in-memory хранилищ записей
type appointmentStore interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	ListByShop(ctx context.Context, filter domain.ShopAppointmentsFilter) ([]*domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	ListOverlapping(ctx context.Context, shopID uuid.UUID, excludeID uuid.UUID, interval domain.Interval, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) error
	UpdateStatus(ctx context.Context, a *domain.Appointment) error
	Reject(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	LockShop(ctx context.Context, shopID uuid.UUID) error
}

// shopStore общий набор операций хранилищ мастерских
type shopStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	Upsert(ctx context.Context, shop *domain.Shop) (*domain.Shop, error)
}

// txManager транзакции поверх выбранного хранилища
type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type storage struct {
	appointments appointmentStore
	shops        shopStore
	tx           txManager
	close        func()
}

// openStorage подключает хранилище по [database].driver
func openStorage(cfg *config.Config, log *logger.Logger, metricsCollector *metrics.Metrics) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := memory.NewStore()
		log.Info("Using in-memory storage, data is not persisted")
		return &storage{
			appointments: store.Appointments(),
			shops:        store.Shops(),
			tx:           store,
			close:        func() {},
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	return &storage{
		appointments: appointmentRepo.NewRepository(wrappedDB),
		shops:        shopRepo.NewRepository(wrappedDB),
		tx:           txmanager.New(wrappedDB),
		close: func() {
			close(stopMetricsCh)
			db.Close()
		},
	}, nil
}
