package appointments

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/statemachine"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	ListByShop(ctx context.Context, filter domain.ShopAppointmentsFilter) ([]*domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StateMachine применение событий к записи
type StateMachine interface {
	Fire(ctx context.Context, appt *domain.Appointment, event statemachine.Event, reason string) (*statemachine.Result, error)
}

// EventPublisher публикация событий жизненного цикла записей
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.AppointmentEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
