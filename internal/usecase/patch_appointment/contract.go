package patch_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/statemachine"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) error
	ListOverlapping(
		ctx context.Context,
		shopID uuid.UUID,
		excludeID uuid.UUID,
		interval domain.Interval,
		statuses []domain.AppointmentStatus,
	) ([]*domain.Appointment, error)
	LockShop(ctx context.Context, shopID uuid.UUID) error
}

// StateMachine применение событий к записи
type StateMachine interface {
	Fire(ctx context.Context, appt *domain.Appointment, event statemachine.Event, reason string) (*statemachine.Result, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикация событий жизненного цикла записей
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.AppointmentEvent)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
