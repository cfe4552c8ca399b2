package statemachine

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AppointmentRepository сохранение статуса записи
type AppointmentRepository interface {
	UpdateStatus(ctx context.Context, a *domain.Appointment) error
}

// ConflictResolver каскадное отклонение пересекающихся записей
type ConflictResolver interface {
	ResolveConflicts(ctx context.Context, accepted *domain.Appointment) ([]*domain.Appointment, error)
}

// Metrics счётчик переходов статусов
type Metrics interface {
	TransitionApplied(from, to string)
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
