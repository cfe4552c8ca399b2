package conflicts

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AppointmentRepository операции хранилища, нужные для каскадного отклонения
type AppointmentRepository interface {
	ListOverlapping(ctx context.Context, shopID uuid.UUID, excludeID uuid.UUID, interval domain.Interval, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
	Reject(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
}

// Metrics счётчики каскадного отклонения
type Metrics interface {
	CascadeResolved(rejected, failed int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
