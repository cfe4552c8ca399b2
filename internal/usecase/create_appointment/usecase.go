package create_appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// UseCase use case для создания записи на обслуживание
type UseCase struct {
	repo         AppointmentRepository
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil
func NewUseCase(
	repo AppointmentRepository,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		repo:         repo,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute создает запись в статусе PENDING_APPROVAL
// Пересечения с другими записями на этом этапе допустимы
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.AppointmentResponse, error) {
	uc.logger.Info("CreateAppointment: shop=%s, customer=%s, vehicle=%s, service=%s, start=%s, end=%s",
		req.ShopID, req.CustomerID, req.VehicleID, req.ServiceID, req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Сохраняем запись
	appt := &domain.Appointment{
		ID:         uuid.New(),
		ShopID:     req.ShopID,
		CustomerID: req.CustomerID,
		VehicleID:  req.VehicleID,
		ServiceID:  req.ServiceID,
		StartTime:  req.StartTime.UTC().Truncate(domain.TimePrecision),
		EndTime:    req.EndTime.UTC().Truncate(domain.TimePrecision),
		Status:     domain.StatusPendingApproval,
		Price:      req.Price,
		QuoteID:    req.QuoteID,
		EmployeeID: req.EmployeeID,
	}

	created, err := uc.repo.Create(ctx, appt)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to save appointment for shop=%s: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to save appointment: %w", ErrInternal, err)
	}

	// 3. Метрики и событие
	if uc.metrics != nil {
		uc.metrics.AppointmentCreated()
	}
	uc.publisher.Publish(ctx, domain.NewAppointmentEvent(domain.EventAppointmentCreated, created, now))

	uc.logger.Info("CreateAppointment: appointment id=%s created for shop=%s", created.ID, created.ShopID)
	return models.FromDomainAppointment(created), nil
}
