package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/internal/service/statemachine"
)

// Service сервис чтения, отмены и удаления записей
type Service struct {
	repo      AppointmentRepository
	machine   StateMachine
	publisher EventPublisher
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	repo AppointmentRepository,
	machine StateMachine,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		repo:      repo,
		machine:   machine,
		publisher: publisher,
		txManager: txManager,
		logger:    logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s", id)

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetByID: appointment id=%s not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// ListByShop получает записи мастерской с фильтрацией по периоду и статусам
func (s *Service) ListByShop(ctx context.Context, req *models.ListShopAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByShop: fetching appointments for shop=%s, statuses=%v", req.ShopID, req.Statuses)

	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return nil, domain.NewValidationError("from", "must not be after to")
	}

	filter := domain.ShopAppointmentsFilter{
		ShopID: req.ShopID,
		From:   req.From,
		To:     req.To,
	}
	for _, raw := range req.Statuses {
		status, err := models.ToDomainStatus(raw)
		if err != nil {
			s.logger.Warn("ListByShop: invalid status=%s for shop=%s", raw, req.ShopID)
			return nil, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	list, err := s.repo.ListByShop(ctx, filter)
	if err != nil {
		s.logger.Error("ListByShop: repository error for shop=%s: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: ListByShop - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListByShop: fetched %d appointments for shop=%s", len(list), req.ShopID)
	return models.FromDomainAppointmentList(list), nil
}

// ListByCustomer получает записи клиента, опционально по статусу
func (s *Service) ListByCustomer(ctx context.Context, req *models.ListCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByCustomer: fetching appointments for customer=%s, status=%v", req.CustomerID, req.Status)

	var status *domain.AppointmentStatus
	if req.Status != nil {
		st, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByCustomer: invalid status=%s for customer=%s", *req.Status, req.CustomerID)
			return nil, err
		}
		status = &st
	}

	list, err := s.repo.ListByCustomer(ctx, req.CustomerID, status)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for customer=%s: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListByCustomer: fetched %d appointments for customer=%s", len(list), req.CustomerID)
	return models.FromDomainAppointmentList(list), nil
}

// Cancel отменяет запись с указанием причины
// Повторная отмена уже отменённой записи успешна и не меняет исходную причину
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s", id)

	var result *statemachine.Result
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		appt, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		result, err = s.machine.Fire(ctx, appt, statemachine.EventCancel, req.CancellationReason)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.logger.Warn("Cancel: appointment id=%s not found", id)
			return nil, ErrAppointmentNotFound
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidTransition):
			s.logger.Warn("Cancel: appointment id=%s cannot be cancelled: %v", id, err)
			return nil, err
		default:
			s.logger.Error("Cancel: failed to cancel appointment id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: Cancel - %w", ErrInternal, err)
		}
	}

	if result.Changed {
		s.publisher.Publish(ctx, domain.NewAppointmentEvent(
			domain.StatusEventType(result.To), result.Appointment, time.Now()))
	}

	s.logger.Info("Cancel: appointment id=%s is cancelled", id)
	return models.FromDomainAppointment(result.Appointment), nil
}

// Delete физически удаляет запись
// Удаление несуществующей записи считается успешным; другие записи не затрагиваются
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Delete: deleting appointment id=%s", id)

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("Delete: appointment id=%s already absent", id)
			return nil
		}
		s.logger.Error("Delete: repository error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("Delete: appointment id=%s removed concurrently", id)
			return nil
		}
		s.logger.Error("Delete: repository error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
	}

	s.publisher.Publish(ctx, domain.NewAppointmentEvent(domain.EventAppointmentDeleted, appt, time.Now()))

	s.logger.Info("Delete: appointment id=%s deleted", id)
	return nil
}
