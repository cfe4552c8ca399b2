package patch_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/internal/service/conflicts"
	"github.com/m04kA/SMC-SchedulingService/internal/service/statemachine"
)

// UseCase use case частичного обновления записи: время, назначения и статус
type UseCase struct {
	repo         AppointmentRepository
	machine      StateMachine
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	repo AppointmentRepository,
	machine StateMachine,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		repo:         repo,
		machine:      machine,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute применяет patch в одной транзакции.
//
// При переводе в ACCEPTED и при переносе времени сначала берётся блокировка мастерской, затем запись
// читается с блокировкой строки, поэтому одновременные принятия записей одной мастерской выполняются по очереди.
// Частичная ошибка каскадного отклонения не откатывает транзакцию: неудачные записи
// возвращаются в Response.CascadeFailures
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PatchAppointment: id=%s, status=%v, time=%t, assignment=%t",
		req.ID, req.Status.Ptr(), req.hasTimePatch(), req.hasAssignmentPatch())

	// 1. Валидация формы запроса
	target, err := validateShape(req)
	if err != nil {
		uc.logger.Warn("PatchAppointment: validation failed for id=%s: %v", req.ID, err)
		return nil, err
	}

	// 2. Принятие и перенос времени выполняются под блокировкой мастерской.
	// Мастерская нужна до блокировки строки (shop_id неизменяем)
	var lockShop func(ctx context.Context) error
	if (target != nil && *target == domain.StatusAccepted) || req.hasTimePatch() {
		current, err := uc.repo.GetByID(ctx, req.ID)
		if err != nil {
			return nil, uc.mapError(req, err)
		}
		shopID := current.ShopID
		lockShop = func(ctx context.Context) error {
			return uc.repo.LockShop(ctx, shopID)
		}
	}

	now := uc.timeProvider.Now()
	var (
		appt        *domain.Appointment
		fieldsDirty bool
		result      *statemachine.Result
		cascadeErr  *conflicts.ConflictPersistenceError
	)

	err = uc.txManager.Do(ctx, func(ctx context.Context) error {
		if lockShop != nil {
			if err := lockShop(ctx); err != nil {
				return err
			}
		}

		// 3. Загружаем запись с блокировкой строки
		var err error
		appt, err = uc.repo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		// 4-6. Поля записи
		fieldsDirty, err = uc.applyFields(appt, req, now)
		if err != nil {
			return err
		}
		// Перенос принятой записи не запускает каскад: новое время не должно пересекаться
		// с другими принятыми записями мастерской, повторный каскад - только через status=ACCEPTED
		if req.hasTimePatch() && needsHeldOverlapCheck(appt.Status, target) {
			if err := uc.checkHeldOverlap(ctx, appt); err != nil {
				return err
			}
		}

		if fieldsDirty {
			if err := uc.repo.Update(ctx, appt); err != nil {
				return err
			}
		}

		// 7. Смена статуса
		if target == nil {
			return nil
		}
		event, ok := statemachine.EventForStatus(*target)
		if !ok {
			return &domain.InvalidTransitionError{From: appt.Status, Event: eventSetStatus, To: *target}
		}
		reason, _ := req.CancellationReason.Get()

		result, err = uc.machine.Fire(ctx, appt, event, reason)
		if err != nil && errors.As(err, &cascadeErr) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, uc.mapError(req, err)
	}

	// 8. События после фиксации транзакции
	uc.publishEvents(ctx, appt, fieldsDirty, result)

	resp := &Response{
		Appointment:     models.FromDomainAppointment(appt),
		Rejected:        []models.AppointmentResponse{},
		CascadeFailures: []CascadeFailure{},
	}
	if result != nil {
		resp.Rejected = models.FromDomainAppointmentList(result.Rejected).Appointments
	}
	if cascadeErr != nil {
		for _, f := range cascadeErr.Failed {
			resp.CascadeFailures = append(resp.CascadeFailures, CascadeFailure{ID: f.ID, Error: f.Err.Error()})
		}
		uc.logger.Warn("PatchAppointment: id=%s committed with %d cascade failures", req.ID, len(cascadeErr.Failed))
	}

	uc.logger.Info("PatchAppointment: id=%s updated, status=%s, rejected=%d", appt.ID, appt.Status, len(resp.Rejected))
	return resp, nil
}

// applyFields применяет изменения времени и назначений к записи
// Возвращает true, если запись нужно сохранить
func (uc *UseCase) applyFields(appt *domain.Appointment, req *Request, now time.Time) (bool, error) {
	dirty := false

	if req.hasTimePatch() {
		if appt.IsTerminal() {
			return false, &domain.InvalidTransitionError{From: appt.Status, Event: string(statemachine.EventReschedule)}
		}
		start, end := appt.StartTime, appt.EndTime
		if v, ok := req.StartTime.Get(); ok {
			start = v.UTC().Truncate(domain.TimePrecision)
		}
		if v, ok := req.EndTime.Get(); ok {
			end = v.UTC().Truncate(domain.TimePrecision)
		}
		if err := validateInterval(start, end, now); err != nil {
			return false, err
		}
		appt.StartTime, appt.EndTime = start, end
		dirty = true
	}

	if req.hasAssignmentPatch() {
		if appt.Status == domain.StatusRejected || appt.Status == domain.StatusCancelled {
			return false, &domain.InvalidTransitionError{From: appt.Status, Event: eventUpdate}
		}
		if req.Price.IsSet() {
			appt.Price = req.Price.Ptr()
		}
		if req.QuoteID.IsSet() {
			appt.QuoteID = req.QuoteID.Ptr()
		}
		if req.EmployeeID.IsSet() {
			appt.EmployeeID = req.EmployeeID.Ptr()
		}
		if req.WorkOrderID.IsSet() {
			appt.WorkOrderID = req.WorkOrderID.Ptr()
		}
		dirty = true
	}

	return dirty, nil
}

// needsHeldOverlapCheck сообщает, что перенос занимает время мастерской без повторного принятия
func needsHeldOverlapCheck(status domain.AppointmentStatus, target *domain.AppointmentStatus) bool {
	if status != domain.StatusAccepted && status != domain.StatusInProgress {
		return false
	}
	return target == nil || (*target != domain.StatusAccepted && *target != domain.StatusCancelled)
}

// checkHeldOverlap отклоняет перенос, пересекающийся с другой принятой записью мастерской
// Вызывается под блокировкой мастерской
func (uc *UseCase) checkHeldOverlap(ctx context.Context, appt *domain.Appointment) error {
	held, err := uc.repo.ListOverlapping(ctx, appt.ShopID, appt.ID, appt.Interval(),
		[]domain.AppointmentStatus{domain.StatusAccepted, domain.StatusInProgress})
	if err != nil {
		return err
	}
	if len(held) == 0 {
		return nil
	}

	uc.logger.Warn("PatchAppointment: reschedule of id=%s overlaps accepted id=%s", appt.ID, held[0].ID)
	verr := &domain.ValidationError{}
	verr.Add("startTime", fmt.Sprintf("overlaps accepted appointment %s", held[0].ID))
	return verr
}

func (uc *UseCase) publishEvents(ctx context.Context, appt *domain.Appointment, fieldsDirty bool, result *statemachine.Result) {
	now := uc.timeProvider.Now()
	events := make([]domain.AppointmentEvent, 0)

	if fieldsDirty {
		events = append(events, domain.NewAppointmentEvent(domain.EventAppointmentUpdated, appt, now))
	}
	if result != nil {
		if result.Changed {
			events = append(events, domain.NewAppointmentEvent(domain.StatusEventType(result.To), appt, now))
		}
		for _, r := range result.Rejected {
			events = append(events, domain.NewAppointmentEvent(domain.StatusEventType(domain.StatusRejected), r, now))
		}
	}

	uc.publisher.Publish(ctx, events...)
}

// mapError переводит ошибки хранилища и транзакции в ошибки use case
// Ошибки проверки и переходов возвращаются как есть
func (uc *UseCase) mapError(req *Request, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		uc.logger.Warn("PatchAppointment: appointment id=%s not found", req.ID)
		return ErrAppointmentNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidTransition):
		uc.logger.Warn("PatchAppointment: id=%s rejected: %v", req.ID, err)
		return err
	default:
		uc.logger.Error("PatchAppointment: failed to update id=%s: %v", req.ID, err)
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
