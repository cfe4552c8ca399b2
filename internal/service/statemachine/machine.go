package statemachine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/conflicts"
)

const tracerName = "github.com/m04kA/SMC-SchedulingService/internal/service/statemachine"

// Result результат применения события
type Result struct {
	Appointment *domain.Appointment
	From        domain.AppointmentStatus
	To          domain.AppointmentStatus
	Changed     bool                  // false для повторного accept и повторной отмены
	Rejected    []*domain.Appointment // отклонённые каскадом при accept
}

// Machine применяет события к записям и сохраняет результат
// Вызывается внутри транзакции: смена статуса и каскад выполняются в одной единице работы
type Machine struct {
	repo         AppointmentRepository
	resolver     ConflictResolver
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewMachine создает state machine. metrics может быть nil
func NewMachine(repo AppointmentRepository, resolver ConflictResolver, metrics Metrics, logger Logger) *Machine {
	return &Machine{
		repo:         repo,
		resolver:     resolver,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (m *Machine) WithTimeProvider(tp TimeProvider) *Machine {
	m.timeProvider = tp
	return m
}

// Fire применяет событие к записи appt (appt изменяется на месте).
//
// accept на уже принятой записи статус не меняет, но повторно запускает каскад.
// cancel на уже отменённой записи ничего не делает, исходная причина сохраняется.
// При частичной ошибке каскада возвращается результат вместе с *conflicts.ConflictPersistenceError
func (m *Machine) Fire(ctx context.Context, appt *domain.Appointment, event Event, reason string) (*Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "statemachine.Fire")
	defer span.End()
	span.SetAttributes(
		attribute.String("appointment.id", appt.ID.String()),
		attribute.String("appointment.event", string(event)),
		attribute.String("appointment.status", string(appt.Status)),
	)

	from := appt.Status

	switch {
	case event == EventCancel && from == domain.StatusCancelled:
		m.logger.Info("Fire: appointment=%s already cancelled", appt.ID)
		return &Result{Appointment: appt, From: from, To: from}, nil

	case event == EventAccept && from == domain.StatusAccepted:
		m.logger.Info("Fire: appointment=%s already accepted, re-running conflict resolution", appt.ID)
		return m.resolve(ctx, &Result{Appointment: appt, From: from, To: from})
	}

	to, err := Next(from, event)
	if err != nil {
		m.logger.Warn("Fire: appointment=%s: %v", appt.ID, err)
		return nil, err
	}

	prevReason, prevCancelledAt := appt.CancellationReason, appt.CancelledAt
	if event == EventCancel {
		reason = strings.TrimSpace(reason)
		if err := validateReason(reason); err != nil {
			return nil, err
		}
		now := m.timeProvider.Now().UTC()
		appt.CancellationReason = &reason
		appt.CancelledAt = &now
	}

	appt.Status = to
	if err := m.repo.UpdateStatus(ctx, appt); err != nil {
		appt.Status = from
		appt.CancellationReason, appt.CancelledAt = prevReason, prevCancelledAt
		m.logger.Error("Fire: failed to persist status of appointment=%s (%s -> %s): %v", appt.ID, from, to, err)
		return nil, fmt.Errorf("Fire - update status: %w", err)
	}

	if m.metrics != nil {
		m.metrics.TransitionApplied(string(from), string(to))
	}
	m.logger.Info("Fire: appointment=%s %s -> %s", appt.ID, from, to)

	result := &Result{Appointment: appt, From: from, To: to, Changed: true}
	if to != domain.StatusAccepted {
		return result, nil
	}
	return m.resolve(ctx, result)
}

func (m *Machine) resolve(ctx context.Context, result *Result) (*Result, error) {
	rejected, err := m.resolver.ResolveConflicts(ctx, result.Appointment)
	result.Rejected = rejected

	var perr *conflicts.ConflictPersistenceError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &perr):
		return result, err
	default:
		return nil, fmt.Errorf("Fire - resolve conflicts: %w", err)
	}
}

func validateReason(reason string) error {
	if reason == "" {
		return domain.NewValidationError("cancellationReason", "cancellation reason is required")
	}
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		return domain.NewValidationError("cancellationReason",
			fmt.Sprintf("must be at most %d characters", domain.MaxCancellationReasonLength))
	}
	return nil
}
