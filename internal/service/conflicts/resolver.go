package conflicts

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const tracerName = "github.com/m04kA/SMC-SchedulingService/internal/service/conflicts"

// Resolver отклоняет записи мастерской, пересекающиеся с только что принятой
type Resolver struct {
	repo    AppointmentRepository
	metrics Metrics
	logger  Logger
}

// NewResolver создает resolver. metrics может быть nil
func NewResolver(repo AppointmentRepository, metrics Metrics, logger Logger) *Resolver {
	return &Resolver{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

// ResolveConflicts переводит в REJECTED все незавершённые записи той же мастерской,
// пересекающиеся с accepted (кроме неё самой), в том числе уже принятые.
//
// Ошибка одной записи не прерывает обход: возвращаются успешно отклонённые записи
// и *ConflictPersistenceError со списком неудачных. Принятие accepted не откатывается.
// Повторный вызов затрагивает только оставшиеся пересечения.
func (r *Resolver) ResolveConflicts(ctx context.Context, accepted *domain.Appointment) ([]*domain.Appointment, error) {
	if accepted == nil || accepted.Status != domain.StatusAccepted {
		return nil, ErrNotAccepted
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "conflicts.ResolveConflicts")
	defer span.End()
	span.SetAttributes(
		attribute.String("shop.id", accepted.ShopID.String()),
		attribute.String("appointment.id", accepted.ID.String()),
	)

	target := accepted.Interval()
	candidates, err := r.repo.ListOverlapping(ctx, accepted.ShopID, accepted.ID, target, domain.BusyStatuses)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list overlapping")
		r.logger.Error("ResolveConflicts: failed to list overlapping for appointment=%s: %v", accepted.ID, err)
		return nil, fmt.Errorf("ResolveConflicts - list overlapping: %w", err)
	}

	rejected := make([]*domain.Appointment, 0, len(candidates))
	var failed []FailedRejection

	for _, c := range candidates {
		if c.ID == accepted.ID || c.ShopID != accepted.ShopID || c.IsTerminal() {
			continue
		}
		if !domain.Overlaps(c.Interval(), target) {
			continue
		}

		updated, err := r.repo.Reject(ctx, c.ID)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyTerminal) || errors.Is(err, domain.ErrNotFound) {
				r.logger.Info("ResolveConflicts: appointment=%s already resolved, skipping: %v", c.ID, err)
				continue
			}
			r.logger.Error("ResolveConflicts: failed to reject appointment=%s (accepted=%s): %v", c.ID, accepted.ID, err)
			failed = append(failed, FailedRejection{ID: c.ID, Err: err})
			continue
		}
		rejected = append(rejected, updated)
	}

	span.SetAttributes(
		attribute.Int("conflicts.rejected", len(rejected)),
		attribute.Int("conflicts.failed", len(failed)),
	)
	if r.metrics != nil {
		r.metrics.CascadeResolved(len(rejected), len(failed))
	}

	if len(failed) > 0 {
		perr := &ConflictPersistenceError{AcceptedID: accepted.ID, Failed: failed}
		span.RecordError(perr)
		span.SetStatus(codes.Error, "partial cascade failure")
		r.logger.Warn("ResolveConflicts: appointment=%s accepted, rejected=%d, failed=%d",
			accepted.ID, len(rejected), len(failed))
		return rejected, perr
	}

	r.logger.Info("ResolveConflicts: appointment=%s accepted, rejected=%d overlapping", accepted.ID, len(rejected))
	return rejected, nil
}
