package patch_appointment

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateShape проверяет запрос без обращения к хранилищу
// Возвращает целевой статус, если он передан
func validateShape(req *Request) (*domain.AppointmentStatus, error) {
	verr := &domain.ValidationError{}
	var target *domain.AppointmentStatus

	if req.Status.IsSet() {
		raw, ok := req.Status.Get()
		switch {
		case !ok:
			verr.Add("status", "must not be null")
		default:
			status, valid := domain.ParseAppointmentStatus(raw)
			if !valid {
				verr.Add("status", fmt.Sprintf("unknown status %q", raw))
			} else {
				target = &status
			}
		}
	}

	if req.StartTime.IsNull() {
		verr.Add("startTime", "must not be null")
	}
	if req.EndTime.IsNull() {
		verr.Add("endTime", "must not be null")
	}

	if price, ok := req.Price.Get(); ok {
		switch {
		case price.IsNegative():
			verr.Add("price", "must not be negative")
		case !domain.HasPriceScale(price):
			verr.Add("price", fmt.Sprintf("must have at most %d decimal places", domain.PriceScale))
		}
	}

	cancelling := target != nil && *target == domain.StatusCancelled
	reason, hasReason := req.CancellationReason.Get()
	switch {
	case cancelling && (!hasReason || strings.TrimSpace(reason) == ""):
		verr.Add("cancellationReason", "is required when status is CANCELLED")
	case !cancelling && req.CancellationReason.IsSet():
		verr.Add("cancellationReason", "is allowed only with status CANCELLED")
	case hasReason && utf8.RuneCountInString(strings.TrimSpace(reason)) > domain.MaxCancellationReasonLength:
		verr.Add("cancellationReason", fmt.Sprintf("must be at most %d characters", domain.MaxCancellationReasonLength))
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return target, nil
}

// validateInterval проверяет новое время записи
func validateInterval(start, end, now time.Time) error {
	verr := &domain.ValidationError{}
	if !start.Before(end) {
		verr.Add("endTime", "must be after startTime")
		return verr
	}
	if !start.After(now) {
		verr.Add("startTime", "must be in the future")
	}
	if end.Sub(start) > domain.MaxAppointmentDuration {
		verr.Add("endTime", fmt.Sprintf("appointment must not be longer than %s", domain.MaxAppointmentDuration))
	}
	return verr.OrNil()
}
