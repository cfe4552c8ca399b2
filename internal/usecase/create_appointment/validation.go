package create_appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest проверяет запрос и возвращает все ошибки полей сразу
func validateRequest(req *Request, now time.Time) error {
	verr := &domain.ValidationError{}

	requireID(verr, "shopId", req.ShopID)
	requireID(verr, "customerId", req.CustomerID)
	requireID(verr, "vehicleId", req.VehicleID)
	requireID(verr, "serviceId", req.ServiceID)

	if req.StartTime.IsZero() {
		verr.Add("startTime", "is required")
	}
	if req.EndTime.IsZero() {
		verr.Add("endTime", "is required")
	}

	if !req.StartTime.IsZero() && !req.EndTime.IsZero() {
		validateInterval(verr, req.StartTime, req.EndTime, now)
	}

	if req.Price != nil {
		switch {
		case req.Price.IsNegative():
			verr.Add("price", "must not be negative")
		case !domain.HasPriceScale(*req.Price):
			verr.Add("price", fmt.Sprintf("must have at most %d decimal places", domain.PriceScale))
		}
	}

	return verr.OrNil()
}

// validateInterval проверяет, что интервал непустой, в будущем и не длиннее суток
func validateInterval(verr *domain.ValidationError, start, end, now time.Time) {
	if !start.Before(end) {
		verr.Add("endTime", "must be after startTime")
		return
	}
	if !start.After(now) {
		verr.Add("startTime", "must be in the future")
	}
	if end.Sub(start) > domain.MaxAppointmentDuration {
		verr.Add("endTime", fmt.Sprintf("appointment must not be longer than %s", domain.MaxAppointmentDuration))
	}
}

func requireID(verr *domain.ValidationError, field string, id uuid.UUID) {
	if id == uuid.Nil {
		verr.Add(field, "is required")
	}
}
