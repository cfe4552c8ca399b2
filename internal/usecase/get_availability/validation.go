package get_availability

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest проверяет диапазон дат и параметры запроса
func validateRequest(req *Request, maxRangeDays int) error {
	verr := &domain.ValidationError{}

	if req.ShopID == uuid.Nil {
		verr.Add("shopId", "is required")
	}
	if req.Start.IsZero() {
		verr.Add("start", "is required")
	}
	if req.End.IsZero() {
		verr.Add("end", "is required")
	}
	if verr.HasErrors() {
		return verr
	}

	start := req.Start.Format(domain.DateFormat)
	end := req.End.Format(domain.DateFormat)
	if start > end {
		verr.Add("end", "must not be before start")
	} else if days := daysInclusive(req); days > maxRangeDays {
		verr.Add("end", fmt.Sprintf("range must not exceed %d days", maxRangeDays))
	}

	if req.MinDurationMinutes != nil && *req.MinDurationMinutes < 0 {
		verr.Add("minDurationMinutes", "must not be negative")
	}

	return verr.OrNil()
}

// daysInclusive количество календарных дней в диапазоне
func daysInclusive(req *Request) int {
	first := dateOnly(req.Start)
	last := dateOnly(req.End)
	return int(last.Sub(first).Hours()/24) + 1
}
