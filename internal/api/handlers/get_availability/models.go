package get_availability

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var errMissingDate = errors.New("start and end are required")

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(shopID uuid.UUID, r *http.Request) (*getAvailability.Request, error) {
	start, err := handlers.QueryDate(r, "start")
	if err != nil {
		return nil, err
	}
	end, err := handlers.QueryDate(r, "end")
	if err != nil {
		return nil, err
	}
	if start == nil || end == nil {
		return nil, errMissingDate
	}

	req := &getAvailability.Request{
		ShopID: shopID,
		Start:  *start,
		End:    *end,
	}

	if raw := r.URL.Query().Get("minDurationMinutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid minDurationMinutes: %w", err)
		}
		req.MinDurationMinutes = ptr.Ptr(minutes)
	}

	return req, nil
}
