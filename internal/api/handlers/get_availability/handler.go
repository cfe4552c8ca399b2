package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
)

const (
	msgInvalidShopID = "некорректный ID мастерской"
	msgMissingDate   = "параметры start и end обязательны"
	msgInvalidParams = "некорректные параметры запроса, даты ожидаются в формате YYYY-MM-DD"
	msgInvalidRange  = "некорректный диапазон дат"
	msgShopNotFound  = "мастерская не найдена"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/availability
// Query params: start, end (required, YYYY-MM-DD), minDurationMinutes (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id}/availability - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(shopID, r)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/availability - Invalid parameters: %v", err)
		if errors.Is(err, errMissingDate) {
			handlers.RespondBadRequest(w, msgMissingDate)
		} else {
			handlers.RespondBadRequest(w, msgInvalidParams)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrShopNotFound):
			h.logger.Warn("GET /shops/{id}/availability - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case handlers.IsRejected(err):
			h.logger.Warn("GET /shops/{id}/availability - Invalid range: shop_id=%s, error=%v", shopID, err)
			handlers.RespondRejected(w, msgInvalidRange, err)

		case handlers.IsUnavailable(err):
			h.logger.Error("GET /shops/{id}/availability - Store unavailable: shop_id=%s, error=%v", shopID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /shops/{id}/availability - Failed to compute availability: shop_id=%s, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/availability - Availability computed: shop_id=%s, intervals=%d",
		shopID, len(result.Intervals))
	handlers.RespondJSON(w, http.StatusOK, result.Intervals)
}
