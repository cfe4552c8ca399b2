package get_shop_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const (
	msgInvalidShopID = "некорректный ID мастерской"
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/appointments
// Query params: from, to (RFC 3339 или YYYY-MM-DD), status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id}/appointments - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	serviceReq, err := ToServiceRequest(shopID, r)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByShop(r.Context(), serviceReq)
	if err != nil {
		switch {
		case handlers.IsRejected(err):
			h.logger.Warn("GET /shops/{id}/appointments - Invalid parameters: shop_id=%s, error=%v", shopID, err)
			handlers.RespondRejected(w, msgInvalidParams, err)

		case handlers.IsUnavailable(err):
			h.logger.Error("GET /shops/{id}/appointments - Store unavailable: shop_id=%s, error=%v", shopID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /shops/{id}/appointments - Failed to get appointments: shop_id=%s, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/appointments - Appointments retrieved: shop_id=%s, count=%d",
		shopID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
