package update_shop_hours

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/shophours/models"
)

const (
	msgInvalidShopID      = "некорректный ID мастерской"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHours       = "некорректные часы работы"
)

type Handler struct {
	service ShopHoursService
	logger  Logger
}

func NewHandler(service ShopHoursService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/shops/{shopId}/hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("PUT /shops/{id}/hours - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	var req models.UpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /shops/{id}/hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), shopID, &req)
	if err != nil {
		switch {
		case handlers.IsRejected(err):
			h.logger.Warn("PUT /shops/{id}/hours - Invalid hours: shop_id=%s, error=%v", shopID, err)
			handlers.RespondRejected(w, msgInvalidHours, err)

		case handlers.IsUnavailable(err):
			h.logger.Error("PUT /shops/{id}/hours - Store unavailable: shop_id=%s, error=%v", shopID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PUT /shops/{id}/hours - Failed to update hours: shop_id=%s, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /shops/{id}/hours - Hours updated: shop_id=%s, timezone=%s", shopID, result.Timezone)
	handlers.RespondJSON(w, http.StatusOK, result)
}
