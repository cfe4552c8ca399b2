package get_shop_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/shophours"
)

const (
	msgInvalidShopID = "некорректный ID мастерской"
	msgShopNotFound  = "мастерская не найдена"
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

// Handle GET /api/v1/shops/{shopId}/hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id}/hours - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	result, err := h.service.Get(r.Context(), shopID)
	if err != nil {
		switch {
		case errors.Is(err, shophours.ErrShopNotFound):
			h.logger.Warn("GET /shops/{id}/hours - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case handlers.IsUnavailable(err):
			h.logger.Error("GET /shops/{id}/hours - Store unavailable: shop_id=%s, error=%v", shopID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /shops/{id}/hours - Failed to get hours: shop_id=%s, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/hours - Hours retrieved: shop_id=%s", shopID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
