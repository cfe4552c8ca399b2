package update_shop_hours

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/service/shophours/models"
)

type ShopHoursService interface {
	Update(ctx context.Context, shopID uuid.UUID, req *models.UpdateRequest) (*models.HoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
