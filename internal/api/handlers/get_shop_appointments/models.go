package get_shop_appointments

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров
// status можно передать несколько раз или через запятую: status=ACCEPTED,PENDING_APPROVAL
func ToServiceRequest(shopID uuid.UUID, r *http.Request) (*models.ListShopAppointmentsRequest, error) {
	from, err := handlers.QueryTime(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := handlers.QueryTime(r, "to")
	if err != nil {
		return nil, err
	}

	var statuses []string
	for _, raw := range r.URL.Query()["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
	}

	return &models.ListShopAppointmentsRequest{
		ShopID:   shopID,
		From:     from,
		To:       to,
		Statuses: statuses,
	}, nil
}
