package get_customer_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidCustomerID = "некорректный ID клиента"
	msgInvalidParams     = "некорректные параметры запроса"
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

// Handle GET /api/v1/customers/{customerId}/appointments
// Query params: status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, err := handlers.PathUUID(r, "customerId")
	if err != nil {
		h.logger.Warn("GET /customers/{id}/appointments - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	serviceReq := &models.ListCustomerAppointmentsRequest{CustomerID: customerID}
	if status := r.URL.Query().Get("status"); status != "" {
		serviceReq.Status = &status
	}

	result, err := h.service.ListByCustomer(r.Context(), serviceReq)
	if err != nil {
		switch {
		case handlers.IsRejected(err):
			h.logger.Warn("GET /customers/{id}/appointments - Invalid parameters: customer_id=%s, error=%v", customerID, err)
			handlers.RespondRejected(w, msgInvalidParams, err)

		case handlers.IsUnavailable(err):
			h.logger.Error("GET /customers/{id}/appointments - Store unavailable: customer_id=%s, error=%v", customerID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /customers/{id}/appointments - Failed to get appointments: customer_id=%s, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /customers/{id}/appointments - Appointments retrieved: customer_id=%s, count=%d",
		customerID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
