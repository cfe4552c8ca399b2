package delete_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const msgInvalidAppointmentID = "некорректный ID записи"

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

// Handle DELETE /api/v1/appointments/{appointmentId}
// Удаление несуществующей записи тоже возвращает 204
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathUUID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("DELETE /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	if err := h.service.Delete(r.Context(), appointmentID); err != nil {
		if handlers.IsUnavailable(err) {
			h.logger.Error("DELETE /appointments/{id} - Store unavailable: appointment_id=%s, error=%v", appointmentID, err)
			handlers.RespondServiceUnavailable(w)
			return
		}
		h.logger.Error("DELETE /appointments/{id} - Failed to delete appointment: appointment_id=%s, error=%v",
			appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /appointments/{id} - Appointment deleted: appointment_id=%s", appointmentID)
	handlers.RespondNoContent(w)
}
