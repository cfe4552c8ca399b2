package patch_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	patchAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/patch_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "запись не найдена"
	msgCannotUpdate         = "запись не может быть изменена"
)

type Handler struct {
	useCase PatchAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase PatchAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}
// Ответ содержит обновлённую запись, отклонённые каскадом записи и записи, которые отклонить не удалось
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathUUID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req PatchAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(appointmentID))
	if err != nil {
		switch {
		case errors.Is(err, patchAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case handlers.IsRejected(err):
			h.logger.Warn("PATCH /appointments/{id} - Update rejected: appointment_id=%s, error=%v", appointmentID, err)
			handlers.RespondRejected(w, msgCannotUpdate, err)

		case handlers.IsUnavailable(err):
			h.logger.Error("PATCH /appointments/{id} - Store unavailable: appointment_id=%s, error=%v", appointmentID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PATCH /appointments/{id} - Failed to update appointment: appointment_id=%s, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if len(result.CascadeFailures) > 0 {
		h.logger.Warn("PATCH /appointments/{id} - Appointment updated with cascade failures: appointment_id=%s, failed=%d",
			appointmentID, len(result.CascadeFailures))
	}
	h.logger.Info("PATCH /appointments/{id} - Appointment updated successfully: appointment_id=%s, status=%s, rejected=%d",
		appointmentID, result.Appointment.Status, len(result.Rejected))
	handlers.RespondJSON(w, http.StatusOK, result)
}
