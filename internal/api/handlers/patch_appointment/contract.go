package patch_appointment

import (
	"context"

	patchAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/patch_appointment"
)

type PatchAppointmentUseCase interface {
	Execute(ctx context.Context, req *patchAppointment.Request) (*patchAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
