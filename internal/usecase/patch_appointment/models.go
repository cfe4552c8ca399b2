package patch_appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request частичное обновление записи
// Непереданные поля не меняются, явный null очищает необязательные ссылки и цену
type Request struct {
	ID                 uuid.UUID
	Status             types.Optional[string]
	StartTime          types.Optional[time.Time]
	EndTime            types.Optional[time.Time]
	Price              types.Optional[decimal.Decimal]
	QuoteID            types.Optional[uuid.UUID]
	EmployeeID         types.Optional[uuid.UUID]
	WorkOrderID        types.Optional[uuid.UUID]
	CancellationReason types.Optional[string]
}

func (r *Request) hasTimePatch() bool {
	return r.StartTime.IsSet() || r.EndTime.IsSet()
}

func (r *Request) hasAssignmentPatch() bool {
	return r.Price.IsSet() || r.QuoteID.IsSet() || r.EmployeeID.IsSet() || r.WorkOrderID.IsSet()
}

// CascadeFailure запись, которую не удалось отклонить при принятии
type CascadeFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// Response результат обновления
type Response struct {
	Appointment     *models.AppointmentResponse  `json:"appointment"`
	Rejected        []models.AppointmentResponse `json:"rejected"`
	CascadeFailures []CascadeFailure             `json:"cascadeFailures"`
}
