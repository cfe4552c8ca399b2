package patch_appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	patchAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/patch_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// PatchAppointmentRequest HTTP request model
// Отсутствующий ключ не меняет поле, null очищает необязательные поля
type PatchAppointmentRequest struct {
	Status             types.Optional[string]          `json:"status"`
	StartTime          types.Optional[time.Time]       `json:"startTime"`
	EndTime            types.Optional[time.Time]       `json:"endTime"`
	Price              types.Optional[decimal.Decimal] `json:"price"`
	QuoteID            types.Optional[uuid.UUID]       `json:"quoteId"`
	EmployeeID         types.Optional[uuid.UUID]       `json:"employeeId"`
	WorkOrderID        types.Optional[uuid.UUID]       `json:"workOrderId"`
	CancellationReason types.Optional[string]          `json:"cancellationReason"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PatchAppointmentRequest) ToUseCaseRequest(id uuid.UUID) *patchAppointment.Request {
	return &patchAppointment.Request{
		ID:                 id,
		Status:             r.Status,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Price:              r.Price,
		QuoteID:            r.QuoteID,
		EmployeeID:         r.EmployeeID,
		WorkOrderID:        r.WorkOrderID,
		CancellationReason: r.CancellationReason,
	}
}
