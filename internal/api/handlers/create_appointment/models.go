package create_appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	createAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
// Время передаётся в RFC 3339, например "2023-11-09T02:00:00Z"
type CreateAppointmentRequest struct {
	ShopID     uuid.UUID        `json:"shopId"`
	CustomerID uuid.UUID        `json:"customerId"`
	VehicleID  uuid.UUID        `json:"vehicleId"`
	ServiceID  uuid.UUID        `json:"serviceId"`
	StartTime  time.Time        `json:"startTime"`
	EndTime    time.Time        `json:"endTime"`
	QuoteID    *uuid.UUID       `json:"quoteId,omitempty"`
	EmployeeID *uuid.UUID       `json:"employeeId,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() *createAppointment.Request {
	return &createAppointment.Request{
		ShopID:     r.ShopID,
		CustomerID: r.CustomerID,
		VehicleID:  r.VehicleID,
		ServiceID:  r.ServiceID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		QuoteID:    r.QuoteID,
		EmployeeID: r.EmployeeID,
		Price:      r.Price,
	}
}
