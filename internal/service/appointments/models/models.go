package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// ListShopAppointmentsRequest запрос на получение записей мастерской
type ListShopAppointmentsRequest struct {
	ShopID   uuid.UUID
	From     *time.Time // Записи, заканчивающиеся после From (опционально)
	To       *time.Time // Записи, начинающиеся до To (опционально)
	Statuses []string   // Фильтр по статусам (опционально)
}

// ListCustomerAppointmentsRequest запрос на получение записей клиента
type ListCustomerAppointmentsRequest struct {
	CustomerID uuid.UUID
	Status     *string
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID         uuid.UUID `json:"id"`
	ShopID     uuid.UUID `json:"shopId"`
	CustomerID uuid.UUID `json:"customerId"`
	VehicleID  uuid.UUID `json:"vehicleId"`
	ServiceID  uuid.UUID `json:"serviceId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Status     string    `json:"status"`

	Price       *decimal.Decimal `json:"price,omitempty"`
	QuoteID     *uuid.UUID       `json:"quoteId,omitempty"`
	EmployeeID  *uuid.UUID       `json:"employeeId,omitempty"`
	WorkOrderID *uuid.UUID       `json:"workOrderId,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		ShopID:             a.ShopID,
		CustomerID:         a.CustomerID,
		VehicleID:          a.VehicleID,
		ServiceID:          a.ServiceID,
		StartTime:          a.StartTime.UTC(),
		EndTime:            a.EndTime.UTC(),
		Status:             string(a.Status),
		Price:              a.Price,
		QuoteID:            a.QuoteID,
		EmployeeID:         a.EmployeeID,
		WorkOrderID:        a.WorkOrderID,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledAt := a.CancelledAt.UTC()
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		if a == nil {
			continue
		}
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}

// ToDomainStatus конвертирует строку в статус записи
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	status, ok := domain.ParseAppointmentStatus(s)
	if !ok {
		return "", domain.NewValidationError("status", "unknown status "+s)
	}
	return status, nil
}
