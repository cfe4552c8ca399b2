package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPendingApproval AppointmentStatus = "PENDING_APPROVAL"
	StatusAccepted        AppointmentStatus = "ACCEPTED"
	StatusInProgress      AppointmentStatus = "IN_PROGRESS"
	StatusCompleted       AppointmentStatus = "COMPLETED"
	StatusRejected        AppointmentStatus = "REJECTED"
	StatusCancelled       AppointmentStatus = "CANCELLED"
)

// IsValid returns true if the status is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPendingApproval, StatusAccepted, StatusInProgress,
		StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from the status
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// IsBusy returns true if an appointment in this status occupies its time slot
func (s AppointmentStatus) IsBusy() bool {
	return s == StatusPendingApproval || s == StatusAccepted || s == StatusInProgress
}

// ParseAppointmentStatus parses a status name (case-sensitive, as stored)
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	return status, status.IsValid()
}

// HasPriceScale returns true if the price fits NUMERIC(12,2) without rounding
func HasPriceScale(price decimal.Decimal) bool {
	return price.Equal(price.Round(PriceScale))
}

// Appointment represents a booked service visit at a shop
type Appointment struct {
	ID         uuid.UUID
	ShopID     uuid.UUID
	CustomerID uuid.UUID
	VehicleID  uuid.UUID
	ServiceID  uuid.UUID

	StartTime time.Time
	EndTime   time.Time
	Status    AppointmentStatus

	Price       *decimal.Decimal
	QuoteID     *uuid.UUID
	EmployeeID  *uuid.UUID
	WorkOrderID *uuid.UUID

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the half-open time interval occupied by the appointment
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

// IsTerminal returns true if the appointment can no longer change status
func (a *Appointment) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// Clone returns a deep copy of the appointment
func (a *Appointment) Clone() *Appointment {
	if a == nil {
		return nil
	}
	c := *a
	if a.Price != nil {
		p := *a.Price
		c.Price = &p
	}
	c.QuoteID = cloneUUID(a.QuoteID)
	c.EmployeeID = cloneUUID(a.EmployeeID)
	c.WorkOrderID = cloneUUID(a.WorkOrderID)
	if a.CancellationReason != nil {
		r := *a.CancellationReason
		c.CancellationReason = &r
	}
	if a.CancelledAt != nil {
		t := *a.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// ShopAppointmentsFilter фильтр для получения записей мастерской
type ShopAppointmentsFilter struct {
	ShopID   uuid.UUID           // Обязательный параметр
	From     *time.Time          // Записи, заканчивающиеся после From (опционально)
	To       *time.Time          // Записи, начинающиеся до To (опционально)
	Statuses []AppointmentStatus // Пустой список - все статусы
}
