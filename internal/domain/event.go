package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	EventAppointmentCreated = "appointment.created"
	EventAppointmentUpdated = "appointment.updated"
	EventAppointmentDeleted = "appointment.deleted"
)

// AppointmentEvent событие жизненного цикла записи для внешних потребителей
type AppointmentEvent struct {
	EventID       uuid.UUID         `json:"eventId"`
	Type          string            `json:"type"`
	AppointmentID uuid.UUID         `json:"appointmentId"`
	ShopID        uuid.UUID         `json:"shopId"`
	CustomerID    uuid.UUID         `json:"customerId"`
	Status        AppointmentStatus `json:"status"`
	StartTime     time.Time         `json:"startTime"`
	EndTime       time.Time         `json:"endTime"`
	OccurredAt    time.Time         `json:"occurredAt"`
}

// StatusEventType возвращает тип события для перехода в статус, например appointment.accepted
func StatusEventType(status AppointmentStatus) string {
	return "appointment." + strings.ToLower(string(status))
}

// NewAppointmentEvent создает событие по текущему состоянию записи
func NewAppointmentEvent(eventType string, a *Appointment, occurredAt time.Time) AppointmentEvent {
	return AppointmentEvent{
		EventID:       uuid.New(),
		Type:          eventType,
		AppointmentID: a.ID,
		ShopID:        a.ShopID,
		CustomerID:    a.CustomerID,
		Status:        a.Status,
		StartTime:     a.StartTime.UTC(),
		EndTime:       a.EndTime.UTC(),
		OccurredAt:    occurredAt.UTC(),
	}
}
