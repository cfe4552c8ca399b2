package domain

import "time"

// Business validation constants
const (
	MaxAppointmentDuration      = 24 * time.Hour
	MaxCancellationReasonLength = 500
	DefaultMaxRangeDays         = 92
	DefaultTimezone             = "UTC"
	PriceScale                  = 2
	TimePrecision               = time.Microsecond
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BusyStatuses статусы записей, занимающих слот в расписании
// Используется при расчёте свободного времени
var BusyStatuses = []AppointmentStatus{
	StatusPendingApproval,
	StatusAccepted,
	StatusInProgress,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusRejected,
	StatusCancelled,
}
