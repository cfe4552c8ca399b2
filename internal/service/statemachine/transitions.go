package statemachine

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// Event событие жизненного цикла записи
type Event string

const (
	EventAccept     Event = "accept"
	EventReject     Event = "reject"
	EventCancel     Event = "cancel"
	EventStart      Event = "start"
	EventComplete   Event = "complete"
	EventReschedule Event = "reschedule"
)

type transitionKey struct {
	from  domain.AppointmentStatus
	event Event
}

// transitions таблица допустимых переходов; всё, чего здесь нет, запрещено
var transitions = map[transitionKey]domain.AppointmentStatus{
	{domain.StatusPendingApproval, EventAccept}: domain.StatusAccepted,
	{domain.StatusPendingApproval, EventReject}: domain.StatusRejected,
	{domain.StatusPendingApproval, EventCancel}: domain.StatusCancelled,
	{domain.StatusAccepted, EventCancel}:        domain.StatusCancelled,
	{domain.StatusAccepted, EventStart}:         domain.StatusInProgress,
	{domain.StatusInProgress, EventComplete}:    domain.StatusCompleted,
}

// eventTargets статус, в который ведёт событие (для сообщений об ошибках)
var eventTargets = map[Event]domain.AppointmentStatus{
	EventAccept:   domain.StatusAccepted,
	EventReject:   domain.StatusRejected,
	EventCancel:   domain.StatusCancelled,
	EventStart:    domain.StatusInProgress,
	EventComplete: domain.StatusCompleted,
}

// Next возвращает статус после события или *domain.InvalidTransitionError
func Next(from domain.AppointmentStatus, event Event) (domain.AppointmentStatus, error) {
	if to, ok := transitions[transitionKey{from: from, event: event}]; ok {
		return to, nil
	}
	return from, &domain.InvalidTransitionError{
		From:  from,
		Event: string(event),
		To:    eventTargets[event],
	}
}

// EventForStatus событие, переводящее запись в запрошенный статус
// Для PENDING_APPROVAL и неизвестных статусов события нет
func EventForStatus(target domain.AppointmentStatus) (Event, bool) {
	switch target {
	case domain.StatusAccepted:
		return EventAccept, true
	case domain.StatusRejected:
		return EventReject, true
	case domain.StatusCancelled:
		return EventCancel, true
	case domain.StatusInProgress:
		return EventStart, true
	case domain.StatusCompleted:
		return EventComplete, true
	}
	return "", false
}
