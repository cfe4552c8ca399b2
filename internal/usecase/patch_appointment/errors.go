package patch_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("patch_appointment: appointment %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("patch_appointment: internal error")
)

const (
	// eventUpdate событие изменения назначений записи (цена, смета, сотрудник, заказ-наряд)
	eventUpdate = "update"
	// eventSetStatus запрос статуса, в который нет перехода
	eventSetStatus = "set_status"
)
