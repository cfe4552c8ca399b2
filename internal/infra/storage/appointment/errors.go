package appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("appointment.repository: appointment %w", domain.ErrNotFound)

	// ErrNoTransaction возвращается, когда операция требует транзакцию в контексте
	ErrNoTransaction = errors.New("appointment.repository: operation requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")

	// ErrAlreadyTerminal возвращается, когда запись уже в конечном статусе и не может быть отклонена
	ErrAlreadyTerminal = fmt.Errorf("appointment.repository: %w", domain.ErrAlreadyTerminal)
)
