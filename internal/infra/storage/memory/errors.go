package memory

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("memory.store: appointment %w", domain.ErrNotFound)

	// ErrShopNotFound возвращается, когда мастерская не найдена
	ErrShopNotFound = fmt.Errorf("memory.store: shop %w", domain.ErrNotFound)

	// ErrAlreadyTerminal возвращается при попытке отклонить запись в конечном статусе
	ErrAlreadyTerminal = fmt.Errorf("memory.store: %w", domain.ErrAlreadyTerminal)

	// ErrDuplicateID возвращается при создании записи с уже существующим ID
	ErrDuplicateID = errors.New("memory.store: appointment with this id already exists")

	// ErrNoTransaction возвращается, когда операция требует транзакцию в контексте
	ErrNoTransaction = errors.New("memory.store: operation requires a transaction")

	// ErrNestedTx возвращается при попытке открыть транзакцию внутри транзакции
	ErrNestedTx = errors.New("memory.store: nested transactions are not supported")
)
