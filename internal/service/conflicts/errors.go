package conflicts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ErrNotAccepted возвращается, когда разрешение конфликтов запрошено для непринятой записи
var ErrNotAccepted = errors.New("conflicts: appointment is not accepted")

// FailedRejection запись, которую не удалось отклонить
type FailedRejection struct {
	ID  uuid.UUID
	Err error
}

// ConflictPersistenceError часть пересекающихся записей не удалось отклонить
// Принятие записи при этом остаётся в силе
type ConflictPersistenceError struct {
	AcceptedID uuid.UUID
	Failed     []FailedRejection
}

func (e *ConflictPersistenceError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		parts = append(parts, fmt.Sprintf("%s: %v", f.ID, f.Err))
	}
	return fmt.Sprintf("%s: accepted=%s, failed=[%s]",
		domain.ErrConflictPersistence, e.AcceptedID, strings.Join(parts, "; "))
}

func (e *ConflictPersistenceError) Unwrap() error {
	return domain.ErrConflictPersistence
}

// FailedIDs возвращает ID записей, которые не удалось отклонить
func (e *ConflictPersistenceError) FailedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.Failed))
	for _, f := range e.Failed {
		ids = append(ids, f.ID)
	}
	return ids
}
