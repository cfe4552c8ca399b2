package create_appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request модель запроса на создание записи
// Нулевые ID и время означают, что поле не передано
type Request struct {
	ShopID     uuid.UUID        // ID мастерской
	CustomerID uuid.UUID        // ID клиента
	VehicleID  uuid.UUID        // ID автомобиля
	ServiceID  uuid.UUID        // ID услуги
	StartTime  time.Time        // Начало визита
	EndTime    time.Time        // Окончание визита (не включительно)
	QuoteID    *uuid.UUID       // Смета (опционально)
	EmployeeID *uuid.UUID       // Сотрудник (опционально)
	Price      *decimal.Decimal // Стоимость (опционально)
}
