package get_availability

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса свободного времени мастерской
type Request struct {
	ShopID             uuid.UUID
	Start              time.Time // Первая дата диапазона (без времени)
	End                time.Time // Последняя дата диапазона включительно
	MinDurationMinutes *int      // Минимальная длина интервала (опционально)
}

// Response свободные интервалы в хронологическом порядке
type Response struct {
	ShopID    uuid.UUID
	Timezone  string
	Intervals []Interval
}

// Interval свободный интервал [StartTime, EndTime)
type Interval struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}
