package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request входные данные расчёта свободного времени
// RangeStart и RangeEnd - календарные даты (время суток игнорируется), диапазон включительный
type Request struct {
	ShopID     uuid.UUID
	RangeStart time.Time
	RangeEnd   time.Time
	Hours      *domain.ShopHoursOfOperation
	Booked     []*domain.Appointment
	Location   *time.Location // часовой пояс мастерской, nil - UTC
}

// Compute возвращает свободные интервалы мастерской по дням диапазона в хронологическом порядке (UTC).
// Для каждого дня берётся окно работы по дню недели, из него вычитаются все пересекающиеся записи.
// Статус записей не проверяется: вызывающий код передаёт только занимающие время записи.
// Минимальная длительность не применяется, см. FilterMinDuration
func Compute(req Request) ([]domain.Interval, error) {
	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}

	first := dateIn(req.RangeStart, loc)
	last := dateIn(req.RangeEnd, loc)
	if first.After(last) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			first.Format(domain.DateFormat), last.Format(domain.DateFormat))
	}

	free := make([]domain.Interval, 0)
	if req.Hours == nil {
		return free, nil
	}

	busy := make([]domain.Interval, 0, len(req.Booked))
	for _, a := range req.Booked {
		if a == nil {
			continue
		}
		busy = append(busy, a.Interval())
	}

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		window, open, err := req.Hours.ForWeekday(day.Weekday()).Window(day, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidHours, day.Weekday(), err)
		}
		if !open || !window.IsValid() {
			continue
		}

		for _, gap := range domain.Subtract(window, busy) {
			free = append(free, domain.Interval{Start: gap.Start.UTC(), End: gap.End.UTC()})
		}
	}

	return free, nil
}

// FilterMinDuration оставляет интервалы длительностью не меньше min
func FilterMinDuration(intervals []domain.Interval, min time.Duration) []domain.Interval {
	if min <= 0 {
		return intervals
	}
	out := make([]domain.Interval, 0, len(intervals))
	for _, i := range intervals {
		if i.Duration() >= min {
			out = append(out, i)
		}
	}
	return out
}

// dateIn возвращает полночь календарной даты t в часовом поясе loc
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
