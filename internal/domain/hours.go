package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// OperatingDay opening hours of a shop for one weekday
// OpenTime and CloseTime are local times of the shop's timezone, same-day only
type OperatingDay struct {
	IsOpen    bool             `json:"isOpen"`
	OpenTime  types.TimeString `json:"openTime,omitempty"`
	CloseTime types.TimeString `json:"closeTime,omitempty"`
}

// Window returns the opening window of the day on the given date.
// ok is false for closed days.
func (d OperatingDay) Window(date time.Time, loc *time.Location) (Interval, bool, error) {
	if !d.IsOpen {
		return Interval{}, false, nil
	}
	start, err := d.OpenTime.OnDate(date, loc)
	if err != nil {
		return Interval{}, false, err
	}
	end, err := d.CloseTime.OnDate(date, loc)
	if err != nil {
		return Interval{}, false, err
	}
	return Interval{Start: start, End: end}, true, nil
}

// ShopHoursOfOperation weekly operating template of a shop
// A day that was never configured is a closed day (zero value)
type ShopHoursOfOperation struct {
	Monday    OperatingDay `json:"monday"`
	Tuesday   OperatingDay `json:"tuesday"`
	Wednesday OperatingDay `json:"wednesday"`
	Thursday  OperatingDay `json:"thursday"`
	Friday    OperatingDay `json:"friday"`
	Saturday  OperatingDay `json:"saturday"`
	Sunday    OperatingDay `json:"sunday"`
}

// ForWeekday returns the operating day for the given weekday
func (h *ShopHoursOfOperation) ForWeekday(wd time.Weekday) OperatingDay {
	switch wd {
	case time.Monday:
		return h.Monday
	case time.Tuesday:
		return h.Tuesday
	case time.Wednesday:
		return h.Wednesday
	case time.Thursday:
		return h.Thursday
	case time.Friday:
		return h.Friday
	case time.Saturday:
		return h.Saturday
	default:
		return h.Sunday
	}
}

// Validate checks every open day has valid times and OpenTime < CloseTime
func (h *ShopHoursOfOperation) Validate() error {
	days := []struct {
		name string
		day  OperatingDay
	}{
		{"monday", h.Monday},
		{"tuesday", h.Tuesday},
		{"wednesday", h.Wednesday},
		{"thursday", h.Thursday},
		{"friday", h.Friday},
		{"saturday", h.Saturday},
		{"sunday", h.Sunday},
	}

	verr := &ValidationError{}
	for _, d := range days {
		if !d.day.IsOpen {
			continue
		}
		field := "hoursOfOperation." + d.name
		if err := d.day.OpenTime.Validate(); err != nil {
			verr.Add(field+".openTime", fmt.Sprintf("invalid time %q, expected HH:MM", d.day.OpenTime))
			continue
		}
		if err := d.day.CloseTime.Validate(); err != nil {
			verr.Add(field+".closeTime", fmt.Sprintf("invalid time %q, expected HH:MM", d.day.CloseTime))
			continue
		}
		if !d.day.OpenTime.IsBefore(d.day.CloseTime) {
			verr.Add(field, "openTime must be before closeTime")
		}
	}
	return verr.OrNil()
}
