package domain

import (
	"time"
	_ "time/tzdata" // IANA-зоны мастерских доступны и в образах без системной tzdata

	"github.com/google/uuid"
)

// Shop the scheduling view of a repair shop: its weekly hours and timezone
type Shop struct {
	ID        uuid.UUID
	Timezone  string
	Hours     *ShopHoursOfOperation // nil - hours were never configured
	UpdatedAt time.Time
}

// Location resolves the shop timezone, falling back to UTC for empty or unknown names
func (s *Shop) Location() *time.Location {
	if s == nil || s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
