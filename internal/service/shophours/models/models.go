package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// UpdateRequest запрос на обновление часов работы мастерской
// Timezone - IANA имя часового пояса; если не передан, сохраняется текущий
type UpdateRequest struct {
	Timezone         *string                     `json:"timezone,omitempty"`
	HoursOfOperation domain.ShopHoursOfOperation `json:"hoursOfOperation"`
}

// HoursResponse часы работы мастерской
type HoursResponse struct {
	ShopID           uuid.UUID                    `json:"shopId"`
	Timezone         string                       `json:"timezone"`
	HoursOfOperation *domain.ShopHoursOfOperation `json:"hoursOfOperation"`
	UpdatedAt        time.Time                    `json:"updatedAt"`
}

// FromDomainShop конвертирует domain модель в DTO
func FromDomainShop(s *domain.Shop) *HoursResponse {
	if s == nil {
		return nil
	}
	return &HoursResponse{
		ShopID:           s.ID,
		Timezone:         s.Timezone,
		HoursOfOperation: s.Hours,
		UpdatedAt:        s.UpdatedAt,
	}
}
