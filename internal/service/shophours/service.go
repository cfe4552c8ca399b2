package shophours

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/shophours/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Service сервис часов работы мастерских
type Service struct {
	repo            ShopRepository
	defaultTimezone string
	logger          Logger
}

// NewService создает новый экземпляр сервиса
// defaultTimezone используется для новых мастерских без явно указанного часового пояса
func NewService(repo ShopRepository, defaultTimezone string, logger Logger) *Service {
	if defaultTimezone == "" {
		defaultTimezone = domain.DefaultTimezone
	}
	return &Service{
		repo:            repo,
		defaultTimezone: defaultTimezone,
		logger:          logger,
	}
}

// Get получает часы работы мастерской
func (s *Service) Get(ctx context.Context, shopID uuid.UUID) (*models.HoursResponse, error) {
	s.logger.Info("Get: fetching hours for shop=%s", shopID)

	shop, err := s.repo.GetByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Get: shop=%s not found", shopID)
			return nil, ErrShopNotFound
		}
		s.logger.Error("Get: repository error for shop=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainShop(shop), nil
}

// Update заменяет недельное расписание мастерской (создаёт мастерскую, если её нет)
func (s *Service) Update(ctx context.Context, shopID uuid.UUID, req *models.UpdateRequest) (*models.HoursResponse, error) {
	s.logger.Info("Update: updating hours for shop=%s", shopID)

	hours, err := normalizeHours(req.HoursOfOperation)
	if err != nil {
		s.logger.Warn("Update: invalid hours for shop=%s: %v", shopID, err)
		return nil, err
	}

	timezone, err := s.resolveTimezone(ctx, shopID, req.Timezone)
	if err != nil {
		return nil, err
	}

	shop, err := s.repo.Upsert(ctx, &domain.Shop{
		ID:       shopID,
		Timezone: timezone,
		Hours:    hours,
	})
	if err != nil {
		s.logger.Error("Update: repository error for shop=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Update: hours for shop=%s saved (timezone=%s)", shopID, timezone)
	return models.FromDomainShop(shop), nil
}

// resolveTimezone проверяет переданный часовой пояс или берёт текущий у мастерской
func (s *Service) resolveTimezone(ctx context.Context, shopID uuid.UUID, requested *string) (string, error) {
	if requested != nil {
		tz := strings.TrimSpace(*requested)
		if tz == "" {
			return "", domain.NewValidationError("timezone", "must not be empty")
		}
		if _, err := time.LoadLocation(tz); err != nil {
			s.logger.Warn("Update: unknown timezone=%q for shop=%s", tz, shopID)
			return "", domain.NewValidationError("timezone", fmt.Sprintf("unknown timezone %q", tz))
		}
		return tz, nil
	}

	current, err := s.repo.GetByID(ctx, shopID)
	switch {
	case err == nil && current.Timezone != "":
		return current.Timezone, nil
	case err == nil, errors.Is(err, domain.ErrNotFound):
		return s.defaultTimezone, nil
	default:
		s.logger.Error("Update: repository error for shop=%s: %v", shopID, err)
		return "", fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}
}

// normalizeHours проверяет расписание и приводит время к формату HH:MM
func normalizeHours(h domain.ShopHoursOfOperation) (*domain.ShopHoursOfOperation, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	days := []*domain.OperatingDay{&h.Monday, &h.Tuesday, &h.Wednesday, &h.Thursday, &h.Friday, &h.Saturday, &h.Sunday}
	for _, d := range days {
		if !d.IsOpen {
			d.OpenTime, d.CloseTime = "", ""
			continue
		}
		// формат уже проверен в Validate
		d.OpenTime, _ = types.NewTimeStringFromString(string(d.OpenTime))
		d.CloseTime, _ = types.NewTimeStringFromString(string(d.CloseTime))
	}
	return &h, nil
}
