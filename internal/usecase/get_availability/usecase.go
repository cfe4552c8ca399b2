package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// UseCase use case расчёта свободного времени мастерской
// Блокировки не берутся: результат может не учитывать принимаемые в этот момент записи
type UseCase struct {
	shopRepo     ShopRepository
	apptRepo     AppointmentRepository
	maxRangeDays int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. maxRangeDays <= 0 - значение по умолчанию
func NewUseCase(shopRepo ShopRepository, apptRepo AppointmentRepository, maxRangeDays int, logger Logger) *UseCase {
	if maxRangeDays <= 0 {
		maxRangeDays = domain.DefaultMaxRangeDays
	}
	return &UseCase{
		shopRepo:     shopRepo,
		apptRepo:     apptRepo,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// Execute возвращает свободные интервалы мастерской в диапазоне дат
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: shop=%s, start=%s, end=%s",
		req.ShopID, req.Start.Format(domain.DateFormat), req.End.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxRangeDays); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем мастерскую
	shop, err := uc.shopRepo.GetByID(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GetAvailability: shop id=%s not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("GetAvailability: failed to get shop id=%s: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %w", ErrInternal, err)
	}

	// 3. Окно диапазона в часовом поясе мастерской
	loc := shop.Location()
	from := inLocation(req.Start, loc)
	to := inLocation(req.End, loc).AddDate(0, 0, 1)

	// 4. Занятые записи, пересекающие окно
	booked, err := uc.apptRepo.ListByShop(ctx, domain.ShopAppointmentsFilter{
		ShopID:   req.ShopID,
		From:     &from,
		To:       &to,
		Statuses: domain.BusyStatuses,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list appointments of shop=%s: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to list appointments: %w", ErrInternal, err)
	}

	// 5. Расчёт
	free, err := availability.Compute(availability.Request{
		ShopID:     req.ShopID,
		RangeStart: req.Start,
		RangeEnd:   req.End,
		Hours:      shop.Hours,
		Booked:     booked,
		Location:   loc,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to compute availability of shop=%s: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	minDuration := time.Duration(ptr.Deref(req.MinDurationMinutes, 0)) * time.Minute
	free = availability.FilterMinDuration(free, minDuration)

	intervals := make([]Interval, 0, len(free))
	for _, i := range free {
		intervals = append(intervals, Interval{StartTime: i.Start, EndTime: i.End})
	}

	uc.logger.Info("GetAvailability: shop=%s, %d free intervals, busy=%d", req.ShopID, len(intervals), len(booked))
	return &Response{
		ShopID:    shop.ID,
		Timezone:  loc.String(),
		Intervals: intervals,
	}, nil
}

// inLocation полночь календарной даты d в часовом поясе loc
func inLocation(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

// dateOnly полночь календарной даты d в UTC
func dateOnly(d time.Time) time.Time {
	return inLocation(d, time.UTC)
}
