package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

func date(month time.Month, d int) time.Time {
	return time.Date(2023, month, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store  *memory.Store
	uc     *UseCase
	shopID uuid.UUID
}

func newFixture(t *testing.T, timezone string) *fixture {
	t.Helper()
	store := memory.NewStore()
	shopID := uuid.New()

	workday := domain.OperatingDay{IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"}
	_, err := store.Shops().Upsert(context.Background(), &domain.Shop{
		ID:       shopID,
		Timezone: timezone,
		Hours: &domain.ShopHoursOfOperation{
			Monday: workday, Tuesday: workday, Wednesday: workday, Thursday: workday, Friday: workday,
		},
	})
	require.NoError(t, err)

	return &fixture{
		store:  store,
		uc:     NewUseCase(store.Shops(), store.Appointments(), 0, logger.Discard()),
		shopID: shopID,
	}
}

func (f *fixture) book(t *testing.T, start, end time.Time, status domain.AppointmentStatus) {
	t.Helper()
	_, err := f.store.Appointments().Create(context.Background(), &domain.Appointment{
		ID:        uuid.New(),
		ShopID:    f.shopID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	})
	require.NoError(t, err)
}

func TestExecute_SubtractsBusyAppointmentsOnly(t *testing.T) {
	f := newFixture(t, "UTC")
	// четверг 2023-11-09
	thu := date(time.November, 9)
	f.book(t, thu.Add(10*time.Hour), thu.Add(11*time.Hour), domain.StatusPendingApproval)
	f.book(t, thu.Add(12*time.Hour), thu.Add(13*time.Hour), domain.StatusAccepted)
	f.book(t, thu.Add(14*time.Hour), thu.Add(15*time.Hour), domain.StatusCancelled)
	f.book(t, thu.Add(15*time.Hour), thu.Add(16*time.Hour), domain.StatusRejected)

	resp, err := f.uc.Execute(context.Background(), &Request{
		ShopID: f.shopID,
		Start:  thu,
		End:    thu,
	})
	require.NoError(t, err)

	assert.Equal(t, f.shopID, resp.ShopID)
	assert.Equal(t, "UTC", resp.Timezone)
	require.Len(t, resp.Intervals, 3)
	assert.True(t, thu.Add(9*time.Hour).Equal(resp.Intervals[0].StartTime))
	assert.True(t, thu.Add(10*time.Hour).Equal(resp.Intervals[0].EndTime))
	assert.True(t, thu.Add(11*time.Hour).Equal(resp.Intervals[1].StartTime))
	assert.True(t, thu.Add(12*time.Hour).Equal(resp.Intervals[1].EndTime))
	assert.True(t, thu.Add(13*time.Hour).Equal(resp.Intervals[2].StartTime))
	assert.True(t, thu.Add(18*time.Hour).Equal(resp.Intervals[2].EndTime))
}

func TestExecute_MinDuration(t *testing.T) {
	f := newFixture(t, "UTC")
	thu := date(time.November, 9)
	f.book(t, thu.Add(9*time.Hour+30*time.Minute), thu.Add(17*time.Hour), domain.StatusAccepted)

	resp, err := f.uc.Execute(context.Background(), &Request{
		ShopID:             f.shopID,
		Start:              thu,
		End:                thu,
		MinDurationMinutes: ptr.Ptr(45),
	})
	require.NoError(t, err)
	require.Len(t, resp.Intervals, 1)
	assert.True(t, thu.Add(17*time.Hour).Equal(resp.Intervals[0].StartTime))
}

func TestExecute_WeekendOnlyRangeIsEmpty(t *testing.T) {
	f := newFixture(t, "UTC")

	resp, err := f.uc.Execute(context.Background(), &Request{
		ShopID: f.shopID,
		Start:  date(time.November, 11),
		End:    date(time.November, 12),
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Intervals)
	assert.Empty(t, resp.Intervals)
}

func TestExecute_ShopWithoutHours(t *testing.T) {
	store := memory.NewStore()
	shopID := uuid.New()
	_, err := store.Shops().Upsert(context.Background(), &domain.Shop{ID: shopID, Timezone: "UTC"})
	require.NoError(t, err)

	uc := NewUseCase(store.Shops(), store.Appointments(), 0, logger.Discard())
	resp, err := uc.Execute(context.Background(), &Request{
		ShopID: shopID,
		Start:  date(time.November, 6),
		End:    date(time.November, 10),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Intervals)
}

func TestExecute_ShopNotFound(t *testing.T) {
	f := newFixture(t, "UTC")

	_, err := f.uc.Execute(context.Background(), &Request{
		ShopID: uuid.New(),
		Start:  date(time.November, 6),
		End:    date(time.November, 6),
	})
	assert.ErrorIs(t, err, ErrShopNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name       string
		req        Request
		wantFields []string
	}{
		{
			name:       "missing everything",
			req:        Request{},
			wantFields: []string{"shopId", "start", "end"},
		},
		{
			name:       "end before start",
			req:        Request{ShopID: uuid.New(), Start: date(time.November, 10), End: date(time.November, 9)},
			wantFields: []string{"end"},
		},
		{
			name:       "range of 93 days",
			req:        Request{ShopID: uuid.New(), Start: date(time.January, 1), End: date(time.April, 3)},
			wantFields: []string{"end"},
		},
		{
			name:       "negative min duration",
			req:        Request{ShopID: uuid.New(), Start: date(time.January, 1), End: date(time.January, 1), MinDurationMinutes: ptr.Ptr(-5)},
			wantFields: []string{"minDurationMinutes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "UTC")

			_, err := f.uc.Execute(context.Background(), &tt.req)
			require.Error(t, err)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			got := make([]string, 0, len(verr.Fields))
			for _, fe := range verr.Fields {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}

func TestExecute_RangeOf92DaysIsAllowed(t *testing.T) {
	f := newFixture(t, "UTC")

	// 1 января - 2 апреля 2023: 31 + 28 + 31 + 2 = 92 дня
	_, err := f.uc.Execute(context.Background(), &Request{
		ShopID: f.shopID,
		Start:  date(time.January, 1),
		End:    date(time.April, 2),
	})
	assert.NoError(t, err)
}

func TestExecute_CustomRangeLimit(t *testing.T) {
	store := memory.NewStore()
	uc := NewUseCase(store.Shops(), store.Appointments(), 7, logger.Discard())

	_, err := uc.Execute(context.Background(), &Request{
		ShopID: uuid.New(),
		Start:  date(time.November, 1),
		End:    date(time.November, 8),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecute_ShopTimezone(t *testing.T) {
	f := newFixture(t, "Asia/Tokyo")
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// четверг 2023-11-09, 10:00-11:00 по Токио
	f.book(t,
		time.Date(2023, 11, 9, 10, 0, 0, 0, loc),
		time.Date(2023, 11, 9, 11, 0, 0, 0, loc),
		domain.StatusPendingApproval)

	resp, err := f.uc.Execute(context.Background(), &Request{
		ShopID: f.shopID,
		Start:  date(time.November, 9),
		End:    date(time.November, 9),
	})
	require.NoError(t, err)

	assert.Equal(t, "Asia/Tokyo", resp.Timezone)
	require.Len(t, resp.Intervals, 2)
	// 09:00 JST = 00:00 UTC
	assert.True(t, time.Date(2023, 11, 9, 0, 0, 0, 0, time.UTC).Equal(resp.Intervals[0].StartTime))
	assert.True(t, time.Date(2023, 11, 9, 1, 0, 0, 0, time.UTC).Equal(resp.Intervals[0].EndTime))
	assert.True(t, time.Date(2023, 11, 9, 2, 0, 0, 0, time.UTC).Equal(resp.Intervals[1].StartTime))
	assert.True(t, time.Date(2023, 11, 9, 9, 0, 0, 0, time.UTC).Equal(resp.Intervals[1].EndTime))
}
