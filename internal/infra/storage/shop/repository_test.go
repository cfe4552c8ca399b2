package shop

import (
	"context"
	"errors"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

var shopColumns = []string{"id", "timezone", "hours_of_operation", "updated_at"}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()
	updatedAt := time.Date(2023, 11, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, timezone, hours_of_operation, updated_at FROM shops WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(shopColumns).AddRow(
			id.String(),
			"Europe/Moscow",
			[]byte(`{"monday":{"isOpen":true,"openTime":"09:00","closeTime":"18:00"}}`),
			updatedAt,
		))

	shop, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, shop.ID)
	assert.Equal(t, "Europe/Moscow", shop.Timezone)
	require.NotNil(t, shop.Hours)
	assert.True(t, shop.Hours.Monday.IsOpen)
	assert.Equal(t, "09:00", string(shop.Hours.Monday.OpenTime))
	assert.False(t, shop.Hours.Sunday.IsOpen)
	assert.True(t, updatedAt.Equal(shop.UpdatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDWithoutHours(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM shops WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(shopColumns).AddRow(id.String(), "UTC", nil, nil))

	shop, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, shop.Hours)
	assert.True(t, shop.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock, id uuid.UUID)
		wantErr error
	}{
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock, _ uuid.UUID) {
				mock.ExpectQuery("FROM shops").WillReturnRows(sqlmock.NewRows(shopColumns))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "broken hours",
			setup: func(mock sqlmock.Sqlmock, id uuid.UUID) {
				mock.ExpectQuery("FROM shops").
					WillReturnRows(sqlmock.NewRows(shopColumns).AddRow(id.String(), "UTC", []byte(`{"monday":`), nil))
			},
			wantErr: ErrEncodeHours,
		},
		{
			name: "connection lost",
			setup: func(mock sqlmock.Sqlmock, _ uuid.UUID) {
				mock.ExpectQuery("FROM shops").WillReturnError(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")})
			},
			wantErr: domain.ErrStoreUnavailable,
		},
		{
			name: "query error",
			setup: func(mock sqlmock.Sqlmock, _ uuid.UUID) {
				mock.ExpectQuery("FROM shops").WillReturnError(errors.New("relation \"shops\" does not exist"))
			},
			wantErr: ErrScanRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			id := uuid.New()
			tt.setup(mock, id)

			_, err := repo.GetByID(context.Background(), id)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Upsert(t *testing.T) {
	repo, mock := newMockRepository(t)
	updatedAt := time.Date(2023, 11, 1, 9, 0, 0, 0, time.UTC)
	shop := &domain.Shop{
		ID:       uuid.New(),
		Timezone: "Europe/Moscow",
		Hours: &domain.ShopHoursOfOperation{
			Monday: domain.OperatingDay{IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
		},
	}

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO shops (id,timezone,hours_of_operation) VALUES ($1,$2,$3) "+
			"ON CONFLICT (id) DO UPDATE SET timezone = EXCLUDED.timezone, "+
			"hours_of_operation = EXCLUDED.hours_of_operation RETURNING updated_at")).
		WithArgs(shop.ID, "Europe/Moscow", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updatedAt))

	saved, err := repo.Upsert(context.Background(), shop)
	require.NoError(t, err)
	assert.True(t, updatedAt.Equal(saved.UpdatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpsertWithoutHoursStoresNull(t *testing.T) {
	repo, mock := newMockRepository(t)
	shop := &domain.Shop{ID: uuid.New(), Timezone: "UTC"}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO shops")).
		WithArgs(shop.ID, "UTC", nil).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	_, err := repo.Upsert(context.Background(), shop)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
