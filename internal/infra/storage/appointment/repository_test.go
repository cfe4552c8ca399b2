package appointment

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

var (
	startAt = time.Date(2023, 11, 9, 10, 0, 0, 0, time.UTC)
	endAt   = time.Date(2023, 11, 9, 12, 0, 0, 0, time.UTC)
)

func newMockRepository(t *testing.T) (*Repository, *txmanager.TxManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), txmanager.New(wrapped), mock
}

func appointmentRow(id, shopID uuid.UUID, status domain.AppointmentStatus) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(
		id.String(),
		shopID.String(),
		uuid.NewString(),
		uuid.NewString(),
		uuid.NewString(),
		startAt,
		endAt,
		string(status),
		"2500.50",
		nil,
		nil,
		nil,
		nil,
		nil,
		startAt.Add(-48*time.Hour),
		startAt.Add(-24*time.Hour),
	)
}

func TestRepository_ListOverlappingOutsideTransaction(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	shopID, excludeID, found := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM appointments WHERE shop_id = $1 AND id <> $2 AND start_time < $3 AND end_time > $4 "+
			"AND status IN ($5,$6) ORDER BY start_time ASC, id ASC") + "$").
		WithArgs(shopID, excludeID, endAt, startAt, "ACCEPTED", "IN_PROGRESS").
		WillReturnRows(appointmentRow(found, shopID, domain.StatusAccepted))

	list, err := repo.ListOverlapping(context.Background(), shopID, excludeID,
		domain.Interval{Start: startAt, End: endAt},
		[]domain.AppointmentStatus{domain.StatusAccepted, domain.StatusInProgress})
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, found, list[0].ID)
	assert.Equal(t, domain.StatusAccepted, list[0].Status)
	require.NotNil(t, list[0].Price)
	assert.Equal(t, "2500.5", list[0].Price.String())
	assert.Nil(t, list[0].QuoteID)
	assert.True(t, startAt.Equal(list[0].StartTime))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListOverlappingLocksRowsInTransaction(t *testing.T) {
	repo, tx, mock := newMockRepository(t)
	shopID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("start_time < $3 AND end_time > $4 ORDER BY start_time ASC, id ASC FOR UPDATE") + "$").
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectCommit()

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		list, err := repo.ListOverlapping(ctx, shopID, uuid.New(), domain.Interval{Start: startAt, End: endAt}, nil)
		if err != nil {
			return err
		}
		assert.Empty(t, list)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RejectMissReason(t *testing.T) {
	tests := []struct {
		name    string
		status  *sqlmock.Rows
		wantErr error
	}{
		{
			name:    "missing appointment",
			status:  sqlmock.NewRows([]string{"status"}),
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "terminal appointment",
			status:  sqlmock.NewRows([]string{"status"}).AddRow("COMPLETED"),
			wantErr: domain.ErrAlreadyTerminal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, mock := newMockRepository(t)
			id := uuid.New()

			mock.ExpectQuery(regexp.QuoteMeta("UPDATE appointments SET status = $1 WHERE id = $2 AND status NOT IN ($3,$4,$5) RETURNING")).
				WithArgs("REJECTED", id, "COMPLETED", "REJECTED", "CANCELLED").
				WillReturnRows(sqlmock.NewRows(columns))
			mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM appointments WHERE id = $1")).
				WithArgs(id).
				WillReturnRows(tt.status)

			_, err := repo.Reject(context.Background(), id)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_RejectUsesSavepointInTransaction(t *testing.T) {
	repo, tx, mock := newMockRepository(t)
	shopID := uuid.New()
	terminal, broken, pending := uuid.New(), uuid.New(), uuid.New()
	update := regexp.QuoteMeta("UPDATE appointments SET status = $1 WHERE id = $2")

	mock.ExpectBegin()

	// запись уже в конечном статусе
	mock.ExpectExec("^SAVEPOINT reject_appointment$").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(update).WithArgs("REJECTED", terminal, "COMPLETED", "REJECTED", "CANCELLED").
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM appointments")).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("CANCELLED"))
	mock.ExpectExec("^ROLLBACK TO SAVEPOINT reject_appointment$").WillReturnResult(sqlmock.NewResult(0, 0))

	// ошибка БД посреди транзакции
	mock.ExpectExec("^SAVEPOINT reject_appointment$").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(update).WithArgs("REJECTED", broken, "COMPLETED", "REJECTED", "CANCELLED").
		WillReturnError(errors.New("could not serialize access"))
	mock.ExpectExec("^ROLLBACK TO SAVEPOINT reject_appointment$").WillReturnResult(sqlmock.NewResult(0, 0))

	// успешное отклонение
	mock.ExpectExec("^SAVEPOINT reject_appointment$").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(update).WithArgs("REJECTED", pending, "COMPLETED", "REJECTED", "CANCELLED").
		WillReturnRows(appointmentRow(pending, shopID, domain.StatusRejected))
	mock.ExpectExec("^RELEASE SAVEPOINT reject_appointment$").WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectCommit()

	var rejected *domain.Appointment
	err := tx.Do(context.Background(), func(ctx context.Context) error {
		_, err := repo.Reject(ctx, terminal)
		assert.ErrorIs(t, err, ErrAlreadyTerminal)

		_, err = repo.Reject(ctx, broken)
		assert.ErrorIs(t, err, ErrExecQuery)

		rejected, err = repo.Reject(ctx, pending)
		return err
	})
	require.NoError(t, err)

	require.NotNil(t, rejected)
	assert.Equal(t, pending, rejected.ID)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RejectFailsWhenSavepointRollbackFails(t *testing.T) {
	repo, tx, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("^SAVEPOINT reject_appointment$").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE appointments")).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectExec("^ROLLBACK TO SAVEPOINT reject_appointment$").WillReturnError(errors.New("current transaction is aborted"))
	mock.ExpectRollback()

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		_, err := repo.Reject(ctx, id)
		return err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.Contains(t, err.Error(), "rollback to savepoint")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LockShop(t *testing.T) {
	repo, tx, mock := newMockRepository(t)
	shopID := uuid.New()

	err := repo.LockShop(context.Background(), shopID)
	assert.ErrorIs(t, err, ErrNoTransaction)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))")).
		WithArgs(shopID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err = tx.Do(context.Background(), func(ctx context.Context) error {
		return repo.LockShop(ctx, shopID)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, tx, mock := newMockRepository(t)
	id, shopID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments WHERE id = $1") + "$").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments WHERE id = $1 FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(appointmentRow(id, shopID, domain.StatusPendingApproval))
	mock.ExpectCommit()

	err = tx.Do(context.Background(), func(ctx context.Context) error {
		got, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		assert.Equal(t, shopID, got.ShopID)
		assert.Equal(t, domain.StatusPendingApproval, got.Status)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteMissing(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM appointments WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
