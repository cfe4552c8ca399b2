package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"shop_id",
	"customer_id",
	"vehicle_id",
	"service_id",
	"start_time",
	"end_time",
	"status",
	"price",
	"quote_id",
	"employee_id",
	"work_order_id",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на обслуживание
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись
// ID должен быть заполнен вызывающей стороной
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"shop_id",
			"customer_id",
			"vehicle_id",
			"service_id",
			"start_time",
			"end_time",
			"status",
			"price",
			"quote_id",
			"employee_id",
			"work_order_id",
		).
		Values(
			a.ID,
			a.ShopID,
			a.CustomerID,
			a.VehicleID,
			a.ServiceID,
			a.StartTime.UTC(),
			a.EndTime.UTC(),
			a.Status,
			a.Price,
			a.QuoteID,
			a.EmployeeID,
			a.WorkOrderID,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, pgerrors.Wrap(ErrExecQuery, "Create - execute insert", err)
	}

	return a, nil
}

// GetByID получает запись по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, pgerrors.Wrap(ErrScanRow, "GetByID - scan appointment", err)
	}

	return a, nil
}

// ListByShop получает записи мастерской с фильтрацией по периоду и статусам
// Период задаётся по пересечению: запись попадает в выборку, если её интервал пересекает [From, To)
func (r *Repository) ListByShop(ctx context.Context, filter domain.ShopAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"shop_id": filter.ShopID})

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_time": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": filter.To.UTC()})
	}
	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}

	query, args, err := selectBuilder.OrderBy("start_time ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByShop - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerrors.Wrap(ErrExecQuery, "ListByShop - execute query", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListByCustomer получает записи клиента, новые сначала
// Опционально фильтрует по статусу
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_time DESC", "id ASC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerrors.Wrap(ErrExecQuery, "ListByCustomer - execute query", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListOverlapping получает записи мастерской в указанных статусах, пересекающие интервал,
// кроме записи excludeID. Пересечение полуоткрытое: start_time < end AND end_time > start.
// Внутри транзакции найденные строки блокируются (FOR UPDATE)
func (r *Repository) ListOverlapping(
	ctx context.Context,
	shopID uuid.UUID,
	excludeID uuid.UUID,
	interval domain.Interval,
	statuses []domain.AppointmentStatus,
) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"shop_id": shopID}).
		Where(squirrel.NotEq{"id": excludeID}).
		Where(squirrel.Lt{"start_time": interval.End.UTC()}).
		Where(squirrel.Gt{"end_time": interval.Start.UTC()}).
		OrderBy("start_time ASC", "id ASC")

	if len(statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerrors.Wrap(ErrExecQuery, "ListOverlapping - execute query", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Update сохраняет изменяемые поля записи: время, цену и ссылки на смету, сотрудника и заказ-наряд
// Статус меняется только через UpdateStatus и Reject
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("start_time", a.StartTime.UTC()).
		Set("end_time", a.EndTime.UTC()).
		Set("price", a.Price).
		Set("quote_id", a.QuoteID).
		Set("employee_id", a.EmployeeID).
		Set("work_order_id", a.WorkOrderID).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return pgerrors.Wrap(ErrExecQuery, "Update - execute update", err)
	}

	return nil
}

// UpdateStatus сохраняет статус записи вместе с причиной и временем отмены
func (r *Repository) UpdateStatus(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(a.Status)).
		Set("cancellation_reason", a.CancellationReason).
		Set("cancelled_at", a.CancelledAt).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return pgerrors.Wrap(ErrExecQuery, "UpdateStatus - execute update", err)
	}

	return nil
}

// Reject принудительно переводит незавершённую запись в REJECTED
// Внутри транзакции выполняется под собственным SAVEPOINT, чтобы ошибка
// одной записи не прерывала всю транзакцию
func (r *Repository) Reject(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return r.reject(ctx, id)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, "SAVEPOINT reject_appointment"); err != nil {
		return nil, pgerrors.Wrap(ErrExecQuery, "Reject - savepoint", err)
	}

	a, err := r.reject(ctx, id)
	if err != nil {
		if _, rbErr := executor.ExecContext(ctx, "ROLLBACK TO SAVEPOINT reject_appointment"); rbErr != nil {
			return nil, pgerrors.Wrap(ErrExecQuery, "Reject - rollback to savepoint", rbErr)
		}
		return nil, err
	}

	if _, err := executor.ExecContext(ctx, "RELEASE SAVEPOINT reject_appointment"); err != nil {
		return nil, pgerrors.Wrap(ErrExecQuery, "Reject - release savepoint", err)
	}
	return a, nil
}

func (r *Repository) reject(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(domain.StatusRejected)).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": statusStrings(domain.TerminalStatuses)}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Reject - build update query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.rejectMissReason(ctx, id)
	}
	if err != nil {
		return nil, pgerrors.Wrap(ErrExecQuery, "Reject - execute update", err)
	}
	return a, nil
}

// rejectMissReason различает отсутствующую запись и запись в конечном статусе
func (r *Repository) rejectMissReason(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status").From(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reject - build status query: %v", ErrBuildQuery, err)
	}

	var status string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return pgerrors.Wrap(ErrScanRow, "Reject - scan status", err)
	}
	return fmt.Errorf("%w: id=%s status=%s", ErrAlreadyTerminal, id, status)
}

// Delete физически удаляет запись
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return pgerrors.Wrap(ErrExecQuery, "Delete - execute delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// LockShop берёт транзакционную advisory-блокировку мастерской
// Сериализует принятие записей одной мастерской; снимается при завершении транзакции
func (r *Repository) LockShop(ctx context.Context, shopID uuid.UUID) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNoTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx,
		"SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))", shopID.String()); err != nil {
		return pgerrors.Wrap(ErrExecQuery, "LockShop - advisory lock", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a         domain.Appointment
		status    string
		startTime time.Time
		endTime   time.Time
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.ShopID,
		&a.CustomerID,
		&a.VehicleID,
		&a.ServiceID,
		&startTime,
		&endTime,
		&status,
		&a.Price,
		&a.QuoteID,
		&a.EmployeeID,
		&a.WorkOrderID,
		&a.CancellationReason,
		&a.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.StartTime = startTime.UTC()
	a.EndTime = endTime.UTC()
	a.Status = domain.AppointmentStatus(status)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, pgerrors.Wrap(ErrScanRow, "scanAppointments - rows error", err)
	}

	return appointments, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
