package shop

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const table = "shops"

// Repository репозиторий расписания мастерских
// Часы работы хранятся в колонке hours_of_operation (JSONB)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастерских
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает мастерскую по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "timezone", "hours_of_operation", "updated_at").
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		shop      domain.Shop
		hoursRaw  []byte
		updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&shop.ID,
		&shop.Timezone,
		&hoursRaw,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, pgerrors.Wrap(ErrScanRow, "GetByID - scan shop", err)
	}

	if len(hoursRaw) > 0 && string(hoursRaw) != "null" {
		var hours domain.ShopHoursOfOperation
		if err := json.Unmarshal(hoursRaw, &hours); err != nil {
			return nil, fmt.Errorf("%w: GetByID - decode hours: %v", ErrEncodeHours, err)
		}
		shop.Hours = &hours
	}
	shop.UpdatedAt = updatedAt.Time

	return &shop, nil
}

// Upsert создает мастерскую или обновляет её часы работы и часовой пояс
func (r *Repository) Upsert(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var hours interface{}
	if shop.Hours != nil {
		raw, err := json.Marshal(shop.Hours)
		if err != nil {
			return nil, fmt.Errorf("%w: Upsert - encode hours: %v", ErrEncodeHours, err)
		}
		hours = string(raw)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "timezone", "hours_of_operation").
		Values(shop.ID, shop.Timezone, hours).
		Suffix("ON CONFLICT (id) DO UPDATE SET " +
			"timezone = EXCLUDED.timezone, " +
			"hours_of_operation = EXCLUDED.hours_of_operation " +
			"RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, pgerrors.Wrap(ErrExecQuery, "Upsert - execute insert", err)
	}
	shop.UpdatedAt = updatedAt.Time

	return shop, nil
}
