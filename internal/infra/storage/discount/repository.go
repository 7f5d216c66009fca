package discount

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const (
	settingsTable = "stylist_discount_settings"
	weekdayTable  = "stylist_weekday_discounts"
	dateTable     = "stylist_date_discounts"
)

type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetConfig собирает конфигурацию скидок мастера из трёх таблиц.
// Отсутствие строк не является ошибкой: ненастроенные правила
// возвращаются с нулевым процентом и не участвуют в расчёте.
func (r *Repository) GetConfig(ctx context.Context, stylistID int64) (*domain.DiscountConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cfg := &domain.DiscountConfig{
		WeekdayPercents: make(map[int]int),
	}

	if err := r.loadSettings(ctx, executor, stylistID, cfg); err != nil {
		return nil, err
	}
	if err := r.loadWeekdays(ctx, executor, stylistID, cfg); err != nil {
		return nil, err
	}
	if err := r.loadDateRanges(ctx, executor, stylistID, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (r *Repository) loadSettings(ctx context.Context, executor DBExecutor, stylistID int64, cfg *domain.DiscountConfig) error {
	query, args, err := psqlbuilder.Select(
		"first_visit_percent",
		"rebook_1w_percent",
		"rebook_2w_percent",
	).
		From(settingsTable).
		Where(squirrel.Eq{"stylist_id": stylistID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadSettings: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	err = row.Scan(&cfg.FirstVisitPercent, &cfg.RebookWeekPercent, &cfg.Rebook2WeekPercent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: loadSettings: %v", ErrScanRow, err)
	}

	return nil
}

func (r *Repository) loadWeekdays(ctx context.Context, executor DBExecutor, stylistID int64, cfg *domain.DiscountConfig) error {
	query, args, err := psqlbuilder.Select("weekday", "percent").
		From(weekdayTable).
		Where(squirrel.Eq{"stylist_id": stylistID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadWeekdays: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadWeekdays: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday, percent int
		if err := rows.Scan(&weekday, &percent); err != nil {
			return fmt.Errorf("%w: loadWeekdays: %v", ErrScanRow, err)
		}
		cfg.WeekdayPercents[weekday] = percent
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadWeekdays: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) loadDateRanges(ctx context.Context, executor DBExecutor, stylistID int64, cfg *domain.DiscountConfig) error {
	// Сортировка фиксирует детерминированный порядок разрешения
	// пересекающихся периодов: больший процент, затем более ранний valid_from.
	query, args, err := psqlbuilder.Select("valid_from", "valid_to", "percent").
		From(dateTable).
		Where(squirrel.Eq{"stylist_id": stylistID}).
		OrderBy("percent DESC", "valid_from ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadDateRanges: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadDateRanges: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rangeDiscount domain.DateRangeDiscount
		if err := rows.Scan(&rangeDiscount.From, &rangeDiscount.To, &rangeDiscount.Percent); err != nil {
			return fmt.Errorf("%w: loadDateRanges: %v", ErrScanRow, err)
		}
		cfg.DateRanges = append(cfg.DateRanges, rangeDiscount)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadDateRanges: %v", ErrExecQuery, err)
	}

	return nil
}

// ReplaceConfig полностью заменяет конфигурацию скидок мастера.
// Вызывающая сторона обязана обернуть вызов в транзакцию.
func (r *Repository) ReplaceConfig(ctx context.Context, stylistID int64, cfg *domain.DiscountConfig) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if err := r.upsertSettings(ctx, executor, stylistID, cfg); err != nil {
		return err
	}
	if err := r.replaceWeekdays(ctx, executor, stylistID, cfg); err != nil {
		return err
	}
	if err := r.replaceDateRanges(ctx, executor, stylistID, cfg); err != nil {
		return err
	}

	return nil
}

func (r *Repository) upsertSettings(ctx context.Context, executor DBExecutor, stylistID int64, cfg *domain.DiscountConfig) error {
	query, args, err := psqlbuilder.Insert(settingsTable).
		Columns("stylist_id", "first_visit_percent", "rebook_1w_percent", "rebook_2w_percent", "updated_at").
		Values(stylistID, cfg.FirstVisitPercent, cfg.RebookWeekPercent, cfg.Rebook2WeekPercent, time.Now().UTC()).
		Suffix(`ON CONFLICT (stylist_id) DO UPDATE SET
			first_visit_percent = EXCLUDED.first_visit_percent,
			rebook_1w_percent = EXCLUDED.rebook_1w_percent,
			rebook_2w_percent = EXCLUDED.rebook_2w_percent,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: upsertSettings: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsertSettings: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) replaceWeekdays(ctx context.Context, executor DBExecutor, stylistID int64, cfg *domain.DiscountConfig) error {
	deleteQuery, deleteArgs, err := psqlbuilder.Delete(weekdayTable).
		Where(squirrel.Eq{"stylist_id": stylistID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWeekdays: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: replaceWeekdays: %v", ErrExecQuery, err)
	}

	if len(cfg.WeekdayPercents) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert(weekdayTable).Columns("stylist_id", "weekday", "percent")
	for weekday, percent := range cfg.WeekdayPercents {
		insert = insert.Values(stylistID, weekday, percent)
	}

	insertQuery, insertArgs, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWeekdays: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: replaceWeekdays: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) replaceDateRanges(ctx context.Context, executor DBExecutor, stylistID int64, cfg *domain.DiscountConfig) error {
	deleteQuery, deleteArgs, err := psqlbuilder.Delete(dateTable).
		Where(squirrel.Eq{"stylist_id": stylistID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceDateRanges: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: replaceDateRanges: %v", ErrExecQuery, err)
	}

	if len(cfg.DateRanges) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert(dateTable).Columns("stylist_id", "valid_from", "valid_to", "percent")
	for _, rangeDiscount := range cfg.DateRanges {
		insert = insert.Values(stylistID, rangeDiscount.From, rangeDiscount.To, rangeDiscount.Percent)
	}

	insertQuery, insertArgs, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceDateRanges: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: replaceDateRanges: %v", ErrExecQuery, err)
	}

	return nil
}
