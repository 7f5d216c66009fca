package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var appointmentColumns = []string{
	"id",
	"uuid",
	"stylist_id",
	"client_id",
	"start_time",
	"duration_minutes",
	"status",
	"created_by",
	"include_tax",
	"include_card_fee",
	"total_before_tax",
	"total_tax",
	"total_card_fee",
	"grand_total",
	"deleted_at",
	"created_at",
	"updated_at",
}

// Create создает новую запись вместе со строками услуг и первой записью истории статусов
// Если в контексте передана активная транзакция (через context.Value), использует её
func (r *Repository) Create(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"uuid",
			"stylist_id",
			"client_id",
			"start_time",
			"duration_minutes",
			"status",
			"created_by",
			"include_tax",
			"include_card_fee",
		).
		Values(
			apt.UUID,
			apt.StylistID,
			apt.ClientID,
			apt.StartTime,
			apt.DurationMinutes,
			apt.Status,
			apt.CreatedBy,
			apt.IncludeTax,
			apt.IncludeCardFee,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&apt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	apt.CreatedAt = createdAt.Time
	apt.UpdatedAt = updatedAt.Time

	// Строки услуг
	for i := range apt.Services {
		line := &apt.Services[i]
		line.AppointmentID = apt.ID
		if err := r.insertServiceLine(ctx, executor, line); err != nil {
			return nil, err
		}
	}

	// Первая запись истории статусов (NEW)
	if err := r.insertStatusHistory(ctx, executor, apt.ID, apt.Status, apt.CreatedBy, apt.CreatedAt); err != nil {
		return nil, err
	}
	apt.StatusHistory = []domain.AppointmentStatusHistory{{
		AppointmentID: apt.ID,
		Status:        apt.Status,
		UpdatedAt:     apt.CreatedAt,
		UpdatedBy:     apt.CreatedBy,
	}}

	return apt, nil
}

// AddServiceLine добавляет строку услуги к существующей записи
// Используется при дозаказе услуг после создания - такие строки всегда
// идут по регулярной цене и помечены is_original = false
func (r *Repository) AddServiceLine(ctx context.Context, line *domain.AppointmentServiceLine) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	return r.insertServiceLine(ctx, executor, line)
}

// GetByUUID получает запись по публичному UUID вместе со строками услуг и историей статусов
// Мягко удалённые записи не возвращаются
func (r *Repository) GetByUUID(ctx context.Context, uid uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"uuid": uid}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUUID - build select query: %v", ErrBuildQuery, err)
	}

	apt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...), "GetByUUID")
	if err != nil {
		return nil, err
	}

	if err := r.loadServiceLines(ctx, executor, apt); err != nil {
		return nil, err
	}
	if err := r.loadStatusHistory(ctx, executor, apt); err != nil {
		return nil, err
	}

	return apt, nil
}

// GetByStylistWithFilter получает записи стилиста с гибкой фильтрацией
// Строки услуг и история статусов не загружаются - список используется
// для расчёта загрузки, поиска конфликтов и выдачи календаря
//
// Если метод вызван внутри транзакции и фильтр ограничен одним днём,
// к запросу добавляется FOR UPDATE (для usecase создания записи)
func (r *Repository) GetByStylistWithFilter(ctx context.Context, filter domain.StylistAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"stylist_id": filter.StylistID}).
		Where("deleted_at IS NULL")

	// Фильтрация по периоду
	if filter.StartFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.StartFrom})
	}
	if filter.StartTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.StartTo})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		// Если не указан конкретный статус и не нужны отменённые - исключаем их
		cancelledStatusStrings := make([]string, len(domain.CancelledStatuses))
		for i, s := range domain.CancelledStatuses {
			cancelledStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": cancelledStatusStrings})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC")

	// Блокировка строк при создании записи (только для однодневного диапазона)
	if dbmetrics.IsInTransaction(ctx) && filter.StartFrom != nil && filter.StartTo != nil {
		if filter.StartTo.Sub(*filter.StartFrom) <= 24*time.Hour {
			selectBuilder = selectBuilder.Suffix("FOR UPDATE")
		}
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStylistWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStylistWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetLastCheckedOutVisit возвращает дату начала последнего checked_out визита
// клиента к стилисту, либо nil если таких визитов не было
func (r *Repository) GetLastCheckedOutVisit(ctx context.Context, stylistID, clientID int64) (*time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("MAX(start_time)").
		From("appointments").
		Where(squirrel.Eq{
			"stylist_id": stylistID,
			"client_id":  clientID,
			"status":     domain.StatusCheckedOut,
		}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetLastCheckedOutVisit - build select query: %v", ErrBuildQuery, err)
	}

	var last sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&last); err != nil {
		return nil, fmt.Errorf("%w: GetLastCheckedOutVisit - scan: %v", ErrScanRow, err)
	}

	if !last.Valid {
		return nil, nil
	}

	return &last.Time, nil
}

// SetStatus обновляет статус записи и добавляет строку в историю статусов
// Оба действия выполняются одним executor'ом - вызывающая сторона обязана
// обернуть вызов в транзакцию, чтобы история и кэшированный статус
// никогда не наблюдались рассогласованными
func (r *Repository) SetStatus(ctx context.Context, appointmentID int64, status domain.AppointmentStatus, actor int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": appointmentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return r.insertStatusHistory(ctx, executor, appointmentID, status, actor, at)
}

// FreezeTotals замораживает четыре итоговые суммы на записи
// Вызывается один раз при checkout внутри той же транзакции, что и SetStatus
func (r *Repository) FreezeTotals(ctx context.Context, appointmentID int64, beforeTax, tax, fee, grand decimal.Decimal) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("total_before_tax", beforeTax).
		Set("total_tax", tax).
		Set("total_card_fee", fee).
		Set("grand_total", grand).
		Where(squirrel.Eq{"id": appointmentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: FreezeTotals - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: FreezeTotals - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: FreezeTotals - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// ListAutoCheckoutCandidates возвращает id записей в статусе NEW,
// начавшихся раньше olderThan (кандидаты для auto-checkout sweep)
// Выборка без блокировки - блокировка берётся по одной строке в LockForCheckout
func (r *Repository) ListAutoCheckoutCandidates(ctx context.Context, olderThan time.Time, limit uint64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("appointments").
		Where(squirrel.Eq{"status": domain.StatusNew}).
		Where(squirrel.Lt{"start_time": olderThan}).
		Where("deleted_at IS NULL").
		OrderBy("start_time ASC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAutoCheckoutCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAutoCheckoutCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListAutoCheckoutCandidates - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAutoCheckoutCandidates - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// LockForCheckout блокирует запись для перевода в checked_out
// Использует FOR UPDATE SKIP LOCKED: если строка уже захвачена конкурентным
// sweep'ом, возвращается ErrAppointmentNotFound и строка пропускается
// Должен вызываться внутри транзакции; строки услуг загружаются вместе с записью
func (r *Repository) LockForCheckout(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: LockForCheckout - build select query: %v", ErrBuildQuery, err)
	}

	apt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...), "LockForCheckout")
	if err != nil {
		return nil, err
	}

	if err := r.loadServiceLines(ctx, executor, apt); err != nil {
		return nil, err
	}

	return apt, nil
}

// SoftDelete помечает запись удалённой (физическое удаление не используется)
func (r *Repository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("deleted_at", at).
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDelete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Вспомогательные методы

func (r *Repository) insertServiceLine(ctx context.Context, executor DBExecutor, line *domain.AppointmentServiceLine) error {
	query, args, err := psqlbuilder.Insert("appointment_services").
		Columns(
			"appointment_id",
			"service_id",
			"name",
			"regular_price",
			"client_price",
			"duration_minutes",
			"is_original",
			"is_price_edited",
		).
		Values(
			line.AppointmentID,
			line.ServiceID,
			line.Name,
			line.RegularPrice,
			line.ClientPrice,
			line.DurationMinutes,
			line.IsOriginal,
			line.IsPriceEdited,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: insertServiceLine - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&line.ID); err != nil {
		return fmt.Errorf("%w: insertServiceLine - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) insertStatusHistory(ctx context.Context, executor DBExecutor, appointmentID int64, status domain.AppointmentStatus, actor int64, at time.Time) error {
	query, args, err := psqlbuilder.Insert("appointment_status_history").
		Columns("appointment_id", "status", "updated_at", "updated_by").
		Values(appointmentID, status, at, actor).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: insertStatusHistory - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertStatusHistory - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) loadServiceLines(ctx context.Context, executor DBExecutor, apt *domain.Appointment) error {
	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"service_id",
		"name",
		"regular_price",
		"client_price",
		"duration_minutes",
		"is_original",
		"is_price_edited",
	).
		From("appointment_services").
		Where(squirrel.Eq{"appointment_id": apt.ID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadServiceLines - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadServiceLines - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	lines := make([]domain.AppointmentServiceLine, 0)
	for rows.Next() {
		var line domain.AppointmentServiceLine
		err := rows.Scan(
			&line.ID,
			&line.AppointmentID,
			&line.ServiceID,
			&line.Name,
			&line.RegularPrice,
			&line.ClientPrice,
			&line.DurationMinutes,
			&line.IsOriginal,
			&line.IsPriceEdited,
		)
		if err != nil {
			return fmt.Errorf("%w: loadServiceLines - scan row: %v", ErrScanRow, err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadServiceLines - rows error: %v", ErrScanRow, err)
	}

	apt.Services = lines
	return nil
}

func (r *Repository) loadStatusHistory(ctx context.Context, executor DBExecutor, apt *domain.Appointment) error {
	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"status",
		"updated_at",
		"updated_by",
	).
		From("appointment_status_history").
		Where(squirrel.Eq{"appointment_id": apt.ID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadStatusHistory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadStatusHistory - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	history := make([]domain.AppointmentStatusHistory, 0)
	for rows.Next() {
		var h domain.AppointmentStatusHistory
		if err := rows.Scan(&h.ID, &h.AppointmentID, &h.Status, &h.UpdatedAt, &h.UpdatedBy); err != nil {
			return fmt.Errorf("%w: loadStatusHistory - scan row: %v", ErrScanRow, err)
		}
		history = append(history, h)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadStatusHistory - rows error: %v", ErrScanRow, err)
	}

	apt.StatusHistory = history
	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanAppointment(row rowScanner, op string) (*domain.Appointment, error) {
	var apt domain.Appointment
	var clientID sql.NullInt64
	var beforeTax, tax, fee, grand decimal.NullDecimal
	var deletedAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&apt.ID,
		&apt.UUID,
		&apt.StylistID,
		&clientID,
		&apt.StartTime,
		&apt.DurationMinutes,
		&apt.Status,
		&apt.CreatedBy,
		&apt.IncludeTax,
		&apt.IncludeCardFee,
		&beforeTax,
		&tax,
		&fee,
		&grand,
		&deletedAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}

	if clientID.Valid {
		apt.ClientID = &clientID.Int64
	}
	apt.TotalBeforeTax = nullDecimalPtr(beforeTax)
	apt.TotalTax = nullDecimalPtr(tax)
	apt.TotalCardFee = nullDecimalPtr(fee)
	apt.GrandTotal = nullDecimalPtr(grand)
	if deletedAt.Valid {
		apt.DeletedAt = &deletedAt.Time
	}
	apt.CreatedAt = createdAt.Time
	apt.UpdatedAt = updatedAt.Time

	return &apt, nil
}

func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		apt, err := r.scanAppointment(rows, "scanAppointments")
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, apt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
