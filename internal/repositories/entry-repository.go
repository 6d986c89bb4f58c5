package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"records-system/internal/dto"
	"records-system/internal/entities"
	apperrors "records-system/pkg/errors"
)

// EntryRow - запись, обогащённая именами справочников для выдачи клиенту.
type EntryRow struct {
	entities.Entry
	OfficeName         sql.NullString
	RecordSectionName  sql.NullString
	CurrentSectionName sql.NullString
	ForwardedByFio     sql.NullString
	ReceivedByFio      sql.NullString
}

type EntryRepositoryInterface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	CreateEntryInTx(ctx context.Context, tx pgx.Tx, entry *entities.Entry) (uint64, error)
	FindEntry(ctx context.Context, id uint64) (*EntryRow, error)
	FindEntryForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Entry, error)
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry *entities.Entry) error
	ListEntries(ctx context.Context, filter dto.EntryFilterDTO, visibility sq.Sqlizer) ([]EntryRow, uint64, error)
}

type entryRepository struct {
	storage *pgxpool.Pool
}

func NewEntryRepository(storage *pgxpool.Pool) EntryRepositoryInterface {
	return &entryRepository{storage: storage}
}

func (r *entryRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.storage.Begin(ctx)
}

const entryFields = `e.id, e.received_from_office_id, e.received_date, e.diary_sl_no,
	e.memo_no, e.memo_date, e.topic, e.record_section_id, e.current_section_id,
	e.forward_to_type, e.forward_to_section_id, e.forward_to_custom_id, e.forward_to_label,
	e.forwarded_by, e.forwarded_at, e.forward_to_user_id, e.received_by_user_id, e.received_at,
	e.status, e.created_by, e.updated_by, e.created_at, e.updated_at`

func scanEntry(row pgx.Row, e *entities.Entry) error {
	return row.Scan(
		&e.ID, &e.ReceivedFromOfficeID, &e.ReceivedDate, &e.DiarySlNo,
		&e.MemoNo, &e.MemoDate, &e.Topic, &e.RecordSectionID, &e.CurrentSectionID,
		&e.ForwardToType, &e.ForwardToSectionID, &e.ForwardToCustomID, &e.ForwardToLabel,
		&e.ForwardedBy, &e.ForwardedAt, &e.ForwardToUserID, &e.ReceivedByUserID, &e.ReceivedAt,
		&e.Status, &e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
}

func (r *entryRepository) CreateEntryInTx(ctx context.Context, tx pgx.Tx, entry *entities.Entry) (uint64, error) {
	query := `
		INSERT INTO entries (
			received_from_office_id, received_date, diary_sl_no, memo_no, memo_date, topic,
			record_section_id, current_section_id,
			forward_to_type, forward_to_section_id, forward_to_custom_id, forward_to_label,
			forwarded_by, forwarded_at, received_by_user_id, received_at,
			status, created_by, updated_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW(), NOW())
		RETURNING id`

	var newID uint64
	err := tx.QueryRow(ctx, query,
		entry.ReceivedFromOfficeID, entry.ReceivedDate, entry.DiarySlNo, entry.MemoNo, entry.MemoDate, entry.Topic,
		entry.RecordSectionID, entry.CurrentSectionID,
		entry.ForwardToType, entry.ForwardToSectionID, entry.ForwardToCustomID, entry.ForwardToLabel,
		entry.ForwardedBy, entry.ForwardedAt, entry.ReceivedByUserID, entry.ReceivedAt,
		entry.Status, entry.CreatedBy, entry.UpdatedBy,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания записи: %w", err)
	}
	return newID, nil
}

func (r *entryRepository) FindEntry(ctx context.Context, id uint64) (*EntryRow, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			o.name AS office_name,
			rs.name AS record_section_name,
			cs.name AS current_section_name,
			fwd.fio AS forwarded_by_fio,
			rcv.fio AS received_by_fio
		FROM entries e
		LEFT JOIN office_options o ON e.received_from_office_id = o.id
		LEFT JOIN sections rs ON e.record_section_id = rs.id
		LEFT JOIN sections cs ON e.current_section_id = cs.id
		LEFT JOIN users fwd ON e.forwarded_by = fwd.id
		LEFT JOIN users rcv ON e.received_by_user_id = rcv.id
		WHERE e.id = $1`, entryFields)

	var row EntryRow
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&row.ID, &row.ReceivedFromOfficeID, &row.ReceivedDate, &row.DiarySlNo,
		&row.MemoNo, &row.MemoDate, &row.Topic, &row.RecordSectionID, &row.CurrentSectionID,
		&row.ForwardToType, &row.ForwardToSectionID, &row.ForwardToCustomID, &row.ForwardToLabel,
		&row.ForwardedBy, &row.ForwardedAt, &row.ForwardToUserID, &row.ReceivedByUserID, &row.ReceivedAt,
		&row.Status, &row.CreatedBy, &row.UpdatedBy, &row.CreatedAt, &row.UpdatedAt,
		&row.OfficeName, &row.RecordSectionName, &row.CurrentSectionName,
		&row.ForwardedByFio, &row.ReceivedByFio,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
	}
	return &row, nil
}

// FindEntryForUpdateInTx блокирует строку на время транзакции: проигравший
// конкурентный писатель дождётся коммита и увидит уже новое состояние.
func (r *entryRepository) FindEntryForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM entries e WHERE e.id = $1 FOR UPDATE`, entryFields)

	var entry entities.Entry
	if err := scanEntry(tx.QueryRow(ctx, query, id), &entry); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("не удалось найти запись для обновления: %w", err)
	}
	return &entry, nil
}

// SaveEntryInTx записывает все изменяемые колонки. record_section_id и created_by
// намеренно отсутствуют в SET: они неизменны после создания.
func (r *entryRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry *entities.Entry) error {
	query := `
		UPDATE entries SET
			received_from_office_id = $1, received_date = $2, diary_sl_no = $3,
			memo_no = $4, memo_date = $5, topic = $6,
			current_section_id = $7,
			forward_to_type = $8, forward_to_section_id = $9, forward_to_custom_id = $10, forward_to_label = $11,
			forwarded_by = $12, forwarded_at = $13, forward_to_user_id = $14,
			received_by_user_id = $15, received_at = $16,
			status = $17, updated_by = $18, updated_at = NOW()
		WHERE id = $19`

	tag, err := tx.Exec(ctx, query,
		entry.ReceivedFromOfficeID, entry.ReceivedDate, entry.DiarySlNo,
		entry.MemoNo, entry.MemoDate, entry.Topic,
		entry.CurrentSectionID,
		entry.ForwardToType, entry.ForwardToSectionID, entry.ForwardToCustomID, entry.ForwardToLabel,
		entry.ForwardedBy, entry.ForwardedAt, entry.ForwardToUserID,
		entry.ReceivedByUserID, entry.ReceivedAt,
		entry.Status, entry.UpdatedBy, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *entryRepository) ListEntries(ctx context.Context, filter dto.EntryFilterDTO, visibility sq.Sqlizer) ([]EntryRow, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().
		From("entries e").
		LeftJoin("office_options o ON e.received_from_office_id = o.id").
		LeftJoin("sections rs ON e.record_section_id = rs.id").
		LeftJoin("sections cs ON e.current_section_id = cs.id").
		LeftJoin("users fwd ON e.forwarded_by = fwd.id").
		LeftJoin("users rcv ON e.received_by_user_id = rcv.id")

	if visibility != nil {
		base = base.Where(visibility)
	}
	if filter.Status != "" {
		base = base.Where(sq.Eq{"e.status": filter.Status})
	}
	if filter.SectionID != 0 {
		base = base.Where(sq.Or{
			sq.Eq{"e.current_section_id": filter.SectionID},
			sq.Eq{"e.forward_to_section_id": filter.SectionID},
		})
	}
	if filter.Search != "" {
		base = base.Where(sq.Or{
			sq.ILike{"e.topic": "%" + filter.Search + "%"},
			sq.ILike{"e.diary_sl_no": "%" + filter.Search + "%"},
			sq.ILike{"e.forward_to_label": "%" + filter.Search + "%"},
		})
	}

	countQuery, countArgs, err := base.Columns("COUNT(e.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки COUNT-запроса: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта записей: %w", err)
	}
	if total == 0 {
		return []EntryRow{}, 0, nil
	}

	mainBuilder := base.Columns(entryFields,
		"o.name AS office_name",
		"rs.name AS record_section_name",
		"cs.name AS current_section_name",
		"fwd.fio AS forwarded_by_fio",
		"rcv.fio AS received_by_fio",
	).OrderBy("e.created_at DESC, e.id DESC")

	if filter.Limit > 0 {
		mainBuilder = mainBuilder.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := mainBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка записей: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка записей: %w", err)
	}
	defer rows.Close()

	entryRows := make([]EntryRow, 0)
	for rows.Next() {
		var row EntryRow
		err := rows.Scan(
			&row.ID, &row.ReceivedFromOfficeID, &row.ReceivedDate, &row.DiarySlNo,
			&row.MemoNo, &row.MemoDate, &row.Topic, &row.RecordSectionID, &row.CurrentSectionID,
			&row.ForwardToType, &row.ForwardToSectionID, &row.ForwardToCustomID, &row.ForwardToLabel,
			&row.ForwardedBy, &row.ForwardedAt, &row.ForwardToUserID, &row.ReceivedByUserID, &row.ReceivedAt,
			&row.Status, &row.CreatedBy, &row.UpdatedBy, &row.CreatedAt, &row.UpdatedAt,
			&row.OfficeName, &row.RecordSectionName, &row.CurrentSectionName,
			&row.ForwardedByFio, &row.ReceivedByFio,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования записи в списке: %w", err)
		}
		entryRows = append(entryRows, row)
	}
	return entryRows, total, rows.Err()
}
