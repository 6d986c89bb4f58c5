package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepositoryInterface interface {
	GetForwardedOnDate(ctx context.Context, date time.Time, visibility sq.Sqlizer) ([]EntryRow, error)
}

type reportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{db: db}
}

// GetForwardedOnDate возвращает все записи, пересланные в указанную
// календарную дату, отсортированные по точке назначения — порядок групп
// печатного отчёта определяется здесь.
func (r *reportRepository) GetForwardedOnDate(ctx context.Context, date time.Time, visibility sq.Sqlizer) ([]EntryRow, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	b := psql.Select(entryFields,
		"o.name AS office_name",
		"rs.name AS record_section_name",
		"cs.name AS current_section_name",
		"fwd.fio AS forwarded_by_fio",
		"rcv.fio AS received_by_fio",
	).From("entries e").
		LeftJoin("office_options o ON e.received_from_office_id = o.id").
		LeftJoin("sections rs ON e.record_section_id = rs.id").
		LeftJoin("sections cs ON e.current_section_id = cs.id").
		LeftJoin("users fwd ON e.forwarded_by = fwd.id").
		LeftJoin("users rcv ON e.received_by_user_id = rcv.id").
		Where(sq.GtOrEq{"e.forwarded_at": dayStart}).
		Where(sq.Lt{"e.forwarded_at": dayEnd}).
		OrderBy("e.forward_to_label ASC", "e.forwarded_at ASC", "e.id ASC")

	if visibility != nil {
		b = b.Where(visibility)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса отчёта: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса отчёта: %w", err)
	}
	defer rows.Close()

	items := make([]EntryRow, 0)
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
			return nil, fmt.Errorf("ошибка сканирования строки отчёта: %w", err)
		}
		items = append(items, row)
	}
	return items, rows.Err()
}
