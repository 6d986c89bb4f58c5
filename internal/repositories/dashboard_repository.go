package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"records-system/pkg/types"
)

type DashboardRepositoryInterface interface {
	GetReceivedPerDay(ctx context.Context, visibility sq.Sqlizer, since time.Time) ([]types.DashboardGroupCount, error)
	GetForwardedPerDay(ctx context.Context, visibility sq.Sqlizer, since time.Time) ([]types.DashboardGroupCount, error)
	GetTotals(ctx context.Context, visibility sq.Sqlizer) (*types.DashboardTotals, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

func applyVisibility(b sq.SelectBuilder, visibility sq.Sqlizer) sq.SelectBuilder {
	if visibility != nil {
		return b.Where(visibility)
	}
	return b
}

// GetReceivedPerDay — количество записей, принятых от внешних офисов,
// по дате приёма документа.
func (r *DashboardRepository) GetReceivedPerDay(ctx context.Context, visibility sq.Sqlizer, since time.Time) ([]types.DashboardGroupCount, error) {
	b := sq.Select(
		"to_char(e.received_date, 'YYYY-MM-DD') as day",
		"COUNT(*) as count",
	).From("entries e").
		Where(sq.GtOrEq{"e.received_date": since}).
		GroupBy("e.received_date").
		OrderBy("e.received_date")

	b = applyVisibility(b, visibility)
	query, args, err := b.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[types.DashboardGroupCount])
}

// GetForwardedPerDay — количество пересланных записей по дате пересылки
// (берётся календарная часть forwarded_at).
func (r *DashboardRepository) GetForwardedPerDay(ctx context.Context, visibility sq.Sqlizer, since time.Time) ([]types.DashboardGroupCount, error) {
	b := sq.Select(
		"to_char(date_trunc('day', e.forwarded_at), 'YYYY-MM-DD') as day",
		"COUNT(*) as count",
	).From("entries e").
		Where("e.forwarded_at IS NOT NULL").
		Where(sq.GtOrEq{"e.forwarded_at": since}).
		GroupBy("date_trunc('day', e.forwarded_at)").
		OrderBy("date_trunc('day', e.forwarded_at)")

	b = applyVisibility(b, visibility)
	query, args, err := b.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[types.DashboardGroupCount])
}

// GetTotals — счётчики за всё время: принятых документов (каждая запись
// фиксирует приём) и выполненных пересылок.
func (r *DashboardRepository) GetTotals(ctx context.Context, visibility sq.Sqlizer) (*types.DashboardTotals, error) {
	b := sq.Select(
		"COUNT(*)",
		"COUNT(e.forwarded_at)",
	).From("entries e")

	b = applyVisibility(b, visibility)
	query, args, err := b.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	totals := &types.DashboardTotals{}
	err = r.storage.QueryRow(ctx, query, args...).Scan(&totals.ReceivedTotal, &totals.ForwardedTotal)
	return totals, err
}
