package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"records-system/internal/entities"
)

// EntryLogItem - строка журнала, обогащённая ФИО актора.
type EntryLogItem struct {
	entities.EntryLog
	ActorFio sql.NullString `db:"actor_fio"`
}

type EntryLogRepositoryInterface interface {
	Create(ctx context.Context, log *entities.EntryLog) error
	FindByEntryID(ctx context.Context, entryID uint64) ([]EntryLogItem, error)
}

type entryLogRepository struct {
	storage *pgxpool.Pool
}

func NewEntryLogRepository(storage *pgxpool.Pool) EntryLogRepositoryInterface {
	return &entryLogRepository{storage: storage}
}

// Create пишет строку журнала вне транзакции основной мутации:
// сбой журнала не должен откатывать уже завершённое действие.
func (r *entryLogRepository) Create(ctx context.Context, log *entities.EntryLog) error {
	query := `
		INSERT INTO entry_logs (entry_id, action, old_data, new_data, note, actor_id, tx_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`
	_, err := r.storage.Exec(ctx, query,
		log.EntryID, log.Action, log.OldData, log.NewData, log.Note, log.ActorID, log.TxID)
	if err != nil {
		return fmt.Errorf("ошибка записи в журнал: %w", err)
	}
	return nil
}

func (r *entryLogRepository) FindByEntryID(ctx context.Context, entryID uint64) ([]EntryLogItem, error) {
	query := `
		SELECT
			l.id, l.entry_id, l.action, l.old_data, l.new_data, l.note, l.actor_id, l.tx_id, l.created_at,
			u.fio AS actor_fio
		FROM entry_logs l
		LEFT JOIN users u ON l.actor_id = u.id
		WHERE l.entry_id = $1
		ORDER BY l.created_at ASC, l.id ASC`

	rows, err := r.storage.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала: %w", err)
	}
	defer rows.Close()

	var items []EntryLogItem
	for rows.Next() {
		var item EntryLogItem
		if err := rows.Scan(
			&item.ID, &item.EntryID, &item.Action, &item.OldData, &item.NewData,
			&item.Note, &item.ActorID, &item.TxID, &item.CreatedAt,
			&item.ActorFio,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки журнала: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
