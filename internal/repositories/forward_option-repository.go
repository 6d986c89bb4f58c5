package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"records-system/internal/entities"
	apperrors "records-system/pkg/errors"
)

type ForwardOptionRepositoryInterface interface {
	GetForwardOptions(ctx context.Context, activeOnly bool) ([]entities.ForwardOption, error)
	FindForwardOption(ctx context.Context, id uint64) (*entities.ForwardOption, error)
}

type forwardOptionRepository struct{ storage *pgxpool.Pool }

func NewForwardOptionRepository(storage *pgxpool.Pool) ForwardOptionRepositoryInterface {
	return &forwardOptionRepository{storage: storage}
}

func (r *forwardOptionRepository) GetForwardOptions(ctx context.Context, activeOnly bool) ([]entities.ForwardOption, error) {
	query := `SELECT id, name, is_active FROM forward_options`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка точек передачи: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.ForwardOption])
}

func (r *forwardOptionRepository) FindForwardOption(ctx context.Context, id uint64) (*entities.ForwardOption, error) {
	var option entities.ForwardOption
	err := r.storage.QueryRow(ctx,
		`SELECT id, name, is_active FROM forward_options WHERE id = $1`, id).
		Scan(&option.ID, &option.Name, &option.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска точки передачи: %w", err)
	}
	return &option, nil
}
