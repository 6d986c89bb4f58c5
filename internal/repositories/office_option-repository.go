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

type OfficeOptionRepositoryInterface interface {
	GetOfficeOptions(ctx context.Context, activeOnly bool) ([]entities.OfficeOption, error)
	FindOfficeOption(ctx context.Context, id uint64) (*entities.OfficeOption, error)
}

type officeOptionRepository struct{ storage *pgxpool.Pool }

func NewOfficeOptionRepository(storage *pgxpool.Pool) OfficeOptionRepositoryInterface {
	return &officeOptionRepository{storage: storage}
}

func (r *officeOptionRepository) GetOfficeOptions(ctx context.Context, activeOnly bool) ([]entities.OfficeOption, error) {
	query := `SELECT id, name, is_active FROM office_options`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка офисов: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.OfficeOption])
}

func (r *officeOptionRepository) FindOfficeOption(ctx context.Context, id uint64) (*entities.OfficeOption, error) {
	var office entities.OfficeOption
	err := r.storage.QueryRow(ctx,
		`SELECT id, name, is_active FROM office_options WHERE id = $1`, id).
		Scan(&office.ID, &office.Name, &office.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска офиса: %w", err)
	}
	return &office, nil
}
