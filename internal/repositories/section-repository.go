package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"records-system/internal/entities"
	apperrors "records-system/pkg/errors"
)

type SectionRepositoryInterface interface {
	GetSections(ctx context.Context) ([]entities.Section, error)
	FindSection(ctx context.Context, id uint64) (*entities.Section, error)
	FindByName(ctx context.Context, name string) (*entities.Section, error)
	FindRecordLike(ctx context.Context) (*entities.Section, error)
}

type sectionRepository struct{ storage *pgxpool.Pool }

func NewSectionRepository(storage *pgxpool.Pool) SectionRepositoryInterface {
	return &sectionRepository{storage: storage}
}

func (r *sectionRepository) GetSections(ctx context.Context) ([]entities.Section, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name FROM sections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка секций: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.Section])
}

func (r *sectionRepository) FindSection(ctx context.Context, id uint64) (*entities.Section, error) {
	var section entities.Section
	err := r.storage.QueryRow(ctx, `SELECT id, name FROM sections WHERE id = $1`, id).
		Scan(&section.ID, &section.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска секции: %w", err)
	}
	return &section, nil
}

// FindByName — точное совпадение без учёта регистра.
func (r *sectionRepository) FindByName(ctx context.Context, name string) (*entities.Section, error) {
	var section entities.Section
	err := r.storage.QueryRow(ctx,
		`SELECT id, name FROM sections WHERE LOWER(name) = LOWER($1)`, strings.TrimSpace(name)).
		Scan(&section.ID, &section.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска секции по имени: %w", err)
	}
	return &section, nil
}

// FindRecordLike — эвристика: секция, нормализованное имя которой равно
// "record" или содержит его. Точное совпадение предпочтительнее.
func (r *sectionRepository) FindRecordLike(ctx context.Context) (*entities.Section, error) {
	var section entities.Section
	err := r.storage.QueryRow(ctx, `
		SELECT id, name FROM sections
		WHERE LOWER(TRIM(name)) LIKE '%record%'
		ORDER BY (LOWER(TRIM(name)) = 'record') DESC, id
		LIMIT 1`).
		Scan(&section.ID, &section.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка эвристического поиска секции учёта: %w", err)
	}
	return &section, nil
}
