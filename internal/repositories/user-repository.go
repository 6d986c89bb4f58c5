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

type UserRepositoryInterface interface {
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
}

type userRepository struct{ storage *pgxpool.Pool }

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &userRepository{storage: storage}
}

const userFields = `id, fio, email, password, role, section_id`

func (r *userRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	var user entities.User
	err := r.storage.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userFields), id).
		Scan(&user.ID, &user.Fio, &user.Email, &user.Password, &user.Role, &user.SectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.storage.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(email) = LOWER($1)`, userFields), email).
		Scan(&user.ID, &user.Fio, &user.Email, &user.Password, &user.Role, &user.SectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска пользователя по email: %w", err)
	}
	return &user, nil
}
