package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"records-system/pkg/utils"
)

type seedUser struct {
	Fio         string
	Email       string
	Password    string
	Role        string
	SectionName string // пусто для пользователей без секции
}

// SeedUsers создаёт администратора и по одному сотруднику в каждой
// базовой секции. Существующие пользователи не трогаются.
func SeedUsers(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск создания пользователей...")

	users := []seedUser{
		{Fio: "Администратор системы", Email: "admin@records.local", Password: "admin12345", Role: "admin"},
		{Fio: "Делопроизводитель", Email: "record@records.local", Password: "record12345", Role: "general", SectionName: "Record Section"},
		{Fio: "Сотрудник кадров", Email: "establishment@records.local", Password: "est12345", Role: "general", SectionName: "Establishment Section"},
		{Fio: "Бухгалтер", Email: "accounts@records.local", Password: "acc12345", Role: "general", SectionName: "Accounts Section"},
	}

	for _, u := range users {
		if err := seedUserRow(ctx, db, u); err != nil {
			log.Fatalf("❌ Ошибка создания пользователя %s: %v", u.Email, err)
		}
	}

	log.Println("✅ Создание пользователей завершено!")
}

func seedUserRow(ctx context.Context, db *pgxpool.Pool, u seedUser) error {
	var existingID uint64
	err := db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, u.Email).Scan(&existingID)
	if err == nil {
		log.Printf("    - Пользователь %s уже существует. Пропускаем.", u.Email)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка проверки существования пользователя: %w", err)
	}

	var sectionID *uint64
	if u.SectionName != "" {
		var id uint64
		if err := db.QueryRow(ctx, `SELECT id FROM sections WHERE name = $1`, u.SectionName).Scan(&id); err != nil {
			return fmt.Errorf("секция %q не найдена, сначала запустите сидер справочников: %w", u.SectionName, err)
		}
		sectionID = &id
	}

	hash, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx,
		`INSERT INTO users (fio, email, password, role, section_id) VALUES ($1, $2, $3, $4, $5)`,
		u.Fio, u.Email, hash, u.Role, sectionID)
	if err != nil {
		return fmt.Errorf("не удалось вставить пользователя: %w", err)
	}

	log.Printf("    - Пользователь %s создан.", u.Email)
	return nil
}
