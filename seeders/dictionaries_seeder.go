package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedDictionaries наполняет справочники: секции, офисы-отправители и
// внешние точки передачи. Повторный запуск безопасен.
func SeedDictionaries(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения справочников...")

	if err := seedSections(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения секций: %v", err)
	}
	if err := seedOfficeOptions(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения офисов: %v", err)
	}
	if err := seedForwardOptions(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения точек передачи: %v", err)
	}

	log.Println("✅ Наполнение справочников завершено!")
}

func seedSections(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Секции...")

	// Секция "Record Section" обязательна: её находит эвристика
	// разрешения секции учёта записей.
	sections := []string{
		"Record Section",
		"Establishment Section",
		"Accounts Section",
		"Planning Section",
		"Law Section",
	}

	for _, name := range sections {
		_, err := db.Exec(ctx,
			`INSERT INTO sections (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
		if err != nil {
			return fmt.Errorf("не удалось вставить секцию %q: %w", name, err)
		}
	}
	return nil
}

func seedOfficeOptions(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Офисы-отправители...")

	offices := []string{
		"Головной офис",
		"Областное управление",
		"Районное отделение",
		"Министерство",
	}

	for _, name := range offices {
		_, err := db.Exec(ctx,
			`INSERT INTO office_options (name, is_active) VALUES ($1, TRUE) ON CONFLICT (name) DO NOTHING`, name)
		if err != nil {
			return fmt.Errorf("не удалось вставить офис %q: %w", name, err)
		}
	}
	return nil
}

func seedForwardOptions(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Внешние точки передачи...")

	options := []string{
		"Головной офис",
		"Архив",
		"Министерство",
	}

	for _, name := range options {
		_, err := db.Exec(ctx,
			`INSERT INTO forward_options (name, is_active) VALUES ($1, TRUE) ON CONFLICT (name) DO NOTHING`, name)
		if err != nil {
			return fmt.Errorf("не удалось вставить точку передачи %q: %w", name, err)
		}
	}
	return nil
}
