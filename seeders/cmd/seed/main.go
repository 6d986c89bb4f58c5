package main

import (
	"flag"
	"log"

	"records-system/pkg/config"
	"records-system/pkg/database/postgresql"
	"records-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runDicts := flag.Bool("dictionaries", false, "Наполнить справочники (секции, офисы, точки передачи)")
	runUsers := flag.Bool("users", false, "Создать администратора и базовых пользователей")
	runAll := flag.Bool("all", false, "Запустить все сидеры")

	flag.Parse()

	if !*runDicts && !*runUsers && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -dictionaries")
		log.Println("  go run ./seeders/cmd/seed -all")
		return
	}

	cfg := config.New()

	if err := postgresql.RunMigrations(cfg.Postgres.DSN, "migrations"); err != nil {
		log.Fatalf("❌ Миграции не применились: %v", err)
	}

	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if *runDicts || *runAll {
		seeders.SeedDictionaries(db)
	}
	if *runUsers || *runAll {
		seeders.SeedUsers(db)
	}

	log.Println("======================================================")
	log.Println("🏁 Все выбранные сидеры отработали.")
}
