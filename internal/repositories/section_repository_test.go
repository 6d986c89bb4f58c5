package repositories

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Интеграционные тесты репозиториев ходят в реальный Postgres.
// Запуск: TEST_DATABASE_URL=postgres://... go test ./internal/repositories/
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан, пропускаем интеграционный тест")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestSectionRepositoryIntegration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewSectionRepository(pool)

	name := fmt.Sprintf("Test Record Section %d", time.Now().UnixNano())
	var id uint64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO sections (name) VALUES ($1) RETURNING id`, name).Scan(&id))
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	})

	t.Run("поиск по id", func(t *testing.T) {
		section, err := repo.FindSection(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, name, section.Name)
	})

	t.Run("поиск по имени без учёта регистра", func(t *testing.T) {
		section, err := repo.FindByName(ctx, "  "+name+" ")
		require.NoError(t, err)
		assert.Equal(t, id, section.ID)
	})

	t.Run("эвристика находит секцию со словом record", func(t *testing.T) {
		section, err := repo.FindRecordLike(ctx)
		require.NoError(t, err)
		assert.Contains(t, strings.ToLower(section.Name), "record")
	})

	t.Run("список содержит созданную секцию", func(t *testing.T) {
		sections, err := repo.GetSections(ctx)
		require.NoError(t, err)
		found := false
		for _, s := range sections {
			if s.ID == id {
				found = true
			}
		}
		assert.True(t, found)
	})
}
