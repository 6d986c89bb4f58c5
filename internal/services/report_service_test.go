package services

import (
	"context"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"records-system/internal/entities"
	"records-system/internal/repositories"
	"records-system/pkg/types"
)

type fakeReportRepo struct {
	rows []repositories.EntryRow
}

func (r *fakeReportRepo) GetForwardedOnDate(ctx context.Context, date time.Time, visibility sq.Sqlizer) ([]repositories.EntryRow, error) {
	return r.rows, nil
}

func reportRow(id uint64, label string) repositories.EntryRow {
	return repositories.EntryRow{Entry: entities.Entry{
		ID:               id,
		ReceivedDate:     time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		DiarySlNo:        "2026/100",
		Topic:            "Тема",
		RecordSectionID:  3,
		CurrentSectionID: 3,
		ForwardToLabel:   null.StringFrom(label),
		Status:           entities.StatusForwarded,
	}}
}

func TestForwardedByDate(t *testing.T) {
	ctx := context.Background()
	admin := types.Actor{ID: 1, Role: types.RoleAdmin}

	// Репозиторий отдаёт строки уже отсортированными по точке назначения.
	repo := &fakeReportRepo{rows: []repositories.EntryRow{
		reportRow(1, "Архив"),
		reportRow(2, "Архив"),
		reportRow(3, "Учётная секция"),
		reportRow(4, "Учётная секция"),
		reportRow(5, "Учётная секция"),
	}}
	svc := NewReportService(repo, zap.NewNop())

	report, err := svc.ForwardedByDate(ctx, admin, "2026-08-20")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-20", report.Date)
	assert.Equal(t, 5, report.TotalForwarded)
	require.Len(t, report.Groups, 2)

	assert.Equal(t, "Архив", report.Groups[0].Destination)
	assert.Equal(t, 2, report.Groups[0].Count)
	require.Len(t, report.Groups[0].Entries, 2)
	assert.Equal(t, uint64(1), report.Groups[0].Entries[0].ID)

	assert.Equal(t, "Учётная секция", report.Groups[1].Destination)
	assert.Equal(t, 3, report.Groups[1].Count)
}

func TestForwardedByDateEmpty(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(&fakeReportRepo{}, zap.NewNop())

	report, err := svc.ForwardedByDate(ctx, types.Actor{ID: 1, Role: types.RoleAdmin}, "2026-08-21")
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalForwarded)
	assert.Empty(t, report.Groups)
}

func TestForwardedByDateBadInput(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(&fakeReportRepo{}, zap.NewNop())

	_, err := svc.ForwardedByDate(ctx, types.Actor{ID: 1, Role: types.RoleAdmin}, "20-08-2026")
	requireHTTPCode(t, err, 400)
}
