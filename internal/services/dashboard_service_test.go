package services

import (
	"context"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"records-system/pkg/config"
	"records-system/pkg/types"
	"records-system/pkg/utils"
)

type fakeDashboardRepo struct {
	received       []types.DashboardGroupCount
	forwarded      []types.DashboardGroupCount
	totals         types.DashboardTotals
	lastVisibility sq.Sqlizer
}

func (r *fakeDashboardRepo) GetReceivedPerDay(ctx context.Context, visibility sq.Sqlizer, since time.Time) ([]types.DashboardGroupCount, error) {
	r.lastVisibility = visibility
	return r.received, nil
}

func (r *fakeDashboardRepo) GetForwardedPerDay(ctx context.Context, visibility sq.Sqlizer, since time.Time) ([]types.DashboardGroupCount, error) {
	return r.forwarded, nil
}

func (r *fakeDashboardRepo) GetTotals(ctx context.Context, visibility sq.Sqlizer) (*types.DashboardTotals, error) {
	totals := r.totals
	return &totals, nil
}

func newDashboardEnv(repo *fakeDashboardRepo) DashboardServiceInterface {
	return NewDashboardService(repo, config.DashboardConfig{DefaultDays: 10, MaxDays: 90}, zap.NewNop())
}

func TestDailyCounts(t *testing.T) {
	ctx := context.Background()
	admin := types.Actor{ID: 1, Role: types.RoleAdmin}
	today := time.Now().Format(dateLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(dateLayout)

	repo := &fakeDashboardRepo{
		received: []types.DashboardGroupCount{
			{Day: yesterday, Count: 4},
			{Day: today, Count: 2},
		},
		forwarded: []types.DashboardGroupCount{
			{Day: today, Count: 1},
		},
		totals: types.DashboardTotals{ReceivedTotal: 120, ForwardedTotal: 95},
	}
	svc := newDashboardEnv(repo)

	result, err := svc.DailyCounts(ctx, admin, 10)
	require.NoError(t, err)

	assert.Equal(t, 10, result.Days)
	assert.Len(t, result.PerDay, 10)
	assert.Equal(t, int64(120), result.Lifetime.ReceivedTotal)
	assert.Equal(t, int64(95), result.Lifetime.ForwardedTotal)
	assert.Equal(t, int64(2), result.Today.ReceivedCount)
	assert.Equal(t, int64(1), result.Today.ForwardedCount)

	// Хронологический порядок, последний день — сегодня, пропуски забиты нулями.
	last := result.PerDay[len(result.PerDay)-1]
	assert.Equal(t, today, last.Day)
	assert.Equal(t, int64(2), last.ReceivedCount)
	prev := result.PerDay[len(result.PerDay)-2]
	assert.Equal(t, yesterday, prev.Day)
	assert.Equal(t, int64(4), prev.ReceivedCount)
	assert.Equal(t, int64(0), prev.ForwardedCount)
	assert.Equal(t, int64(0), result.PerDay[0].ReceivedCount)
}

func TestDailyCountsClamping(t *testing.T) {
	ctx := context.Background()
	admin := types.Actor{ID: 1, Role: types.RoleAdmin}
	svc := newDashboardEnv(&fakeDashboardRepo{})

	cases := []struct {
		name string
		in   int
		want int
	}{
		{"ноль даёт значение по умолчанию", 0, 10},
		{"отрицательное даёт значение по умолчанию", -5, 10},
		{"выше потолка обрезается", 365, 90},
		{"в пределах диапазона без изменений", 30, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.DailyCounts(ctx, admin, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Days)
			assert.Len(t, result.PerDay, tc.want)
		})
	}
}

func TestDailyCountsVisibility(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDashboardRepo{}
	svc := newDashboardEnv(repo)

	// Пользователь без секции и без записей получает нули, а не ошибку.
	unaffiliated := types.Actor{ID: 500, Role: types.RoleGeneral}
	result, err := svc.DailyCounts(ctx, unaffiliated, 10)
	require.NoError(t, err)
	assert.NotNil(t, repo.lastVisibility)
	assert.Equal(t, int64(0), result.Lifetime.ReceivedTotal)
	for _, day := range result.PerDay {
		assert.Equal(t, int64(0), day.ReceivedCount)
		assert.Equal(t, int64(0), day.ForwardedCount)
	}

	admin := types.Actor{ID: 1, Role: types.RoleAdmin, SectionID: utils.Ptr(uint64(3))}
	_, err = svc.DailyCounts(ctx, admin, 10)
	require.NoError(t, err)
	assert.Nil(t, repo.lastVisibility)
}
