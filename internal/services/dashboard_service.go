package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"records-system/internal/authz"
	"records-system/internal/dto"
	"records-system/internal/repositories"
	"records-system/pkg/config"
	"records-system/pkg/types"
)

type DashboardServiceInterface interface {
	DailyCounts(ctx context.Context, actor types.Actor, days int) (*dto.DailyCountsDTO, error)
}

type dashboardService struct {
	dashboardRepo repositories.DashboardRepositoryInterface
	cfg           config.DashboardConfig
	logger        *zap.Logger
}

func NewDashboardService(
	dashboardRepo repositories.DashboardRepositoryInterface,
	cfg config.DashboardConfig,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &dashboardService{dashboardRepo: dashboardRepo, cfg: cfg, logger: logger}
}

// DailyCounts собирает счётчики панели тремя независимыми запросами
// параллельно. Видимость актора применяется к каждому запросу, поэтому
// пользователь без секции и без собственных записей получает нули, а не ошибку.
// days вне диапазона приводится к значению по умолчанию либо к потолку.
func (s *dashboardService) DailyCounts(ctx context.Context, actor types.Actor, days int) (*dto.DailyCountsDTO, error) {
	if days <= 0 {
		days = s.cfg.DefaultDays
	}
	if days > s.cfg.MaxDays {
		days = s.cfg.MaxDays
	}

	visibility := authz.VisibilityCondition(actor, "e")

	now := time.Now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(days - 1))

	var (
		wg                     sync.WaitGroup
		received, forwarded    []types.DashboardGroupCount
		totals                 *types.DashboardTotals
		errRcv, errFwd, errTot error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		received, errRcv = s.dashboardRepo.GetReceivedPerDay(ctx, visibility, since)
	}()
	go func() {
		defer wg.Done()
		forwarded, errFwd = s.dashboardRepo.GetForwardedPerDay(ctx, visibility, since)
	}()
	go func() {
		defer wg.Done()
		totals, errTot = s.dashboardRepo.GetTotals(ctx, visibility)
	}()
	wg.Wait()

	for _, err := range []error{errRcv, errFwd, errTot} {
		if err != nil {
			s.logger.Error("сбой сбора счётчиков панели", zap.Error(err))
			return nil, err
		}
	}

	receivedByDay := make(map[string]int64, len(received))
	for _, g := range received {
		receivedByDay[g.Day] = g.Count
	}
	forwardedByDay := make(map[string]int64, len(forwarded))
	for _, g := range forwarded {
		forwardedByDay[g.Day] = g.Count
	}

	// Пропущенные дни заполняются нулями: клиент рисует непрерывный график.
	perDay := make([]types.DashboardDayCount, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format(dateLayout)
		perDay = append(perDay, types.DashboardDayCount{
			Day:            day,
			ReceivedCount:  receivedByDay[day],
			ForwardedCount: forwardedByDay[day],
		})
	}

	today := now.Format(dateLayout)
	return &dto.DailyCountsDTO{
		Today: types.DashboardDayCount{
			Day:            today,
			ReceivedCount:  receivedByDay[today],
			ForwardedCount: forwardedByDay[today],
		},
		Lifetime: *totals,
		PerDay:   perDay,
		Days:     days,
	}, nil
}
