package dto

import "records-system/pkg/types"

// DailyCountsDTO — счётчики для оперативной панели: сегодня, за всё время
// и по дням за последние N дней.
type DailyCountsDTO struct {
	Today    types.DashboardDayCount   `json:"today"`
	Lifetime types.DashboardTotals     `json:"lifetime"`
	PerDay   []types.DashboardDayCount `json:"per_day"`
	Days     int                       `json:"days"`
}
