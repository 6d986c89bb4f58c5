package types

// DashboardDayCount — счётчики за один календарный день.
type DashboardDayCount struct {
	Day            string `json:"day" db:"day"`
	ReceivedCount  int64  `json:"received_count" db:"received_count"`
	ForwardedCount int64  `json:"forwarded_count" db:"forwarded_count"`
}

// DashboardTotals — счётчики за всё время в рамках видимости актора.
type DashboardTotals struct {
	ReceivedTotal  int64 `json:"received_total"`
	ForwardedTotal int64 `json:"forwarded_total"`
}

type DashboardGroupCount struct {
	Day   string `json:"day" db:"day"`
	Count int64  `json:"count" db:"count"`
}
