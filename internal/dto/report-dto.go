package dto

// ReportGroupDTO — одна группа печатного отчёта: все записи, пересланные
// в одну точку назначения за отчётную дату. Печатается отдельной страницей.
type ReportGroupDTO struct {
	Destination string     `json:"destination"`
	Count       int        `json:"count"`
	Entries     []EntryDTO `json:"entries"`
}

type ForwardedByDateReportDTO struct {
	Date           string           `json:"date"`
	TotalForwarded int              `json:"total_forwarded"`
	Groups         []ReportGroupDTO `json:"groups"`
}
