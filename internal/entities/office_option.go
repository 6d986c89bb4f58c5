package entities

// OfficeOption — внешний офис-отправитель документа.
type OfficeOption struct {
	ID       uint64 `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}
