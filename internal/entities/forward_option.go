package entities

// ForwardOption — внешняя ("ручная") точка передачи, не являющаяся секцией.
// Запись, пересланная в такую точку, не может быть принята через систему —
// она остаётся в статусе forwarded намеренно.
type ForwardOption struct {
	ID       uint64 `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}
