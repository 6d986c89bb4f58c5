package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// EntryLog — неизменяемая строка журнала. Создаётся по одной на каждое
// изменяющее действие и никогда не обновляется и не удаляется.
// OldData/NewData — сериализованные снимки записи целиком (для create OldData NULL).
type EntryLog struct {
	ID        uint64      `db:"id" json:"id"`
	EntryID   uint64      `db:"entry_id" json:"entry_id"`
	Action    EntryAction `db:"action" json:"action"`
	OldData   null.String `db:"old_data" json:"old_data,omitempty"`
	NewData   null.String `db:"new_data" json:"new_data,omitempty"`
	Note      null.String `db:"note" json:"note,omitempty"`
	ActorID   uint64      `db:"actor_id" json:"actor_id"`
	TxID      uuid.UUID   `db:"tx_id" json:"tx_id"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}
