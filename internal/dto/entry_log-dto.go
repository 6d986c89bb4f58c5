package dto

type EntryLogDTO struct {
	ID        uint64       `json:"id"`
	EntryID   uint64       `json:"entry_id"`
	Action    string       `json:"action"`
	OldData   string       `json:"old_data,omitempty"`
	NewData   string       `json:"new_data,omitempty"`
	Note      string       `json:"note,omitempty"`
	Actor     ShortUserDTO `json:"actor"`
	TxID      string       `json:"tx_id"`
	CreatedAt string       `json:"created_at"`
}
