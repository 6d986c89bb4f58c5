package dto

// ForwardTargetDTO — цель пересылки: секция либо внешняя точка.
// Ровно одно из SectionID/CustomID должно быть заполнено.
type ForwardTargetDTO struct {
	Type      string  `json:"type" validate:"required,oneof=section custom"`
	SectionID *uint64 `json:"section_id,omitempty"`
	CustomID  *uint64 `json:"custom_id,omitempty"`
}

type CreateEntryDTO struct {
	ReceivedFromOfficeID uint64            `json:"received_from_office_id" validate:"required"`
	ReceivedDate         string            `json:"received_date" validate:"required,datetime=2006-01-02"`
	DiarySlNo            string            `json:"diary_sl_no" validate:"required"`
	MemoNo               *string           `json:"memo_no,omitempty"`
	MemoDate             *string           `json:"memo_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Topic                string            `json:"topic" validate:"required"`
	ForwardTo            ForwardTargetDTO  `json:"forward_to" validate:"required"`
	Note                 *string           `json:"note,omitempty"`
}

// UpdateEntryDTO — частичная правка полей происхождения/темы.
// Если указана новая цель пересылки, вызов дополнительно ведёт себя как forward.
type UpdateEntryDTO struct {
	ReceivedFromOfficeID *uint64           `json:"received_from_office_id,omitempty"`
	ReceivedDate         *string           `json:"received_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DiarySlNo            *string           `json:"diary_sl_no,omitempty"`
	MemoNo               *string           `json:"memo_no,omitempty"`
	MemoDate             *string           `json:"memo_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Topic                *string           `json:"topic,omitempty"`
	ForwardTo            *ForwardTargetDTO `json:"forward_to,omitempty"`
	Note                 *string           `json:"note,omitempty"`
}

type ForwardEntryDTO struct {
	ForwardTo ForwardTargetDTO `json:"forward_to" validate:"required"`
	Note      *string          `json:"note,omitempty"`
}

// EntryDTO — представление записи для клиента с разрешёнными именами справочников.
type EntryDTO struct {
	ID                 uint64           `json:"id"`
	ReceivedFromOffice ShortSectionDTO  `json:"received_from_office"`
	ReceivedDate       string           `json:"received_date"`
	DiarySlNo          string           `json:"diary_sl_no"`
	MemoNo             string           `json:"memo_no,omitempty"`
	MemoDate           string           `json:"memo_date,omitempty"`
	Topic              string           `json:"topic"`
	RecordSection      ShortSectionDTO  `json:"record_section"`
	CurrentSection     ShortSectionDTO  `json:"current_section"`
	ForwardToType      string           `json:"forward_to_type,omitempty"`
	ForwardToSectionID *uint64          `json:"forward_to_section_id,omitempty"`
	ForwardToCustomID  *uint64          `json:"forward_to_custom_id,omitempty"`
	ForwardToLabel     string           `json:"forward_to_label,omitempty"`
	ForwardedBy        *ShortUserDTO    `json:"forwarded_by,omitempty"`
	ForwardedAt        string           `json:"forwarded_at,omitempty"`
	ReceivedBy         *ShortUserDTO    `json:"received_by,omitempty"`
	ReceivedAt         string           `json:"received_at,omitempty"`
	Status             string           `json:"status"`
	CreatedBy          uint64           `json:"created_by"`
	CreatedAt          string           `json:"created_at"`
	UpdatedAt          string           `json:"updated_at"`
}

// EntryFilterDTO — фильтры списка записей.
type EntryFilterDTO struct {
	Status    string
	SectionID uint64
	Search    string
	Limit     uint64
	Offset    uint64
}
