package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Статусы записи. StatusReceived зарезервирован схемой: при создании запись
// сразу получает цель пересылки, поэтому обычный поток его не порождает.
type EntryStatus string

const (
	StatusReceived        EntryStatus = "received"
	StatusForwarded       EntryStatus = "forwarded"
	StatusForwardReceived EntryStatus = "forward_received"
)

// Действия над записью. Каждое действие порождает ровно одну строку журнала.
type EntryAction string

const (
	ActionCreate  EntryAction = "create"
	ActionUpdate  EntryAction = "update"
	ActionForward EntryAction = "forward"
	ActionReceive EntryAction = "receive"
)

// Тип цели пересылки: секция организации либо внешняя ("ручная") точка.
type ForwardToType string

const (
	ForwardToSection ForwardToType = "section"
	ForwardToCustom  ForwardToType = "custom"
)

// transitions — единственное место, где закреплена машина состояний:
// (текущий статус × действие) → следующий статус. Всё, чего здесь нет,
// отклоняется до каких-либо записей в БД.
// Пустой статус означает "запись ещё не существует".
var transitions = map[EntryAction]map[EntryStatus]EntryStatus{
	ActionCreate: {
		EntryStatus(""): StatusForwarded,
	},
	ActionUpdate: {
		StatusForwarded: StatusForwarded,
	},
	ActionForward: {
		StatusForwarded: StatusForwarded,
	},
	ActionReceive: {
		StatusForwarded: StatusForwardReceived,
	},
}

// NextStatus возвращает статус после применения действия
// и false, если переход недопустим.
func NextStatus(current EntryStatus, action EntryAction) (EntryStatus, bool) {
	byStatus, ok := transitions[action]
	if !ok {
		return "", false
	}
	next, ok := byStatus[current]
	return next, ok
}

// Entry — одна запись о движении документа между секциями.
// RecordSectionID неизменен после создания; CurrentSectionID меняется
// только при приёме (receive).
type Entry struct {
	ID uint64 `db:"id" json:"id"`

	// Происхождение документа
	ReceivedFromOfficeID uint64      `db:"received_from_office_id" json:"received_from_office_id"`
	ReceivedDate         time.Time   `db:"received_date" json:"received_date"`
	DiarySlNo            string      `db:"diary_sl_no" json:"diary_sl_no"`
	MemoNo               null.String `db:"memo_no" json:"memo_no,omitempty"`
	MemoDate             null.Time   `db:"memo_date" json:"memo_date,omitempty"`
	Topic                string      `db:"topic" json:"topic"`

	// Текущее местоположение
	RecordSectionID  uint64 `db:"record_section_id" json:"record_section_id"`
	CurrentSectionID uint64 `db:"current_section_id" json:"current_section_id"`

	// Цель пересылки: ровно один из SectionID/CustomID после первой пересылки.
	// Label денормализована, чтобы отчёты переживали деактивацию справочника.
	ForwardToType      null.String `db:"forward_to_type" json:"forward_to_type,omitempty"`
	ForwardToSectionID null.Uint64 `db:"forward_to_section_id" json:"forward_to_section_id,omitempty"`
	ForwardToCustomID  null.Uint64 `db:"forward_to_custom_id" json:"forward_to_custom_id,omitempty"`
	ForwardToLabel     null.String `db:"forward_to_label" json:"forward_to_label,omitempty"`

	ForwardedBy      null.Uint64 `db:"forwarded_by" json:"forwarded_by,omitempty"`
	ForwardedAt      null.Time   `db:"forwarded_at" json:"forwarded_at,omitempty"`
	ForwardToUserID  null.Uint64 `db:"forward_to_user_id" json:"forward_to_user_id,omitempty"` // зарезервировано, всегда NULL
	ReceivedByUserID null.Uint64 `db:"received_by_user_id" json:"received_by_user_id,omitempty"`
	ReceivedAt       null.Time   `db:"received_at" json:"received_at,omitempty"`

	Status EntryStatus `db:"status" json:"status"`

	CreatedBy uint64    `db:"created_by" json:"created_by"`
	UpdatedBy uint64    `db:"updated_by" json:"updated_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ForwardedToSection сообщает, переслана ли запись в секцию с данным id.
func (e *Entry) ForwardedToSection(sectionID uint64) bool {
	return e.ForwardToType.Valid &&
		ForwardToType(e.ForwardToType.String) == ForwardToSection &&
		e.ForwardToSectionID.Valid &&
		e.ForwardToSectionID.Uint64 == sectionID
}
