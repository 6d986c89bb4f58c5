package authz

import (
	"records-system/internal/entities"
	"records-system/pkg/types"
)

// Чистые предикаты доступа над парой (актор, запись). Никаких побочных
// эффектов и обращений к БД — только сравнение полей.

// CanView: админ и мастер видят всё; остальные — записи своей секции
// (учётной, текущей или секции-назначения) либо записи, где они сами
// создатель, адресат или принявший.
func CanView(actor types.Actor, entry *entities.Entry) bool {
	if actor.Role.IsPrivileged() {
		return true
	}

	if actor.SectionID != nil {
		sectionID := *actor.SectionID
		if sectionID == entry.RecordSectionID || sectionID == entry.CurrentSectionID {
			return true
		}
		if entry.ForwardToSectionID.Valid && entry.ForwardToSectionID.Uint64 == sectionID {
			return true
		}
	}

	if entry.CreatedBy == actor.ID {
		return true
	}
	if entry.ForwardToUserID.Valid && entry.ForwardToUserID.Uint64 == actor.ID {
		return true
	}
	if entry.ReceivedByUserID.Valid && entry.ReceivedByUserID.Uint64 == actor.ID {
		return true
	}

	return false
}

// CanModify: правка разрешена только секции, создавшей запись, и только
// пока запись физически у неё (учётная секция == текущая секция).
// После приёма другой секцией создатель теряет право правки.
func CanModify(actor types.Actor, entry *entities.Entry) bool {
	return actor.InSection(entry.RecordSectionID) && actor.InSection(entry.CurrentSectionID)
}

// CanForward совпадает с CanModify: пересылает только секция-владелец.
func CanForward(actor types.Actor, entry *entities.Entry) bool {
	return CanModify(actor, entry)
}

// CanReceive: запись в статусе forwarded, цель — секция актора, и запись
// ещё не находится в этой секции (секция не может "принять" то, что уже держит).
func CanReceive(actor types.Actor, entry *entities.Entry) bool {
	if entry.Status != entities.StatusForwarded {
		return false
	}
	if actor.SectionID == nil {
		return false
	}
	if !entry.ForwardedToSection(*actor.SectionID) {
		return false
	}
	return entry.CurrentSectionID != *actor.SectionID
}

// CanCreate: создавать записи может только секция учёта записей.
// Проверка строже, чем CanModify: секция назначается Reference Resolver-ом.
func CanCreate(actor types.Actor, recordSectionID uint64) bool {
	return actor.InSection(recordSectionID)
}
