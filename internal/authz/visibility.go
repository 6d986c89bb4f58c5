package authz

import (
	sq "github.com/Masterminds/squirrel"

	"records-system/pkg/types"
)

// VisibilityCondition строит SQL-условие видимости для списков и агрегатов:
// те же правила, что в CanView, но в виде sq.Sqlizer, вкалываемого в WHERE.
// Для админа и мастера возвращает nil — фильтрация не нужна.
// alias — псевдоним таблицы entries в запросе (обычно "e").
func VisibilityCondition(actor types.Actor, alias string) sq.Sqlizer {
	if actor.Role.IsPrivileged() {
		return nil
	}

	var orPreds []sq.Sqlizer

	if actor.SectionID != nil {
		sectionID := *actor.SectionID
		orPreds = append(orPreds,
			sq.Eq{alias + ".record_section_id": sectionID},
			sq.Eq{alias + ".current_section_id": sectionID},
			sq.Eq{alias + ".forward_to_section_id": sectionID},
		)
	}

	orPreds = append(orPreds,
		sq.Eq{alias + ".created_by": actor.ID},
		sq.Eq{alias + ".forward_to_user_id": actor.ID},
		sq.Eq{alias + ".received_by_user_id": actor.ID},
	)

	return sq.Or(orPreds)
}
