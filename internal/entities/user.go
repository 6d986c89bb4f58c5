package entities

import (
	"github.com/aarondl/null/v8"

	"records-system/pkg/types"
)

// User нужен только слою аутентификации и сидерам;
// ядро работает с types.Actor.
type User struct {
	ID        uint64      `db:"id" json:"id"`
	Fio       string      `db:"fio" json:"fio"`
	Email     string      `db:"email" json:"email"`
	Password  string      `db:"password" json:"-"`
	Role      types.Role  `db:"role" json:"role"`
	SectionID null.Uint64 `db:"section_id" json:"section_id,omitempty"`
}

func (u *User) Actor() types.Actor {
	actor := types.Actor{ID: u.ID, Role: u.Role}
	if u.SectionID.Valid {
		sectionID := u.SectionID.Uint64
		actor.SectionID = &sectionID
	}
	return actor
}
