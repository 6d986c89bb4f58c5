package types

// Role — роль актора, уже разрешённая слоем аутентификации.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleMaster  Role = "master"
	RoleGeneral Role = "general"
)

func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleMaster
}

// Actor — фиксированная форма аутентифицированного пользователя на границе ядра.
// Вся логика нечётких полей (имя/email/username) остаётся в слое аутентификации.
type Actor struct {
	ID        uint64  `json:"id"`
	Role      Role    `json:"role"`
	SectionID *uint64 `json:"section_id,omitempty"`
}

// InSection сообщает, принадлежит ли актор секции с данным id.
func (a Actor) InSection(sectionID uint64) bool {
	return a.SectionID != nil && *a.SectionID == sectionID
}
