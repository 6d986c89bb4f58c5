package entities

// Section — организационная секция. Справочник, которым владеет внешняя
// подсистема; ядро только читает его.
type Section struct {
	ID   uint64 `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
