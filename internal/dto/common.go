package dto

type ShortSectionDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortUserDTO struct {
	ID  uint64 `json:"id"`
	Fio string `json:"fio"`
}
