package dto

type SectionDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type OfficeOptionDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type ForwardOptionDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}
