package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"records-system/internal/dto"
	"records-system/internal/repositories"
	"records-system/pkg/api"
)

// ReferenceController отдаёт справочники для форм: секции, офисы-отправители
// и внешние точки передачи. По умолчанию возвращаются только активные строки;
// all=true показывает и деактивированные (для административных экранов).
type ReferenceController struct {
	sectionRepo       repositories.SectionRepositoryInterface
	officeRepo        repositories.OfficeOptionRepositoryInterface
	forwardOptionRepo repositories.ForwardOptionRepositoryInterface
	logger            *zap.Logger
}

func NewReferenceController(
	sectionRepo repositories.SectionRepositoryInterface,
	officeRepo repositories.OfficeOptionRepositoryInterface,
	forwardOptionRepo repositories.ForwardOptionRepositoryInterface,
	logger *zap.Logger,
) *ReferenceController {
	return &ReferenceController{
		sectionRepo:       sectionRepo,
		officeRepo:        officeRepo,
		forwardOptionRepo: forwardOptionRepo,
		logger:            logger,
	}
}

func activeOnly(c echo.Context) bool {
	return c.QueryParam("all") != "true"
}

func (ctrl *ReferenceController) GetSections(c echo.Context) error {
	sections, err := ctrl.sectionRepo.GetSections(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	items := make([]dto.SectionDTO, 0, len(sections))
	for _, s := range sections {
		items = append(items, dto.SectionDTO{ID: s.ID, Name: s.Name})
	}
	return api.SuccessOne(c, http.StatusOK, "Список секций получен", items)
}

func (ctrl *ReferenceController) GetOfficeOptions(c echo.Context) error {
	offices, err := ctrl.officeRepo.GetOfficeOptions(c.Request().Context(), activeOnly(c))
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	items := make([]dto.OfficeOptionDTO, 0, len(offices))
	for _, o := range offices {
		items = append(items, dto.OfficeOptionDTO{ID: o.ID, Name: o.Name, IsActive: o.IsActive})
	}
	return api.SuccessOne(c, http.StatusOK, "Список офисов получен", items)
}

func (ctrl *ReferenceController) GetForwardOptions(c echo.Context) error {
	options, err := ctrl.forwardOptionRepo.GetForwardOptions(c.Request().Context(), activeOnly(c))
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	items := make([]dto.ForwardOptionDTO, 0, len(options))
	for _, o := range options {
		items = append(items, dto.ForwardOptionDTO{ID: o.ID, Name: o.Name, IsActive: o.IsActive})
	}
	return api.SuccessOne(c, http.StatusOK, "Список точек передачи получен", items)
}
