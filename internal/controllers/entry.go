package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"records-system/internal/dto"
	"records-system/internal/services"
	"records-system/pkg/api"
	apperrors "records-system/pkg/errors"
	"records-system/pkg/utils"
)

type EntryController struct {
	entryService services.EntryServiceInterface
	logger       *zap.Logger
}

func NewEntryController(entryService services.EntryServiceInterface, logger *zap.Logger) *EntryController {
	return &EntryController{entryService: entryService, logger: logger}
}

func parseEntryID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("некорректный id записи: %s", c.Param("id"))
	}
	return id, nil
}

func (ctrl *EntryController) CreateEntry(c echo.Context) error {
	actor, err := utils.GetActorFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(401, err.Error(), err, nil))
	}

	var payload dto.CreateEntryDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("некорректное тело запроса"))
	}
	if err := c.Validate(&payload); err != nil {
		ctrl.logger.Debug("валидация создания записи не пройдена", zap.Error(err))
		return api.ErrorResponse(c, apperrors.NewValidationError("обязательные поля отсутствуют или имеют неверный формат"))
	}

	entry, err := ctrl.entryService.CreateEntry(c.Request().Context(), actor, payload)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusCreated, "Запись создана и переслана", entry)
}

func (ctrl *EntryController) UpdateEntry(c echo.Context) error {
	actor, err := utils.GetActorFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(401, err.Error(), err, nil))
	}
	id, err := parseEntryID(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	var payload dto.UpdateEntryDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("некорректное тело запроса"))
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("поля имеют неверный формат"))
	}

	entry, err := ctrl.entryService.UpdateEntry(c.Request().Context(), actor, id, payload)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "Запись обновлена", entry)
}

func (ctrl *EntryController) ForwardEntry(c echo.Context) error {
	actor, err := utils.GetActorFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(401, err.Error(), err, nil))
	}
	id, err := parseEntryID(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	var payload dto.ForwardEntryDTO
	if err := c.Bind(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("некорректное тело запроса"))
	}
	if err := c.Validate(&payload); err != nil {
		return api.ErrorResponse(c, apperrors.NewValidationError("цель пересылки обязательна"))
	}

	entry, err := ctrl.entryService.ForwardEntry(c.Request().Context(), actor, id, payload)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "Запись переслана", entry)
}

type receiveRequest struct {
	Note *string `json:"note,omitempty"`
}

func (ctrl *EntryController) ReceiveEntry(c echo.Context) error {
	actor, err := utils.GetActorFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(401, err.Error(), err, nil))
	}
	id, err := parseEntryID(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	// Тело опционально: приём возможен пустым POST-ом.
	var payload receiveRequest
	_ = c.Bind(&payload)

	entry, err := ctrl.entryService.ReceiveEntry(c.Request().Context(), actor, id, payload.Note)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "Запись принята", entry)
}

func (ctrl *EntryController) GetEntry(c echo.Context) error {
	actor, err := utils.GetActorFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(401, err.Error(), err, nil))
	}
	id, err := parseEntryID(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	entry, err := ctrl.entryService.GetEntry(c.Request().Context(), actor, id)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "Запись получена", entry)
}

func (ctrl *EntryController) GetEntries(c echo.Context) error {
	actor, err := utils.GetActorFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(401, err.Error(), err, nil))
	}

	values := c.Request().URL.Query()
	limit, offset, page := utils.ParsePaginationParams(values)

	filter := dto.EntryFilterDTO{
		Status: values.Get("status"),
		Search: values.Get("search"),
		Limit:  limit,
		Offset: offset,
	}
	if sectionStr := values.Get("section_id"); sectionStr != "" {
		if sectionID, err := strconv.ParseUint(sectionStr, 10, 64); err == nil {
			filter.SectionID = sectionID
		}
	}

	entries, total, err := ctrl.entryService.ListEntries(c.Request().Context(), actor, filter)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessList(c, "Список записей получен", entries, total, int(page), int(limit))
}

func (ctrl *EntryController) GetEntryLogs(c echo.Context) error {
	actor, err := utils.GetActorFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(401, err.Error(), err, nil))
	}
	id, err := parseEntryID(c)
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	logs, err := ctrl.entryService.ListEntryLogs(c.Request().Context(), actor, id)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "Журнал записи получен", logs)
}
