package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"records-system/internal/services"
	"records-system/pkg/api"
	apperrors "records-system/pkg/errors"
	"records-system/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(dashboardService services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboardService: dashboardService, logger: logger}
}

// GetDailyCounts отдаёт счётчики панели. Параметр days опционален;
// выход за диапазон сервис приводит к допустимому значению сам.
func (ctrl *DashboardController) GetDailyCounts(c echo.Context) error {
	actor, err := utils.GetActorFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(401, err.Error(), err, nil))
	}

	days := 0
	if daysStr := c.QueryParam("days"); daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil {
			days = d
		}
	}

	counts, err := ctrl.dashboardService.DailyCounts(c.Request().Context(), actor, days)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "Счётчики панели получены", counts)
}
