package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"records-system/internal/dto"
	"records-system/internal/services"
	"records-system/pkg/api"
	apperrors "records-system/pkg/errors"
	"records-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetForwardedByDate — отчёт по пересылкам за дату. Без параметра date
// берётся сегодняшний день; format=xlsx отдаёт файл вместо JSON.
func (ctrl *ReportController) GetForwardedByDate(c echo.Context) error {
	actor, err := utils.GetActorFromCtx(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, apperrors.NewHttpError(401, err.Error(), err, nil))
	}

	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	format := strings.ToLower(c.QueryParam("format"))

	report, err := ctrl.reportService.ForwardedByDate(c.Request().Context(), actor, date)
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	if format == "xlsx" {
		return ctrl.respondWithXLSX(c, report)
	}
	return api.SuccessOne(c, http.StatusOK, "Отчёт по пересылкам сформирован", report)
}

var reportHeaders = []string{
	"№", "Дневниковый №", "Дата приёма", "Офис-отправитель", "Тема",
	"№ меморандума", "Дата меморандума", "Переслал", "Время пересылки", "Статус",
}

func entryToReportRow(n int, entry dto.EntryDTO) []interface{} {
	forwardedBy := ""
	if entry.ForwardedBy != nil {
		forwardedBy = entry.ForwardedBy.Fio
	}
	return []interface{}{
		n, entry.DiarySlNo, entry.ReceivedDate, entry.ReceivedFromOffice.Name, entry.Topic,
		entry.MemoNo, entry.MemoDate, forwardedBy, entry.ForwardedAt, entry.Status,
	}
}

// respondWithXLSX раскладывает отчёт по листам: каждая точка назначения —
// отдельный лист, как отдельная страница бумажного реестра.
func (ctrl *ReportController) respondWithXLSX(c echo.Context, report *dto.ForwardedByDateReportDTO) error {
	f := excelize.NewFile()
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	for i, group := range report.Groups {
		sheet := fmt.Sprintf("%d. %s", i+1, sanitizeSheetName(group.Destination))
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				continue
			}
		}

		f.SetSheetRow(sheet, "A1", &reportHeaders)
		f.SetCellStyle(sheet, "A1", "J1", style)
		for j, entry := range group.Entries {
			cell, _ := excelize.CoordinatesToCellName(1, j+2)
			row := entryToReportRow(j+1, entry)
			f.SetSheetRow(sheet, cell, &row)
		}
		f.SetColWidth(sheet, "B", "B", 18)
		f.SetColWidth(sheet, "D", "E", 35)
		f.SetColWidth(sheet, "H", "I", 22)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="forwarded_%s.xlsx"`, report.Date))
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	if err := f.Write(c.Response().Writer); err != nil {
		ctrl.logger.Error("сбой выгрузки xlsx-отчёта", zap.Error(err))
		return err
	}
	return nil
}

// sanitizeSheetName урезает имя листа под ограничения xlsx: максимум 31
// символ, без спецсимволов.
func sanitizeSheetName(name string) string {
	replacer := strings.NewReplacer("\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ", ":", " ")
	name = replacer.Replace(name)
	runes := []rune(name)
	if len(runes) > 27 {
		name = string(runes[:27])
	}
	if strings.TrimSpace(name) == "" {
		name = "Без назначения"
	}
	return name
}
