package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"records-system/internal/authz"
	"records-system/internal/dto"
	"records-system/internal/repositories"
	apperrors "records-system/pkg/errors"
	"records-system/pkg/types"
)

type ReportServiceInterface interface {
	ForwardedByDate(ctx context.Context, actor types.Actor, date string) (*dto.ForwardedByDateReportDTO, error)
}

type reportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{reportRepo: reportRepo, logger: logger}
}

// ForwardedByDate строит печатный отчёт за календарную дату: записи,
// пересланные в этот день, сгруппированные по точке назначения. Репозиторий
// возвращает строки уже в порядке групп, поэтому группировка сводится к
// разрезанию отсортированного списка по смене метки назначения.
func (s *reportService) ForwardedByDate(ctx context.Context, actor types.Actor, date string) (*dto.ForwardedByDateReportDTO, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, apperrors.NewValidationError("некорректная дата отчёта: %s", date)
	}

	visibility := authz.VisibilityCondition(actor, "e")
	rows, err := s.reportRepo.GetForwardedOnDate(ctx, day, visibility)
	if err != nil {
		s.logger.Error("сбой построения отчёта по пересылкам", zap.Error(err))
		return nil, err
	}

	report := &dto.ForwardedByDateReportDTO{
		Date:           day.Format(dateLayout),
		TotalForwarded: len(rows),
		Groups:         []dto.ReportGroupDTO{},
	}

	var current *dto.ReportGroupDTO
	for i := range rows {
		label := rows[i].ForwardToLabel.String
		if current == nil || current.Destination != label {
			report.Groups = append(report.Groups, dto.ReportGroupDTO{Destination: label})
			current = &report.Groups[len(report.Groups)-1]
		}
		current.Entries = append(current.Entries, *entryRowToDTO(&rows[i]))
		current.Count++
	}

	return report, nil
}
