package services

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"records-system/internal/repositories"
	"records-system/pkg/config"
	apperrors "records-system/pkg/errors"
)

const recordSectionCacheKey = "record_section_id"

// RecordSectionServiceInterface - Reference Resolver: определяет секцию,
// уполномоченную создавать и пересылать записи.
type RecordSectionServiceInterface interface {
	Resolve(ctx context.Context) (uint64, error)
}

type recordSectionService struct {
	sectionRepo repositories.SectionRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	cfg         config.RecordSectionConfig
	cacheTTL    time.Duration
	logger      *zap.Logger
}

func NewRecordSectionService(
	sectionRepo repositories.SectionRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cfg config.RecordSectionConfig,
	cacheTTL time.Duration,
	logger *zap.Logger,
) RecordSectionServiceInterface {
	return &recordSectionService{
		sectionRepo: sectionRepo,
		cacheRepo:   cacheRepo,
		cfg:         cfg,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Resolve ищет секцию учёта записей в порядке:
// явный id из конфига → имя из конфига → эвристика по слову "record".
// Результат кешируется на TTL; запись в Section между обновлениями кеша
// не инвалидирует его — устаревание в пределах TTL допустимо.
// Отсутствие секции — ошибка конфигурации развёртывания, не вызывающего.
func (s *recordSectionService) Resolve(ctx context.Context) (uint64, error) {
	if cached, err := s.cacheRepo.Get(ctx, recordSectionCacheKey); err == nil {
		if id, parseErr := strconv.ParseUint(cached, 10, 64); parseErr == nil && id != 0 {
			return id, nil
		}
	}

	id, err := s.lookup(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.cacheRepo.Set(ctx, recordSectionCacheKey, strconv.FormatUint(id, 10), s.cacheTTL); err != nil {
		// Кеш вспомогательный: при сбое просто разрешаем секцию заново на каждом вызове.
		s.logger.Warn("не удалось закешировать id секции учёта", zap.Error(err))
	}

	return id, nil
}

func (s *recordSectionService) lookup(ctx context.Context) (uint64, error) {
	if s.cfg.ID != 0 {
		section, err := s.sectionRepo.FindSection(ctx, s.cfg.ID)
		if err == nil {
			return section.ID, nil
		}
		s.logger.Warn("настроенная секция учёта не найдена, продолжаем поиск",
			zap.Uint64("sectionId", s.cfg.ID), zap.Error(err))
	}

	if s.cfg.Name != "" {
		section, err := s.sectionRepo.FindByName(ctx, s.cfg.Name)
		if err == nil {
			return section.ID, nil
		}
		s.logger.Warn("секция учёта по имени не найдена, продолжаем поиск",
			zap.String("name", s.cfg.Name), zap.Error(err))
	}

	section, err := s.sectionRepo.FindRecordLike(ctx)
	if err == nil {
		return section.ID, nil
	}

	s.logger.Error("секция учёта записей не может быть определена", zap.Error(err))
	return 0, apperrors.NewConfigurationError(
		"Секция учёта записей не настроена: укажите RECORD_SECTION_ID или RECORD_SECTION_NAME, либо создайте секцию с именем 'Record'.")
}
