package services

import (
	"context"
	"encoding/json"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"records-system/internal/entities"
	"records-system/internal/repositories"
)

// AuditServiceInterface - журнал действий поверх записей. Контракт
// best-effort: Emit возвращает ошибку, но вызывающие её сознательно
// отбрасывают — сбой журнала никогда не откатывает основное действие.
type AuditServiceInterface interface {
	Emit(ctx context.Context, action entities.EntryAction, oldEntry, newEntry *entities.Entry, actorID uint64, note *string) error
}

type auditService struct {
	logRepo repositories.EntryLogRepositoryInterface
	logger  *zap.Logger
}

func NewAuditService(logRepo repositories.EntryLogRepositoryInterface, logger *zap.Logger) AuditServiceInterface {
	return &auditService{logRepo: logRepo, logger: logger}
}

// Emit сериализует снимки записи до и после изменения как непрозрачные
// JSON-блобы: журнал предназначен для просмотра человеком, не для replay.
func (s *auditService) Emit(ctx context.Context, action entities.EntryAction, oldEntry, newEntry *entities.Entry, actorID uint64, note *string) error {
	log := &entities.EntryLog{
		Action:  action,
		ActorID: actorID,
		TxID:    uuid.New(),
	}

	if newEntry != nil {
		log.EntryID = newEntry.ID
		log.NewData = snapshot(newEntry)
	}
	if oldEntry != nil {
		if log.EntryID == 0 {
			log.EntryID = oldEntry.ID
		}
		log.OldData = snapshot(oldEntry)
	}
	if note != nil && *note != "" {
		log.Note = null.StringFrom(*note)
	}

	if err := s.logRepo.Create(ctx, log); err != nil {
		s.logger.Error("сбой записи в журнал действий",
			zap.Uint64("entryId", log.EntryID),
			zap.String("action", string(action)),
			zap.Error(err))
		return err
	}
	return nil
}

func snapshot(entry *entities.Entry) null.String {
	data, err := json.Marshal(entry)
	if err != nil {
		return null.String{}
	}
	return null.StringFrom(string(data))
}
