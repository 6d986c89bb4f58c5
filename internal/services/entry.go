package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"records-system/internal/authz"
	"records-system/internal/dto"
	"records-system/internal/entities"
	"records-system/internal/repositories"
	apperrors "records-system/pkg/errors"
	"records-system/pkg/types"
	"records-system/pkg/utils"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

type EntryServiceInterface interface {
	CreateEntry(ctx context.Context, actor types.Actor, payload dto.CreateEntryDTO) (*dto.EntryDTO, error)
	UpdateEntry(ctx context.Context, actor types.Actor, id uint64, payload dto.UpdateEntryDTO) (*dto.EntryDTO, error)
	ForwardEntry(ctx context.Context, actor types.Actor, id uint64, payload dto.ForwardEntryDTO) (*dto.EntryDTO, error)
	ReceiveEntry(ctx context.Context, actor types.Actor, id uint64, note *string) (*dto.EntryDTO, error)
	GetEntry(ctx context.Context, actor types.Actor, id uint64) (*dto.EntryDTO, error)
	ListEntries(ctx context.Context, actor types.Actor, filter dto.EntryFilterDTO) ([]dto.EntryDTO, uint64, error)
	ListEntryLogs(ctx context.Context, actor types.Actor, entryID uint64) ([]dto.EntryLogDTO, error)
}

type entryService struct {
	entryRepo         repositories.EntryRepositoryInterface
	logRepo           repositories.EntryLogRepositoryInterface
	officeRepo        repositories.OfficeOptionRepositoryInterface
	sectionRepo       repositories.SectionRepositoryInterface
	forwardOptionRepo repositories.ForwardOptionRepositoryInterface
	recordSection     RecordSectionServiceInterface
	audit             AuditServiceInterface
	logger            *zap.Logger
}

func NewEntryService(
	entryRepo repositories.EntryRepositoryInterface,
	logRepo repositories.EntryLogRepositoryInterface,
	officeRepo repositories.OfficeOptionRepositoryInterface,
	sectionRepo repositories.SectionRepositoryInterface,
	forwardOptionRepo repositories.ForwardOptionRepositoryInterface,
	recordSection RecordSectionServiceInterface,
	audit AuditServiceInterface,
	logger *zap.Logger,
) EntryServiceInterface {
	return &entryService{
		entryRepo:         entryRepo,
		logRepo:           logRepo,
		officeRepo:        officeRepo,
		sectionRepo:       sectionRepo,
		forwardOptionRepo: forwardOptionRepo,
		recordSection:     recordSection,
		audit:             audit,
		logger:            logger,
	}
}

// forwardTarget — разрешённая цель пересылки, готовая к записи в Entry.
type forwardTarget struct {
	Type      entities.ForwardToType
	SectionID null.Uint64
	CustomID  null.Uint64
	Label     string
}

// resolveForwardTarget проверяет цель пересылки и разворачивает её в
// денормализованный вид. ownSectionID — секция, из которой пересылают:
// пересылка самому себе отклоняется здесь.
func (s *entryService) resolveForwardTarget(ctx context.Context, target dto.ForwardTargetDTO, ownSectionID uint64) (*forwardTarget, error) {
	switch entities.ForwardToType(target.Type) {
	case entities.ForwardToSection:
		if target.SectionID == nil || target.CustomID != nil {
			return nil, apperrors.NewValidationError("для цели типа section должен быть указан только section_id")
		}
		if *target.SectionID == ownSectionID {
			return nil, apperrors.NewValidationError("пересылка в собственную секцию запрещена")
		}
		section, err := s.sectionRepo.FindSection(ctx, *target.SectionID)
		if err != nil {
			return nil, apperrors.NewValidationError("секция-назначение с id %d не найдена", *target.SectionID)
		}
		return &forwardTarget{
			Type:      entities.ForwardToSection,
			SectionID: null.Uint64From(section.ID),
			Label:     section.Name,
		}, nil

	case entities.ForwardToCustom:
		if target.CustomID == nil || target.SectionID != nil {
			return nil, apperrors.NewValidationError("для цели типа custom должен быть указан только custom_id")
		}
		option, err := s.forwardOptionRepo.FindForwardOption(ctx, *target.CustomID)
		if err != nil {
			return nil, apperrors.NewValidationError("точка передачи с id %d не найдена", *target.CustomID)
		}
		if !option.IsActive {
			return nil, apperrors.NewValidationError("точка передачи '%s' деактивирована", option.Name)
		}
		return &forwardTarget{
			Type:     entities.ForwardToCustom,
			CustomID: null.Uint64From(option.ID),
			Label:    option.Name,
		}, nil

	default:
		return nil, apperrors.NewValidationError("неизвестный тип цели пересылки: %s", target.Type)
	}
}

func (s *entryService) checkOffice(ctx context.Context, officeID uint64) error {
	office, err := s.officeRepo.FindOfficeOption(ctx, officeID)
	if err != nil {
		return apperrors.NewValidationError("офис-отправитель с id %d не найден", officeID)
	}
	if !office.IsActive {
		return apperrors.NewValidationError("офис-отправитель '%s' деактивирован", office.Name)
	}
	return nil
}

// applyForward проставляет на записи поля пересылки и сбрасывает следы
// предыдущего приёма: после новой пересылки запись снова "в пути".
func applyForward(entry *entities.Entry, target *forwardTarget, actorID uint64, now time.Time) {
	entry.ForwardToType = null.StringFrom(string(target.Type))
	entry.ForwardToSectionID = target.SectionID
	entry.ForwardToCustomID = target.CustomID
	entry.ForwardToLabel = null.StringFrom(target.Label)
	entry.ForwardedBy = null.Uint64From(actorID)
	entry.ForwardedAt = null.TimeFrom(now)
	entry.ReceivedByUserID = null.Uint64{}
	entry.ReceivedAt = null.Time{}
}

// CreateEntry регистрирует документ и сразу назначает цель пересылки:
// отдельного состояния "принят, но не переслан" в потоке нет.
func (s *entryService) CreateEntry(ctx context.Context, actor types.Actor, payload dto.CreateEntryDTO) (*dto.EntryDTO, error) {
	recordSectionID, err := s.recordSection.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanCreate(actor, recordSectionID) {
		return nil, apperrors.NewForbiddenError("Создавать записи может только секция учёта записей")
	}

	if err := s.checkOffice(ctx, payload.ReceivedFromOfficeID); err != nil {
		return nil, err
	}

	receivedDate, err := time.Parse(dateLayout, payload.ReceivedDate)
	if err != nil {
		return nil, apperrors.NewValidationError("некорректная дата приёма: %s", payload.ReceivedDate)
	}

	target, err := s.resolveForwardTarget(ctx, payload.ForwardTo, recordSectionID)
	if err != nil {
		return nil, err
	}

	nextStatus, ok := entities.NextStatus("", entities.ActionCreate)
	if !ok {
		return nil, apperrors.NewInternalError("Машина состояний не определяет переход для создания")
	}

	now := time.Now()
	entry := &entities.Entry{
		ReceivedFromOfficeID: payload.ReceivedFromOfficeID,
		ReceivedDate:         receivedDate,
		DiarySlNo:            payload.DiarySlNo,
		Topic:                payload.Topic,
		RecordSectionID:      recordSectionID,
		CurrentSectionID:     recordSectionID,
		Status:               nextStatus,
		CreatedBy:            actor.ID,
		UpdatedBy:            actor.ID,
	}
	if payload.MemoNo != nil {
		entry.MemoNo = null.StringFrom(*payload.MemoNo)
	}
	if payload.MemoDate != nil {
		memoDate, err := time.Parse(dateLayout, *payload.MemoDate)
		if err != nil {
			return nil, apperrors.NewValidationError("некорректная дата меморандума: %s", *payload.MemoDate)
		}
		entry.MemoDate = null.TimeFrom(memoDate)
	}
	applyForward(entry, target, actor.ID, now)

	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Не удалось открыть транзакцию")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newID, err := s.entryRepo.CreateEntryInTx(ctx, tx, entry)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewInternalError("Не удалось зафиксировать транзакцию")
	}
	entry.ID = newID

	// Журнал пишется после коммита: его сбой не откатывает создание.
	_ = s.audit.Emit(ctx, entities.ActionCreate, nil, entry, actor.ID, payload.Note)

	return s.fetchDTO(ctx, newID)
}

// UpdateEntry правит поля происхождения и темы. Если в запросе указана
// новая цель пересылки, вызов дополнительно ведёт себя как forward.
func (s *entryService) UpdateEntry(ctx context.Context, actor types.Actor, id uint64, payload dto.UpdateEntryDTO) (*dto.EntryDTO, error) {
	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Не удалось открыть транзакцию")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	entry, err := s.entryRepo.FindEntryForUpdateInTx(ctx, tx, id)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Запись не найдена")
		}
		return nil, err
	}

	if !authz.CanModify(actor, entry) {
		return nil, apperrors.NewForbiddenError("Правка разрешена только секции учёта, пока запись находится у неё")
	}

	nextStatus, ok := entities.NextStatus(entry.Status, entities.ActionUpdate)
	if !ok {
		return nil, apperrors.NewInvalidStateError("Запись в текущем статусе не может быть изменена")
	}

	oldEntry := *entry

	if payload.ReceivedFromOfficeID != nil {
		if err := s.checkOffice(ctx, *payload.ReceivedFromOfficeID); err != nil {
			return nil, err
		}
		entry.ReceivedFromOfficeID = *payload.ReceivedFromOfficeID
	}
	if payload.ReceivedDate != nil {
		receivedDate, err := time.Parse(dateLayout, *payload.ReceivedDate)
		if err != nil {
			return nil, apperrors.NewValidationError("некорректная дата приёма: %s", *payload.ReceivedDate)
		}
		entry.ReceivedDate = receivedDate
	}
	if payload.DiarySlNo != nil {
		entry.DiarySlNo = *payload.DiarySlNo
	}
	if payload.MemoNo != nil {
		entry.MemoNo = null.StringFrom(*payload.MemoNo)
	}
	if payload.MemoDate != nil {
		memoDate, err := time.Parse(dateLayout, *payload.MemoDate)
		if err != nil {
			return nil, apperrors.NewValidationError("некорректная дата меморандума: %s", *payload.MemoDate)
		}
		entry.MemoDate = null.TimeFrom(memoDate)
	}
	if payload.Topic != nil {
		entry.Topic = *payload.Topic
	}
	if payload.ForwardTo != nil {
		// Новая цель пересылки проходит ту же проверку, что и создание:
		// если секция учёта сменилась, прежняя секция теряет право
		// перенаправлять записи через правку.
		recordSectionID, err := s.recordSection.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		if !authz.CanCreate(actor, recordSectionID) {
			return nil, apperrors.NewForbiddenError("Назначать цель пересылки может только секция учёта записей")
		}

		target, err := s.resolveForwardTarget(ctx, *payload.ForwardTo, entry.CurrentSectionID)
		if err != nil {
			return nil, err
		}
		applyForward(entry, target, actor.ID, time.Now())
	}

	entry.Status = nextStatus
	entry.UpdatedBy = actor.ID

	if err := s.entryRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewInternalError("Не удалось зафиксировать транзакцию")
	}

	_ = s.audit.Emit(ctx, entities.ActionUpdate, &oldEntry, entry, actor.ID, payload.Note)

	return s.fetchDTO(ctx, id)
}

// ForwardEntry перенаправляет ещё не принятую запись в новую точку
// назначения. Прежняя цель полностью затирается.
func (s *entryService) ForwardEntry(ctx context.Context, actor types.Actor, id uint64, payload dto.ForwardEntryDTO) (*dto.EntryDTO, error) {
	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Не удалось открыть транзакцию")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	entry, err := s.entryRepo.FindEntryForUpdateInTx(ctx, tx, id)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Запись не найдена")
		}
		return nil, err
	}

	if !authz.CanForward(actor, entry) {
		return nil, apperrors.NewForbiddenError("Пересылать запись может только секция-владелец")
	}

	nextStatus, ok := entities.NextStatus(entry.Status, entities.ActionForward)
	if !ok {
		return nil, apperrors.NewInvalidStateError("Запись в текущем статусе не может быть переслана")
	}

	target, err := s.resolveForwardTarget(ctx, payload.ForwardTo, entry.CurrentSectionID)
	if err != nil {
		return nil, err
	}

	oldEntry := *entry
	applyForward(entry, target, actor.ID, time.Now())
	entry.Status = nextStatus
	entry.UpdatedBy = actor.ID

	if err := s.entryRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewInternalError("Не удалось зафиксировать транзакцию")
	}

	_ = s.audit.Emit(ctx, entities.ActionForward, &oldEntry, entry, actor.ID, payload.Note)

	return s.fetchDTO(ctx, id)
}

// ReceiveEntry фиксирует приём записи секцией-назначением: запись меняет
// текущую секцию. Повторный приём блокируется машиной состояний, гонка
// двух приёмов — блокировкой строки FOR UPDATE.
func (s *entryService) ReceiveEntry(ctx context.Context, actor types.Actor, id uint64, note *string) (*dto.EntryDTO, error) {
	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Не удалось открыть транзакцию")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	entry, err := s.entryRepo.FindEntryForUpdateInTx(ctx, tx, id)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Запись не найдена")
		}
		return nil, err
	}

	nextStatus, ok := entities.NextStatus(entry.Status, entities.ActionReceive)
	if !ok {
		return nil, apperrors.NewInvalidStateError("Запись в текущем статусе не может быть принята")
	}
	if !authz.CanReceive(actor, entry) {
		// Статус позволял бы приём, значит отказ связан с принадлежностью
		// актора, кроме случая, когда запись уже у его секции.
		if actor.SectionID != nil && entry.CurrentSectionID == *actor.SectionID {
			return nil, apperrors.NewInvalidStateError("Запись уже находится в вашей секции")
		}
		return nil, apperrors.NewForbiddenError("Принять запись может только секция-назначение")
	}

	oldEntry := *entry
	entry.CurrentSectionID = entry.ForwardToSectionID.Uint64
	entry.ReceivedByUserID = null.Uint64From(actor.ID)
	entry.ReceivedAt = null.TimeFrom(time.Now())
	entry.Status = nextStatus
	entry.UpdatedBy = actor.ID

	if err := s.entryRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewInternalError("Не удалось зафиксировать транзакцию")
	}

	_ = s.audit.Emit(ctx, entities.ActionReceive, &oldEntry, entry, actor.ID, note)

	return s.fetchDTO(ctx, id)
}

func (s *entryService) GetEntry(ctx context.Context, actor types.Actor, id uint64) (*dto.EntryDTO, error) {
	row, err := s.entryRepo.FindEntry(ctx, id)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Запись не найдена")
		}
		return nil, err
	}
	if !authz.CanView(actor, &row.Entry) {
		return nil, apperrors.NewForbiddenError("Доступ к записи запрещён")
	}
	return entryRowToDTO(row), nil
}

func (s *entryService) ListEntries(ctx context.Context, actor types.Actor, filter dto.EntryFilterDTO) ([]dto.EntryDTO, uint64, error) {
	visibility := authz.VisibilityCondition(actor, "e")
	rows, total, err := s.entryRepo.ListEntries(ctx, filter, visibility)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.EntryDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *entryRowToDTO(&rows[i]))
	}
	return items, total, nil
}

func (s *entryService) ListEntryLogs(ctx context.Context, actor types.Actor, entryID uint64) ([]dto.EntryLogDTO, error) {
	row, err := s.entryRepo.FindEntry(ctx, entryID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Запись не найдена")
		}
		return nil, err
	}
	if !authz.CanView(actor, &row.Entry) {
		return nil, apperrors.NewForbiddenError("Доступ к журналу записи запрещён")
	}

	logs, err := s.logRepo.FindByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EntryLogDTO, 0, len(logs))
	for _, log := range logs {
		items = append(items, dto.EntryLogDTO{
			ID:      log.ID,
			EntryID: log.EntryID,
			Action:  string(log.Action),
			OldData: log.OldData.String,
			NewData: log.NewData.String,
			Note:    log.Note.String,
			Actor: dto.ShortUserDTO{
				ID:  log.ActorID,
				Fio: utils.NullStringToString(log.ActorFio),
			},
			TxID:      log.TxID.String(),
			CreatedAt: log.CreatedAt.Format(timestampLayout),
		})
	}
	return items, nil
}

func (s *entryService) fetchDTO(ctx context.Context, id uint64) (*dto.EntryDTO, error) {
	row, err := s.entryRepo.FindEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return entryRowToDTO(row), nil
}

func nullDateString(t null.Time) string {
	if t.Valid {
		return t.Time.Format(dateLayout)
	}
	return ""
}

func nullTimestampString(t null.Time) string {
	if t.Valid {
		return t.Time.Format(timestampLayout)
	}
	return ""
}

func nullUint64Ptr(v null.Uint64) *uint64 {
	if v.Valid {
		return utils.Ptr(v.Uint64)
	}
	return nil
}

func entryRowToDTO(row *repositories.EntryRow) *dto.EntryDTO {
	item := &dto.EntryDTO{
		ID: row.ID,
		ReceivedFromOffice: dto.ShortSectionDTO{
			ID:   row.ReceivedFromOfficeID,
			Name: utils.NullStringToString(row.OfficeName),
		},
		ReceivedDate: row.ReceivedDate.Format(dateLayout),
		DiarySlNo:    row.DiarySlNo,
		MemoNo:       row.MemoNo.String,
		MemoDate:     nullDateString(row.MemoDate),
		Topic:        row.Topic,
		RecordSection: dto.ShortSectionDTO{
			ID:   row.RecordSectionID,
			Name: utils.NullStringToString(row.RecordSectionName),
		},
		CurrentSection: dto.ShortSectionDTO{
			ID:   row.CurrentSectionID,
			Name: utils.NullStringToString(row.CurrentSectionName),
		},
		ForwardToType:      row.ForwardToType.String,
		ForwardToSectionID: nullUint64Ptr(row.ForwardToSectionID),
		ForwardToCustomID:  nullUint64Ptr(row.ForwardToCustomID),
		ForwardToLabel:     row.ForwardToLabel.String,
		ForwardedAt:        nullTimestampString(row.ForwardedAt),
		ReceivedAt:         nullTimestampString(row.ReceivedAt),
		Status:             string(row.Status),
		CreatedBy:          row.CreatedBy,
		CreatedAt:          row.CreatedAt.Format(timestampLayout),
		UpdatedAt:          row.UpdatedAt.Format(timestampLayout),
	}

	if row.ForwardedBy.Valid {
		item.ForwardedBy = &dto.ShortUserDTO{
			ID:  row.ForwardedBy.Uint64,
			Fio: utils.NullStringToString(row.ForwardedByFio),
		}
	}
	if row.ReceivedByUserID.Valid {
		item.ReceivedBy = &dto.ShortUserDTO{
			ID:  row.ReceivedByUserID.Uint64,
			Fio: utils.NullStringToString(row.ReceivedByFio),
		}
	}
	return item
}
