package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"records-system/internal/dto"
	"records-system/internal/entities"
	"records-system/internal/repositories"
	"records-system/pkg/types"
	"records-system/pkg/utils"
)

// Фейки слоя репозиториев: вся логика сервисов проверяется без БД.
// Транзакция — заглушка; блокировка строк в этих тестах не моделируется.

type fakeTx struct{ pgx.Tx }

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeEntryRepo struct {
	nextID         uint64
	entries        map[uint64]*entities.Entry
	lastVisibility sq.Sqlizer
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{nextID: 1, entries: make(map[uint64]*entities.Entry)}
}

func (r *fakeEntryRepo) Begin(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

func (r *fakeEntryRepo) CreateEntryInTx(ctx context.Context, tx pgx.Tx, entry *entities.Entry) (uint64, error) {
	id := r.nextID
	r.nextID++
	stored := *entry
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.entries[id] = &stored
	return id, nil
}

func (r *fakeEntryRepo) FindEntry(ctx context.Context, id uint64) (*repositories.EntryRow, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, apperrorsNotFound()
	}
	return &repositories.EntryRow{Entry: *entry}, nil
}

func (r *fakeEntryRepo) FindEntryForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Entry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, apperrorsNotFound()
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeEntryRepo) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry *entities.Entry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return apperrorsNotFound()
	}
	stored := *entry
	stored.UpdatedAt = time.Now()
	r.entries[entry.ID] = &stored
	return nil
}

func (r *fakeEntryRepo) ListEntries(ctx context.Context, filter dto.EntryFilterDTO, visibility sq.Sqlizer) ([]repositories.EntryRow, uint64, error) {
	r.lastVisibility = visibility
	rows := make([]repositories.EntryRow, 0, len(r.entries))
	for _, entry := range r.entries {
		rows = append(rows, repositories.EntryRow{Entry: *entry})
	}
	return rows, uint64(len(rows)), nil
}

type fakeLogRepo struct {
	logs []entities.EntryLog
	fail bool
}

func (r *fakeLogRepo) Create(ctx context.Context, log *entities.EntryLog) error {
	if r.fail {
		return fmt.Errorf("журнал недоступен")
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeLogRepo) FindByEntryID(ctx context.Context, entryID uint64) ([]repositories.EntryLogItem, error) {
	var items []repositories.EntryLogItem
	for _, log := range r.logs {
		if log.EntryID == entryID {
			items = append(items, repositories.EntryLogItem{EntryLog: log})
		}
	}
	return items, nil
}

type fakeOfficeRepo struct{ offices map[uint64]entities.OfficeOption }

func (r *fakeOfficeRepo) GetOfficeOptions(ctx context.Context, activeOnly bool) ([]entities.OfficeOption, error) {
	var out []entities.OfficeOption
	for _, o := range r.offices {
		if !activeOnly || o.IsActive {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfficeRepo) FindOfficeOption(ctx context.Context, id uint64) (*entities.OfficeOption, error) {
	office, ok := r.offices[id]
	if !ok {
		return nil, apperrorsNotFound()
	}
	return &office, nil
}

type fakeSectionRepo struct{ sections map[uint64]entities.Section }

func (r *fakeSectionRepo) GetSections(ctx context.Context) ([]entities.Section, error) {
	var out []entities.Section
	for _, s := range r.sections {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSectionRepo) FindSection(ctx context.Context, id uint64) (*entities.Section, error) {
	section, ok := r.sections[id]
	if !ok {
		return nil, apperrorsNotFound()
	}
	return &section, nil
}

func (r *fakeSectionRepo) FindByName(ctx context.Context, name string) (*entities.Section, error) {
	for _, s := range r.sections {
		if equalFold(s.Name, name) {
			section := s
			return &section, nil
		}
	}
	return nil, apperrorsNotFound()
}

func (r *fakeSectionRepo) FindRecordLike(ctx context.Context) (*entities.Section, error) {
	var candidate *entities.Section
	for _, s := range r.sections {
		if containsFold(s.Name, "record") {
			section := s
			if equalFold(s.Name, "record") {
				return &section, nil
			}
			if candidate == nil {
				candidate = &section
			}
		}
	}
	if candidate == nil {
		return nil, apperrorsNotFound()
	}
	return candidate, nil
}

type fakeForwardOptionRepo struct{ options map[uint64]entities.ForwardOption }

func (r *fakeForwardOptionRepo) GetForwardOptions(ctx context.Context, activeOnly bool) ([]entities.ForwardOption, error) {
	var out []entities.ForwardOption
	for _, o := range r.options {
		if !activeOnly || o.IsActive {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeForwardOptionRepo) FindForwardOption(ctx context.Context, id uint64) (*entities.ForwardOption, error) {
	option, ok := r.options[id]
	if !ok {
		return nil, apperrorsNotFound()
	}
	return &option, nil
}

type fakeResolver struct {
	id  uint64
	err error
}

func (r *fakeResolver) Resolve(ctx context.Context) (uint64, error) { return r.id, r.err }

// Окружение тестов: секция 3 — секция учёта записей, секция 7 — обычная.
type entryServiceEnv struct {
	svc       EntryServiceInterface
	entryRepo *fakeEntryRepo
	logRepo   *fakeLogRepo
	resolver  *fakeResolver
}

func newEntryServiceEnv(t *testing.T) *entryServiceEnv {
	t.Helper()

	entryRepo := newFakeEntryRepo()
	logRepo := &fakeLogRepo{}
	officeRepo := &fakeOfficeRepo{offices: map[uint64]entities.OfficeOption{
		1: {ID: 1, Name: "Головной офис", IsActive: true},
		2: {ID: 2, Name: "Закрытый офис", IsActive: false},
	}}
	sectionRepo := &fakeSectionRepo{sections: map[uint64]entities.Section{
		3: {ID: 3, Name: "Record Section"},
		7: {ID: 7, Name: "Учётная секция"},
	}}
	forwardOptionRepo := &fakeForwardOptionRepo{options: map[uint64]entities.ForwardOption{
		11: {ID: 11, Name: "Головной офис", IsActive: true},
		12: {ID: 12, Name: "Архив", IsActive: false},
	}}

	logger := zap.NewNop()
	audit := NewAuditService(logRepo, logger)
	resolver := &fakeResolver{id: 3}
	svc := NewEntryService(entryRepo, logRepo, officeRepo, sectionRepo, forwardOptionRepo,
		resolver, audit, logger)

	return &entryServiceEnv{svc: svc, entryRepo: entryRepo, logRepo: logRepo, resolver: resolver}
}

func actorInSection(id, sectionID uint64) types.Actor {
	return types.Actor{ID: id, Role: types.RoleGeneral, SectionID: utils.Ptr(sectionID)}
}

func validCreatePayload() dto.CreateEntryDTO {
	return dto.CreateEntryDTO{
		ReceivedFromOfficeID: 1,
		ReceivedDate:         "2026-08-20",
		DiarySlNo:            "2026/184",
		Topic:                "Запрос о состоянии фондов",
		ForwardTo:            dto.ForwardTargetDTO{Type: "section", SectionID: utils.Ptr(uint64(7))},
	}
}

func TestEntryLifecycle(t *testing.T) {
	env := newEntryServiceEnv(t)
	ctx := context.Background()
	recordClerk := actorInSection(100, 3)
	receiver := actorInSection(200, 7)

	// Создание: запись сразу переслана в секцию 7.
	created, err := env.svc.CreateEntry(ctx, recordClerk, validCreatePayload())
	require.NoError(t, err)
	assert.Equal(t, string(entities.StatusForwarded), created.Status)
	assert.Equal(t, uint64(3), created.RecordSection.ID)
	assert.Equal(t, uint64(3), created.CurrentSection.ID)
	require.NotNil(t, created.ForwardToSectionID)
	assert.Equal(t, uint64(7), *created.ForwardToSectionID)
	assert.NotEmpty(t, created.ForwardedAt)

	// Приём секцией-назначением: запись физически переходит в секцию 7.
	received, err := env.svc.ReceiveEntry(ctx, receiver, created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, string(entities.StatusForwardReceived), received.Status)
	assert.Equal(t, uint64(7), received.CurrentSection.ID)
	assert.Equal(t, uint64(3), received.RecordSection.ID)
	require.NotNil(t, received.ReceivedBy)
	assert.Equal(t, uint64(200), received.ReceivedBy.ID)
	assert.NotEmpty(t, received.ReceivedAt)

	// После приёма создатель теряет право правки.
	_, err = env.svc.UpdateEntry(ctx, recordClerk, created.ID, dto.UpdateEntryDTO{
		Topic: utils.Ptr("Новая тема"),
	})
	requireHTTPCode(t, err, 403)

	// Повторный приём отклоняется машиной состояний.
	_, err = env.svc.ReceiveEntry(ctx, receiver, created.ID, nil)
	requireHTTPCode(t, err, 409)

	// Каждая успешная мутация оставила ровно одну строку журнала.
	require.Len(t, env.logRepo.logs, 2)
	assert.Equal(t, entities.ActionCreate, env.logRepo.logs[0].Action)
	assert.Equal(t, entities.ActionReceive, env.logRepo.logs[1].Action)
	assert.NotEqual(t, env.logRepo.logs[0].TxID, env.logRepo.logs[1].TxID)
	assert.True(t, env.logRepo.logs[0].NewData.Valid)
	assert.False(t, env.logRepo.logs[0].OldData.Valid)
	assert.True(t, env.logRepo.logs[1].OldData.Valid)
}

func TestCreateEntryValidation(t *testing.T) {
	env := newEntryServiceEnv(t)
	ctx := context.Background()
	recordClerk := actorInSection(100, 3)

	t.Run("создавать может только секция учёта", func(t *testing.T) {
		outsider := actorInSection(300, 7)
		_, err := env.svc.CreateEntry(ctx, outsider, validCreatePayload())
		requireHTTPCode(t, err, 403)
	})

	t.Run("пересылка в собственную секцию запрещена", func(t *testing.T) {
		payload := validCreatePayload()
		payload.ForwardTo = dto.ForwardTargetDTO{Type: "section", SectionID: utils.Ptr(uint64(3))}
		_, err := env.svc.CreateEntry(ctx, recordClerk, payload)
		requireHTTPCode(t, err, 400)
	})

	t.Run("деактивированный офис отклоняется", func(t *testing.T) {
		payload := validCreatePayload()
		payload.ReceivedFromOfficeID = 2
		_, err := env.svc.CreateEntry(ctx, recordClerk, payload)
		requireHTTPCode(t, err, 400)
	})

	t.Run("деактивированная точка передачи отклоняется", func(t *testing.T) {
		payload := validCreatePayload()
		payload.ForwardTo = dto.ForwardTargetDTO{Type: "custom", CustomID: utils.Ptr(uint64(12))}
		_, err := env.svc.CreateEntry(ctx, recordClerk, payload)
		requireHTTPCode(t, err, 400)
	})

	t.Run("цель section без section_id отклоняется", func(t *testing.T) {
		payload := validCreatePayload()
		payload.ForwardTo = dto.ForwardTargetDTO{Type: "section"}
		_, err := env.svc.CreateEntry(ctx, recordClerk, payload)
		requireHTTPCode(t, err, 400)
	})

	t.Run("цель с обоими id отклоняется", func(t *testing.T) {
		payload := validCreatePayload()
		payload.ForwardTo = dto.ForwardTargetDTO{
			Type:      "section",
			SectionID: utils.Ptr(uint64(7)),
			CustomID:  utils.Ptr(uint64(11)),
		}
		_, err := env.svc.CreateEntry(ctx, recordClerk, payload)
		requireHTTPCode(t, err, 400)
	})
}

func TestForwardEntryReplacesTarget(t *testing.T) {
	env := newEntryServiceEnv(t)
	ctx := context.Background()
	recordClerk := actorInSection(100, 3)

	created, err := env.svc.CreateEntry(ctx, recordClerk, validCreatePayload())
	require.NoError(t, err)

	// Перенаправление во внешнюю точку до приёма: прежняя цель затирается.
	forwarded, err := env.svc.ForwardEntry(ctx, recordClerk, created.ID, dto.ForwardEntryDTO{
		ForwardTo: dto.ForwardTargetDTO{Type: "custom", CustomID: utils.Ptr(uint64(11))},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entities.StatusForwarded), forwarded.Status)
	assert.Equal(t, string(entities.ForwardToCustom), forwarded.ForwardToType)
	assert.Nil(t, forwarded.ForwardToSectionID)
	require.NotNil(t, forwarded.ForwardToCustomID)
	assert.Equal(t, uint64(11), *forwarded.ForwardToCustomID)
	assert.Equal(t, "Головной офис", forwarded.ForwardToLabel)
	assert.Equal(t, uint64(3), forwarded.RecordSection.ID)

	// Внешнюю точку внутренний пользователь принять не может.
	receiver := actorInSection(200, 7)
	_, err = env.svc.ReceiveEntry(ctx, receiver, created.ID, nil)
	requireHTTPCode(t, err, 403)

	require.Len(t, env.logRepo.logs, 2)
	assert.Equal(t, entities.ActionForward, env.logRepo.logs[1].Action)
}

func TestReceiveEntryWrongSection(t *testing.T) {
	env := newEntryServiceEnv(t)
	ctx := context.Background()
	recordClerk := actorInSection(100, 3)

	created, err := env.svc.CreateEntry(ctx, recordClerk, validCreatePayload())
	require.NoError(t, err)

	// Секция учёта не является целью пересылки.
	_, err = env.svc.ReceiveEntry(ctx, recordClerk, created.ID, nil)
	requireHTTPCode(t, err, 403)
}

func TestUpdateEntryPartialAndReforward(t *testing.T) {
	env := newEntryServiceEnv(t)
	ctx := context.Background()
	recordClerk := actorInSection(100, 3)

	created, err := env.svc.CreateEntry(ctx, recordClerk, validCreatePayload())
	require.NoError(t, err)

	updated, err := env.svc.UpdateEntry(ctx, recordClerk, created.ID, dto.UpdateEntryDTO{
		Topic:     utils.Ptr("Уточнённая тема"),
		MemoNo:    utils.Ptr("M-42"),
		ForwardTo: &dto.ForwardTargetDTO{Type: "custom", CustomID: utils.Ptr(uint64(11))},
	})
	require.NoError(t, err)
	assert.Equal(t, "Уточнённая тема", updated.Topic)
	assert.Equal(t, "M-42", updated.MemoNo)
	assert.Equal(t, "2026-08-20", updated.ReceivedDate)
	assert.Equal(t, string(entities.ForwardToCustom), updated.ForwardToType)

	require.Len(t, env.logRepo.logs, 2)
	assert.Equal(t, entities.ActionUpdate, env.logRepo.logs[1].Action)
}

func TestUpdateEntryForwardAfterResolverChange(t *testing.T) {
	env := newEntryServiceEnv(t)
	ctx := context.Background()
	recordClerk := actorInSection(100, 3)

	created, err := env.svc.CreateEntry(ctx, recordClerk, validCreatePayload())
	require.NoError(t, err)

	// Секция учёта записей переназначена на другую секцию.
	env.resolver.id = 9

	// Правка с новой целью пересылки проходит проверку создания заново:
	// прежняя секция учёта больше не вправе перенаправлять записи.
	_, err = env.svc.UpdateEntry(ctx, recordClerk, created.ID, dto.UpdateEntryDTO{
		ForwardTo: &dto.ForwardTargetDTO{Type: "custom", CustomID: utils.Ptr(uint64(11))},
	})
	requireHTTPCode(t, err, 403)

	// Правка полей без смены цели по-прежнему разрешена владельцу.
	updated, err := env.svc.UpdateEntry(ctx, recordClerk, created.ID, dto.UpdateEntryDTO{
		Topic: utils.Ptr("Только текстовая правка"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Только текстовая правка", updated.Topic)
	require.NotNil(t, updated.ForwardToSectionID)
	assert.Equal(t, uint64(7), *updated.ForwardToSectionID)
}

func TestAuditFailureDoesNotFailMutation(t *testing.T) {
	env := newEntryServiceEnv(t)
	env.logRepo.fail = true
	ctx := context.Background()
	recordClerk := actorInSection(100, 3)

	created, err := env.svc.CreateEntry(ctx, recordClerk, validCreatePayload())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Empty(t, env.logRepo.logs)
}

func TestGetEntryAccess(t *testing.T) {
	env := newEntryServiceEnv(t)
	ctx := context.Background()
	recordClerk := actorInSection(100, 3)

	created, err := env.svc.CreateEntry(ctx, recordClerk, validCreatePayload())
	require.NoError(t, err)

	t.Run("администратор видит любую запись", func(t *testing.T) {
		admin := types.Actor{ID: 1, Role: types.RoleAdmin}
		got, err := env.svc.GetEntry(ctx, admin, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("секция-назначение видит запись до приёма", func(t *testing.T) {
		receiver := actorInSection(200, 7)
		_, err := env.svc.GetEntry(ctx, receiver, created.ID)
		require.NoError(t, err)
	})

	t.Run("посторонняя секция не видит запись", func(t *testing.T) {
		outsider := actorInSection(400, 9)
		_, err := env.svc.GetEntry(ctx, outsider, created.ID)
		requireHTTPCode(t, err, 403)
	})

	t.Run("несуществующая запись", func(t *testing.T) {
		_, err := env.svc.GetEntry(ctx, recordClerk, 999)
		requireHTTPCode(t, err, 404)
	})
}

func TestListEntriesVisibility(t *testing.T) {
	env := newEntryServiceEnv(t)
	ctx := context.Background()

	_, _, err := env.svc.ListEntries(ctx, types.Actor{ID: 1, Role: types.RoleAdmin}, dto.EntryFilterDTO{})
	require.NoError(t, err)
	assert.Nil(t, env.entryRepo.lastVisibility)

	_, _, err = env.svc.ListEntries(ctx, actorInSection(200, 7), dto.EntryFilterDTO{})
	require.NoError(t, err)
	assert.NotNil(t, env.entryRepo.lastVisibility)
}
