package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/topic-distribution-admin/internal/dto"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
)

type distributionFixture struct {
	repo     *distributionRepoMock
	teachers *teacherRepoMock
	topics   *topicRepoMock
	svc      *DistributionService
}

func newDistributionFixture() *distributionFixture {
	f := &distributionFixture{
		repo: &distributionRepoMock{items: []models.Distribution{
			{ID: 1, Discipline: "Math", GroupName: "G1", TeacherID: 1, Type: models.WorkCoursework, Status: models.DistributionActive},
		}},
		teachers: &teacherRepoMock{items: []models.Teacher{{ID: 1, Name: "Иванов"}, {ID: 2, Name: "Петров"}}},
		topics:   &topicRepoMock{items: []models.Topic{{ID: 10, Title: "T"}}},
	}
	cacheSvc := newMemoryCache()
	f.svc = NewDistributionService(f.repo,
		NewTeacherService(f.teachers, cacheSvc, nil, nil),
		NewTopicService(f.topics, cacheSvc, nil, nil),
		nil, NewMetricsService(), nil)
	return f
}

func validDraft() models.DistributionDraft {
	return models.DistributionDraft{Discipline: "Physics", GroupName: "G2", TeacherID: "2", Type: "bachelor", Deadline: "2025-01-01"}
}

func TestDistributionLoadReadsAllCollections(t *testing.T) {
	f := newDistributionFixture()
	data, err := f.svc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Distributions, 1)
	assert.Len(t, data.Teachers, 2)
	assert.Len(t, data.Topics, 1)
}

func TestDistributionLoadAnyFailureIsOneError(t *testing.T) {
	f := newDistributionFixture()
	f.topics.listErr = remoteFailure(http.StatusInternalServerError, "db down", "")

	data, err := f.svc.Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, dto.DistributionLoadError, appErrors.FromError(err).Message)
}

func TestDistributionLoadCachesReferenceCollectionsOnly(t *testing.T) {
	f := newDistributionFixture()
	_, err := f.svc.Load(context.Background())
	require.NoError(t, err)
	f.repo.items = append(f.repo.items, models.Distribution{ID: 2})

	data, err := f.svc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Distributions, 2)
	assert.Equal(t, 1, f.teachers.lists)
	assert.Equal(t, 1, f.topics.lists)
}

func TestValidateDraftCollectsAllErrors(t *testing.T) {
	f := newDistributionFixture()
	errs := f.svc.ValidateDraft(models.NewDistributionDraft(), nil)
	assert.Equal(t, FieldErrors{
		"discipline": "Дисциплина обязательна",
		"group_name": "Группа обязательна",
		"teacher_id": "Преподаватель обязателен",
		"deadline":   "Срок выполнения обязателен",
	}, errs)
}

func TestValidateDraftTreatsWhitespaceAsBlank(t *testing.T) {
	f := newDistributionFixture()
	draft := validDraft()
	draft.Discipline = "   "
	errs := f.svc.ValidateDraft(draft, nil)
	assert.Equal(t, FieldErrors{"discipline": "Дисциплина обязательна"}, errs)
}

func TestValidateDraftLeavesTypeUnchecked(t *testing.T) {
	f := newDistributionFixture()
	draft := validDraft()
	draft.Type = "seminar"
	assert.Empty(t, f.svc.ValidateDraft(draft, nil))

	req, err := BuildCreateDistributionRequest(draft)
	require.NoError(t, err)
	assert.Equal(t, models.WorkType("seminar"), req.Type)
}

func TestCreateInvalidDraftSendsNothing(t *testing.T) {
	f := newDistributionFixture()
	draft := validDraft()
	draft.GroupName = ""

	errs, created, err := f.svc.Create(context.Background(), draft, nil)
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Equal(t, FieldErrors{"group_name": "Группа обязательна"}, errs)
	assert.Empty(t, f.repo.created)
}

func TestCreateRejectsTeacherOutsideSnapshot(t *testing.T) {
	f := newDistributionFixture()
	draft := validDraft()
	draft.TeacherID = "42"

	errs, _, err := f.svc.Create(context.Background(), draft, f.teachers.items)
	require.NoError(t, err)
	assert.Equal(t, FieldErrors{"teacher_id": teacherUnknownMessage}, errs)
	assert.Empty(t, f.repo.created)
}

func TestCreateNormalisesDeadlineAndTeacherID(t *testing.T) {
	f := newDistributionFixture()
	f.repo.createOut = &models.Distribution{ID: 7}

	errs, created, err := f.svc.Create(context.Background(), validDraft(), f.teachers.items)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, int64(7), created.ID)
	require.Len(t, f.repo.created, 1)
	assert.Equal(t, models.CreateDistributionRequest{
		Discipline: "Physics",
		GroupName:  "G2",
		TeacherID:  2,
		Type:       models.WorkBachelor,
		Deadline:   "2025-01-01T00:00:00.000Z",
	}, f.repo.created[0])
}

func TestCreateRemoteFailureMessage(t *testing.T) {
	f := newDistributionFixture()
	f.repo.createErr = remoteFailure(http.StatusBadRequest, "Группа не существует", "")

	_, _, err := f.svc.Create(context.Background(), validDraft(), nil)
	require.Error(t, err)
	assert.Equal(t, "Ошибка при создании распределения: Группа не существует", appErrors.FromError(err).Message)

	f.repo.createErr = transportFailure()
	_, _, err = f.svc.Create(context.Background(), validDraft(), nil)
	assert.Equal(t, "Ошибка при создании распределения: Network Error", appErrors.FromError(err).Message)
}

func TestNormalizeDeadline(t *testing.T) {
	out, err := NormalizeDeadline("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T00:00:00.000Z", out)

	out, err = NormalizeDeadline("2025-06-30T21:00:00+03:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-30T18:00:00.000Z", out)

	_, err = NormalizeDeadline("31.12.2025")
	assert.Error(t, err)
}

type statusMap struct {
	mu       sync.Mutex
	statuses map[int64]models.DistributionStatus
}

func newStatusMap(statuses map[int64]models.DistributionStatus) *statusMap {
	return &statusMap{statuses: statuses}
}

func (m *statusMap) StatusOf(id int64) (models.DistributionStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.statuses[id]
	return status, ok
}

func (m *statusMap) PatchStatus(id int64, status models.DistributionStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[id] = status
}

func TestToggleStatusSendsOpposite(t *testing.T) {
	f := newDistributionFixture()
	local := newStatusMap(map[int64]models.DistributionStatus{1: models.DistributionActive})

	next, err := f.svc.ToggleStatus(context.Background(), 1, local)
	require.NoError(t, err)
	assert.Equal(t, models.DistributionClosed, next)

	next, err = f.svc.ToggleStatus(context.Background(), 1, local)
	require.NoError(t, err)
	assert.Equal(t, models.DistributionActive, next)
	assert.Equal(t, []models.DistributionStatus{models.DistributionClosed, models.DistributionActive}, f.repo.patched)

	status, _ := local.StatusOf(1)
	assert.Equal(t, models.DistributionActive, status)
}

func TestToggleStatusUnknownID(t *testing.T) {
	f := newDistributionFixture()
	_, err := f.svc.ToggleStatus(context.Background(), 7, newStatusMap(map[int64]models.DistributionStatus{}))
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, f.repo.patched)
	assert.False(t, f.svc.Toggling(7))
}

func TestToggleStatusFailure(t *testing.T) {
	f := newDistributionFixture()
	f.repo.patchErr = transportFailure()
	local := newStatusMap(map[int64]models.DistributionStatus{1: models.DistributionActive})

	_, err := f.svc.ToggleStatus(context.Background(), 1, local)
	require.Error(t, err)
	assert.Equal(t, dto.DistributionToggleError, appErrors.FromError(err).Message)
	assert.False(t, f.svc.Toggling(1))

	status, _ := local.StatusOf(1)
	assert.Equal(t, models.DistributionActive, status)
}

func TestToggleStatusRejectsConcurrentToggle(t *testing.T) {
	f := newDistributionFixture()
	f.repo.patchGate = make(chan struct{})
	local := newStatusMap(map[int64]models.DistributionStatus{1: models.DistributionActive})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.svc.ToggleStatus(context.Background(), 1, local)
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool { return f.svc.Toggling(1) }, time.Second, time.Millisecond)
	_, err := f.svc.ToggleStatus(context.Background(), 1, local)
	assert.True(t, appErrors.Is(err, appErrors.ErrToggleInFlight))

	close(f.repo.patchGate)
	wg.Wait()
	assert.Equal(t, 1, f.repo.patchCount())
	assert.False(t, f.svc.Toggling(1))
}

func TestToggleStatusPatchesBeforeReleasingSlot(t *testing.T) {
	f := newDistributionFixture()
	local := &observingStatusMap{statusMap: newStatusMap(map[int64]models.DistributionStatus{1: models.DistributionActive}), svc: f.svc}

	_, err := f.svc.ToggleStatus(context.Background(), 1, local)
	require.NoError(t, err)
	assert.True(t, local.heldDuringPatch)

	// A toggle that starts after the first one returns reads the patched
	// status, so it never resends the same value.
	_, err = f.svc.ToggleStatus(context.Background(), 1, local)
	require.NoError(t, err)
	assert.Equal(t, []models.DistributionStatus{models.DistributionClosed, models.DistributionActive}, f.repo.patched)
}

type observingStatusMap struct {
	*statusMap
	svc             *DistributionService
	heldDuringPatch bool
}

func (m *observingStatusMap) PatchStatus(id int64, status models.DistributionStatus) {
	m.heldDuringPatch = m.svc.Toggling(id)
	m.statusMap.PatchStatus(id, status)
}
