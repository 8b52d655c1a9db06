package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
)

func TestTeacherUpdateSendsFullNameAndInvalidatesCache(t *testing.T) {
	repo := &teacherRepoMock{items: []models.Teacher{{ID: 1, Name: "A"}}}
	svc := NewTeacherService(repo, newMemoryCache(), nil, nil)
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	errs, err := svc.Update(context.Background(), 1, models.TeacherDraft{Name: "Б", Department: "ИВТ", Position: "Доцент"})
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, []models.UpdateTeacherRequest{{FullName: "Б", Department: "ИВТ", Position: "Доцент"}}, repo.updated)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists)
}

func TestTeacherUpdateValidation(t *testing.T) {
	repo := &teacherRepoMock{}
	svc := NewTeacherService(repo, nil, nil, nil)
	errs, err := svc.Update(context.Background(), 1, models.TeacherDraft{Name: " "})
	require.NoError(t, err)
	assert.Equal(t, FieldErrors{"name": "ФИО обязательно"}, errs)
	assert.Empty(t, repo.updated)
}

func TestTeacherUpdateFailurePrefersErrorThenMessage(t *testing.T) {
	repo := &teacherRepoMock{updErr: remoteFailure(http.StatusBadRequest, "", "Нет доступа")}
	svc := NewTeacherService(repo, nil, nil, nil)
	_, err := svc.Update(context.Background(), 1, models.TeacherDraft{Name: "A"})
	require.Error(t, err)
	assert.Equal(t, "Ошибка при обновлении данных: Нет доступа", appErrors.FromError(err).Message)
}

func TestStudentUpdateFailureUsesMessageField(t *testing.T) {
	repo := &studentRepoMock{updErr: remoteFailure(http.StatusBadRequest, "ignored", "")}
	svc := NewStudentService(repo, nil, nil, nil)
	_, err := svc.Update(context.Background(), 1, models.StudentDraft{FullName: "A", GroupName: "G"})
	require.Error(t, err)
	assert.Equal(t, "Ошибка при обновлении данных: Request failed with status code 400", appErrors.FromError(err).Message)
}

func TestStudentUpdateValidationCollectsAll(t *testing.T) {
	repo := &studentRepoMock{}
	svc := NewStudentService(repo, nil, nil, nil)
	errs, err := svc.Update(context.Background(), 1, models.StudentDraft{})
	require.NoError(t, err)
	assert.Equal(t, FieldErrors{"full_name": "ФИО обязательно", "group_name": "Группа обязательна"}, errs)
	assert.Empty(t, repo.updated)
}

func TestTopicCreateValidation(t *testing.T) {
	repo := &topicRepoMock{}
	svc := NewTopicService(repo, nil, nil, nil)
	errs, topic, err := svc.Create(context.Background(), models.NewTopicDraft())
	require.NoError(t, err)
	assert.Nil(t, topic)
	assert.Equal(t, FieldErrors{
		"title":  "Введите название темы",
		"type":   "Выберите тип работы",
		"source": "Выберите источник темы",
	}, errs)
	assert.Empty(t, repo.created)
}

func TestTopicCreateTranslatesLabels(t *testing.T) {
	repo := &topicRepoMock{createOut: &models.Topic{ID: 4, Title: "Тема"}}
	svc := NewTopicService(repo, newMemoryCache(), nil, nil)
	draft := models.TopicDraft{Title: "Тема", Type: "ВКР бакалавра", Source: "Работодатель", Supervisor: "3", Priority: "2"}

	_, topic, err := svc.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, int64(4), topic.ID)
	require.Len(t, repo.created, 1)
	req := repo.created[0]
	assert.Equal(t, models.WorkBachelor, req.Type)
	assert.Equal(t, models.SourceEmployer, req.Source)
	require.NotNil(t, req.SupervisorID)
	assert.Equal(t, int64(3), *req.SupervisorID)
	assert.Equal(t, 2, req.Priority)
}

func TestBuildCreateRequestWithoutSupervisor(t *testing.T) {
	req := BuildCreateRequest(models.TopicDraft{Title: "T", Type: "Другая работа", Source: "Студент", Priority: "0"})
	assert.Nil(t, req.SupervisorID)
	assert.Equal(t, models.WorkOther, req.Type)
	assert.Equal(t, 0, req.Priority)
}

func TestTopicCreateFailureMessage(t *testing.T) {
	repo := &topicRepoMock{createErr: remoteFailure(http.StatusBadRequest, "", "")}
	svc := NewTopicService(repo, nil, nil, nil)
	draft := models.TopicDraft{Title: "T", Type: "ВКР магистра", Source: "Студент", Priority: "0"}
	_, _, err := svc.Create(context.Background(), draft)
	require.Error(t, err)
	assert.Equal(t, "Ошибка при добавлении темы: Ошибка при добавлении темы", appErrors.FromError(err).Message)

	repo.createErr = remoteFailure(http.StatusConflict, "Тема уже существует", "")
	_, _, err = svc.Create(context.Background(), draft)
	assert.Equal(t, "Ошибка при добавлении темы: Тема уже существует", appErrors.FromError(err).Message)
}

func TestDashboardStats(t *testing.T) {
	topics := &topicRepoMock{items: []models.Topic{{Status: models.TopicAvailable}, {Status: models.TopicReserved}, {Status: models.TopicAvailable}}}
	students := &studentRepoMock{items: []models.Student{{UserID: 1}}}
	teachers := &teacherRepoMock{listErr: transportFailure()}
	svc := NewDashboardService(topics, students, teachers, nil)

	stats, partial := svc.Stats(context.Background())
	assert.True(t, partial)
	assert.Equal(t, 3, stats.TotalTopics)
	assert.Equal(t, 2, stats.AvailableTopics)
	assert.Equal(t, 1, stats.Students)
	assert.Equal(t, 0, stats.Teachers)
}
