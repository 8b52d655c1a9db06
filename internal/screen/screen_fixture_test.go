package screen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/internal/service"
)

type fixture struct {
	clock         *fakeClock
	gauge         *gaugeRecorder
	distributions *fakeDistributionRepo
	teachers      *fakeTeacherRepo
	students      *fakeStudentRepo
	topics        *fakeTopicRepo
	registry      *Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock: newFakeClock(),
		gauge: &gaugeRecorder{},
		distributions: &fakeDistributionRepo{items: []models.Distribution{
			{ID: 1, Discipline: "Математика", GroupName: "ИВТ-21", TeacherID: 1, Type: models.WorkCoursework, Deadline: "2025-01-02T00:00:00.000Z", Status: models.DistributionActive},
			{ID: 2, Discipline: "Физика", GroupName: "ИВТ-22", TeacherID: 9, Type: models.WorkMaster, Deadline: "garbage", Status: models.DistributionClosed},
		}},
		teachers: &fakeTeacherRepo{items: []models.Teacher{{ID: 1, Name: "Иванов И.И."}, {ID: 2, Name: "Петров П.П."}}},
		students: &fakeStudentRepo{items: []models.Student{{UserID: 7, Login: "s7", FullName: "Сидоров", GroupName: "ИВТ-21"}}},
		topics:   &fakeTopicRepo{items: []models.Topic{{ID: 3, Title: "Компиляторы", Type: models.WorkBachelor, Source: models.SourceTeacher, Status: models.TopicAvailable, SupervisorName: "Иванов И.И."}}},
	}

	teacherSvc := service.NewTeacherService(f.teachers, nil, nil, nil)
	studentSvc := service.NewStudentService(f.students, nil, nil, nil)
	topicSvc := service.NewTopicService(f.topics, nil, nil, nil)
	f.registry = NewRegistry(context.Background(), Deps{
		Distributions: service.NewDistributionService(f.distributions, teacherSvc, topicSvc, nil, nil, nil),
		Students:      studentSvc,
		Teachers:      teacherSvc,
		Topics:        topicSvc,
		Dashboard:     service.NewDashboardService(topicSvc, studentSvc, teacherSvc, nil),
		Metrics:       f.gauge,
		Clock:         f.clock,
		BannerTTL:     3 * time.Second,
		IdleTTL:       10 * time.Minute,
	})
	t.Cleanup(f.registry.Shutdown)
	return f
}

func open[T Screen](t *testing.T, f *fixture, session string, kind Kind) T {
	t.Helper()
	s, err := f.registry.Open(session, kind, models.User{ID: 1, FullName: "Админ Админович"})
	require.NoError(t, err)
	typed, ok := s.(T)
	require.True(t, ok)
	return typed
}
