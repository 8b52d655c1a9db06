package service

import (
	"context"
	"sync"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
)

type teacherRepoMock struct {
	mu      sync.Mutex
	items   []models.Teacher
	listErr error
	lists   int
	updated []models.UpdateTeacherRequest
	updErr  error
}

func (m *teacherRepoMock) List(ctx context.Context) ([]models.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Teacher(nil), m.items...), nil
}

func (m *teacherRepoMock) Update(ctx context.Context, id int64, req models.UpdateTeacherRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, req)
	return m.updErr
}

type studentRepoMock struct {
	items   []models.Student
	listErr error
	lists   int
	updated []models.StudentDraft
	updErr  error
}

func (m *studentRepoMock) List(ctx context.Context) ([]models.Student, error) {
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Student(nil), m.items...), nil
}

func (m *studentRepoMock) Update(ctx context.Context, userID int64, draft models.StudentDraft) error {
	m.updated = append(m.updated, draft)
	return m.updErr
}

type topicRepoMock struct {
	items     []models.Topic
	listErr   error
	lists     int
	created   []models.CreateTopicRequest
	createOut *models.Topic
	createErr error
}

func (m *topicRepoMock) List(ctx context.Context) ([]models.Topic, error) {
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Topic(nil), m.items...), nil
}

func (m *topicRepoMock) Create(ctx context.Context, req models.CreateTopicRequest) (*models.Topic, error) {
	m.created = append(m.created, req)
	return m.createOut, m.createErr
}

type distributionRepoMock struct {
	mu        sync.Mutex
	items     []models.Distribution
	listErr   error
	created   []models.CreateDistributionRequest
	createOut *models.Distribution
	createErr error
	patched   []models.DistributionStatus
	patchErr  error
	patchGate chan struct{}
}

func (m *distributionRepoMock) List(ctx context.Context) ([]models.Distribution, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Distribution(nil), m.items...), nil
}

func (m *distributionRepoMock) Create(ctx context.Context, req models.CreateDistributionRequest) (*models.Distribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, req)
	return m.createOut, m.createErr
}

func (m *distributionRepoMock) UpdateStatus(ctx context.Context, id int64, status models.DistributionStatus) error {
	if m.patchGate != nil {
		<-m.patchGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patched = append(m.patched, status)
	return m.patchErr
}

func (m *distributionRepoMock) patchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.patched)
}
