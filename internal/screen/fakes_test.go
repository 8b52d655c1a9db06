package screen

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/pkg/apiclient"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward and runs due callbacks outside the clock lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

type fakeDistributionRepo struct {
	mu          sync.Mutex
	items       []models.Distribution
	listErr     error
	createErr   error
	statusErr   error
	listCalls   int
	created     []models.CreateDistributionRequest
	statusCalls []models.UpdateDistributionStatusRequest
	gate        chan struct{}
	entered     chan struct{}
}

func (r *fakeDistributionRepo) List(context.Context) ([]models.Distribution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]models.Distribution(nil), r.items...), nil
}

func (r *fakeDistributionRepo) Create(_ context.Context, req models.CreateDistributionRequest) (*models.Distribution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, req)
	if r.createErr != nil {
		return nil, r.createErr
	}
	d := models.Distribution{
		ID:         int64(len(r.items) + 100),
		Discipline: req.Discipline,
		GroupName:  req.GroupName,
		TeacherID:  req.TeacherID,
		Type:       req.Type,
		Deadline:   req.Deadline,
		Status:     models.DistributionActive,
	}
	r.items = append(r.items, d)
	return &d, nil
}

func (r *fakeDistributionRepo) UpdateStatus(ctx context.Context, _ int64, status models.DistributionStatus) error {
	if r.gate != nil {
		r.entered <- struct{}{}
		select {
		case <-r.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusCalls = append(r.statusCalls, models.UpdateDistributionStatusRequest{Status: status})
	return r.statusErr
}

func (r *fakeDistributionRepo) calls() (creates, statuses int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created), len(r.statusCalls)
}

type fakeTeacherRepo struct {
	mu        sync.Mutex
	items     []models.Teacher
	listErr   error
	updateErr error
	updates   []models.UpdateTeacherRequest
}

func (r *fakeTeacherRepo) List(context.Context) ([]models.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]models.Teacher(nil), r.items...), nil
}

func (r *fakeTeacherRepo) Update(_ context.Context, _ int64, req models.UpdateTeacherRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, req)
	return r.updateErr
}

type fakeStudentRepo struct {
	mu        sync.Mutex
	items     []models.Student
	listErr   error
	updateErr error
	updates   []models.StudentDraft
}

func (r *fakeStudentRepo) List(context.Context) ([]models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]models.Student(nil), r.items...), nil
}

func (r *fakeStudentRepo) Update(_ context.Context, _ int64, draft models.StudentDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, draft)
	return r.updateErr
}

type fakeTopicRepo struct {
	mu        sync.Mutex
	items     []models.Topic
	listErr   error
	createErr error
	created   []models.CreateTopicRequest
}

func (r *fakeTopicRepo) List(context.Context) ([]models.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]models.Topic(nil), r.items...), nil
}

func (r *fakeTopicRepo) Create(_ context.Context, req models.CreateTopicRequest) (*models.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, req)
	if r.createErr != nil {
		return nil, r.createErr
	}
	return &models.Topic{ID: 500, Title: req.Title, Type: req.Type, Source: req.Source, Status: models.TopicAvailable, Description: req.Description, Priority: req.Priority}, nil
}

type gaugeRecorder struct {
	mu   sync.Mutex
	last int
}

func (g *gaugeRecorder) SetOpenScreens(n int) {
	g.mu.Lock()
	g.last = n
	g.mu.Unlock()
}

func (g *gaugeRecorder) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func remoteFailure(status int, errText, message string) error {
	remote := &apiclient.RemoteError{StatusCode: status, ErrorText: errText, MessageText: message}
	return appErrors.Wrap(remote, appErrors.ErrUpstream.Code, status, remote.Reason())
}
