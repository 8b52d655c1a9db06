package screen

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
)

// ScreenGauge receives the number of open screens.
type ScreenGauge interface {
	SetOpenScreens(n int)
}

// Deps bundles the collaborators screens are built from.
type Deps struct {
	Distributions DistributionService
	Students      StudentService
	Teachers      TeacherService
	Topics        TopicService
	Dashboard     StatsProvider
	Metrics       ScreenGauge
	Clock         Clock
	BannerTTL     time.Duration
	IdleTTL       time.Duration
	Logger        *zap.Logger
}

// Registry keeps the single active screen of every session. Opening a
// screen tears down the one it replaces.
type Registry struct {
	ctx    context.Context
	cancel context.CancelFunc
	deps   Deps

	mu       sync.Mutex
	sessions map[string]Screen
}

// NewRegistry creates a registry whose screens end with parent.
func NewRegistry(parent context.Context, deps Deps) *Registry {
	if deps.Clock == nil {
		deps.Clock = RealClock()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.IdleTTL <= 0 {
		deps.IdleTTL = 30 * time.Minute
	}
	ctx, cancel := context.WithCancel(parent)
	return &Registry{ctx: ctx, cancel: cancel, deps: deps, sessions: make(map[string]Screen)}
}

// Open replaces the session's active screen with a fresh one of kind.
func (r *Registry) Open(sessionID string, kind Kind, user models.User) (Screen, error) {
	if sessionID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	base := newBase(r.ctx, kind, r.deps.Clock, r.deps.BannerTTL, r.deps.Logger)
	var s Screen
	switch kind {
	case KindMain:
		s = newDashboard(base, r.deps.Dashboard, user)
	case KindTopics:
		s = newTopicBank(base, r.deps.Topics, r.deps.Teachers)
	case KindStudents:
		s = newStudentsList(base, r.deps.Students)
	case KindTeachers:
		s = newTeachersList(base, r.deps.Teachers)
	case KindDistribution:
		s = newDistributionManager(base, r.deps.Distributions)
	default:
		base.Close()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown screen "+string(kind))
	}

	r.mu.Lock()
	prev := r.sessions[sessionID]
	r.sessions[sessionID] = s
	open := len(r.sessions)
	r.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	r.publish(open)
	return s, nil
}

// Current returns the session's active screen if it matches kind and id.
// A stale id means the screen was replaced or closed.
func (r *Registry) Current(sessionID string, kind Kind, screenID string) (Screen, error) {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	r.mu.Unlock()
	if !ok || s.Kind() != kind || (screenID != "" && s.ID() != screenID) || s.Closed() {
		return nil, appErrors.ErrScreenClosed
	}
	return s, nil
}

// Lookup fetches the session's active screen as a concrete type.
func Lookup[T Screen](r *Registry, sessionID string, kind Kind, screenID string) (T, error) {
	var zero T
	s, err := r.Current(sessionID, kind, screenID)
	if err != nil {
		return zero, err
	}
	typed, ok := s.(T)
	if !ok {
		return zero, appErrors.ErrScreenClosed
	}
	return typed, nil
}

// CloseSession tears down the session's screen, if any.
func (r *Registry) CloseSession(sessionID string) {
	r.mu.Lock()
	s := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	open := len(r.sessions)
	r.mu.Unlock()
	if s != nil {
		s.Close()
	}
	r.publish(open)
}

// Sweep closes screens idle longer than the idle TTL and returns how many
// it removed.
func (r *Registry) Sweep() int {
	cutoff := r.deps.Clock.Now().Add(-r.deps.IdleTTL)
	var stale []Screen
	r.mu.Lock()
	for sid, s := range r.sessions {
		if s.Closed() || s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, sid)
		}
	}
	open := len(r.sessions)
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	r.publish(open)
	if len(stale) > 0 {
		r.deps.Logger.Debug("swept idle screens", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Run sweeps periodically until ctx ends.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Len reports the number of open screens.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Shutdown closes every screen.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.sessions = make(map[string]Screen)
	r.mu.Unlock()
	r.cancel()
	r.publish(0)
}

func (r *Registry) publish(open int) {
	if r.deps.Metrics != nil {
		r.deps.Metrics.SetOpenScreens(open)
	}
}
