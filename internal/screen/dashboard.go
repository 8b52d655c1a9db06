package screen

import (
	"context"

	"github.com/noah-isme/topic-distribution-admin/internal/dto"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
)

// StatsProvider computes the main page numbers.
type StatsProvider interface {
	Stats(ctx context.Context) (dto.DashboardStats, bool)
}

// DashboardScreen is the main page: greeting and stat cards.
type DashboardScreen struct {
	*Base
	stats StatsProvider
	user  models.User

	current dto.DashboardStats
	partial bool
}

func newDashboard(b *Base, stats StatsProvider, user models.User) *DashboardScreen {
	return &DashboardScreen{Base: b, stats: stats, user: user}
}

// Load computes the stats.
func (s *DashboardScreen) Load(ctx context.Context) error {
	s.mu.Lock()
	if err := s.enterLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	opCtx, done := s.operation(ctx)
	defer done()
	stats, partial := s.stats.Stats(opCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return appErrors.ErrScreenClosed
	}
	s.current = stats
	s.partial = partial
	return nil
}

// Render produces the view of the current state.
func (s *DashboardScreen) Render() dto.DashboardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dto.DashboardView{
		ScreenID: s.id,
		Greeting: dto.Greeting(s.user.FullName),
		Stats:    s.current.Cards(),
		Partial:  s.partial,
	}
}
