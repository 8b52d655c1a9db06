package screen

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
	"github.com/noah-isme/topic-distribution-admin/pkg/middleware/requestid"
)

// Kind names a screen of the console.
type Kind string

const (
	KindMain         Kind = "main"
	KindTopics       Kind = "topics"
	KindStudents     Kind = "students"
	KindTeachers     Kind = "teachers"
	KindDistribution Kind = "distribution"
)

// ParseKind resolves a route section into a screen kind.
func ParseKind(section string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(section))); k {
	case KindMain, KindTopics, KindStudents, KindTeachers, KindDistribution:
		return k, true
	default:
		return "", false
	}
}

// Screen is the server-side state of one open view.
type Screen interface {
	ID() string
	Kind() Kind
	LastSeen() time.Time
	Closed() bool
	Close()
}

// Base carries what every screen shares: identity, lifetime context,
// mutex and the auto-clearing success banner.
//
// Methods that call the remote API take the lock only to read inputs and
// to apply results; the call itself runs unlocked.
type Base struct {
	id     string
	kind   Kind
	ctx    context.Context
	cancel context.CancelFunc
	clock  Clock
	ttl    time.Duration
	logger *zap.Logger

	mu          sync.Mutex
	closed      bool
	lastSeen    time.Time
	banner      string
	bannerGen   uint64
	bannerTimer Timer
}

func newBase(parent context.Context, kind Kind, clock Clock, bannerTTL time.Duration, logger *zap.Logger) *Base {
	if clock == nil {
		clock = RealClock()
	}
	if bannerTTL <= 0 {
		bannerTTL = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	b := &Base{
		id:       uuid.NewString(),
		kind:     kind,
		ctx:      ctx,
		cancel:   cancel,
		clock:    clock,
		ttl:      bannerTTL,
		lastSeen: clock.Now(),
	}
	b.logger = logger.With(zap.String("screen_id", b.id), zap.String("screen", string(kind)))
	context.AfterFunc(ctx, b.Close)
	return b
}

// ID identifies this screen instance.
func (b *Base) ID() string { return b.id }

// Kind reports which view the screen backs.
func (b *Base) Kind() Kind { return b.kind }

// LastSeen is the time of the last operation.
func (b *Base) LastSeen() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen
}

// Closed reports whether the screen was torn down.
func (b *Base) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Close tears the screen down and cancels its in-flight calls.
func (b *Base) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	if b.bannerTimer != nil {
		b.bannerTimer.Stop()
		b.bannerTimer = nil
	}
	b.mu.Unlock()
	b.cancel()
	b.logger.Debug("screen closed")
}

// operation derives the context for one remote call. It ends when either
// the screen or the caller's request ends.
func (b *Base) operation(reqCtx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(b.ctx)
	if id := requestid.FromContext(reqCtx); id != "" {
		ctx = requestid.WithContext(ctx, id)
	}
	stop := context.AfterFunc(reqCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// enterLocked marks activity; it must be called with mu held.
func (b *Base) enterLocked() error {
	if b.closed {
		return appErrors.ErrScreenClosed
	}
	b.lastSeen = b.clock.Now()
	return nil
}

// showBannerLocked shows text until the banner duration elapses. A newer
// banner restarts the countdown.
func (b *Base) showBannerLocked(text string) {
	b.banner = text
	b.bannerGen++
	gen := b.bannerGen
	if b.bannerTimer != nil {
		b.bannerTimer.Stop()
	}
	b.bannerTimer = b.clock.AfterFunc(b.ttl, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.bannerGen == gen {
			b.banner = ""
			b.bannerTimer = nil
		}
	})
}

func (b *Base) clearBannerLocked() {
	b.banner = ""
	b.bannerGen++
	if b.bannerTimer != nil {
		b.bannerTimer.Stop()
		b.bannerTimer = nil
	}
}

func unknownField(name string) error {
	return appErrors.Clone(appErrors.ErrValidation, "unknown field "+name)
}

func copyErrors(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
