package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bashkirian/cutline-analytics/internal/ingest"
	"github.com/bashkirian/cutline-analytics/pkg/models"
)

// ErrSuperseded is returned from Refresh when a newer refresh was issued
// while this one was in flight. The late result is discarded.
var ErrSuperseded = errors.New("refresh superseded by a newer request")

// Acquirer obtains the event set for a new session, substituting the
// synthetic fallback on any feed failure.
type Acquirer interface {
	Acquire(ctx context.Context, sessionID string) ingest.Acquisition
}

// Notifier is told whenever a new session is installed.
type Notifier interface {
	SessionRefreshed(s models.Session)
}

// Manager owns the current session. Sessions are immutable: a refresh
// replaces the whole session, and every derived view is recomputed from
// whatever Current returns at the time.
type Manager struct {
	store    Store
	acquirer Acquirer
	notifier Notifier
	log      *zap.Logger

	// Monotonic request counter. A refresh whose id is no longer the latest
	// when its acquisition lands is dropped: last-requested wins, not
	// first-to-complete.
	requests atomic.Uint64

	mu      sync.RWMutex
	current *models.Session
}

func NewManager(store Store, acquirer Acquirer, log *zap.Logger) *Manager {
	return &Manager{
		store:    store,
		acquirer: acquirer,
		log:      log,
	}
}

// SetNotifier registers the refresh listener. Call before serving traffic.
func (m *Manager) SetNotifier(n Notifier) {
	m.notifier = n
}

// Current returns the active session, or nil while none has been acquired.
// Callers must treat the returned session as read-only.
func (m *Manager) Current() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Refresh acquires a new session and installs it unless a newer refresh was
// requested meanwhile. The session id seeds the synthetic generator when the
// feed is down, so retrying a failed feed yields fresh-looking demo data
// while a given session stays reproducible.
func (m *Manager) Refresh(ctx context.Context) (*models.Session, error) {
	reqID := m.requests.Add(1)
	sessionID := uuid.New().String()

	acq := m.acquirer.Acquire(ctx, sessionID)
	sess := &models.Session{
		ID:              sessionID,
		Events:          acq.Events,
		DurationSeconds: models.SessionDurationSeconds,
		Synthetic:       acq.Synthetic,
		CreatedAt:       time.Now().UTC(),
	}

	m.mu.Lock()
	if reqID != m.requests.Load() {
		m.mu.Unlock()
		m.log.Info("discarding stale session refresh",
			zap.String("session_id", sessionID),
			zap.Uint64("request_id", reqID))
		return nil, ErrSuperseded
	}
	m.current = sess
	m.mu.Unlock()

	if err := m.store.Save(ctx, *sess); err != nil {
		// Persistence is best-effort; the in-memory session already serves.
		m.log.Warn("failed to persist session", zap.Error(err))
	}

	m.log.Info("session installed",
		zap.String("session_id", sess.ID),
		zap.Int("events", len(sess.Events)),
		zap.Bool("synthetic", sess.Synthetic))

	if m.notifier != nil {
		m.notifier.SessionRefreshed(*sess)
	}
	return sess, nil
}

// Restore loads the last persisted session at startup. It never overwrites a
// session installed by a refresh that raced it.
func (m *Manager) Restore(ctx context.Context) error {
	sess, err := m.store.Latest(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		m.current = sess
		m.log.Info("session restored from store",
			zap.String("session_id", sess.ID),
			zap.Int("events", len(sess.Events)))
	}
	return nil
}
