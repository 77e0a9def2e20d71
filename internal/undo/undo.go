// Package undo defers destructive commits so users can cancel them
// within a short window. A delete request becomes a pending batch; the
// batch commits when its timer fires, or is discarded by an explicit
// undo before then. At most one batch is pending per user and entity
// kind, so one user's undo can never touch another user's deletes.
package undo

import (
	"sync"
	"time"

	apperrors "github.com/khademul4765/arther-hiseb-sub001/internal/errors"
	"github.com/khademul4765/arther-hiseb-sub001/internal/logger"
)

// Kind distinguishes pending batches by entity type.
type Kind string

const (
	KindAccount     Kind = "account"
	KindTransaction Kind = "transaction"
)

// CommitFunc finalizes the delete of a single entity. It is called once
// per ID in the batch after the window elapses.
type CommitFunc func(userID, id string) error

// batchKey scopes pending batches per user and kind.
type batchKey struct {
	userID string
	kind   Kind
}

type batch struct {
	userID string
	ids    []string
	commit CommitFunc
	timer  Timer
}

// Manager tracks pending delete batches. Requesting a new delete while a
// batch of the same user and kind is pending commits the prior batch
// immediately before arming the new one, so a single timer per key
// suffices.
type Manager struct {
	mu      sync.Mutex
	window  time.Duration
	sched   Scheduler
	pending map[batchKey]*batch
}

// NewManager creates a Manager with the given cancellation window.
func NewManager(window time.Duration, sched Scheduler) *Manager {
	return &Manager{
		window:  window,
		sched:   sched,
		pending: make(map[batchKey]*batch),
	}
}

// Request arms a pending delete for the given IDs. The entities stay
// fully visible and unmodified until the window elapses; commit runs only
// if no Undo arrives first.
func (m *Manager) Request(kind Kind, userID string, ids []string, commit CommitFunc) {
	key := batchKey{userID: userID, kind: kind}
	m.mu.Lock()

	if prior, ok := m.pending[key]; ok {
		// Newest action wins: finalize the prior batch now.
		prior.timer.Stop()
		delete(m.pending, key)
		m.mu.Unlock()
		m.runCommit(kind, prior)
		m.mu.Lock()
	}

	b := &batch{userID: userID, ids: ids, commit: commit}
	b.timer = m.sched.AfterFunc(m.window, func() {
		m.expire(key, b)
	})
	m.pending[key] = b
	m.mu.Unlock()
}

// Undo cancels the user's pending batch of the given kind, if any. The
// entities are left fully present and unaffected. Returns
// ErrNothingPending when no batch is armed for that user and kind.
func (m *Manager) Undo(kind Kind, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := batchKey{userID: userID, kind: kind}
	b, ok := m.pending[key]
	if !ok {
		return apperrors.ErrNothingPending
	}
	b.timer.Stop()
	delete(m.pending, key)
	return nil
}

// Pending reports whether the user has a batch of the given kind awaiting
// its window.
func (m *Manager) Pending(kind Kind, userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[batchKey{userID: userID, kind: kind}]
	return ok
}

// Flush commits every pending batch immediately. Called on shutdown so
// requested deletes are not lost.
func (m *Manager) Flush() {
	m.mu.Lock()
	batches := make(map[batchKey]*batch, len(m.pending))
	for key, b := range m.pending {
		b.timer.Stop()
		batches[key] = b
	}
	m.pending = make(map[batchKey]*batch)
	m.mu.Unlock()

	for key, b := range batches {
		m.runCommit(key.kind, b)
	}
}

// expire is the timer callback: commit the batch if it is still pending.
func (m *Manager) expire(key batchKey, b *batch) {
	m.mu.Lock()
	if m.pending[key] != b {
		// Already undone or superseded.
		m.mu.Unlock()
		return
	}
	delete(m.pending, key)
	m.mu.Unlock()

	m.runCommit(key.kind, b)
}

func (m *Manager) runCommit(kind Kind, b *batch) {
	for _, id := range b.ids {
		if err := b.commit(b.userID, id); err != nil {
			logger.Get().Errorw("pending delete commit failed",
				"kind", string(kind),
				"user_id", b.userID,
				"id", id,
				"error", err.Error(),
			)
		}
	}
}
