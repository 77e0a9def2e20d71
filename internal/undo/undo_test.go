package undo

import (
	"sync"
	"testing"
	"time"

	"github.com/khademul4765/arther-hiseb-sub001/internal/testutil"
)

// fakeTimer records whether it was stopped; the fake scheduler fires it
// explicitly instead of waiting on the clock.
type fakeTimer struct {
	mu      sync.Mutex
	stopped bool
	fn      func()
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := t.stopped
	t.stopped = true
	return !was
}

func (t *fakeTimer) fire() {
	t.mu.Lock()
	stopped := t.stopped
	t.mu.Unlock()
	if !stopped {
		t.fn()
	}
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{fn: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

// recorder collects committed IDs.
type recorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *recorder) commit(userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
	return nil
}

func (r *recorder) committed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func TestRequestCommitsAfterWindow(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager(5*time.Second, sched)
	rec := &recorder{}

	m.Request(KindTransaction, "user-1", []string{"tx-1"}, rec.commit)

	if !m.Pending(KindTransaction, "user-1") {
		t.Fatal("expected a pending batch")
	}
	if len(rec.committed()) != 0 {
		t.Fatal("nothing should commit before the window elapses")
	}

	sched.last().fire()

	if m.Pending(KindTransaction, "user-1") {
		t.Error("batch should no longer be pending after expiry")
	}
	got := rec.committed()
	if len(got) != 1 || got[0] != "tx-1" {
		t.Errorf("expected commit of tx-1, got %v", got)
	}
}

func TestUndoCancelsPendingBatch(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager(5*time.Second, sched)
	rec := &recorder{}

	m.Request(KindAccount, "user-1", []string{"acc-1"}, rec.commit)
	testutil.AssertNoError(t, m.Undo(KindAccount, "user-1"))

	if m.Pending(KindAccount, "user-1") {
		t.Error("undo should clear the pending batch")
	}

	// A late timer callback must be a no-op.
	sched.last().fire()
	if len(rec.committed()) != 0 {
		t.Errorf("undone batch must never commit, got %v", rec.committed())
	}
}

func TestUndoWithoutPendingBatch(t *testing.T) {
	m := NewManager(5*time.Second, &fakeScheduler{})

	err := m.Undo(KindTransaction, "user-1")
	testutil.AssertAppError(t, err, "NOTHING_PENDING")
}

func TestNewRequestCommitsPriorBatch(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager(5*time.Second, sched)
	rec := &recorder{}

	m.Request(KindTransaction, "user-1", []string{"tx-1"}, rec.commit)
	first := sched.last()
	m.Request(KindTransaction, "user-1", []string{"tx-2"}, rec.commit)

	// The first batch was superseded and finalized immediately.
	got := rec.committed()
	if len(got) != 1 || got[0] != "tx-1" {
		t.Fatalf("expected immediate commit of tx-1, got %v", got)
	}
	if !first.stopped {
		t.Error("prior timer should be stopped")
	}

	// Undo now cancels only the second batch.
	testutil.AssertNoError(t, m.Undo(KindTransaction, "user-1"))
	sched.last().fire()
	got = rec.committed()
	if len(got) != 1 {
		t.Errorf("tx-2 was undone and must not commit, got %v", got)
	}
}

func TestKindsAreIndependent(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager(5*time.Second, sched)
	accRec := &recorder{}
	txRec := &recorder{}

	m.Request(KindAccount, "user-1", []string{"acc-1"}, accRec.commit)
	m.Request(KindTransaction, "user-1", []string{"tx-1"}, txRec.commit)

	// The account batch is untouched by the transaction request.
	if len(accRec.committed()) != 0 {
		t.Errorf("account batch should still be pending, got %v", accRec.committed())
	}

	testutil.AssertNoError(t, m.Undo(KindAccount, "user-1"))
	if !m.Pending(KindTransaction, "user-1") {
		t.Error("transaction batch should survive an account undo")
	}
}

func TestUsersAreIsolated(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager(5*time.Second, sched)
	aRec := &recorder{}
	bRec := &recorder{}

	m.Request(KindTransaction, "user-a", []string{"tx-a"}, aRec.commit)

	// Another user's undo must not touch this batch.
	err := m.Undo(KindTransaction, "user-b")
	testutil.AssertAppError(t, err, "NOTHING_PENDING")
	if !m.Pending(KindTransaction, "user-a") {
		t.Fatal("user-a's batch should survive user-b's undo")
	}

	// Another user's new delete must not commit this batch early.
	m.Request(KindTransaction, "user-b", []string{"tx-b"}, bRec.commit)
	if len(aRec.committed()) != 0 {
		t.Fatalf("user-a's batch committed early, got %v", aRec.committed())
	}
	if !m.Pending(KindTransaction, "user-a") || !m.Pending(KindTransaction, "user-b") {
		t.Fatal("both users should have a pending batch")
	}

	// Each undo clears only the caller's batch.
	testutil.AssertNoError(t, m.Undo(KindTransaction, "user-a"))
	if !m.Pending(KindTransaction, "user-b") {
		t.Error("user-b's batch should survive user-a's undo")
	}
}

func TestBatchCommitsAllIDs(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager(5*time.Second, sched)
	rec := &recorder{}

	m.Request(KindTransaction, "user-1", []string{"tx-1", "tx-2", "tx-3"}, rec.commit)
	sched.last().fire()

	got := rec.committed()
	if len(got) != 3 {
		t.Fatalf("expected 3 commits, got %v", got)
	}
}

func TestFlushCommitsEverything(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager(5*time.Second, sched)
	rec := &recorder{}

	m.Request(KindAccount, "user-1", []string{"acc-1"}, rec.commit)
	m.Request(KindTransaction, "user-1", []string{"tx-1"}, rec.commit)

	m.Flush()

	if len(rec.committed()) != 2 {
		t.Errorf("expected both batches committed, got %v", rec.committed())
	}
	if m.Pending(KindAccount, "user-1") || m.Pending(KindTransaction, "user-1") {
		t.Error("nothing should remain pending after Flush")
	}

	// Late timer callbacks after Flush are no-ops.
	for _, timer := range sched.timers {
		timer.fire()
	}
	if len(rec.committed()) != 2 {
		t.Errorf("flushed batches must not commit twice, got %v", rec.committed())
	}
}

func TestRealSchedulerFires(t *testing.T) {
	m := NewManager(10*time.Millisecond, NewScheduler())
	done := make(chan string, 1)

	m.Request(KindTransaction, "user-1", []string{"tx-1"}, func(userID, id string) error {
		done <- id
		return nil
	})

	select {
	case id := <-done:
		if id != "tx-1" {
			t.Errorf("expected tx-1, got %s", id)
		}
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}
