package usecase

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
)

type schedulerEntry struct {
	timer      *time.Timer
	processing bool
}

// DispatchScheduler holds at most one pending dispatch timer per campaign,
// plus the processing flag that keeps phase execution at-most-once per
// campaign. It is a cache of what this process believes is pending; the
// persisted next_dispatch_at column is the source of truth and the worker
// re-derives timers from it after a restart.
type DispatchScheduler struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*schedulerEntry
}

// NewDispatchScheduler creates an empty scheduler
func NewDispatchScheduler() *DispatchScheduler {
	return &DispatchScheduler{entries: make(map[uuid.UUID]*schedulerEntry)}
}

func (s *DispatchScheduler) entry(id uuid.UUID) *schedulerEntry {
	e, ok := s.entries[id]
	if !ok {
		e = &schedulerEntry{}
		s.entries[id] = e
	}
	return e
}

func (s *DispatchScheduler) cleanup(id uuid.UUID) {
	if e, ok := s.entries[id]; ok && e.timer == nil && !e.processing {
		delete(s.entries, id)
	}
}

// Schedule arms a one-shot timer for the campaign. A campaign that already
// has a pending timer is never double-armed; the call is a no-op and
// returns false. The timer clears its own registration before running fire.
func (s *DispatchScheduler) Schedule(id uuid.UUID, delay time.Duration, fire func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(id)
	if e.timer != nil {
		return false
	}
	e.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if e, ok := s.entries[id]; ok {
			e.timer = nil
			s.cleanup(id)
		}
		s.mu.Unlock()
		fire()
	})
	return true
}

// Cancel stops a still-pending timer and drops the campaign's entry. A
// timer whose callback already started runs to completion.
func (s *DispatchScheduler) Cancel(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.timer == nil {
		return false
	}
	stopped := e.timer.Stop()
	e.timer = nil
	s.cleanup(id)
	return stopped
}

// HasTimer reports whether a dispatch timer is pending for the campaign
func (s *DispatchScheduler) HasTimer(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return ok && e.timer != nil
}

// TryAcquire sets the processing flag for the campaign. It returns false
// when a phase is already running, in which case the caller must skip.
func (s *DispatchScheduler) TryAcquire(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(id)
	if e.processing {
		return false
	}
	e.processing = true
	return true
}

// Release clears the processing flag set by TryAcquire
func (s *DispatchScheduler) Release(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		e.processing = false
		s.cleanup(id)
	}
}

// Scheduled returns the campaign ids with an in-memory entry
func (s *DispatchScheduler) Scheduled() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	return ids
}

// RandomInterval draws a uniformly random whole number of minutes in
// [minMinutes, maxMinutes] inclusive.
func (s *DispatchScheduler) RandomInterval(minMinutes, maxMinutes int) time.Duration {
	if minMinutes >= maxMinutes {
		return time.Duration(minMinutes) * time.Minute
	}
	diff := maxMinutes - minMinutes + 1
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(diff)))
	return time.Duration(minMinutes+int(n.Int64())) * time.Minute
}
