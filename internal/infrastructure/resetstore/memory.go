package resetstore

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const janitorInterval = time.Minute

// MemoryStore is a mutex-guarded map. A janitor goroutine drops expired
// tokens and day-old reset records until Stop is called.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]Token
	resets map[string]Reset
	now    func() time.Time
	log    *logrus.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewMemoryStore(log *logrus.Logger) *MemoryStore {
	s := &MemoryStore{
		tokens:   make(map[string]Token),
		resets:   make(map[string]Reset),
		now:      time.Now,
		log:      log,
		stopChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.janitorLoop()

	return s
}

// Stop halts the janitor. Safe to call more than once.
func (s *MemoryStore) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("Reset token janitor stopped")
	}
}

func (s *MemoryStore) SaveToken(_ context.Context, token string, t Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = t
	return nil
}

func (s *MemoryStore) TakeToken(_ context.Context, token string) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	delete(s.tokens, token)
	return &t, nil
}

func (s *MemoryStore) SaveReset(_ context.Context, id string, r Reset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[id] = r
	return nil
}

func (s *MemoryStore) janitorLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.purgeExpired()
		}
	}
}

func (s *MemoryStore) purgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purged := 0
	for token, t := range s.tokens {
		if t.Expired(now) {
			delete(s.tokens, token)
			purged++
		}
	}
	for id, r := range s.resets {
		if now.Sub(r.CreatedAt) > resetRecordTTL {
			delete(s.resets, id)
			purged++
		}
	}
	if purged > 0 {
		s.log.Debugf("Purged %d expired reset tokens and records", purged)
	}
	return purged
}
