package oauth2

import (
	"context"
	"sync"
	"time"
)

// DefaultStateTTL is how long an issued state stays redeemable.
const DefaultStateTTL = 10 * time.Minute

// StateStore records issued state nonces between the authorization redirect
// and the callback.
//
// Implementations must be safe for concurrent use: many flows run at once.
//
// The typical flow is:
//  1. Store() - record the nonce before redirecting to the provider
//  2. Validate() - consume it when the callback arrives
type StateStore interface {
	// Store records a nonce. It stays valid until consumed or until the
	// store's TTL elapses.
	Store(ctx context.Context, state string) error

	// Validate consumes a nonce and reports whether it was present and
	// unexpired. A second call for the same nonce returns false.
	Validate(ctx context.Context, state string) (bool, error)
}

var _ StateStore = &MemoryStateStore{}

// MemoryStateStore keeps nonces in process memory with a TTL. Expired
// entries are swept by a background goroutine; call Close to stop it.
//
// Suitable for development and single-instance deployments. Use
// RedisStateStore when callbacks may land on another instance.
type MemoryStateStore struct {
	mx     sync.Mutex
	ttl    time.Duration
	states map[string]time.Time
	now    func() time.Time
	closed chan struct{}
	once   sync.Once
}

// NewMemoryStateStore returns a store with the default TTL.
func NewMemoryStateStore() *MemoryStateStore {
	return NewMemoryStateStoreWithTTL(DefaultStateTTL)
}

// NewMemoryStateStoreWithTTL returns a store whose entries expire after ttl.
// A non-positive ttl selects DefaultStateTTL.
func NewMemoryStateStoreWithTTL(ttl time.Duration) *MemoryStateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}

	s := &MemoryStateStore{
		ttl:    ttl,
		states: make(map[string]time.Time),
		now:    time.Now,
		closed: make(chan struct{}),
	}
	go s.cleanupLoop(cleanupInterval(ttl))
	return s
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return ttl
	}
	return time.Minute
}

func (s *MemoryStateStore) Store(ctx context.Context, state string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-s.closed:
		return ErrStoreClosed
	default:
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	s.states[state] = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryStateStore) Validate(ctx context.Context, state string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	exp, exists := s.states[state]
	if !exists {
		return false, nil
	}

	// consume-once, expired or not
	delete(s.states, state)
	return !s.now().After(exp), nil
}

// Len returns the number of stored, possibly expired, states.
func (s *MemoryStateStore) Len() int {
	s.mx.Lock()
	defer s.mx.Unlock()

	return len(s.states)
}

func (s *MemoryStateStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.closed:
			return
		}
	}
}

func (s *MemoryStateStore) cleanup() {
	s.mx.Lock()
	defer s.mx.Unlock()

	now := s.now()
	for state, exp := range s.states {
		if now.After(exp) {
			delete(s.states, state)
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (s *MemoryStateStore) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}
