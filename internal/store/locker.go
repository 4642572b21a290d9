package store

import "sync"

// Locker serializes read-modify-write cycles against a single persisted
// collection key. The strategy is injectable: single-writer deployments can
// keep the no-op locker, multi-writer deployments get a real mutex per key.
type Locker interface {
	Lock(key string)
	Unlock(key string)
}

// NoopLocker performs no locking. It preserves the original single-user
// behavior where concurrent mutations against the same collection may lose
// updates.
type NoopLocker struct{}

func (NoopLocker) Lock(string)   {}
func (NoopLocker) Unlock(string) {}

// KeyLocker holds one mutex per collection key.
type KeyLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyLocker() *KeyLocker {
	return &KeyLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *KeyLocker) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

func (l *KeyLocker) Lock(key string)   { l.get(key).Lock() }
func (l *KeyLocker) Unlock(key string) { l.get(key).Unlock() }
