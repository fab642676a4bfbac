package usecase

import "sync"

// KeyedMutex serializes mutations per lead ID. The chat turn path and the
// classification worker share one instance, which also prevents two
// concurrent Hot classifications from double-drafting a meeting.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyedMutex) Lock(key string) {
	k.get(key).Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	k.get(key).Unlock()
}

func (k *KeyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
