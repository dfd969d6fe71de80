package usecase

import "sync"

// keyedMutex serializes read-modify-write sequences per room. Different
// rooms never contend.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Lock acquires the key's mutex and returns it. The caller unlocks the
// returned instance, which stays valid even if the key is forgotten
// while held.
func (k *keyedMutex) Lock(key string) *sync.Mutex {
	m := k.get(key)
	m.Lock()
	return m
}

// Forget drops the entry once its room is deleted. A holder of the old
// mutex still unlocks the instance it got from Lock.
func (k *keyedMutex) Forget(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	delete(k.locks, key)
}
