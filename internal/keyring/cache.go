package keyring

import "sync"

// Cache is an in-process map from internal user id to derived key. It exists
// purely to skip repeated HKDF work on hot users; entries live for the
// process lifetime and are never serialized or written anywhere.
//
// Concurrent reads are lock-shared, writes are exclusive.
type Cache struct {
	mu   sync.RWMutex
	keys map[string][]byte
}

func NewCache() *Cache {
	return &Cache{keys: make(map[string][]byte)}
}

func (c *Cache) Get(userID string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key, ok := c.keys[userID]
	return key, ok
}

func (c *Cache) Put(userID string, key []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[userID] = key
}

// Len reports the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}

// Keyring bundles the derivation engine with the process-wide cache.
type Keyring struct {
	engine *Engine
	cache  *Cache
}

func New(rootSecret []byte) (*Keyring, error) {
	engine, err := NewEngine(rootSecret)
	if err != nil {
		return nil, err
	}
	return &Keyring{engine: engine, cache: NewCache()}, nil
}

// KeyFor returns the derived key for the user, computing and caching it on
// first use. The cache is keyed by internal user id; derivation itself is
// bound to the external id.
func (k *Keyring) KeyFor(userID, externalID string) ([]byte, error) {

	if key, ok := k.cache.Get(userID); ok {
		return key, nil
	}

	key, err := k.engine.DeriveKey(externalID)
	if err != nil {
		return nil, err
	}

	k.cache.Put(userID, key)
	return key, nil
}
