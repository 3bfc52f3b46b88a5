// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import lru "github.com/hashicorp/golang-lru"

// LRU is a size bounded cache that tracks its hit rate.
type LRU struct {
	cache *lru.Cache
	stats Stats
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU(maxSize int) (*LRU, error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{cache: c}, nil
}

// Loader defines loader to load value.
type Loader func(key any) (any, error)

// Get looks up key, recording a hit or miss.
func (l *LRU) Get(key any) (any, bool) {
	v, ok := l.cache.Get(key)
	if ok {
		l.stats.Hit()
	} else {
		l.stats.Miss()
	}
	return v, ok
}

// Add adds or replaces the value of key.
func (l *LRU) Add(key, value any) {
	l.cache.Add(key, value)
}

// Remove evicts key.
func (l *LRU) Remove(key any) {
	l.cache.Remove(key)
}

// Purge clears the cache.
func (l *LRU) Purge() {
	l.cache.Purge()
}

// Len returns the number of cached entries.
func (l *LRU) Len() int {
	return l.cache.Len()
}

// Stats returns the hit/miss counters of the cache.
func (l *LRU) Stats() *Stats {
	return &l.stats
}

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, v)
	return v, nil
}
