// Package pool provides object pooling and string interning. Interning keeps
// one copy of repeated column values such as route numbers, dates and day
// types; Pool recycles scratch objects such as the buffers used to assemble
// table lines.
package pool

import (
	"sync"
	"sync/atomic"
)

// DefaultMaxSize bounds the global intern pool
const DefaultMaxSize = 1 << 16

// StringInternPool hands out one shared copy of each distinct string so
// columns with heavy repetition keep a single backing allocation per value.
type StringInternPool struct {
	mu      sync.RWMutex
	strings map[string]string
	maxSize int
	size    int64
	hits    int64
	misses  int64
}

var globalStringInternPool = NewStringInternPool(DefaultMaxSize)

// NewStringInternPool creates a pool that stops adding strings once maxSize
// distinct values are held. A non-positive maxSize means unbounded.
func NewStringInternPool(maxSize int) *StringInternPool {
	return &StringInternPool{
		strings: make(map[string]string, 1024),
		maxSize: maxSize,
	}
}

// Intern returns an interned version of the string
func (p *StringInternPool) Intern(s string) string {
	// Fast path: check if already interned
	p.mu.RLock()
	if interned, ok := p.strings[s]; ok {
		p.mu.RUnlock()
		atomic.AddInt64(&p.hits, 1)
		return interned
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if interned, ok := p.strings[s]; ok {
		atomic.AddInt64(&p.hits, 1)
		return interned
	}

	atomic.AddInt64(&p.misses, 1)
	if p.maxSize > 0 && atomic.LoadInt64(&p.size) >= int64(p.maxSize) {
		return s
	}

	// Copy so the pool never pins a larger buffer the caller sliced s from.
	owned := string([]byte(s))
	p.strings[owned] = owned
	atomic.AddInt64(&p.size, 1)
	return owned
}

// Stats returns intern pool statistics
func (p *StringInternPool) Stats() (size, hits, misses int64) {
	return atomic.LoadInt64(&p.size),
		atomic.LoadInt64(&p.hits),
		atomic.LoadInt64(&p.misses)
}

// Clear empties the pool and resets its counters
func (p *StringInternPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.strings = make(map[string]string, 1024)
	atomic.StoreInt64(&p.size, 0)
	atomic.StoreInt64(&p.hits, 0)
	atomic.StoreInt64(&p.misses, 0)
}

// InternString interns a string using the global pool
func InternString(s string) string {
	return globalStringInternPool.Intern(s)
}

// GetInternStats returns global intern pool statistics
func GetInternStats() (size, hits, misses int64) {
	return globalStringInternPool.Stats()
}

// ClearGlobal empties the global pool
func ClearGlobal() {
	globalStringInternPool.Clear()
}
