package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and automatic reset.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		gets      int64
	}
}

// New creates a typed pool. reset, if not nil, runs on every object handed
// back through Put.
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, creating one when it is empty
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	atomic.AddInt64(&p.stats.gets, 1)
	return p.pool.Get().(T)
}

// Put resets obj and returns it to the pool
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns the number of objects created, checked out and requested
func (p *Pool[T]) Stats() (allocated, inUse, gets int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.gets)
}

// maxPooledBuffer keeps one huge table row from pinning memory
const maxPooledBuffer = 64 << 10

// BufferPool recycles the buffers used to assemble output lines. Reset keeps
// the backing array, so a warm buffer writes a line without allocating.
var BufferPool = New(
	func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 256)) },
	func(b *bytes.Buffer) {
		if b.Cap() > maxPooledBuffer {
			*b = bytes.Buffer{}
			return
		}
		b.Reset()
	},
)

// GetBuffer returns an empty buffer from BufferPool
func GetBuffer() *bytes.Buffer {
	return BufferPool.Get()
}

// PutBuffer returns b to BufferPool
func PutBuffer(b *bytes.Buffer) {
	BufferPool.Put(b)
}
