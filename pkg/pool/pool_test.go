package pool

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolResetsOnPut(t *testing.T) {
	p := New(
		func() *[]int {
			s := make([]int, 0, 4)
			return &s
		},
		func(s *[]int) { *s = (*s)[:0] },
	)

	s := p.Get()
	*s = append(*s, 1, 2, 3)
	p.Put(s)

	got := p.Get()
	assert.Empty(t, *got)

	allocated, inUse, gets := p.Stats()
	assert.GreaterOrEqual(t, allocated, int64(1))
	assert.Equal(t, int64(1), inUse)
	assert.Equal(t, int64(2), gets)
}

func TestBufferPoolKeepsCapacity(t *testing.T) {
	b := GetBuffer()
	b.WriteString(strings.Repeat("<td>x</td> ", 100))
	capacity := b.Cap()
	PutBuffer(b)

	assert.Zero(t, b.Len())
	assert.Equal(t, capacity, b.Cap())
}

func TestBufferPoolReusesWarmBuffers(t *testing.T) {
	line := strings.Repeat("x", 200)
	PutBuffer(GetBuffer())

	allocs := testing.AllocsPerRun(100, func() {
		b := GetBuffer()
		b.WriteString(line)
		PutBuffer(b)
	})
	// sync.Pool may drop entries, so allow the odd miss
	assert.Less(t, allocs, 1.0)
}

func TestBufferPoolDropsLargeBuffers(t *testing.T) {
	b := GetBuffer()
	b.WriteString(strings.Repeat("x", maxPooledBuffer+1))
	PutBuffer(b)

	assert.Zero(t, b.Cap())
}
