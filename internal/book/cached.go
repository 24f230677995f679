package book

import (
	"sync"

	"github.com/Salsakeyy/EnzoChess/internal/board"
)

// cachedReply stores a probe result, including definite misses, so a
// cached position is not probed again until it is evicted.
type cachedReply struct {
	from  board.Square
	to    board.Square
	promo board.PieceType
	found bool
}

// Cached wraps a Source with a bounded position cache. Useful in front
// of the network explorer, where repeated probes of the same opening
// positions are the common case.
type Cached struct {
	inner   Source
	mu      sync.Mutex
	cache   map[uint64]cachedReply
	maxSize int
	hits    uint64
	misses  uint64
}

// NewCached creates a cache of the given size around a source.
func NewCached(inner Source, size int) *Cached {
	if size <= 0 {
		size = 4096
	}
	return &Cached{
		inner:   inner,
		cache:   make(map[uint64]cachedReply, size),
		maxSize: size,
	}
}

// Probe consults the cache first, falling through to the wrapped source.
func (c *Cached) Probe(pos *board.Position) (board.Move, bool) {
	key := Key(pos)

	c.mu.Lock()
	if r, ok := c.cache[key]; ok {
		c.hits++
		c.mu.Unlock()
		if !r.found {
			return board.NoMove, false
		}
		return pos.FindMove(r.from, r.to, r.promo)
	}
	c.misses++
	c.mu.Unlock()

	m, found := c.inner.Probe(pos)

	c.mu.Lock()
	if len(c.cache) >= c.maxSize {
		// Evict half the cache; entries are cheap to recompute.
		n := 0
		for k := range c.cache {
			if n >= c.maxSize/2 {
				break
			}
			delete(c.cache, k)
			n++
		}
	}
	c.cache[key] = cachedReply{from: m.From, to: m.To, promo: m.Promotion, found: found}
	c.mu.Unlock()

	return m, found
}

// HitRate returns the cache hit rate as a percentage.
func (c *Cached) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total) * 100
}

// Len returns the number of cached positions.
func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
