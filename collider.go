package lgca

import (
	"math/rand"
	"sync"
)

// Collider applies the local collision operator to every cell in a row
// band, each band owning its own persistent *rand.Rand seeded disjointly
// from its siblings (spec §9, open question b: the reference
// implementation's single shared std::mt19937 driven from multiple
// threads is a data race; here every band gets its own generator
// instead). The generators are allocated once per band index and carried
// across Step calls — like the reference's single persistent m_randGen,
// the coin-flip stream advances step over step instead of replaying the
// same draws every call, while still being reproducible for a fixed seed
// run single-threaded.
//
// Seed derivation follows Gekko3D's particles_ecs.go worker pool:
// seedBase + (band+1)*0x9e3779b1, a fixed odd multiplier that keeps
// per-band seeds well separated even for small seedBase values.
type Collider struct {
	seedBase int64

	mu   sync.Mutex
	rngs []*rand.Rand
}

// NewCollider returns a Collider whose per-band generators are derived
// from seed. Callers that need reproducible runs pass a fixed seed;
// callers that don't care can pass time.Now().UnixNano().
func NewCollider(seed int64) *Collider {
	return &Collider{seedBase: seed}
}

// rngFor returns the persistent generator for band, allocating it on
// first use. Only the lazy-allocation path is locked; each band index is
// only ever touched by one goroutine per Step call, so the returned
// generator itself is used lock-free.
func (c *Collider) rngFor(band int) *rand.Rand {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.rngs) <= band {
		idx := len(c.rngs)
		c.rngs = append(c.rngs, rand.New(rand.NewSource(c.seedBase+int64(idx+1)*0x9e3779b1)))
	}
	return c.rngs[band]
}

// Step resolves every cell of g against the collision table in place,
// split across up to workers row bands.
func (c *Collider) Step(g *Grid, workers int) error {
	return ThreadFanOut(workers, g.Height(), func(band, from, to int) {
		rng := c.rngFor(band)
		for y := from; y < to; y++ {
			row := g.RowMut(y)
			for x, v := range row {
				// Skip the random draw entirely when the outcome is
				// unambiguous; only tied configurations need a coin.
				if collisionTable.Ambiguous(v) {
					row[x] = collisionTable.Collide(v, rng.Intn(2))
				} else {
					row[x] = collisionTable.Collide(v, 0)
				}
			}
		}
	})
}
