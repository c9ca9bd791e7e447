package lgca

// Streamer performs the free-streaming (propagation) phase of the lattice
// gas: every direction bit moves one hex-step along its direction into a
// fresh scratch grid, then the scratch grid is swapped in as the new live
// grid. Rest (0x40) and wall (0x80) bits never move.
//
// Implemented pull-style — each destination cell reads from its six
// neighbors rather than writing into them — so a row's output depends
// only on the three input rows {y-1, y, y+1} and rows can be computed in
// parallel (spec §4.S, and original_source/simulation.cpp's moveRow,
// annotated there as "we are looking at the incoming ... so it can be
// parallelised").
//
// Hex rows are offset on alternating parities: even rows' upper/lower
// neighbors sit one column to the right of their "straight" neighbor, odd
// rows one column to the left. Grid edges are open (outflow) boundaries:
// a particle streaming off the grid is lost, and a direction bit that
// would stream from off-grid is simply absent on the receiving side,
// rather than wrapping.
type Streamer struct {
	scratch *Grid
}

// NewStreamer allocates the scratch grid a Streamer needs to double-buffer
// against, sized to match the grid it will stream.
func NewStreamer(w, h int) *Streamer {
	return &Streamer{scratch: NewGrid(w, h)}
}

const (
	dirN0 byte = 0x01
	dirN1 byte = 0x02
	dirN2 byte = 0x04
	dirN3 byte = 0x08
	dirN4 byte = 0x10
	dirN5 byte = 0x20
	bitRest byte = 0x40
	bitWall byte = 0x80
	bitsKeep = bitRest | bitWall
)

// Step streams g in place, using up to workers goroutines split by row
// band. g must match the dimensions the Streamer was built for.
func (s *Streamer) Step(g *Grid, workers int) error {
	w, h := g.Width(), g.Height()
	err := ThreadFanOut(workers, h, func(_, from, to int) {
		for y := from; y < to; y++ {
			s.streamRow(g, y, w, h)
		}
	})
	if err != nil {
		return err
	}
	g.Swap(s.scratch)
	return nil
}

func (s *Streamer) streamRow(g *Grid, y, w, h int) {
	dst := s.scratch.RowMut(y)
	cur := g.Row(y)
	var above, below []byte
	if y-1 >= 0 {
		above = g.Row(y - 1)
	}
	if y+1 < h {
		below = g.Row(y + 1)
	}

	even := y%2 == 0
	for x := 0; x < w; x++ {
		v := cur[x] & bitsKeep

		if x-1 >= 0 {
			v |= cur[x-1] & dirN2
		}
		if x+1 < w {
			v |= cur[x+1] & dirN5
		}

		if above != nil {
			if even {
				if x < w {
					v |= above[x] & dirN3
				}
				if x+1 < w {
					v |= above[x+1] & dirN4
				}
			} else {
				if x-1 >= 0 {
					v |= above[x-1] & dirN3
				}
				v |= above[x] & dirN4
			}
		}

		if below != nil {
			if even {
				if x+1 < w {
					v |= below[x+1] & dirN0
				}
				v |= below[x] & dirN1
			} else {
				v |= below[x] & dirN0
				if x-1 >= 0 {
					v |= below[x-1] & dirN1
				}
			}
		}

		dst[x] = v
	}
}
