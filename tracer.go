package lgca

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Tracer advects a fixed swarm of massless particles through a velocity
// field to build a streamline visualization overlay, grounded in
// simrunner.cpp's plate() inner block (the `parts` vector reseeded every
// 100 steps, walked 500 sub-steps, each hit cell stamped with the local
// speed clamped to 1).
type Tracer struct {
	rows, cols int
}

// NewTracer returns a Tracer laid out on a rows x cols grid, matching the
// shape of the velocity field it will be given to trace.
func NewTracer(rows, cols int) *Tracer {
	return &Tracer{rows: rows, cols: cols}
}

// Seed returns the reference implementation's fixed tracer layout: a
// 30 x 100 swarm of points spread evenly across a gridW x gridH domain.
func Seed(gridW, gridH int) []mgl64.Vec2 {
	const (
		tracerRows = 30
		tracerCols = 100
	)
	points := make([]mgl64.Vec2, 0, tracerRows*tracerCols)
	for k := 0; k < tracerRows; k++ {
		for j := 0; j < tracerCols; j++ {
			points = append(points, mgl64.Vec2{
				float64(gridW/tracerCols*j + 1),
				float64(gridH/tracerRows*k + 1),
			})
		}
	}
	return points
}

// Trace advects points through velField (as produced by
// Reducer.VelocityAndDensityField, sampled at cellSize resolution) for
// steps sub-steps, each of unit length in the direction of local flow.
// Every cell a point passes through is stamped in the returned field with
// the local speed, clamped to 1; cells with speed below magnitudeFloor
// are left untouched and the point halts there, matching the reference
// implementation's early continue on near-zero velocity.
func (t *Tracer) Trace(velField [][]mgl64.Vec2, gridW, gridH, cellSize int, points []mgl64.Vec2, steps int, magnitudeFloor float64) [][]float64 {
	field := make([][]float64, t.rows)
	for i := range field {
		field[i] = make([]float64, t.cols)
	}

	pts := make([]mgl64.Vec2, len(points))
	copy(pts, points)

	for step := 0; step < steps; step++ {
		for i := range pts {
			p := pts[i]
			x, y := int(p.X()), int(p.Y())
			if x < 0 || x >= gridW || y < 0 || y >= gridH {
				continue
			}
			cy, cx := y/cellSize, x/cellSize
			if cy < 0 || cy >= len(velField) || cx < 0 || cx >= len(velField[cy]) {
				continue
			}
			v := velField[cy][cx]
			m := math.Sqrt(v.X()*v.X() + v.Y()*v.Y())
			if m < magnitudeFloor {
				continue
			}
			field[cy][cx] = math.Min(m, 1)
			pts[i] = mgl64.Vec2{p.X() + v.X()/m, p.Y() + v.Y()/m}
		}
	}
	return field
}
