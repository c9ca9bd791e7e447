package lgca

import (
	"math"
	"math/bits"

	"github.com/go-gl/mathgl/mgl64"
)

// Reducer aggregates a packed-bit Grid into coarse scalar and vector
// fields — density, velocity, velocity magnitude — by summing occupancy
// over fixed-size cell blocks. Grounded in original_source/simulation.cpp
// (getRegionVelocity, getRegionAverageVelocity, getVelocityField,
// getVelocityMagnitudeAndDensityField, getVelocityAndDensityField) and in
// pthm-soup/systems/resource_field.go's flat-grid aggregation shape.
//
// The six hex directions project onto Cartesian axes as:
//
//	d0: (-1/2, +sqrt(3)/2)   d1: (+1/2, +sqrt(3)/2)   d2: (+1, 0)
//	d3: (+1/2, -sqrt(3)/2)   d4: (-1/2, -sqrt(3)/2)   d5: (-1, 0)
type Reducer struct{}

// NewReducer returns a ready-to-use Reducer; it holds no state.
func NewReducer() *Reducer { return &Reducer{} }

const sqrt3Over2 = 0.8660254

// RegionVelocity returns the raw (unnormalized) summed velocity over the
// half-open cell rectangle [fromX,toX) x [fromY,toY), in half-unit x and
// sqrt(3)/2-unit y steps — the same integer accumulation the reference
// implementation performs before any averaging.
func (r *Reducer) RegionVelocity(g *Grid, fromX, toX, fromY, toY int) (vx, vy int) {
	for y := fromY; y < toY; y++ {
		for x := fromX; x < toX; x++ {
			v := g.Get(x, y)
			vx += regionVX(v)
			vy += regionVY(v)
		}
	}
	return vx, vy
}

func regionVX(v byte) int {
	x := 0
	if v&dirN1 != 0 {
		x++
	}
	if v&dirN2 != 0 {
		x += 2
	}
	if v&dirN3 != 0 {
		x++
	}
	if v&dirN0 != 0 {
		x--
	}
	if v&dirN4 != 0 {
		x--
	}
	if v&dirN5 != 0 {
		x -= 2
	}
	return x
}

func regionVY(v byte) int {
	y := 0
	if v&dirN0 != 0 {
		y++
	}
	if v&dirN1 != 0 {
		y++
	}
	if v&dirN3 != 0 {
		y--
	}
	if v&dirN4 != 0 {
		y--
	}
	return y
}

func popcount7(v byte) int {
	return bits.OnesCount8(v & 0x7f)
}

// RegionAverageVelocity returns the mean velocity over the region as a
// proper Cartesian vector (unit lattice spacing), or the zero vector if
// the region holds no particles.
func (r *Reducer) RegionAverageVelocity(g *Grid, fromX, toX, fromY, toY int) mgl64.Vec2 {
	vx, vy := 0, 0
	count := 0
	for y := fromY; y < toY; y++ {
		for x := fromX; x < toX; x++ {
			v := g.Get(x, y)
			vx += regionVX(v)
			vy += regionVY(v)
			count += popcount7(v)
		}
	}
	if count == 0 {
		return mgl64.Vec2{0, 0}
	}
	return mgl64.Vec2{
		(float64(vx) / 2.0) / float64(count),
		(float64(vy) * sqrt3Over2) / float64(count),
	}
}

// Density returns occupied-slot fraction (0 to 1) over the whole grid.
func (r *Reducer) Density(g *Grid) float64 {
	total := 0
	for y := 0; y < g.Height(); y++ {
		for _, v := range g.Row(y) {
			total += popcount7(v)
		}
	}
	capacity := float64(g.Width()) * float64(g.Height()) * 7
	if capacity == 0 {
		return 0
	}
	return float64(total) / capacity
}

// VelocityAndDensityField partitions g into cellSizeX x cellSizeY coarse
// blocks and returns, per block, the average velocity and the occupied
// fraction of capacity. Computed row-parallel over coarse rows.
func (r *Reducer) VelocityAndDensityField(g *Grid, cellSizeX, cellSizeY, workers int) ([][]mgl64.Vec2, [][]float64, error) {
	if g.Width()%cellSizeX != 0 || g.Height()%cellSizeY != 0 {
		return nil, nil, ErrIndivisibleCellSize
	}
	rows := g.Height() / cellSizeY
	cols := g.Width() / cellSizeX

	vField := make([][]mgl64.Vec2, rows)
	densityField := make([][]float64, rows)
	for i := range vField {
		vField[i] = make([]mgl64.Vec2, cols)
		densityField[i] = make([]float64, cols)
	}

	err := ThreadFanOut(workers, rows, func(_, from, to int) {
		for i := from; i < to; i++ {
			for j := 0; j < cols; j++ {
				vx, vy, count := sumRegion(g, cellSizeX*j, cellSizeX*(j+1), cellSizeY*i, cellSizeY*(i+1))
				if count != 0 {
					vField[i][j] = mgl64.Vec2{
						(float64(vx) / 2.0) / float64(count),
						(float64(vy) * sqrt3Over2) / float64(count),
					}
				}
				densityField[i][j] = float64(count) / float64(cellSizeX*cellSizeY*7)
			}
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return vField, densityField, nil
}

// VelocityMagnitudeAndDensityField is VelocityAndDensityField's
// magnitude-only counterpart, matching the reference implementation's
// separate accessor of the same name — cheaper when callers only need
// scalar speed, not direction.
func (r *Reducer) VelocityMagnitudeAndDensityField(g *Grid, cellSizeX, cellSizeY, workers int) ([][]float64, [][]float64, error) {
	if g.Width()%cellSizeX != 0 || g.Height()%cellSizeY != 0 {
		return nil, nil, ErrIndivisibleCellSize
	}
	rows := g.Height() / cellSizeY
	cols := g.Width() / cellSizeX

	vmField := make([][]float64, rows)
	densityField := make([][]float64, rows)
	for i := range vmField {
		vmField[i] = make([]float64, cols)
		densityField[i] = make([]float64, cols)
	}

	err := ThreadFanOut(workers, rows, func(_, from, to int) {
		for i := from; i < to; i++ {
			for j := 0; j < cols; j++ {
				vx, vy, count := sumRegion(g, cellSizeX*j, cellSizeX*(j+1), cellSizeY*i, cellSizeY*(i+1))
				if count != 0 {
					ux := (float64(vx) / 2.0) / float64(count)
					uy := (float64(vy) * sqrt3Over2) / float64(count)
					vmField[i][j] = math.Sqrt(ux*ux + uy*uy)
				}
				densityField[i][j] = float64(count) / float64(cellSizeX*cellSizeY*7)
			}
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return vmField, densityField, nil
}

func sumRegion(g *Grid, fromX, toX, fromY, toY int) (vx, vy, count int) {
	for y := fromY; y < toY; y++ {
		for x := fromX; x < toX; x++ {
			v := g.Get(x, y)
			vx += regionVX(v)
			vy += regionVY(v)
			count += popcount7(v)
		}
	}
	return vx, vy, count
}
