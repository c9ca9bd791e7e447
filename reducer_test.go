package lgca

import (
	"math"
	"testing"
)

// E1: a 12x6 empty grid, no walls, 0 steps: Reducer(2,2) returns
// density=0 everywhere, velocity=(0,0) everywhere.
func TestReducerEmptyGridIsZero(t *testing.T) {
	g := NewGrid(12, 6)
	r := NewReducer()

	vField, dField, err := r.VelocityAndDensityField(g, 2, 2, 1)
	if err != nil {
		t.Fatalf("VelocityAndDensityField: %v", err)
	}
	for i := range dField {
		for j := range dField[i] {
			if dField[i][j] != 0 {
				t.Errorf("density[%d][%d] = %v, want 0", i, j, dField[i][j])
			}
			if vField[i][j].X() != 0 || vField[i][j].Y() != 0 {
				t.Errorf("velocity[%d][%d] = %v, want (0,0)", i, j, vField[i][j])
			}
		}
	}
}

func TestReducerIndivisibleCellSize(t *testing.T) {
	g := NewGrid(10, 10)
	r := NewReducer()
	_, _, err := r.VelocityAndDensityField(g, 3, 3, 1)
	if err != ErrIndivisibleCellSize {
		t.Fatalf("err = %v, want ErrIndivisibleCellSize", err)
	}
	_, _, err = r.VelocityMagnitudeAndDensityField(g, 3, 3, 1)
	if err != ErrIndivisibleCellSize {
		t.Fatalf("err = %v, want ErrIndivisibleCellSize", err)
	}
}

func TestReducerDensityBound(t *testing.T) {
	g := NewGrid(8, 8)
	in := NewInjector(3)
	if err := in.SpawnAtX(g, 0.8, 0, 8); err != nil {
		t.Fatalf("SpawnAtX: %v", err)
	}

	r := NewReducer()
	_, dField, err := r.VelocityAndDensityField(g, 2, 2, 2)
	if err != nil {
		t.Fatalf("VelocityAndDensityField: %v", err)
	}
	for i := range dField {
		for j := range dField[i] {
			if dField[i][j] < 0 || dField[i][j] > 1 {
				t.Errorf("density[%d][%d] = %v, out of [0,1]", i, j, dField[i][j])
			}
		}
	}

	if d := r.Density(g); d < 0 || d > 1 {
		t.Errorf("Density() = %v, out of [0,1]", d)
	}
}

func TestReducerVelocityMagnitudeMatchesVectorNorm(t *testing.T) {
	g := NewGrid(4, 4)
	g.Set(0, 0, dirN2)
	g.Set(1, 0, dirN2)

	r := NewReducer()
	vField, _, err := r.VelocityAndDensityField(g, 2, 2, 1)
	if err != nil {
		t.Fatalf("VelocityAndDensityField: %v", err)
	}
	vmField, _, err := r.VelocityMagnitudeAndDensityField(g, 2, 2, 1)
	if err != nil {
		t.Fatalf("VelocityMagnitudeAndDensityField: %v", err)
	}

	for i := range vField {
		for j := range vField[i] {
			want := math.Sqrt(vField[i][j].X()*vField[i][j].X() + vField[i][j].Y()*vField[i][j].Y())
			if math.Abs(vmField[i][j]-want) > 1e-9 {
				t.Errorf("magnitude[%d][%d] = %v, want %v", i, j, vmField[i][j], want)
			}
		}
	}
}

func TestReducerRegionAverageVelocityZeroForEmptyRegion(t *testing.T) {
	g := NewGrid(4, 4)
	r := NewReducer()
	v := r.RegionAverageVelocity(g, 0, 4, 0, 4)
	if v.X() != 0 || v.Y() != 0 {
		t.Errorf("RegionAverageVelocity on empty region = %v, want (0,0)", v)
	}
}
