package lgca

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlateScenarioDefaults(t *testing.T) {
	s := PlateScenario()
	require.Equal(t, 4000, s.Width)
	require.Equal(t, 1000, s.Height)
	require.Equal(t, 50, s.ReserveWidth)
	require.Equal(t, 100000, s.Steps)
	require.Equal(t, 400, s.BarrierHeight)
	require.Equal(t, 700, s.BarrierPos)
}

func TestScenarioBuildAppliesWallsAndBarrier(t *testing.T) {
	s := PlateScenario()
	s.Width, s.Height = 40, 20
	s.BarrierHeight = 8
	s.BarrierPos = 20
	s.ReserveWidth = 5

	in := NewInjector(1)
	g, err := s.Build(in)
	require.NoError(t, err)

	for x := 0; x < s.Width; x++ {
		if g.Get(x, 0)&bitWall == 0 {
			t.Errorf("top row not walled at x=%d", x)
		}
		if g.Get(x, s.Height-1)&bitWall == 0 {
			t.Errorf("bottom row not walled at x=%d", x)
		}
	}

	require.NotZero(t, g.Get(s.BarrierPos, s.Height/2)&bitWall, "expected a wall cell at the barrier center")
}

func TestWaveScenarioAddsCircularObstacle(t *testing.T) {
	s := WaveScenario(5)
	s.Width, s.Height = 40, 20
	s.Wave.OriginX, s.Wave.OriginY, s.Wave.Radius = 20, 10, 3

	in := NewInjector(1)
	g, err := s.Build(in)
	require.NoError(t, err)

	require.NotZero(t, g.Get(20, 10)&bitWall, "expected a wall cell at the wave origin")
	require.Zero(t, g.Get(0, 10)&bitWall, "expected no wall cell far from the wave origin")
}

func TestLoadScenarioEmptyPathMatchesDefaults(t *testing.T) {
	s, err := LoadScenario("")
	require.NoError(t, err)

	def := PlateScenario()
	require.Equal(t, def.Width, s.Width)
	require.Equal(t, def.Steps, s.Steps)
}
