package lgca

import "errors"

// ErrIndivisibleCellSize is returned by Reducer operations when the grid
// dimensions do not divide evenly by the requested coarse-cell size.
var ErrIndivisibleCellSize = errors.New("lgca: grid size not divisible by coarse cell size")

// ErrConcentrationInfeasible is returned by Injector.SpawnAtX when the
// requested concentration exceeds 6/7, the maximum a column can hold once
// the direction-sampling fix (spec §9, open question a) is applied.
var ErrConcentrationInfeasible = errors.New("lgca: concentration exceeds 6/7 maximum")
