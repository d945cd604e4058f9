package blocks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/goswe/scenarios"
	"github.com/notargets/goswe/solver"
	"github.com/notargets/goswe/types"
)

// step runs one full iteration of a standalone block (no CONNECT edges).
func step(t *testing.T, b *Block) (dt float64) {
	b.SetGhostLayer()
	require.NoError(t, b.ReceiveGhostLayer())
	b.ComputeNumericalFluxesHorizontal()
	b.ComputeNumericalFluxesVertical()
	dt = b.MaxTimestep
	b.UpdateUnknowns(dt)
	return
}

func wallBoundaries() [4]types.BoundaryType {
	return [4]types.BoundaryType{types.WALL, types.WALL, types.WALL, types.WALL}
}

func outflowBoundaries() [4]types.BoundaryType {
	return [4]types.BoundaryType{types.OUTFLOW, types.OUTFLOW, types.OUTFLOW, types.OUTFLOW}
}

// testDamBreak is a small radial dam break used across the block tests.
func testDamBreak(nx, ny int, fluxType solver.FluxType, boundaries [4]types.BoundaryType) (b *Block) {
	var (
		scen = &scenarios.RadialDamBreak{
			Width: 100, Height: 100,
			CenterX: 50, CenterY: 50,
			Radius: 20,
			HInner: 2, HOuter: 1,
			Depth: 0,
		}
		dx = scen.Width / float64(nx)
		dy = scen.Height / float64(ny)
	)
	b = NewBlock(nx, ny, dx, dy, 0, 0, fluxType, false, 2)
	b.InitScenario(scen, boundaries)
	return
}

func TestStillWaterUnchanged(t *testing.T) {
	// Uniform height, zero momentum, flat bathymetry, walls all around:
	// the state must not move for any number of iterations
	for _, ft := range []solver.FluxType{solver.FLUX_HLLE, solver.FLUX_FWave, solver.FLUX_AugRie} {
		b := uniformBlock(10, 10, 1, 1, 1, -1, types.WALL)
		b.FluxType = ft
		for n := 0; n < 100; n++ {
			dt := step(t, b)
			assert.False(t, math.IsInf(dt, 1))
		}
		for x := 1; x <= 10; x++ {
			for y := 1; y <= 10; y++ {
				assert.InDelta(t, 1, b.H.At(x, y), 1.e-6)
				assert.InDelta(t, 0, b.Hu.At(x, y), 1.e-6)
				assert.InDelta(t, 0, b.Hv.At(x, y), 1.e-6)
			}
		}
	}
}

func TestLakeAtRestWellBalanced(t *testing.T) {
	// Still water over sinusoidal bathymetry with b+h constant: a well
	// balanced scheme keeps the state unchanged
	var (
		scen = scenarios.NewLakeAtRest()
		b    = NewBlock(50, 50, 1, 1, 0, 0, solver.FLUX_FWave, false, 2)
	)
	b.InitScenario(scen, wallBoundaries())
	require.NoError(t, b.ExchangeBathymetry())
	h0 := make([]float64, len(b.H.DataP))
	copy(h0, b.H.DataP)
	for n := 0; n < 200; n++ {
		step(t, b)
	}
	for x := 1; x <= 50; x++ {
		for y := 1; y <= 50; y++ {
			assert.InDelta(t, h0[x*52+y], b.H.At(x, y), 1.e-5)
			assert.InDelta(t, 0, b.Hu.At(x, y), 1.e-5)
			assert.InDelta(t, 0, b.Hv.At(x, y), 1.e-5)
		}
	}
}

func TestCFLInvariant(t *testing.T) {
	b := testDamBreak(20, 20, solver.FLUX_HLLE, outflowBoundaries())
	for n := 0; n < 10; n++ {
		b.SetGhostLayer()
		require.NoError(t, b.ReceiveGhostLayer())
		b.ComputeNumericalFluxesHorizontal()
		// CFL: dt * maxHorizontalWaveSpeed / dx == 0.4 after each x-sweep
		assert.InDelta(t, 0.4, b.MaxTimestep*b.MaxHorizontalWaveSpeed/b.Dx, 1.e-12)
		b.ComputeNumericalFluxesVertical()
		// and the orthogonal direction stays within the 0.5 margin
		assert.True(t, b.MaxTimestep < 0.5*b.Dy/b.MaxVerticalWaveSpeed)
		b.UpdateUnknowns(b.MaxTimestep)
	}
}

func TestUpdateTimestepMismatchPanics(t *testing.T) {
	b := testDamBreak(10, 10, solver.FLUX_HLLE, outflowBoundaries())
	b.SetGhostLayer()
	require.NoError(t, b.ReceiveGhostLayer())
	b.ComputeNumericalFluxesHorizontal()
	b.ComputeNumericalFluxesVertical()
	assert.Panics(t, func() {
		b.UpdateUnknowns(0.5 * b.MaxTimestep)
	})
}

func TestZeroTimestepIdempotent(t *testing.T) {
	// Two full iterations with dt forced to zero must leave the state
	// untouched: the sweeps run but the update applies nothing
	b := testDamBreak(10, 10, solver.FLUX_FWave, wallBoundaries())
	h0 := make([]float64, len(b.H.DataP))
	copy(h0, b.H.DataP)
	for n := 0; n < 2; n++ {
		b.SetGhostLayer()
		require.NoError(t, b.ReceiveGhostLayer())
		b.ComputeNumericalFluxesHorizontal()
		b.SetMaxTimestep(0)
		b.ComputeNumericalFluxesVertical()
		b.UpdateUnknowns(0)
	}
	for x := 1; x <= 10; x++ {
		for y := 1; y <= 10; y++ {
			assert.Equal(t, h0[x*12+y], b.H.At(x, y))
		}
	}
}

func TestWallMassConservation(t *testing.T) {
	// Walls on all sides: no outflow, so total water is conserved
	b := testDamBreak(20, 20, solver.FLUX_HLLE, wallBoundaries())
	mass0 := b.MassTotal()
	for n := 0; n < 50; n++ {
		step(t, b)
	}
	assert.InDelta(t, 1, b.MassTotal()/mass0, 1.e-9)
}

func TestOutflowQuiescent(t *testing.T) {
	// A quiescent block with outflow boundaries stays quiescent: the
	// mirrored ghost cells never introduce gradients
	b := uniformBlock(8, 8, 1, 1, 1, -1, types.OUTFLOW)
	for n := 0; n < 50; n++ {
		step(t, b)
	}
	for x := 1; x <= 8; x++ {
		for y := 1; y <= 8; y++ {
			assert.InDelta(t, 1, b.H.At(x, y), 1.e-12)
			assert.InDelta(t, 0, b.Hu.At(x, y), 1.e-12)
		}
	}
}

func TestRadialSymmetry(t *testing.T) {
	// A radially symmetric initial condition on a square domain keeps
	// 4-fold reflection symmetry under global timestepping
	var (
		nx, ny = 40, 40
		b      = testDamBreak(nx, ny, solver.FLUX_HLLE, outflowBoundaries())
	)
	for n := 0; n < 30; n++ {
		step(t, b)
	}
	for x := 1; x <= nx; x++ {
		for y := 1; y <= ny; y++ {
			assert.InDelta(t, b.H.At(x, y), b.H.At(nx+1-x, y), 1.e-4)
			assert.InDelta(t, b.H.At(x, y), b.H.At(x, ny+1-y), 1.e-4)
		}
	}
}

func TestYSweepUsesCellHeight(t *testing.T) {
	// dx != dy with a jump in the y-direction: the y-direction update
	// term must divide by dy, not dx. Pin cell (2,1), just below the
	// jump, against the hand-evaluated net update.
	var (
		dx, dy = 1.0, 2.0
		b      = NewBlock(3, 3, dx, dy, 0, 0, solver.FLUX_FWave, false, 1)
	)
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			h := 1.0
			if y >= 2 {
				h = 2.0
			}
			b.H.Set(x, y, h)
			b.B.Set(x, y, 0)
		}
	}
	b.BoundaryType = outflowBoundaries()

	// The edge above cell (2,1), where the jump sits
	nu := solver.FLUX_FWave.New()
	hUpdL, _, _, _, _ := nu.ComputeNetUpdates(1, 2, 0, 0, 0, 0)

	h0 := b.H.At(2, 1)
	b.SetGhostLayer()
	require.NoError(t, b.ReceiveGhostLayer())
	b.ComputeNumericalFluxesHorizontal()
	b.ComputeNumericalFluxesVertical()
	dt := b.MaxTimestep
	b.UpdateUnknowns(dt)

	// Uniform along x, and the edge below the cell is flat, so the only
	// contribution is the left-going wave of the edge above
	assert.InDelta(t, h0-(dt/dy)*hUpdL, b.H.At(2, 1), 1.e-12)
}
