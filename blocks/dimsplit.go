package blocks

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

/*
	ComputeNumericalFluxesHorizontal runs the x-sweep: for every edge
	between columns x and x+1 it solves the 1D Riemann problem on each
	row, accumulates the directional net updates, and reduces the
	maximum horizontal wave speed into the CFL timestep candidate

		maxTimestep = 0.4 * dx / maxHorizontalWaveSpeed

	The sweep covers the actual domain plus the ghost rows above and
	below. Work is sharded over edge columns; each worker goroutine
	holds a private solver instance and a private wave speed maximum,
	combined after the join. Under local timestepping the candidate is
	rounded down to the dyadic grid.
*/
func (b *Block) ComputeNumericalFluxesHorizontal() {
	if !b.AllGhostlayersInSync() {
		return
	}
	b.Stats.StartCompute()
	defer b.Stats.StopCompute()

	var (
		ny     = b.Ny
		wg     = sync.WaitGroup{}
		NPar   = b.pmEdges.ParallelDegree
		speeds = make([]float64, NPar)
	)
	for np := 0; np < NPar; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			var (
				localSolver  = b.FluxType.New()
				xMin, xMax   = b.pmEdges.GetBucketRange(np)
				maxWaveSpeed float64
			)
			for x := xMin; x < xMax; x++ {
				// iterate over all rows, including the ghost layer
				for y := 0; y < ny+2; y++ {
					hUpdL, hUpdR, huUpdL, huUpdR, waveSpeed := localSolver.ComputeNetUpdates(
						b.H.At(x, y), b.H.At(x+1, y),
						b.Hu.At(x, y), b.Hu.At(x+1, y),
						b.B.At(x, y), b.B.At(x+1, y),
					)
					b.HNetUpdatesLeft.Set(x, y, hUpdL)
					b.HNetUpdatesRight.Set(x+1, y, hUpdR)
					b.HuNetUpdatesLeft.Set(x, y, huUpdL)
					b.HuNetUpdatesRight.Set(x+1, y, huUpdR)
					if waveSpeed > maxWaveSpeed {
						maxWaveSpeed = waveSpeed
					}
				}
			}
			speeds[np] = maxWaveSpeed
		}(np)
	}
	wg.Wait()
	maxHorizontalWaveSpeed := floats.Max(speeds)
	b.MaxHorizontalWaveSpeed = maxHorizontalWaveSpeed
	b.Stats.AddFlops(float64((b.Nx + 1) * (ny + 2) * flopsPerEdge))

	// compute max timestep according to cautious CFL condition
	b.MaxTimestep = 0.4 * b.Dx / maxHorizontalWaveSpeed
	if b.LocalTimestepping {
		b.MaxTimestep = b.RoundTimestep(b.MaxTimestep)
	}
}

// rough per edge cost of the f-wave decomposition, for the statistics
const flopsPerEdge = 35

/*
	ComputeNumericalFluxesVertical sets the intermediate states from the
	x-sweep net updates, then runs the y-sweep on the pre-sweep state:

		hStar  = h  - (dt/dx)(hNetUpdL + hNetUpdR)
		huStar = hu - (dt/dx)(huNetUpdL + huNetUpdR)

	The already fixed timestep must also satisfy the CFL condition in
	the y-direction; the scheme relies on this being the common case and
	the run is numerically invalid otherwise, so a violation panics.
*/
func (b *Block) ComputeNumericalFluxesVertical() {
	if !b.AllGhostlayersInSync() {
		return
	}
	b.Stats.StartCompute()
	defer b.Stats.StopCompute()

	var (
		ny     = b.Ny
		wg     = sync.WaitGroup{}
		NPar   = b.pmInterior.ParallelDegree
		speeds = make([]float64, NPar)
	)
	for np := 0; np < NPar; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			var (
				localSolver  = b.FluxType.New()
				cMin, cMax   = b.pmInterior.GetBucketRange(np)
				maxWaveSpeed float64
			)
			// set the intermediary star states
			for x := cMin + 1; x < cMax+1; x++ {
				for y := 0; y < ny+2; y++ {
					b.HStar.Set(x, y,
						b.H.At(x, y)-(b.MaxTimestep/b.Dx)*(b.HNetUpdatesLeft.At(x, y)+b.HNetUpdatesRight.At(x, y)))
					b.HuStar.Set(x, y,
						b.Hu.At(x, y)-(b.MaxTimestep/b.Dx)*(b.HuNetUpdatesLeft.At(x, y)+b.HuNetUpdatesRight.At(x, y)))
				}
			}
			// y-sweep
			for x := cMin + 1; x < cMax+1; x++ {
				for y := 0; y < ny+1; y++ {
					hUpdL, hUpdR, hvUpdL, hvUpdR, waveSpeed := localSolver.ComputeNetUpdates(
						b.H.At(x, y), b.H.At(x, y+1),
						b.Hv.At(x, y), b.Hv.At(x, y+1),
						b.B.At(x, y), b.B.At(x, y+1),
					)
					b.HNetUpdatesBelow.Set(x, y, hUpdL)
					b.HNetUpdatesAbove.Set(x, y+1, hUpdR)
					b.HvNetUpdatesBelow.Set(x, y, hvUpdL)
					b.HvNetUpdatesAbove.Set(x, y+1, hvUpdR)
					if waveSpeed > maxWaveSpeed {
						maxWaveSpeed = waveSpeed
					}
				}
			}
			speeds[np] = maxWaveSpeed
		}(np)
	}
	wg.Wait()
	maxVerticalWaveSpeed := floats.Max(speeds)
	b.MaxVerticalWaveSpeed = maxVerticalWaveSpeed
	b.Stats.AddFlops(float64(b.Nx*(ny+1)*flopsPerEdge + b.Nx*(ny+2)*8))

	// the CFL condition must also hold in the y-direction at the fixed timestep
	if maxVerticalWaveSpeed > 0 && b.MaxTimestep >= 0.5*(b.Dy/maxVerticalWaveSpeed) {
		panic(fmt.Errorf("rank %d: vertical CFL violated: dt %g, dy %g, wave speed %g",
			b.MyRank, b.MaxTimestep, b.Dy, maxVerticalWaveSpeed))
	}
}

/*
	UpdateUnknowns composes the new state from the intermediate states
	and the y-sweep net updates, then advances the block's cumulative
	simulated time.

	dt has to equal the timestep computed by the preceding sweeps, since
	the intermediary star states were already formed with it; a mismatch
	is a caller bug and panics.
*/
func (b *Block) UpdateUnknowns(dt float64) {
	if !b.AllGhostlayersInSync() {
		return
	}
	b.Stats.StartCompute()
	defer b.Stats.StopCompute()

	if math.Abs(dt-b.MaxTimestep) >= TimestepTol {
		panic(fmt.Errorf("rank %d: updateUnknowns called with dt %g, but the sweeps used %g",
			b.MyRank, dt, b.MaxTimestep))
	}
	for x := 1; x <= b.Nx; x++ {
		for y := 1; y <= b.Ny; y++ {
			b.H.Set(x, y,
				b.HStar.At(x, y)-(dt/b.Dy)*(b.HNetUpdatesBelow.At(x, y)+b.HNetUpdatesAbove.At(x, y)))
			b.Hu.Set(x, y, b.HuStar.At(x, y))
			b.Hv.Set(x, y,
				b.Hv.At(x, y)-(dt/b.Dy)*(b.HvNetUpdatesBelow.At(x, y)+b.HvNetUpdatesAbove.At(x, y)))
		}
	}
	b.TotalLocalTimestep += dt
}
