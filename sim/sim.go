package sim

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/notargets/goswe/InputParameters"
	"github.com/notargets/goswe/blocks"
	"github.com/notargets/goswe/collector"
	"github.com/notargets/goswe/comms"
	"github.com/notargets/goswe/scenarios"
	"github.com/notargets/goswe/solver"
	"github.com/notargets/goswe/types"
	"github.com/notargets/goswe/utils"
	"github.com/notargets/goswe/writer"
)

/*
	Run executes a simulation described by the input parameters: one
	goroutine per rank, each owning a vertical stack of blocks, tiled
	into a 2D process grid. Ranks communicate through the in-process
	transport; the first rank error aborts the transport and surfaces
	from Run.
*/
func Run(ip *InputParameters.InputParametersSWE) (err error) {
	if err = validate(ip); err != nil {
		return
	}
	scen, err := scenarios.New(ip.Scenario, ip.BathymetryFile, ip.DisplacementFile)
	if err != nil {
		return
	}
	var (
		fluxType  = solver.FluxNames[ip.FluxType]
		transport = comms.NewTransport(ip.Ranks)
		layout    = comms.NewLayout(ip.Ranks)
		errs      = make([]error, ip.Ranks)
		wg        = sync.WaitGroup{}
	)
	fmt.Printf("Shallow Water Equations in 2 Dimensions\n")
	fmt.Printf("Using %d ranks in a %d x %d process grid, %d block(s) per rank\n",
		ip.Ranks, layout.BlocksX, layout.BlocksY, ip.BlocksPerRank)
	fmt.Printf("Algorithm: %s\n", fluxType.Print())
	if ip.LocalTimeStepping {
		fmt.Printf("Local timestepping enabled\n")
	}
	for rank := 0; rank < ip.Ranks; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			rs, rerr := newRankSim(rank, ip, layout, transport.Comm(rank), scen, fluxType)
			if rerr == nil {
				rerr = rs.run()
			}
			if rerr != nil {
				errs[rank] = rerr
				transport.Abort(rerr)
			}
		}(rank)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			err = e
			return
		}
	}
	return
}

func validate(ip *InputParameters.InputParametersSWE) (err error) {
	if ip.Ranks < 1 {
		err = fmt.Errorf("ranks must be positive, have %d", ip.Ranks)
		return
	}
	if ip.BlocksPerRank < 1 {
		err = fmt.Errorf("blocks per rank must be positive, have %d", ip.BlocksPerRank)
		return
	}
	if ip.ResolutionX < 1 || ip.ResolutionY < 1 {
		err = fmt.Errorf("resolution must be positive, have %d x %d", ip.ResolutionX, ip.ResolutionY)
		return
	}
	if ip.CheckpointCount < 1 {
		err = fmt.Errorf("checkpoint count must be positive, have %d", ip.CheckpointCount)
		return
	}
	if _, ok := solver.FluxNames[ip.FluxType]; !ok {
		err = fmt.Errorf("unable to use flux named %s", ip.FluxType)
		return
	}
	return
}

// rankSim is the per rank driver state: the rank's block arena, its
// snapshot writers and the checkpoint schedule.
type rankSim struct {
	ip     *InputParameters.InputParametersSWE
	comm   *comms.Comm
	arena  []*blocks.Block
	write  []*writer.VtkWriter
	checks []float64
}

func newRankSim(rank int, ip *InputParameters.InputParametersSWE, layout *comms.Layout,
	comm *comms.Comm, scen scenarios.Scenario, fluxType solver.FluxType) (rs *rankSim, err error) {
	var (
		widthScenario  = scen.BoundaryPos(types.BND_RIGHT) - scen.BoundaryPos(types.BND_LEFT)
		heightScenario = scen.BoundaryPos(types.BND_TOP) - scen.BoundaryPos(types.BND_BOTTOM)
		dx             = widthScenario / float64(ip.ResolutionX)
		dy             = heightScenario / float64(ip.ResolutionY)
	)
	nxLocal, nyLocal, offsetX, offsetY := layout.LocalExtent(rank, ip.ResolutionX, ip.ResolutionY)
	bx, by := layout.Position(rank)
	nbr := layout.Neighbours(rank)

	// Boundary types at the rank's outer edges: CONNECT towards other
	// ranks, the scenario's type at the domain boundary
	var rankBoundaries [4]types.BoundaryType
	for i := 0; i < 4; i++ {
		edge := types.BoundaryEdge(i)
		if nbr[edge] >= 0 {
			rankBoundaries[edge] = types.CONNECT
		} else {
			rankBoundaries[edge] = scen.BoundaryType(edge)
		}
	}

	nBlocks := ip.BlocksPerRank
	if nBlocks > nyLocal {
		nBlocks = nyLocal
	}
	var (
		pmBlocks  = utils.NewPartitionMap(nBlocks, nyLocal)
		procLimit = runtime.NumCPU() / ip.Ranks
	)
	rs = &rankSim{
		ip:    ip,
		comm:  comm,
		arena: make([]*blocks.Block, nBlocks),
	}
	for i := 0; i < nBlocks; i++ {
		yMin, yMax := pmBlocks.GetBucketRange(i)
		var (
			nyBlock = yMax - yMin
			originX = scen.BoundaryPos(types.BND_LEFT) + float64(offsetX)*dx
			originY = scen.BoundaryPos(types.BND_BOTTOM) + float64(offsetY+yMin)*dy
		)
		blk := blocks.NewBlock(nxLocal, nyBlock, dx, dy, originX, originY,
			fluxType, ip.LocalTimeStepping, procLimit)
		blk.OffsetX = offsetX
		blk.OffsetY = offsetY + yMin

		var (
			boundaries = rankBoundaries
			nbrRanks   = [4]int{nbr[0], nbr[1], -1, -1}
			nbrIdx     = [4]int{-1, -1, -1, -1}
		)
		if i > 0 {
			boundaries[types.BND_BOTTOM] = types.CONNECT_WITHIN_RANK
			nbrIdx[types.BND_BOTTOM] = i - 1
		} else {
			nbrRanks[types.BND_BOTTOM] = nbr[types.BND_BOTTOM]
		}
		if i < nBlocks-1 {
			boundaries[types.BND_TOP] = types.CONNECT_WITHIN_RANK
			nbrIdx[types.BND_TOP] = i + 1
		} else {
			nbrRanks[types.BND_TOP] = nbr[types.BND_TOP]
		}
		blk.InitScenario(scen, boundaries)
		blk.SetCommunicator(comm)
		blk.ConnectNeighbours(nbrRanks)
		blk.ConnectLocalNeighbours(rs.arena, nbrIdx)
		rs.arena[i] = blk

		if len(ip.OutputBasePath) != 0 {
			rs.write = append(rs.write, writer.NewVtkWriter(
				ip.OutputBasePath, blk.B, writer.BoundarySize{1, 1, 1, 1},
				nxLocal, nyBlock, dx, dy, originX, originY,
				bx, by*ip.BlocksPerRank+i))
		}
	}
	for _, blk := range rs.arena {
		if err = blk.ExchangeBathymetry(); err != nil {
			return
		}
	}

	// Compute when (w.r.t. the simulation time in seconds) the checkpoints are reached
	rs.checks = make([]float64, ip.CheckpointCount)
	delta := ip.SimulationDuration / float64(ip.CheckpointCount)
	rs.checks[0] = delta
	for i := 1; i < ip.CheckpointCount; i++ {
		rs.checks[i] = rs.checks[i-1] + delta
	}
	return
}

func (rs *rankSim) run() (err error) {
	var (
		t          float64
		iterations int
		start      = time.Now()
	)
	if err = rs.writeSnapshots(0); err != nil {
		return
	}
	if rs.ip.LocalTimeStepping {
		if err = rs.initReferenceTimestep(); err != nil {
			return
		}
	}
	for _, cp := range rs.checks {
		for t < cp {
			if rs.ip.LocalTimeStepping {
				t, err = rs.iterateLocal()
			} else {
				t, err = rs.iterateGlobal(t)
			}
			if err != nil {
				return
			}
			iterations++
		}
		if rs.comm.Rank() == 0 {
			fmt.Printf("Write timestep (%fs)\n", t)
		}
		if err = rs.writeSnapshots(t); err != nil {
			return
		}
	}
	rs.printFinal(time.Since(start), iterations)
	return
}

/*
	iterateGlobal advances every block of the rank by one shared
	timestep: ghost exchange, x-sweep, global min-reduce of the CFL
	candidates, y-sweep, update.
*/
func (rs *rankSim) iterateGlobal(t float64) (tNext float64, err error) {
	if err = rs.exchange(); err != nil {
		return
	}
	localMin := math.Inf(1)
	for _, blk := range rs.arena {
		blk.ComputeNumericalFluxesHorizontal()
		localMin = math.Min(localMin, blk.MaxTimestep)
	}
	// max timestep is reduced over all ranks between the sweeps
	dt, err := rs.comm.AllreduceMin(localMin)
	if err != nil {
		return
	}
	for _, blk := range rs.arena {
		blk.SetMaxTimestep(dt)
		blk.ComputeNumericalFluxesVertical()
	}
	for _, blk := range rs.arena {
		blk.UpdateUnknowns(dt)
	}
	tNext = t + dt
	return
}

/*
	iterateLocal advances each block by its own dyadic timestep where
	its ghost layers are in sync, and skips blocks that must wait for a
	neighbour. The returned simulated time is the global minimum over
	all blocks, which also keeps the per rank iteration counts in
	lockstep for the transport.
*/
func (rs *rankSim) iterateLocal() (tNext float64, err error) {
	if err = rs.exchange(); err != nil {
		return
	}
	for _, blk := range rs.arena {
		blk.ComputeNumericalFluxesHorizontal()
	}
	for _, blk := range rs.arena {
		blk.ComputeNumericalFluxesVertical()
	}
	tLocal := math.Inf(1)
	for _, blk := range rs.arena {
		blk.UpdateUnknowns(blk.MaxTimestep)
		tLocal = math.Min(tLocal, blk.TotalLocalTimestep)
	}
	tNext, err = rs.comm.AllreduceMin(tLocal)
	return
}

func (rs *rankSim) exchange() (err error) {
	for _, blk := range rs.arena {
		blk.SetGhostLayer()
	}
	for _, blk := range rs.arena {
		if err = blk.ReceiveGhostLayer(); err != nil {
			err = fmt.Errorf("rank %d: ghost exchange failed: %s", rs.comm.Rank(), err.Error())
			return
		}
	}
	return
}

/*
	initReferenceTimestep runs one pilot x-sweep and reduces the largest
	block candidate over all ranks. That coarsest timestep becomes the
	dyadic unit: blocks with a tighter CFL bound round down to ref/2^k,
	so fast and slow blocks meet at integer multiples of their steps.
	The pilot's net updates are recomputed by the first real iteration.
*/
func (rs *rankSim) initReferenceTimestep() (err error) {
	if err = rs.exchange(); err != nil {
		return
	}
	localMax := math.Inf(-1)
	for _, blk := range rs.arena {
		blk.ComputeNumericalFluxesHorizontal()
		localMax = math.Max(localMax, blk.MaxTimestep)
	}
	ref, err := rs.comm.AllreduceMax(localMax)
	if err != nil {
		return
	}
	for _, blk := range rs.arena {
		blk.SetReferenceTimestep(ref)
	}
	return
}

func (rs *rankSim) writeSnapshots(t float64) (err error) {
	for i, w := range rs.write {
		blk := rs.arena[i]
		if err = w.WriteTimeStep(blk.H, blk.Hu, blk.Hv, t); err != nil {
			err = fmt.Errorf("rank %d: snapshot failed: %s", rs.comm.Rank(), err.Error())
			return
		}
	}
	return
}

func (rs *rankSim) printFinal(elapsed time.Duration, iterations int) {
	var (
		stats = collector.New()
		cells int
	)
	for _, blk := range rs.arena {
		stats.Merge(blk.Stats)
		cells += blk.Nx * blk.Ny
	}
	stats.WallTime = elapsed
	stats.Print(rs.comm.Rank())
	totalFlops, err := rs.comm.AllreduceSum(stats.FlopCount)
	if err != nil {
		return
	}
	if n, ok := stats.Instructions(); ok {
		fmt.Printf("Rank %d : %d instructions retired\n", rs.comm.Rank(), n)
	}
	if rs.comm.Rank() == 0 && iterations > 0 {
		rate := float64(elapsed.Microseconds()) / float64(cells*iterations)
		fmt.Printf("\nFlop count: %8.3e\n", totalFlops)
		fmt.Printf("Rate of execution = %8.5f us/(cell*iteration) over %d iterations\n", rate, iterations)
	}
}
