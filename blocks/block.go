package blocks

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/goswe/collector"
	"github.com/notargets/goswe/comms"
	"github.com/notargets/goswe/scenarios"
	"github.com/notargets/goswe/solver"
	"github.com/notargets/goswe/types"
	"github.com/notargets/goswe/utils"
)

// Timesteps within this tolerance count as equal; matches the update
// assertion of the reference scheme.
const TimestepTol = 1.e-5

/*
	Block is one rectangular subdomain of the simulation.

	Computational domain is [1,nx]*[1,ny]; the ghost layer is one
	additional row and column on each side. State variables h, hu, hv
	and b are defined on the whole grid including the ghost layer. Net
	updates coming from above/below/left/right are held per cell.

	Net updates are computed on all columns first (x-sweep), then on all
	rows (y-sweep); the total update is composed from the two 1D
	solutions. This strategy only works if the timestep chosen w.r.t.
	the maximum horizontal wave speeds also satisfies the CFL condition
	in the y-direction.
*/
type Block struct {
	Nx, Ny           int
	Dx, Dy           float64
	OriginX, OriginY float64
	OffsetX, OffsetY int // global cell index of the lower left interior corner

	// State, defined on (nx+2) x (ny+2) including the ghost ring
	H, Hu, Hv, B utils.Float2D

	// Intermediate state after the x-sweep
	HStar, HuStar utils.Float2D

	// Directional net updates from the x-sweep
	HNetUpdatesLeft, HNetUpdatesRight   utils.Float2D
	HuNetUpdatesLeft, HuNetUpdatesRight utils.Float2D

	// Directional net updates from the y-sweep
	HNetUpdatesBelow, HNetUpdatesAbove   utils.Float2D
	HvNetUpdatesBelow, HvNetUpdatesAbove utils.Float2D

	BoundaryType    [4]types.BoundaryType
	NeighbourRankId [4]int // valid where BoundaryType is CONNECT
	NeighbourIdx    [4]int // arena index, valid where CONNECT_WITHIN_RANK

	MaxTimestep                                  float64
	MaxHorizontalWaveSpeed, MaxVerticalWaveSpeed float64
	BorderTimestep                               [4]float64
	TotalLocalTimestep                           float64
	LocalTimestepping                            bool
	refTimestep                                  float64 // dyadic unit for local timestep rounding

	FluxType       solver.FluxType
	ParallelDegree int

	MyRank int
	comm   *comms.Comm
	arena  []*Block // the rank's blocks; non-owning, for within-rank copies

	Stats *collector.Collector

	pmEdges    *utils.PartitionMap // x-edge range [0, nx+1) for the x-sweep
	pmInterior *utils.PartitionMap // interior column range [0, nx) for the y-sweep
}

func NewBlock(nx, ny int, dx, dy, originX, originY float64, fluxType solver.FluxType,
	localTimestepping bool, procLimit int) (b *Block) {
	b = &Block{
		Nx: nx, Ny: ny,
		Dx: dx, Dy: dy,
		OriginX: originX, OriginY: originY,
		H:  utils.NewFloat2D(nx+2, ny+2),
		Hu: utils.NewFloat2D(nx+2, ny+2),
		Hv: utils.NewFloat2D(nx+2, ny+2),
		B:  utils.NewFloat2D(nx+2, ny+2),

		HStar:  utils.NewFloat2D(nx+1, ny+2),
		HuStar: utils.NewFloat2D(nx+1, ny+2),

		HNetUpdatesLeft:  utils.NewFloat2D(nx+2, ny+2),
		HNetUpdatesRight: utils.NewFloat2D(nx+2, ny+2),

		HuNetUpdatesLeft:  utils.NewFloat2D(nx+2, ny+2),
		HuNetUpdatesRight: utils.NewFloat2D(nx+2, ny+2),

		HNetUpdatesBelow: utils.NewFloat2D(nx+1, ny+2),
		HNetUpdatesAbove: utils.NewFloat2D(nx+1, ny+2),

		HvNetUpdatesBelow: utils.NewFloat2D(nx+1, ny+2),
		HvNetUpdatesAbove: utils.NewFloat2D(nx+1, ny+2),

		FluxType:          fluxType,
		LocalTimestepping: localTimestepping,
		Stats:             collector.New(),
	}
	if procLimit <= 0 {
		procLimit = 1
	}
	b.ParallelDegree = procLimit
	b.pmEdges = utils.NewPartitionMap(b.ParallelDegree, nx+1)
	b.pmInterior = utils.NewPartitionMap(b.ParallelDegree, nx)
	for i := 0; i < 4; i++ {
		b.NeighbourRankId[i] = -1
		b.NeighbourIdx[i] = -1
	}
	return
}

// SetCommunicator attaches the transport handle used for CONNECT edges.
func (b *Block) SetCommunicator(comm *comms.Comm) {
	b.comm = comm
	if comm != nil {
		b.MyRank = comm.Rank()
	}
}

// ConnectNeighbours records the remote rank ids across each CONNECT edge.
func (b *Block) ConnectNeighbours(neighbourRankId [4]int) {
	b.NeighbourRankId = neighbourRankId
}

// ConnectLocalNeighbours records the arena and the indices of the
// in-process neighbours across CONNECT_WITHIN_RANK edges. The arena is a
// non-owning back reference.
func (b *Block) ConnectLocalNeighbours(arena []*Block, idx [4]int) {
	b.arena = arena
	b.NeighbourIdx = idx
}

func (b *Block) neighbour(edge types.BoundaryEdge) *Block {
	return b.arena[b.NeighbourIdx[edge]]
}

/*
	InitScenario samples the scenario at cell centers for the whole grid
	including the ghost ring, and installs the boundary types handed in
	unchanged; the scenario's own boundary types are not consulted, so
	the caller passes CONNECT types towards other blocks and the
	scenario's types elsewhere.
*/
func (b *Block) InitScenario(scen scenarios.Scenario, boundaries [4]types.BoundaryType) {
	for x := 0; x < b.Nx+2; x++ {
		px := b.OriginX + (float64(x)-0.5)*b.Dx
		for y := 0; y < b.Ny+2; y++ {
			py := b.OriginY + (float64(y)-0.5)*b.Dy
			b.B.Set(x, y, scen.Bathymetry(px, py))
			b.H.Set(x, y, scen.WaterHeight(px, py))
			b.Hu.Set(x, y, scen.MomentumX(px, py))
			b.Hv.Set(x, y, scen.MomentumY(px, py))
		}
	}
	b.BoundaryType = boundaries
}

/*
	applyBoundaryConditions fills the ghost ring on OUTFLOW and WALL
	edges by local mirrors: OUTFLOW copies the adjacent interior cell,
	WALL additionally negates the normal momentum component. CONNECT
	edges are left to the ghost exchange.
*/
func (b *Block) applyBoundaryConditions() {
	var (
		nx, ny = b.Nx, b.Ny
	)
	if !b.BoundaryType[types.BND_LEFT].IsConnect() {
		sign := outflowOrWall(b.BoundaryType[types.BND_LEFT])
		for y := 1; y <= ny; y++ {
			b.H.Set(0, y, b.H.At(1, y))
			b.Hu.Set(0, y, sign*b.Hu.At(1, y))
			b.Hv.Set(0, y, b.Hv.At(1, y))
		}
	}
	if !b.BoundaryType[types.BND_RIGHT].IsConnect() {
		sign := outflowOrWall(b.BoundaryType[types.BND_RIGHT])
		for y := 1; y <= ny; y++ {
			b.H.Set(nx+1, y, b.H.At(nx, y))
			b.Hu.Set(nx+1, y, sign*b.Hu.At(nx, y))
			b.Hv.Set(nx+1, y, b.Hv.At(nx, y))
		}
	}
	if !b.BoundaryType[types.BND_BOTTOM].IsConnect() {
		sign := outflowOrWall(b.BoundaryType[types.BND_BOTTOM])
		for x := 1; x <= nx; x++ {
			b.H.Set(x, 0, b.H.At(x, 1))
			b.Hu.Set(x, 0, b.Hu.At(x, 1))
			b.Hv.Set(x, 0, sign*b.Hv.At(x, 1))
		}
	}
	if !b.BoundaryType[types.BND_TOP].IsConnect() {
		sign := outflowOrWall(b.BoundaryType[types.BND_TOP])
		for x := 1; x <= nx; x++ {
			b.H.Set(x, ny+1, b.H.At(x, ny))
			b.Hu.Set(x, ny+1, b.Hu.At(x, ny))
			b.Hv.Set(x, ny+1, sign*b.Hv.At(x, ny))
		}
	}
	// Corner ghost cells take the diagonal interior value
	corners := [4][4]int{
		{0, 0, 1, 1},
		{0, ny + 1, 1, ny},
		{nx + 1, 0, nx, 1},
		{nx + 1, ny + 1, nx, ny},
	}
	for _, c := range corners {
		b.H.Set(c[0], c[1], b.H.At(c[2], c[3]))
		b.Hu.Set(c[0], c[1], b.Hu.At(c[2], c[3]))
		b.Hv.Set(c[0], c[1], b.Hv.At(c[2], c[3]))
	}
}

func outflowOrWall(bt types.BoundaryType) (sign float64) {
	sign = 1
	if bt == types.WALL {
		sign = -1
	}
	return
}

/*
	Local timestepping: each block rounds its CFL timestep down to the
	dyadic grid ref/2^k so that fast blocks take an integer number of
	steps for every step a slow block takes, and blocks meet at common
	simulated times.
*/

// SetReferenceTimestep installs the dyadic unit, usually the globally
// reduced timestep of the first iteration.
func (b *Block) SetReferenceTimestep(ref float64) {
	b.refTimestep = ref
}

func (b *Block) ReferenceTimestep() float64 {
	return b.refTimestep
}

// RoundTimestep returns the largest ref/2^k that is <= dt.
func (b *Block) RoundTimestep(dt float64) (rounded float64) {
	if b.refTimestep == 0 || math.IsInf(dt, 1) {
		rounded = dt
		return
	}
	rounded = b.refTimestep
	for k := 0; rounded > dt && k < 48; k++ {
		rounded *= 0.5
	}
	return
}

/*
	AllGhostlayersInSync reports whether every connected neighbour has
	advanced at least to this block's simulated time, i.e. the ghost
	data received last exchange is not stale. A block that is not in
	sync skips its sweeps and update for the iteration; it is retried
	once the neighbour advances.
*/
func (b *Block) AllGhostlayersInSync() bool {
	if !b.LocalTimestepping {
		return true
	}
	for i := 0; i < 4; i++ {
		if !b.BoundaryType[i].IsConnect() {
			continue
		}
		if b.BorderTimestep[i]+TimestepTol < b.TotalLocalTimestep {
			return false
		}
	}
	return true
}

// SetMaxTimestep overrides the block-local candidate with the globally
// reduced timestep.
func (b *Block) SetMaxTimestep(dt float64) {
	b.MaxTimestep = dt
}

// MassTotal sums h over the interior cells, used for conservation
// monitoring and tests.
func (b *Block) MassTotal() (mass float64) {
	for x := 1; x <= b.Nx; x++ {
		mass += floats.Sum(b.H.Col(x, 1, b.Ny))
	}
	return
}
