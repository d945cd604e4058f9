package blocks

import (
	"github.com/notargets/goswe/comms"
	"github.com/notargets/goswe/types"
	"github.com/notargets/goswe/utils"
)

/*
	Message tags pack (payload kind, sending edge, origin coordinate)
	into disjoint bit fields, so the triple is uniquely recoverable and
	messages of sibling blocks at the same rank pair but different grid
	positions cannot be confused:

		tag = kind<<28 | side<<24 | (origin & 0xFFFFFF)

	The origin is a global cell index: the block's y offset for
	left/right traffic (shared between the two blocks facing the edge),
	its x offset for bottom/top traffic.
*/
const (
	tagKindTS = iota
	tagKindH
	tagKindHU
	tagKindHV
	tagKindB
)

func edgeTag(kind int, side types.BoundaryEdge, origin int) int {
	return kind<<28 | int(side)<<24 | (origin & 0xFFFFFF)
}

// sendViews returns the outermost interior column/row of each state
// array for the given edge, the transfer descriptor of §"Grid Buffers".
func (b *Block) sendViews(edge types.BoundaryEdge, f utils.Float2D) (sv utils.StridedVec) {
	switch edge {
	case types.BND_LEFT:
		sv = f.ColVec(1, 1, b.Ny)
	case types.BND_RIGHT:
		sv = f.ColVec(b.Nx, 1, b.Ny)
	case types.BND_BOTTOM:
		sv = f.Row(1, 1, b.Nx)
	case types.BND_TOP:
		sv = f.Row(b.Ny, 1, b.Nx)
	}
	return
}

// recvViews returns the ghost column/row of each state array for the
// given edge.
func (b *Block) recvViews(edge types.BoundaryEdge, f utils.Float2D) (sv utils.StridedVec) {
	switch edge {
	case types.BND_LEFT:
		sv = f.ColVec(0, 1, b.Ny)
	case types.BND_RIGHT:
		sv = f.ColVec(b.Nx+1, 1, b.Ny)
	case types.BND_BOTTOM:
		sv = f.Row(0, 1, b.Nx)
	case types.BND_TOP:
		sv = f.Row(b.Ny+1, 1, b.Nx)
	}
	return
}

// tagOrigin is the coordinate shared by both blocks facing an edge.
func (b *Block) tagOrigin(edge types.BoundaryEdge) (origin int) {
	switch edge {
	case types.BND_LEFT, types.BND_RIGHT:
		origin = b.OffsetY
	default:
		origin = b.OffsetX
	}
	return
}

/*
	SetGhostLayer applies the scenario boundary conditions and posts the
	non blocking sends for every CONNECT edge: h, hu, hv from the
	outermost interior column/row plus the block's cumulative simulated
	time. The requests behind the sends are released immediately; the
	matching receives are waited on in ReceiveGhostLayer.
*/
func (b *Block) SetGhostLayer() {
	b.applyBoundaryConditions()

	for i := 0; i < 4; i++ {
		edge := types.BoundaryEdge(i)
		if b.BoundaryType[edge] != types.CONNECT {
			continue
		}
		var (
			dest   = b.NeighbourRankId[edge]
			origin = b.tagOrigin(edge)
		)
		b.comm.Isend(b.sendViews(edge, b.H), dest, edgeTag(tagKindH, edge, origin))
		b.comm.Isend(b.sendViews(edge, b.Hu), dest, edgeTag(tagKindHU, edge, origin))
		b.comm.Isend(b.sendViews(edge, b.Hv), dest, edgeTag(tagKindHV, edge, origin))
		b.comm.IsendScalar(b.TotalLocalTimestep, dest, edgeTag(tagKindTS, edge, origin))
	}
}

/*
	ReceiveGhostLayer completes the exchange started by SetGhostLayer.

	CONNECT_WITHIN_RANK edges copy the neighbour's outermost interior
	column/row directly and read its cumulative simulated time; CONNECT
	edges post non blocking receives into the ghost ring and the
	timestep envelope, then wait on all of them. A transport error is
	fatal to the iteration and is returned for the driver to abort on.
*/
func (b *Block) ReceiveGhostLayer() error {
	b.Stats.StartComm()
	defer b.Stats.StopComm()

	for i := 0; i < 4; i++ {
		edge := types.BoundaryEdge(i)
		if b.BoundaryType[edge] != types.CONNECT_WITHIN_RANK {
			continue
		}
		var (
			nbr = b.neighbour(edge)
			op  = edge.Opposite()
		)
		b.BorderTimestep[edge] = nbr.TotalLocalTimestep
		b.recvViews(edge, b.H).Scatter(nbr.sendViews(op, nbr.H).Gather())
		b.recvViews(edge, b.Hu).Scatter(nbr.sendViews(op, nbr.Hu).Gather())
		b.recvViews(edge, b.Hv).Scatter(nbr.sendViews(op, nbr.Hv).Gather())
	}

	// 4 boundaries times (h, hu, hv, timestep) means 16 requests; nil
	// entries stand for request-null on non connected edges.
	var recvReqs [16]*comms.Request
	for i := 0; i < 4; i++ {
		edge := types.BoundaryEdge(i)
		if b.BoundaryType[edge] != types.CONNECT {
			continue
		}
		var (
			source = b.NeighbourRankId[edge]
			op     = edge.Opposite() // tag carries the sender's edge
			origin = b.tagOrigin(edge)
		)
		recvReqs[4*i+0] = b.comm.Irecv(b.recvViews(edge, b.H), source, edgeTag(tagKindH, op, origin))
		recvReqs[4*i+1] = b.comm.Irecv(b.recvViews(edge, b.Hu), source, edgeTag(tagKindHU, op, origin))
		recvReqs[4*i+2] = b.comm.Irecv(b.recvViews(edge, b.Hv), source, edgeTag(tagKindHV, op, origin))
		recvReqs[4*i+3] = b.comm.Irecv(
			utils.StridedVec{DataP: b.BorderTimestep[:], Offset: i, Count: 1, Stride: 1},
			source, edgeTag(tagKindTS, op, origin))
	}
	return comms.Waitall(recvReqs[:])
}

/*
	ExchangeBathymetry fills the bathymetry ghost ring once before the
	first iteration: mirrors on scenario edges, direct copy within the
	rank, messages across ranks.
*/
func (b *Block) ExchangeBathymetry() error {
	var (
		nx, ny = b.Nx, b.Ny
	)
	for i := 0; i < 4; i++ {
		edge := types.BoundaryEdge(i)
		switch b.BoundaryType[edge] {
		case types.CONNECT:
			dest := b.NeighbourRankId[edge]
			b.comm.Isend(b.sendViews(edge, b.B), dest, edgeTag(tagKindB, edge, b.tagOrigin(edge)))
		case types.CONNECT_WITHIN_RANK:
			nbr := b.neighbour(edge)
			b.recvViews(edge, b.B).Scatter(nbr.sendViews(edge.Opposite(), nbr.B).Gather())
		default:
			switch edge {
			case types.BND_LEFT:
				for y := 1; y <= ny; y++ {
					b.B.Set(0, y, b.B.At(1, y))
				}
			case types.BND_RIGHT:
				for y := 1; y <= ny; y++ {
					b.B.Set(nx+1, y, b.B.At(nx, y))
				}
			case types.BND_BOTTOM:
				for x := 1; x <= nx; x++ {
					b.B.Set(x, 0, b.B.At(x, 1))
				}
			case types.BND_TOP:
				for x := 1; x <= nx; x++ {
					b.B.Set(x, ny+1, b.B.At(x, ny))
				}
			}
		}
	}
	var recvReqs [4]*comms.Request
	for i := 0; i < 4; i++ {
		edge := types.BoundaryEdge(i)
		if b.BoundaryType[edge] != types.CONNECT {
			continue
		}
		recvReqs[i] = b.comm.Irecv(b.recvViews(edge, b.B), b.NeighbourRankId[edge],
			edgeTag(tagKindB, edge.Opposite(), b.tagOrigin(edge)))
	}
	return comms.Waitall(recvReqs[:])
}
