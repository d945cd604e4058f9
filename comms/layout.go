package comms

import (
	"math"

	"github.com/notargets/goswe/types"
)

/*
	Layout tiles P ranks into a 2D process grid:
	blocksY = floor(sqrt(P)), decremented until it divides P, then
	blocksX = P / blocksY, so blocksX >= blocksY and blocksX*blocksY = P.

	Rank r maps to grid position (r / blocksY, r % blocksY): ranks run
	bottom to top within a column of the grid, columns left to right.
*/
type Layout struct {
	Ranks            int
	BlocksX, BlocksY int
}

func NewLayout(ranks int) (l *Layout) {
	blocksY := int(math.Sqrt(float64(ranks)))
	for ranks%blocksY != 0 {
		blocksY--
	}
	l = &Layout{
		Ranks:   ranks,
		BlocksX: ranks / blocksY,
		BlocksY: blocksY,
	}
	return
}

// Position returns the grid coordinates of rank r.
func (l *Layout) Position(r int) (bx, by int) {
	bx, by = r/l.BlocksY, r%l.BlocksY
	return
}

// Neighbours returns the rank id adjacent to r across each edge, or -1
// where r sits on the domain boundary.
func (l *Layout) Neighbours(r int) (nbr [4]int) {
	var (
		bx, by = l.Position(r)
	)
	nbr[types.BND_LEFT] = -1
	nbr[types.BND_RIGHT] = -1
	nbr[types.BND_BOTTOM] = -1
	nbr[types.BND_TOP] = -1
	if bx > 0 {
		nbr[types.BND_LEFT] = r - l.BlocksY
	}
	if bx < l.BlocksX-1 {
		nbr[types.BND_RIGHT] = r + l.BlocksY
	}
	if by > 0 {
		nbr[types.BND_BOTTOM] = r - 1
	}
	if by < l.BlocksY-1 {
		nbr[types.BND_TOP] = r + 1
	}
	return
}

/*
	LocalExtent computes the interior cell count and global cell offset
	of rank r given the requested global resolution. The base count is
	nx/blocksX (resp. ny/blocksY); the rightmost column and top row of
	blocks absorb the remainder.
*/
func (l *Layout) LocalExtent(r, nxGlobal, nyGlobal int) (nx, ny, offsetX, offsetY int) {
	var (
		bx, by  = l.Position(r)
		nxBlock = nxGlobal / l.BlocksX
		nyBlock = nyGlobal / l.BlocksY
	)
	offsetX = bx * nxBlock
	offsetY = by * nyBlock
	nx = nxBlock
	if bx == l.BlocksX-1 {
		nx = nxGlobal - (l.BlocksX-1)*nxBlock
	}
	ny = nyBlock
	if by == l.BlocksY-1 {
		ny = nyGlobal - (l.BlocksY-1)*nyBlock
	}
	return
}
