package types

// BoundaryEdge identifies one of the four edges of a block.
type BoundaryEdge uint8

const (
	BND_LEFT BoundaryEdge = iota
	BND_RIGHT
	BND_BOTTOM
	BND_TOP
)

var EdgePrintNames = []string{"Left", "Right", "Bottom", "Top"}

func (be BoundaryEdge) Print() (txt string) {
	txt = EdgePrintNames[be]
	return
}

// Opposite returns the matching edge on a neighbouring block.
func (be BoundaryEdge) Opposite() (op BoundaryEdge) {
	switch be {
	case BND_LEFT:
		op = BND_RIGHT
	case BND_RIGHT:
		op = BND_LEFT
	case BND_BOTTOM:
		op = BND_TOP
	case BND_TOP:
		op = BND_BOTTOM
	}
	return
}

// BoundaryType describes what lies beyond a block edge.
type BoundaryType uint8

const (
	OUTFLOW BoundaryType = iota
	WALL
	CONNECT             // neighbour block on another rank, exchanged via messages
	CONNECT_WITHIN_RANK // neighbour block on this rank, exchanged by direct copy
)

var BoundaryNameMap = map[string]BoundaryType{
	"outflow": OUTFLOW,
	"out":     OUTFLOW,
	"wall":    WALL,
}

var BoundaryPrintNames = []string{"Outflow", "Wall", "Connect", "ConnectWithinRank"}

func (bt BoundaryType) Print() (txt string) {
	txt = BoundaryPrintNames[bt]
	return
}

// IsConnect reports whether the edge borders another block rather than the
// scenario boundary.
func (bt BoundaryType) IsConnect() bool {
	return bt == CONNECT || bt == CONNECT_WITHIN_RANK
}
