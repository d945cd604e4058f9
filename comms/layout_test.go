package comms

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/goswe/types"
)

func TestLayout(t *testing.T) {
	{ // Square and rectangular process grids, blocksX >= blocksY
		for _, tc := range []struct{ ranks, bx, by int }{
			{1, 1, 1}, {2, 2, 1}, {3, 3, 1}, {4, 2, 2},
			{5, 5, 1}, {6, 3, 2}, {9, 3, 3}, {12, 4, 3},
		} {
			l := NewLayout(tc.ranks)
			assert.Equal(t, tc.bx, l.BlocksX, "ranks=%d", tc.ranks)
			assert.Equal(t, tc.by, l.BlocksY, "ranks=%d", tc.ranks)
			assert.True(t, l.BlocksX >= l.BlocksY)
		}
	}
	{ // Rank positions walk columns bottom to top
		l := NewLayout(6) // 3 x 2
		bx, by := l.Position(0)
		assert.Equal(t, [2]int{0, 0}, [2]int{bx, by})
		bx, by = l.Position(1)
		assert.Equal(t, [2]int{0, 1}, [2]int{bx, by})
		bx, by = l.Position(2)
		assert.Equal(t, [2]int{1, 0}, [2]int{bx, by})
		bx, by = l.Position(5)
		assert.Equal(t, [2]int{2, 1}, [2]int{bx, by})
	}
	{ // Neighbour ranks, suppressed at the domain edge
		l := NewLayout(6) // 3 x 2
		nbr := l.Neighbours(0)
		assert.Equal(t, -1, nbr[types.BND_LEFT])
		assert.Equal(t, 2, nbr[types.BND_RIGHT])
		assert.Equal(t, -1, nbr[types.BND_BOTTOM])
		assert.Equal(t, 1, nbr[types.BND_TOP])
		nbr = l.Neighbours(3)
		assert.Equal(t, 1, nbr[types.BND_LEFT])
		assert.Equal(t, 5, nbr[types.BND_RIGHT])
		assert.Equal(t, 2, nbr[types.BND_BOTTOM])
		assert.Equal(t, -1, nbr[types.BND_TOP])
	}
	{ // Rightmost column and top row absorb the cell remainder
		l := NewLayout(4) // 2 x 2
		nx, ny, ox, oy := l.LocalExtent(0, 101, 7)
		assert.Equal(t, [4]int{50, 3, 0, 0}, [4]int{nx, ny, ox, oy})
		nx, ny, ox, oy = l.LocalExtent(3, 101, 7)
		assert.Equal(t, [4]int{51, 4, 50, 3}, [4]int{nx, ny, ox, oy})
		// Extents tile the global grid exactly
		total := 0
		for r := 0; r < 4; r++ {
			nx, ny, _, _ = l.LocalExtent(r, 101, 7)
			total += nx * ny
		}
		assert.Equal(t, 101*7, total)
	}
}
