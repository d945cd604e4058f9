package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat2D(t *testing.T) {
	{ // Columns are contiguous in memory for fixed x
		f := NewFloat2D(4, 3)
		for x := 0; x < 4; x++ {
			for y := 0; y < 3; y++ {
				f.Set(x, y, float64(10*x+y))
			}
		}
		for x := 0; x < 4; x++ {
			col := f.Col(x, 0, 3)
			for y := 0; y < 3; y++ {
				assert.Equal(t, float64(10*x+y), col[y])
			}
		}
		// Adjacent y values of a column are adjacent in the backing slice
		assert.Equal(t, f.DataP[1*3+0], f.At(1, 0))
		assert.Equal(t, f.DataP[1*3+1], f.At(1, 1))
	}
	{ // Row views stride over the backing slice
		f := NewFloat2D(5, 4)
		for x := 0; x < 5; x++ {
			for y := 0; y < 4; y++ {
				f.Set(x, y, float64(10*x+y))
			}
		}
		row := f.Row(2, 1, 3).Gather()
		assert.Equal(t, []float64{12, 22, 32}, row)

		f.Row(2, 1, 3).Scatter([]float64{-1, -2, -3})
		assert.Equal(t, -1., f.At(1, 2))
		assert.Equal(t, -2., f.At(2, 2))
		assert.Equal(t, -3., f.At(3, 2))
		// Neighbouring rows untouched
		assert.Equal(t, 11., f.At(1, 1))
		assert.Equal(t, 13., f.At(1, 3))
	}
	{ // ColVec round trips through Gather/Scatter
		f := NewFloat2D(3, 5)
		f.Set(1, 1, 7)
		f.Set(1, 2, 8)
		v := f.ColVec(1, 1, 2)
		assert.Equal(t, []float64{7, 8}, v.Gather())
		v.Scatter([]float64{9, 10})
		assert.Equal(t, 9., f.At(1, 1))
		assert.Equal(t, 10., f.At(1, 2))
	}
	{ // Scatter panics on a length mismatch
		f := NewFloat2D(2, 2)
		assert.Panics(t, func() {
			f.ColVec(0, 0, 2).Scatter([]float64{1})
		})
	}
}
