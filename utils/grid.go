package utils

import "fmt"

/*
	Float2D is a dense 2D array of float64 indexed [x][y].

	Important note concerning grid allocations:
	Since index shifts all over the place are bug-prone and maintenance
	unfriendly, an index of [x][y] is at the actual position x,y on the
	actual grid. This implies that the allocation size in any direction
	might be larger than the number of values needed; if array[x][y]
	needs to hold values in the domain [1,a][1,b], it is allocated with
	size (a+1, b+1) and array[0][0] is unused.

	Storage is column contiguous: for any fixed x, all y values are
	adjacent in memory. A column ships in one contiguous slice, a row
	ships through a StridedVec descriptor.
*/
type Float2D struct {
	Cols, Rows int // Cols is the x extent, Rows the y extent
	DataP      []float64
}

func NewFloat2D(cols, rows int) (f Float2D) {
	f = Float2D{
		Cols:  cols,
		Rows:  rows,
		DataP: make([]float64, cols*rows),
	}
	return
}

func (f Float2D) At(x, y int) float64 {
	return f.DataP[x*f.Rows+y]
}

func (f Float2D) Set(x, y int, val float64) {
	f.DataP[x*f.Rows+y] = val
}

func (f Float2D) Add(x, y int, val float64) {
	f.DataP[x*f.Rows+y] += val
}

// Col returns the contiguous slice backing column x, rows [y0, y0+count).
func (f Float2D) Col(x, y0, count int) []float64 {
	start := x*f.Rows + y0
	return f.DataP[start : start+count]
}

// Row returns a strided descriptor over row y, columns [x0, x0+count).
func (f Float2D) Row(y, x0, count int) StridedVec {
	return StridedVec{
		DataP:  f.DataP,
		Offset: x0*f.Rows + y,
		Count:  count,
		Stride: f.Rows,
	}
}

// ColVec returns column x as a StridedVec with unit stride, so both grid
// directions transfer through the same descriptor type.
func (f Float2D) ColVec(x, y0, count int) StridedVec {
	return StridedVec{
		DataP:  f.DataP,
		Offset: x*f.Rows + y0,
		Count:  count,
		Stride: 1,
	}
}

func (f Float2D) Zero() {
	for i := range f.DataP {
		f.DataP[i] = 0
	}
}

// StridedVec describes Count elements of DataP starting at Offset, spaced
// Stride elements apart. It stands in for an MPI vector datatype: one grid
// row or column for transfer purposes.
type StridedVec struct {
	DataP  []float64
	Offset int
	Count  int
	Stride int
}

// Gather copies the described elements into a fresh contiguous slice.
func (sv StridedVec) Gather() (out []float64) {
	out = make([]float64, sv.Count)
	for i := 0; i < sv.Count; i++ {
		out[i] = sv.DataP[sv.Offset+i*sv.Stride]
	}
	return
}

// Scatter copies a contiguous payload back into the described elements.
func (sv StridedVec) Scatter(in []float64) {
	if len(in) != sv.Count {
		panic(fmt.Errorf("payload length %d does not match descriptor count %d", len(in), sv.Count))
	}
	for i := 0; i < sv.Count; i++ {
		sv.DataP[sv.Offset+i*sv.Stride] = in[i]
	}
}
