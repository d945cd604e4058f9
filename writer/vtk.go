package writer

import (
	"bufio"
	"fmt"
	"os"

	"github.com/notargets/goswe/utils"
)

// BoundarySize is the ghost ring extent excluded from snapshots, one
// cell on each side.
type BoundarySize [4]int

/*
	VtkWriter emits one XML structured grid file per block per
	checkpoint, holding water height, momentum and bathymetry of the
	interior cells. File names follow the deterministic template

		<base>_<bx>_<by>_<step>.vts

	so a run's snapshots can be globbed per block and ordered by step.
*/
type VtkWriter struct {
	BaseName         string
	BlockX, BlockY   int
	Nx, Ny           int
	Dx, Dy           float64
	OriginX, OriginY float64
	Boundary         BoundarySize

	b    utils.Float2D
	step int
}

func NewVtkWriter(baseName string, b utils.Float2D, boundary BoundarySize,
	nx, ny int, dx, dy, originX, originY float64, blockX, blockY int) (w *VtkWriter) {
	w = &VtkWriter{
		BaseName: baseName,
		BlockX:   blockX, BlockY: blockY,
		Nx: nx, Ny: ny,
		Dx: dx, Dy: dy,
		OriginX: originX, OriginY: originY,
		Boundary: boundary,
		b:        b,
	}
	return
}

// FileName returns the snapshot path for the writer's current step.
func (w *VtkWriter) FileName() string {
	return fmt.Sprintf("%s_%d_%d_%04d.vts", w.BaseName, w.BlockX, w.BlockY, w.step)
}

// WriteTimeStep writes one snapshot of (h, hu, hv) at the given
// simulated time and advances the step counter.
func (w *VtkWriter) WriteTimeStep(h, hu, hv utils.Float2D, time float64) (err error) {
	f, err := os.Create(w.FileName())
	if err != nil {
		return
	}
	defer f.Close()
	out := bufio.NewWriter(f)

	var (
		nx, ny = w.Nx, w.Ny
		x0, y0 = w.Boundary[0], w.Boundary[2] // left, bottom ghost extents
	)
	fmt.Fprintf(out, "<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(out, "<VTKFile type=\"StructuredGrid\">\n")
	fmt.Fprintf(out, "<StructuredGrid WholeExtent=\"0 %d 0 %d 0 0\">\n", nx, ny)
	fmt.Fprintf(out, "<Piece Extent=\"0 %d 0 %d 0 0\">\n", nx, ny)
	fmt.Fprintf(out, "<FieldData><DataArray type=\"Float64\" Name=\"TimeValue\" NumberOfTuples=\"1\" format=\"ascii\">%g</DataArray></FieldData>\n", time)
	fmt.Fprintf(out, "<Points><DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			fmt.Fprintf(out, "%g %g 0\n", w.OriginX+float64(i)*w.Dx, w.OriginY+float64(j)*w.Dy)
		}
	}
	fmt.Fprintf(out, "</DataArray></Points>\n")
	fmt.Fprintf(out, "<CellData>\n")
	writeCellArray(out, "h", h, nx, ny, x0, y0)
	writeCellArray(out, "hu", hu, nx, ny, x0, y0)
	writeCellArray(out, "hv", hv, nx, ny, x0, y0)
	writeCellArray(out, "b", w.b, nx, ny, x0, y0)
	fmt.Fprintf(out, "</CellData>\n")
	fmt.Fprintf(out, "</Piece>\n</StructuredGrid>\n</VTKFile>\n")

	if err = out.Flush(); err != nil {
		return
	}
	w.step++
	return
}

func writeCellArray(out *bufio.Writer, name string, f utils.Float2D, nx, ny, x0, y0 int) {
	fmt.Fprintf(out, "<DataArray Name=\"%s\" type=\"Float64\" format=\"ascii\">\n", name)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			fmt.Fprintf(out, "%g\n", f.At(i+x0, j+y0))
		}
	}
	fmt.Fprintf(out, "</DataArray>\n")
}
