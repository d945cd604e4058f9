package scenarios

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/goswe/types"
)

/*
	FileScenario reads bathymetry and optional seafloor displacement
	from plain text grid files and serves them as a data driven
	scenario. The format is a stand-in for the netCDF datasets used in
	production tsunami setups:

		nx ny width height
		v v v ... (nx*ny values, row y=0 first, x fastest)

	The displacement grid shares the format and is added onto the
	bathymetry; the initial water height is -b before displacement, so
	the displacement becomes the initial sea surface perturbation.
*/
type FileScenario struct {
	bath, displ   *gridData
	width, height float64
}

type gridData struct {
	nx, ny        int
	width, height float64
	vals          []float64
}

func NewFileScenario(batFile, displFile string) (s *FileScenario, err error) {
	s = &FileScenario{}
	if len(batFile) == 0 {
		err = fmt.Errorf("file scenario requires a bathymetry file")
		return
	}
	if s.bath, err = readGridFile(batFile); err != nil {
		err = fmt.Errorf("bathymetry file [%s]: %s", batFile, err.Error())
		return
	}
	s.width, s.height = s.bath.width, s.bath.height
	if len(displFile) != 0 {
		if s.displ, err = readGridFile(displFile); err != nil {
			err = fmt.Errorf("displacement file [%s]: %s", displFile, err.Error())
			return
		}
	}
	return
}

func readGridFile(path string) (g *gridData, err error) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scan := bufio.NewScanner(f)
	scan.Buffer(make([]byte, 1024*1024), 1024*1024)
	var fields []string
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		fields = append(fields, strings.Fields(line)...)
	}
	if err = scan.Err(); err != nil {
		return
	}
	if len(fields) < 4 {
		err = fmt.Errorf("missing header, need [nx ny width height]")
		return
	}
	g = &gridData{}
	if g.nx, err = strconv.Atoi(fields[0]); err != nil {
		return
	}
	if g.ny, err = strconv.Atoi(fields[1]); err != nil {
		return
	}
	if g.width, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return
	}
	if g.height, err = strconv.ParseFloat(fields[3], 64); err != nil {
		return
	}
	if g.nx < 1 || g.ny < 1 || g.width <= 0 || g.height <= 0 {
		err = fmt.Errorf("invalid header [%s %s %s %s]", fields[0], fields[1], fields[2], fields[3])
		return
	}
	vals := fields[4:]
	if len(vals) != g.nx*g.ny {
		err = fmt.Errorf("have %d values, expected %d", len(vals), g.nx*g.ny)
		return
	}
	g.vals = make([]float64, len(vals))
	for i, v := range vals {
		if g.vals[i], err = strconv.ParseFloat(v, 64); err != nil {
			return
		}
	}
	return
}

// sample returns the value of the grid cell containing (x, y).
func (g *gridData) sample(x, y float64) float64 {
	i := int(x / g.width * float64(g.nx))
	j := int(y / g.height * float64(g.ny))
	if i < 0 {
		i = 0
	}
	if i > g.nx-1 {
		i = g.nx - 1
	}
	if j < 0 {
		j = 0
	}
	if j > g.ny-1 {
		j = g.ny - 1
	}
	return g.vals[j*g.nx+i]
}

func (s *FileScenario) Bathymetry(x, y float64) (b float64) {
	b = s.bath.sample(x, y)
	if s.displ != nil {
		b += s.displ.sample(x, y)
	}
	return
}

func (s *FileScenario) WaterHeight(x, y float64) (h float64) {
	h = -s.bath.sample(x, y)
	if h < 0 {
		h = 0
	}
	return
}

func (s *FileScenario) MomentumX(x, y float64) float64 { return 0 }
func (s *FileScenario) MomentumY(x, y float64) float64 { return 0 }

func (s *FileScenario) BoundaryPos(edge types.BoundaryEdge) (pos float64) {
	switch edge {
	case types.BND_RIGHT:
		pos = s.width
	case types.BND_TOP:
		pos = s.height
	}
	return
}

func (s *FileScenario) BoundaryType(edge types.BoundaryEdge) types.BoundaryType {
	return types.OUTFLOW
}
