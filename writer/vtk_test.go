package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/goswe/utils"
)

func TestVtkWriter(t *testing.T) {
	var (
		dir    = t.TempDir()
		nx, ny = 3, 2
		h      = utils.NewFloat2D(nx+2, ny+2)
		hu     = utils.NewFloat2D(nx+2, ny+2)
		hv     = utils.NewFloat2D(nx+2, ny+2)
		b      = utils.NewFloat2D(nx+2, ny+2)
	)
	for x := 1; x <= nx; x++ {
		for y := 1; y <= ny; y++ {
			h.Set(x, y, float64(10*x+y))
			b.Set(x, y, -1)
		}
	}
	w := NewVtkWriter(filepath.Join(dir, "out"), b, BoundarySize{1, 1, 1, 1},
		nx, ny, 0.5, 0.5, 0, 0, 2, 3)

	require.NoError(t, w.WriteTimeStep(h, hu, hv, 0))
	require.NoError(t, w.WriteTimeStep(h, hu, hv, 0.25))

	// Deterministic template from base name, block coordinates and step
	name := filepath.Join(dir, "out_2_3_0001.vts")
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	txt := string(data)
	assert.True(t, strings.Contains(txt, "StructuredGrid"))
	assert.True(t, strings.Contains(txt, "TimeValue"))
	assert.True(t, strings.Contains(txt, "0.25"))
	// Interior cell (1,1) is the first value of the h array
	assert.True(t, strings.Contains(txt, "11"))
	// The ghost ring never leaks into the snapshot
	assert.False(t, strings.Contains(txt, "-99"))
}

func TestVtkWriterGhostExclusion(t *testing.T) {
	var (
		nx, ny = 2, 2
		h      = utils.NewFloat2D(nx+2, ny+2)
		b      = utils.NewFloat2D(nx+2, ny+2)
	)
	for x := 0; x < nx+2; x++ {
		for y := 0; y < ny+2; y++ {
			h.Set(x, y, -99)
		}
	}
	for x := 1; x <= nx; x++ {
		for y := 1; y <= ny; y++ {
			h.Set(x, y, 5)
		}
	}
	w := NewVtkWriter(filepath.Join(t.TempDir(), "snap"), b, BoundarySize{1, 1, 1, 1},
		nx, ny, 1, 1, 0, 0, 0, 0)
	require.NoError(t, w.WriteTimeStep(h, h, h, 1))
	data, err := os.ReadFile(w.BaseName + "_0_0_0000.vts")
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "-99"))
}
