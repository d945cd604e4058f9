package scenarios

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/goswe/types"
)

/*
	Scenario supplies the initial conditions and boundary description of
	a simulation as functions of physical coordinates. Blocks sample
	these at cell centers during initialization; the solver itself never
	touches a Scenario afterwards.
*/
type Scenario interface {
	Bathymetry(x, y float64) float64
	WaterHeight(x, y float64) float64
	MomentumX(x, y float64) float64
	MomentumY(x, y float64) float64
	BoundaryPos(edge types.BoundaryEdge) float64
	BoundaryType(edge types.BoundaryEdge) types.BoundaryType
}

// New resolves a scenario by name. File driven scenarios additionally
// need the bathymetry and displacement paths.
func New(name, batFile, displFile string) (s Scenario, err error) {
	switch strings.ToLower(name) {
	case "radialdambreak":
		s = NewRadialDamBreak()
	case "lakeatrest":
		s = NewLakeAtRest()
	case "stillwater":
		s = NewStillWater()
	case "file":
		s, err = NewFileScenario(batFile, displFile)
	default:
		err = fmt.Errorf("unknown scenario [%s]", name)
	}
	return
}

/*
	RadialDamBreak is a circular column of elevated water at the domain
	center over flat bathymetry, with outflow on all sides.
*/
type RadialDamBreak struct {
	Width, Height    float64
	CenterX, CenterY float64
	Radius           float64
	HInner, HOuter   float64
	Depth            float64 // flat bathymetry level (negative below sea level)
}

func NewRadialDamBreak() *RadialDamBreak {
	return &RadialDamBreak{
		Width: 1000, Height: 1000,
		CenterX: 500, CenterY: 500,
		Radius: 100,
		HInner: 15, HOuter: 10,
		Depth: 0,
	}
}

func (s *RadialDamBreak) Bathymetry(x, y float64) float64 { return s.Depth }

func (s *RadialDamBreak) WaterHeight(x, y float64) float64 {
	var (
		dx, dy = x - s.CenterX, y - s.CenterY
	)
	if math.Sqrt(dx*dx+dy*dy) < s.Radius {
		return s.HInner
	}
	return s.HOuter
}

func (s *RadialDamBreak) MomentumX(x, y float64) float64 { return 0 }
func (s *RadialDamBreak) MomentumY(x, y float64) float64 { return 0 }

func (s *RadialDamBreak) BoundaryPos(edge types.BoundaryEdge) (pos float64) {
	switch edge {
	case types.BND_RIGHT:
		pos = s.Width
	case types.BND_TOP:
		pos = s.Height
	}
	return
}

func (s *RadialDamBreak) BoundaryType(edge types.BoundaryEdge) types.BoundaryType {
	return types.OUTFLOW
}

/*
	LakeAtRest is still water over sinusoidal bathymetry with h chosen
	so that b+h is constant everywhere. A well balanced scheme must keep
	this state unchanged.
*/
type LakeAtRest struct {
	Width, Height float64
}

func NewLakeAtRest() *LakeAtRest {
	return &LakeAtRest{Width: 50, Height: 50}
}

func (s *LakeAtRest) Bathymetry(x, y float64) float64 {
	return -1 + 0.1*math.Sin(x/10)
}

func (s *LakeAtRest) WaterHeight(x, y float64) float64 {
	return -s.Bathymetry(x, y)
}

func (s *LakeAtRest) MomentumX(x, y float64) float64 { return 0 }
func (s *LakeAtRest) MomentumY(x, y float64) float64 { return 0 }

func (s *LakeAtRest) BoundaryPos(edge types.BoundaryEdge) (pos float64) {
	switch edge {
	case types.BND_RIGHT:
		pos = s.Width
	case types.BND_TOP:
		pos = s.Height
	}
	return
}

func (s *LakeAtRest) BoundaryType(edge types.BoundaryEdge) types.BoundaryType {
	return types.WALL
}

// StillWater is a uniform pool with flat bathymetry and wall boundaries.
type StillWater struct {
	Width, Height float64
	Depth         float64
}

func NewStillWater() *StillWater {
	return &StillWater{Width: 10, Height: 10, Depth: 1}
}

func (s *StillWater) Bathymetry(x, y float64) float64  { return -s.Depth }
func (s *StillWater) WaterHeight(x, y float64) float64 { return s.Depth }
func (s *StillWater) MomentumX(x, y float64) float64   { return 0 }
func (s *StillWater) MomentumY(x, y float64) float64   { return 0 }

func (s *StillWater) BoundaryPos(edge types.BoundaryEdge) (pos float64) {
	switch edge {
	case types.BND_RIGHT:
		pos = s.Width
	case types.BND_TOP:
		pos = s.Height
	}
	return
}

func (s *StillWater) BoundaryType(edge types.BoundaryEdge) types.BoundaryType {
	return types.WALL
}
