package solver

import (
	"fmt"
	"strings"
)

const (
	// Gravity is the gravitational acceleration used throughout.
	Gravity = 9.81
	// DryTol is the water height below which a cell is treated as dry.
	DryTol = 1.e-4
)

/*
	NetUpdater solves a 1D Riemann problem across a cell edge.

	Given the conserved quantities on either side of the edge and the
	bathymetry, it returns the wave contributions leaving the edge
	leftward and rightward, and the maximum absolute wave speed along
	the edge. The x-sweep passes hu for the momentum pair; the y-sweep
	passes hv.

	Implementations are pure and thread safe: each sweep worker holds
	its own copy, so an implementation may keep scratch state.
*/
type NetUpdater interface {
	ComputeNetUpdates(hL, hR, huL, huR, bL, bR float64) (hUpdL, hUpdR, huUpdL, huUpdR, maxWaveSpeed float64)
}

type FluxType uint

const (
	FLUX_HLLE FluxType = iota
	FLUX_FWave
	FLUX_AugRie
)

var (
	FluxNames = map[string]FluxType{
		"hlle":   FLUX_HLLE,
		"fwave":  FLUX_FWave,
		"augrie": FLUX_AugRie,
	}
	FluxPrintNames = []string{"HLLE", "F-Wave", "Augmented Riemann"}
)

func (ft FluxType) Print() (txt string) {
	txt = FluxPrintNames[ft]
	return
}

func NewFluxType(label string) (ft FluxType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(label)
	if ft, ok = FluxNames[label]; !ok {
		err = fmt.Errorf("unable to use flux named %s", label)
		panic(err)
	}
	return
}

// New constructs a fresh solver instance of the given type. Sweep workers
// call this once each so that no instance is shared across goroutines.
func (ft FluxType) New() (nu NetUpdater) {
	switch ft {
	case FLUX_HLLE:
		nu = &HLLE{}
	case FLUX_FWave:
		nu = &FWave{}
	case FLUX_AugRie:
		nu = &AugRie{}
	default:
		panic(fmt.Errorf("unknown flux type %d", ft))
	}
	return
}

/*
	riemannInputs normalizes the edge state before decomposition:
	dry-dry edges carry no waves, and a wet-dry edge is replaced by a
	reflecting wall so that no water leaks into dry cells. The returned
	flags suppress the update on a dry side.
*/
func riemannInputs(hL, hR, huL, huR, bL, bR float64) (l, r state, updateL, updateR bool, trivial bool) {
	var (
		dryL = hL <= DryTol
		dryR = hR <= DryTol
	)
	if dryL && dryR {
		trivial = true
		return
	}
	l, r = state{h: hL, hu: huL, b: bL}, state{h: hR, hu: huR, b: bR}
	updateL, updateR = true, true
	if dryL {
		l = state{h: hR, hu: -huR, b: bR}
		updateL = false
	} else if dryR {
		r = state{h: hL, hu: -huL, b: bL}
		updateR = false
	}
	return
}

type state struct {
	h, hu, b float64
}

func (s state) u() float64 {
	return s.hu / s.h
}

/*
	fWaveDecompose splits the flux difference across an edge into two
	waves along the eigenvector directions (1, lambda1) and (1, lambda2)
	and accumulates each wave onto the side its speed points to.

	The bathymetry source term g*hBar*(bR-bL) enters the momentum flux
	difference, which balances the hydrostatic pressure gradient exactly
	when h+b is constant (lake at rest).
*/
func fWaveDecompose(l, r state, lambda1, lambda2 float64, updateL, updateR bool) (hUpdL, hUpdR, huUpdL, huUpdR, maxWaveSpeed float64) {
	var (
		hBar = 0.5 * (l.h + r.h)
		df1  = r.hu - l.hu
		df2  = r.hu*r.u() + 0.5*Gravity*r.h*r.h -
			(l.hu*l.u() + 0.5*Gravity*l.h*l.h) +
			Gravity*hBar*(r.b-l.b)
		dLambda = lambda2 - lambda1
	)
	if dLambda == 0 {
		// Degenerate eigenspace, no decomposition possible; the edge is
		// effectively still water at identical states.
		return
	}
	var (
		beta1 = (lambda2*df1 - df2) / dLambda
		beta2 = (df2 - lambda1*df1) / dLambda
	)
	// wave 1
	if lambda1 < 0 {
		if updateL {
			hUpdL += beta1
			huUpdL += beta1 * lambda1
		}
	} else {
		if updateR {
			hUpdR += beta1
			huUpdR += beta1 * lambda1
		}
	}
	// wave 2
	if lambda2 > 0 {
		if updateR {
			hUpdR += beta2
			huUpdR += beta2 * lambda2
		}
	} else {
		if updateL {
			hUpdL += beta2
			huUpdL += beta2 * lambda2
		}
	}
	maxWaveSpeed = maxAbs(lambda1, lambda2)
	return
}

func maxAbs(a, b float64) (m float64) {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	m = a
	if b > a {
		m = b
	}
	return
}
