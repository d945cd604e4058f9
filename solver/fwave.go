package solver

/*
	FWave decomposes the flux difference across an edge onto the Roe
	eigenvectors

		lambda1 = uRoe - cRoe
		lambda2 = uRoe + cRoe

	following Bale, LeVeque, Mitran, Rossmanith: "A wave propagation
	method for conservation laws and balance laws with spatially varying
	flux functions". The bathymetry source term is carried inside the
	flux difference, which makes the scheme well balanced.
*/
type FWave struct{}

func (s *FWave) ComputeNetUpdates(hL, hR, huL, huR, bL, bR float64) (hUpdL, hUpdR, huUpdL, huUpdR, maxWaveSpeed float64) {
	l, r, updateL, updateR, trivial := riemannInputs(hL, hR, huL, huR, bL, bR)
	if trivial {
		return
	}
	var (
		uRoe, cRoe = roeAverages(l, r)
	)
	hUpdL, hUpdR, huUpdL, huUpdR, maxWaveSpeed = fWaveDecompose(l, r, uRoe-cRoe, uRoe+cRoe, updateL, updateR)
	return
}
