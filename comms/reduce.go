package comms

import (
	"math"

	"github.com/notargets/goswe/utils"
)

// Reserved tag for reduction traffic, outside the ghost exchange tag space.
const tagReduce = 0xF << 28

func scalarView(buf []float64) utils.StridedVec {
	return utils.StridedVec{DataP: buf, Offset: 0, Count: 1, Stride: 1}
}

/*
	AllreduceMin reduces val over all ranks and returns the global
	minimum on every rank.

	Rank 0 gathers the contributions in rank order, reduces, then
	broadcasts the result, so the reduction order is fixed and the
	result is bitwise identical across runs with the same rank count.
*/
func (c *Comm) AllreduceMin(val float64) (min float64, err error) {
	var (
		size = c.t.size
	)
	min = val
	if size == 1 {
		return
	}
	if c.rank == 0 {
		buf := make([]float64, 1)
		for source := 1; source < size; source++ {
			if err = c.Irecv(scalarView(buf), source, tagReduce).Wait(); err != nil {
				return
			}
			min = math.Min(min, buf[0])
		}
		for dest := 1; dest < size; dest++ {
			c.IsendScalar(min, dest, tagReduce)
		}
	} else {
		c.IsendScalar(val, 0, tagReduce)
		buf := make([]float64, 1)
		if err = c.Irecv(scalarView(buf), 0, tagReduce).Wait(); err != nil {
			return
		}
		min = buf[0]
	}
	return
}

// AllreduceMax reduces val to the global maximum on every rank, used to
// establish the coarsest dyadic reference timestep.
func (c *Comm) AllreduceMax(val float64) (max float64, err error) {
	max, err = c.AllreduceMin(-val)
	max = -max
	return
}

// AllreduceSum is the additive counterpart, used for end of run statistics.
func (c *Comm) AllreduceSum(val float64) (sum float64, err error) {
	var (
		size = c.t.size
	)
	sum = val
	if size == 1 {
		return
	}
	if c.rank == 0 {
		buf := make([]float64, 1)
		for source := 1; source < size; source++ {
			if err = c.Irecv(scalarView(buf), source, tagReduce).Wait(); err != nil {
				return
			}
			sum += buf[0]
		}
		for dest := 1; dest < size; dest++ {
			c.IsendScalar(sum, dest, tagReduce)
		}
	} else {
		c.IsendScalar(val, 0, tagReduce)
		buf := make([]float64, 1)
		if err = c.Irecv(scalarView(buf), 0, tagReduce).Wait(); err != nil {
			return
		}
		sum = buf[0]
	}
	return
}
