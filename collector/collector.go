package collector

import (
	"fmt"
	"time"
)

/*
	Collector accumulates per block runtime statistics: compute and
	communication wall clocks and an estimated flop count. On Linux,
	retired instruction counts from the hardware counters are available
	alongside the estimate where the perf subsystem is accessible.
*/
type Collector struct {
	ComputeTime time.Duration
	CommTime    time.Duration
	WallTime    time.Duration
	FlopCount   float64

	computeClock time.Time
	commClock    time.Time
	hw           *hwCounters
}

func New() (c *Collector) {
	c = &Collector{}
	c.hw = newHWCounters()
	return
}

func (c *Collector) StartCompute() {
	c.computeClock = time.Now()
}

func (c *Collector) StopCompute() {
	c.ComputeTime += time.Since(c.computeClock)
}

func (c *Collector) StartComm() {
	c.commClock = time.Now()
}

func (c *Collector) StopComm() {
	c.CommTime += time.Since(c.commClock)
}

// AddFlops adds an analytic flop estimate for a kernel invocation.
func (c *Collector) AddFlops(n float64) {
	c.FlopCount += n
}

// Merge folds another collector into this one, used to combine the
// blocks of a rank before the cross rank reduction.
func (c *Collector) Merge(o *Collector) {
	c.ComputeTime += o.ComputeTime
	c.CommTime += o.CommTime
	c.WallTime += o.WallTime
	c.FlopCount += o.FlopCount
}

// Instructions returns retired instruction counts from the hardware
// counters, or ok=false where perf is unavailable.
func (c *Collector) Instructions() (n uint64, ok bool) {
	return c.hw.instructions()
}

func (c *Collector) Print(rank int) {
	fmt.Printf("Rank %d : Compute Time (WALL): %vs - Comm: %vs | Total Time (Wall): %vs\n",
		rank, c.ComputeTime.Seconds(), c.CommTime.Seconds(), c.WallTime.Seconds())
}
