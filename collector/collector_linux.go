//go:build linux

package collector

import (
	"os"

	perf "github.com/hodgesds/perf-utils"
)

type hwCounters struct {
	profiler perf.HardwareProfiler
}

func newHWCounters() (hw *hwCounters) {
	hw = &hwCounters{}
	p, err := perf.NewHardwareProfiler(os.Getpid(), -1, perf.CpuInstrProfiler)
	if err != nil {
		// perf may be unavailable (permissions, container); run without
		return
	}
	if err = p.Start(); err != nil {
		return
	}
	hw.profiler = p
	return
}

func (hw *hwCounters) instructions() (n uint64, ok bool) {
	if hw.profiler == nil {
		return
	}
	profile := &perf.HardwareProfile{}
	if err := hw.profiler.Profile(profile); err != nil {
		return
	}
	if profile.Instructions == nil {
		return
	}
	n, ok = *profile.Instructions, true
	return
}
