// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"

	"github.com/bureau-foundation/lcdd/lib/sysstat"
)

// netHistorySize matches the width of the graph area, one sample per
// column.
const netHistorySize = graphRight - barLeft + 1

// Sample is everything one frame is drawn from.
type Sample struct {
	CPU      sysstat.Usage
	Cores    int
	Memory   sysstat.Memory
	Load     sysstat.LoadAverage
	HaveLoad bool

	Interface  string
	HaveNet    bool
	Net        sysstat.NetRate
	NetPeak    sysstat.NetRate
	NetHistory []sysstat.NetRate
}

// sources are the readers a sampler polls. Tests replace them.
type sources struct {
	cpu     func() (sysstat.CPUStat, error)
	memory  func() (sysstat.Memory, error)
	load    func() (sysstat.LoadAverage, error)
	network func(name string) (sysstat.NetCounters, error)
}

func hostSources() sources {
	return sources{
		cpu:     sysstat.ReadCPU,
		memory:  sysstat.ReadMemory,
		load:    sysstat.ReadLoad,
		network: sysstat.ReadInterface,
	}
}

// sampler turns cumulative counters into per-interval figures. A
// reader that fails is logged once and its figures stay zero.
type sampler struct {
	sources  sources
	logger   *slog.Logger
	iface    string
	history  *sysstat.NetHistory
	previous sysstat.CPUStat
	primed   bool
	reported map[string]bool
}

func newSampler(src sources, iface string, absolute bool, logger *slog.Logger) *sampler {
	s := &sampler{
		sources:  src,
		logger:   logger,
		iface:    iface,
		reported: make(map[string]bool),
	}
	if iface != "" {
		s.history = sysstat.NewNetHistory(netHistorySize, absolute)
	}
	return s
}

func (s *sampler) sample() Sample {
	var result Sample

	if stat, err := s.sources.cpu(); err != nil {
		s.report("cpu", err)
	} else {
		if s.primed {
			result.CPU = sysstat.CPUUsage(s.previous.All, stat.All)
		}
		result.Cores = len(stat.Cores)
		s.previous, s.primed = stat, true
	}

	if memory, err := s.sources.memory(); err != nil {
		s.report("memory", err)
	} else {
		result.Memory = memory
	}

	if load, err := s.sources.load(); err != nil {
		s.report("load", err)
	} else {
		result.Load, result.HaveLoad = load, true
	}

	if s.history != nil {
		result.Interface = s.iface
		if counters, err := s.sources.network(s.iface); err != nil {
			s.report("network", err)
		} else {
			s.history.Observe(counters)
			result.HaveNet = true
			result.Net = s.history.Latest()
			result.NetPeak = s.history.Peak()
			result.NetHistory = s.history.Samples()
		}
	}
	return result
}

func (s *sampler) report(source string, err error) {
	if s.reported[source] {
		return
	}
	s.reported[source] = true
	s.logger.Warn("statistics unavailable", "source", source, "error", err)
}
