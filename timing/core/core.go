// Package core provides the cycle-accounting RV32I core model.
// It wraps the functional datapath with a latency table and an optional
// data cache.
package core

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32core/emu"
	"github.com/sarchlab/rv32core/insts"
	"github.com/sarchlab/rv32core/timing/cache"
	"github.com/sarchlab/rv32core/timing/latency"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Loads and Stores count data memory accesses.
	Loads  uint64
	Stores uint64
	// Branches counts conditional branches; TakenBranches those taken.
	Branches      uint64
	TakenBranches uint64
	// Cache counters are zero without a data cache. CacheWritebacks
	// counts dirty lines evicted by a miss.
	CacheHits       uint64
	CacheMisses     uint64
	CacheWritebacks uint64
}

// Core represents a cycle-accounting CPU core model.
type Core struct {
	// Datapath is the underlying single-instruction datapath.
	Datapath *emu.Datapath

	latency *latency.Table
	dcache  *cache.Cache
	logger  logrus.FieldLogger

	cacheConfig *cache.Config
	stats       Stats
}

// CoreOption is a functional option for configuring the Core.
type CoreOption func(*Core)

// WithTimingConfig sets the latency table configuration.
func WithTimingConfig(config *latency.TimingConfig) CoreOption {
	return func(c *Core) {
		c.latency = latency.NewTableWithConfig(config)
	}
}

// WithDataCache attaches a data cache backed by the datapath's memory.
func WithDataCache(config cache.Config) CoreOption {
	return func(c *Core) {
		c.cacheConfig = &config
	}
}

// WithLogger sets the logger for per-instruction timing traces.
func WithLogger(logger logrus.FieldLogger) CoreOption {
	return func(c *Core) {
		c.logger = logger
	}
}

// NewCore creates a new Core around the given datapath.
func NewCore(datapath *emu.Datapath, opts ...CoreOption) *Core {
	c := &Core{
		Datapath: datapath,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.latency == nil {
		c.latency = latency.NewTable()
	}
	if c.logger == nil {
		c.logger = logrus.StandardLogger()
	}
	if c.cacheConfig != nil {
		c.dcache = cache.New(*c.cacheConfig,
			cache.NewMemoryBacking(datapath.DataMemory()))
	}

	return c
}

// DataCache returns the attached data cache, or nil.
func (c *Core) DataCache() *cache.Cache {
	return c.dcache
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// Elapsed returns the simulated time in seconds at the configured clock.
func (c *Core) Elapsed() float64 {
	return float64(c.stats.Cycles) / float64(c.latency.Config().Freq())
}

// Execute runs one instruction through the datapath and charges its
// latency.
func (c *Core) Execute(pc, word uint32) emu.StepResult {
	result := c.Datapath.Execute(pc, word)
	ctrl := result.Control

	cycles := c.latency.Latency(ctrl, result.BranchTaken)

	switch {
	case c.latency.IsLoad(ctrl):
		c.stats.Loads++
		if c.dcache != nil {
			access := c.dcache.Read(c.cacheAddr(result.ALUResult))
			c.countAccess(access)
			cycles = access.Latency
		}
	case c.latency.IsStore(ctrl):
		c.stats.Stores++
		if c.dcache != nil {
			addr := c.cacheAddr(result.ALUResult)
			stored := c.Datapath.DataMemory().Load(addr, insts.MemWord, false)
			c.countAccess(c.dcache.Write(addr, stored))
		}
	case c.latency.IsBranch(ctrl):
		c.stats.Branches++
		if result.BranchTaken {
			c.stats.TakenBranches++
		}
	}

	c.stats.Cycles += cycles
	c.stats.Instructions++

	c.logger.WithFields(logrus.Fields{
		"pc":     pc,
		"cycles": cycles,
		"total":  c.stats.Cycles,
	}).Trace("retired")

	return result
}

// Run executes program, whose first word sits at base, starting at base
// and following each NextPC. It stops when the PC leaves the program or
// after maxSteps instructions, and returns the final PC.
func (c *Core) Run(base uint32, program []uint32, maxSteps uint64) uint32 {
	pc := base
	for steps := uint64(0); steps < maxSteps; steps++ {
		if pc < base || (pc-base)%4 != 0 {
			break
		}
		index := (pc - base) / 4
		if index >= uint32(len(program)) {
			break
		}
		pc = c.Execute(pc, program[index]).NextPC
	}
	return pc
}

// Reset clears the datapath, the cache and the statistics.
func (c *Core) Reset() {
	c.Datapath.Reset()
	if c.dcache != nil {
		c.dcache.Reset()
	}
	c.stats = Stats{}
}

// cacheAddr returns the word-aligned address as data memory sees it, so
// aliases of one location share a cache line.
func (c *Core) cacheAddr(addr uint32) uint32 {
	mask := uint32(c.Datapath.DataMemory().Size() - 1)
	return addr & mask &^ 3
}

func (c *Core) countAccess(access cache.AccessResult) {
	if access.Hit {
		c.stats.CacheHits++
	} else {
		c.stats.CacheMisses++
	}
	if access.Writeback {
		c.stats.CacheWritebacks++
	}
}
