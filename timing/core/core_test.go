package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32core/emu"
	"github.com/sarchlab/rv32core/timing/cache"
	"github.com/sarchlab/rv32core/timing/core"
	"github.com/sarchlab/rv32core/timing/latency"
)

var _ = Describe("Core", func() {
	var (
		datapath *emu.Datapath
		c        *core.Core
	)

	// run executes words at consecutive PCs starting from 0x1000.
	run := func(words ...uint32) {
		pc := uint32(0x1000)
		for _, w := range words {
			c.Execute(pc, w)
			pc += 4
		}
	}

	BeforeEach(func() {
		datapath = emu.NewDatapath()
		c = core.NewCore(datapath)
	})

	It("should create a core without a data cache", func() {
		Expect(c.Datapath).To(BeIdenticalTo(datapath))
		Expect(c.DataCache()).To(BeNil())
		Expect(c.Stats()).To(Equal(core.Stats{}))
	})

	It("should charge ALU latency per instruction", func() {
		run(
			0x00500093, // ADDI X1, X0, 5
			0xFFF00113, // ADDI X2, X0, -1
			0x002081B3, // ADD X3, X1, X2
		)

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(3)))
		Expect(stats.Cycles).To(Equal(uint64(3)))
		Expect(datapath.RegFile().ReadReg(3)).To(Equal(uint32(4)))
	})

	It("should count loads and stores", func() {
		run(
			0x123452B7, // LUI X5, 0x12345
			0x00502823, // SW X5, 16(X0)
			0x01002383, // LW X7, 16(X0)
		)

		stats := c.Stats()
		Expect(stats.Loads).To(Equal(uint64(1)))
		Expect(stats.Stores).To(Equal(uint64(1)))
		Expect(stats.Cycles).To(Equal(uint64(1 + 1 + 2)))
		Expect(datapath.RegFile().ReadReg(7)).To(Equal(uint32(0x12345000)))
	})

	It("should add the taken penalty to branches", func() {
		run(0x00500093) // ADDI X1, X0, 5
		c.Execute(0x1004, 0x00108463) // BEQ X1, X1, 8

		stats := c.Stats()
		Expect(stats.Branches).To(Equal(uint64(1)))
		Expect(stats.TakenBranches).To(Equal(uint64(1)))
		Expect(stats.Cycles).To(Equal(uint64(1 + 1 + 2)))
	})

	It("should report elapsed time at the configured clock", func() {
		run(0x00500093, 0x00500093, 0x00500093, 0x00500093)

		Expect(c.Elapsed()).To(BeNumerically("~", 4e-8, 1e-15))
	})

	It("should use a custom timing configuration", func() {
		config := latency.DefaultTimingConfig()
		config.ALULatency = 3
		config.ClockFreqMHz = 1
		c = core.NewCore(datapath, core.WithTimingConfig(config))

		run(0x00500093, 0x00500093)

		Expect(c.Stats().Cycles).To(Equal(uint64(6)))
		Expect(c.Elapsed()).To(BeNumerically("~", 6e-6, 1e-12))
	})

	Describe("With a data cache", func() {
		BeforeEach(func() {
			c = core.NewCore(datapath, core.WithDataCache(cache.DefaultL1DConfig()))
		})

		It("should allocate on store and hit on the following load", func() {
			run(
				0x123452B7, // LUI X5, 0x12345
				0x00502823, // SW X5, 16(X0)
				0x01002383, // LW X7, 16(X0)
			)

			stats := c.Stats()
			Expect(stats.CacheMisses).To(Equal(uint64(1)))
			Expect(stats.CacheHits).To(Equal(uint64(1)))
			Expect(stats.Cycles).To(Equal(uint64(1 + 1 + 1)))
			Expect(datapath.RegFile().ReadReg(7)).To(Equal(uint32(0x12345000)))
		})

		It("should map aliased addresses to the same line", func() {
			run(
				0x00500093, // ADDI X1, X0, 5
				0x00102823, // SW X1, 16(X0)
				0x000202B7, // LUI X5, 0x20
				0x0102A383, // LW X7, 16(X5)
			)

			Expect(c.Stats().CacheHits).To(Equal(uint64(1)))
			Expect(datapath.RegFile().ReadReg(7)).To(Equal(uint32(5)))
		})

		It("should count writebacks of dirty lines", func() {
			run(
				0x00500093, // ADDI X1, X0, 5
				0x00102023, // SW X1, 0(X0)
				0x00001137, // LUI X2, 1
				0x00112023, // SW X1, 0(X2)
				0x000021B7, // LUI X3, 2
				0x0011A023, // SW X1, 0(X3)
			)

			stats := c.Stats()
			Expect(stats.CacheMisses).To(Equal(uint64(3)))
			Expect(stats.CacheWritebacks).To(Equal(uint64(1)))
			Expect(c.DataCache().Stats().Writebacks).To(Equal(uint64(1)))
		})

		It("should hold the stored word in the cache", func() {
			run(
				0x123452B7, // LUI X5, 0x12345
				0x00502823, // SW X5, 16(X0)
			)

			word, ok := c.DataCache().Word(16)
			Expect(ok).To(BeTrue())
			Expect(word).To(Equal(uint32(0x12345000)))
		})

		It("should charge the miss latency for a cold load", func() {
			run(0x01002383) // LW X7, 16(X0)

			Expect(c.Stats().Cycles).To(Equal(cache.DefaultL1DConfig().MissLatency))
		})
	})

	Describe("Run", func() {
		// X1 counts down from 3, then X2 = 7.
		program := []uint32{
			0x00300093, // ADDI X1, X0, 3
			0xFFF08093, // ADDI X1, X1, -1
			0xFE009EE3, // BNE X1, X0, -4
			0x00700113, // ADDI X2, X0, 7
		}

		It("should follow branches until the PC leaves the program", func() {
			pc := c.Run(0x1000, program, 100)

			Expect(pc).To(Equal(uint32(0x1010)))
			Expect(datapath.RegFile().ReadReg(1)).To(BeZero())
			Expect(datapath.RegFile().ReadReg(2)).To(Equal(uint32(7)))

			stats := c.Stats()
			Expect(stats.Instructions).To(Equal(uint64(8)))
			Expect(stats.Branches).To(Equal(uint64(3)))
			Expect(stats.TakenBranches).To(Equal(uint64(2)))
			Expect(stats.Cycles).To(Equal(uint64(12)))
		})

		It("should stop at the step limit", func() {
			Expect(c.Run(0x1000, program, 2)).To(Equal(uint32(0x1008)))
			Expect(c.Stats().Instructions).To(Equal(uint64(2)))
		})
	})

	It("should reset state and statistics", func() {
		c = core.NewCore(datapath, core.WithDataCache(cache.DefaultL1DConfig()))
		run(0x00500093, 0x00102823) // ADDI X1, X0, 5; SW X1, 16(X0)

		c.Reset()

		Expect(c.Stats()).To(Equal(core.Stats{}))
		Expect(datapath.RegFile().ReadReg(1)).To(BeZero())
		Expect(c.DataCache().Stats()).To(Equal(cache.Statistics{}))
	})
})
