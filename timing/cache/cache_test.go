package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32core/emu"
	"github.com/sarchlab/rv32core/insts"
	"github.com/sarchlab/rv32core/timing/cache"
)

var _ = Describe("Cache", func() {
	var (
		c       *cache.Cache
		memory  *emu.DataMemory
		backing *cache.MemoryBacking
	)

	// 256B, 2-way, 16B lines = 8 sets. Addresses 0x80 apart share a set.
	config := cache.Config{
		Size:          256,
		Associativity: 2,
		BlockSize:     16,
		HitLatency:    1,
		MissLatency:   10,
	}

	cachedWord := func(addr uint32) uint32 {
		word, ok := c.Word(addr)
		Expect(ok).To(BeTrue())
		return word
	}

	BeforeEach(func() {
		memory = emu.NewDataMemory()
		backing = cache.NewMemoryBacking(memory)
		c = cache.New(config, backing)
	})

	Describe("Read", func() {
		It("should miss on first access and hit within the line", func() {
			first := c.Read(0x1000)
			Expect(first.Hit).To(BeFalse())
			Expect(first.Latency).To(Equal(uint64(10)))

			second := c.Read(0x100C)
			Expect(second.Hit).To(BeTrue())
			Expect(second.Latency).To(Equal(uint64(1)))
		})

		It("should fill every word of the line from data memory", func() {
			memory.Store(0x1000, 0x11111111, insts.MemWord)
			memory.Store(0x1008, 0xDEADBEEF, insts.MemWord)

			c.Read(0x1004)

			Expect(cachedWord(0x1000)).To(Equal(uint32(0x11111111)))
			Expect(cachedWord(0x100A)).To(Equal(uint32(0xDEADBEEF)))
		})

		It("should report absent lines", func() {
			_, ok := c.Word(0x2000)
			Expect(ok).To(BeFalse())
		})

		It("should track statistics", func() {
			c.Read(0x1000)
			c.Read(0x1000)
			c.Read(0x2000)

			Expect(c.Stats()).To(Equal(cache.Statistics{Hits: 1, Misses: 2}))
		})
	})

	Describe("Write", func() {
		It("should allocate on a miss without writing through", func() {
			result := c.Write(0x1000, 0x12345678)
			Expect(result.Hit).To(BeFalse())

			Expect(cachedWord(0x1000)).To(Equal(uint32(0x12345678)))
			Expect(c.Read(0x1000).Hit).To(BeTrue())
			Expect(memory.Load(0x1000, insts.MemWord, false)).To(BeZero())
		})

		It("should keep the other words of the filled line", func() {
			memory.Store(0x1004, 7, insts.MemWord)

			c.Write(0x1000, 1)

			Expect(cachedWord(0x1004)).To(Equal(uint32(7)))
		})
	})

	Describe("Eviction", func() {
		It("should write back a dirty LRU line", func() {
			c.Write(0x000, 0x11111111)
			c.Write(0x080, 0x22222222)
			c.Read(0x080)

			result := c.Read(0x100)

			Expect(result.Hit).To(BeFalse())
			Expect(result.Writeback).To(BeTrue())
			Expect(memory.Load(0x000, insts.MemWord, false)).To(Equal(uint32(0x11111111)))
			Expect(c.Stats().Writebacks).To(Equal(uint64(1)))

			_, ok := c.Word(0x000)
			Expect(ok).To(BeFalse())
			Expect(cachedWord(0x080)).To(Equal(uint32(0x22222222)))
		})

		It("should drop a clean line silently", func() {
			c.Read(0x000)
			c.Read(0x080)

			Expect(c.Read(0x100).Writeback).To(BeFalse())
			Expect(c.Stats().Writebacks).To(BeZero())
		})
	})

	Describe("Flush", func() {
		It("should write back all dirty lines and invalidate", func() {
			c.Write(0x000, 0x11111111)
			c.Write(0x400, 0x22222222)

			c.Flush()

			Expect(memory.Load(0x000, insts.MemWord, false)).To(Equal(uint32(0x11111111)))
			Expect(memory.Load(0x400, insts.MemWord, false)).To(Equal(uint32(0x22222222)))
			Expect(c.Stats().Writebacks).To(Equal(uint64(2)))
			Expect(c.Read(0x000).Hit).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("should discard lines and statistics without writeback", func() {
			c.Write(0x200, 0xCAFEBABE)

			c.Reset()

			Expect(c.Stats()).To(Equal(cache.Statistics{}))
			Expect(c.Read(0x200).Hit).To(BeFalse())
			Expect(memory.Load(0x200, insts.MemWord, false)).To(BeZero())
		})
	})

	Describe("MemoryBacking", func() {
		It("should see data memory aliasing", func() {
			memory.Store(0x40, 0x04030201, insts.MemWord)
			Expect(backing.ReadWord(0x20040)).To(Equal(uint32(0x04030201)))

			backing.WriteWord(0x20050, 0xBBAA)
			Expect(memory.Load(0x50, insts.MemWord, false)).To(Equal(uint32(0xBBAA)))
		})
	})

	It("should describe a small L1 data cache by default", func() {
		config := cache.DefaultL1DConfig()
		Expect(config.Size).To(Equal(4 * 1024))
		Expect(config.Associativity).To(Equal(2))
		Expect(config.BlockSize).To(Equal(16))
	})
})
