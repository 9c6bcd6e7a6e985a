// Package cache provides a word-organized data cache model for the RV32I
// core, with tag and replacement state kept in an Akita cache directory.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes. Must be a power of two of at least 4.
	BlockSize int
	// HitLatency in cycles
	HitLatency uint64
	// MissLatency in cycles (includes the line fill from data memory)
	MissLatency uint64
}

// DefaultL1DConfig returns a small L1 data cache suited to a
// microcontroller-class RV32I core: 4KB, 2-way, 16B lines.
func DefaultL1DConfig() Config {
	return Config{
		Size:          4 * 1024,
		Associativity: 2,
		BlockSize:     16,
		HitLatency:    1,
		MissLatency:   10,
	}
}

// AccessResult describes the timing outcome of one access.
type AccessResult struct {
	Hit     bool
	Latency uint64
	// Writeback is true if the access evicted a dirty line.
	Writeback bool
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Hits       uint64
	Misses     uint64
	Writebacks uint64
}

// BackingStore is the word-addressed memory behind the cache.
type BackingStore interface {
	ReadWord(addr uint32) uint32
	WriteWord(addr, word uint32)
}

// Cache is a write-allocate, write-back data cache. Every line holds
// BlockSize/4 little-endian words, the unit the data memory commits.
type Cache struct {
	config    Config
	directory *akitacache.DirectoryImpl
	backing   BackingStore

	// lines is indexed by setID*Associativity + wayID.
	lines [][]uint32
	stats Statistics
}

// New creates a new cache with the given configuration.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)

	lines := make([][]uint32, numSets*config.Associativity)
	for i := range lines {
		lines[i] = make([]uint32, config.BlockSize/4)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		backing: backing,
		lines:   lines,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// Read looks up the word containing addr, filling its line on a miss.
func (c *Cache) Read(addr uint32) AccessResult {
	_, result := c.access(addr)
	return result
}

// Write stores word at the word containing addr and marks the line dirty.
func (c *Cache) Write(addr, word uint32) AccessResult {
	block, result := c.access(addr)
	c.lines[c.lineIndex(block)][c.wordIndex(addr)] = word
	block.IsDirty = true
	return result
}

// Word returns the cached copy of the word containing addr, if present.
func (c *Cache) Word(addr uint32) (uint32, bool) {
	block := c.directory.Lookup(0, uint64(c.lineAddr(addr)))
	if block == nil || !block.IsValid {
		return 0, false
	}
	return c.lines[c.lineIndex(block)][c.wordIndex(addr)], true
}

func (c *Cache) access(addr uint32) (*akitacache.Block, AccessResult) {
	lineAddr := c.lineAddr(addr)

	block := c.directory.Lookup(0, uint64(lineAddr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		return block, AccessResult{Hit: true, Latency: c.config.HitLatency}
	}

	c.stats.Misses++
	result := AccessResult{Latency: c.config.MissLatency}

	block = c.directory.FindVictim(uint64(lineAddr))
	if block.IsValid && block.IsDirty {
		c.writeBack(block)
		result.Writeback = true
	}

	line := c.lines[c.lineIndex(block)]
	for i := range line {
		line[i] = c.backing.ReadWord(lineAddr + uint32(i)*4)
	}

	block.Tag = uint64(lineAddr)
	block.IsValid = true
	block.IsDirty = false
	c.directory.Visit(block)

	return block, result
}

func (c *Cache) writeBack(block *akitacache.Block) {
	base := uint32(block.Tag)
	for i, word := range c.lines[c.lineIndex(block)] {
		c.backing.WriteWord(base+uint32(i)*4, word)
	}
	block.IsDirty = false
	c.stats.Writebacks++
}

// Flush writes back every dirty line and invalidates the cache.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty {
				c.writeBack(block)
			}
			block.IsValid = false
		}
	}
}

// Reset invalidates all lines without writeback and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}

func (c *Cache) lineAddr(addr uint32) uint32 {
	return addr &^ uint32(c.config.BlockSize-1)
}

func (c *Cache) wordIndex(addr uint32) int {
	return int(addr&uint32(c.config.BlockSize-1)) / 4
}

func (c *Cache) lineIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}
