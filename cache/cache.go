// Package cache memoizes instruction decoding using Akita cache components.
//
// Decoding is a pure function of the instruction word, so the word itself is
// the tag and a block holds exactly one decoded instruction. Hot loops in a
// disassembled image hit the cache instead of walking the rule table again.
package cache

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/arm64dis/insts"
)

// Config holds decode cache configuration parameters.
type Config struct {
	// Size in entries (decoded instructions)
	Size int
	// Associativity (number of ways)
	Associativity int
}

// DefaultConfig returns a 4096-entry, 4-way decode cache.
func DefaultConfig() Config {
	return Config{
		Size:          4096,
		Associativity: 4,
	}
}

// Source decodes instruction words on a miss. *insts.Decoder satisfies it.
type Source interface {
	Decode(word uint32, addr uint64) (insts.Instruction, error)
}

// AccessResult contains the result of a cache lookup.
type AccessResult struct {
	// Hit indicates whether the decode was served from the cache.
	Hit bool
	// Inst is the decoded instruction.
	Inst insts.Instruction
	// Err is the decode error, if the word does not decode.
	Err error
	// Evicted is true if a valid entry was replaced.
	Evicted bool
	// EvictedWord is the word of the replaced entry (if Evicted is true).
	EvictedWord uint32
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Lookups   uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
	// Failures counts lookups whose word did not decode.
	Failures uint64
}

type entry struct {
	inst insts.Instruction
	err  error
}

// Cache is a set-associative decode cache with LRU replacement. It is not
// safe for concurrent use.
type Cache struct {
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Decoded entries - indexed by (setID * associativity + wayID)
	entries []entry

	stats  Statistics
	source Source
}

// New creates a new decode cache in front of source. It panics if the
// geometry does not divide into whole sets.
func New(config Config, source Source) *Cache {
	if config.Size <= 0 || config.Associativity <= 0 ||
		config.Size%config.Associativity != 0 {
		panic(fmt.Sprintf("cache: invalid geometry %d entries / %d ways: "+
			"both must be positive and size a multiple of associativity",
			config.Size, config.Associativity))
	}

	numSets := config.Size / config.Associativity

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			1,
			akitacache.NewLRUVictimFinder(),
		),
		entries: make([]entry, numSets*config.Associativity),
		source:  source,
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

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// blockIndex computes the index into entries for a block.
func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// Decode returns the decoded form of word, decoding it on a miss.
func (c *Cache) Decode(word uint32) AccessResult {
	c.stats.Lookups++

	block := c.directory.Lookup(0, uint64(word))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block) // Update LRU

		e := c.entries[c.blockIndex(block)]
		if e.err != nil {
			c.stats.Failures++
		}
		return AccessResult{Hit: true, Inst: e.inst, Err: e.err}
	}

	c.stats.Misses++
	return c.handleMiss(word)
}

// handleMiss decodes word and installs it in the victim block.
func (c *Cache) handleMiss(word uint32) AccessResult {
	inst, err := c.source.Decode(word, 0)
	if err != nil {
		c.stats.Failures++
	}
	result := AccessResult{Inst: inst, Err: err}

	victim := c.directory.FindVictim(uint64(word))
	if victim == nil {
		return result
	}

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedWord = uint32(victim.Tag)
	}

	c.entries[c.blockIndex(victim)] = entry{inst: inst, err: err}
	victim.Tag = uint64(word)
	victim.IsValid = true
	victim.IsDirty = false

	c.directory.Visit(victim) // Update LRU

	return result
}

// Invalidate drops the entry for word, if cached.
func (c *Cache) Invalidate(word uint32) {
	block := c.directory.Lookup(0, uint64(word))
	if block != nil && block.IsValid {
		block.IsValid = false
		c.entries[c.blockIndex(block)] = entry{}
	}
}

// Len returns the number of valid entries.
func (c *Cache) Len() int {
	n := 0
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid {
				n++
			}
		}
	}
	return n
}

// Reset invalidates all entries and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	for i := range c.entries {
		c.entries[i] = entry{}
	}
	c.stats = Statistics{}
}
