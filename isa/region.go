package isa

import (
	"cmp"
	"fmt"

	"github.com/rdleal/intervalst/interval"
)

// Region classifies an address as writable RAM or read-only ROM.
type Region int

const (
	RegionRAM Region = iota
	RegionROM
)

func (r Region) String() string {
	if r == RegionROM {
		return "ROM"
	}
	return "RAM"
}

// MemoryMap resolves addresses against the configurable ROM boundary:
// writable RAM below it, read-only ROM at and above it. An interval
// search tree backs Writable; RegionAt compares against the boundary
// directly.
type MemoryMap struct {
	tree        *interval.SearchTree[Region, int]
	romBoundary int
}

// NewMemoryMap builds a map with RAM occupying [0, romBoundary) and ROM
// occupying [romBoundary, MemSize).
func NewMemoryMap(romBoundary int) (*MemoryMap, error) {
	if romBoundary < 0 || romBoundary > MemSize {
		return nil, fmt.Errorf("isa: ROM boundary %d out of range [0, %d]", romBoundary, MemSize)
	}
	tree := interval.NewSearchTree[Region](cmp.Compare[int])
	if romBoundary > 0 {
		if err := tree.Insert(0, romBoundary, RegionRAM); err != nil {
			return nil, fmt.Errorf("isa: building memory map: %w", err)
		}
	}
	if romBoundary < MemSize {
		if err := tree.Insert(romBoundary, MemSize, RegionROM); err != nil {
			return nil, fmt.Errorf("isa: building memory map: %w", err)
		}
	}
	return &MemoryMap{tree: tree, romBoundary: romBoundary}, nil
}

// RegionAt reports whether addr lies in RAM or ROM.
func (m *MemoryMap) RegionAt(addr int) Region {
	if addr >= m.romBoundary {
		return RegionROM
	}
	return RegionRAM
}

// Writable reports whether addr may be stored to.
func (m *MemoryMap) Writable(addr int) bool {
	found, ok := m.tree.Find(addr, addr+1)
	if !ok {
		return m.RegionAt(addr) == RegionRAM
	}
	return found != RegionROM
}

// BelowBurn reports whether addr falls below a `.BURN` origin, the
// assembler's test for which relocated bytes need leading zero-fill. It
// is a plain comparison and does not consult a MemoryMap.
func BelowBurn(addr, burnOrigin int) bool {
	return addr < burnOrigin
}
