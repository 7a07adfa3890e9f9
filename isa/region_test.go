package isa

import "testing"

func TestMemoryMapRegions(t *testing.T) {
	mm, err := NewMemoryMap(0xF000)
	if err != nil {
		t.Fatalf("NewMemoryMap: %v", err)
	}
	if mm.RegionAt(0) != RegionRAM {
		t.Error("address 0 should be RAM")
	}
	if mm.RegionAt(0xEFFF) != RegionRAM {
		t.Error("address just below boundary should be RAM")
	}
	if mm.RegionAt(0xF000) != RegionROM {
		t.Error("address at boundary should be ROM")
	}
	if mm.RegionAt(MemSize - 1) != RegionROM {
		t.Error("top address should be ROM")
	}
	if !mm.Writable(0) {
		t.Error("RAM address should be writable")
	}
	if mm.Writable(0xF000) {
		t.Error("ROM address should not be writable")
	}
}

func TestMemoryMapAllRAM(t *testing.T) {
	mm, err := NewMemoryMap(MemSize)
	if err != nil {
		t.Fatalf("NewMemoryMap: %v", err)
	}
	if mm.RegionAt(MemSize-1) != RegionRAM {
		t.Error("boundary at MemSize should make everything RAM")
	}
}

func TestMemoryMapOutOfRange(t *testing.T) {
	if _, err := NewMemoryMap(-1); err == nil {
		t.Error("expected error for negative boundary")
	}
	if _, err := NewMemoryMap(MemSize + 1); err == nil {
		t.Error("expected error for boundary beyond MemSize")
	}
}

func TestBelowBurn(t *testing.T) {
	if !BelowBurn(10, 20) {
		t.Error("10 should be below burn 20")
	}
	if BelowBurn(20, 20) {
		t.Error("20 should not be below burn 20")
	}
}
