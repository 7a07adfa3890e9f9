// Package simulator implements the Pep/8 CPU: fetch/decode/execute,
// the eight-mode effective-address resolver, arithmetic with N/Z/V/C
// flags, branch/call/RETn, trap push/RETTR pop, CHARI/CHARO through an
// IOChannel, trace emission through a TraceSink, and the hex+ASCII
// memory dump.
package simulator

import (
	"fmt"

	"pep8/isa"
)

// Flags holds the four Pep/8 status bits.
type Flags struct {
	N, Z, V, C bool
}

// Pack compacts the flags into the single byte the trap mechanism
// pushes and RETTR pops: (N<<3)|(Z<<2)|(V<<1)|C.
func (f Flags) Pack() byte {
	var b byte
	if f.N {
		b |= 1 << 3
	}
	if f.Z {
		b |= 1 << 2
	}
	if f.V {
		b |= 1 << 1
	}
	if f.C {
		b |= 1
	}
	return b
}

// UnpackFlags restores flags from a packed byte.
func UnpackFlags(b byte) Flags {
	return Flags{
		N: b&(1<<3) != 0,
		Z: b&(1<<2) != 0,
		V: b&(1<<1) != 0,
		C: b&1 != 0,
	}
}

// Mode is the simulator's top-level run state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeLoading
	ModeExecuting
)

// Machine is the simulator's execution context: registers, memory, the
// ROM boundary, the ISA table, and the I/O/trace seams. All machine
// state lives here rather than in package-level globals.
type Machine struct {
	Mem [isa.MemSize]byte

	A, X, SP, PC uint16
	Flags        Flags

	// IR is the fetched instruction specifier; Mode/Reg are its decode.
	IR   byte
	OS   uint16
	Mode isa.AddrMode
	Reg  isa.Register

	RegionMap *isa.MemoryMap
	Table     *isa.Table

	IO    IOChannel
	Trace TraceSink

	TraceScope TraceScope
	State      Mode
	halted     bool
}

// NewMachine builds a machine over the given ISA table and ROM
// boundary (in bytes, counted from the top of memory down).
func NewMachine(tbl *isa.Table, romBytes int) (*Machine, error) {
	mm, err := isa.NewMemoryMap(isa.MemSize - romBytes)
	if err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	return &Machine{RegionMap: mm, Table: tbl}, nil
}

// vector reads a 16-bit big-endian vector at a fixed top-of-memory
// offset.
func (m *Machine) vector(offset int) uint16 {
	return uint16(m.Mem[offset])<<8 | uint16(m.Mem[offset+1])
}

// Reset reinitializes registers from the vectors the loaded ROM image
// carries in its top eight bytes.
func (m *Machine) Reset() {
	m.SP = m.vector(isa.VectorUserSP)
	m.PC = m.vector(isa.VectorLoaderPC)
	m.A, m.X = 0, 0
	m.Flags = Flags{}
	m.halted = false
}

// Halted reports whether STOP (or a quit request) has ended execution.
func (m *Machine) Halted() bool {
	return m.halted
}

func (m *Machine) readByte(addr uint16) byte {
	return m.Mem[addr]
}

func (m *Machine) writeByte(addr uint16, b byte) {
	if !m.RegionMap.Writable(int(addr)) {
		return
	}
	m.Mem[addr] = b
}

func (m *Machine) readWord(addr uint16) uint16 {
	hi := m.Mem[addr]
	lo := m.Mem[addr+1] // addr+1 wraps via uint16 overflow, matching PC-wrap semantics
	return uint16(hi)<<8 | uint16(lo)
}

func (m *Machine) writeWord(addr uint16, v uint16) {
	m.writeByte(addr, byte(v>>8))
	m.writeByte(addr+1, byte(v))
}

// fetchByte reads the byte at PC and advances PC by one, wrapping
// 0xFFFF to 0x0000.
func (m *Machine) fetchByte() byte {
	b := m.Mem[m.PC]
	m.PC++
	return b
}

func (m *Machine) fetchWord() uint16 {
	hi := m.fetchByte()
	lo := m.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

// Step runs exactly one von-Neumann cycle: fetch, optional
// operand-specifier fetch, decode, execute, and trace emission.
func (m *Machine) Step() error {
	if m.halted {
		return nil
	}
	instrAddr := m.PC
	m.IR = m.fetchByte()

	dec, ok := m.Table.Decode(m.IR)
	if !ok {
		return &RuntimeError{Kind: ErrIllegalOpcode, PC: instrAddr}
	}

	nonunary := dec.Def.Shape != isa.ShapeUnary && dec.Def.Shape != isa.ShapeTrapUnary && dec.Def.Shape != isa.ShapeRETn
	if nonunary {
		m.OS = m.fetchWord()
		// A valid object file never encodes a mode the mnemonic
		// rejects, but a hand-crafted one can.
		if !dec.Def.Modes.Has(dec.Mode) {
			return &RuntimeError{Kind: ErrIllegalAddrMode, PC: instrAddr}
		}
	} else {
		m.OS = 0
	}
	m.Mode = dec.Mode
	m.Reg = dec.Reg

	if err := m.execute(dec); err != nil {
		if re, ok := err.(*RuntimeError); ok {
			re.PC = instrAddr
		}
		return err
	}

	if m.Trace != nil && m.TraceScope.Matches(instrAddr, m.RegionMap) {
		m.Trace.EmitLine(m.traceLine(instrAddr, dec))
		if q, ok := m.Trace.(interface{ Quitted() bool }); ok && q.Quitted() {
			m.halted = true
		}
	}
	return nil
}

// Snapshot is the register file and flags at one instant, for debug
// display.
type Snapshot struct {
	A, X, SP, PC uint16
	N, Z, V, C   bool
}

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		A: m.A, X: m.X, SP: m.SP, PC: m.PC,
		N: m.Flags.N, Z: m.Flags.Z, V: m.Flags.V, C: m.Flags.C,
	}
}

// StartProgram points the CPU at a user program loaded at address 0:
// SP from the user-SP vector, PC = 0.
func (m *Machine) StartProgram() {
	m.SP = m.vector(isa.VectorUserSP)
	m.PC = 0
	m.halted = false
}

// Run steps until STOP, a runtime error, or the trace sink requests a
// halt via Quit.
func (m *Machine) Run() error {
	m.State = ModeExecuting
	defer func() { m.State = ModeIdle }()
	for !m.halted {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
