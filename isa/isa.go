// Package isa is the shared model of the Pep/8 instruction set: the
// opcode-range decoder, the eight addressing modes, the register
// indices, the memory-vector layout, and the trap registry. It is
// consulted by both the assembler (to validate mnemonic/mode pairs and
// encode opcodes) and the simulator (to decode fetched bytes and print
// mnemonics in traces). It holds no mutable machine state of its own.
package isa

import "golang.org/x/exp/constraints"

// MemSize is the size of the Pep/8 address space: a single linear array
// of 65,536 bytes.
const MemSize = 1 << 16

// Vector offsets for the four 16-bit vectors stored in the top eight
// bytes of memory.
const (
	VectorUserSP      = MemSize - 8
	VectorSystemSP    = MemSize - 6
	VectorLoaderPC    = MemSize - 4
	VectorInterruptPC = MemSize - 2
)

// Register names the four 16-bit register-file slots; IR is tracked separately
// by the simulator since it is 24 bits logically (8-bit specifier + 16-bit
// operand specifier) rather than a plain 16-bit register.
type Register int

const (
	RegA Register = iota
	RegX
	RegSP
	RegPC
)

func (r Register) String() string {
	switch r {
	case RegA:
		return "A"
	case RegX:
		return "X"
	case RegSP:
		return "SP"
	case RegPC:
		return "PC"
	default:
		return "?"
	}
}

// OpClass buckets a decoded instruction into a broad operation category.
// Every MnemonicDef records one; the simulator's dispatch and its trace
// output key on Shape and Name rather than on the class.
type OpClass int

const (
	ClassControl OpClass = iota
	ClassALU
	ClassLoadStore
	ClassTrap
	ClassIO
	ClassRETn
	ClassStackAdjust
)

// WrapAdd adds two unsigned values of the same width and lets the
// type's own modular overflow produce the result. PC and SP arithmetic
// are modulo 65,536, which a plain uint16 add already gives; this just
// names the operation so every register-wraparound site in the
// simulator reads the same way regardless of which register width it
// touches.
func WrapAdd[T constraints.Unsigned](a, b T) T {
	return a + b
}

// WrapSub is WrapAdd's subtraction counterpart, used for SUBSP and the
// stack pushes' stack-pointer adjustments.
func WrapSub[T constraints.Unsigned](a, b T) T {
	return a - b
}
