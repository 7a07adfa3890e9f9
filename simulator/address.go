package simulator

import "pep8/isa"

// effectiveAddress resolves a non-immediate addressing mode to a
// memory address. Immediate has no address; callers dispatch on mode
// before calling this. Stack-indexed additions are plain uint16 adds:
// modular 16-bit wraparound with no flag update, matching the adders
// used elsewhere only for register arithmetic, not address math.
func (m *Machine) effectiveAddress(mode isa.AddrMode, os uint16) uint16 {
	switch mode {
	case isa.ModeDirect:
		return os
	case isa.ModeIndirect:
		return m.readWord(os)
	case isa.ModeStackRel:
		return m.SP + os
	case isa.ModeStackRelDeferred:
		return m.readWord(m.SP + os)
	case isa.ModeIndexed:
		return os + m.X
	case isa.ModeStackIndexed:
		return m.readWord(m.SP+os) + m.X
	case isa.ModeStackIndexedDeferred:
		return m.readWord(m.readWord(m.SP+os)) + m.X
	default:
		return os
	}
}

// resolveWord returns the operand value a LD/ADD/SUB/AND/OR/CP-class
// instruction reads, honoring immediate as a literal rather than an
// address.
func (m *Machine) resolveWord(mode isa.AddrMode, os uint16) uint16 {
	if mode == isa.ModeImmediate {
		return os
	}
	return m.readWord(m.effectiveAddress(mode, os))
}

// resolveByte is the byte-variant counterpart used by LDBYTEr and
// CHARO's addressed forms.
func (m *Machine) resolveByte(mode isa.AddrMode, os uint16) byte {
	if mode == isa.ModeImmediate {
		return byte(os)
	}
	return m.readByte(m.effectiveAddress(mode, os))
}
