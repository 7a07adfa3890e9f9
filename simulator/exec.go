package simulator

import (
	"strings"

	"pep8/isa"
)

func (m *Machine) execute(dec isa.Decoded) error {
	switch dec.Def.Shape {
	case isa.ShapeUnary:
		return m.execUnary(dec)
	case isa.ShapeBranch:
		return m.execBranch(dec)
	case isa.ShapeTrapUnary, isa.ShapeTrapNonunary:
		return m.execTrap(dec)
	case isa.ShapeRETn:
		return m.execRETn(dec)
	case isa.ShapeStackAdjust:
		return m.execStackAdjust(dec)
	case isa.ShapeGeneral:
		return m.execGeneral(dec)
	default:
		return &RuntimeError{Kind: ErrIllegalOpcode}
	}
}

func (m *Machine) execUnary(dec isa.Decoded) error {
	switch dec.Def.Name {
	case "STOP":
		m.halted = true
	case "RETTR":
		return m.execRETTR()
	case "MOVSPA":
		m.A = m.SP
	case "MOVFLGA":
		m.A = uint16(m.Flags.Pack())
	case "NOTA":
		r, n, z := notWithFlags(m.A)
		m.A, m.Flags.N, m.Flags.Z = r, n, z
	case "NOTX":
		r, n, z := notWithFlags(m.X)
		m.X, m.Flags.N, m.Flags.Z = r, n, z
	case "NEGA":
		r, n, z := negWithFlags(m.A)
		m.A, m.Flags.N, m.Flags.Z = r, n, z
	case "NEGX":
		r, n, z := negWithFlags(m.X)
		m.X, m.Flags.N, m.Flags.Z = r, n, z
	case "ASLA":
		r, fl := aslWithFlags(m.A)
		m.A, m.Flags = r, fl
	case "ASLX":
		r, fl := aslWithFlags(m.X)
		m.X, m.Flags = r, fl
	case "ASRA":
		r, fl := asrWithFlags(m.A)
		m.A, m.Flags.N, m.Flags.Z, m.Flags.C = r, fl.N, fl.Z, fl.C
	case "ASRX":
		r, fl := asrWithFlags(m.X)
		m.X, m.Flags.N, m.Flags.Z, m.Flags.C = r, fl.N, fl.Z, fl.C
	case "ROLA":
		r, fl := rolWithFlags(m.A, m.Flags.C)
		m.A, m.Flags.N, m.Flags.Z, m.Flags.C = r, fl.N, fl.Z, fl.C
	case "ROLX":
		r, fl := rolWithFlags(m.X, m.Flags.C)
		m.X, m.Flags.N, m.Flags.Z, m.Flags.C = r, fl.N, fl.Z, fl.C
	case "RORA":
		r, fl := rorWithFlags(m.A, m.Flags.C)
		m.A, m.Flags.N, m.Flags.Z, m.Flags.C = r, fl.N, fl.Z, fl.C
	case "RORX":
		r, fl := rorWithFlags(m.X, m.Flags.C)
		m.X, m.Flags.N, m.Flags.Z, m.Flags.C = r, fl.N, fl.Z, fl.C
	default:
		return &RuntimeError{Kind: ErrIllegalOpcode}
	}
	return nil
}

// execBranch resolves the jump target directly from the operand
// specifier (immediate) or specifier+X (indexed) -- branches never
// dereference memory the way general ops do.
func (m *Machine) execBranch(dec isa.Decoded) error {
	target := m.OS
	if dec.Mode == isa.ModeIndexed {
		target += m.X
	}
	taken := false
	switch dec.Def.Name {
	case "BR":
		taken = true
	case "BRLE":
		taken = m.Flags.N || m.Flags.Z
	case "BRLT":
		taken = m.Flags.N
	case "BREQ":
		taken = m.Flags.Z
	case "BRNE":
		taken = !m.Flags.Z
	case "BRGE":
		taken = !m.Flags.N
	case "BRGT":
		taken = !m.Flags.N && !m.Flags.Z
	case "BRV":
		taken = m.Flags.V
	case "BRC":
		taken = m.Flags.C
	case "CALL":
		m.pushWord(m.PC)
		taken = true
	}
	if taken {
		m.PC = target
	}
	return nil
}

// execRETn adds n to SP, then pops PC.
func (m *Machine) execRETn(dec isa.Decoded) error {
	n := uint16(dec.Def.Base - 88)
	m.SP = isa.WrapAdd(m.SP, n)
	m.PC = m.popWord()
	return nil
}

func (m *Machine) execStackAdjust(dec isa.Decoded) error {
	val := m.resolveWord(dec.Mode, m.OS)
	switch dec.Def.Name {
	case "ADDSP":
		m.SP = isa.WrapAdd(m.SP, val)
	case "SUBSP":
		m.SP = isa.WrapSub(m.SP, val)
	}
	return nil
}

func (m *Machine) regVal(r isa.Register) uint16 {
	if r == isa.RegX {
		return m.X
	}
	return m.A
}

func (m *Machine) setReg(r isa.Register, v uint16) {
	if r == isa.RegX {
		m.X = v
	} else {
		m.A = v
	}
}

func (m *Machine) execGeneral(dec isa.Decoded) error {
	name := dec.Def.Name
	reg := dec.Reg

	switch {
	case name == "CHARI":
		b, err := m.IO.ReadByte()
		if err != nil {
			return &RuntimeError{Kind: ErrEndOfInput}
		}
		m.writeByte(m.effectiveAddress(dec.Mode, m.OS), b)
		return nil
	case name == "CHARO":
		var b byte
		if dec.Mode == isa.ModeImmediate {
			b = byte(m.OS)
		} else {
			b = m.resolveByte(dec.Mode, m.OS)
		}
		return m.IO.WriteByte(b)
	case strings.HasPrefix(name, "ADD"):
		res, fl := addWithFlags(m.regVal(reg), m.resolveWord(dec.Mode, m.OS))
		m.setReg(reg, res)
		m.Flags = fl
	case strings.HasPrefix(name, "SUB"):
		res, fl := subWithFlags(m.regVal(reg), m.resolveWord(dec.Mode, m.OS))
		m.setReg(reg, res)
		m.Flags = fl
	case strings.HasPrefix(name, "AND"):
		res := m.regVal(reg) & m.resolveWord(dec.Mode, m.OS)
		m.setReg(reg, res)
		m.Flags.N, m.Flags.Z = res&0x8000 != 0, res == 0
	case strings.HasPrefix(name, "OR"):
		res := m.regVal(reg) | m.resolveWord(dec.Mode, m.OS)
		m.setReg(reg, res)
		m.Flags.N, m.Flags.Z = res&0x8000 != 0, res == 0
	case strings.HasPrefix(name, "CP"):
		m.Flags = cpFlags(m.regVal(reg), m.resolveWord(dec.Mode, m.OS))
	case strings.HasPrefix(name, "LDBYTE"):
		b := m.resolveByte(dec.Mode, m.OS)
		newVal := (m.regVal(reg) &^ 0xFF) | uint16(b)
		m.setReg(reg, newVal)
		m.Flags.N, m.Flags.Z = newVal&0x8000 != 0, newVal == 0
	case strings.HasPrefix(name, "LD"):
		val := m.resolveWord(dec.Mode, m.OS)
		m.setReg(reg, val)
		m.Flags.N, m.Flags.Z = val&0x8000 != 0, val == 0
	case strings.HasPrefix(name, "STBYTE"):
		m.writeByte(m.effectiveAddress(dec.Mode, m.OS), byte(m.regVal(reg)))
	case strings.HasPrefix(name, "ST"):
		m.writeWord(m.effectiveAddress(dec.Mode, m.OS), m.regVal(reg))
	default:
		return &RuntimeError{Kind: ErrIllegalOpcode}
	}
	return nil
}
