package simulator

import "pep8/isa"

func (m *Machine) pushWord(v uint16) {
	m.SP = isa.WrapSub(m.SP, uint16(2))
	m.writeWord(m.SP, v)
}

func (m *Machine) pushByte(v byte) {
	m.SP = isa.WrapSub(m.SP, uint16(1))
	m.writeByte(m.SP, v)
}

func (m *Machine) popWord() uint16 {
	v := m.readWord(m.SP)
	m.SP = isa.WrapAdd(m.SP, uint16(2))
	return v
}

func (m *Machine) popByte() byte {
	v := m.readByte(m.SP)
	m.SP = isa.WrapAdd(m.SP, uint16(1))
	return v
}

// execTrap switches SP to the system-SP vector and builds a trap frame
// on that system stack (instruction
// specifier, old SP, PC, X, A, packed flags, in that push order) and
// vectors through the OS ROM's interrupt-PC entry. The OS code at that
// address is what actually implements DECI/DECO/HEXO/etc; the
// simulator itself only knows the push/pop mechanics. The instruction
// specifier sits deepest in the frame and is never popped back off by
// RETTR; it stays on the stack for the OS trap handler to read.
func (m *Machine) execTrap(dec isa.Decoded) error {
	oldSP := m.SP
	m.SP = m.vector(isa.VectorSystemSP)
	m.pushByte(m.IR)
	m.pushWord(oldSP)
	m.pushWord(m.PC)
	m.pushWord(m.X)
	m.pushWord(m.A)
	m.pushByte(m.Flags.Pack())
	m.PC = m.vector(isa.VectorInterruptPC)
	return nil
}

// execRETTR is the symmetric pop: flags, A, X, PC, SP. The instruction
// specifier pushed first by execTrap is left on the stack.
func (m *Machine) execRETTR() error {
	m.Flags = UnpackFlags(m.popByte())
	m.A = m.popWord()
	m.X = m.popWord()
	m.PC = m.popWord()
	m.SP = m.popWord()
	return nil
}
