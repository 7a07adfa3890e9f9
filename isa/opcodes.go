package isa

import "fmt"

// Shape describes how an instruction's operand specifier (if any) and
// addressing-mode field are encoded, and therefore how the assembler
// must parse its operand and how the simulator must fetch it.
type Shape int

const (
	// ShapeUnary takes no operand and no addressing mode (STOP, RETTR,
	// MOVSPA, MOVFLGA, NOTr, NEGr, ASLr, ASRr, ROLr, RORr).
	ShapeUnary Shape = iota
	// ShapeBranch takes a 16-bit operand and a single-bit mode
	// (immediate or indexed): BR, BRLE, BRLT, BREQ, BRNE, BRGE, BRGT,
	// BRV, BRC, CALL.
	ShapeBranch
	// ShapeTrapUnary is a no-operand software trap (UNIMP0-3).
	ShapeTrapUnary
	// ShapeTrapNonunary takes a 16-bit operand and a three-bit mode
	// (UNIMP4-7).
	ShapeTrapNonunary
	// ShapeRETn is a fixed, no-operand return-from-call variant
	// (RET0-RET7), distinguished only by its opcode.
	ShapeRETn
	// ShapeStackAdjust takes a 16-bit operand and full three-bit mode
	// but no register field (ADDSP, SUBSP).
	ShapeStackAdjust
	// ShapeGeneral takes a 16-bit operand and a full three-bit mode:
	// ADDr, SUBr, ANDr, ORr, CPr, LDr, LDBYTEr, STr, STBYTEr (each with
	// a register field, A or X), and CHARI, CHARO (no register field).
	ShapeGeneral
)

// MnemonicDef is one entry in the assembler's mnemonic table: enough to
// validate an operand/mode pair and compute the final opcode byte.
type MnemonicDef struct {
	Name    string
	Shape   Shape
	Class   OpClass
	Base    byte    // opcode base; register/mode offsets add to this
	Modes   ModeSet // legal addressing modes (ShapeGeneral/ShapeStackAdjust/ShapeTrapNonunary)
	HasReg  bool    // true for A/X register-suffixed mnemonics; the A and X forms are separate defs, each with its own Base
	TrapIdx int     // slot within the unary/nonunary trap family, -1 otherwise
}

// Decoded is the simulator's view of one fetched opcode byte: which
// mnemonic it names, what register and addressing mode (if any) are
// implied by its position within the mnemonic's opcode range, and
// whether the two-byte operand specifier that follows carries an
// address/constant or is absent entirely.
type Decoded struct {
	Def  MnemonicDef
	Reg  Register // valid when Def.HasReg
	Mode AddrMode // valid when Def.Shape is not ShapeUnary/ShapeTrapUnary/ShapeRETn
}

// unaryFixed lists the fixed single-opcode unary instructions in
// ascending opcode order.
var unaryFixed = []struct {
	name  string
	op    byte
	class OpClass
}{
	{"STOP", 0, ClassControl},
	{"RETTR", 1, ClassControl},
	{"MOVSPA", 2, ClassControl},
	{"MOVFLGA", 3, ClassControl},
}

// branchFamily lists the branch/CALL mnemonics with their base opcode;
// each occupies base (immediate) and base+1 (indexed).
var branchFamily = []struct {
	name string
	base byte
}{
	{"BR", 4},
	{"BRLE", 6},
	{"BRLT", 8},
	{"BREQ", 10},
	{"BRNE", 12},
	{"BRGE", 14},
	{"BRGT", 16},
	{"BRV", 18},
	{"BRC", 20},
	{"CALL", 22},
}

// unaryRegFamily lists the unary register-mutating mnemonics; each
// occupies base (register A) and base+1 (register X).
var unaryRegFamily = []struct {
	name string
	base byte
}{
	{"NOT", 24},
	{"NEG", 26},
	{"ASL", 28},
	{"ASR", 30},
	{"ROL", 32},
	{"ROR", 34},
}

// generalFamily lists the register+mode general instructions; each
// occupies [base, base+7] for register A and [base+8, base+15] for
// register X, with the addressing mode in the low three bits.
var generalFamily = []struct {
	name   string
	base   byte
	modes  ModeSet
	hasReg bool
}{
	{"ADD", 112, AllModes, true},
	{"SUB", 128, AllModes, true},
	{"AND", 144, AllModes, true},
	{"OR", 160, AllModes, true},
	{"CP", 176, AllModes, true},
	{"LD", 192, AllModes, true},
	{"LDBYTE", 208, AllModes, true},
	{"ST", 224, NoImmediate, true},
	{"STBYTE", 240, NoImmediate, true},
}

// Table is the full mnemonic table, built once per process from the
// loaded trap registry; trap mnemonics are not fixed text, they are
// assigned by the trap file.
type Table struct {
	byName map[string]MnemonicDef
	byOp   [256]*Decoded
}

// NewTable builds the complete mnemonic table: the fixed core ISA plus
// the eight trap mnemonics named by reg.
func NewTable(reg *TrapRegistry) (*Table, error) {
	t := &Table{byName: make(map[string]MnemonicDef)}

	add := func(def MnemonicDef) {
		t.byName[def.Name] = def
	}

	for _, u := range unaryFixed {
		add(MnemonicDef{Name: u.name, Shape: ShapeUnary, Class: u.class, Base: u.op, TrapIdx: -1})
		t.byOp[u.op] = &Decoded{Def: t.byName[u.name]}
	}

	for _, b := range branchFamily {
		def := MnemonicDef{Name: b.name, Shape: ShapeBranch, Class: ClassControl, Base: b.base, Modes: BranchModes, TrapIdx: -1}
		add(def)
		t.byOp[b.base] = &Decoded{Def: def, Mode: ModeImmediate}
		t.byOp[b.base+1] = &Decoded{Def: def, Mode: ModeIndexed}
	}

	for _, u := range unaryRegFamily {
		defA := MnemonicDef{Name: u.name + "A", Shape: ShapeUnary, Class: ClassALU, Base: u.base, HasReg: true, TrapIdx: -1}
		add(defA)
		t.byOp[u.base] = &Decoded{Def: defA, Reg: RegA}
		defX := MnemonicDef{Name: u.name + "X", Shape: ShapeUnary, Class: ClassALU, Base: u.base + 1, HasReg: true, TrapIdx: -1}
		add(defX)
		t.byOp[u.base+1] = &Decoded{Def: defX, Reg: RegX}
	}

	if reg != nil {
		for i, trap := range reg.Unary {
			op := byte(36 + i)
			def := MnemonicDef{Name: trap.Name, Shape: ShapeTrapUnary, Class: ClassTrap, Base: op, TrapIdx: i}
			add(def)
			t.byOp[op] = &Decoded{Def: def}
		}
		for i, trap := range reg.Nonunary {
			base := byte(40 + 8*i)
			def := MnemonicDef{Name: trap.Name, Shape: ShapeTrapNonunary, Class: ClassTrap, Base: base, Modes: trap.Modes, TrapIdx: i}
			add(def)
			for m := AddrMode(0); m <= ModeStackIndexedDeferred; m++ {
				t.byOp[base+byte(m)] = &Decoded{Def: def, Mode: m}
			}
		}
	}

	charI := MnemonicDef{Name: "CHARI", Shape: ShapeGeneral, Class: ClassIO, Base: 72, Modes: NoImmediate, HasReg: false, TrapIdx: -1}
	add(charI)
	for m := AddrMode(0); m <= ModeStackIndexedDeferred; m++ {
		t.byOp[72+byte(m)] = &Decoded{Def: charI, Mode: m}
	}

	charO := MnemonicDef{Name: "CHARO", Shape: ShapeGeneral, Class: ClassIO, Base: 80, Modes: AllModes, HasReg: false, TrapIdx: -1}
	add(charO)
	for m := AddrMode(0); m <= ModeStackIndexedDeferred; m++ {
		t.byOp[80+byte(m)] = &Decoded{Def: charO, Mode: m}
	}

	for n := 0; n < 8; n++ {
		op := byte(88 + n)
		name := fmt.Sprintf("RET%d", n)
		def := MnemonicDef{Name: name, Shape: ShapeRETn, Class: ClassRETn, Base: op, TrapIdx: -1}
		add(def)
		t.byOp[op] = &Decoded{Def: def}
	}

	addsp := MnemonicDef{Name: "ADDSP", Shape: ShapeStackAdjust, Class: ClassStackAdjust, Base: 96, Modes: AllModes, TrapIdx: -1}
	add(addsp)
	for m := AddrMode(0); m <= ModeStackIndexedDeferred; m++ {
		t.byOp[96+byte(m)] = &Decoded{Def: addsp, Mode: m}
	}
	subsp := MnemonicDef{Name: "SUBSP", Shape: ShapeStackAdjust, Class: ClassStackAdjust, Base: 104, Modes: AllModes, TrapIdx: -1}
	add(subsp)
	for m := AddrMode(0); m <= ModeStackIndexedDeferred; m++ {
		t.byOp[104+byte(m)] = &Decoded{Def: subsp, Mode: m}
	}

	for _, g := range generalFamily {
		defA := MnemonicDef{Name: g.name + "A", Shape: ShapeGeneral, Class: generalClass(g.name), Base: g.base, Modes: g.modes, HasReg: true, TrapIdx: -1}
		add(defA)
		for m := AddrMode(0); m <= ModeStackIndexedDeferred; m++ {
			t.byOp[g.base+byte(m)] = &Decoded{Def: defA, Reg: RegA, Mode: m}
		}
		defX := MnemonicDef{Name: g.name + "X", Shape: ShapeGeneral, Class: generalClass(g.name), Base: g.base + 8, Modes: g.modes, HasReg: true, TrapIdx: -1}
		add(defX)
		for m := AddrMode(0); m <= ModeStackIndexedDeferred; m++ {
			t.byOp[g.base+8+byte(m)] = &Decoded{Def: defX, Reg: RegX, Mode: m}
		}
	}

	return t, nil
}

func generalClass(name string) OpClass {
	switch name {
	case "LD", "LDBYTE", "ST", "STBYTE":
		return ClassLoadStore
	default:
		return ClassALU
	}
}

// Lookup finds a mnemonic definition by name (case handled by the
// caller via the assembler's case-folding pass).
func (t *Table) Lookup(name string) (MnemonicDef, bool) {
	def, ok := t.byName[name]
	return def, ok
}

// Decode returns the decoded form of opcode byte op.
func (t *Table) Decode(op byte) (Decoded, bool) {
	d := t.byOp[op]
	if d == nil {
		return Decoded{}, false
	}
	return *d, true
}

// Encode computes the final opcode byte for def given an addressing
// mode (ignored for ShapeUnary, ShapeTrapUnary, ShapeRETn). The reg
// argument is not used: the register is already fixed by def, since the
// A and X forms of a mnemonic are separate defs with their own Base.
func Encode(def MnemonicDef, reg Register, mode AddrMode) (byte, error) {
	switch def.Shape {
	case ShapeUnary, ShapeTrapUnary, ShapeRETn:
		return def.Base, nil
	case ShapeBranch:
		return def.Base + EncodeMode1(mode), nil
	case ShapeTrapNonunary, ShapeStackAdjust:
		if !def.Modes.Has(mode) {
			return 0, fmt.Errorf("isa: %s does not accept addressing mode %s", def.Name, mode)
		}
		return def.Base + byte(mode), nil
	case ShapeGeneral:
		if !def.Modes.Has(mode) {
			return 0, fmt.Errorf("isa: %s does not accept addressing mode %s", def.Name, mode)
		}
		return def.Base + byte(mode), nil
	default:
		return 0, fmt.Errorf("isa: unknown shape for %s", def.Name)
	}
}
