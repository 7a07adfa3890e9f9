package simulator

import (
	"testing"

	"pep8/isa"
)

func TestAddWithFlagsOverflow(t *testing.T) {
	result, fl := addWithFlags(0x4000, 0x4000)
	if result != 0x8000 {
		t.Fatalf("result = %#04x, want 0x8000", result)
	}
	if fl.N != true || fl.Z != false || fl.V != true || fl.C != false {
		t.Errorf("flags = %+v, want N=true Z=false V=true C=false", fl)
	}
}

func TestSubWithFlagsBorrow(t *testing.T) {
	// 0 - 1 must borrow: C (borrow flag) becomes true.
	result, fl := subWithFlags(0, 1)
	if result != 0xFFFF {
		t.Fatalf("result = %#04x, want 0xFFFF", result)
	}
	if !fl.C {
		t.Error("expected borrow flag C=true for 0-1")
	}
}

func TestCpFlagsBoundary(t *testing.T) {
	// A=0x8000 is negative, operand=0x0001 is non-negative: the true
	// difference is always negative regardless of the wrapped byte.
	fl := cpFlags(0x8000, 0x0001)
	if fl.N != true || fl.Z != false || fl.V != true || fl.C != false {
		t.Errorf("cpFlags(0x8000,1) = %+v, want N=true Z=false V=true C=false", fl)
	}
}

func TestCpFlagsNoOverflow(t *testing.T) {
	fl := cpFlags(5, 5)
	if !fl.Z || fl.N || fl.V {
		t.Errorf("cpFlags(5,5) = %+v, want Z=true N=false V=false", fl)
	}
}

func TestNegWithFlagsLeavesVUntouched(t *testing.T) {
	result, n, z := negWithFlags(0x0001)
	if result != 0xFFFF || n != true || z != false {
		t.Errorf("negWithFlags(1) = %#04x n=%v z=%v, want 0xFFFF true false", result, n, z)
	}

	m := newTestMachine(t)
	m.A = 0x0001
	m.Flags.V = true
	dec := isa.Decoded{Def: isa.MnemonicDef{Name: "NEGA", Shape: isa.ShapeUnary, HasReg: true}, Reg: isa.RegA}
	if err := m.execute(dec); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !m.Flags.V {
		t.Error("NEGA cleared V; it should leave V at its prior value")
	}
}

func TestAslWithFlagsMatchesAdd(t *testing.T) {
	r1, f1 := aslWithFlags(0x4000)
	r2, f2 := addWithFlags(0x4000, 0x4000)
	if r1 != r2 || f1 != f2 {
		t.Errorf("ASL(0x4000) = %#04x %+v, want same as ADD(0x4000,0x4000) = %#04x %+v", r1, f1, r2, f2)
	}
}

func TestAsrPreservesSign(t *testing.T) {
	result, fl := asrWithFlags(0x8000)
	if result != 0xC000 {
		t.Fatalf("ASR(0x8000) = %#04x, want 0xC000", result)
	}
	if !fl.N || fl.C {
		t.Errorf("flags = %+v, want N=true C=false", fl)
	}
}

func TestRolRorRoundTrip(t *testing.T) {
	r, fl := rolWithFlags(0x8001, false)
	if r != 0x0002 || !fl.C {
		t.Fatalf("ROL(0x8001,carry=false) = %#04x carry=%v, want 0x0002 carry=true", r, fl.C)
	}
	back, fl2 := rorWithFlags(r, fl.C)
	if back != 0x8001 || fl2.C {
		t.Fatalf("ROR(0x0002,carry=true) = %#04x carry=%v, want 0x8001 false", back, fl2.C)
	}
}
