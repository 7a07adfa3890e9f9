package assembler

import (
	"strings"
	"testing"

	"pep8/isa"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	trapFile := strings.Join([]string{
		"DECI", "DECO", "HEXO", "STRO",
		"NEWIN i d n s sf x sx sxf",
		"NEWOUT d x",
		"HEXI d",
		"SCANF d n",
	}, "\n") + "\n"
	reg, err := isa.LoadTrapRegistry(strings.NewReader(trapFile))
	if err != nil {
		t.Fatalf("LoadTrapRegistry: %v", err)
	}
	tbl, err := isa.NewTable(reg)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return Config{Table: tbl, Traps: reg}
}

func TestAssembleSimpleProgram(t *testing.T) {
	src := "LDA 0x4000,i\nSTOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	want := []byte{0xC0, 0x40, 0x00, 0x00}
	if string(res.Object) != string(want) {
		t.Fatalf("object = % X, want % X", res.Object, want)
	}
}

func TestAssembleUndefinedSymbolAndMissingEnd(t *testing.T) {
	src := "foo:  LDA bar,d\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(res.Errors), res.Errors)
	}
	var sawUndef, sawMissingEnd bool
	for _, e := range res.Errors {
		switch e.Kind {
		case ErrUndefinedSymbol:
			sawUndef = true
		case ErrMissingEnd:
			sawMissingEnd = true
		}
	}
	if !sawUndef || !sawMissingEnd {
		t.Errorf("expected both undefined-symbol and missing-.END errors, got %v", res.Errors)
	}
	if res.Object != nil {
		t.Error("expected no object file on error")
	}
}

func TestAssembleSymbolRoundTrip(t *testing.T) {
	src := "start: LDA val,d\n       STOP\nval:   .WORD 5\n       .END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	want := []byte{0xC1, 0x00, 0x04, 0x00, 0x00, 0x05}
	if string(res.Object) != string(want) {
		t.Fatalf("object = % X, want % X", res.Object, want)
	}
}

func TestAssembleDuplicateBurn(t *testing.T) {
	src := ".BURN 0x0010\n.BURN 0x0020\nSTOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	found := false
	for _, e := range res.Errors {
		if e.Kind == ErrDuplicateBurn {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected duplicate .BURN error, got %v", res.Errors)
	}
}

func TestAssembleBurnRelocation(t *testing.T) {
	src := "LDA 1,i\n.BURN 0xFFC7\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	// LDA,i's real opcode is 0xC0 0x00 0x01, but it falls below the
	// .BURN instruction's original address, so the object stream carries
	// zero-fill instead.
	if string(res.Object) != string([]byte{0x00, 0x00, 0x00}) {
		t.Fatalf("object = % X, want zero-filled [00 00 00]", res.Object)
	}
}

func TestAssembleCharoImmediate(t *testing.T) {
	src := "CHARO '!',i\nSTOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	want := []byte{0x50, 0x00, '!', 0x00}
	if string(res.Object) != string(want) {
		t.Fatalf("object = % X, want % X", res.Object, want)
	}
}

func TestAssembleRejectsStoreImmediate(t *testing.T) {
	src := "STA 5,i\nSTOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) == 0 {
		t.Fatal("expected illegal addressing mode error for STA,i")
	}
	if res.Errors[0].Kind != ErrIllegalAddrModeForMnemonic {
		t.Errorf("got %v", res.Errors[0].Kind)
	}
}

func TestAssembleBackwardReference(t *testing.T) {
	src := "val:   .WORD 5\nstart: LDA val,d\n       STOP\n       .END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	want := []byte{0x00, 0x05, 0xC1, 0x00, 0x00, 0x00}
	if string(res.Object) != string(want) {
		t.Fatalf("object = % X, want % X", res.Object, want)
	}
}

func TestAssembleAsciiAdvancesByDecodedLength(t *testing.T) {
	src := "msg: .ASCII \"hello, world\\x00\"\nSTOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	want := append([]byte("hello, world\x00"), 0x00)
	if string(res.Object) != string(want) {
		t.Fatalf("object = % X, want % X", res.Object, want)
	}
}

func TestAssembleBlockZero(t *testing.T) {
	src := ".BLOCK 0\nhere: STOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.Info.symbols["here"] != 0 {
		t.Errorf("here = %d, want 0 (.BLOCK 0 advances nothing)", res.Info.symbols["here"])
	}
	if len(res.Object) != 1 {
		t.Errorf("object = % X, want single STOP byte", res.Object)
	}
}

func TestAssembleIgnoresLinesAfterEnd(t *testing.T) {
	src := "STOP\n.END\ngarbage that would not parse $$$\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("lines after .END should be ignored, got %v", res.Errors)
	}
}

func TestAssembleInstructionStringOperandTooLong(t *testing.T) {
	src := "LDA \"abc\",i\nSTOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	found := false
	for _, e := range res.Errors {
		if e.Kind == ErrOperandStringTooLong {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected operand-string-too-long error, got %v", res.Errors)
	}
}

func TestAssembleTwoByteStringOperand(t *testing.T) {
	src := "LDA \"ab\",i\nSTOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	want := []byte{0xC0, 'a', 'b', 0x00}
	if string(res.Object) != string(want) {
		t.Fatalf("object = % X, want % X", res.Object, want)
	}
}

// Scenario 4: symbols declared on relocated statements shift by the
// burn offset k - (finalAddress - 1).
func TestAssembleBurnShiftsLabels(t *testing.T) {
	src := "top: STOP\n.BURN 0xFFC7\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if got := res.Info.symbols["top"]; got != 0xFFC7 {
		t.Errorf("top = %#04x, want 0xFFC7 (shifted so the final byte lands at the burn address)", got)
	}
}

func TestAssembleCodeOverflow(t *testing.T) {
	src := ".BLOCK 0xFFFF\n.BLOCK 0xFFFF\nSTOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	found := false
	for _, e := range res.Errors {
		if e.Kind == ErrCodeOverflow {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected code overflow error, got %v", res.Errors)
	}
}

func TestAssembleTrapModeValidation(t *testing.T) {
	// HEXI only accepts direct mode in the test registry.
	src := "HEXI 5,x\nSTOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) == 0 || res.Errors[0].Kind != ErrIllegalAddrModeForMnemonic {
		t.Fatalf("expected illegal addressing mode for HEXI,x, got %v", res.Errors)
	}
}

func TestAssembleAddrssEmitsSymbolAddress(t *testing.T) {
	src := "vec: .ADDRSS tgt\ntgt: STOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	want := []byte{0x00, 0x02, 0x00}
	if string(res.Object) != string(want) {
		t.Fatalf("object = % X, want % X", res.Object, want)
	}
}

func TestAssembleAddrssRequiresSymbolOperand(t *testing.T) {
	src := ".ADDRSS 5\nSTOP\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) == 0 || res.Errors[0].Kind != ErrSymbolRequiredAfterAddrss {
		t.Fatalf("expected symbol-required-after-.ADDRSS error, got %v", res.Errors)
	}
}

func TestAssembleEquateNotShiftedByBurn(t *testing.T) {
	src := "FIVE: .EQUATE 5\nSTOP\n.BURN 0xFFC7\n.END\n"
	res := Assemble(strings.NewReader(src), testConfig(t))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.Info.symbols["FIVE"] != 5 {
		t.Errorf("FIVE = %d, want 5 (unshifted)", res.Info.symbols["FIVE"])
	}
}
