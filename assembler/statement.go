package assembler

import "pep8/isa"

// StmtKind is the concrete shape a parsed source line takes.
type StmtKind int

const (
	StmtUnaryInstr StmtKind = iota
	StmtNonunaryInstr
	StmtDotEnd
	StmtDotBlock
	StmtDotBurn
	StmtDotByte
	StmtDotWord
	StmtDotAscii
	StmtDotAddrss
	StmtDotEquate
	StmtEmpty
)

// OperandKind distinguishes how an operand token was written, so the
// first pass can size it and the second pass can resolve it.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandDecimal
	OperandHex
	OperandChar
	OperandString
	OperandSymbol
)

// Operand is the parsed right-hand side of an instruction or directive.
type Operand struct {
	Kind    OperandKind
	Value   int64
	Bytes   []byte // decoded payload for OperandChar/OperandString
	Symbol  string
	RawText string
}

// Statement is one parsed source line: the record the parser hands the
// first pass, carrying everything needed to size it, resolve it, emit
// its bytes, and print its listing row.
type Statement struct {
	Line     int
	Kind     StmtKind
	Label    string
	Mnemonic string
	Mode     isa.AddrMode
	HasMode  bool
	Operand  Operand
	Comment  string

	// Filled in by the first pass.
	Addr     int
	OrigAddr int // address before .BURN relocation, used for zero-fill classification
	Size     int

	// Filled in by the second pass.
	Bytes []byte
}
