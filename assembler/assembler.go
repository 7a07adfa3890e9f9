// Package assembler implements the Pep/8 two-pass assembler: a
// restartable-per-line lexer, a per-line parser state machine, a first
// pass that builds the symbol table and the undeclared-reference list,
// a second pass that resolves references and applies `.BURN`
// relocation, and the object/listing emitters.
package assembler

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"

	"pep8/isa"
)

// Config groups the assembler's process-start inputs into one struct
// read once by the CLI's flag parser rather than threaded as loose
// arguments.
type Config struct {
	Table *isa.Table
	Traps *isa.TrapRegistry
	Debug bool
}

// Result is everything a caller needs after a run: the assembled
// object bytes (nil if errors occurred), the errors (empty on
// success), and the final Info for listing generation.
type Result struct {
	Object []byte
	Errors []AssemblyError
	Info   *Info
}

// Assemble runs the full pipeline over src, line by line.
func Assemble(src io.Reader, cfg Config) Result {
	info := NewInfo(cfg.Table, cfg.Traps)

	scanner := bufio.NewScanner(src)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		info.FeedLine(scanner.Text(), lineNo)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("assembler: error reading source: %v", err)
	}
	info.FinishFirstPass(lineNo)

	if cfg.Debug {
		pp.Fprintln(os.Stderr, "statements after first pass:", info.Statements())
	}

	info.SecondPass()

	if cfg.Debug {
		if info.burnSeen {
			log.Printf("assembler: .BURN relocation shift is %+d (0x%04X)", info.burnShift, info.burnShift&0xFFFF)
		}
		pp.Fprintln(os.Stderr, "symbol table:", info.symbols)
	}

	if len(info.Errors()) > 0 {
		return Result{Errors: info.Errors(), Info: info}
	}
	return Result{Object: info.Object(), Info: info}
}

// ReportErrors writes each error to w, one per line, source-line
// number first.
func ReportErrors(w io.Writer, errs []AssemblyError) {
	for _, e := range errs {
		fmt.Fprintln(w, e.Error())
	}
}
