package simulator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"pep8/isa"
)

// TraceSink receives one formatted line per traced instruction (or
// loader copy). Tests supply a slice-backed sink; the CLI supplies one
// of the writers below.
type TraceSink interface {
	EmitLine(line string)
}

// TraceMode selects which instructions get traced.
type TraceMode int

const (
	TraceOff TraceMode = iota
	TraceProgramOnly
	TraceProgramAndTraps
	TraceLoaderOnly
)

// TraceScope holds the trace mode that Step() consults. The
// single-step/paging behavior lives in PagedSink and the Menu, not here.
type TraceScope struct {
	Mode TraceMode
}

// Matches reports whether the instruction at addr should be traced
// under the current scope. Trap/OS code lives in ROM; user code lives
// in RAM.
func (s TraceScope) Matches(addr uint16, rm *isa.MemoryMap) bool {
	switch s.Mode {
	case TraceProgramOnly:
		return rm.RegionAt(int(addr)) == isa.RegionRAM
	case TraceProgramAndTraps:
		return true
	default:
		return false
	}
}

func flagChar(set bool, c byte) byte {
	if set {
		return c
	}
	return '.'
}

// traceLine renders the address, mnemonic, the instruction-register
// bytes, the operand specifier in hex plus its addressing-mode suffix,
// the resolved operand word, and the full register/flag file.
func (m *Machine) traceLine(instrAddr uint16, dec isa.Decoded) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%04X  %-8s", instrAddr, dec.Def.Name)

	nonunary := dec.Def.Shape != isa.ShapeUnary && dec.Def.Shape != isa.ShapeTrapUnary && dec.Def.Shape != isa.ShapeRETn
	if nonunary {
		fmt.Fprintf(&sb, "IR=%02X%04X %04X,%-3s", m.IR, m.OS, m.resolveTraceValue(dec), dec.Mode)
	} else {
		fmt.Fprintf(&sb, "IR=%02X      %s", m.IR, strings.Repeat(" ", 8))
	}

	flags := string([]byte{
		flagChar(m.Flags.N, 'N'),
		flagChar(m.Flags.Z, 'Z'),
		flagChar(m.Flags.V, 'V'),
		flagChar(m.Flags.C, 'C'),
	})
	fmt.Fprintf(&sb, "  A=%04X X=%04X SP=%04X %s", m.A, m.X, m.SP, flags)
	return sb.String()
}

// resolveTraceValue reports the operand word the trace line should
// display: the literal for immediate mode, otherwise the word currently
// at the resolved effective address (read-only; never used to drive
// execution).
func (m *Machine) resolveTraceValue(dec isa.Decoded) uint16 {
	if dec.Mode == isa.ModeImmediate {
		return m.OS
	}
	return m.readWord(m.effectiveAddress(dec.Mode, m.OS))
}

// WriterSink writes each line to w, colorizing it when w is a TTY.
type WriterSink struct {
	w      io.Writer
	colors bool
}

// NewWriterSink wraps stdout/stderr-style writers, detecting TTY-ness
// with isatty and wrapping with go-colorable so ANSI codes render on
// Windows consoles too.
func NewWriterSink(f *os.File) *WriterSink {
	isTTY := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return &WriterSink{w: colorable.NewColorable(f), colors: isTTY}
}

func (s *WriterSink) EmitLine(line string) {
	if s.colors {
		fmt.Fprintf(s.w, "\033[2m%s\033[0m\n", line)
		return
	}
	fmt.Fprintln(s.w, line)
}

// MinPageSize is the smallest page the interactive pager accepts.
const MinPageSize = 8

// PagedSink holds the trace for one pageful (or one line, in
// single-step mode) and blocks for a single keystroke (via
// golang.org/x/term raw mode) before continuing, implementing the
// trace pager's next-page/continue/single-step/quit controls.
type PagedSink struct {
	w        io.Writer
	in       *os.File
	pageSize int
	count    int
	Quit     bool
}

// NewPagedSink builds a pager over pageSize lines; pageSize 1 is
// single-step, anything else is clamped up to MinPageSize.
func NewPagedSink(out io.Writer, in *os.File, pageSize int) *PagedSink {
	if pageSize != 1 && pageSize < MinPageSize {
		pageSize = MinPageSize
	}
	return &PagedSink{w: out, in: in, pageSize: pageSize}
}

// Quitted reports whether the user asked to abandon the trace; the
// execution loop halts cleanly at its next header when this is set.
func (s *PagedSink) Quitted() bool {
	return s.Quit
}

func (s *PagedSink) EmitLine(line string) {
	if s.Quit {
		return
	}
	fmt.Fprintln(s.w, line)
	s.count++
	if s.pageSize <= 0 || s.count < s.pageSize {
		return
	}
	s.count = 0
	fmt.Fprint(s.w, "-- more (space: page, c: continue, s: step, q: quit) --")
	key, err := s.readKey()
	fmt.Fprint(s.w, "\r\033[K")
	if err != nil {
		return
	}
	switch key {
	case 'q':
		s.Quit = true
	case 'c':
		s.pageSize = 0
	case 's':
		s.pageSize = 1
	}
}

func (s *PagedSink) readKey() (byte, error) {
	fd := int(s.in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		var b [1]byte
		_, rerr := s.in.Read(b[:])
		return b[0], rerr
	}
	defer term.Restore(fd, state)
	var b [1]byte
	_, rerr := s.in.Read(b[:])
	return b[0], rerr
}
