package isa

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TrapDef names one user-assignable trap mnemonic and, for nonunary
// traps, the addressing modes it accepts. Its opcode slot (0-3 within
// the unary or the nonunary family) is its index in TrapRegistry.
type TrapDef struct {
	Name  string
	Modes ModeSet // unused (zero) for unary traps
}

// TrapRegistry holds the eight trap-mnemonic slots loaded from the
// external trap file: four unary (UNIMP0-3) followed by four nonunary
// (UNIMP4-7).
type TrapRegistry struct {
	Unary    [4]TrapDef
	Nonunary [4]TrapDef
}

// LoadTrapRegistry parses the eight-line trap file format: the first
// four lines each name one unary trap mnemonic, the last four each name
// a nonunary trap mnemonic followed by its whitespace-separated
// addressing-mode codes (i, d, n, s, sf, x, sx, sxf). Matching is
// case-insensitive; duplicate mode tokens on one line are ignored.
func LoadTrapRegistry(r io.Reader) (*TrapRegistry, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("isa: reading trap registry: %w", err)
	}
	if len(lines) != 8 {
		return nil, fmt.Errorf("isa: trap registry must have 8 entries, got %d", len(lines))
	}

	reg := &TrapRegistry{}
	for i := 0; i < 4; i++ {
		fields := strings.Fields(lines[i])
		if len(fields) != 1 {
			return nil, fmt.Errorf("isa: trap registry line %d: unary trap takes no addressing modes", i+1)
		}
		reg.Unary[i] = TrapDef{Name: strings.ToUpper(fields[0])}
	}
	for i := 0; i < 4; i++ {
		fields := strings.Fields(lines[4+i])
		if len(fields) < 2 {
			return nil, fmt.Errorf("isa: trap registry line %d: nonunary trap needs at least one addressing mode", i+5)
		}
		var modes ModeSet
		for _, tok := range fields[1:] {
			m, ok := ParseAddrMode(tok)
			if !ok {
				return nil, fmt.Errorf("isa: trap registry line %d: unknown addressing mode %q", i+5, tok)
			}
			modes = modes.Add(m)
		}
		reg.Nonunary[i] = TrapDef{Name: strings.ToUpper(fields[0]), Modes: modes}
	}
	return reg, nil
}

// Lookup finds a registered trap mnemonic (case-insensitive) and reports
// whether it is unary and which opcode slot (0-3) it occupies.
func (t *TrapRegistry) Lookup(name string) (slot int, unary bool, def TrapDef, ok bool) {
	upper := strings.ToUpper(name)
	for i, d := range t.Unary {
		if d.Name == upper {
			return i, true, d, true
		}
	}
	for i, d := range t.Nonunary {
		if d.Name == upper {
			return i, false, d, true
		}
	}
	return 0, false, TrapDef{}, false
}
