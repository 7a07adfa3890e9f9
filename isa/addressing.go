package isa

import "strings"

// AddrMode is one of the eight Pep/8 addressing modes, numbered as the
// instruction specifier's mode field encodes them.
type AddrMode uint8

const (
	ModeImmediate AddrMode = iota
	ModeDirect
	ModeIndirect
	ModeStackRel
	ModeStackRelDeferred
	ModeIndexed
	ModeStackIndexed
	ModeStackIndexedDeferred
)

var addrModeNames = [...]string{
	ModeImmediate:            "i",
	ModeDirect:               "d",
	ModeIndirect:             "n",
	ModeStackRel:             "s",
	ModeStackRelDeferred:     "sf",
	ModeIndexed:              "x",
	ModeStackIndexed:         "sx",
	ModeStackIndexedDeferred: "sxf",
}

func (m AddrMode) String() string {
	if int(m) < len(addrModeNames) {
		return addrModeNames[m]
	}
	return "?"
}

// ParseAddrMode recognizes the case-insensitive addressing-mode suffix
// tokens the assembly language writes after a comma.
func ParseAddrMode(tok string) (AddrMode, bool) {
	switch strings.ToLower(tok) {
	case "i":
		return ModeImmediate, true
	case "d":
		return ModeDirect, true
	case "n":
		return ModeIndirect, true
	case "s":
		return ModeStackRel, true
	case "sf":
		return ModeStackRelDeferred, true
	case "x":
		return ModeIndexed, true
	case "sx":
		return ModeStackIndexed, true
	case "sxf":
		return ModeStackIndexedDeferred, true
	default:
		return 0, false
	}
}

// ModeSet is a bitmask over the eight addressing modes, used both by
// mnemonic definitions (legal modes) and by the trap registry (modes
// accepted by a user-declared trap mnemonic).
type ModeSet uint8

// AllModes is every addressing mode (the default for general ops).
const AllModes ModeSet = 0xFF

// NoImmediate is every mode except immediate; CHARI, STr, and STBYTEr
// have nowhere to store into a literal.
const NoImmediate ModeSet = AllModes &^ (1 << ModeImmediate)

// BranchModes is the set branch/CALL instructions accept: immediate or
// indexed, encoded with a single bit rather than the full three-bit field.
const BranchModes ModeSet = (1 << ModeImmediate) | (1 << ModeIndexed)

func (s ModeSet) Has(m AddrMode) bool {
	return s&(1<<m) != 0
}

// Add returns s with m added; adding a mode twice is a no-op.
func (s ModeSet) Add(m AddrMode) ModeSet {
	return s | (1 << m)
}

func (s ModeSet) String() string {
	var parts []string
	for m := ModeImmediate; m <= ModeStackIndexedDeferred; m++ {
		if s.Has(m) {
			parts = append(parts, m.String())
		}
	}
	return strings.Join(parts, ",")
}

// EncodeMode1 returns the single-bit addressing-mode field branches and
// CALL use: 0 for immediate, 1 for indexed.
func EncodeMode1(m AddrMode) byte {
	if m == ModeIndexed {
		return 1
	}
	return 0
}

// DecodeMode1 is the inverse of EncodeMode1, applied to the low bit of an
// instruction specifier.
func DecodeMode1(spec byte) AddrMode {
	if spec%2 == 0 {
		return ModeImmediate
	}
	return ModeIndexed
}

// DecodeMode3 extracts the three-bit addressing-mode field nonunary
// standard ops and traps encode in the low three bits of the specifier.
func DecodeMode3(spec byte) AddrMode {
	return AddrMode(spec % 8)
}
