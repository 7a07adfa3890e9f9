package assembler

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// foldCaser folds mnemonics and dot-commands to a canonical upper case
// for table lookup, while the lexer preserves the original case of
// identifiers for listing output. Addressing-mode suffixes are matched
// case-insensitively by isa.ParseAddrMode instead.
var foldCaser = cases.Upper(language.Und)

func fold(s string) string {
	return foldCaser.String(s)
}
