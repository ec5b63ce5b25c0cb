package emo

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Glyph is one symbol of a program: an opcode or a digit.
type Glyph string

// Op returns the opcode encoded by g, or Invalid.
func (g Glyph) Op() Op { return glyphOps[g] }

// Digit returns the value of a digit glyph from either digit alphabet,
// and reports whether g is a digit.
func (g Glyph) Digit() (int, bool) {
	d, ok := digits[g]
	return d, ok
}

// Program is an immutable sequence of glyphs indexed by the program counter.
type Program []Glyph

// Parse splits src into glyphs, one per grapheme cluster.
// Emoji presentation selectors are removed and whitespace is skipped,
// so programs may be laid out over several lines.
func Parse(src string) Program {
	var (
		p  Program
		gr = uniseg.NewGraphemes(src)
	)
	for gr.Next() {
		s := strings.Map(func(r rune) rune {
			if r == '\ufe0f' || r == '\ufe0e' {
				return -1
			}
			return r
		}, gr.Str())
		if strings.TrimFunc(s, unicode.IsSpace) == "" {
			continue
		}
		p = append(p, Glyph(s))
	}
	return p
}

// Number returns the circled-digit spelling of a non-negative n,
// suitable for use as an immediate operand.
func Number(n int) Program {
	if n < 0 {
		panic("emo: negative immediate")
	}
	var p Program
	for _, c := range []byte(strconv.Itoa(n)) {
		p = append(p, circledDigits[c-'0'])
	}
	return p
}

func (p Program) String() string {
	var b strings.Builder
	for _, g := range p {
		b.WriteString(string(g))
	}
	return b.String()
}
