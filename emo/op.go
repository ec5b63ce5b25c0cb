package emo

import "strings"

// Op represents a decoded emo opcode.
type Op byte

const (
	Invalid Op = iota
	START
	INP
	PSH
	PPC
	XOR
	AND
	ORA
	SHL
	SHR
	CMP
	IF
	IFN
	JMB
	JMF
	MVR
	CPR
	MFR
	POP
	JMP
	JSR
	RET
	STM
	LDM
	SWM
	MOD
	ADD
	SUB
	OUT
	NOP
)

func (o Op) String() string {
	if int(o) < len(opStrings) {
		return opStrings[o]
	}
	return "???"
}

var opStrings = strings.Fields(`
	???
	START
	INP
	PSH
	PPC
	XOR
	AND
	ORA
	SHL
	SHR
	CMP
	IF
	IFN
	JMB
	JMF
	MVR
	CPR
	MFR
	POP
	JMP
	JSR
	RET
	STM
	LDM
	SWM
	MOD
	ADD
	SUB
	OUT
	NOP
`)

// Glyph returns the program glyph that encodes o.
func (o Op) Glyph() Glyph {
	for g, op := range glyphOps {
		if op == o {
			return g
		}
	}
	return ""
}

// Operands reports how many single-digit operand glyphs follow o in the
// program. Opcodes that take a run of digits (PSH, XOR, AND, SHL, SHR, MVR,
// LDM, SWM) report 0; their operands are variable width.
func (o Op) Operands() int {
	switch o {
	case IF, IFN, JMB, JMF, CPR, MFR, JMP, JSR:
		return 1
	case CMP, STM:
		return 2
	case ORA, MOD, ADD, SUB:
		return 3
	}
	return 0
}

var glyphOps = map[Glyph]Op{
	"🌞": START,
	"📥": INP,
	"🔼": PSH,
	"📎": PPC,
	"⊕": XOR,
	"🎎": AND,
	"🏮": ORA,
	"≪": SHL,
	"≫": SHR,
	"🟰": CMP,
	"❔": IF,
	"🚫": IFN,
	"🔁": JMB,
	"⏩": JMF,
	"📈": MVR,
	"📰": CPR,
	"📉": MFR,
	"📌": POP,
	"🚀": JMP,
	"📞": JSR,
	"🪄": RET,
	"📝": STM,
	"📕": LDM,
	"🔄": SWM,
	"➗": MOD,
	"➕": ADD,
	"➖": SUB,
	"🔊": OUT,
	"💤": NOP,
}

// digits maps both digit alphabets to their values.
var digits = map[Glyph]int{
	"0": 0, "1": 1, "2": 2, "3": 3, "4": 4,
	"5": 5, "6": 6, "7": 7, "8": 8, "9": 9,
	"⓿": 0, "⓵": 1, "⓶": 2, "⓷": 3, "⓸": 4,
	"⓹": 5, "⓺": 6, "⓻": 7, "⓼": 8, "⓽": 9,
}

var circledDigits = [10]Glyph{"⓿", "⓵", "⓶", "⓷", "⓸", "⓹", "⓺", "⓻", "⓼", "⓽"}
