package emo

import "math"

// immediateDigits consumes the run of digit glyphs following the current
// instruction, advancing PC past each one, and returns their values in
// program order.
func (m *Machine) immediateDigits() []int {
	var ds []int
	for m.PC+1 < len(m.Prog) {
		d, ok := m.Prog[m.PC+1].Digit()
		if !ok {
			break
		}
		ds = append(ds, d)
		m.PC++
	}
	return ds
}

// immediate consumes a variable-width immediate and returns its decimal
// value, or 0 if no digit glyphs follow. A value too large for an int
// raises overflow.
func (m *Machine) immediate(overflow FaultCode) int {
	v, ok := digitsValue(m.immediateDigits())
	if !ok {
		panic(overflow)
	}
	return v
}

// block consumes a variable-width immediate and returns it as exactly n
// digits: zero-padded on the left when short, keeping only the rightmost n
// when long.
func (m *Machine) block(n int) []int {
	return fixedWidth(m.immediateDigits(), n)
}

// digitsValue returns the decimal value of ds and reports whether it fits
// in an int.
func digitsValue(ds []int) (int, bool) {
	v := 0
	for _, d := range ds {
		if v > (math.MaxInt-d)/10 {
			return 0, false
		}
		v = v*10 + d
	}
	return v, true
}

func fixedWidth(ds []int, n int) []int {
	if len(ds) >= n {
		return ds[len(ds)-n:]
	}
	out := make([]int, n)
	copy(out[n-len(ds):], ds)
	return out
}

// operand returns the single digit i glyphs after the current instruction
// without consuming it. Digits left in place are skipped by the execution
// loop. A missing or non-digit operand raises InvalidInstruction.
func (m *Machine) operand(i int) int {
	pc := m.PC + i
	if pc >= len(m.Prog) {
		panic(InvalidInstruction)
	}
	d, ok := m.Prog[pc].Digit()
	if !ok {
		panic(InvalidInstruction)
	}
	return d
}

// regOperand decodes operand i as a register number, where digit n names
// register n-1.
func (m *Machine) regOperand(i int) int {
	return checkReg(m.operand(i) - 1)
}

func checkReg(r int) int {
	if r < 0 || r >= NumRegs {
		panic(InvalidRegister)
	}
	return r
}

func checkAddr(a int) int {
	if a < 0 || a >= MemSize {
		panic(MemoryOutOfBounds)
	}
	return a
}
