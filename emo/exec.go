// Package emo provides an implementation of the emo CPU, called Machine,
// that executes programs written as sequences of emoji glyphs.
package emo

import (
	"errors"
	"fmt"
	"sync/atomic"
)

const (
	NumRegs = 15
	MemSize = 256
)

// Machine is an implementation of the emo CPU. A Machine executes a single
// program once; create a new Machine for each run.
type Machine struct {
	Prog  Program
	PC    int
	Stack Stack
	Reg   [NumRegs]int
	Mem   [MemSize]int
	Acc   bool
	In    *Input
	Out   Output

	// MaxSteps bounds the number of glyphs Run will step through.
	// Zero means no limit.
	MaxSteps int

	// Trace, if set, is called before each instruction is executed,
	// with PC pointing at the instruction.
	Trace TraceFunc

	steps  int
	halted atomic.Bool
}

// TraceFunc observes the Machine before it executes op.
type TraceFunc func(m *Machine, op Op)

// NewMachine returns a Machine loaded with prog that reads from input.
func NewMachine(prog Program, input []int) *Machine {
	return &Machine{
		Prog: prog,
		In:   NewInput(input),
	}
}

// ErrEnd is returned by Exec when PC has run off the end of the program.
var ErrEnd = errors.New("end of program")

// Run executes the program until PC runs off its end or a fault occurs.
// It returns the bytes emitted by the program, including those emitted
// before a fault.
func (m *Machine) Run() ([]byte, error) {
	for {
		if err := m.Exec(); err == ErrEnd {
			return m.Output(), nil
		} else if err != nil {
			return m.Output(), err
		}
	}
}

// Output returns the bytes emitted so far.
func (m *Machine) Output() []byte { return m.Out.Bytes() }

// Steps returns the number of glyphs stepped through so far.
func (m *Machine) Steps() int { return m.steps }

// Halt stops execution before the next instruction; Exec then returns a
// Fault with code Halted. It is safe to call from another goroutine.
func (m *Machine) Halt() { m.halted.Store(true) }

// Exec executes the glyph at m.PC. It returns ErrEnd if PC is past the end
// of the program, and otherwise only returns a non-nil error (a Fault) if
// execution cannot continue.
func (m *Machine) Exec() (err error) {
	if m.PC >= len(m.Prog) {
		return ErrEnd
	}
	var (
		pc = m.PC
		g  Glyph
		op Op
	)
	defer func() {
		if e := recover(); e != nil {
			if code, ok := e.(FaultCode); ok {
				err = Fault{
					FaultCode: code,
					Op:        op,
					Glyph:     g,
					PC:        pc,
				}
			} else {
				panic(e)
			}
		}
	}()

	if m.halted.Load() {
		panic(Halted)
	}
	if pc < 0 {
		panic(BadJump)
	}
	if m.MaxSteps > 0 && m.steps >= m.MaxSteps {
		panic(StepLimit)
	}
	m.steps++

	g = m.Prog[pc]
	if _, ok := g.Digit(); ok {
		// Operand data belonging to an earlier instruction.
		m.PC++
		return nil
	}
	op = g.Op()
	if m.Trace != nil {
		m.Trace(m, op)
		if m.halted.Load() {
			panic(Halted)
		}
	}

	switch op {
	case START, NOP:
	case INP:
		m.Stack.Push(m.In.Next())
	case PSH:
		m.Stack.Push(m.immediate(ImmediateOverflow))
	case PPC:
		m.Stack.Push(m.PC)
	case XOR:
		m.immediateDigits() // Ignored.
		if m.Stack.Len() < 2 {
			panic(EmptyStack)
		}
		a, b := m.Stack.Pop(), m.Stack.Pop()
		m.Stack.Push(a ^ b)
	case AND:
		b := m.block(3)
		r1, r2, r3 := checkReg(b[0]), checkReg(b[1]), checkReg(b[2])
		m.Reg[r3] = m.Reg[r1] & m.Reg[r2]
	case ORA:
		r1, r2, r3 := m.regOperand(1), m.regOperand(2), m.regOperand(3)
		m.Reg[r3] = m.Reg[r1] | m.Reg[r2]
	case SHL, SHR:
		b := m.block(4)
		r1, r2 := checkReg(b[0]), checkReg(b[2])
		if op == SHR {
			r2 = checkReg(b[3])
		}
		n := m.Reg[r2]
		if n < 0 {
			panic(NegativeShift)
		}
		if op == SHL {
			m.Reg[r1] <<= uint(n)
		} else {
			m.Reg[r1] >>= uint(n)
		}
	case CMP:
		r1, r2 := m.regOperand(1), m.regOperand(2)
		m.Acc = m.Reg[r1] == m.Reg[r2]
	case IF, IFN:
		if t := m.operand(1); m.Acc == (op == IF) {
			m.PC = t - 1
		}
	case JMB:
		m.PC -= m.operand(1)
	case JMF:
		m.PC += m.operand(1)
	case MVR:
		v := m.Stack.Pop()
		m.Reg[checkReg(m.immediate(InvalidRegister))] = v
	case CPR:
		m.Reg[m.regOperand(1)] = m.Stack.Top()
	case MFR:
		m.Stack.Push(m.Reg[m.regOperand(1)])
	case POP, RET:
		m.PC = m.Stack.Pop()
	case JMP:
		m.PC = m.Reg[m.regOperand(1)]
	case JSR:
		r := m.regOperand(1)
		m.Stack.Push(m.PC)
		m.PC = m.Reg[r]
	case STM:
		v, a := m.regOperand(1), m.regOperand(2)
		m.Mem[checkAddr(m.Reg[a])] = m.Reg[v]
	case LDM:
		b := m.block(3)
		a, d := checkReg(b[0]), checkReg(b[1])
		m.Reg[d] = m.Mem[checkAddr(m.Reg[a])]
	case SWM:
		b := m.block(3)
		x, y := checkAddr(b[1]), checkAddr(b[2])
		m.Mem[x], m.Mem[y] = m.Mem[y], m.Mem[x]
	case MOD, ADD, SUB:
		r1, r2, r3 := m.regOperand(1), m.regOperand(2), m.regOperand(3)
		a, b := m.Reg[r1], m.Reg[r2]
		switch op {
		case MOD:
			m.Reg[r3] = floorMod(a, b)
		case ADD:
			m.Reg[r3] = a + b
		case SUB:
			m.Reg[r3] = a - b
		}
	case OUT:
		m.Out.Emit(byte(m.Stack.Pop()))
	default:
		panic(InvalidInstruction)
	}

	m.PC++
	return nil
}

// floorMod returns a modulo b with the sign of b.
func floorMod(a, b int) int {
	if b == 0 {
		panic(DivideByZero)
	}
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// Fault is returned by Exec and Run when execution cannot continue.
type Fault struct {
	FaultCode
	Op    Op
	Glyph Glyph
	PC    int
}

func (f Fault) Error() string {
	switch {
	case f.Glyph == "":
		return fmt.Sprintf("%s at %d", f.FaultCode, f.PC)
	case f.Op == Invalid:
		return fmt.Sprintf("%s at %d (%q)", f.FaultCode, f.PC, f.Glyph)
	}
	return fmt.Sprintf("%s executing %s at %d", f.FaultCode, f.Op, f.PC)
}

// Unwrap returns the fault code, so that errors.Is(err, EmptyStack) and
// similar work on errors returned by Run.
func (f Fault) Unwrap() error { return f.FaultCode }

// FaultCode signifies the kind of condition that stopped execution.
type FaultCode byte

const (
	InvalidInstruction FaultCode = iota + 1
	EmptyStack
	InputExhausted
	MemoryOutOfBounds
	InvalidRegister
	DivideByZero
	NegativeShift
	BadJump
	StepLimit
	Halted
	ImmediateOverflow
)

func (c FaultCode) Error() string { return c.String() }

func (c FaultCode) String() string {
	if s, ok := map[FaultCode]string{
		InvalidInstruction: "invalid instruction",
		EmptyStack:         "empty stack",
		InputExhausted:     "input exhausted",
		MemoryOutOfBounds:  "memory out of bounds",
		InvalidRegister:    "invalid register",
		DivideByZero:       "division by zero",
		NegativeShift:      "negative shift",
		BadJump:            "jump before start of program",
		StepLimit:          "step limit reached",
		Halted:             "halted",
		ImmediateOverflow:  "immediate value overflow",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}
