package emo

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNewMachine(t *testing.T) {
	in := []int{1, 2}
	m := NewMachine(Parse("🌞📥"), in)
	in[0] = 9
	if g := m.In.Next(); g != 1 {
		t.Errorf("first input is %d, want 1", g)
	}
	if m.PC != 0 || m.Stack.Len() != 0 || m.Acc {
		t.Errorf("machine not zeroed: PC=%d stack=%v acc=%v", m.PC, m.Stack, m.Acc)
	}
	for i, v := range m.Reg {
		if v != 0 {
			t.Errorf("Reg[%d] == %d, want 0", i, v)
		}
	}
}

func TestExec(t *testing.T) {
	c := newExecTestCase
	for i, c := range []*execTestCase{
		c("🌞"),
		c("💤"),
		c("⓵").want(),
		c("7"),
		c("🍕").fault(InvalidInstruction),

		c("📥").input(65, 66).want().stack(65),
		c("📥").stack(1).want().stack(1).fault(InputExhausted),

		c("🔼⓻⓶").want().stack(72).pc(3),
		c("🔼7⓶").want().stack(72).pc(3),
		c("🔼⓵⓶⓹🔊").want().stack(125).pc(4),
		c("🔼").want().stack(0),
		c("🔼🔼⓵").want().stack(0),
		c("🔼9223372036854775807").want().stack(math.MaxInt).pc(20),
		c("🔼" + strings.Repeat("⓽", 20)).want().fault(ImmediateOverflow).pc(20),

		c("🌞📎").pc(1).want().stack(1).pc(2),

		c("⊕").stack(5, 3).want().stack(6),
		c("⊕⓵⓶").stack(5, 3).want().stack(6).pc(3),
		c("⊕").stack(1).want().stack(1).fault(EmptyStack),

		c("🎎⓵⓶⓷").reg(1, 0xc).reg(2, 0xa).want().reg(3, 0x8).pc(4),
		c("🎎⓶⓷").reg(0, 0xff).reg(2, 0x0f).want().reg(3, 0x0f).pc(3),
		c("🎎⓽⓵⓶⓷").reg(1, 0xc).reg(2, 0xa).want().reg(3, 0x8).pc(5),

		c("🏮⓵⓶⓷").reg(0, 0x36).reg(1, 0x63).want().reg(2, 0x77),
		c("🏮⓿⓵⓶").fault(InvalidRegister),
		c("🏮⓵⓶").fault(InvalidInstruction),

		c("≪⓵⓿⓶⓿").reg(1, 3).reg(2, 4).want().reg(1, 48).pc(5),
		c("≪⓶").reg(0, 2).want().reg(0, 8).pc(2),
		c("≫⓵⓿⓿⓶").reg(1, 48).reg(2, 4).want().reg(1, 3).pc(5),
		c("≫⓵⓿⓿⓶").reg(2, -1).want().fault(NegativeShift).pc(4),

		c("🟰⓵⓶").reg(0, 5).reg(1, 5).want().acc(true),
		c("🟰⓵⓶").reg(0, 5).reg(1, 6).acc(true).want().acc(false),
		c("🟰⓵").fault(InvalidInstruction),

		c("❔⓻").acc(true).want().acc(true).pc(7),
		c("❔⓻"),
		c("🚫⓻").want().pc(7),
		c("🚫⓻").acc(true).want().acc(true),

		c("🌞🌞🌞🔁⓶").pc(3).want().pc(2),
		c("⏩⓷").want().pc(4),

		c("📈⓷").stack(9).want().reg(3, 9).pc(2),
		c("📈").stack(9).want().reg(0, 9),
		c("📈⓵⓹").stack(9).want().fault(InvalidRegister).pc(2),
		c("📈⓷").fault(EmptyStack),
		c("📈18446744073709551619").stack(9).want().fault(InvalidRegister).pc(20),

		c("📰⓶").stack(7).want().stack(7).reg(1, 7),
		c("📰⓶").fault(EmptyStack),

		c("📉⓶").reg(1, 7).want().stack(7),

		c("📌").stack(5).want().pc(6),
		c("📌").fault(EmptyStack),

		c("🚀⓷").reg(2, 9).want().pc(10),
		c("🚀").fault(InvalidInstruction),
		c("🚀🌞").fault(InvalidInstruction),

		c("🌞📞⓷").pc(1).reg(2, 9).want().stack(1).pc(10),
		c("🪄").stack(1).want().pc(2),
		c("🪄").fault(EmptyStack),

		c("📝⓵⓶").reg(0, 42).reg(1, 200).want().mem(200, 42),
		c("📝⓵⓶").reg(0, 42).reg(1, 256).want().fault(MemoryOutOfBounds),
		c("📝⓵⓶").reg(1, -1).want().fault(MemoryOutOfBounds),

		c("📕⓵⓶⓿").reg(1, 200).mem(200, 42).want().reg(2, 42).pc(4),
		c("📕⓵⓶⓿").reg(1, 300).want().fault(MemoryOutOfBounds).pc(3),

		c("🔄⓿⓷⓸").mem(3, 1, 2).want().mem(3, 2, 1).pc(4),
		c("🔄⓷⓸").mem(3, 1, 2).want().mem(3, 2, 1).pc(3),

		c("➗⓵⓶⓷").reg(0, 7).reg(1, 3).want().reg(2, 1),
		c("➗⓵⓶⓷").reg(0, -7).reg(1, 3).want().reg(2, 2),
		c("➗⓵⓶⓷").reg(0, 7).want().fault(DivideByZero),
		c("➕⓵⓶⓷").reg(0, 7).reg(1, 3).want().reg(2, 10),
		c("➖⓵⓶⓷").reg(0, 7).reg(1, 3).want().reg(2, 4),
		c("➖⓵⓶⓾").reg(0, 7).reg(1, 3).fault(InvalidInstruction),

		c("🔊").stack(65).want().out("A"),
		c("🔊").stack(1, 0x148).want().stack(1).out("H"),
		c("🔊").fault(EmptyStack),
	} {
		t.Run(fmt.Sprintf("%s_%d", c.m.Prog[c.m.PC].Op(), i), func(t *testing.T) {
			if err := c.m.Exec(); err != c.err {
				t.Fatalf("got error %v, want %v", err, c.err)
			}
			if g, w := c.m.Stack, c.w.Stack; !stackEq(g, w) {
				t.Errorf("stack is\n\t%v\nwant\n\t%v", g, w)
			}
			if g, w := c.m.Reg, c.w.Reg; g != w {
				t.Errorf("registers are %v, want %v", g, w)
			}
			if g, w := c.m.Mem, c.w.Mem; g != w {
				for i := range g {
					if g[i] != w[i] {
						t.Errorf("memory[%d] = %d, want %d", i, g[i], w[i])
					}
				}
			}
			if g, w := c.m.Acc, c.w.Acc; g != w {
				t.Errorf("accumulator is %v, want %v", g, w)
			}
			if g, w := c.m.Output(), c.w.Output(); !bytes.Equal(g, w) {
				t.Errorf("output is %q, want %q", g, w)
			}
			if g, w := c.m.PC, c.w.PC; g != w {
				t.Errorf("PC is %d, want %d", g, w)
			}
		})
	}
}

type execTestCase struct {
	m, w *Machine
	err  error
	set  *Machine
}

func newExecTestCase(src string) *execTestCase {
	c := &execTestCase{}
	c.m = NewMachine(Parse(src), nil)
	c.w = NewMachine(Parse(src), nil)
	c.w.PC++
	c.set = c.m
	return c
}

func (c *execTestCase) input(vals ...int) *execTestCase {
	c.set.In = NewInput(vals)
	return c
}

func (c *execTestCase) stack(vals ...int) *execTestCase {
	c.set.Stack = Stack{Vals: vals}
	return c
}

func (c *execTestCase) reg(r, v int) *execTestCase {
	c.set.Reg[r] = v
	if c.set == c.m {
		c.w.Reg[r] = v
	}
	return c
}

func (c *execTestCase) mem(addr int, vals ...int) *execTestCase {
	copy(c.set.Mem[addr:], vals)
	if c.set == c.m {
		copy(c.w.Mem[addr:], vals)
	}
	return c
}

func (c *execTestCase) acc(b bool) *execTestCase {
	c.set.Acc = b
	return c
}

func (c *execTestCase) out(s string) *execTestCase {
	for _, b := range []byte(s) {
		c.set.Out.Emit(b)
	}
	return c
}

func (c *execTestCase) pc(pc int) *execTestCase {
	c.set.PC = pc
	return c
}

func (c *execTestCase) want() *execTestCase {
	c.set = c.w
	return c
}

// fault expects Exec to fail with code at the machine's starting PC,
// leaving PC there unless a later call to pc says otherwise.
func (c *execTestCase) fault(code FaultCode) *execTestCase {
	g := c.m.Prog[c.m.PC]
	c.err = Fault{
		FaultCode: code,
		Op:        g.Op(),
		Glyph:     g,
		PC:        c.m.PC,
	}
	c.set = c.w
	c.w.PC = c.m.PC
	return c
}

func stackEq(a, b Stack) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.Vals {
		if a.Vals[i] != b.Vals[i] {
			return false
		}
	}
	return true
}
