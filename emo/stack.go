package emo

import (
	"fmt"
	"strings"
)

// Stack is the operand stack. It grows without bound.
type Stack struct {
	Vals []int
}

// Push pushes v onto the stack.
func (s *Stack) Push(v int) { s.Vals = append(s.Vals, v) }

// Pop removes and returns the top of the stack.
// It raises EmptyStack if the stack is empty.
func (s *Stack) Pop() int {
	v := s.Top()
	s.Vals = s.Vals[:len(s.Vals)-1]
	return v
}

// Top returns the top of the stack without removing it.
// It raises EmptyStack if the stack is empty.
func (s *Stack) Top() int {
	v, ok := s.Peek()
	if !ok {
		panic(EmptyStack)
	}
	return v
}

// Peek returns the top of the stack and reports whether there was one.
func (s *Stack) Peek() (int, bool) {
	if len(s.Vals) == 0 {
		return 0, false
	}
	return s.Vals[len(s.Vals)-1], true
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int { return len(s.Vals) }

func (s Stack) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, v := range s.Vals {
		b.WriteByte(' ')
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte(' ')
	b.WriteByte(')')
	return b.String()
}
