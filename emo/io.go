package emo

// Input is a single-pass cursor over the values supplied to a program.
type Input struct {
	vals []int
	pos  int
}

// NewInput returns an Input that yields vals in order.
func NewInput(vals []int) *Input {
	return &Input{vals: append([]int(nil), vals...)}
}

// Next returns the next input value and advances the cursor.
// It raises InputExhausted when no values remain.
func (in *Input) Next() int {
	if in == nil || in.pos >= len(in.vals) {
		panic(InputExhausted)
	}
	v := in.vals[in.pos]
	in.pos++
	return v
}

// Remaining returns the number of values not yet consumed.
func (in *Input) Remaining() int {
	if in == nil {
		return 0
	}
	return len(in.vals) - in.pos
}

// Output is the append-only buffer of bytes emitted by a program.
type Output struct {
	buf []byte
}

// Emit appends b to the buffer.
func (o *Output) Emit(b byte) { o.buf = append(o.buf, b) }

// Bytes returns the bytes emitted so far.
func (o *Output) Bytes() []byte { return o.buf }
