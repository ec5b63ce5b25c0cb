package main

import (
	"errors"
	"log"
	"sync"

	"github.com/nf/emo/emo"
)

// StateKind describes why a StateFunc is being called.
type StateKind int

const (
	ClearState StateKind = iota // Execution resumed.
	BreakState                  // Paused at a breakpoint or after a step.
	DoneState                   // Program ran off the end.
	FaultState                  // Program stopped with a fault.
)

// StateFunc is notified of changes in the state of the running machine.
// For DoneState and FaultState err is the result of the run.
type StateFunc func(m *emo.Machine, k StateKind, err error)

// Runner executes programs, one fresh Machine per program. In dev mode it
// keeps running after a program finishes so that Swap can start another.
type Runner struct {
	cfg   Config
	dev   bool
	state StateFunc

	reset     chan emo.Program
	resetDone chan bool
	exit      chan bool
	exitOnce  sync.Once
	resume    chan bool

	mu     sync.Mutex
	brk    int // PC to pause at, or -1
	step   bool
	paused bool
	prog   emo.Program
}

func NewRunner(cfg Config, devMode bool, state StateFunc) *Runner {
	return &Runner{
		cfg:       cfg,
		dev:       devMode,
		state:     state,
		reset:     make(chan emo.Program),
		resetDone: make(chan bool),
		exit:      make(chan bool),
		resume:    make(chan bool, 1),
		brk:       -1,
	}
}

// Swap halts the running program and starts prog in its place.
func (r *Runner) Swap(prog emo.Program) {
	if !r.dev {
		panic("Swap called while not running in dev mode")
	}
	r.reset <- prog
	<-r.resetDone
}

// Debug controls execution. Commands are "break" (pause before the
// instruction at pc, or clear the breakpoint if pc is negative), "step",
// "cont", "reset" (restart the current program) and "exit".
func (r *Runner) Debug(cmd string, pc int) {
	switch cmd {
	case "break":
		r.mu.Lock()
		r.brk = pc
		r.mu.Unlock()
	case "step", "cont":
		r.mu.Lock()
		r.step = cmd == "step"
		if r.paused {
			r.paused = false
			r.resume <- true
		}
		r.mu.Unlock()
	case "reset":
		r.mu.Lock()
		p := r.prog
		r.mu.Unlock()
		r.Swap(p)
	case "exit":
		r.exitOnce.Do(func() { close(r.exit) })
	default:
		log.Printf("unknown debug command %q", cmd)
	}
}

// RunNext waits for the first program from progs and runs it as Run does.
// If Debug("exit") is called first it returns no output and a nil error.
func (r *Runner) RunNext(progs <-chan emo.Program) ([]byte, error) {
	select {
	case p := <-progs:
		return r.Run(p)
	case <-r.exit:
		return nil, nil
	}
}

// Exited returns a channel that is closed by Debug("exit").
func (r *Runner) Exited() <-chan bool { return r.exit }

type result struct {
	out []byte
	err error
}

// Run executes prog and returns its output. In dev mode Run continues to
// serve Swap requests until Debug("exit") is called, and then returns the
// result of the most recently finished program.
func (r *Runner) Run(prog emo.Program) ([]byte, error) {
	var (
		done    = make(chan result)
		m, halt = r.start(prog, done)
		running = true
		last    result
	)
	stop := func() {
		if running {
			m.Halt()
			close(halt)
			<-done
			running = false
		}
	}
	for {
		select {
		case p := <-r.reset:
			stop()
			m, halt = r.start(p, done)
			running = true
			r.resetDone <- true
		case res := <-done:
			running = false
			last = res
			r.finish(m, res)
			if !r.dev {
				return res.out, res.err
			}
		case <-r.exit:
			stop()
			return last.out, last.err
		}
	}
}

func (r *Runner) start(prog emo.Program, done chan<- result) (*emo.Machine, chan bool) {
	r.mu.Lock()
	r.prog = prog
	r.mu.Unlock()

	var (
		m    = emo.NewMachine(prog, r.cfg.Input)
		halt = make(chan bool)
		bl   *backlog
	)
	if !r.dev && !r.cfg.Trace {
		bl = &backlog{}
	}
	m.MaxSteps = r.cfg.MaxSteps
	m.Trace = r.trace(bl, halt)
	go func() {
		out, err := m.Run()
		// Running out of input is how most programs finish.
		if bl != nil && err != nil && !errors.Is(err, emo.InputExhausted) {
			bl.Emit()
		}
		done <- result{out, err}
	}()
	return m, halt
}

func (r *Runner) finish(m *emo.Machine, res result) {
	k := DoneState
	if res.err != nil {
		k = FaultState
	}
	if r.dev {
		if res.err != nil {
			log.Printf("run: %v (output %q)", res.err, res.out)
		} else {
			log.Printf("run: output %q", res.out)
		}
	}
	if r.state != nil {
		r.state(m, k, res.err)
	}
}

// trace returns the Machine's trace hook. It records each instruction in bl
// (if non-nil), logs it if tracing is enabled, and pauses at breakpoints
// until resumed or halted.
func (r *Runner) trace(bl *backlog, halt <-chan bool) emo.TraceFunc {
	return func(m *emo.Machine, op emo.Op) {
		if bl != nil {
			top, _ := m.Stack.Peek()
			bl.LazyPrintf("%4d %-5s %s depth %d top %d acc %v", m.PC, op, m.Prog[m.PC], m.Stack.Len(), top, m.Acc)
		}
		if r.cfg.Trace {
			log.Printf("%4d %-5s %s stack %v acc %v", m.PC, op, m.Prog[m.PC], m.Stack, m.Acc)
		}

		if r.state == nil {
			return
		}
		r.mu.Lock()
		pause := r.step || r.brk == m.PC
		r.paused = pause
		r.mu.Unlock()
		if !pause {
			return
		}
		r.state(m, BreakState, nil)
		select {
		case <-r.resume:
		case <-halt:
			r.mu.Lock()
			r.paused = false
			select {
			case <-r.resume:
			default:
			}
			r.mu.Unlock()
		}
		r.state(m, ClearState, nil)
	}
}
