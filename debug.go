package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/emo/emo"
)

type debugger struct {
	run *Runner

	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	mu      sync.Mutex
	brk     int
	watches []int
}

var debugCommands = []string{"break", "step", "cont", "watch", "reset", "exit"}

func newDebugger() *debugger {
	d := &debugger{
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
		brk: -1,
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 4, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if t == "" || strings.Contains(t, " ") {
			return nil
		}
		for _, c := range debugCommands {
			if strings.HasPrefix(c, t) {
				entries = append(entries, c)
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := d.input.GetText()
		if cmd == "" {
			return
		}
		d.input.SetText("")
		d.command(cmd)
	})
	return d
}

// command interprets one line typed into the debugger.
// The runner is driven from a new goroutine as it may block until the
// machine, which draws through the application, has stopped.
func (d *debugger) command(line string) {
	cmd, arg, hasArg := strings.Cut(strings.TrimSpace(line), " ")
	switch cmd {
	case "exit", "q":
		d.app.Stop()
	case "b", "break":
		pc := -1
		if hasArg {
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil || n < 0 {
				log.Printf("invalid pc %q", arg)
				return
			}
			pc = n
		}
		d.mu.Lock()
		d.brk = pc
		d.mu.Unlock()
		go d.run.Debug("break", pc)
		if pc < 0 {
			log.Print("cleared break")
		} else {
			log.Printf("set break %d", pc)
		}
	case "s", "step":
		go d.run.Debug("step", 0)
	case "c", "cont":
		go d.run.Debug("cont", 0)
	case "r", "reset":
		log.Print("reset")
		go d.run.Debug("reset", 0)
	case "w", "watch":
		addr, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || addr < 0 || addr >= emo.MemSize {
			log.Printf("invalid address %q", arg)
			return
		}
		d.mu.Lock()
		d.watches = append(d.watches, addr)
		d.mu.Unlock()
		log.Printf("watching mem[%d]", addr)
	default:
		log.Printf("unknown command %q (try %s)", cmd, strings.Join(debugCommands, ", "))
	}
}

func (d *debugger) Run() error { return d.app.Run() }

func (d *debugger) StateFunc(m *emo.Machine, k StateKind, err error) {
	var (
		watch = d.watchContent(m)
		state string
	)
	if k != ClearState {
		state = stateMsg(m, k, err)
	}
	d.app.QueueUpdateDraw(func() {
		switch k {
		case ClearState, DoneState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case BreakState:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case FaultState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.watch.SetText(watch)
		if k != ClearState {
			d.state.SetText(state)
		}
	})
}

func stateMsg(m *emo.Machine, k StateKind, err error) string {
	var (
		op    string
		glyph emo.Glyph
	)
	if m.PC >= 0 && m.PC < len(m.Prog) {
		glyph = m.Prog[m.PC]
		op = glyph.Op().String()
	}
	kind := "       "
	switch k {
	case BreakState:
		kind = "[break]"
	case DoneState:
		kind = "[done!]"
	case FaultState:
		kind = "[FAULT]"
	}
	msg := fmt.Sprintf("%4d %-5s %s %s acc %v steps %d\nstack: %v\nout: %q\n",
		m.PC, op, glyph, kind, m.Acc, m.Steps(), m.Stack, m.Output())
	if err != nil {
		msg += err.Error() + "\n"
	}
	return msg
}

func (d *debugger) watchContent(m *emo.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if d.brk >= 0 {
		fmt.Fprintf(&b, "[%d] brk!\n", d.brk)
	}
	for i, v := range m.Reg {
		fmt.Fprintf(&b, "R%-2d %6d\n", i, v)
	}
	for _, addr := range d.watches {
		fmt.Fprintf(&b, "\nmem[%d] %6d", addr, m.Mem[addr])
	}
	return b.String()
}
