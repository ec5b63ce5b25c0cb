package main

import "log"

// backlog is a ring of the most recent trace messages, formatted only when
// they are emitted.
type backlog struct {
	entries []logEntry
	n       int
}

type logEntry struct {
	format string
	args   []any
}

const maxBacklog = 100

func (b *backlog) LazyPrintf(format string, args ...any) {
	if b.n < len(b.entries) {
		b.entries[b.n] = logEntry{format, args}
	} else {
		b.entries = append(b.entries, logEntry{format, args})
	}
	b.n = (b.n + 1) % maxBacklog
}

// Emit logs the retained messages, oldest first.
func (b *backlog) Emit() {
	b.each(func(e logEntry) { log.Printf(e.format, e.args...) })
}

func (b *backlog) each(fn func(logEntry)) {
	if len(b.entries) == 0 {
		return
	}
	for i := b.n; ; i++ {
		i %= len(b.entries)
		fn(b.entries[i])
		if (i+1)%maxBacklog == b.n {
			break
		}
	}
}

func (b *backlog) Reset() {
	b.entries = b.entries[:0]
	b.n = 0
}
