package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/emo/emo"
)

// devMode runs the program in file, and runs it again from scratch each
// time the file changes. If debug is set the terminal debugger is shown.
func devMode(cfg Config, debug bool, file string) error {
	file = filepath.Clean(file)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(file)); err != nil {
		return err
	}

	var (
		state  StateFunc
		d      *debugger
		runner *Runner
	)
	if debug {
		d = newDebugger()
		state = d.StateFunc
	}
	runner = NewRunner(cfg, true, state)
	if d != nil {
		d.run = runner
		log.SetPrefix("")
		log.SetOutput(d.log)
		go func() {
			if err := d.Run(); err != nil {
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("emo: ")
			runner.Debug("exit", 0)
		}()
	}

	progCh := make(chan emo.Program)
	go func() {
		started := false
		reload := time.After(1 * time.Millisecond)
		for {
			select {
			case <-reload:
				log.Printf("dev: load %s", filepath.Base(file))
				prog, err := loadProgram(file)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				if !started {
					log.Printf("dev: start")
					select {
					case progCh <- prog:
					case <-runner.Exited():
						return
					}
					started = true
				} else {
					log.Printf("dev: reset")
					runner.Swap(prog)
				}
			case ev, ok := <-watcher.Event:
				if !ok {
					return
				}
				if ev.Name == file && !ev.IsAttrib() {
					reload = time.After(100 * time.Millisecond)
				}
			case err, ok := <-watcher.Error:
				if !ok {
					return
				}
				log.Printf("dev: watcher: %v", err)
			}
		}
	}()
	out, err := runner.RunNext(progCh)
	if err != nil {
		return fmt.Errorf("dev: last run: %w", err)
	}
	if _, err := os.Stdout.Write(out); err != nil {
		return fmt.Errorf("dev: writing output: %w", err)
	}
	return nil
}
