// Command emo executes programs written for the emo CPU.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/nf/emo/emo"
)

func main() {
	log.SetPrefix("emo: ")
	log.SetFlags(0)

	var (
		configFlag   = flag.String("config", "", "read settings from TOML `file`")
		inputFlag    = flag.String("input", "", "comma separated input `bytes` (default: the seed input)")
		maxStepsFlag = flag.Int("max_steps", -1, "stop after `n` steps (0 for no limit)")
		traceFlag    = flag.Bool("trace", false, "log each instruction as it executes")
		devFlag      = flag.Bool("dev", false, "enable developer mode (re-run the program when it changes)")
		debugFlag    = flag.Bool("debug", false, "enable debugger (implies -dev)")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.emo>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		log.Fatal(err)
	}
	if *inputFlag != "" {
		if cfg.Input, err = parseInput(*inputFlag); err != nil {
			log.Fatal(err)
		}
	}
	if *maxStepsFlag >= 0 {
		cfg.MaxSteps = *maxStepsFlag
	}
	if *traceFlag {
		cfg.Trace = true
	}

	if *devFlag || *debugFlag {
		if err := devMode(cfg, *debugFlag, flag.Arg(0)); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err = run(os.Stdout, cfg, flag.Arg(0))

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

// run executes the program in file and writes its output to w.
// Output produced before a fault is still written.
func run(w io.Writer, cfg Config, file string) error {
	prog, err := loadProgram(file)
	if err != nil {
		return err
	}
	out, runErr := NewRunner(cfg, false, nil).Run(prog)
	if _, err := w.Write(out); err != nil {
		return err
	}
	return runErr
}

func loadProgram(file string) (emo.Program, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return emo.Parse(string(src)), nil
}
