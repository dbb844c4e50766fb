package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rv32mcu/emulator/config"
	"github.com/rv32mcu/emulator/emulator"
	"github.com/rv32mcu/emulator/internal/logx"
	"github.com/rv32mcu/emulator/loader"
	"github.com/rv32mcu/emulator/mcu"
	"github.com/rv32mcu/emulator/monitor"
	"github.com/rv32mcu/emulator/terminal"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		flashPath   = flag.String("flash", "", "Path to a raw flash image (or pass as the first argument)")
		dumpDir     = flag.String("dump-dir", "dumps", "Directory dump sentinels are written under")
		clockHz     = flag.Uint64("hz", 10_000_000, "Simulated clock rate in hertz")
		logLevel    = flag.String("log", "info", "Log level: error, info, debug, trace")
		configPath  = flag.String("config", "", "Path to a TOML config file overriding defaults")
		runMonitor  = flag.Bool("monitor", false, "Launch the live register/device monitor")
		maxCycles   = flag.Uint64("max-cycles", 0, "Stop after this many simulated cycles (0 = unbounded)")

		claimClears = flag.Bool("plic-claim-clears-before-handler", true,
			"PLIC.Claim clears the source's pending bit before the handler runs")
		mtvalSource = flag.Bool("mtval-external-source", true,
			"Load the PLIC-claimed source id into mtval on machine external interrupts")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rv32mcu %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	path := *flashPath
	if path == "" {
		path = flag.Arg(0)
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Usage: rv32mcu [flags] <flash-image>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadFrom(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags override config; config overrides built-in defaults.
	applyFlagOverrides(cfg, flashOverrides{
		clockHz:     clockHz,
		logLevel:    logLevel,
		dumpDir:     dumpDir,
		maxCycles:   maxCycles,
		claimClears: claimClears,
		mtvalSource: mtvalSource,
	})

	log := logx.New(os.Stderr, logx.ParseLevel(cfg.Diagnostics.LogLevel))
	log.Infof("starting rv32mcu, clock=%dHz dump-dir=%s", cfg.Execution.ClockHz, cfg.Diagnostics.DumpDir)

	host := terminal.NewStdin(os.Stdin, os.Stdout)
	m := mcu.NewMCU(host)
	m.Plic().ClaimClearsPendingBeforeHandler = cfg.Interrupts.PlicClaimClearsBeforeHandler
	m.ExternalInterruptLoadsMtval = cfg.Interrupts.ExternalInterruptLoadsMtval

	n, err := loader.LoadFlash(m, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading flash image: %v\n", err)
		os.Exit(1)
	}
	log.Infof("loaded %d bytes from %s", n, path)

	if *runMonitor {
		go func() {
			if err := monitor.Run(m, time.Second/time.Duration(cfg.Monitor.RefreshHz)); err != nil {
				log.Errorf("monitor exited: %v", err)
			}
		}()
	}

	e := emulator.New(m, cfg.Execution.ClockHz, cfg.Execution.MaxCycles, cfg.Diagnostics.DumpDir)
	if err := e.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error during execution: %v\n", err)
		os.Exit(1)
	}

	log.Infof("halted cleanly")
}

type flashOverrides struct {
	clockHz     *uint64
	logLevel    *string
	dumpDir     *string
	maxCycles   *uint64
	claimClears *bool
	mtvalSource *bool
}

// applyFlagOverrides copies any flag the user actually set on the command
// line into cfg, so an explicit flag always wins over a loaded config
// file, which in turn wins over DefaultConfig's built-in values.
func applyFlagOverrides(cfg *config.Config, f flashOverrides) {
	set := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["hz"] {
		cfg.Execution.ClockHz = *f.clockHz
	}
	if set["log"] {
		cfg.Diagnostics.LogLevel = *f.logLevel
	}
	if set["dump-dir"] {
		cfg.Diagnostics.DumpDir = *f.dumpDir
	}
	if set["max-cycles"] {
		cfg.Execution.MaxCycles = *f.maxCycles
	}
	if set["plic-claim-clears-before-handler"] {
		cfg.Interrupts.PlicClaimClearsBeforeHandler = *f.claimClears
	}
	if set["mtval-external-source"] {
		cfg.Interrupts.ExternalInterruptLoadsMtval = *f.mtvalSource
	}
}
