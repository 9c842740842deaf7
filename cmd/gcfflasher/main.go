// Command gcfflasher resets and programs Zigbee coprocessor modules
// (ConBee/RaspBee dongles) over a serial bootloader protocol.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/senilio/gcfflasher-go/internal/cli"
	"github.com/senilio/gcfflasher-go/internal/engine"
	"github.com/senilio/gcfflasher-go/internal/gcf"
	"github.com/senilio/gcfflasher-go/internal/platform"
	"github.com/senilio/gcfflasher-go/internal/report"
	"github.com/senilio/gcfflasher-go/internal/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, cli.Usage())
		return 2
	}
	if opts.Task == engine.TaskHelp {
		fmt.Print(cli.Usage())
		return 0
	}

	logFlags := log.Ldate | log.Ltime | log.Lmicroseconds
	if !opts.Verbose {
		logFlags = log.Ldate | log.Ltime
	}
	logger := log.New(os.Stderr, "", logFlags)
	logger.Printf("gcfflasher starting: task=%s device=%s", opts.Task, opts.DevicePath)

	var sink telemetry.Sink = telemetry.NoOp()
	if opts.RedisAddr != "" {
		logger.Printf("publishing telemetry to redis at %s", opts.RedisAddr)
		sink = telemetry.NewRedis(opts.RedisAddr, opts.RedisPass, opts.RedisDB, logger)
	}
	defer sink.Close()

	cfg := engine.Config{
		Task:        opts.Task,
		DevicePath:  opts.DevicePath,
		MaxDuration: opts.MaxDuration,
		BaudRate:    opts.BaudRate,
	}
	if cfg.Task == engine.TaskProgram {
		file, err := loadFirmware(opts.FilePath)
		if err != nil {
			logger.Printf("error: %v", err)
			return 1
		}
		cfg.File = file
		logger.Printf("loaded %s: fw_version=0x%08X payload=%d bytes", file.Filename, file.FWVersion, file.PayloadSize)
	}

	plat := platform.New(platform.Config{
		BaudRate:   opts.BaudRate,
		FTDIIndex:  opts.FTDIIndex,
		RaspBeePin: opts.RaspBeePin,
	}, logger)

	return runEngine(cfg, plat, sink, logger, opts)
}

// eventPlatform is the engine.Platform plus the event source main needs
// to wire up Run -- both *platform.Serial and *platform.Fake satisfy
// it, which is what lets cmd/gcfflasher's wiring be exercised with a
// fake platform in tests.
type eventPlatform interface {
	engine.Platform
	Events() <-chan engine.Event
}

// runEngine drives one engine run against plat to completion, handling
// interrupts and the optional report file. Split out of run so tests
// can substitute platform.Fake for the real serial platform.
func runEngine(cfg engine.Config, plat eventPlatform, sink telemetry.Sink, logger *log.Logger, opts cli.Options) int {
	eng := engine.New(plat, sink, logger, cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan error, 1)
	startedAt := time.Now()
	go func() { done <- eng.Run(plat.Events()) }()

	var runErr error
	select {
	case runErr = <-done:
	case <-sigCh:
		logger.Printf("interrupted, shutting down")
		plat.ShutDown(fmt.Errorf("gcfflasher: interrupted"))
		runErr = <-done
	}
	finishedAt := time.Now()

	if runErr != nil {
		logger.Printf("failed: %v", runErr)
	} else {
		logger.Printf("done")
	}

	if opts.ReportPath != "" {
		summary := eng.Summary()
		rpt := report.New(summary.DevicePath, summary.DeviceType, summary.Task.String(), startedAt, finishedAt, summary.Attempts, runErr)
		rpt.BootloaderVersion = summary.BootloaderVersion
		rpt.AppCRC = summary.AppCRC
		if cfg.File != nil {
			rpt.FWVersion = cfg.File.FWVersion
		}
		if err := report.WriteFile(opts.ReportPath, rpt); err != nil {
			logger.Printf("warning: failed to write report: %v", err)
		}
	}

	if runErr != nil {
		return 1
	}
	return 0
}

func loadFirmware(path string) (*gcf.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read firmware: %w", err)
	}
	file, err := gcf.Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse firmware: %w", err)
	}
	return file, nil
}
