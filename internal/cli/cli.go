// Package cli parses the command line into Options: the core flashing
// parameters main turns into an engine.Config, plus the ambient options (telemetry, reporting, verbosity, hardware reset
// lines) a deployable build needs beyond the core flashing flags. Uses
// a FlagSet rather than the flag package's global state, so tests can
// parse an explicit argv instead of os.Args.
package cli

import (
	"flag"
	"fmt"
	"time"

	"github.com/senilio/gcfflasher-go/internal/engine"
)

// maxDeadlineSeconds is the command line's "-t <seconds> ... (<=3600)" cap.
const maxDeadlineSeconds = 3600

// defaultBaudRate is the common default for these dongles' USB-serial adapters.
const defaultBaudRate = 115200

// Options is the fully parsed command line.
type Options struct {
	Task        engine.Task
	DevicePath  string
	FilePath    string // only set for TaskProgram
	MaxDuration time.Duration
	BaudRate    int

	ReportPath string
	RedisAddr  string
	RedisPass  string
	RedisDB    int
	Verbose    bool

	FTDIIndex  int
	RaspBeePin string
}

// Parse parses args (excluding the program name, as with flag.Parse on
// os.Args[1:]) into Options.
func Parse(args []string) (Options, error) {
	fs := flag.NewFlagSet("gcfflasher", flag.ContinueOnError)

	reset := fs.Bool("r", false, "reset the device into its bootloader and exit")
	file := fs.String("f", "", "program firmware image at `path`")
	devicePath := fs.String("d", "", "device `path`, e.g. /dev/ttyACM0")
	connect := fs.Bool("c", false, "connect and print periodic device status (debug)")
	deadline := fs.Int("t", 0, "overall deadline in seconds, <=3600 (default 10 for -f)")
	list := fs.Bool("l", false, "list connected devices and exit")
	help := fs.Bool("h", false, "show help")
	helpAlias := fs.Bool("?", false, "show help")
	baud := fs.Int("baud", defaultBaudRate, "serial baud rate")
	report := fs.String("report", "", "write a CBOR flash report to `path`")
	redisAddr := fs.String("redis-addr", "", "redis server `address` for fleet telemetry; empty disables telemetry")
	redisPass := fs.String("redis-pass", "", "redis password")
	redisDB := fs.Int("redis-db", 0, "redis database number")
	verbose := fs.Bool("v", false, "add microsecond precision to log timestamps")
	ftdiIndex := fs.Int("ftdi-index", 0, "index of the enumerated ftdi device used for bitbang reset")
	raspbeePin := fs.String("raspbee-pin", "", "gpio line `name` used for raspbee reset")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	if *help || *helpAlias {
		return Options{Task: engine.TaskHelp}, nil
	}

	if *deadline < 0 || *deadline > maxDeadlineSeconds {
		return Options{}, fmt.Errorf("cli: -t must be between 0 and %d seconds", maxDeadlineSeconds)
	}

	opts := Options{
		DevicePath: *devicePath,
		BaudRate:   *baud,
		ReportPath: *report,
		RedisAddr:  *redisAddr,
		RedisPass:  *redisPass,
		RedisDB:    *redisDB,
		Verbose:    *verbose,
		FTDIIndex:  *ftdiIndex,
		RaspBeePin: *raspbeePin,
	}
	if *deadline > 0 {
		opts.MaxDuration = time.Duration(*deadline) * time.Second
	}

	switch {
	case *list:
		opts.Task = engine.TaskList
		return opts, nil
	case *file != "":
		opts.Task = engine.TaskProgram
		opts.FilePath = *file
	case *reset:
		opts.Task = engine.TaskReset
	case *connect:
		opts.Task = engine.TaskConnect
	default:
		return Options{}, fmt.Errorf("cli: one of -r, -f, -c, -l or -h is required")
	}

	if opts.DevicePath == "" {
		return Options{}, fmt.Errorf("cli: -d <path> is required for this task")
	}
	return opts, nil
}

// Usage returns the help text printed for -h/-?/no-args.
func Usage() string {
	return `gcfflasher flashes firmware onto Zigbee coprocessor modules (ConBee/RaspBee).

Usage:
  gcfflasher -r -d <path>              reset the device into its bootloader
  gcfflasher -f <file> -d <path>       program firmware
  gcfflasher -c -d <path>              connect and print periodic status (debug)
  gcfflasher -l                        list connected devices
  gcfflasher -h | -?                   show this help

Flags:
  -t <seconds>       overall deadline, <=3600 (default 10s for -f)
  -baud <rate>       serial baud rate (default 115200)
  -report <path>     write a CBOR flash report after the run
  -redis-addr <addr> publish state transitions to Redis for fleet telemetry
  -redis-pass <pw>   redis password
  -redis-db <n>      redis database number
  -v                 microsecond log timestamps
  -ftdi-index <n>    ftdi device index used for bitbang reset
  -raspbee-pin <nm>  gpio line name used for raspbee reset
`
}
