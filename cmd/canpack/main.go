// Command canpack packs message frames from a signal catalog.
//
// Usage:
//
//	canpack <command> [flags] [args]
//
// Commands:
//
//	list     List the messages of a catalog, or the signals of one message
//	pack     Pack one or more frames and print them as hex
//	repl     Start an interactive packing shell
//
// Common flags:
//
//	-catalog string        Catalog file (.yaml, .yml or .toml)
//	-log-level string      Log level: debug, info, warn, error (default "info")
//	-log-file string       Write logs to a size-rotated file instead of stderr
//	-protocol-log string   Capture every packed frame to a CBOR file (.clog)
//	-protocol-log-max-mb   Rotate the capture file at this size (0 disables)
//	-metrics-addr string   Serve Prometheus metrics on this address
//	-state string          Resume rolling counters from this file and save them on exit
//
// Examples:
//
//	# List messages
//	canpack list -catalog vehicle.yaml
//
//	# Pack one frame
//	canpack pack -catalog vehicle.yaml STEERING_CONTROL STEER_TORQUE_CMD=120 STEER_REQUEST=1
//
//	# Pack four frames to watch the rolling counter, capturing them
//	canpack pack -catalog vehicle.yaml -count 4 -protocol-log bench.clog 0xE4
//
//	# Interactive shell with metrics
//	canpack repl -catalog vehicle.yaml -metrics-addr :9102
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/canpack/canpack-go/cmd/canpack/interactive"
)

const usage = `canpack - message frame packer

Usage:
  canpack <command> [flags] [args]

Commands:
  list     List the messages of a catalog, or the signals of one message
  pack     Pack one or more frames and print them as hex
  repl     Start an interactive packing shell

Use "canpack <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "list":
		err = runList(args)
	case "pack":
		err = runPack(args)
	case "repl":
		err = runRepl(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newFlagSet(name, synopsis string, config *Config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "canpack %s\n\nUsage:\n  %s\n\nFlags:\n", name, synopsis)
		fs.PrintDefaults()
	}
	config.RegisterFlags(fs)
	return fs
}

func runList(args []string) error {
	var config Config
	fs := newFlagSet("list", "canpack list -catalog <file> [message]", &config)
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, err := NewApp(config, os.Stderr)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.List(os.Stdout, fs.Arg(0))
}

func runPack(args []string) error {
	var config Config
	fs := newFlagSet("pack", "canpack pack -catalog <file> [-count n] <message> [NAME=VALUE ...]", &config)
	count := fs.Int("count", 1, "Number of frames to pack")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("message name or address required")
	}

	app, err := NewApp(config, os.Stderr)
	if err != nil {
		return err
	}

	err = app.Pack(os.Stdout, fs.Arg(0), *count, fs.Args()[1:])
	return errors.Join(err, app.Close())
}

func runRepl(args []string) error {
	var config Config
	fs := newFlagSet("repl", "canpack repl -catalog <file>", &config)
	history := fs.String("history", "", "Readline history file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	// Logs share the terminal with the prompt unless they go to a file.
	var logOut io.Writer = os.Stderr
	shellOut := &switchWriter{w: os.Stderr}
	if config.LogFile == "" {
		logOut = shellOut
	}

	app, err := NewApp(config, logOut)
	if err != nil {
		return err
	}

	if err := app.ServeMetrics(ctx); err != nil {
		return errors.Join(err, app.Close())
	}

	shell := interactive.New(app.Packer, os.Stdout)
	shellOut.set(shell)

	app.Logger.Info("repl started", "catalog", config.Catalog, "packer_id", app.Packer.ID())
	err = shell.Run(ctx, *history)
	shellOut.set(nil)
	return errors.Join(err, app.Close())
}

// switchWriter forwards to the shell's readline-aware writer once the shell
// exists.
type switchWriter struct {
	w     io.Writer
	shell *interactive.Shell
}

func (s *switchWriter) set(shell *interactive.Shell) { s.shell = shell }

func (s *switchWriter) Write(p []byte) (int, error) {
	if s.shell != nil {
		return s.shell.Stdout().Write(p)
	}
	return s.w.Write(p)
}
