package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/canpack/canpack-go/cmd/canpack/interactive"
	"github.com/canpack/canpack-go/pkg/catalog"
	"github.com/canpack/canpack-go/pkg/checksum"
	"github.com/canpack/canpack-go/pkg/log"
	"github.com/canpack/canpack-go/pkg/metrics"
	"github.com/canpack/canpack-go/pkg/packer"
	"github.com/canpack/canpack-go/pkg/persistence"
	"github.com/canpack/canpack-go/pkg/registry"
)

// Config holds the settings shared by all commands.
type Config struct {
	Catalog          string
	LogLevel         string
	LogFile          string
	ProtocolLog      string
	ProtocolLogMaxMB int
	MetricsAddr      string
	PackerID         string
	State            string
}

// RegisterFlags binds the config to fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Catalog, "catalog", "", "Catalog file (.yaml, .yml or .toml)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&c.LogFile, "log-file", "", "Write logs to a size-rotated file instead of stderr")
	fs.StringVar(&c.ProtocolLog, "protocol-log", "", "Capture every packed frame to a CBOR file (.clog)")
	fs.IntVar(&c.ProtocolLogMaxMB, "protocol-log-max-mb", 0, "Rotate the capture file at this size in MB (0 disables)")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9102)")
	fs.StringVar(&c.PackerID, "packer-id", "", "Packer ID recorded in captures (random UUID if empty)")
	fs.StringVar(&c.State, "state", "", "Counter state file; counters resume from it and are saved on exit")
}

// App is a loaded catalog with its packer and ambient services.
type App struct {
	Logger   *slog.Logger
	Packer   *packer.Packer
	Registry *prometheus.Registry

	config  Config
	catalog string
	state   *persistence.CounterStateStore
	closers []io.Closer
}

// NewApp loads the catalog and wires logging, capture and metrics.
// Log output goes to logOut unless a log file is configured.
func NewApp(config Config, logOut io.Writer) (*App, error) {
	if config.Catalog == "" {
		return nil, errors.New("catalog file (-catalog) required")
	}

	app := &App{config: config}

	level, err := parseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	if config.LogFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   config.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
		}
		app.closers = append(app.closers, rotating)
		logOut = rotating
	}
	app.Logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	cat, err := catalog.Load(config.Catalog, checksum.Default())
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	reg, err := registry.New(cat)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to index catalog: %w", err)
	}
	app.Logger.Debug("catalog loaded", "path", config.Catalog, "name", cat.Name, "messages", reg.Len())

	protocolLogger, err := app.openProtocolLog()
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector())

	app.Packer = packer.New(reg, packer.Config{
		Logger:         app.Logger,
		ProtocolLogger: protocolLogger,
		Metrics:        metrics.New(app.Registry),
		ID:             config.PackerID,
	})
	app.catalog = cat.Name

	if err := app.restoreState(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) restoreState() error {
	if a.config.State == "" {
		return nil
	}
	store := persistence.NewCounterStateStore(a.config.State)

	saved, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load counter state: %w", err)
	}
	if saved == nil {
		a.state = store
		return nil
	}
	if saved.Catalog != a.catalog {
		a.Logger.Warn("counter state belongs to another catalog", "state_catalog", saved.Catalog, "catalog", a.catalog)
	}
	counters, err := saved.Addresses()
	if err != nil {
		return fmt.Errorf("failed to load counter state: %w", err)
	}
	restored := a.Packer.RestoreCounters(counters)
	a.state = store
	a.Logger.Debug("counter state restored", "path", a.config.State, "counters", restored)
	return nil
}

// SaveState writes the packer's counters to the state file, if configured.
func (a *App) SaveState() error {
	if a.state == nil || a.Packer == nil {
		return nil
	}
	if err := a.state.Save(persistence.NewCounterState(a.catalog, a.Packer.CounterSnapshot())); err != nil {
		return fmt.Errorf("failed to save counter state: %w", err)
	}
	return nil
}

func (a *App) openProtocolLog() (log.Logger, error) {
	if a.config.ProtocolLog == "" {
		return nil, nil
	}

	var (
		fileLogger *log.FileLogger
		err        error
	)
	if a.config.ProtocolLogMaxMB > 0 {
		fileLogger, err = log.NewRotatingFileLogger(log.RotateConfig{
			Path:       a.config.ProtocolLog,
			MaxSizeMB:  a.config.ProtocolLogMaxMB,
			MaxBackups: 5,
		})
	} else {
		fileLogger, err = log.NewFileLogger(a.config.ProtocolLog)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open protocol log: %w", err)
	}
	a.closers = append(a.closers, fileLogger)
	a.Logger.Info("protocol capture enabled", "path", a.config.ProtocolLog)

	if a.Logger.Enabled(context.Background(), slog.LevelDebug) {
		return log.NewMultiLogger(fileLogger, log.NewSlogAdapter(a.Logger)), nil
	}
	return fileLogger, nil
}

// List writes the catalog's messages, or the signals of ref, to w.
func (a *App) List(w io.Writer, ref string) error {
	if ref == "" {
		interactive.WriteMessages(w, a.Packer)
		return nil
	}
	address, err := a.Packer.ResolveMessage(ref)
	if err != nil {
		return err
	}
	msg, err := a.Packer.Registry().Message(address)
	if err != nil {
		return err
	}
	interactive.WriteSignals(w, msg)
	return nil
}

// Pack packs count frames of ref and writes each as one hex line.
func (a *App) Pack(w io.Writer, ref string, count int, assignments []string) error {
	if count < 1 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	address, err := a.Packer.ResolveMessage(ref)
	if err != nil {
		return err
	}
	values, err := packer.ParseSignalValues(assignments)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		frame, err := a.Packer.Pack(address, values)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, interactive.FormatFrame(frame))
	}
	return nil
}

// ServeMetrics starts the metrics endpoint in the background when an
// address is configured. The server stops when ctx is done.
func (a *App) ServeMetrics(ctx context.Context) error {
	if a.config.MetricsAddr == "" {
		return nil
	}

	ln, err := net.Listen("tcp", a.config.MetricsAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.MetricsAddr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("metrics server failed", "error", err)
		}
	}()

	a.Logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

// Close saves counter state and releases the capture and log files.
func (a *App) Close() error {
	var errs []error
	if err := a.SaveState(); err != nil {
		errs = append(errs, err)
	}
	a.state = nil
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}
