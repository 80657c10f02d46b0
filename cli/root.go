package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Deepayan-S/FoodScanner/app"
	"github.com/Deepayan-S/FoodScanner/config"
	"github.com/Deepayan-S/FoodScanner/debug"
	"github.com/Deepayan-S/FoodScanner/ui/view"
)

// LoggerFactory builds the process logger for a level.
type LoggerFactory func(level slog.Leveler) *slog.Logger

// env is the state shared by all subcommands of one invocation.
type env struct {
	configPath string
	logLevel   string
	jsonOutput bool

	newLogger LoggerFactory
	cfg       *config.Config
	logger    *slog.Logger
}

// exitError carries a process exit code without printing anything extra.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// NewRootCmd builds the command tree. newLogger may be nil.
func NewRootCmd(newLogger LoggerFactory) *cobra.Command {
	e := &env{newLogger: newLogger}
	root := &cobra.Command{
		Use:   "foodscanner",
		Short: "FoodScanner - barcode scanning with product lookup",
		Long: `FoodScanner reads retail barcodes from photos, screen regions, image
directories or IP camera snapshots and looks the product up in Open Food Facts.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.setup,
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (JSON or YAML); defaults to the XDG config dir")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&e.jsonOutput, "json", false, "output in JSON format")

	root.AddCommand(
		newScanCmd(e),
		newLiveCmd(e),
		newLookupCmd(e),
		newServeCmd(e),
		newConfigCmd(e),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute(newLogger LoggerFactory) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := NewRootCmd(newLogger).ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(os.Stderr, err.Error())
	return 1
}

func (e *env) setup(cmd *cobra.Command, _ []string) error {
	path := e.configPath
	if path == "" {
		if p, ok := config.FindDefault(); ok {
			path = p
		}
	}
	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		e.configPath = path
	}
	if e.logLevel != "" {
		cfg.LogLevel = e.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	e.cfg = cfg
	e.logger = e.buildLogger(cfg.LogLevel)
	if cfg.Debug {
		interval := time.Duration(cfg.DebugIntervalSeconds) * time.Second
		debug.StartGoroutineLogger(cmd.Context(), interval, e.logger)
		debug.StartMemLogger(cmd.Context(), interval, e.logger)
	}
	return nil
}

func (e *env) buildLogger(level string) *slog.Logger {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lv = slog.LevelInfo
	}
	if e.newLogger == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return e.newLogger(lv)
}

func (e *env) container() (*app.Container, error) {
	return app.BuildContainer(e.cfg, e.logger)
}

func (e *env) view(cmd *cobra.Command) *view.RootView {
	return view.NewRootView(cmd.OutOrStdout(), e.jsonOutput)
}
