// Package app wires configuration, logging and the subcommands of the
// numfront binary.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agbru/numfront/internal/api"
	"github.com/agbru/numfront/internal/config"
	apperrors "github.com/agbru/numfront/internal/errors"
	"github.com/agbru/numfront/internal/logging"
	"github.com/agbru/numfront/internal/tui"
	"github.com/agbru/numfront/internal/ui"
)

// Application represents the numfront application instance.
type Application struct {
	Config    config.AppConfig
	Out       io.Writer
	ErrWriter io.Writer

	exitCode int
}

// New creates an Application writing to out and errWriter.
func New(out, errWriter io.Writer) *Application {
	return &Application{Out: out, ErrWriter: errWriter}
}

// Run executes the command line args (without the program name) and returns
// the process exit code. SIGINT and SIGTERM cancel ctx.
func (a *Application) Run(ctx context.Context, args []string) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	a.exitCode = apperrors.ExitSuccess
	root := a.Command()
	root.SetArgs(args)
	root.SetOut(a.Out)
	root.SetErr(a.ErrWriter)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return exitCodeFor(err)
	}
	return a.exitCode
}

// exitCodeFor maps errors returned by command setup to exit codes.
func exitCodeFor(err error) int {
	var cfgErr apperrors.ConfigError
	var valErr apperrors.ValidationError
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return apperrors.ExitErrorConfig
	case apperrors.IsContextError(err):
		return apperrors.ExitErrorCanceled
	default:
		return apperrors.ExitErrorGeneric
	}
}

// Command builds the command tree. Running the root without a subcommand
// starts the TUI.
func (a *Application) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "numfront",
		Short:         "Number reverser and summation widgets",
		Long:          "numfront shows a reverser and a summation widget that post to /reverser and /summation through a development proxy.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          a.runTUI,
	}
	root.SetVersionTemplate("numfront {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.String(config.KeyConfig, "", "config file (default $HOME/.config/numfront/config.yaml)")
	pf.Bool(config.KeyDebug, false, "enable debug logging")
	pf.Bool(config.KeyNoColor, false, "disable colored output")

	addClientFlags := func(cmd *cobra.Command) {
		f := cmd.Flags()
		f.String(config.KeyOrigin, config.DefaultOrigin, "origin URL the widgets post to")
		f.Duration(config.KeyTimeout, config.DefaultTimeout, "per-request timeout")
	}
	addClientFlags(root)
	root.Flags().String(config.KeyLogFile, "", "write TUI logs to this file")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the two-widget terminal UI (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runTUI,
	}
	addClientFlags(tuiCmd)
	tuiCmd.Flags().String(config.KeyLogFile, "", "write TUI logs to this file")

	proxyCmd := &cobra.Command{
		Use:   "proxy",
		Short: "Forward /reverser and /summation to the backend",
		Args:  cobra.NoArgs,
		RunE:  a.runProxy,
	}
	proxyCmd.Flags().String(config.KeyListen, config.DefaultListen, "proxy listen address")
	proxyCmd.Flags().String(config.KeyTarget, config.DefaultTarget, "backend origin")

	backendCmd := &cobra.Command{
		Use:   "backend",
		Short: "Serve the reference reverser and summation endpoints",
		Args:  cobra.NoArgs,
		RunE:  a.runBackend,
	}
	backendCmd.Flags().String(config.KeyBackendListen, config.DefaultBackendListen, "backend listen address")

	devCmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the proxy and the reference backend together",
		Args:  cobra.NoArgs,
		RunE:  a.runDev,
	}
	devCmd.Flags().String(config.KeyListen, config.DefaultListen, "proxy listen address")
	devCmd.Flags().String(config.KeyTarget, config.DefaultTarget, "backend origin the proxy forwards to")
	devCmd.Flags().String(config.KeyBackendListen, config.DefaultBackendListen, "backend listen address")

	reverseCmd := a.submitCommand("reverse [N]", "Reverse the digits of N once", "Number to reverse", api.Reverser.Name)
	sumCmd := a.submitCommand("sum [N]", "Sum the digits of N once", "Number to sum", api.Summation.Name)
	addClientFlags(reverseCmd)
	addClientFlags(sumCmd)

	root.AddCommand(tuiCmd, proxyCmd, backendCmd, devCmd, reverseCmd, sumCmd)
	return root
}

// setup resolves configuration for cmd and applies the theme and log level.
func (a *Application) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	a.Config = cfg

	ui.InitTheme(cfg.NoColor)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return nil
}

// newClient builds the API client from the resolved configuration.
func (a *Application) newClient(logger logging.Logger) (*api.Client, error) {
	return api.NewClient(a.Config.Origin,
		api.WithTimeout(a.Config.Timeout),
		api.WithLogger(logger))
}

func (a *Application) runTUI(cmd *cobra.Command, _ []string) error {
	if err := a.setup(cmd); err != nil {
		return err
	}
	logger, closeLog, err := logging.NewFileLogger(a.Config.LogFile, "tui")
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	defer closeLog()

	client, err := a.newClient(logger)
	if err != nil {
		return err
	}
	a.exitCode = tui.Run(cmd.Context(), client, Version, logger)
	return nil
}
