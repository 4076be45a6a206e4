// Package cli provides the packsync command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/packsync/packsync/infrastructure/config"
	"github.com/packsync/packsync/infrastructure/logging"
	"github.com/packsync/packsync/xsoar"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "packsync",
		Short: "Reconcile and deploy XSOAR content packs",
		Long: `packsync keeps an XSOAR server's content packs in sync with the upstream
marketplace and a private artifact store. It reports installed packs that
have newer versions available and deploys pack bundles through the
platform's own upload mechanism.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Config{Level: app.logLevel})
			// Init only honors the first call per process; apply the flag
			// level explicitly for repeat invocations.
			logging.SetLevel(app.logLevel)
		},
	}

	app.root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "packsync.yaml", "Path to configuration file")
	app.root.PersistentFlags().StringVar(&app.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newStatusCmd(),
		app.newPacksCmd(),
		app.newPlaybookCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.root.ExecuteContext(ctx)
}

// loadConfig loads the configuration file, tolerating a missing default file
// so env-only setups work.
func (a *App) loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	cfg, err := loader.Load(a.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !a.root.PersistentFlags().Changed("config") {
			return &config.Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// buildClient assembles the platform client from configuration.
func (a *App) buildClient() (*xsoar.Client, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	provider, err := cfg.BuildProvider()
	if err != nil {
		return nil, err
	}
	return xsoar.New(xsoar.Config{
		ServerURL:          cfg.Server.URL,
		APIToken:           cfg.Server.APIToken,
		TenantAuthID:       cfg.Server.TenantAuthID,
		ServerVersion:      cfg.Server.Version,
		InsecureSkipVerify: cfg.Server.InsecureSkipVerify,
		CustomPackAuthors:  cfg.Server.CustomPackAuthors,
		Provider:           provider,
	})
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "packsync %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}
