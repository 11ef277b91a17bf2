package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pfrederiksen/exam-calendar/internal/config"
	"github.com/pfrederiksen/exam-calendar/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// flagKeys maps command-line flags to configuration keys. A flag only
// overrides the file and environment when it is set explicitly.
var flagKeys = map[string]string{
	"start-date":  "scrape.start_date",
	"end-date":    "scrape.end_date",
	"output":      "scrape.output",
	"delay":       "scrape.delay",
	"retries":     "scrape.retries",
	"listen":      "serve.listen",
	"data":        "serve.data_path",
	"refresh":     "serve.refresh",
	"cors-origin": "serve.cors_origins",
}

// rootOptions holds state shared by every subcommand
type rootOptions struct {
	configFile string
	verbose    bool

	cfg config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "examcal",
		Short: "Scrape and serve the UCR final exam calendar",
		Long: `examcal pages through the 25Live final exam calendar, normalizes every
exam into a JSON snapshot and serves that snapshot through a small read-only
HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./config.yaml or ~/.config/examcal/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newScrapeCmd(opts),
		newServeCmd(opts),
		newExportCmd(opts),
		newConfigCmd(opts),
	)

	return cmd
}

// init loads .env, configuration and the logger before any subcommand runs
func (o *rootOptions) init(cmd *cobra.Command) error {
	// .env is optional
	_ = godotenv.Load()

	v := config.NewViper()
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(key, f)
	})
	if bindErr != nil {
		return fmt.Errorf("binding flags: %w", bindErr)
	}

	cfg, err := config.Load(v, o.configFile)
	if err != nil {
		return err
	}
	o.cfg = cfg

	level := logger.ParseLevel(cfg.LogLevel)
	if o.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	logger.Debug("Configuration loaded", logger.Fields{
		"config_file": v.ConfigFileUsed(),
		"command":     cmd.Name(),
	})
	return nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
