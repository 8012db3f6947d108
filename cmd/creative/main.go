// cmd/creative/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appcfg "github.com/curaOS/Creative-Project/internal/infra/config"
	"github.com/curaOS/Creative-Project/internal/platform/di"
	"github.com/curaOS/Creative-Project/internal/platform/logging"
)

var (
	// Global flags
	envFile   string
	logLevel  string
	logFormat string

	cfg    *appcfg.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "creative",
	Short: "Generative-art NFT client: design, claim, and manage tokens",
	Long: `creative drives the mint flow of a generative-art NFT contract.

A design is assembled from the scripts published in the contract metadata,
rendered in headless Chrome, and captured as a JPEG preview. Claiming uploads
both artifacts to permanent storage and mints a token whose royalty split is
read from the contract at that moment.

Configuration comes from the environment (and ./.env when present).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		c, err := appcfg.Load(files...)
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.LogLevel = logLevel
		}
		if logFormat != "" {
			c.LogFormat = logFormat
		}

		l, err := logging.New(c.LogLevel, c.LogFormat)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load instead of ./.env")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error), overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console|json), overrides LOG_FORMAT")

	rootCmd.AddCommand(
		designCmd,
		claimCmd,
		tokensCmd,
		bidsCmd,
		burnCmd,
		acceptBidCmd,
		infoCmd,
		uploadCmd,
	)
}

// newContainer wires the full client with a console observer on stderr.
func newContainer(cmd *cobra.Command) (*di.Container, error) {
	return di.NewContainer(cmd.Context(), cfg, logger, newConsoleObserver(cmd.ErrOrStderr()))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
