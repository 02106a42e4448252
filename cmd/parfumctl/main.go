package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Skotchmaster/parfum_shop/internal/client"
	"github.com/Skotchmaster/parfum_shop/internal/config"
	"github.com/Skotchmaster/parfum_shop/internal/session"
	"github.com/Skotchmaster/parfum_shop/internal/tui"
)

var (
	serverURL  string
	configPath string
	logFile    string

	cfg    config.ClientConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "parfumctl",
	Short: "Terminal client for the perfume catalog",
	Long: `parfumctl browses and edits the perfume catalog served by the parfum server.

Run without arguments to open the interactive interface. Leave the login
empty to continue as a guest.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadClientConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("server") {
			cfg.Server = serverURL
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
		}

		zc := zap.NewProductionConfig()
		zc.OutputPaths = []string{cfg.LogFile}
		zc.ErrorOutputPaths = []string{cfg.LogFile}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logger.With(zap.String("server", cfg.Server))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := session.New(client.New(cfg.Server), logger)
		p := tea.NewProgram(tui.New(cmd.Context(), sess), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", config.DefaultServerURL, "catalog server base URL")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "parfumctl.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", config.DefaultClientLogFile, "file that receives client logs")

	rootCmd.AddCommand(productsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
