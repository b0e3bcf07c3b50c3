package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/itsmostafa/regiontree/internal/config"
	"github.com/itsmostafa/regiontree/internal/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	cfg config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "regiontree",
	Short: "Outline #region markers in source files",
	Long: `regiontree scans documents for #region / #endregion markers, including the
/* #region */ and <!-- #region --> comment forms, and shows them as a tree.

Regions nest by the order of their markers. Unlabelled regions are named
"Region N" after their position among siblings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded

		level, _ := config.ParseLevel(cfg.LogLevel)
		log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("regiontree %s\n", version.String()))

	defaultConfig := config.DefaultPath
	if envConfig := os.Getenv("REGIONTREE_CONFIG"); envConfig != "" {
		defaultConfig = envConfig
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
