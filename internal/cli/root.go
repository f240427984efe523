package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/logging"
	"github.com/ppiankov/scout/internal/model"
)

// Version is set at build time via -ldflags
var Version = "v0.3.0"

var (
	cfgFile   string
	verbose   bool
	logJSON   bool
	outFormat string

	cfg    *model.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Scout - people and corporate structure from account research",
	Long: `Scout turns free-text account research into structured data.

It finds the people mentioned in research findings, detects corporate
structure facts (parent company, subsidiaries, ownership, ticker,
headquarters, CEO, founding year), merges them across the findings a
reviewer accepts, and proposes new stakeholders and divisions for the
account.

Scout only suggests. Nothing is written to an account until you publish.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Output.Verbose = verbose
		}
		if cmd.Flags().Changed("format") {
			cfg.Output.Format = outFormat
		}

		logger, err = logging.New(logging.Options{Verbose: cfg.Output.Verbose, JSON: logJSON})
		if err != nil {
			return err
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scout %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.scout/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON lines")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "format", "o", "json", "output format (json, yaml)")

	rootCmd.AddCommand(versionCmd)
}

// initConfig points viper at the config file and SCOUT_* environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".scout"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}
}
