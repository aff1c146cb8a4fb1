// Package cli implements the reportctl command line tool.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mr1hm/go-disaster-reports/internal/config"
	"github.com/mr1hm/go-disaster-reports/internal/geo"
	"github.com/mr1hm/go-disaster-reports/internal/ingestion"
	"github.com/mr1hm/go-disaster-reports/internal/logging"
	"github.com/mr1hm/go-disaster-reports/internal/store"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "reportctl",
	Short: "Submit and search natural disaster reports from the terminal",
	Long: `reportctl works on an in-memory set of citizen disaster reports.

Reports are only accepted within 10 km of a central point. Everything is
kept in memory and lost when the command exits.

Configuration (highest to lowest priority):
  1. CLI flags
  2. Environment variables (REPORTCTL_*)
  3. Config file (~/.reportctl/config.yaml)
  4. Defaults`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(logging.New(os.Stderr, viper.GetString("log-level")))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "reportctl %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.reportctl/config.yaml)")
	flags.Float64("central-latitude", -23.5505, "latitude of the admission central point")
	flags.Float64("central-longitude", -46.6333, "longitude of the admission central point")
	flags.Int("max-reports", 1000, "maximum number of reports kept")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	for _, key := range []string{"central-latitude", "central-longitude", "max-reports", "log-level"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.reportctl")
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// REPORTCTL_CENTRAL_LATITUDE and friends
	viper.SetEnvPrefix("REPORTCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// newStore builds the in-memory store and a manager that admits into it.
func newStore() (*store.ReportStore, *ingestion.Manager, error) {
	central, err := geo.NewCoordinate(viper.GetFloat64("central-latitude"), viper.GetFloat64("central-longitude"))
	if err != nil {
		return nil, nil, fmt.Errorf("central point: %w", err)
	}
	st, err := store.New(central, viper.GetInt("max-reports"))
	if err != nil {
		return nil, nil, err
	}

	cfg := &config.Config{Worker: config.WorkerConfig{Count: 1, BufferSize: 1}}
	return st, ingestion.NewManager(cfg, st, nil, nil), nil
}

// preload submits every report of a YAML file, skipping rejected ones.
func preload(cmd *cobra.Command, mgr *ingestion.Manager, path string) error {
	subs, err := ingestion.LoadFile(path)
	if err != nil {
		return err
	}

	accepted := 0
	for i, sub := range subs {
		if _, err := mgr.Submit(cmd.Context(), sub); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: report %d rejected: %v\n", path, i+1, err)
			continue
		}
		accepted++
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d of %d reports loaded\n", path, accepted, len(subs))
	return nil
}
