package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scopekit/scopekit/internal/config"
	"github.com/scopekit/scopekit/internal/log"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "scopekit",
	Short:   "Identifier and registry toolkit for signal-viewer workbenches",
	Long:    `scopekit mints structured identifiers for widgets, observables, and properties, and tracks the bindings between them in an in-process registry.`,
	Version: version,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/scopekit/config.yml)")
	rootCmd.PersistentFlags().Bool("debug", false,
		"enable debug logging")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	defaults := config.DefaultConfig()
	viper.SetDefault("debug", defaults.Debug)
	viper.SetDefault("registry.event_buffer", defaults.Registry.EventBuffer)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	viper.SetEnvPrefix("SCOPEKIT")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .scopekit/config.yml (current directory)
		// 2. ~/.config/scopekit/config.yml (user config)
		if _, err := os.Stat(".scopekit/config.yml"); err == nil {
			viper.SetConfigFile(".scopekit/config.yml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "scopekit"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// Missing config file is fine, defaults apply
	_ = viper.ReadInConfig()
	_ = viper.Unmarshal(&cfg)

	if len(cfg.TypeCodes) == 0 {
		cfg.TypeCodes = config.DefaultTypeCodes()
	}

	if cfg.LogPath != "" {
		if _, err := log.Init(cfg.LogPath); err != nil {
			log.SetEnabled(false)
		}
	}
	if cfg.Debug {
		log.SetMinLevel(log.LevelDebug)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
