package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppiankov/doubt/internal/model"
)

// Version is the release version, overridden at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "doubt",
	Short: "Doubt - recursive self-applied critique of text",
	Long: `Doubt analyzes a piece of text and produces doubts: critiques of its
truthfulness, completeness, assumptions, bias, logical consistency, evidence,
context, temporal validity and scope.

It then doubts its own doubts. Each generated question is analyzed again,
one level deeper, until a depth limit or a repeated text stops it: f(f(x)).

Doubt does not decide what is true. It only shows what could be questioned.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Doubt.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "doubt %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.doubt/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in .env, the config file and ENV variables
func initConfig() {
	_ = godotenv.Load()

	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".doubt"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match DOUBT_*, e.g. DOUBT_ENGINE_MAX_DEPTH
	viper.SetEnvPrefix("DOUBT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env variables can override it
func setDefaults(cfg *model.Config) {
	viper.SetDefault("engine.max_depth", cfg.Engine.MaxDepth)
	viper.SetDefault("engine.fan_out", cfg.Engine.FanOut)
	viper.SetDefault("engine.max_input_runes", cfg.Engine.MaxInputRunes)
	viper.SetDefault("engine.fingerprint_prefix", cfg.Engine.FingerprintPrefix)
	viper.SetDefault("engine.score_policy", cfg.Engine.ScorePolicy)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.ttl", cfg.Cache.TTL)
	viper.SetDefault("cache.cleanup_interval", cfg.Cache.CleanupInterval)
	viper.SetDefault("output.format", cfg.Output.Format)
	viper.SetDefault("output.verbose", cfg.Output.Verbose)
	viper.SetDefault("output.color", cfg.Output.Color)
	viper.SetDefault("output.limit", cfg.Output.Limit)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("log.level", cfg.Log.Level)
}

// loadConfig merges defaults, config file, env and flags into a validated
// config
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = model.DefaultConfig().Log.Level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a console logger on stderr
func newLogger(cfg *model.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
	}
	if cfg.Output.Verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// setup loads the config and logger shared by every analysis command
func setup() (*model.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
