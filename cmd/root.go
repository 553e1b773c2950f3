// Package cmd wires the pathfinder command line.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/beka-birhanu/vinom-pathfinder/config"
	"github.com/beka-birhanu/vinom-pathfinder/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// app is the state shared by every subcommand once the root pre-run is done.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *logger.Logger
}

// NewRootCmd builds the command tree with its own configuration registry.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "pathfinder",
		Short:         "Generate mazes and watch a tree search agent walk them.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	flags.Int("rows", 10, "maze rows")
	flags.Int("cols", 10, "maze columns")
	flags.Int64("seed", 0, "maze seed, 0 picks one from the clock")
	flags.String("log-level", "info", "debug, info, warn or error")
	for key, name := range map[string]string{
		"rows":      "rows",
		"cols":      "cols",
		"seed":      "seed",
		"log_level": "log-level",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	rootCmd.AddCommand(newGenerateCmd(a), newSolveCmd(a), newServeCmd(a))
	return rootCmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initialize reads the optional config file, then the environment, then
// builds the application logger on stderr so stdout stays free for mazes.
func (a *app) initialize(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logger.NewWithOptions("APP", config.PrefixColor(config.ColorGreen), cmd.ErrOrStderr(), logger.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
	})
	if err != nil {
		return err
	}

	a.logger.Debug("Configuration loaded", zap.String("command", cmd.Name()), zap.String("version", Version))
	return nil
}

// componentLogger gives a subsystem its own prefix with the app's settings.
func (a *app) componentLogger(cmd *cobra.Command, prefix, color string) (*logger.Logger, error) {
	return logger.NewWithOptions(prefix, config.PrefixColor(color), cmd.ErrOrStderr(), logger.Options{
		Level: a.cfg.LogLevel,
		File:  a.cfg.LogFile,
	})
}
