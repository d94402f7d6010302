package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/cefunge"
	"github.com/deepnoodle-ai/cefunge/errz"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initConfig reads the config file, if any, and applies the global flags.
// An explicit --config must exist; the default file is optional.
func (a *app) initConfig(cmd *cobra.Command, args []string) error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil
		}
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".cefunge")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	processGlobalFlags(a.v)
	switch format := strings.ToLower(a.v.GetString("output")); format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	return nil
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags(v *viper.Viper) {
	if v.GetBool("no_color") {
		color.NoColor = true
	}
}

func (a *app) getConfig() (cefunge.Config, error) {
	cfg := cefunge.DefaultConfig()
	if err := a.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, cfg.Validate()
}

// getSource determines the program to run. There are three possibilities:
// --code, --stdin, or a path as args[0]. It returns the program text and
// the name used in error messages.
func (a *app) getSource(cmd *cobra.Command, args []string) (string, string, error) {
	var codeFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	var stdinFlagSet bool
	if f := cmd.Flags().Lookup("stdin"); f != nil && f.Changed {
		stdinFlagSet = true
	}
	pathSupplied := len(args) > 0
	// Error if multiple input sources are specified
	if pathSupplied && (codeFlagSet || stdinFlagSet) {
		return "", "", errors.New("multiple input sources specified")
	} else if codeFlagSet && stdinFlagSet {
		return "", "", errors.New("multiple input sources specified")
	}
	switch {
	case stdinFlagSet:
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", &errz.LoadError{Status: errz.OpenFailure, Path: "<stdin>", Row: -1, Cause: err}
		}
		return string(data), "<stdin>", nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", &errz.LoadError{Status: errz.OpenFailure, Path: args[0], Row: -1, Cause: err}
		}
		return string(data), args[0], nil
	case codeFlagSet:
		code, _ := cmd.Flags().GetString("code")
		return code, "", nil
	default:
		return "", "", errors.New("no program specified (pass a file, --code or --stdin)")
	}
}

func (a *app) newLogger(trace bool) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(a.v.GetString("log_level")))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	if trace {
		level = zerolog.TraceLevel
	}
	if level < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(level)
	}
	writer := zerolog.ConsoleWriter{
		Out:        a.stderr,
		NoColor:    !a.useColor(a.stderr),
		TimeFormat: "15:04:05.000",
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}

func (a *app) useColor(w any) bool {
	return !a.v.GetBool("no_color") && a.terminal(w)
}
