package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/deepnoodle-ai/cefunge"
	"github.com/deepnoodle-ai/cefunge/errz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// exitUsage is the exit code for errors that are not a program status, such
// as bad flags or an invalid configuration.
const exitUsage = 64

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newApp(os.Stdin, os.Stdout, os.Stderr).execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	v      *viper.Viper
	root   *cobra.Command

	// terminal reports whether a stream is attached to a terminal.
	terminal func(v any) bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	a := &app{
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		v:        viper.New(),
		terminal: isTerminal,
	}
	a.root = a.newRootCmd()
	a.root.AddCommand(a.newRunCmd(), a.newDumpCmd(), a.newOpsCmd(), a.newVersionCmd())
	return a
}

func (a *app) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cefunge [file]",
		Short: "Run programs on a two-dimensional stack machine",
		Long: `cefunge runs Befunge-93 style programs. The program is read from a file,
from --code or from stdin, laid out on the playfield and executed until it
reaches the end opcode or halts. The exit code is the halt status.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:              cobra.MaximumNArgs(1),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
		RunE:              a.runProgram,
	}

	defaults := cefunge.DefaultConfig()
	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default is $HOME/.cefunge.yaml)")
	pf.Int("width", defaults.Width, "playfield width")
	pf.Int("height", defaults.Height, "playfield height")
	pf.Int("stack-capacity", defaults.StackCapacity, "operand stack capacity")
	pf.Int64("max-steps", 0, "halt with a timeout after this many steps (0 for no limit)")
	pf.Duration("timeout", 0, "halt with a timeout after this much time (0 for no limit)")
	pf.Int64("seed", 0, "seed for the random direction opcode (0 seeds from the clock)")
	pf.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	pf.StringP("output", "o", "text", "report format (text, json)")
	pf.Bool("no-color", false, "disable colored output")

	for key, flag := range map[string]string{
		"config":         "config",
		"width":          "width",
		"height":         "height",
		"stack_capacity": "stack-capacity",
		"max_steps":      "max-steps",
		"timeout":        "timeout",
		"seed":           "seed",
		"log_level":      "log-level",
		"output":         "output",
		"no_color":       "no-color",
	} {
		a.v.BindPFlag(key, pf.Lookup(flag))
	}
	a.v.SetEnvPrefix("cefunge")
	a.v.AutomaticEnv()
	a.v.BindEnv("no_color", "CEFUNGE_NO_COLOR", "NO_COLOR")

	cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})

	addRunFlags(cmd)
	return cmd
}

func (a *app) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a program (the default command)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runProgram,
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	addSourceFlags(cmd)
	f := cmd.Flags()
	f.Bool("dump", false, "print the playfield before running")
	f.Bool("raw", false, "read program input from single key presses")
	f.Bool("trace", false, "log every step at trace level")
	f.Bool("report", false, "print a run report to stderr")
}

func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("code", "c", "", "program text")
	f.Bool("stdin", false, "read the program from stdin")
}

// execute runs the command line and returns the process exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	a.root.SetArgs(args)
	a.root.SetIn(a.stdin)
	a.root.SetOut(a.stdout)
	a.root.SetErr(a.stderr)
	err := a.root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	a.printError(err)
	if status, ok := errz.StatusOf(err); ok {
		return status.Code()
	}
	return exitUsage
}

func (a *app) printError(err error) {
	formatter := errz.NewFormatter(a.useColor(a.stderr))
	var formattable errz.FormattableError
	if errors.As(err, &formattable) {
		err = formattable
	}
	fmt.Fprint(a.stderr, formatter.FormatError(err))
}
