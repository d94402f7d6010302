package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/cefunge"
	"github.com/deepnoodle-ai/cefunge/vm"
	"github.com/spf13/cobra"
)

func (a *app) runProgram(cmd *cobra.Command, args []string) error {
	source, filename, err := a.getSource(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := a.getConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	trace, _ := flags.GetBool("trace")
	logger, err := a.newLogger(trace)
	if err != nil {
		return err
	}

	prog, err := cefunge.Load(source, cefunge.WithConfig(cfg), cefunge.WithFilename(filename))
	if err != nil {
		return err
	}
	if dump, _ := flags.GetBool("dump"); dump {
		if err := a.dumpPlayfield(prog, "-"); err != nil {
			return err
		}
	}

	out := bufio.NewWriter(a.stdout)
	input, err := a.newInput(cmd)
	if err != nil {
		return err
	}
	opts := []cefunge.Option{
		cefunge.WithInput(&flushingInput{Input: input, out: out}),
		cefunge.WithOutput(out),
		cefunge.WithLogger(logger),
	}
	if trace {
		opts = append(opts, cefunge.WithObserver(newTracer(logger)))
	}
	result, runErr := prog.Run(cmd.Context(), opts...)
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("writing output: %w", err)
	}
	if result != nil {
		report, _ := flags.GetBool("report")
		if report || strings.ToLower(a.v.GetString("output")) == "json" {
			if err := a.printReport(result, filename, runErr); err != nil {
				return err
			}
		}
	}
	return runErr
}

func (a *app) newInput(cmd *cobra.Command) (vm.Input, error) {
	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		if !a.isTerminalIO() {
			return nil, errors.New("--raw needs a terminal on stdin and stdout")
		}
		return newKeyboardInput(a.stdout), nil
	}
	if f := cmd.Flags().Lookup("stdin"); f != nil && f.Changed {
		// The program text used up stdin.
		return vm.EmptyInput, nil
	}
	return vm.NewReaderInput(a.stdin), nil
}

// flushingInput flushes pending program output before every read, so that
// prompts are visible before the program waits for input.
type flushingInput struct {
	vm.Input
	out *bufio.Writer
}

func (in *flushingInput) ReadInt() (int64, error) {
	in.out.Flush()
	return in.Input.ReadInt()
}

func (in *flushingInput) ReadChar() (int64, error) {
	in.out.Flush()
	return in.Input.ReadChar()
}

type runReport struct {
	RunID   string  `json:"run_id"`
	File    string  `json:"file,omitempty"`
	Status  string  `json:"status"`
	Code    int     `json:"code"`
	Steps   int64   `json:"steps"`
	Stack   []int64 `json:"stack"`
	Elapsed string  `json:"elapsed"`
	Error   string  `json:"error,omitempty"`
}

func newRunReport(result *cefunge.Result, filename string, err error) runReport {
	report := runReport{
		RunID:   result.RunID.String(),
		File:    filename,
		Status:  result.Status.String(),
		Code:    result.Code,
		Steps:   result.Steps,
		Stack:   result.Stack,
		Elapsed: result.Elapsed.String(),
	}
	if report.Stack == nil {
		report.Stack = []int64{}
	}
	if err != nil {
		report.Error = err.Error()
	}
	return report
}

// printReport writes the run summary to stderr, keeping stdout for the
// program's own output.
func (a *app) printReport(result *cefunge.Result, filename string, err error) error {
	report := newRunReport(result, filename, err)
	if strings.ToLower(a.v.GetString("output")) == "json" {
		return a.writeOutputJSON(a.stderr, report)
	}
	fmt.Fprintf(a.stderr, "status:  %s (%d)\n", report.Status, report.Code)
	fmt.Fprintf(a.stderr, "steps:   %d\n", report.Steps)
	fmt.Fprintf(a.stderr, "stack:   %v\n", report.Stack)
	fmt.Fprintf(a.stderr, "run id:  %s\n", report.RunID)
	fmt.Fprintf(a.stderr, "elapsed: %s\n", report.Elapsed)
	return nil
}
