// Package cefunge loads and runs programs written for a two-dimensional
// stack machine in the Befunge-93 family.
//
// A program is loaded once and can then be run many times:
//
//	prog, err := cefunge.Load(`"!iH",,,@`)
//	if err != nil {
//		return err
//	}
//	result, err := prog.Run(ctx, cefunge.WithOutput(os.Stdout))
//
// Load errors are *errz.LoadError values and run failures are
// *errz.HaltError values.
package cefunge

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/deepnoodle-ai/cefunge/errz"
	"github.com/deepnoodle-ai/cefunge/playfield"
	"github.com/deepnoodle-ai/cefunge/vm"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

// Result summarizes one run of a program.
type Result struct {
	RunID   uuid.UUID     `json:"run_id"`
	Status  errz.Status   `json:"status"`
	Code    int           `json:"code"`
	Steps   int64         `json:"steps"`
	Stack   []int64       `json:"stack"`
	Elapsed time.Duration `json:"elapsed"`
}

// Succeeded reports whether the program reached the end opcode.
func (r *Result) Succeeded() bool {
	return r.Status == errz.Success
}

// Load places source on a new playfield sized by the configuration. The
// options are kept and apply to every run of the program, before any
// options passed to Run.
func Load(source string, opts ...Option) (*Program, error) {
	o := collectOptions(opts...)
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	field, err := playfield.New(o.config.Width, o.config.Height)
	if err != nil {
		return nil, err
	}
	if err := field.LoadString(source); err != nil {
		return nil, withPath(err, o.filename)
	}
	return &Program{
		field:    field,
		opts:     opts,
		source:   source,
		filename: o.filename,
	}, nil
}

// LoadReader reads the whole of r and loads it. See Load.
func LoadReader(r io.Reader, opts ...Option) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		o := collectOptions(opts...)
		return nil, &errz.LoadError{Status: errz.OpenFailure, Path: o.filename, Row: -1, Cause: err}
	}
	return Load(string(data), opts...)
}

// LoadFile loads the program stored at path. The path is used as the
// filename unless WithFilename says otherwise.
func LoadFile(path string, opts ...Option) (*Program, error) {
	opts = append([]Option{WithFilename(path)}, opts...)
	f, err := os.Open(path)
	if err != nil {
		return nil, &errz.LoadError{Status: errz.OpenFailure, Path: path, Row: -1, Cause: err}
	}
	defer f.Close()
	return LoadReader(f, opts...)
}

func withPath(err error, path string) error {
	var loadErr *errz.LoadError
	if path != "" && errors.As(err, &loadErr) && loadErr.Path == "" {
		loadErr.Path = path
	}
	return err
}

// Run executes a fresh copy of the program's playfield. Options given here
// are applied after the ones given to Load; Width and Height are ignored
// because the playfield already exists.
//
// The Result is always returned once the run has started. The error is nil
// when the program reaches the end opcode and an *errz.HaltError otherwise.
func (p *Program) Run(ctx context.Context, opts ...Option) (*Result, error) {
	o := collectOptions(append(append([]Option{}, p.opts...), opts...)...)
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	runID := uuid.Must(uuid.NewV4())
	logger := zerolog.Nop()
	if o.logger != nil {
		logger = o.logger.With().Str("run_id", runID.String()).Logger()
	}
	if o.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		defer cancel()
	}

	machine, err := vm.New(p.field.Clone(), append(o.vmOpts(), vm.WithLogger(logger))...)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	status := machine.Run(ctx)
	return &Result{
		RunID:   runID,
		Status:  status,
		Code:    status.Code(),
		Steps:   machine.Steps(),
		Stack:   machine.Stack().Values(),
		Elapsed: time.Since(start),
	}, machine.Err()
}

// Eval is a convenience function that loads and runs source.
func Eval(ctx context.Context, source string, opts ...Option) (*Result, error) {
	prog, err := Load(source, opts...)
	if err != nil {
		return nil, err
	}
	return prog.Run(ctx)
}
