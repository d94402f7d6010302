package cefunge

import (
	"io"
	"time"

	"github.com/deepnoodle-ai/cefunge/vm"
	"github.com/rs/zerolog"
)

// Option configures loading or running a program.
type Option func(*options)

type options struct {
	config   Config
	input    vm.Input
	output   io.Writer
	observer vm.Observer
	logger   *zerolog.Logger
	filename string
}

func collectOptions(opts ...Option) *options {
	o := &options{config: DefaultConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{
		vm.WithStackCapacity(o.config.StackCapacity),
		vm.WithMaxSteps(o.config.MaxSteps),
	}
	if o.config.Seed != 0 {
		opts = append(opts, vm.WithSeed(o.config.Seed))
	}
	if o.input != nil {
		opts = append(opts, vm.WithInput(o.input))
	}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.filename != "" {
		opts = append(opts, vm.WithFilename(o.filename))
	}
	return opts
}

// WithConfig replaces the whole configuration. Options that set a single
// field and come after it still apply.
func WithConfig(config Config) Option {
	return func(o *options) {
		o.config = config
	}
}

// WithWidth sets the playfield width.
func WithWidth(width int) Option {
	return func(o *options) {
		o.config.Width = width
	}
}

// WithHeight sets the playfield height.
func WithHeight(height int) Option {
	return func(o *options) {
		o.config.Height = height
	}
}

// WithStackCapacity sets the operand stack capacity.
func WithStackCapacity(capacity int) Option {
	return func(o *options) {
		o.config.StackCapacity = capacity
	}
}

// WithMaxSteps bounds the number of steps a run may take.
func WithMaxSteps(steps int64) Option {
	return func(o *options) {
		o.config.MaxSteps = steps
	}
}

// WithTimeout bounds the wall time a run may take.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.config.Timeout = timeout
	}
}

// WithSeed makes the random direction opcode reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.config.Seed = seed
	}
}

// WithInput sets the source of the input opcodes. By default the program
// sees end of input. Inputs are not safe for concurrent use; give each
// concurrent Run its own.
func WithInput(input vm.Input) Option {
	return func(o *options) {
		o.input = input
	}
}

// WithOutput sets the destination of the output opcodes. By default output
// is discarded.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithObserver sets an observer for VM execution events. An observer shared
// by concurrent runs must synchronize itself.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets the logger passed to the VM. Each run adds a run_id field.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithFilename names the program in load and halt errors.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}
