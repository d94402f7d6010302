package vm

import (
	"io"
	"math/rand"

	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithStackCapacity sets the operand stack capacity. The run halts with a
// stack overflow once the stack holds capacity-1 values.
func WithStackCapacity(capacity int) Option {
	return func(vm *VirtualMachine) {
		vm.stackCapacity = capacity
	}
}

// WithInput sets the source for the input opcodes and for division by zero.
// The default is EmptyInput.
func WithInput(input Input) Option {
	return func(vm *VirtualMachine) {
		vm.input = input
	}
}

// WithOutput sets the destination of the output opcodes. The default
// discards output.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.output = w
	}
}

// WithRand sets the random source used by the random direction opcode.
func WithRand(rng *rand.Rand) Option {
	return func(vm *VirtualMachine) {
		vm.rng = rng
	}
}

// WithSeed seeds the random direction opcode, making runs reproducible.
func WithSeed(seed int64) Option {
	return func(vm *VirtualMachine) {
		vm.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// WithMaxSteps bounds the number of steps Run may execute. Exceeding the
// budget halts with errz.Timeout. Zero means no limit.
func WithMaxSteps(steps int64) Option {
	return func(vm *VirtualMachine) {
		vm.maxSteps = steps
	}
}

// WithContextCheckInterval sets how often Run checks ctx.Done(), in steps.
// A value of 0 disables the check. The default is
// DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithFilename names the program in halt diagnostics.
func WithFilename(filename string) Option {
	return func(vm *VirtualMachine) {
		vm.filename = filename
	}
}
