package cefunge

import (
	"fmt"
	"time"

	"github.com/deepnoodle-ai/cefunge/playfield"
	"github.com/deepnoodle-ai/cefunge/vm"
	"github.com/hashicorp/go-multierror"
)

// Config holds the machine limits for loading and running a program. The
// mapstructure tags match the keys used by the command line configuration.
type Config struct {
	// Width and Height are the playfield dimensions. They apply when a
	// program is loaded.
	Width  int `mapstructure:"width" json:"width"`
	Height int `mapstructure:"height" json:"height"`

	// StackCapacity bounds the operand stack. A run halts with a stack
	// overflow once the stack holds StackCapacity-1 values.
	StackCapacity int `mapstructure:"stack_capacity" json:"stack_capacity"`

	// MaxSteps halts a run with a timeout after this many steps. Zero means
	// no limit.
	MaxSteps int64 `mapstructure:"max_steps" json:"max_steps"`

	// Timeout halts a run with a timeout after this much wall time. Zero
	// means no limit.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`

	// Seed seeds the random direction opcode. Zero seeds from the clock.
	Seed int64 `mapstructure:"seed" json:"seed"`
}

// DefaultConfig returns an 80x25 playfield with a 1024 value stack and no
// run limits.
func DefaultConfig() Config {
	return Config{
		Width:         playfield.DefaultWidth,
		Height:        playfield.DefaultHeight,
		StackCapacity: vm.DefaultStackCapacity,
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Width <= 0 {
		result = multierror.Append(result, fmt.Errorf("width must be positive (got %d)", c.Width))
	}
	if c.Height <= 0 {
		result = multierror.Append(result, fmt.Errorf("height must be positive (got %d)", c.Height))
	}
	if c.StackCapacity < vm.MinStackCapacity {
		result = multierror.Append(result, fmt.Errorf("stack capacity must be at least %d (got %d)",
			vm.MinStackCapacity, c.StackCapacity))
	}
	if c.MaxSteps < 0 {
		result = multierror.Append(result, fmt.Errorf("max steps must not be negative (got %d)", c.MaxSteps))
	}
	if c.Timeout < 0 {
		result = multierror.Append(result, fmt.Errorf("timeout must not be negative (got %s)", c.Timeout))
	}
	return result.ErrorOrNil()
}
