package vm

import (
	"context"

	"github.com/deepnoodle-ai/cefunge/errz"
	"github.com/deepnoodle-ai/cefunge/playfield"
)

// Run executes the given playfield in a new Virtual Machine and returns the
// terminal status. The error is nil on success and an *errz.HaltError
// otherwise.
func Run(ctx context.Context, field *playfield.Playfield, options ...Option) (errz.Status, error) {
	machine, err := New(field, options...)
	if err != nil {
		return errz.Continue, err
	}
	status := machine.Run(ctx)
	return status, machine.Err()
}

// RunSource loads source into a playfield of the default size and runs it.
func RunSource(ctx context.Context, source string, options ...Option) (errz.Status, error) {
	field, err := playfield.New(playfield.DefaultWidth, playfield.DefaultHeight)
	if err != nil {
		return errz.Continue, err
	}
	if err := field.LoadString(source); err != nil {
		if status, ok := errz.StatusOf(err); ok {
			return status, err
		}
		return errz.Continue, err
	}
	return Run(ctx, field, options...)
}
