package main

import (
	"github.com/deepnoodle-ai/cefunge/vm"
	"github.com/rs/zerolog"
)

// tracer logs every step at trace level.
type tracer struct {
	logger zerolog.Logger
}

func newTracer(logger zerolog.Logger) *tracer {
	return &tracer{logger: logger}
}

func (t *tracer) OnStep(event vm.StepEvent) {
	t.logger.Trace().
		Int64("step", event.Step).
		Stringer("pos", event.Position).
		Stringer("dir", event.Direction).
		Str("op", event.OpcodeName).
		Int("depth", event.StackDepth).
		Msg("step")
}

func (t *tracer) OnHalt(event vm.HaltEvent) {
	t.logger.Trace().
		Int64("steps", event.Steps).
		Stringer("pos", event.Position).
		Stringer("status", event.Status).
		Msg("halt")
}

var _ vm.Observer = (*tracer)(nil)
