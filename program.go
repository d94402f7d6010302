package cefunge

import (
	"io"

	"github.com/deepnoodle-ai/cefunge/playfield"
)

// Program is a loaded playfield together with the options it was loaded
// with. It is never modified by a run, so it may be run any number of times
// and from multiple goroutines at once, provided that stateful collaborators
// (input, output and observer) are passed to each Run rather than to Load.
// Collaborators given to Load are shared by every run.
type Program struct {
	field *playfield.Playfield
	opts  []Option

	// Metadata
	source   string
	filename string
}

// Source returns the program text.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.filename
}

// Width returns the playfield width.
func (p *Program) Width() int {
	return p.field.Width()
}

// Height returns the playfield height.
func (p *Program) Height() int {
	return p.field.Height()
}

// Playfield returns a copy of the initial playfield.
func (p *Program) Playfield() *playfield.Playfield {
	return p.field.Clone()
}

// Render writes the initial playfield, framed by rows of decoration when it
// is not zero.
func (p *Program) Render(w io.Writer, decoration byte) error {
	return p.field.Render(w, decoration)
}
