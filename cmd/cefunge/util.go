package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
)

var outputFormatsCompletion = []string{"json", "text"}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (a *app) isTerminalIO() bool {
	return a.terminal(a.stdin) && a.terminal(a.stdout)
}

// writeOutputJSON writes v to w as indented JSON, colored when w is a
// terminal and color is enabled.
func (a *app) writeOutputJSON(w io.Writer, v any) error {
	var data []byte
	var err error
	if a.useColor(w) {
		f := prettyjson.NewFormatter()
		for _, c := range []*color.Color{f.KeyColor, f.StringColor, f.BoolColor, f.NumberColor, f.NullColor} {
			c.EnableColor()
		}
		data, err = f.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
