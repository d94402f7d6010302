package errz

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats errors with colors.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool

	errorBold *color.Color
	errorText *color.Color
	code      *color.Color
	location  *color.Color
	pipe      *color.Color
	caret     *color.Color
	hint      *color.Color
	note      *color.Color
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	f := &Formatter{
		UseColor:  useColor,
		errorBold: color.New(color.FgHiRed, color.Bold),
		errorText: color.New(color.FgRed),
		code:      color.New(color.FgHiBlack),
		location:  color.New(color.FgCyan),
		pipe:      color.New(color.FgHiBlack),
		caret:     color.New(color.FgHiRed),
		hint:      color.New(color.FgHiYellow),
		note:      color.New(color.FgHiBlue),
	}
	for _, c := range []*color.Color{f.errorBold, f.errorText, f.code, f.location, f.pipe, f.caret, f.hint, f.note} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// FormattedError represents an error ready for display.
type FormattedError struct {
	Code        int
	Kind        string
	Message     string
	Filename    string
	Line        int // 1-based playfield row
	Column      int // 1-based playfield column
	SourceLines []SourceLineEntry
	Hint        string
	Note        string
}

// SourceLineEntry represents a playfield row with its 1-based number.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool
}

// Format formats the error as a string.
func (f *Formatter) Format(err *FormattedError) string {
	var b strings.Builder

	lineNumWidth := 2
	for _, line := range err.SourceLines {
		if w := len(fmt.Sprintf("%d", line.Number)); w > lineNumWidth {
			lineNumWidth = w
		}
	}

	// Header: "runtime error[1]: stack overflow"
	label := "error"
	if err.Kind != "" {
		label = err.Kind
	}
	b.WriteString(f.errorBold.Sprint(label))
	b.WriteString(f.code.Sprintf("[%d]", err.Code))
	b.WriteString(f.errorText.Sprint(": "))
	b.WriteString(err.Message)
	b.WriteString("\n")

	f.writeLocation(&b, err, lineNumWidth)
	f.writeSource(&b, err, lineNumWidth)
	if err.Hint != "" {
		f.writeAnnotation(&b, f.hint, "hint: ", err.Hint, lineNumWidth)
	}
	if err.Note != "" {
		f.writeAnnotation(&b, f.note, "note: ", err.Note, lineNumWidth)
	}
	return b.String()
}

// FormatError formats any error, using the structured layout when the error
// supports it.
func (f *Formatter) FormatError(err error) string {
	if formattable, ok := err.(FormattableError); ok {
		return f.Format(formattable.ToFormatted())
	}
	return f.errorBold.Sprint("error") + f.errorText.Sprint(": ") + err.Error() + "\n"
}

func (f *Formatter) writeLocation(b *strings.Builder, err *FormattedError, lineNumWidth int) {
	if err.Line == 0 && err.Filename == "" {
		return
	}
	loc := err.Filename
	if err.Line > 0 {
		pos := fmt.Sprintf("%d:%d", err.Line, err.Column)
		if loc != "" {
			loc += ":" + pos
		} else {
			loc = pos
		}
	}
	b.WriteString(strings.Repeat(" ", lineNumWidth))
	b.WriteString(f.location.Sprint("-->"))
	b.WriteString(" ")
	b.WriteString(f.location.Sprint(loc))
	b.WriteString("\n")
}

func (f *Formatter) writeSource(b *strings.Builder, err *FormattedError, lineNumWidth int) {
	if len(err.SourceLines) == 0 {
		return
	}
	padding := strings.Repeat(" ", lineNumWidth)
	b.WriteString(padding)
	b.WriteString(f.pipe.Sprint(" |"))
	b.WriteString("\n")
	for _, line := range err.SourceLines {
		b.WriteString(f.pipe.Sprintf("%*d | ", lineNumWidth, line.Number))
		b.WriteString(printable(line.Text))
		b.WriteString("\n")
		if line.IsMain && err.Column > 0 {
			b.WriteString(padding)
			b.WriteString(f.pipe.Sprint(" | "))
			b.WriteString(strings.Repeat(" ", err.Column-1))
			b.WriteString(f.caret.Sprint("^"))
			b.WriteString("\n")
		}
	}
}

func (f *Formatter) writeAnnotation(b *strings.Builder, c *color.Color, label, text string, lineNumWidth int) {
	b.WriteString(strings.Repeat(" ", lineNumWidth))
	b.WriteString(f.pipe.Sprint(" = "))
	b.WriteString(c.Sprint(label))
	b.WriteString(text)
	b.WriteString("\n")
}

// printable replaces control bytes so that a row keeps its column alignment
// on a terminal.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '.'
		}
		return r
	}, s)
}
