package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/cefunge"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *app) newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print the playfield a program loads into",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := a.getSource(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := a.getConfig()
			if err != nil {
				return err
			}
			prog, err := cefunge.Load(source, cefunge.WithConfig(cfg), cefunge.WithFilename(filename))
			if err != nil {
				return err
			}
			decoration, _ := cmd.Flags().GetString("decoration")
			return a.dumpPlayfield(prog, decoration)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().String("decoration", "-", "character framing the playfield (empty for none)")
	return cmd
}

// dumpPlayfield writes the playfield to stdout, framed above and below by
// rows of the decoration character. On a color terminal the frame is drawn
// here so it can be dimmed.
func (a *app) dumpPlayfield(prog *cefunge.Program, decoration string) error {
	if len(decoration) > 1 {
		return errors.New("decoration must be a single character")
	}
	var frame byte
	if decoration != "" {
		frame = decoration[0]
	}
	if frame == 0 || !a.useColor(a.stdout) {
		if err := prog.Render(a.stdout, frame); err != nil {
			return fmt.Errorf("writing playfield: %w", err)
		}
		return nil
	}

	dim := color.New(color.FgHiBlack)
	dim.EnableColor()
	row := strings.Repeat(decoration, prog.Width())
	fmt.Fprintln(a.stdout, dim.Sprint(row))
	if err := prog.Render(a.stdout, 0); err != nil {
		return fmt.Errorf("writing playfield: %w", err)
	}
	fmt.Fprintln(a.stdout, dim.Sprint(row))
	return nil
}
