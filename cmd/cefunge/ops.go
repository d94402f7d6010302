package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/deepnoodle-ai/cefunge/errz"
	"github.com/deepnoodle-ai/cefunge/op"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type opcodeDoc struct {
	Opcode  string `json:"opcode"`
	Byte    int    `json:"byte"`
	Name    string `json:"name"`
	Pops    int    `json:"pops"`
	Pushes  int    `json:"pushes"`
	Summary string `json:"summary"`
}

func (a *app) newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ops [name|char...]",
		Aliases: []string{"opcodes"},
		Short:   "List the instruction set",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := selectOpcodes(args)
			if err != nil {
				return err
			}
			var docs []opcodeDoc
			for _, info := range infos {
				docs = append(docs, opcodeDoc{
					Opcode:  info.Code.String(),
					Byte:    int(info.Code),
					Name:    info.Name,
					Pops:    info.Pops,
					Pushes:  info.Pushes,
					Summary: info.Summary,
				})
			}
			if strings.ToLower(a.v.GetString("output")) == "json" {
				return a.writeOutputJSON(a.stdout, docs)
			}

			name := color.New(color.FgCyan, color.Bold)
			if a.useColor(a.stdout) {
				name.EnableColor()
			} else {
				name.DisableColor()
			}
			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OP\tNAME\tPOPS\tPUSHES\tEFFECT")
			for _, doc := range docs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
					doc.Opcode, name.Sprint(doc.Name), doc.Pops, doc.Pushes, doc.Summary)
			}
			return w.Flush()
		},
	}
}

func selectOpcodes(args []string) ([]op.Info, error) {
	if len(args) == 0 {
		return op.All(), nil
	}
	var infos []op.Info
	for _, arg := range args {
		info, ok := op.Lookup(arg)
		if !ok {
			msg := fmt.Sprintf("unknown opcode: %s", arg)
			if hint := errz.DidYouMean(errz.Suggest(arg, op.Names())); hint != "" {
				msg += " (" + hint + ")"
			}
			return nil, errors.New(msg)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
