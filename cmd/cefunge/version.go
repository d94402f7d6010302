package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.ToLower(a.v.GetString("output")) == "json" {
				return a.writeOutputJSON(a.stdout, map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
					"go":      runtime.Version(),
				})
			}
			fmt.Fprintf(a.stdout, "cefunge %s\ncommit: %s\nbuilt: %s\n%s\n", version, commit, date, runtime.Version())
			return nil
		},
	}
}
