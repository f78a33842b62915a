package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newOutlineCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "outline <file.cs>",
		Short: "List the declarations of a C# file without extracting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOutline(cmd, args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outline as JSON")
	return cmd
}

func (a *app) runOutline(cmd *cobra.Command, path string, asJSON bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ext, closeExtractor := a.newExtractor()
	defer closeExtractor()

	entries, err := ext.Outline(path, src)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		depth := 0
		if e.Container != "" {
			depth = strings.Count(e.Container, ".") + 1
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%d:%d\n",
			strings.Repeat("  ", depth), e.Name, e.Kind, e.Location.StartLine, e.Location.StartColumn)
	}
	return tw.Flush()
}
