package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/frontend/decompiled"
)

func newDecompiledCmd(a *app) *cobra.Command {
	f := &extractFlags{}
	cmd := &cobra.Command{
		Use:   "decompiled <dump.json|->",
		Short: "Extract the types of a decompiled assembly dump",
		Long: `Decompiled reads the JSON dump a decompiler produced for one assembly and
writes one document per top-level type, named by its qualified name
(Acme.Store.Cart.xml). Use - to read the dump from stdin.

Types that fail are listed in errors.xml; the others are still written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDecompiled(cmd, args[0], f)
		},
	}
	f.register(cmd, false)
	return cmd
}

func (a *app) runDecompiled(cmd *cobra.Command, input string, f *extractFlags) error {
	w, err := a.outputWriter(f)
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if input != "-" {
		file, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open dump: %w", err)
		}
		defer file.Close()
		r = file
	}
	dump, err := decompiled.Decode(r)
	if err != nil {
		return err
	}

	ext, closeExtractor := a.newExtractor()
	defer closeExtractor()

	var diags []document.Diagnostic
	written := 0
	for _, outcome := range ext.ExtractDecompiled(dump) {
		if outcome.Err != nil {
			a.logger.Warn("Type failed", "type", outcome.Name, "error", outcome.Err)
			diags = append(diags, errorDiagnostics(outcome.Name, outcome.Err)...)
			continue
		}
		if _, err := w.write(w.typeName(outcome.Name), outcome.Result.Document); err != nil {
			return err
		}
		written++
	}
	if err := w.writeDiagnostics(diags); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d of %d types from %s -> %s\n",
		written, len(dump.Types), dump.Assembly, w.dir)
	return nil
}
