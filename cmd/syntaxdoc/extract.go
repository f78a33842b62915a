package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/syntaxdoc/pkg/document"
	"github.com/gnana997/syntaxdoc/pkg/indexer"
)

// extractFlags holds the flags shared by extract, watch and decompiled.
type extractFlags struct {
	out        string
	format     string
	include    []string
	exclude    []string
	workers    int
	noProgress bool
}

func (f *extractFlags) register(cmd *cobra.Command, batch bool) {
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output directory (default "+defaultOutputDir+")")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "document format: xml or json (default xml)")
	if !batch {
		return
	}
	cmd.Flags().StringSliceVar(&f.include, "include", nil, "glob patterns of files to extract (default **/*.cs)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "glob patterns of files to skip")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "number of concurrent units (default 2x CPU, 4-32)")
	cmd.Flags().BoolVarP(&f.noProgress, "no-progress", "q", false, "disable the progress bar")
}

// batchOptions applies the flags over the project config.
func (f *extractFlags) batchOptions(cfg *ProjectConfig) indexer.BatchOptions {
	opts := cfg.batchOptions()
	if len(f.include) > 0 {
		opts.Include = f.include
	}
	if len(f.exclude) > 0 {
		opts.Exclude = f.exclude
	}
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	return opts
}

func (a *app) outputWriter(f *extractFlags) (*outputWriter, error) {
	return newOutputWriter(a,
		resolve(f.out, a.cfg.OutputDir, defaultOutputDir),
		resolve(f.format, a.cfg.Format, formatXML))
}

func newExtractCmd(a *app) *cobra.Command {
	f := &extractFlags{}
	cmd := &cobra.Command{
		Use:   "extract [root]",
		Short: "Extract every C# compilation unit under root",
		Long: `Extract discovers the C# files under root (default: the current directory),
extracts them in parallel and writes one document per compilation unit,
mirroring the source tree below the output directory.

A unit that fails (syntax error, unsupported construct) does not stop the
batch. Failures are listed in errors.xml in the output directory; a clean run
removes a stale errors.xml.

Examples:
  # Extract the current directory into ./syntaxdoc-out
  syntaxdoc extract

  # JSON documents, skipping tests
  syntaxdoc extract ./src -o docs -f json --exclude 'tests/**'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, rootArg(args), f)
		},
	}
	f.register(cmd, true)
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, root string, f *extractFlags) error {
	w, err := a.outputWriter(f)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(cmd)
	defer stop()

	ext, closeExtractor := a.newExtractor()
	defer closeExtractor()

	progress := newProgressReporter(cmd.ErrOrStderr(), f.noProgress)
	result, runErr := indexer.NewBatchExtractor(ext, nil, a.logger).Run(ctx, root, f.batchOptions(a.cfg), progress.update)
	progress.finish()
	if result == nil {
		return runErr
	}

	for _, r := range result.Results {
		rel, err := filepath.Rel(root, r.Path)
		if err != nil {
			rel = filepath.Base(r.Path)
		}
		if _, err := w.write(w.sourceName(rel), r.Document); err != nil {
			return err
		}
	}
	if err := w.writeDiagnostics(batchDiagnostics(root, result.Stats.Errors)); err != nil {
		return err
	}

	st := result.Stats
	fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d of %d files (%d failed, %d artifacts) in %.1fs -> %s\n",
		st.FilesExtracted, st.FilesDiscovered, st.FilesFailed, st.ArtifactsAssigned,
		float64(st.TotalTimeMs)/1000, w.dir)
	if len(st.Errors) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d problems listed in %s\n", len(st.Errors), filepath.Join(w.dir, document.DiagnosticsFileName))
	}
	return runErr
}
