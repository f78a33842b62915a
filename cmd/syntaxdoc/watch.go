package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/syntaxdoc/pkg/extractor"
	"github.com/gnana997/syntaxdoc/pkg/indexer"
)

func newWatchCmd(a *app) *cobra.Command {
	f := &extractFlags{}
	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Extract root, then keep its documents current as files change",
		Long: `Watch runs a full extraction of root like extract does, then watches the
tree and re-extracts each C# file shortly after it changes. Deleting a file
deletes its document. Stop with Ctrl+C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, rootArg(args), f)
		},
	}
	f.register(cmd, true)
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, root string, f *extractFlags) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	w, err := a.outputWriter(f)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(cmd)
	defer stop()

	ext, closeExtractor := a.newExtractor()
	defer closeExtractor()

	index := indexer.NewDocumentIndex(indexer.DefaultDocumentIndexConfig(), a.logger)
	defer index.Close()

	progress := newProgressReporter(cmd.ErrOrStderr(), f.noProgress)
	result, err := indexer.NewBatchExtractor(ext, index, a.logger).Run(ctx, root, f.batchOptions(a.cfg), progress.update)
	progress.finish()
	if err != nil {
		return err
	}

	outputName := func(path string) string {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		return w.sourceName(rel)
	}

	for _, r := range result.Results {
		if _, err := w.write(outputName(r.Path), r.Document); err != nil {
			return err
		}
	}
	if err := w.writeDiagnostics(batchDiagnostics(root, result.Stats.Errors)); err != nil {
		return err
	}

	opts := a.cfg.watchOptions()
	opts.OnChange = func(ev indexer.WatchEvent) {
		a.applyWatchEvent(w, outputName(ev.FilePath), ev)
	}

	watcher, err := indexer.NewFileWatcher(ext, index, opts, a.logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(root); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (%d documents) -> %s\n", root, len(result.Results), w.dir)
	<-ctx.Done()
	return nil
}

// applyWatchEvent mirrors one watcher event into the output directory. A unit
// that fails to re-extract keeps its last good document.
func (a *app) applyWatchEvent(w *outputWriter, name string, ev indexer.WatchEvent) {
	switch {
	case ev.Op == indexer.WatchOpRemove:
		if err := w.remove(name); err != nil {
			a.logger.Warn("Failed to remove document", "file", ev.FilePath, "error", err)
		}
	case ev.Err != nil:
		a.logger.Warn("Re-extraction failed", "file", ev.FilePath, "error", ev.Err)
	default:
		a.writeResult(w, name, ev.Result)
	}
}

func (a *app) writeResult(w *outputWriter, name string, r *extractor.FileResult) {
	if _, err := w.write(name, r.Document); err != nil {
		a.logger.Warn("Failed to write document", "file", r.Path, "error", err)
	}
}
