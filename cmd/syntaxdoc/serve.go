package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/syntaxdoc/pkg/indexer"
	mcpserver "github.com/gnana997/syntaxdoc/pkg/mcp"
	"github.com/gnana997/syntaxdoc/pkg/mcplog"
)

type serveFlags struct {
	mcpLog  string
	noIndex bool
}

func newServeCmd(a *app) *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve [root]",
		Short: "Start the MCP server on stdin/stdout",
		Long: `Serve exposes extraction and artifact lookup to MCP clients over stdio.

Unless --no-index is given, the C# files under root are extracted first and
kept current by a file watcher, so get_artifact and list_artifacts answer
for the whole project. Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd, rootArg(args), f)
		},
	}
	cmd.Flags().StringVar(&f.mcpLog, "mcp-log", "", "append a JSONL record of every tool call to this file")
	cmd.Flags().BoolVar(&f.noIndex, "no-index", false, "start with an empty index and no file watcher")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, root string, f *serveFlags) error {
	// The index is keyed by absolute path, as the watcher and extract_file see it
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	callLog, err := mcplog.NewLogger(resolve(f.mcpLog, a.cfg.MCPLog, ""))
	if err != nil {
		return err
	}
	defer callLog.Close()

	ext, closeExtractor := a.newExtractor()
	defer closeExtractor()

	index := indexer.NewDocumentIndex(indexer.DefaultDocumentIndexConfig(), a.logger)
	defer index.Close()

	if !f.noIndex {
		result, err := indexer.NewBatchExtractor(ext, index, a.logger).Run(cmd.Context(), root, a.cfg.batchOptions(), nil)
		if err != nil {
			return err
		}
		a.logger.Info("Index ready",
			"documents", len(result.Results),
			"artifacts", result.Stats.ArtifactsAssigned,
			"failed", result.Stats.FilesFailed)

		watcher, err := indexer.NewFileWatcher(ext, index, a.cfg.watchOptions(), a.logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(root); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	return mcpserver.NewServer(ext, index, callLog).ServeStdio()
}
