package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/syntaxdoc/pkg/extractor"
	"github.com/gnana997/syntaxdoc/pkg/parser"
	"github.com/gnana997/syntaxdoc/pkg/parser/queries"
	"github.com/gnana997/syntaxdoc/pkg/util"
)

// app carries the state shared by every command: global flags, the loaded
// project config and the logger built from both.
type app struct {
	configPath string
	verbose    bool
	logLevel   string
	logFormat  string

	cfg    *ProjectConfig
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "syntaxdoc",
		Short: "Extract structured documents from C# syntax trees",
		Long: `syntaxdoc turns C# compilation units, or types reconstructed from a
compiled assembly, into position-annotated structured documents (XML or JSON).

Every declaration of interest carries a stable artifact identifier such as
Type:Shop.Orders.Order or Method:Shop.Orders.Order.Total(int), so documents
from different runs and tools can be cross-referenced.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./"+configFileName+", then $HOME/"+configFileName+")")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log every written file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default info)")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: json, text (default text)")

	root.AddCommand(
		newExtractCmd(a),
		newDecompiledCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newOutlineCmd(a),
		newInspectCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the project config and builds the logger. The project root is
// the first argument when it names a directory.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	projectRoot := "."
	if len(args) > 0 {
		if st, err := os.Stat(args[0]); err == nil && st.IsDir() {
			projectRoot = args[0]
		}
	}

	cfg, err := loadProjectConfig(a.configPath, projectRoot)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := util.ParseLevel(resolve(a.logLevel, cfg.LogLevel, string(util.LevelInfo)))
	if err != nil {
		return err
	}
	format, err := util.ParseFormat(resolve(a.logFormat, cfg.LogFormat, string(util.FormatText)))
	if err != nil {
		return err
	}
	a.logger = util.NewLogger(util.LoggerConfig{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})

	if cfg.path != "" {
		a.logger.Debug("Using config file", "path", cfg.path)
	}
	return nil
}

// newExtractor wires the parser and query managers into an Extractor. The
// returned function releases both pools.
func (a *app) newExtractor() (*extractor.Extractor, func()) {
	pm := parser.NewParserManager(a.logger)
	qm := queries.NewQueryManager(pm, a.logger)
	return extractor.NewExtractor(pm, qm, a.logger), func() {
		if err := qm.Close(); err != nil {
			a.logger.Warn("Failed to close query manager", "error", err)
		}
		if err := pm.Close(); err != nil {
			a.logger.Warn("Failed to close parser manager", "error", err)
		}
	}
}

// written records an output file; it is only visible with --verbose.
func (a *app) written(path string) {
	if a.verbose {
		a.logger.Info("Wrote document", "path", path)
	}
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "syntaxdoc %s\n", version)
		},
	}
}
