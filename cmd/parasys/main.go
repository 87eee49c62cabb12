// Parasys: parametric furniture panels, nested onto stock sheets.
//
// Generates the flat panels of a shelf unit from a handful of parameters,
// cuts interlock slots where verticals and shelves cross, nests the panels
// onto stock sheets and exports SVG, DXF, PDF, label sheets, an XLSX cut
// list and an OBJ mesh.
//
// Build:
//
//	go build -o parasys ./cmd/parasys
//
// Examples:
//
//	parasys nest --width 0.8 --height 0.6 --dividers 2 --shelves 1
//	parasys export --material Chrome --formats svg,dxf,pdf --out ./out
//	parasys serve --addr :8080
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{
		logFlags: logger.Flags{
			Level:       "info",
			LogToStderr: true,
		},
	}

	rootCmd := &cobra.Command{
		Use:   "parasys",
		Short: "Generate, nest and export parametric furniture panels",
		Long: `Parasys turns a few furniture parameters (overall size, number of
dividers and shelves, material) into flat panels with interlock slots,
nests them onto stock sheets and writes cut files.

Sheet sizes come from the material preset; every sheet field can be
overridden with a flag or a YAML/JSON config file.`,
		Example: `  parasys generate --width 0.6 --shelves 2
  parasys nest --material Chrome --sheet-width 800 --sheet-height 600
  parasys export --config shelf.yaml --formats all --out ./cut
  parasys batch jobs.xlsx --out ./batch`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Configure(opts.logFlags)
		},
	}
	opts.bind(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newGenerateCommand(opts),
		newNestCommand(opts),
		newExportCommand(opts),
		newCompareCommand(opts),
		newInspectCommand(),
		newBatchCommand(opts),
		newPresetsCommand(opts),
		newTemplatesCommand(opts),
		newConfigCommand(opts),
		newServeCommand(opts),
		newPreviewCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "parasys %s (commit: %s, go: %s)\n", version, commit, runtime.Version())
		},
	}
}
