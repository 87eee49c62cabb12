package main

import (
	"fmt"
	"strconv"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/piwi3910/parasys/internal/importer"
	"github.com/piwi3910/parasys/internal/pipeline"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.dxf>",
		Short: "Read a nested DXF back and report its layers and cut loops",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fileExists(args[0]); err != nil {
				return err
			}
			drawing, err := importer.ReadNestedDXF(args[0])
			if err != nil {
				return err
			}

			rows := lo.Map(drawing.Layers, func(l *importer.LayerContent, _ int) []string {
				return []string{l.Name, strconv.Itoa(l.Entities), strconv.Itoa(len(l.Loops)), strconv.Itoa(l.Skipped)}
			})
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s: %d layers, %d closed loops",
				drawing.Path, len(drawing.Layers), drawing.LoopCount())))
			fmt.Fprintln(w, renderTable([]string{"Layer", "Entities", "Loops", "Skipped"}, rows))
			return nil
		},
	}
}

func newBatchCommand(opts *globalOptions) *cobra.Command {
	var (
		outDir  string
		formats string
	)
	cmd := &cobra.Command{
		Use:   "batch <jobs.csv|jobs.xlsx>",
		Short: "Run and export every furniture job listed in a CSV or Excel file",
		Long: `Run and export every furniture job listed in a CSV or Excel file.

The file needs width, height and depth columns (meters); name, dividers,
shelves and material are optional. Without a recognised header the columns
are read in that order, starting with name. Each job overrides the
parameters of the resolved config and writes its files as <name>.<ext>;
jobs sharing a name get their row number appended.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.pipelineConfig(cmd.Flags())
			if err != nil {
				return err
			}
			list, err := exportFormats(formats, cfg.Export)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = opts.loadAppConfig().OutputDir
			}

			imported := importer.ImportFile(args[0])
			w := cmd.OutOrStdout()
			for _, warn := range imported.Warnings {
				fmt.Fprintln(w, warningStyle.Render("warning: ")+warn)
			}
			for _, e := range imported.Errors {
				fmt.Fprintln(w, errorStyle.Render("error: ")+e)
			}
			if len(imported.Jobs) == 0 {
				return fmt.Errorf("no jobs imported from %s", args[0])
			}

			outcomes := pipeline.RunBatch(cmd.Context(), cfg, imported.Jobs, list, outDir)
			failed := 0
			rows := lo.Map(outcomes, func(o pipeline.JobOutcome, _ int) []string {
				status := successStyle.Render("ok")
				if o.Err != nil {
					failed++
					status = errorStyle.Render(o.Err.Error())
				}
				sheets := "-"
				if o.Result != nil {
					sheets = strconv.Itoa(o.Result.Nesting.SheetCount)
				}
				return []string{o.Job.Name, o.FileName, sheets, strconv.Itoa(len(o.Paths)), status}
			})
			fmt.Fprintln(w, renderTable([]string{"Job", "Output", "Sheets", "Files", "Status"}, rows))
			logger.Infof("batch: %d jobs, %d failed, output in %s", len(outcomes), failed, outDir)
			return reportFailures(failed, len(outcomes), "jobs")
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "O", "", "Output directory (default from app config)")
	cmd.Flags().StringVarP(&formats, "formats", "f", "", "Comma separated formats, or \"all\" (default svg,dxf,pdf)")
	return cmd
}
