package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/piwi3910/parasys/internal/engine"
	"github.com/piwi3910/parasys/internal/model"
	"github.com/piwi3910/parasys/internal/pipeline"
)

func newGenerateCommand(opts *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the panels of the design",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			cfg, err := opts.pipelineConfig(cmd.Flags())
			if err != nil {
				return err
			}
			params, specs, profiles := pipeline.Generate(cfg)
			w := cmd.OutOrStdout()
			if output != outputTable {
				return writeStructured(w, output, specs)
			}

			fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d panels for %s x %s x %s mm",
				len(specs), metersToMm(params.Width), metersToMm(params.Height), metersToMm(params.Depth))))
			rows := make([][]string, len(specs))
			var diags model.Diagnostics
			for i, s := range specs {
				rows[i] = []string{
					s.ID, s.Kind.String(),
					metersToMm(s.Width), metersToMm(s.Height), metersToMm(s.Thickness),
					strconv.Itoa(len(profiles[i].Holes)),
				}
				diags = append(diags, profiles[i].Diagnostics...)
			}
			fmt.Fprintln(w, renderTable([]string{"ID", "Kind", "Width mm", "Height mm", "Thickness mm", "Holes"}, rows))
			printDiagnostics(w, diags)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")
	return cmd
}

// nestSummary is the structured form of `parasys nest`.
type nestSummary struct {
	RunID       string                 `json:"run_id" yaml:"run_id"`
	Preset      string                 `json:"preset" yaml:"preset"`
	Nesting     model.NestingResult    `json:"nesting" yaml:"nesting"`
	Estimate    model.PurchaseEstimate `json:"estimate" yaml:"estimate"`
	Offcuts     []model.Offcut         `json:"offcuts" yaml:"offcuts"`
	Diagnostics model.Diagnostics      `json:"diagnostics" yaml:"diagnostics"`
}

func newNestCommand(opts *globalOptions) *cobra.Command {
	var (
		output string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "nest",
		Short: "Nest the panels and print placements, sheet usage and cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			cfg, err := opts.pipelineConfig(cmd.Flags())
			if err != nil {
				return err
			}
			res, err := pipeline.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != outputTable {
				if err := writeStructured(w, output, nestSummary{
					RunID:       res.RunID,
					Preset:      res.Preset.Key,
					Nesting:     res.Nesting,
					Estimate:    res.Estimate,
					Offcuts:     res.Offcuts,
					Diagnostics: res.Diagnostics,
				}); err != nil {
					return err
				}
			} else {
				printNesting(w, res)
			}
			if strict {
				return res.Nesting.RejectionError()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any panel is rejected")
	return cmd
}

func printNesting(w io.Writer, res *pipeline.Result) {
	n := res.Nesting
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Run %s: %d panels on %d sheet(s) of %s (%s x %s mm)",
		res.RunID, len(n.Placements), n.SheetCount, res.Preset.Key, mm(res.Sheet.SheetWidthMm), mm(res.Sheet.SheetHeightMm))))

	rows := lo.Map(n.Placements, func(p model.Placement, _ int) []string {
		return []string{
			p.ID, p.Kind.String(), strconv.Itoa(p.SheetIndex + 1),
			mm(p.XMm), mm(p.YMm), mm(p.WidthPlacedMm), mm(p.HeightPlacedMm),
			strconv.FormatBool(p.Rotate90),
		}
	})
	fmt.Fprintln(w, renderTable([]string{"Panel", "Kind", "Sheet", "X", "Y", "W", "H", "Rotated"}, rows))

	printSection(w, "Sheets")
	sheetRows := make([][]string, n.SheetCount)
	for i := range sheetRows {
		sheetRows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(len(n.SheetPlacements(i))),
			percent(n.SheetUtilization(i)),
		}
	}
	fmt.Fprintln(w, renderTable([]string{"Sheet", "Panels", "Used"}, sheetRows))

	if len(n.Rejected) > 0 {
		printSection(w, errorStyle.Render(fmt.Sprintf("Rejected (%d)", len(n.Rejected))))
		for _, r := range n.Rejected {
			fmt.Fprintf(w, "  %s (%s) %s x %s mm\n", r.ID, r.Kind, mm(r.WidthMm), mm(r.HeightMm))
		}
	}

	est := res.Estimate
	printSection(w, "Estimate")
	fmt.Fprintf(w, "  Sheets to buy: %d (%d used + %.0f%% waste allowance)\n", est.SheetsToBuy, est.SheetsUsed, est.WastePercent)
	fmt.Fprintf(w, "  Panel area:    %.3f m2 of %.3f m2 stock, %s offcut\n", est.PanelAreaM2, est.StockAreaM2, percent(est.OffcutPercent))
	fmt.Fprintf(w, "  Cost:          %.2f (%.2f per sheet)\n", est.EstimatedCost, est.PricePerSheet)
	if len(res.Offcuts) > 0 {
		fmt.Fprintf(w, "  Offcuts:       %d reusable, %.3f m2\n", len(res.Offcuts), model.TotalOffcutArea(res.Offcuts)/1e6)
	}

	printDiagnostics(w, res.Diagnostics)
}

func newExportCommand(opts *globalOptions) *cobra.Command {
	var (
		outDir  string
		formats string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write cut files for the design",
		Long: `Write cut files for the design into an output directory.

Formats: svg, dxf, pdf, labels, xlsx, mesh (OBJ) and preview (perspective
label PDF), or "all". Sheet formats fail when a panel does not fit the
sheet; the other formats are still written.`,
		Args: cobra.NoArgs,
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

			res, err := pipeline.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			arts, renderErr := res.ExportAll(cmd.Context(), list)
			paths, err := pipeline.WriteArtifacts(outDir, res.Name(), arts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, p := range paths {
				fmt.Fprintln(w, successStyle.Render("wrote ")+p)
			}
			for _, a := range arts {
				printDiagnostics(w, a.Diagnostics)
			}
			logger.Infof("export %s: %d of %d formats written to %s", res.RunID, len(paths), len(list), outDir)
			return renderErr
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "O", "", "Output directory (default from app config)")
	cmd.Flags().StringVarP(&formats, "formats", "f", "", "Comma separated formats, or \"all\" (default svg,dxf,pdf)")
	return cmd
}

func exportFormats(list string, opts model.ExportOptions) ([]pipeline.Format, error) {
	if list == "" {
		return pipeline.DefaultFormats(opts), nil
	}
	return pipeline.ParseFormats(list)
}

func newCompareCommand(opts *globalOptions) *cobra.Command {
	var whatIf bool
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare sheet presets for the design",
		Long: `Nest the design against every sheet preset and rank the results by
rejected panels, cost and sheet count. With --what-if, compare variations
of the current sheet instead: the other rotation setting, half the
spacing and no margin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.pipelineConfig(cmd.Flags())
			if err != nil {
				return err
			}
			sheet := cfg.SheetOptions()
			if err := sheet.Validate(); err != nil {
				return err
			}
			_, specs, profiles := pipeline.Generate(cfg)
			inputs := engine.InputsFromProfiles(specs, profiles)

			var results []engine.ComparisonResult
			if whatIf {
				price := cfg.Presets.ForMaterial(cfg.Material).PricePerSheet
				results = engine.RankComparisons(engine.CompareScenarios(
					engine.BuildDefaultScenarios(sheet, price), inputs, cfg.Export.WastePercent))
			} else {
				results = engine.ComparePresets(inputs, cfg.Presets, sheet.AllowRotate90, cfg.Export.WastePercent)
			}

			rows := lo.Map(results, func(r engine.ComparisonResult, i int) []string {
				return []string{
					strconv.Itoa(i + 1), r.Scenario.Name,
					fmt.Sprintf("%s x %s", mm(r.Scenario.Options.SheetWidthMm), mm(r.Scenario.Options.SheetHeightMm)),
					strconv.Itoa(r.SheetsUsed), percent(r.Utilization),
					strconv.Itoa(r.RejectedCount), fmt.Sprintf("%.2f", r.Estimate.EstimatedCost),
				}
			})
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d panels, %d scenarios", len(inputs), len(results))))
			fmt.Fprintln(w, renderTable([]string{"#", "Scenario", "Sheet mm", "Sheets", "Used", "Rejected", "Cost"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&whatIf, "what-if", false, "Compare variations of the current sheet instead of presets")
	return cmd
}

// reportFailures turns a failure count into an error, nil when nothing failed.
func reportFailures(failed, total int, what string) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d %s failed", failed, total, what)
}

func fileExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s does not exist", path)
		}
		return err
	}
	return nil
}
