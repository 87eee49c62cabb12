package main

import (
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/piwi3910/parasys/internal/model"
	"github.com/piwi3910/parasys/internal/project"
	"github.com/piwi3910/parasys/internal/server"
	"github.com/piwi3910/parasys/internal/ui"
)

func newPresetsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List sheet presets and the materials that select them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := project.LoadPresetTable(opts.presetsFile)
			if err != nil {
				return err
			}
			rows := lo.Map(table.Keys(), func(k string, _ int) []string {
				p := table.Presets[k]
				source := "custom"
				if p.IsBuiltIn {
					source = "built-in"
				}
				return []string{
					p.Key, p.Name, fmt.Sprintf("%s x %s", mm(p.SheetWidthMm), mm(p.SheetHeightMm)),
					mm(p.MarginMm), mm(p.SpacingMm), fmt.Sprintf("%.2f", p.PricePerSheet), source,
				}
			})
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, renderTable([]string{"Key", "Name", "Sheet mm", "Margin", "Spacing", "Price", "Source"}, rows))

			materials := lo.Keys(table.Materials)
			printSection(w, "Materials")
			for _, m := range sortedStrings(materials) {
				fmt.Fprintf(w, "  %-16s %s\n", m, mutedStyle.Render(table.Materials[m]))
			}
			return nil
		},
	}
	cmd.AddCommand(newPresetsAddCommand(opts))
	return cmd
}

func newPresetsAddCommand(opts *globalOptions) *cobra.Command {
	var (
		name  string
		price float64
	)
	cmd := &cobra.Command{
		Use:   "add <key>",
		Short: "Add or replace a custom sheet preset",
		Long: `Add or replace a custom sheet preset. The sheet comes from the global
sheet flags; --sheet-width and --sheet-height are required.`,
		Example: `  parasys presets add Birch --sheet-width 2500 --sheet-height 1250 --margin 8 --spacing 8 --price 52`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("sheet-width") || !flags.Changed("sheet-height") {
				return fmt.Errorf("--sheet-width and --sheet-height are required")
			}
			p := model.SheetPreset{
				Key:           args[0],
				Name:          name,
				SheetWidthMm:  opts.sheetWidth,
				SheetHeightMm: opts.sheetHeight,
				MarginMm:      10,
				SpacingMm:     10,
				PricePerSheet: price,
			}
			if p.Name == "" {
				p.Name = p.Key
			}
			if flags.Changed("margin") {
				p.MarginMm = opts.margin
			}
			if flags.Changed("spacing") {
				p.SpacingMm = opts.spacing
			}
			if err := project.UpsertPreset(opts.presetsFile, p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("saved preset ")+p.Key+" to "+opts.presetsFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().Float64Var(&price, "price", 0, "Price per sheet")
	return cmd
}

func newTemplatesCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List saved design templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadTemplates(opts.templatesFile)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(store.Templates) == 0 {
				fmt.Fprintln(w, mutedStyle.Render("no templates saved"))
				return nil
			}
			rows := lo.Map(store.Templates, func(t model.DesignTemplate, _ int) []string {
				p := t.Parameters
				return []string{
					t.Name, t.Material,
					fmt.Sprintf("%s x %s x %s", metersToMm(p.Width), metersToMm(p.Height), metersToMm(p.Depth)),
					fmt.Sprintf("%d / %d", p.Dividers, p.Shelves), t.Description,
				}
			})
			fmt.Fprintln(w, renderTable([]string{"Name", "Material", "Size mm", "Dividers / Shelves", "Description"}, rows))
			return nil
		},
	}
	cmd.AddCommand(newTemplatesSaveCommand(opts), newTemplatesDeleteCommand(opts))
	return cmd
}

func newTemplatesSaveCommand(opts *globalOptions) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the resolved design as a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.pipelineConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if err := project.UpsertTemplate(opts.templatesFile, model.NewDesignTemplate(args[0], description, cfg)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("saved template ")+args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Template description")
	return cmd
}

func newTemplatesDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return project.DeleteTemplate(opts.templatesFile, args[0])
		},
	}
}

func newConfigCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved pipeline config as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.pipelineConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return writeStructured(cmd.OutOrStdout(), outputYAML, cfg)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "save <file.yaml|file.json>",
		Short: "Write the resolved pipeline config to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.pipelineConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if err := project.SavePipelineConfig(args[0], cfg); err != nil {
				return err
			}
			appCfg := opts.loadAppConfig()
			appCfg.AddRecent(args[0], 10)
			return project.SaveAppConfig(opts.appConfig, appCfg)
		},
	})
	return cmd
}

func newServeCommand(opts *globalOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API until interrupted.

  GET  /healthz
  GET  /presets
  POST /panels           body: pipeline config JSON
  POST /nest             body: pipeline config JSON
  POST /export/:format   svg, dxf, pdf, labels, xlsx, mesh or preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := project.LoadPresetTable(opts.presetsFile)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = opts.loadAppConfig().ServerListenAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(table).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from app config)")
	return cmd
}

func newPreviewCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Open the desktop preview of the nested sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.pipelineConfig(cmd.Flags())
			if err != nil {
				return err
			}
			ui.Run(cfg, opts.loadAppConfig())
			return nil
		},
	}
}

func sortedStrings(s []string) []string {
	out := append([]string(nil), s...)
	slices.Sort(out)
	return out
}
