package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"

	"github.com/piwi3910/parasys/internal/model"
	"github.com/piwi3910/parasys/internal/pipeline"
	"github.com/piwi3910/parasys/internal/project"
	"github.com/piwi3910/parasys/internal/ui/widgets"
)

// App holds the preview state and the UI references that change after a run.
type App struct {
	window  fyne.Window
	cfg     model.PipelineConfig
	appCfg  model.AppConfig
	limits  model.Limits
	history *History
	result  *pipeline.Result

	resultContainer *fyne.Container
	status          *widget.Label
	undoBtn         *ttwidget.Button
	redoBtn         *ttwidget.Button
	controls        []func()
}

// NewApp creates the preview for a starting config.
func NewApp(window fyne.Window, cfg model.PipelineConfig, appCfg model.AppConfig) *App {
	return &App{
		window:  window,
		cfg:     cfg,
		appCfg:  appCfg,
		limits:  model.DefaultLimits(),
		history: NewHistory(),
	}
}

// Run opens the preview window and blocks until it is closed.
func Run(cfg model.PipelineConfig, appCfg model.AppConfig) {
	application := app.NewWithID("com.piwi3910.parasys")
	application.Settings().SetTheme(NewParasysTheme(appCfg.Theme))
	window := application.NewWindow("Parasys: panel nesting preview")

	a := NewApp(window, cfg, appCfg)
	a.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(a.Build(), window.Canvas()))

	size := appCfg.PreviewWindowSize
	if size[0] <= 0 || size[1] <= 0 {
		size = model.DefaultAppConfig().PreviewWindowSize
	}
	window.Resize(fyne.NewSize(size[0], size[1]))
	window.CenterOnScreen()
	a.renest()
	window.ShowAndRun()
}

// SetupMenus creates the native menu bar.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export...", a.exportAll),
		fyne.NewMenuItem("Save Config...", a.saveConfig),
		fyne.NewMenuItem("Open Config...", a.openConfig),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { a.window.Close() }),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItem("Reset Design", func() {
			a.edit("reset", func(cfg *model.PipelineConfig) {
				cfg.Parameters = model.DefaultFurnitureParameters()
				cfg.Sheet = model.SheetOverrides{}
			})
		}),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About Parasys",
				"Parasys: parametric furniture panels\n\n"+
					"Generates flat panels for a shelf unit, cuts the\n"+
					"interlock slots and nests them onto stock sheets.",
				a.window)
		}),
	)
	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.status = widget.NewLabel("")
	a.resultContainer = container.NewStack(widget.NewLabel("Nesting..."))

	nestBtn := toolButton(theme.MediaPlayIcon(), "Nest panels", a.renest)
	undoBtn := toolButton(theme.ContentUndoIcon(), "Undo", a.undo)
	redoBtn := toolButton(theme.ContentRedoIcon(), "Redo", a.redo)
	exportBtn := toolButton(theme.DocumentSaveIcon(), "Export all formats", a.exportAll)
	a.undoBtn, a.redoBtn = undoBtn, redoBtn

	toolbar := container.NewHBox(nestBtn, undoBtn, redoBtn, exportBtn, layout.NewSpacer(), a.status)
	split := container.NewHSplit(container.NewVScroll(a.buildParameterPanel()), a.resultContainer)
	split.Offset = 0.28
	return container.NewBorder(toolbar, nil, nil, nil, split)
}

// toolButton is an icon-only button with a hover tooltip.
func toolButton(icon fyne.Resource, tip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tip)
	return btn
}

// ─── Parameter Panel ───────────────────────────────────────

func (a *App) buildParameterPanel() fyne.CanvasObject {
	l := a.limits
	form := container.NewVBox(
		widget.NewLabelWithStyle("Design", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.lengthSlider("Width", l.Min.X, l.Max.X, func(p *model.FurnitureParameters) *float64 { return &p.Width }),
		a.lengthSlider("Height", l.Min.Y, l.Max.Y, func(p *model.FurnitureParameters) *float64 { return &p.Height }),
		a.lengthSlider("Depth", l.Min.Z, l.Max.Z, func(p *model.FurnitureParameters) *float64 { return &p.Depth }),
		a.countSlider("Dividers", l.MaxDividers, func(p *model.FurnitureParameters) *int { return &p.Dividers }),
		a.countSlider("Shelves", l.MaxShelves, func(p *model.FurnitureParameters) *int { return &p.Shelves }),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Material", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.materialSelect(),
		a.interlockCheck(),
	)
	return form
}

func (a *App) lengthSlider(name string, minM, maxM float64, field func(*model.FurnitureParameters) *float64) fyne.CanvasObject {
	label := widget.NewLabel("")
	slider := widget.NewSlider(minM*1000, maxM*1000)
	slider.Step = 10
	sync := func() {
		v := *field(&a.cfg.Parameters)
		label.SetText(fmt.Sprintf("%s: %.0f mm", name, v*1000))
		slider.Value = v * 1000
		slider.Refresh()
	}
	slider.OnChanged = func(mm float64) {
		label.SetText(fmt.Sprintf("%s: %.0f mm", name, mm))
	}
	slider.OnChangeEnded = func(mm float64) {
		a.edit(strings.ToLower(name), func(cfg *model.PipelineConfig) {
			*field(&cfg.Parameters) = mm / 1000
		})
	}
	a.controls = append(a.controls, sync)
	sync()
	return container.NewVBox(label, slider)
}

func (a *App) countSlider(name string, hi int, field func(*model.FurnitureParameters) *int) fyne.CanvasObject {
	label := widget.NewLabel("")
	slider := widget.NewSlider(0, float64(hi))
	slider.Step = 1
	sync := func() {
		v := *field(&a.cfg.Parameters)
		label.SetText(fmt.Sprintf("%s: %d", name, v))
		slider.Value = float64(v)
		slider.Refresh()
	}
	slider.OnChanged = func(v float64) {
		label.SetText(fmt.Sprintf("%s: %d", name, int(v)))
	}
	slider.OnChangeEnded = func(v float64) {
		a.edit(strings.ToLower(name), func(cfg *model.PipelineConfig) {
			*field(&cfg.Parameters) = int(v)
		})
	}
	a.controls = append(a.controls, sync)
	sync()
	return container.NewVBox(label, slider)
}

func (a *App) materialSelect() fyne.CanvasObject {
	sel := widget.NewSelect(materialNames(a.cfg.Presets), nil)
	sel.SetSelected(a.cfg.Material)
	sel.OnChanged = func(m string) {
		if m == a.cfg.Material {
			return
		}
		a.edit("material", func(cfg *model.PipelineConfig) { cfg.Material = m })
	}
	a.controls = append(a.controls, func() { sel.SetSelectedIndex(indexOf(sel.Options, a.cfg.Material)) })
	return sel
}

func (a *App) interlockCheck() fyne.CanvasObject {
	check := widget.NewCheck("Interlock slots", nil)
	check.SetChecked(a.cfg.Interlock.Enabled)
	check.OnChanged = func(on bool) {
		if on == a.cfg.Interlock.Enabled {
			return
		}
		a.edit("interlock", func(cfg *model.PipelineConfig) { cfg.Interlock.Enabled = on })
	}
	a.controls = append(a.controls, func() { check.SetChecked(a.cfg.Interlock.Enabled) })
	return check
}

// materialNames lists the material keys of the table followed by the preset
// keys, without duplicates.
func materialNames(table model.PresetTable) []string {
	if len(table.Presets) == 0 {
		table = model.DefaultPresetTable()
	}
	seen := map[string]bool{}
	var names []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	materials := lo.Keys(table.Materials)
	sort.Strings(materials)
	for _, k := range materials {
		add(k)
	}
	for _, k := range table.Keys() {
		add(k)
	}
	return names
}

func indexOf(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return -1
}

// ─── Actions ───────────────────────────────────────────────

// edit records the current design for undo, applies change and reruns the pipeline.
func (a *App) edit(label string, change func(cfg *model.PipelineConfig)) {
	a.history.Push(MakeSnapshot(a.cfg, label))
	change(&a.cfg)
	a.renest()
}

func (a *App) undo() {
	if prev, ok := a.history.Undo(MakeSnapshot(a.cfg, "undo")); ok {
		prev.Apply(&a.cfg)
		a.syncControls()
		a.renest()
	}
}

func (a *App) redo() {
	if next, ok := a.history.Redo(MakeSnapshot(a.cfg, "redo")); ok {
		next.Apply(&a.cfg)
		a.syncControls()
		a.renest()
	}
}

func (a *App) syncControls() {
	for _, sync := range a.controls {
		sync()
	}
}

func (a *App) renest() {
	res, err := pipeline.Run(context.Background(), a.cfg)
	if err != nil {
		a.result = nil
		a.status.SetText("Nesting failed")
		a.resultContainer.Objects = []fyne.CanvasObject{widget.NewLabel(err.Error())}
		a.resultContainer.Refresh()
		a.refreshHistoryButtons()
		return
	}
	a.result = res
	a.cfg.Parameters = res.Parameters
	a.refreshResults()
	a.refreshHistoryButtons()
}

func (a *App) refreshResults() {
	res := a.result
	a.status.SetText(fmt.Sprintf("%d panels, %d sheet(s) of %s, %d rejected",
		len(res.Specs), res.Nesting.SheetCount, res.Preset.Key, len(res.Nesting.Rejected)))
	a.resultContainer.Objects = []fyne.CanvasObject{widgets.RenderSheetResults(res)}
	a.resultContainer.Refresh()
}

func (a *App) refreshHistoryButtons() {
	if a.undoBtn == nil {
		return
	}
	setEnabled(a.undoBtn, a.history.CanUndo())
	setEnabled(a.redoBtn, a.history.CanRedo())
	if label := a.history.UndoLabel(); label != "" {
		a.undoBtn.SetToolTip("Undo " + label)
	} else {
		a.undoBtn.SetToolTip("Undo")
	}
}

func setEnabled(d fyne.Disableable, on bool) {
	if on {
		d.Enable()
	} else {
		d.Disable()
	}
}

func (a *App) exportAll() {
	if a.result == nil {
		dialog.ShowInformation("No results", "Nest the design before exporting.", a.window)
		return
	}
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		formats := pipeline.DefaultFormats(a.cfg.Export)
		arts, exportErr := a.result.ExportAll(context.Background(), formats)
		paths, writeErr := pipeline.WriteArtifacts(dir.Path(), a.result.Name(), arts)
		if writeErr != nil {
			dialog.ShowError(writeErr, a.window)
			return
		}
		logger.Infof("preview: wrote %d file(s) to %s", len(paths), dir.Path())
		if exportErr != nil {
			dialog.ShowError(exportErr, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("%d file(s) saved to %s", len(paths), dir.Path()), a.window)
	}, a.window)
}

func (a *App) saveConfig() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.SavePipelineConfig(path, a.cfg); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.rememberRecent(path)
	}, a.window)
	d.SetFileName(pipeline.SafeName(a.cfg.Export.ProjectName) + ".yaml")
	d.Show()
}

func (a *App) openConfig() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		cfg, err := project.LoadPipelineConfig(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		cfg.Presets = a.cfg.Presets
		a.history.Push(MakeSnapshot(a.cfg, "open"))
		a.cfg = cfg
		a.rememberRecent(path)
		a.syncControls()
		a.renest()
	}, a.window)
	d.Show()
}

func (a *App) rememberRecent(path string) {
	a.appCfg.AddRecent(path, 10)
	if err := project.SaveAppConfig(project.DefaultConfigPath(), a.appCfg); err != nil {
		logger.Warnf("preview: saving app config: %v", err)
	}
}
