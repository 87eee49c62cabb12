package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"

	"github.com/piwi3910/parasys/internal/export"
	"github.com/piwi3910/parasys/internal/model"
)

// Format is an output the pipeline can render.
type Format string

const (
	FormatSVG     Format = "svg"
	FormatDXF     Format = "dxf"
	FormatPDF     Format = "pdf"
	FormatLabels  Format = "labels"
	FormatXLSX    Format = "xlsx"
	FormatMesh    Format = "mesh"
	FormatPreview Format = "preview"
)

// AllFormats lists every format in rendering order.
func AllFormats() []Format {
	return []Format{FormatSVG, FormatDXF, FormatPDF, FormatLabels, FormatXLSX, FormatMesh, FormatPreview}
}

// DefaultFormats returns the sheet documents, plus the label sheet when the
// export options ask for it.
func DefaultFormats(opts model.ExportOptions) []Format {
	formats := []Format{FormatSVG, FormatDXF, FormatPDF}
	if opts.IncludeLabelSheet {
		formats = append(formats, FormatLabels)
	}
	return formats
}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(AllFormats(), f) {
		return "", fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(lo.Map(AllFormats(), func(f Format, _ int) string { return string(f) }), ", "))
	}
	return f, nil
}

// ParseFormats parses a comma-separated list; "all" selects every format.
func ParseFormats(list string) ([]Format, error) {
	if strings.TrimSpace(strings.ToLower(list)) == "all" {
		return AllFormats(), nil
	}
	var out []Format
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return lo.Uniq(out), nil
}

// FileSuffix is appended to the project name to build the output file name.
func (f Format) FileSuffix() string {
	switch f {
	case FormatLabels:
		return "-labels.pdf"
	case FormatMesh:
		return ".obj"
	case FormatPreview:
		return "-preview.pdf"
	default:
		return "." + string(f)
	}
}

// ContentType is the MIME type of the rendered bytes.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatDXF:
		return "application/dxf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatMesh:
		return "model/obj"
	default:
		return "application/pdf"
	}
}

// Artifact is one rendered output.
type Artifact struct {
	Format      Format
	Data        []byte
	Diagnostics model.Diagnostics
}

// Render produces one format from the result.
func (r *Result) Render(f Format) (Artifact, error) {
	art := Artifact{Format: f}
	var err error
	switch f {
	case FormatSVG:
		art.Data, art.Diagnostics, err = export.SVG(r.Nesting)
	case FormatDXF:
		art.Data, art.Diagnostics, err = export.DXF(r.Nesting, export.DXFOptionsFrom(r.Config.Export))
	case FormatPDF:
		opts := export.PDFOptionsFrom(r.Config.Export, r.Preset.PricePerSheet)
		opts.Summary = true
		art.Data, art.Diagnostics, err = export.PDF(r.Nesting, opts)
	case FormatLabels:
		art.Data, err = export.PanelLabels(r.Nesting)
	case FormatXLSX:
		if err = export.CheckExportable(r.Nesting); err == nil {
			art.Data, err = export.CutListXLSX(r.Nesting, r.Estimate)
		}
	case FormatMesh:
		art.Data = export.OBJ(r.Meshes)
	case FormatPreview:
		art.Data, art.Diagnostics, err = export.PreviewPDF(r.Meshes, export.DefaultCamera(r.Meshes), r.Name())
	default:
		err = fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return Artifact{Format: f}, fmt.Errorf("%s: %w", f, err)
	}
	return art, nil
}

// ExportAll renders the formats concurrently, one goroutine per format.
// Artifacts come back in the order requested; formats that failed are left
// out and their errors joined.
func (r *Result) ExportAll(ctx context.Context, formats []Format) ([]Artifact, error) {
	arts := make([]Artifact, len(formats))
	errs := make([]error, len(formats))

	var wg sync.WaitGroup
	for i, f := range formats {
		wg.Add(1)
		go func(i int, f Format) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			arts[i], errs[i] = r.Render(f)
		}(i, f)
	}
	wg.Wait()

	var out []Artifact
	for i := range formats {
		if errs[i] == nil {
			out = append(out, arts[i])
		}
	}
	return out, errors.Join(errs...)
}

// WriteArtifacts saves each artifact as <dir>/<name><suffix> and returns
// the written paths.
func WriteArtifacts(dir, name string, arts []Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	paths := make([]string, 0, len(arts))
	for _, a := range arts {
		path := filepath.Join(dir, SafeName(name)+a.Format.FileSuffix())
		if err := os.WriteFile(path, a.Data, 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Debugf("pipeline: wrote %s (%d bytes)", path, len(a.Data))
		paths = append(paths, path)
	}
	return paths, nil
}

// SafeName turns a project name into a file name stem.
func SafeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "parasys"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
