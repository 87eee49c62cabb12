// Package importer reads furniture job lists from CSV and Excel files and
// reads nested DXF drawings back into loops. Headers are matched
// case-insensitively against known aliases and CSV delimiters are detected.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/parasys/internal/model"
)

// Job is one furniture design from a batch file. Dimensions are in meters.
type Job struct {
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Depth    float64 `json:"depth"`
	Dividers int     `json:"dividers"`
	Shelves  int     `json:"shelves"`
	Material string  `json:"material,omitempty"` // empty keeps the base material
}

// Config returns base with the job's dimensions, counts and material applied.
func (j Job) Config(base model.PipelineConfig) model.PipelineConfig {
	cfg := base
	cfg.Parameters.Width = j.Width
	cfg.Parameters.Height = j.Height
	cfg.Parameters.Depth = j.Depth
	cfg.Parameters.Dividers = j.Dividers
	cfg.Parameters.Shelves = j.Shelves
	if j.Material != "" {
		cfg.Material = j.Material
	}
	cfg.Export.ProjectName = j.Name
	return cfg
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Jobs     []Job
	Errors   []string
	Warnings []string
}

// ColumnMapping maps column roles to their indices; -1 means absent.
type ColumnMapping struct {
	Name     int
	Width    int
	Height   int
	Depth    int
	Dividers int
	Shelves  int
	Material int
}

// headerAliases maps column roles to their accepted header spellings (lowercase).
var headerAliases = map[string][]string{
	"name":     {"name", "job", "label", "design", "description", "item"},
	"width":    {"width", "w", "x"},
	"height":   {"height", "h", "y"},
	"depth":    {"depth", "d", "z"},
	"dividers": {"dividers", "divider", "verticals", "columns"},
	"shelves":  {"shelves", "shelf", "rows"},
	"material": {"material", "mat", "finish"},
}

// DetectCSVDelimiter returns the most likely delimiter among comma,
// semicolon, tab and pipe: the one that splits the most rows into the same
// (more than one) column count.
func DetectCSVDelimiter(data []byte) rune {
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range []rune{',', ';', '\t', '|'} {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}
		score := lo.CountBy(records, func(row []string) bool { return len(row) == firstCols })
		if weighted := score*10 + firstCols; weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}
	return bestDelimiter
}

// DetectColumns maps a header row to column roles. When no cell matches an
// alias it returns the positional mapping (name, width, height, depth,
// dividers, shelves, material) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	m := ColumnMapping{Name: -1, Width: -1, Height: -1, Depth: -1, Dividers: -1, Shelves: -1, Material: -1}
	slots := map[string]*int{
		"name": &m.Name, "width": &m.Width, "height": &m.Height, "depth": &m.Depth,
		"dividers": &m.Dividers, "shelves": &m.Shelves, "material": &m.Material,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			if !lo.Contains(aliases, normalized) {
				continue
			}
			isHeader = true
			if *slots[role] == -1 {
				*slots[role] = i
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Name: 0, Width: 1, Height: 2, Depth: 3, Dividers: 4, Shelves: 5, Material: 6}, false
	}
	return m, true
}

// getCell returns the trimmed cell at idx, or "" when out of range.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDimension(row []string, idx int, rowLabel, column string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, column)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, column, s)
	}
	if v <= 0 {
		return 0, fmt.Sprintf("%s: %s must be positive", rowLabel, column)
	}
	return v, ""
}

func parseCount(row []string, idx int, rowLabel, column string) (int, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, column, s)
	}
	if v < 0 {
		return 0, fmt.Sprintf("%s: %s must not be negative", rowLabel, column)
	}
	return v, ""
}

// parseRow extracts a Job from a row. It returns the job and an error
// message, empty on success.
func parseRow(row []string, m ColumnMapping, rowLabel string, jobCount int) (Job, string) {
	job := Job{
		Name:     getCell(row, m.Name),
		Material: getCell(row, m.Material),
	}
	if job.Name == "" {
		job.Name = fmt.Sprintf("job-%02d", jobCount+1)
	}

	var msg string
	if job.Width, msg = parseDimension(row, m.Width, rowLabel, "width"); msg != "" {
		return Job{}, msg
	}
	if job.Height, msg = parseDimension(row, m.Height, rowLabel, "height"); msg != "" {
		return Job{}, msg
	}
	if job.Depth, msg = parseDimension(row, m.Depth, rowLabel, "depth"); msg != "" {
		return Job{}, msg
	}
	if job.Dividers, msg = parseCount(row, m.Dividers, rowLabel, "dividers"); msg != "" {
		return Job{}, msg
	}
	if job.Shelves, msg = parseCount(row, m.Shelves, rowLabel, "shelves"); msg != "" {
		return Job{}, msg
	}
	return job, ""
}

func isEmptyRow(row []string) bool {
	return lo.EveryBy(row, func(cell string) bool { return strings.TrimSpace(cell) == "" })
}

// ImportCSV imports jobs from a CSV file with any supported delimiter.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}
	return importCSV(bytes.NewReader(data), delimiter, warnings)
}

// ImportCSVFromReader imports jobs from CSV data with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	return importCSV(r, delimiter, nil)
}

func importCSV(r io.Reader, delimiter rune, warnings []string) ImportResult {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}, Warnings: warnings}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}, Warnings: warnings}
	}
	return importFromRows(records, "Line", warnings)
}

// ImportExcel imports jobs from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{Errors: []string{"Excel file has no sheets"}}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read Excel data: %v", err)}}
	}
	if len(rows) == 0 {
		return ImportResult{Errors: []string{"Sheet is empty"}}
	}
	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension: .xlsx and .xlsm go to
// ImportExcel, everything else is read as CSV.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is shared by the CSV and Excel readers.
func importFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if mapping.Depth == -1 {
			missing = append(missing, "Depth")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := strconv.ParseFloat(getCell(rows[0], 1), 64); err != nil && len(rows[0]) >= 4 {
		// An unrecognised header: skip it but keep the positional mapping.
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := startRow; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		job, msg := parseRow(rows[i], mapping, rowLabel, len(result.Jobs))
		if msg != "" {
			result.Errors = append(result.Errors, msg)
			continue
		}
		result.Jobs = append(result.Jobs, job)
	}
	return result
}
