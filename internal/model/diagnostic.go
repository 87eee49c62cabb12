package model

import "fmt"

// Severity grades a Diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}

// Diagnostic codes.
const (
	CodeHoleOverlap    = "hole-overlap"
	CodeSlotDiscarded  = "slot-discarded"
	CodeDegenerateLoop = "degenerate-loop"
	CodeLabelDropped   = "label-dropped"
	CodePanelRejected  = "panel-rejected"
)

// Diagnostic is a non-fatal finding reported as data.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	PanelID  string   `json:"panel_id,omitempty"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	if d.PanelID == "" {
		return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.PanelID, d.Message)
}

// Diagnostics is an ordered list of findings.
type Diagnostics []Diagnostic

// Add appends a diagnostic built from a format string.
func (ds *Diagnostics) Add(sev Severity, panelID, code, format string, args ...any) {
	*ds = append(*ds, Diagnostic{
		Severity: sev,
		PanelID:  panelID,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Count returns how many diagnostics have at least the given severity.
func (ds Diagnostics) Count(min Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity >= min {
			n++
		}
	}
	return n
}
