package ui

import "github.com/piwi3910/parasys/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the editable design state at a point in time.
type Snapshot struct {
	Parameters model.FurnitureParameters
	Interlock  model.InterlockOptions
	Material   string
	Sheet      model.SheetOverrides
	Label      string // Human-readable description (e.g. "Shelves 2")
}

// History keeps bounded undo and redo stacks of design snapshots.
type History struct {
	undo     []Snapshot
	redo     []Snapshot
	maxDepth int
}

// NewHistory creates a History holding at most defaultMaxDepth undo steps.
func NewHistory() *History {
	return &History{maxDepth: defaultMaxDepth}
}

// Push records the state before an edit and drops the redo stack. A
// snapshot equal to the newest undo entry is not recorded twice.
func (h *History) Push(s Snapshot) {
	h.redo = nil
	if n := len(h.undo); n > 0 && h.undo[n-1].sameDesign(s) {
		return
	}
	h.undo = append(h.undo, s)
	if len(h.undo) > h.maxDepth {
		h.undo = h.undo[len(h.undo)-h.maxDepth:]
	}
}

// Undo returns the state to restore and moves current onto the redo stack.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	prev, ok := pop(&h.undo)
	if ok {
		h.redo = append(h.redo, current)
	}
	return prev, ok
}

// Redo reverses the last Undo and moves current back onto the undo stack.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	next, ok := pop(&h.redo)
	if ok {
		h.undo = append(h.undo, current)
	}
	return next, ok
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }

func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoLabel names the edit Undo would revert, or "" when there is none.
func (h *History) UndoLabel() string {
	if len(h.undo) == 0 {
		return ""
	}
	return h.undo[len(h.undo)-1].Label
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

func pop(stack *[]Snapshot) (Snapshot, bool) {
	n := len(*stack)
	if n == 0 {
		return Snapshot{}, false
	}
	s := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return s, true
}

// sameDesign compares everything but the label.
func (s Snapshot) sameDesign(o Snapshot) bool {
	return s.Parameters == o.Parameters &&
		s.Interlock == o.Interlock &&
		s.Material == o.Material &&
		floatEq(s.Sheet.SheetWidthMm, o.Sheet.SheetWidthMm) &&
		floatEq(s.Sheet.SheetHeightMm, o.Sheet.SheetHeightMm) &&
		floatEq(s.Sheet.MarginMm, o.Sheet.MarginMm) &&
		floatEq(s.Sheet.SpacingMm, o.Sheet.SpacingMm) &&
		boolEq(s.Sheet.AllowRotate90, o.Sheet.AllowRotate90)
}

func floatEq(a, b *float64) bool {
	return (a == nil && b == nil) || (a != nil && b != nil && *a == *b)
}

func boolEq(a, b *bool) bool {
	return (a == nil && b == nil) || (a != nil && b != nil && *a == *b)
}

// copyFloat returns a pointer to a copy of *v, or nil.
func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return model.Float64(*v)
}

// copyOverrides detaches the override pointers from the live config so later
// edits do not leak into the snapshot.
func copyOverrides(o model.SheetOverrides) model.SheetOverrides {
	out := model.SheetOverrides{
		SheetWidthMm:  copyFloat(o.SheetWidthMm),
		SheetHeightMm: copyFloat(o.SheetHeightMm),
		MarginMm:      copyFloat(o.MarginMm),
		SpacingMm:     copyFloat(o.SpacingMm),
	}
	if o.AllowRotate90 != nil {
		out.AllowRotate90 = model.Bool(*o.AllowRotate90)
	}
	return out
}

// MakeSnapshot captures the editable part of a pipeline config with a label.
func MakeSnapshot(cfg model.PipelineConfig, label string) Snapshot {
	return Snapshot{
		Parameters: cfg.Parameters,
		Interlock:  cfg.Interlock,
		Material:   cfg.Material,
		Sheet:      copyOverrides(cfg.Sheet),
		Label:      label,
	}
}

// Apply writes the snapshot back into cfg.
func (s Snapshot) Apply(cfg *model.PipelineConfig) {
	cfg.Parameters = s.Parameters
	cfg.Interlock = s.Interlock
	cfg.Material = s.Material
	cfg.Sheet = copyOverrides(s.Sheet)
}
