package engine

import (
	"context"
	"math"
	"sort"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"

	"github.com/piwi3910/parasys/internal/model"
)

// epsilon absorbs float noise from the m -> mm conversion (mm).
const epsilon = 1e-6

// Nest packs panels onto as many sheets as needed. It never fails: panels
// that fit no orientation on an empty sheet are reported in Rejected.
func Nest(inputs []model.NestingInput, opts model.SheetOptions) model.NestingResult {
	result, _ := NestContext(context.Background(), inputs, opts)
	return result
}

// NestContext is Nest with a cancellation check between placements. On
// cancellation it returns the placements made so far and ctx.Err().
func NestContext(ctx context.Context, inputs []model.NestingInput, opts model.SheetOptions) (model.NestingResult, error) {
	result := model.NestingResult{
		Options:    opts,
		Placements: []model.Placement{},
		Rejected:   []model.RejectedPanel{},
	}

	panels := make([]model.NestingInput, len(inputs))
	copy(panels, inputs)
	sort.SliceStable(panels, func(i, j int) bool {
		return panels[i].LongSide() > panels[j].LongSide()
	})

	var sheets []*sheetPacker
	for _, panel := range panels {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		candidates := orientations(panel, opts)
		if len(candidates) == 0 {
			logger.Debugf("nesting: %s (%.1f x %.1f mm) exceeds the usable area of a %.0f x %.0f mm sheet",
				panel.ID, panel.WidthMm, panel.HeightMm, opts.SheetWidthMm, opts.SheetHeightMm)
			result.Rejected = append(result.Rejected, model.RejectedPanel{
				ID:       panel.ID,
				Kind:     panel.Kind,
				WidthMm:  panel.WidthMm,
				HeightMm: panel.HeightMm,
			})
			continue
		}

		sheetIndex := -1
		var best fit
		for i, s := range sheets {
			if f, ok := s.bestShortSideFit(candidates); ok {
				sheetIndex, best = i, f
				break
			}
		}
		if sheetIndex < 0 {
			fresh := newSheetPacker(opts)
			f, ok := fresh.bestShortSideFit(candidates)
			if !ok {
				// fits the usable area but not with its trailing spacing
				result.Rejected = append(result.Rejected, model.RejectedPanel{
					ID: panel.ID, Kind: panel.Kind, WidthMm: panel.WidthMm, HeightMm: panel.HeightMm,
				})
				continue
			}
			sheets = append(sheets, fresh)
			sheetIndex, best = len(sheets)-1, f
			logger.Debugf("nesting: opened sheet %d for %s", sheetIndex+1, panel.ID)
		}

		sheets[sheetIndex].place(best.occupied)
		result.Placements = append(result.Placements, model.Placement{
			ID:             panel.ID,
			Kind:           panel.Kind,
			SheetIndex:     sheetIndex,
			XMm:            best.occupied.x,
			YMm:            best.occupied.y,
			WidthMm:        panel.WidthMm,
			HeightMm:       panel.HeightMm,
			WidthPlacedMm:  best.orientation.w,
			HeightPlacedMm: best.orientation.h,
			Rotate90:       best.orientation.rotate90,
			Loops:          panel.Loops,
		})
	}

	result.SheetCount = len(sheets)
	return result, nil
}

// orientation is one way to lay a panel on the sheet.
type orientation struct {
	w, h     float64
	rotate90 bool
}

// orientations lists the unrotated form, plus the swapped form when
// rotation is allowed, dropping any that exceed the usable area.
func orientations(panel model.NestingInput, opts model.SheetOptions) []orientation {
	all := []orientation{{w: panel.WidthMm, h: panel.HeightMm}}
	if opts.AllowRotate90 {
		all = append(all, orientation{w: panel.HeightMm, h: panel.WidthMm, rotate90: true})
	}
	return lo.Filter(all, func(o orientation, _ int) bool {
		return o.w <= opts.UsableWidth()+epsilon && o.h <= opts.UsableHeight()+epsilon
	})
}

// fit is a candidate placement scored by Best-Short-Side-Fit.
type fit struct {
	orientation orientation
	occupied    rect // placed footprint plus trailing spacing
	shortSide   float64
	longSide    float64
}

// sheetPacker tracks the maximal free rectangles of one sheet.
type sheetPacker struct {
	freeRects []rect
	spacing   float64
}

type rect struct {
	x, y, w, h float64
}

// newSheetPacker starts with one free rect covering the usable area. Every
// occupied rect carries its trailing spacing, so a panel must leave room for
// that gap inside the usable area too.
func newSheetPacker(opts model.SheetOptions) *sheetPacker {
	return &sheetPacker{
		freeRects: []rect{{
			x: opts.MarginMm,
			y: opts.MarginMm,
			w: opts.UsableWidth(),
			h: opts.UsableHeight(),
		}},
		spacing: math.Max(0, opts.SpacingMm),
	}
}

// bestShortSideFit scores every free rect against every orientation and
// returns the one with the least short-side waste, ties broken by the least
// long-side waste. The first candidate wins exact ties.
func (sp *sheetPacker) bestShortSideFit(candidates []orientation) (fit, bool) {
	var best fit
	found := false
	for _, r := range sp.freeRects {
		for _, o := range candidates {
			ow, oh := o.w+sp.spacing, o.h+sp.spacing
			if ow > r.w+epsilon || oh > r.h+epsilon {
				continue
			}
			wasteX, wasteY := r.w-ow, r.h-oh
			short, long := math.Min(wasteX, wasteY), math.Max(wasteX, wasteY)
			if !found || short < best.shortSide || (short == best.shortSide && long < best.longSide) {
				best = fit{
					orientation: o,
					occupied:    rect{x: r.x, y: r.y, w: ow, h: oh},
					shortSide:   short,
					longSide:    long,
				}
				found = true
			}
		}
	}
	return best, found
}

// place splits every free rect the occupied rect intersects into its
// left, right, top and bottom remainders and prunes contained ones.
func (sp *sheetPacker) place(occupied rect) {
	var next []rect
	for _, r := range sp.freeRects {
		next = append(next, splitFreeRect(r, occupied)...)
	}
	sp.freeRects = pruneContained(next)
}

func splitFreeRect(free, used rect) []rect {
	if !rectsOverlap(free, used) {
		return []rect{free}
	}
	freeRight, freeBottom := free.x+free.w, free.y+free.h
	usedRight, usedBottom := used.x+used.w, used.y+used.h

	fragments := make([]rect, 0, 4)
	// Left strip (full height)
	if used.x > free.x {
		fragments = append(fragments, rect{x: free.x, y: free.y, w: used.x - free.x, h: free.h})
	}
	// Right strip (full height)
	if usedRight < freeRight {
		fragments = append(fragments, rect{x: usedRight, y: free.y, w: freeRight - usedRight, h: free.h})
	}
	// Top strip (full width)
	if used.y > free.y {
		fragments = append(fragments, rect{x: free.x, y: free.y, w: free.w, h: used.y - free.y})
	}
	// Bottom strip (full width)
	if usedBottom < freeBottom {
		fragments = append(fragments, rect{x: free.x, y: usedBottom, w: free.w, h: freeBottom - usedBottom})
	}
	return lo.Filter(fragments, func(r rect, _ int) bool {
		return r.w > epsilon && r.h > epsilon
	})
}

// rectsOverlap returns true if two rectangles overlap (not just touch).
func rectsOverlap(a, b rect) bool {
	return a.x < b.x+b.w-epsilon && a.x+a.w > b.x+epsilon &&
		a.y < b.y+b.h-epsilon && a.y+a.h > b.y+epsilon
}

// pruneContained removes any rect fully contained within another. Of two
// identical rects the first is kept.
func pruneContained(rects []rect) []rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !containsRect(b, a) {
				continue
			}
			if containsRect(a, b) && j > i {
				continue // duplicate, keep the earlier one
			}
			contained = true
			break
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

// containsRect returns true if outer fully contains inner.
func containsRect(outer, inner rect) bool {
	return outer.x <= inner.x+epsilon && outer.y <= inner.y+epsilon &&
		outer.x+outer.w >= inner.x+inner.w-epsilon &&
		outer.y+outer.h >= inner.y+inner.h-epsilon
}

// InputsFromProfiles converts panel specs to nesting inputs in mm. This is
// the only place meters become millimeters.
func InputsFromProfiles(specs []model.PanelSpec, profiles []model.PanelProfile) []model.NestingInput {
	byID := lo.KeyBy(profiles, func(p model.PanelProfile) string { return p.PanelID })
	return lo.Map(specs, func(s model.PanelSpec, _ int) model.NestingInput {
		in := model.NestingInput{
			ID:       s.ID,
			Kind:     s.Kind,
			WidthMm:  s.Width * 1000,
			HeightMm: s.Height * 1000,
		}
		if p, ok := byID[s.ID]; ok {
			in.Loops = p.Loops()
		}
		return in
	})
}
