package layout

import (
	"math"
	"sort"
)

// Slot is an open position found on a page.
type Slot struct {
	// X is the left edge of the content, inside its left clearance.
	X float64
	// Top is the top edge of the content.
	Top float64
	// Baseline is Top minus the height required above the baseline.
	Baseline float64
	// Available is the width free to the right of X, minus the right
	// clearance.
	Available float64
}

// Position returns the baseline origin of the slot.
func (s Slot) Position() Position { return Position{X: s.X, Y: s.Baseline} }

// OpenPosition finds the first place, scanning top-down and then
// left-to-right, where content of the given height above and below its
// baseline and the given width fits together with its spacing. start
// gives an optional top-left corner: an explicit Y fixes where the scan
// begins, an explicit X pins the left edge. The scan starts below the most
// recent flow placement otherwise. An X outside the usable area is taken
// as-is: only the vertical scan applies and the width available there is
// unbounded. It reports false when the page has no such room left.
func (p *Page) OpenPosition(above, below float64, sp Spacing, width float64, start Position) (Slot, bool) {
	u := p.Usable()
	need := width + sp.Left + sp.Right
	outside := start.HasX() && !(start.X >= u.Left && start.X < u.Right)
	if !outside {
		if need > u.Width()+epsilon {
			return Slot{}, false
		}
		if start.HasX() && (start.X-sp.Left < u.Left-epsilon || start.X+width+sp.Right > u.Right+epsilon) {
			return Slot{}, false
		}
	}

	top := p.cursor - sp.Top
	if start.HasY() {
		top = start.Y
	}
	for {
		bandTop := top + sp.Top
		bandBottom := top - above - below - sp.Bottom
		if bandBottom < u.Bottom-epsilon {
			return Slot{}, false
		}

		var blockers []Rect
		for _, b := range p.boxes {
			if b.Kind == BoxSpacing {
				continue
			}
			if b.Bottom < bandTop-epsilon && b.Top > bandBottom+epsilon {
				blockers = append(blockers, b.Rect)
			}
		}

		if x, avail, ok := openGap(blockers, u.Left, u.Right, need, sp, start); ok {
			if outside {
				avail = math.Inf(1)
			}
			return Slot{X: x, Top: top, Baseline: top - above, Available: avail}, true
		}
		if len(blockers) == 0 {
			return Slot{}, false
		}

		// Jump to just below the blocker that frees the band soonest.
		next := math.Inf(-1)
		for _, b := range blockers {
			if c := b.Bottom - sp.Top; c > next {
				next = c
			}
		}
		top = next
	}
}

type interval struct{ lo, hi float64 }

// openGap scans the free intervals of [left, right] not covered by the
// blockers and returns the content x and the available width of the
// first one at least need wide.
func openGap(blockers []Rect, left, right, need float64, sp Spacing, start Position) (float64, float64, bool) {
	ivs := make([]interval, 0, len(blockers))
	for _, b := range blockers {
		lo, hi := math.Max(b.Left, left), math.Min(b.Right, right)
		if hi > lo {
			ivs = append(ivs, interval{lo, hi})
		}
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].lo < ivs[j].lo })
	merged := ivs[:0]
	for _, iv := range ivs {
		if n := len(merged); n > 0 && iv.lo <= merged[n-1].hi+epsilon {
			merged[n-1].hi = math.Max(merged[n-1].hi, iv.hi)
			continue
		}
		merged = append(merged, iv)
	}

	if start.HasX() {
		lo := start.X - sp.Left
		end := right
		for _, iv := range merged {
			if iv.lo < lo+need-epsilon && iv.hi > lo+epsilon {
				return 0, 0, false
			}
			if iv.lo >= lo+need-epsilon && iv.lo < end {
				end = iv.lo
			}
		}
		return start.X, end - start.X - sp.Right, true
	}

	cur := left
	for _, iv := range merged {
		if iv.lo-cur >= need-epsilon {
			return cur + sp.Left, iv.lo - cur - sp.Left - sp.Right, true
		}
		cur = math.Max(cur, iv.hi)
	}
	if right-cur >= need-epsilon {
		return cur + sp.Left, right - cur - sp.Left - sp.Right, true
	}
	return 0, 0, false
}
