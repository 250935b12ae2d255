package layout

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func testPage() *Page { return NewPage(200, 200, UniformMargins(10)) }

func TestPositionEqual(t *testing.T) {
	cases := []struct {
		a, b Position
		want bool
	}{
		{AutoPosition(), AutoPosition(), true},
		{AutoPosition(), At(0, 0), false},
		{At(1, 2), At(1+1e-7, 2), true},
		{At(1, 2), At(1.1, 2), false},
		{Position{X: 5, Y: Auto}, Position{X: 5, Y: Auto}, true},
	}
	for _, c := range cases {
		if got := c.a.Equal(c.b); got != c.want {
			t.Errorf("%v.Equal(%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
	if (Position{}).HasCustomPosition() != true {
		t.Errorf("zero position is explicit")
	}
	if AutoPosition().HasCustomPosition() {
		t.Errorf("auto position reported as custom")
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{Left: 0, Bottom: 0, Right: 10, Top: 10}
	if a.Overlaps(Rect{Left: 10, Bottom: 0, Right: 20, Top: 10}) {
		t.Errorf("rectangles sharing an edge overlap")
	}
	if !a.Overlaps(Rect{Left: 5, Bottom: 5, Right: 15, Top: 15}) {
		t.Errorf("intersecting rectangles do not overlap")
	}
}

func TestOpenPosition(t *testing.T) {
	t.Run("empty page", func(t *testing.T) {
		p := testPage()
		slot, ok := p.OpenPosition(10, 2, Spacing{}, 50, AutoPosition())
		if !ok {
			t.Fatal("no slot on empty page")
		}
		want := Slot{X: 10, Top: 190, Baseline: 180, Available: 180}
		if slot != want {
			t.Errorf("slot = %+v, want %+v", slot, want)
		}
	})

	t.Run("spacing", func(t *testing.T) {
		p := testPage()
		slot, ok := p.OpenPosition(10, 0, Spacing{Left: 5, Top: 3}, 50, AutoPosition())
		if !ok {
			t.Fatal("no slot")
		}
		if slot.X != 15 || slot.Top != 187 || slot.Available != 175 {
			t.Errorf("slot = %+v", slot)
		}
	})

	t.Run("jumps below blocker", func(t *testing.T) {
		p := testPage()
		p.reserve(Rect{Left: 10, Bottom: 150, Right: 190, Top: 190}, BoxFlow)
		slot, ok := p.OpenPosition(10, 0, Spacing{}, 50, AutoPosition())
		if !ok {
			t.Fatal("no slot")
		}
		if slot.Top != 150 || slot.X != 10 {
			t.Errorf("slot = %+v, want top 150", slot)
		}
	})

	t.Run("gap beside blocker", func(t *testing.T) {
		p := testPage()
		p.reserve(Rect{Left: 10, Bottom: 100, Right: 100, Top: 190}, BoxFlow)
		slot, ok := p.OpenPosition(10, 0, Spacing{}, 50, AutoPosition())
		if !ok {
			t.Fatal("no slot")
		}
		if slot.X != 100 || slot.Top != 190 || slot.Available != 90 {
			t.Errorf("slot = %+v", slot)
		}
		wide, ok := p.OpenPosition(10, 0, Spacing{}, 120, AutoPosition())
		if !ok {
			t.Fatal("no slot for wide content")
		}
		if wide.X != 10 || wide.Top != 100 {
			t.Errorf("wide slot = %+v", wide)
		}
	})

	t.Run("explicit x", func(t *testing.T) {
		p := testPage()
		slot, ok := p.OpenPosition(10, 0, Spacing{}, 20, Position{X: 50, Y: Auto})
		if !ok {
			t.Fatal("no slot")
		}
		if slot.X != 50 || slot.Available != 140 {
			t.Errorf("slot = %+v", slot)
		}
	})

	t.Run("explicit x outside usable area", func(t *testing.T) {
		p := testPage()
		p.reserve(Rect{Left: 0, Bottom: 150, Right: 60, Top: 190}, BoxFlow)
		slot, ok := p.OpenPosition(10, 0, Spacing{}, 300, Position{X: 2, Y: Auto})
		if !ok {
			t.Fatal("no slot")
		}
		if slot.X != 2 || slot.Top != 150 || !math.IsInf(slot.Available, 1) {
			t.Errorf("slot = %+v, want x 2 below the blocker with unbounded width", slot)
		}
	})

	t.Run("spacing does not block", func(t *testing.T) {
		p := testPage()
		p.reserve(Rect{Left: 10, Bottom: 120, Right: 190, Top: 180}, BoxSpacing)
		slot, ok := p.OpenPosition(10, 0, Spacing{}, 50, Position{X: Auto, Y: 170})
		if !ok {
			t.Fatal("no slot")
		}
		if slot.Top != 170 {
			t.Errorf("slot = %+v, want top 170 inside the spacer", slot)
		}
		next, ok := p.OpenPosition(10, 0, Spacing{}, 50, AutoPosition())
		if !ok || next.Top != 120 {
			t.Errorf("flow slot = %+v, want top 120 below the spacer", next)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		p := testPage()
		if _, ok := p.OpenPosition(10, 0, Spacing{}, 181, AutoPosition()); ok {
			t.Errorf("content wider than the page fits")
		}
		if _, ok := p.OpenPosition(181, 0, Spacing{}, 10, AutoPosition()); ok {
			t.Errorf("content taller than the page fits")
		}
		p.reserve(Rect{Left: 10, Bottom: 15, Right: 190, Top: 190}, BoxFlow)
		if _, ok := p.OpenPosition(10, 0, Spacing{}, 10, AutoPosition()); ok {
			t.Errorf("slot found on a full page")
		}
	})
}

func TestReserveKeepsFilledWithinUsable(t *testing.T) {
	p := testPage()
	p.reserve(Rect{Left: 0, Bottom: -50, Right: 400, Top: 190}, BoxFlow)
	if p.FilledHeight() > 180 || p.FilledWidth() > 180 {
		t.Errorf("filled %v x %v exceeds usable area", p.FilledWidth(), p.FilledHeight())
	}
	if p.IsEmpty() {
		t.Errorf("page with a flow box reported empty")
	}
}
