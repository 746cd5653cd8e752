// Package carousel tracks which card of the storefront feed is in focus.
package carousel

import "math"

// Tracker holds the centered card index for a feed of Len cards. Navigation never wraps.
type Tracker struct {
	Len      int
	Centered int
}

// New returns a tracker focused on start, clamped into range.
func New(n, start int) Tracker {
	return Tracker{Len: n}.Jump(start)
}

func (t Tracker) Prev() Tracker { return t.Jump(t.Centered - 1) }

func (t Tracker) Next() Tracker { return t.Jump(t.Centered + 1) }

// Jump focuses card i. Out-of-range indexes clamp to the first or last card.
func (t Tracker) Jump(i int) Tracker {
	switch {
	case t.Len <= 0:
		i = 0
	case i < 0:
		i = 0
	case i >= t.Len:
		i = t.Len - 1
	}
	t.Centered = i
	return t
}

// Key applies a keyboard key. Only ArrowLeft and ArrowRight move the focus.
func (t Tracker) Key(key string) Tracker {
	switch key {
	case "ArrowLeft":
		return t.Prev()
	case "ArrowRight":
		return t.Next()
	}
	return t
}

// HasPrev and HasNext drive the disabled state of the navigation buttons.
func (t Tracker) HasPrev() bool { return t.Centered > 0 }
func (t Tracker) HasNext() bool { return t.Centered < t.Len-1 }

// Dot is one pagination dot.
type Dot struct {
	Index    int
	Selected bool
}

func (t Tracker) Dots() []Dot {
	dots := make([]Dot, t.Len)
	for i := range dots {
		dots[i] = Dot{Index: i, Selected: i == t.Centered}
	}
	return dots
}

// Span is a horizontal extent in pixels, as reported by the client.
type Span struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

func (s Span) Right() float64 { return s.Left + s.Width }

// visible returns the part of s inside c and whether any of it is.
func (s Span) visible(c Span) (Span, bool) {
	l := math.Max(s.Left, c.Left)
	r := math.Min(s.Right(), c.Right())
	if r <= l {
		return Span{}, false
	}
	return Span{Left: l, Width: r - l}, true
}

func (s Span) center() float64 { return s.Left + s.Width/2 }

// CenteredIndex returns the card whose visible part has its center nearest the container's
// center. Ties go to the lower index. Cards entirely outside the container are ignored;
// -1 means nothing is visible.
func CenteredIndex(container Span, cards []Span) int {
	best, bestDist := -1, math.Inf(1)
	mid := container.center()
	for i, card := range cards {
		v, ok := card.visible(container)
		if !ok {
			continue
		}
		if d := math.Abs(v.center() - mid); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
