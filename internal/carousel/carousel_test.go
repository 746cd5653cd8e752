package carousel

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNavigationClamps(t *testing.T) {
	tr := New(3, 0)
	if got := tr.Prev().Centered; got != 0 {
		t.Fatalf("prev at first card: got %d", got)
	}
	tr = tr.Next().Next().Next()
	if tr.Centered != 2 {
		t.Fatalf("next past the end: got %d", tr.Centered)
	}
	if tr.HasNext() || !tr.HasPrev() {
		t.Fatalf("button state wrong at last card: %+v", tr)
	}
}

func TestJump(t *testing.T) {
	tests := []struct {
		n, to, want int
	}{
		{5, 3, 3},
		{5, -4, 0},
		{5, 99, 4},
		{0, 2, 0},
	}
	for _, tt := range tests {
		if got := New(tt.n, 0).Jump(tt.to).Centered; got != tt.want {
			t.Errorf("Jump(%d) on %d cards = %d, want %d", tt.to, tt.n, got, tt.want)
		}
	}
}

func TestKey(t *testing.T) {
	tr := New(4, 1)
	if tr.Key("ArrowRight").Centered != 2 {
		t.Fatal("ArrowRight should advance")
	}
	if tr.Key("ArrowLeft").Centered != 0 {
		t.Fatal("ArrowLeft should go back")
	}
	if tr.Key("Enter").Centered != 1 {
		t.Fatal("other keys must not move the focus")
	}
}

func TestDots(t *testing.T) {
	dots := New(3, 1).Dots()
	if len(dots) != 3 {
		t.Fatalf("want 3 dots, got %d", len(dots))
	}
	for i, d := range dots {
		if d.Selected != (i == 1) {
			t.Fatalf("dot %d selected=%v", i, d.Selected)
		}
	}
}

func TestCenteredIndex(t *testing.T) {
	container := Span{Left: 0, Width: 300}
	tests := []struct {
		name  string
		cards []Span
		want  int
	}{
		{"empty", nil, -1},
		{"single", []Span{{Left: 0, Width: 100}}, 0},
		{"middle of three", []Span{{Left: 0, Width: 100}, {Left: 100, Width: 100}, {Left: 200, Width: 100}}, 1},
		{"scrolled", []Span{{Left: -150, Width: 100}, {Left: -50, Width: 100}, {Left: 50, Width: 100}, {Left: 150, Width: 100}}, 2},
		{"tie goes to lower index", []Span{{Left: 50, Width: 100}, {Left: 150, Width: 100}}, 0},
		{"partially visible card uses its visible part", []Span{{Left: 200, Width: 400}, {Left: 0, Width: 20}}, 0},
		{"nothing visible", []Span{{Left: 400, Width: 100}, {Left: -200, Width: 100}}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CenteredIndex(container, tt.cards); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}
