package detection

import (
	"image"
	"math"
	"testing"
)

func TestBoxOf(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   Box
	}{
		{"empty", nil, Box{}},
		{"single point", []Point{{5, 7}}, Box{X: 5, Y: 7}},
		{"square", []Point{{10, 10}, {30, 10}, {30, 30}, {10, 30}}, Box{10, 10, 20, 20}},
		{"unordered", []Point{{40, 5}, {2, 9}, {17, 1}}, Box{2, 1, 38, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoxOf(tt.points); got != tt.want {
				t.Errorf("BoxOf() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIoU(t *testing.T) {
	a := Box{0, 0, 100, 100}

	tests := []struct {
		name string
		a, b Box
		want float64
	}{
		{"identical", a, a, 1},
		{"disjoint", a, Box{200, 200, 50, 50}, 0},
		{"touching edges", a, Box{100, 0, 100, 100}, 0},
		{"half overlap", a, Box{50, 0, 100, 100}, 5000.0 / 15000.0},
		{"nested", a, Box{25, 25, 50, 50}, 2500.0 / 10000.0},
		{"zero area", Box{10, 10, 0, 0}, Box{10, 10, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IoU(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("IoU() = %v, want %v", got, tt.want)
			}
			if sym := IoU(tt.b, tt.a); math.Abs(sym-got) > 1e-12 {
				t.Errorf("IoU is not symmetric: %v vs %v", got, sym)
			}
		})
	}
}

func TestBox_Contains(t *testing.T) {
	outer := Box{0, 0, 200, 200}

	tests := []struct {
		name  string
		inner Box
		want  bool
	}{
		{"strictly inside", Box{50, 50, 20, 20}, true},
		{"touching all edges", outer, true},
		{"touching right edge", Box{180, 10, 20, 20}, true},
		{"crossing right edge", Box{190, 10, 20, 20}, false},
		{"outside", Box{300, 300, 10, 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.inner, got, tt.want)
			}
		})
	}
}

func TestBox_Rect(t *testing.T) {
	b := Box{10, 20, 30, 40}
	if got, want := b.Rect(), image.Rect(10, 20, 40, 60); got != want {
		t.Errorf("Rect() = %v, want %v", got, want)
	}
}
