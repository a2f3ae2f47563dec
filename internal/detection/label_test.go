package detection

import (
	"context"
	"errors"
	"testing"
)

// mapRegistry is an in-test registry with optional per-nid failures.
type mapRegistry struct {
	names  map[string]string
	failOn map[string]bool
	calls  []string
}

func (r *mapRegistry) Lookup(ctx context.Context, nid string) (string, bool, error) {
	r.calls = append(r.calls, nid)
	if r.failOn[nid] {
		return "", false, errors.New("registry unavailable")
	}
	name, ok := r.names[nid]
	return name, ok, nil
}

func TestNID(t *testing.T) {
	for i, want := range []string{"n1", "n2", "n3"} {
		if got := NID(i); got != want {
			t.Errorf("NID(%d) = %q, want %q", i, got, want)
		}
	}
	if got := NID(99); got != "n100" {
		t.Errorf("NID(99) = %q, want n100", got)
	}
}

func TestLabel_AssignsSequentialNIDsAndNames(t *testing.T) {
	reg := &mapRegistry{names: map[string]string{"n1": "Dairy", "n3": "Bakery"}}
	shapes := []CandidateShape{
		shapeWithBox(7, Box{0, 0, 10, 10}),
		shapeWithBox(3, Box{20, 0, 10, 10}),
		shapeWithBox(9, Box{40, 0, 10, 10}),
	}

	shelves := NewLabeler(reg, nil).Label(context.Background(), shapes)

	want := []struct{ nid, name string }{{"n1", "Dairy"}, {"n2", ""}, {"n3", "Bakery"}}
	if len(shelves) != len(want) {
		t.Fatalf("expected %d shelves, got %d", len(want), len(shelves))
	}
	for i, w := range want {
		if shelves[i].NID != w.nid || shelves[i].ShelfName != w.name {
			t.Errorf("shelf %d: got (%q, %q), want (%q, %q)",
				i, shelves[i].NID, shelves[i].ShelfName, w.nid, w.name)
		}
		if shelves[i].ID != shapes[i].ID {
			t.Errorf("shelf %d lost its shape: ID %d, want %d", i, shelves[i].ID, shapes[i].ID)
		}
	}
}

func TestLabel_RegistryErrorIsAMiss(t *testing.T) {
	reg := &mapRegistry{
		names:  map[string]string{"n1": "Dairy", "n2": "Produce"},
		failOn: map[string]bool{"n1": true},
	}
	shapes := []CandidateShape{
		shapeWithBox(0, Box{0, 0, 10, 10}),
		shapeWithBox(1, Box{20, 0, 10, 10}),
	}

	shelves := NewLabeler(reg, nil).Label(context.Background(), shapes)
	if shelves[0].ShelfName != "" {
		t.Errorf("failed lookup should leave name empty, got %q", shelves[0].ShelfName)
	}
	if shelves[1].ShelfName != "Produce" {
		t.Errorf("later lookups should still run, got %q", shelves[1].ShelfName)
	}
}

func TestLabel_DegenerateShapeKeepsItsNID(t *testing.T) {
	line := CandidateShape{ID: 0, Points: []Point{{0, 0}, {50, 0}}, BoundingBox: Box{0, 0, 50, 0}}
	shapes := []CandidateShape{line, shapeWithBox(1, Box{100, 100, 10, 10})}

	shelves := NewLabeler(nil, nil).Label(context.Background(), shapes)
	if shelves[0].NID != "n1" || shelves[1].NID != "n2" {
		t.Errorf("got nids %q, %q; want n1, n2", shelves[0].NID, shelves[1].NID)
	}
}

func TestLabel_NilRegistry(t *testing.T) {
	shelves := NewLabeler(nil, nil).Label(context.Background(), []CandidateShape{shapeWithBox(0, Box{0, 0, 5, 5})})
	if shelves[0].ShelfName != "" {
		t.Errorf("expected empty name, got %q", shelves[0].ShelfName)
	}
}
