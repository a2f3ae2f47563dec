package detection

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/store-map-mcp/internal/vision"
)

type fakeHinter struct {
	text    map[image.Rectangle]string
	regions []image.Rectangle
}

func (f *fakeHinter) TextHint(ctx context.Context, img image.Image, region image.Rectangle) (string, error) {
	f.regions = append(f.regions, region)
	if text, ok := f.text[region]; ok {
		return text, nil
	}
	return "", errors.New("no text")
}

func TestPipeline_Run(t *testing.T) {
	backend := scriptedBackend{contours: []vision.Contour{
		rectContour(0, 0, 200, 200),  // frame around everything
		rectContour(50, 50, 20, 20),  // shelf
		rectContour(51, 50, 19, 20),  // duplicate of the shelf, IoU 0.95
		rectContour(120, 40, 30, 60), // second shelf
		rectContour(5, 5, 3, 3),      // below the area floor
	}}
	reg := &mapRegistry{names: map[string]string{"n1": "Dairy"}}

	p := NewPipeline(backend, DefaultOptions(), reg, nil, nil)
	result, err := p.Run(context.Background(), createTestImage(210, 210, color.White))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Candidates != 4 || result.Unique != 3 || result.Final != 2 {
		t.Errorf("stage counts: got %d/%d/%d, want 4/3/2", result.Candidates, result.Unique, result.Final)
	}
	if len(result.Shelves) != 2 {
		t.Fatalf("expected 2 shelves, got %d", len(result.Shelves))
	}

	first, second := result.Shelves[0], result.Shelves[1]
	if first.NID != "n1" || first.ShelfName != "Dairy" || first.BoundingBox != (Box{50, 50, 20, 20}) {
		t.Errorf("first shelf: got %+v", first)
	}
	if second.NID != "n2" || second.ShelfName != "" || second.BoundingBox != (Box{120, 40, 30, 60}) {
		t.Errorf("second shelf: got %+v", second)
	}
}

func TestPipeline_FinalShelvesSatisfyInvariants(t *testing.T) {
	backend := scriptedBackend{contours: []vision.Contour{
		rectContour(0, 0, 300, 300),
		rectContour(10, 10, 100, 100),
		rectContour(11, 11, 99, 99),
		rectContour(20, 20, 30, 30),
		rectContour(60, 20, 30, 30),
		rectContour(150, 150, 100, 50),
		rectContour(152, 150, 98, 50),
	}}

	result, err := NewPipeline(backend, DefaultOptions(), nil, nil, nil).
		Run(context.Background(), createTestImage(310, 310, color.White))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	shelves := result.Shelves
	for i := range shelves {
		if want := NID(i); shelves[i].NID != want {
			t.Errorf("shelf %d: nid %q, want %q", i, shelves[i].NID, want)
		}
		for j := range shelves {
			if i == j {
				continue
			}
			if iou := IoU(shelves[i].BoundingBox, shelves[j].BoundingBox); iou > DefaultIoUThreshold {
				t.Errorf("shelves %d and %d overlap with IoU %v", i, j, iou)
			}
			if shelves[i].BoundingBox.Contains(shelves[j].BoundingBox) {
				t.Errorf("shelf %d contains shelf %d", i, j)
			}
		}
	}
	if len(shelves) != 3 {
		t.Errorf("expected 3 shelves, got %d", len(shelves))
	}
}

func TestPipeline_TextHints(t *testing.T) {
	backend := scriptedBackend{contours: []vision.Contour{
		rectContour(10, 10, 20, 20),
		rectContour(50, 10, 20, 20),
	}}
	hinter := &fakeHinter{text: map[image.Rectangle]string{
		image.Rect(10, 10, 30, 30): "  MILK \n",
	}}

	result, err := NewPipeline(backend, DefaultOptions(), nil, hinter, nil).
		Run(context.Background(), createTestImage(80, 40, color.White))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(hinter.regions) != 2 {
		t.Errorf("expected a hint request per shelf, got %d", len(hinter.regions))
	}
	if got := result.Shelves[0].TextHint; got != "MILK" {
		t.Errorf("hint: got %q, want MILK", got)
	}
	if got := result.Shelves[1].TextHint; got != "" {
		t.Errorf("failed hint should be empty, got %q", got)
	}
	if result.Shelves[0].ShelfName != "" {
		t.Errorf("hint must not become the name, got %q", result.Shelves[0].ShelfName)
	}
}

// cancellingHinter cancels the run on its first call.
type cancellingHinter struct {
	cancel context.CancelFunc
	calls  int
}

func (h *cancellingHinter) TextHint(ctx context.Context, img image.Image, region image.Rectangle) (string, error) {
	h.calls++
	h.cancel()
	return "AISLE", nil
}

func TestPipeline_CancelledDuringTextHints(t *testing.T) {
	backend := scriptedBackend{contours: []vision.Contour{
		rectContour(10, 10, 20, 20),
		rectContour(50, 10, 20, 20),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hinter := &cancellingHinter{cancel: cancel}

	result, err := NewPipeline(backend, DefaultOptions(), nil, hinter, nil).
		Run(ctx, createTestImage(80, 40, color.White))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if result != nil {
		t.Errorf("a cancelled run must not return a partial result, got %+v", result)
	}
	if hinter.calls != 1 {
		t.Errorf("hinting should stop after cancellation, got %d calls", hinter.calls)
	}
}

func TestPipeline_EmptyImage(t *testing.T) {
	p := NewPipeline(vision.NewNativeBackend(), DefaultOptions(), nil, nil, nil)
	if _, err := p.Run(context.Background(), image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("got %v, want ErrEmptyImage", err)
	}
}
