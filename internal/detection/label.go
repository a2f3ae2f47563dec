package detection

import (
	"context"
	"strconv"

	"go.uber.org/zap"
)

// Shelf is a candidate shape that made it through filtering, with its
// positional identifier and display name.
type Shelf struct {
	CandidateShape

	// NID is "n" followed by the 1-based position in the filtered list. It
	// identifies the shelf within one run only.
	NID string `json:"nid"`

	// ShelfName comes from the shelf registry and is empty when the registry
	// has no entry for NID.
	ShelfName string `json:"shelf_name"`

	// TextHint is text read from inside the shelf's box, if OCR ran.
	TextHint string `json:"text_hint,omitempty"`
}

// Registry resolves shelf identifiers to names.
type Registry interface {
	Lookup(ctx context.Context, nid string) (name string, found bool, err error)
}

// NID returns the identifier for the shelf at 0-based position i.
func NID(i int) string {
	return "n" + strconv.Itoa(i+1)
}

// Labeler assigns identifiers and registry names.
type Labeler struct {
	registry Registry
	logger   *zap.Logger
}

// NewLabeler creates a labeler. With a nil registry every name is empty.
func NewLabeler(registry Registry, logger *zap.Logger) *Labeler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Labeler{registry: registry, logger: logger}
}

// Label numbers shapes n1..nK in order and looks each identifier up in the
// registry. A registry error is logged and leaves the name empty; it never
// fails the run. Shapes with fewer than three vertices are labeled like any
// other so identifiers stay positional.
func (l *Labeler) Label(ctx context.Context, shapes []CandidateShape) []Shelf {
	shelves := make([]Shelf, len(shapes))
	for i, s := range shapes {
		shelves[i] = Shelf{CandidateShape: s, NID: NID(i)}
		if l.registry == nil {
			continue
		}
		name, found, err := l.registry.Lookup(ctx, shelves[i].NID)
		if err != nil {
			l.logger.Warn("shelf registry lookup failed",
				zap.String("nid", shelves[i].NID),
				zap.Error(err))
			continue
		}
		if found {
			shelves[i].ShelfName = name
		}
	}
	return shelves
}
