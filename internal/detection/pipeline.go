package detection

import (
	"context"
	"image"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/store-map-mcp/internal/vision"
)

// Options configures a full detection run.
type Options struct {
	Extract      ExtractOptions
	IoUThreshold float64
}

// DefaultOptions returns DefaultExtractOptions with DefaultIoUThreshold.
func DefaultOptions() Options {
	return Options{
		Extract:      DefaultExtractOptions(),
		IoUThreshold: DefaultIoUThreshold,
	}
}

// TextHinter reads printed text from a region of an image.
type TextHinter interface {
	TextHint(ctx context.Context, img image.Image, region image.Rectangle) (string, error)
}

// Result is the output of one detection run.
type Result struct {
	// Shelves is the labeled shelf set, in filtered order.
	Shelves []Shelf `json:"shelves"`

	// Stage counts, for diagnostics.
	Candidates int `json:"candidates"`
	Unique     int `json:"unique"`
	Final      int `json:"final"`
}

// Pipeline sequences extraction, deduplication, containment filtering,
// labeling and optional text hints.
type Pipeline struct {
	extractor *Extractor
	labeler   *Labeler
	hinter    TextHinter
	opts      Options
	logger    *zap.Logger
}

// NewPipeline wires the stages together. registry and hinter may be nil.
func NewPipeline(backend vision.Backend, opts Options, registry Registry, hinter TextHinter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		extractor: NewExtractor(backend, opts.Extract, logger),
		labeler:   NewLabeler(registry, logger),
		hinter:    hinter,
		opts:      opts,
		logger:    logger,
	}
}

// Run detects and labels the shelves in img. If ctx ends before every shelf
// is labeled and hinted, Run returns ctx.Err() and no result.
func (p *Pipeline) Run(ctx context.Context, img image.Image) (*Result, error) {
	candidates, err := p.extractor.Extract(ctx, img)
	if err != nil {
		return nil, err
	}

	unique := Deduplicate(candidates, p.opts.IoUThreshold)
	final := FilterContainers(unique)
	shelves := p.labeler.Label(ctx, final)

	if p.hinter != nil {
		if err := p.addTextHints(ctx, img, shelves); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Info("shelf detection complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("unique", len(unique)),
		zap.Int("shelves", len(shelves)))

	return &Result{
		Shelves:    shelves,
		Candidates: len(candidates),
		Unique:     len(unique),
		Final:      len(shelves),
	}, nil
}

func (p *Pipeline) addTextHints(ctx context.Context, img image.Image, shelves []Shelf) error {
	origin := img.Bounds().Min
	for i := range shelves {
		if err := ctx.Err(); err != nil {
			return err
		}
		region := shelves[i].BoundingBox.Rect().Add(origin)
		text, err := p.hinter.TextHint(ctx, img, region)
		if err != nil {
			p.logger.Warn("text hint failed",
				zap.String("nid", shelves[i].NID),
				zap.Error(err))
			continue
		}
		shelves[i].TextHint = strings.TrimSpace(text)
	}
	return ctx.Err()
}
