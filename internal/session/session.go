package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/ironsheep/store-map-mcp/internal/detection"
	"github.com/ironsheep/store-map-mcp/internal/imaging"
	"github.com/ironsheep/store-map-mcp/internal/mapview"
	"github.com/ironsheep/store-map-mcp/internal/vision"
)

var (
	// ErrNoImage is returned when an operation needs an uploaded image.
	ErrNoImage = errors.New("no image uploaded")

	// ErrVisionNotReady is returned when detection is requested before the
	// vision runtime has finished loading, or after it failed to load.
	ErrVisionNotReady = errors.New("vision runtime not ready")

	// ErrSuperseded is returned when a new image was uploaded while a
	// detection run was in progress. The run's result is discarded.
	ErrSuperseded = errors.New("detection superseded by a newer upload")

	// ErrUnknownShelf is returned for a nid not in the current shelf set.
	ErrUnknownShelf = errors.New("unknown shelf")
)

// Upload references a floor plan to load. Set Reader or Path; with neither
// the upload is ignored.
type Upload struct {
	Reader io.Reader
	Name   string
	Path   string
}

// Options configures detection and decoding.
type Options struct {
	Detection detection.Options
	Limits    imaging.Limits
}

// DefaultOptions returns the default detection options and upload limits.
func DefaultOptions() Options {
	return Options{
		Detection: detection.DefaultOptions(),
		Limits:    imaging.DefaultLimits(),
	}
}

// Session is safe for concurrent use.
type Session struct {
	runtime  *vision.Runtime
	registry detection.Registry
	hinter   detection.TextHinter
	opts     Options
	logger   *zap.Logger

	run *semaphore.Weighted

	mu         sync.RWMutex
	image      image.Image
	info       imaging.ImageInfo
	generation uint64
	shelves    []detection.Shelf
	lastRun    *detection.Result
	pins       []mapview.Pin
	pinMode    bool
	callbacks  mapview.Callbacks
}

// New creates a session. registry and hinter may be nil.
func New(rt *vision.Runtime, registry detection.Registry, hinter detection.TextHinter, opts Options, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		runtime:  rt,
		registry: registry,
		hinter:   hinter,
		opts:     opts,
		logger:   logger,
		run:      semaphore.NewWeighted(1),
	}
}

// SetCallbacks installs host click handlers. A nil OnMapClick keeps the
// default, which places a pin at the clicked point.
func (s *Session) SetCallbacks(cb mapview.Callbacks) {
	s.mu.Lock()
	s.callbacks = cb
	s.mu.Unlock()
}

// Upload decodes a floor plan and makes it the current image. The previous
// shelf set and pins are cleared because they belong to the old image. An
// upload with no reader and no path does nothing and returns nil, nil.
func (s *Session) Upload(ctx context.Context, u Upload) (*imaging.ImageInfo, error) {
	if u.Reader == nil && u.Path == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		decoded *imaging.Decoded
		err     error
	)
	if u.Reader != nil {
		decoded, err = imaging.Decode(u.Reader, u.Name, s.opts.Limits)
	} else {
		decoded, err = imaging.Load(u.Path, s.opts.Limits)
	}
	if err != nil {
		s.logger.Warn("upload rejected", zap.String("name", u.Name), zap.String("path", u.Path), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.image = decoded.Image
	s.info = decoded.Info
	s.generation++
	s.shelves = nil
	s.lastRun = nil
	s.pins = nil
	s.mu.Unlock()

	s.logger.Info("floor plan uploaded",
		zap.String("format", decoded.Info.Format),
		zap.Int("width", decoded.Info.Width),
		zap.Int("height", decoded.Info.Height))

	info := decoded.Info
	return &info, nil
}

// Process runs shelf detection on the current image and replaces the shelf
// set with the result.
//
// # Errors
//
//   - ErrVisionNotReady if the vision runtime is still loading or failed
//   - ErrNoImage if nothing has been uploaded
//   - ErrSuperseded if an upload replaced the image during the run
//   - ctx.Err() if ctx ends while waiting for another run to finish
//
// On any error the session state is unchanged.
func (s *Session) Process(ctx context.Context) (*detection.Result, error) {
	backend, err := s.backend()
	if err != nil {
		s.logger.Error("vision runtime not ready", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrVisionNotReady, err)
	}

	if err := s.run.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.run.Release(1)

	s.mu.RLock()
	img, gen := s.image, s.generation
	s.mu.RUnlock()
	if img == nil || img.Bounds().Empty() {
		s.logger.Error("no image to process")
		return nil, ErrNoImage
	}

	pipeline := detection.NewPipeline(backend, s.opts.Detection, s.registry, s.hinter, s.logger)
	result, err := pipeline.Run(ctx, img)
	if err != nil {
		s.logger.Error("shelf detection failed", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		s.logger.Info("discarding detection result for a replaced image")
		return nil, ErrSuperseded
	}
	s.shelves = result.Shelves
	s.lastRun = result
	return result, nil
}

func (s *Session) backend() (vision.Backend, error) {
	if s.runtime == nil {
		return nil, vision.ErrNotReady
	}
	return s.runtime.Backend()
}

// Shelves returns a copy of the current shelf set.
func (s *Session) Shelves() []detection.Shelf {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]detection.Shelf(nil), s.shelves...)
}

// Shelf returns the shelf with the given nid.
func (s *Session) Shelf(nid string) (detection.Shelf, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sh := range s.shelves {
		if sh.NID == nid {
			return sh, true
		}
	}
	return detection.Shelf{}, false
}

// Pins returns a copy of the pins.
func (s *Session) Pins() []mapview.Pin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]mapview.Pin(nil), s.pins...)
}

// SetPins replaces all pins.
func (s *Session) SetPins(pins []mapview.Pin) {
	s.mu.Lock()
	s.pins = append([]mapview.Pin(nil), pins...)
	s.mu.Unlock()
}

// AddPin appends a pin.
func (s *Session) AddPin(p mapview.Pin) {
	s.mu.Lock()
	s.pins = append(s.pins, p)
	s.mu.Unlock()
}

// SetPinMode turns pin placement on or off.
func (s *Session) SetPinMode(on bool) {
	s.mu.Lock()
	s.pinMode = on
	s.mu.Unlock()
}

// PinMode reports whether pin placement is on.
func (s *Session) PinMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pinMode
}

// Overlay builds an overlay of the current image, shelves and pins.
func (s *Session) Overlay() (*mapview.Overlay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.image == nil {
		return nil, ErrNoImage
	}
	return mapview.Render(s.image, s.shelves, s.pins, s.logger), nil
}

// Click routes a click in image pixel coordinates. Callbacks run without the
// session lock held, so they may call back into the session.
func (s *Session) Click(x, y int) (mapview.ClickResult, error) {
	overlay, err := s.Overlay()
	if err != nil {
		return mapview.ClickResult{}, err
	}

	s.mu.RLock()
	pinMode := s.pinMode
	cb := s.callbacks
	s.mu.RUnlock()

	if cb.OnMapClick == nil {
		cb.OnMapClick = func(x, y int) { s.AddPin(mapview.Pin{X: x, Y: y}) }
	}
	if cb.OnShelfClick == nil {
		cb.OnShelfClick = func(nid string) { s.logger.Debug("shelf clicked", zap.String("nid", nid)) }
	}

	return overlay.Click(x, y, pinMode, cb), nil
}

// Render writes the overlay in the given format.
func (s *Session) Render(w io.Writer, f mapview.Format) error {
	overlay, err := s.Overlay()
	if err != nil {
		return err
	}
	return overlay.Encode(w, f)
}

// ShelfImage crops the shelf's bounding box out of the current image.
func (s *Session) ShelfImage(nid string, scale float64) (*imaging.CropResult, error) {
	s.mu.RLock()
	img := s.image
	s.mu.RUnlock()
	if img == nil {
		return nil, ErrNoImage
	}

	shelf, ok := s.Shelf(nid)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShelf, nid)
	}
	region := shelf.BoundingBox.Rect().Add(img.Bounds().Min)
	// Include the far edge: box extents are inclusive.
	region.Max = region.Max.Add(image.Pt(1, 1))
	return imaging.Crop(img, region, scale)
}

// Status summarizes the session.
type Status struct {
	VisionReady   bool               `json:"vision_ready"`
	VisionBackend string             `json:"vision_backend,omitempty"`
	VisionError   string             `json:"vision_error,omitempty"`
	Image         *imaging.ImageInfo `json:"image,omitempty"`
	Shelves       int                `json:"shelves"`
	Pins          int                `json:"pins"`
	PinMode       bool               `json:"pin_mode"`
	LastRun       *RunStats          `json:"last_run,omitempty"`
}

// RunStats are the stage counts of the last committed run.
type RunStats struct {
	Candidates int `json:"candidates"`
	Unique     int `json:"unique"`
	Final      int `json:"final"`
}

// Status reports readiness and state counts.
func (s *Session) Status() Status {
	var st Status
	if backend, err := s.backend(); err != nil {
		st.VisionError = err.Error()
	} else {
		st.VisionReady = true
		st.VisionBackend = backend.Name()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.image != nil {
		info := s.info
		st.Image = &info
	}
	st.Shelves = len(s.shelves)
	st.Pins = len(s.pins)
	st.PinMode = s.pinMode
	if s.lastRun != nil {
		st.LastRun = &RunStats{
			Candidates: s.lastRun.Candidates,
			Unique:     s.lastRun.Unique,
			Final:      s.lastRun.Final,
		}
	}
	return st
}
