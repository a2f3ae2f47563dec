package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/store-map-mcp/internal/imaging"
	"github.com/ironsheep/store-map-mcp/internal/mapview"
	"github.com/ironsheep/store-map-mcp/internal/middleware"
	"github.com/ironsheep/store-map-mcp/internal/session"
)

// APIResponse wraps successful HTTP results.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// APIError is the body of every failed HTTP request.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HTTPHandler exposes a session over HTTP.
type HTTPHandler struct {
	session *session.Session
	logger  *zap.Logger
	version string
}

// NewRouter builds the gin engine with the JSON API under /api/v1 and a
// health check at /health.
func NewRouter(sess *session.Session, logger *zap.Logger, version string) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &HTTPHandler{session: sess, logger: logger, version: version}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))

	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		api.GET("/status", h.Status)
		api.POST("/upload", h.Upload)
		api.POST("/process", h.Process)
		api.GET("/shelves", h.Shelves)
		api.GET("/shelves/:nid", h.Shelf)
		api.GET("/shelves/:nid/image", h.ShelfImage)
		api.POST("/click", h.Click)
		api.PUT("/pin-mode", h.SetPinMode)
		api.GET("/pins", h.Pins)
		api.PUT("/pins", h.SetPins)
		for _, f := range []mapview.Format{mapview.FormatSVG, mapview.FormatPNG, mapview.FormatWebP} {
			api.GET("/render."+string(f), h.render(f))
		}
	}
	return r
}

// statusFor maps session and decoding errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNoImage),
		errors.Is(err, session.ErrVisionNotReady),
		errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, session.ErrUnknownShelf):
		return http.StatusNotFound
	case errors.Is(err, imaging.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, mapview.ErrWebPUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (h *HTTPHandler) fail(c *gin.Context, status int, message string, err error) {
	body := APIError{Success: false, Message: message}
	if err != nil {
		body.Error = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, body)
}

func respond(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

// Health reports liveness and whether the vision runtime is ready.
func (h *HTTPHandler) Health(c *gin.Context) {
	st := h.session.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"version":      h.version,
		"vision_ready": st.VisionReady,
	})
}

func (h *HTTPHandler) Status(c *gin.Context) {
	respond(c, "", h.session.Status())
}

// Upload reads the floor plan from multipart field "image". A form without
// that field changes nothing and reports uploaded=false.
func (h *HTTPHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		respond(c, "no file provided", uploadResult{Uploaded: false})
		return
	}
	if err != nil {
		h.fail(c, http.StatusBadRequest, "malformed multipart upload", err)
		return
	}

	f, err := file.Open()
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "failed to open upload", err)
		return
	}
	defer f.Close()

	info, err := h.session.Upload(c.Request.Context(), session.Upload{Reader: f, Name: file.Filename})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			// Anything else the decoder rejects is a bad file.
			status = http.StatusBadRequest
		}
		h.fail(c, status, "failed to load floor plan", err)
		return
	}
	if info == nil {
		respond(c, "no file provided", uploadResult{Uploaded: false})
		return
	}
	respond(c, "floor plan uploaded", uploadResult{Uploaded: true, Image: info})
}

func (h *HTTPHandler) Process(c *gin.Context) {
	result, err := h.session.Process(c.Request.Context())
	if err != nil {
		h.fail(c, statusFor(err), "shelf detection failed", err)
		return
	}
	respond(c, "shelves detected", processResult{
		Shelves:    nonNilShelves(result.Shelves),
		Candidates: result.Candidates,
		Unique:     result.Unique,
		Final:      result.Final,
	})
}

func (h *HTTPHandler) Shelves(c *gin.Context) {
	respond(c, "", shelvesResult{Shelves: nonNilShelves(h.session.Shelves())})
}

func (h *HTTPHandler) Shelf(c *gin.Context) {
	nid := c.Param("nid")
	shelf, found := h.session.Shelf(nid)
	if !found {
		h.fail(c, http.StatusNotFound, "unknown shelf "+nid, nil)
		return
	}
	respond(c, "", shelf)
}

// ShelfImage crops a shelf; the optional scale query parameter defaults to 1.
func (h *HTTPHandler) ShelfImage(c *gin.Context) {
	scale, err := strconv.ParseFloat(c.DefaultQuery("scale", "1"), 64)
	if err != nil || scale <= 0 {
		h.fail(c, http.StatusBadRequest, "scale must be a positive number", err)
		return
	}
	crop, err := h.session.ShelfImage(c.Param("nid"), scale)
	if err != nil {
		h.fail(c, statusFor(err), "failed to crop shelf", err)
		return
	}
	respond(c, "", crop)
}

type clickRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

func (h *HTTPHandler) Click(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "x and y are required", err)
		return
	}
	res, err := h.session.Click(*req.X, *req.Y)
	if err != nil {
		h.fail(c, statusFor(err), "click failed", err)
		return
	}
	respond(c, "", clickResult{ClickResult: res, Pins: len(h.session.Pins())})
}

type pinModeRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (h *HTTPHandler) SetPinMode(c *gin.Context) {
	var req pinModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "enabled is required", err)
		return
	}
	h.session.SetPinMode(*req.Enabled)
	respond(c, "", pinModeResult{PinMode: h.session.PinMode()})
}

func (h *HTTPHandler) Pins(c *gin.Context) {
	respond(c, "", pinsResult{Pins: nonNilPins(h.session.Pins())})
}

type pinsRequest struct {
	Pins []mapview.Pin `json:"pins"`
}

func (h *HTTPHandler) SetPins(c *gin.Context) {
	var req pinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid pins", err)
		return
	}
	h.session.SetPins(req.Pins)
	respond(c, "", pinsResult{Pins: nonNilPins(h.session.Pins())})
}

func (h *HTTPHandler) render(f mapview.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := h.session.Render(&buf, f); err != nil {
			h.fail(c, statusFor(err), "render failed", err)
			return
		}
		c.Data(http.StatusOK, f.ContentType(), buf.Bytes())
	}
}
