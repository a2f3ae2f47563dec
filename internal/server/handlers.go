package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/store-map-mcp/internal/detection"
	"github.com/ironsheep/store-map-mcp/internal/mapview"
	"github.com/ironsheep/store-map-mcp/internal/session"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "map_upload", "map_process").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Floor plan
	case "map_upload":
		return s.handleMapUpload(ctx, args)
	case "map_process":
		return s.handleMapProcess(ctx)
	case "map_status":
		return s.session.Status(), nil

	// Shelves
	case "map_shelves":
		return shelvesResult{Shelves: nonNilShelves(s.session.Shelves())}, nil
	case "map_shelf_image":
		return s.handleMapShelfImage(args)

	// Interaction
	case "map_click":
		return s.handleMapClick(args)
	case "map_pin_mode":
		return s.handleMapPinMode(args)
	case "map_pins":
		return s.handleMapPins(args)

	// Output
	case "map_render":
		return s.handleMapRender(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments leave v untouched.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Floor Plan Handlers ===

type mapUploadArgs struct {
	Path string `json:"path"`
}

type uploadResult struct {
	Uploaded bool        `json:"uploaded"`
	Image    interface{} `json:"image,omitempty"`
}

func (s *Server) handleMapUpload(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a mapUploadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	info, err := s.session.Upload(ctx, session.Upload{Path: a.Path})
	if err != nil {
		return nil, err
	}
	if info == nil {
		return uploadResult{Uploaded: false}, nil
	}
	return uploadResult{Uploaded: true, Image: info}, nil
}

type processResult struct {
	Shelves    []detection.Shelf `json:"shelves"`
	Candidates int               `json:"candidates"`
	Unique     int               `json:"unique"`
	Final      int               `json:"final"`
}

func (s *Server) handleMapProcess(ctx context.Context) (interface{}, error) {
	result, err := s.session.Process(ctx)
	if err != nil {
		return nil, err
	}
	return processResult{
		Shelves:    nonNilShelves(result.Shelves),
		Candidates: result.Candidates,
		Unique:     result.Unique,
		Final:      result.Final,
	}, nil
}

// === Shelf Handlers ===

type shelvesResult struct {
	Shelves []detection.Shelf `json:"shelves"`
}

type mapShelfImageArgs struct {
	NID   string  `json:"nid"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleMapShelfImage(args json.RawMessage) (interface{}, error) {
	var a mapShelfImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.NID == "" {
		return nil, errors.New("nid is required")
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	return s.session.ShelfImage(a.NID, a.Scale)
}

// === Interaction Handlers ===

type mapClickArgs struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type clickResult struct {
	mapview.ClickResult
	Pins int `json:"pins"`
}

func (s *Server) handleMapClick(args json.RawMessage) (interface{}, error) {
	var a mapClickArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.X == nil || a.Y == nil {
		return nil, errors.New("x and y are required")
	}
	res, err := s.session.Click(*a.X, *a.Y)
	if err != nil {
		return nil, err
	}
	return clickResult{ClickResult: res, Pins: len(s.session.Pins())}, nil
}

type mapPinModeArgs struct {
	Enabled bool `json:"enabled"`
}

type pinModeResult struct {
	PinMode bool `json:"pin_mode"`
}

func (s *Server) handleMapPinMode(args json.RawMessage) (interface{}, error) {
	var a mapPinModeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	s.session.SetPinMode(a.Enabled)
	return pinModeResult{PinMode: s.session.PinMode()}, nil
}

type mapPinsArgs struct {
	// Pins replaces the current pins when present; absent means read only.
	Pins *[]mapview.Pin `json:"pins"`
}

type pinsResult struct {
	Pins []mapview.Pin `json:"pins"`
}

func (s *Server) handleMapPins(args json.RawMessage) (interface{}, error) {
	var a mapPinsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Pins != nil {
		s.session.SetPins(*a.Pins)
	}
	return pinsResult{Pins: nonNilPins(s.session.Pins())}, nil
}

// === Output Handlers ===

type mapRenderArgs struct {
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
}

type renderResult struct {
	Format   mapview.Format `json:"format"`
	MimeType string         `json:"mime_type"`
	Bytes    int            `json:"bytes"`
	Path     string         `json:"path,omitempty"`
	SVG      string         `json:"svg,omitempty"`
	Base64   string         `json:"image_base64,omitempty"`
}

// handleMapRender writes the overlay to output_path when given. Otherwise SVG
// is returned inline as text and raster formats as base64.
func (s *Server) handleMapRender(args json.RawMessage) (interface{}, error) {
	var a mapRenderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	format, err := mapview.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.session.Render(&buf, format); err != nil {
		return nil, err
	}

	res := renderResult{Format: format, MimeType: format.ContentType(), Bytes: buf.Len()}
	switch {
	case a.OutputPath != "":
		if err := os.WriteFile(a.OutputPath, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write render: %w", err)
		}
		res.Path = a.OutputPath
	case format == mapview.FormatSVG:
		res.SVG = buf.String()
	default:
		res.Base64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	}
	return res, nil
}

func nonNilShelves(s []detection.Shelf) []detection.Shelf {
	if s == nil {
		return []detection.Shelf{}
	}
	return s
}

func nonNilPins(p []mapview.Pin) []mapview.Pin {
	if p == nil {
		return []mapview.Pin{}
	}
	return p
}
