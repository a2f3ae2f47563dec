// Package server exposes a store-map session over MCP and HTTP.
//
// # Protocol
//
// The MCP server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Floor plan:
//   - map_upload: Load a floor plan from disk
//   - map_process: Detect and label shelves
//   - map_status: Runtime readiness and session counts
//
// Shelves:
//   - map_shelves: List detected shelves
//   - map_shelf_image: Crop one shelf as PNG
//
// Interaction:
//   - map_click: Route a click to a shelf or, in pin mode, the map
//   - map_pin_mode: Toggle pin placement
//   - map_pins: Read or replace pins
//
// Output:
//   - map_render: SVG, PNG or WebP overlay
//
// # HTTP API
//
// NewRouter serves the same operations under /api/v1 for browser hosts.
// Uploads use multipart field "image" and overlays are served from
// /api/v1/render.svg, .png and .webp. Failures return
// {"success": false, "message": ..., "error": ...} with 409 for missing
// preconditions, 404 for unknown shelves and 400 for bad arguments.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(sess, logger, version)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal("server error", zap.Error(err))
//	}
package server
