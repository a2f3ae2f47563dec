package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Floor plan
		{
			Name:        "map_upload",
			Description: "Load a store floor plan (PNG, JPEG, GIF, BMP, TIFF, WebP or the first page of a PDF). Replaces the current plan and clears detected shelves and pins. Without a path nothing happens.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the floor plan file",
					},
				},
			},
		},
		{
			Name:        "map_process",
			Description: "Detect shelves on the current floor plan. Returns the labeled shelves and the candidate counts after extraction, deduplication and containment filtering. Fails if no plan is loaded or the vision runtime is not ready.",
			InputSchema: noArgs(),
		},
		{
			Name:        "map_status",
			Description: "Report vision runtime readiness, the loaded plan, shelf and pin counts, pin mode and the last run's stage counts.",
			InputSchema: noArgs(),
		},

		// Shelves
		{
			Name:        "map_shelves",
			Description: "List the detected shelves with nid, shelf name, polygon, bounding box and convexity.",
			InputSchema: noArgs(),
		},
		{
			Name:        "map_shelf_image",
			Description: "Crop a detected shelf's bounding box from the floor plan and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"nid": map[string]interface{}{
						"type":        "string",
						"description": "Shelf identifier, e.g. n3",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"nid"},
			},
		},

		// Interaction
		{
			Name:        "map_click",
			Description: "Click the map at an image pixel. A click inside a shelf selects it; otherwise, in pin mode, a pin is placed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate in image pixels",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate in image pixels",
					},
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "map_pin_mode",
			Description: "Turn pin placement on or off.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"enabled": map[string]interface{}{
						"type":        "boolean",
						"description": "True to place pins on map clicks",
					},
				},
				"required": []string{"enabled"},
			},
		},
		{
			Name:        "map_pins",
			Description: "Return the pins. When pins is given it replaces the current set first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"pins": map[string]interface{}{
						"type":        "array",
						"description": "Replacement pins in image pixels",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "integer"},
								"y": map[string]interface{}{"type": "integer"},
							},
							"required": []string{"x", "y"},
						},
					},
				},
			},
		},

		// Output
		{
			Name:        "map_render",
			Description: "Render the floor plan with colored shelf polygons, shelf labels and pins. SVG is returned inline, PNG and WebP as base64, or the result is written to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"svg", "png", "webp"},
						"description": "Output format. Default svg",
						"default":     "svg",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional absolute path to write the render to",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
