package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"map_upload",
		"map_process",
		"map_status",
		"map_shelves",
		"map_shelf_image",
		"map_click",
		"map_pin_mode",
		"map_pins",
		"map_render",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}
			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}
			if props, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok || props == nil {
				t.Error("InputSchema properties should be a map")
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := map[string][]string{
		"map_shelf_image": {"nid"},
		"map_click":       {"x", "y"},
		"map_pin_mode":    {"enabled"},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			required, ok := toolMap[name].InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			if len(required) != len(want) {
				t.Fatalf("required: got %v, want %v", required, want)
			}
			for i := range want {
				if required[i] != want[i] {
					t.Errorf("required: got %v, want %v", required, want)
				}
			}
		})
	}

	// Upload without a path is a no-op, not an error.
	if _, ok := toolMap["map_upload"].InputSchema["required"]; ok {
		t.Error("map_upload should not require path")
	}
}

func TestToolDefinitions_RenderFormats(t *testing.T) {
	var render Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "map_render" {
			render = tool
		}
	}

	props := render.InputSchema["properties"].(map[string]interface{})
	format, ok := props["format"].(map[string]interface{})
	if !ok {
		t.Fatal("format property should exist and be a map")
	}
	enum, ok := format["enum"].([]string)
	if !ok {
		t.Fatal("format should have enum")
	}
	want := map[string]bool{"svg": true, "png": true, "webp": true}
	for _, e := range enum {
		delete(want, e)
	}
	for missing := range want {
		t.Errorf("format enum missing %q", missing)
	}
	if format["default"] != "svg" {
		t.Errorf("format default: got %v, want svg", format["default"])
	}
}

func TestHandleToolsList(t *testing.T) {
	s, _ := newTestServer(t)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(GetToolDefinitions()))
	}
}
