package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	want := []string{
		"image_load",
		"image_to_hsv",
		"image_histogram",
		"image_adjust",
		"image_find_contours",
		"image_process",
		"image_set_params",
	}
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i].Name != name {
			t.Errorf("tool %d: got %s, want %s", i, tools[i].Name, name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("empty description")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("schema type: got %v", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("schema has no properties")
			}
			if _, err := json.Marshal(tool); err != nil {
				t.Errorf("tool does not marshal: %v", err)
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	want := map[string][]string{
		"image_load":       {"path"},
		"image_adjust":     {"brightness", "contrast"},
		"image_set_params": {"brightness", "contrast"},
	}

	for _, tool := range GetToolDefinitions() {
		required, _ := tool.InputSchema["required"].([]string)
		exp := want[tool.Name]
		if len(required) != len(exp) {
			t.Errorf("%s: required %v, want %v", tool.Name, required, exp)
			continue
		}
		for i := range exp {
			if required[i] != exp[i] {
				t.Errorf("%s: required %v, want %v", tool.Name, required, exp)
			}
		}
	}
}

func TestToolDefinitions_SliderRange(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		props := tool.InputSchema["properties"].(map[string]interface{})
		for _, name := range []string{"brightness", "contrast"} {
			p, ok := props[name].(map[string]interface{})
			if !ok {
				continue
			}
			if p["minimum"] != -100 || p["maximum"] != 100 {
				t.Errorf("%s.%s: range [%v, %v], want [-100, 100]", tool.Name, name, p["minimum"], p["maximum"])
			}
		}
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	defaults := map[string]string{
		"image_histogram":     "include_chart",
		"image_find_contours": "draw",
	}
	for _, tool := range GetToolDefinitions() {
		prop, ok := defaults[tool.Name]
		if !ok {
			continue
		}
		p := tool.InputSchema["properties"].(map[string]interface{})[prop].(map[string]interface{})
		if p["default"] != true {
			t.Errorf("%s.%s default: got %v, want true", tool.Name, prop, p["default"])
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	result := resp.Result.(map[string]interface{})
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatalf("tools: got %T", result["tools"])
	}
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools", len(tools))
	}
}
