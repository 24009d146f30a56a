package tool_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/njchilds90/ndspace/scene"
	"github.com/njchilds90/ndspace/symbolic"
	"github.com/njchilds90/ndspace/tool"
)

func call(t *testing.T, sc *scene.Scene, name string, params map[string]interface{}) tool.ToolResponse {
	t.Helper()
	return tool.HandleToolCall(sc, tool.ToolRequest{Tool: name, Params: params})
}

func mustCall(t *testing.T, sc *scene.Scene, name string, params map[string]interface{}) tool.ToolResponse {
	t.Helper()
	resp := call(t, sc, name, params)
	if resp.Error != "" {
		t.Fatalf("%s: unexpected error: %s", name, resp.Error)
	}
	return resp
}

// towerScene defines the cylinder, circle and quarter-turn point through
// the tool interface, the way an agent would.
func towerScene(t *testing.T) *scene.Scene {
	t.Helper()
	sc := scene.New(nil)
	mustCall(t, sc, "define", map[string]interface{}{
		"name": "cylinder", "coords": []interface{}{"r*cos(t)", "r*sin(t)", "z"}, "params": []interface{}{"r", "t", "z"},
	})
	mustCall(t, sc, "define", map[string]interface{}{
		"name": "circle", "parent": "cylinder", "coords": []interface{}{"1", "a*2*pi", "3"}, "params": []interface{}{"a"},
	})
	mustCall(t, sc, "define", map[string]interface{}{
		"name": "quarter", "parent": "circle", "coords": []interface{}{"0.25"},
	})
	return sc
}

// ============================================================
// Space tools
// ============================================================

func TestHandleToolCall_Define(t *testing.T) {
	sc := scene.New(nil)
	resp := mustCall(t, sc, "define", map[string]interface{}{"name": "cyl", "kind": "cylindrical"})
	m, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map result, got %T", resp.Result)
	}
	if m["order"] != 3 {
		t.Errorf("expected order 3, got %v", m["order"])
	}
	if m["implicit"] != "true" {
		t.Errorf("expected implicit true, got %v", m["implicit"])
	}
	if !strings.HasPrefix(resp.String, "Subspace(") {
		t.Errorf("unexpected string %s", resp.String)
	}
}

func TestHandleToolCall_DefineErrors(t *testing.T) {
	sc := scene.New(nil)
	for _, params := range []map[string]interface{}{
		{"name": "a", "colour": "red"},
		{"name": "a", "coords": "not an array"},
		{"coords": []interface{}{"1"}},
		{"name": "a", "coords": []interface{}{"1 +"}},
	} {
		if resp := call(t, sc, "define", params); resp.Error == "" {
			t.Errorf("expected error for %v", params)
		}
	}
	if sc.Len() != 0 {
		t.Errorf("failed definitions should not register, have %v", sc.Names())
	}
}

func TestHandleToolCall_Lift(t *testing.T) {
	sc := towerScene(t)
	resp := mustCall(t, sc, "lift", map[string]interface{}{"space": "quarter", "as": "quarter_root"})
	m := resp.Result.(map[string]interface{})
	coords, ok := m["coords"].([]string)
	if !ok {
		t.Fatalf("expected []string coords, got %T", m["coords"])
	}
	if strings.Join(coords, ", ") != "0, 1, 3" {
		t.Errorf("expected (0, 1, 3), got %v", coords)
	}
	if _, ok := sc.Get("quarter_root"); !ok {
		t.Error("lift result should be stored under as")
	}

	resp = mustCall(t, sc, "lift", map[string]interface{}{"space": "quarter", "levels": 1})
	coords = resp.Result.(map[string]interface{})["coords"].([]string)
	if strings.Join(coords, ", ") != "1, 1/2*pi, 3" {
		t.Errorf("expected (1, 1/2*pi, 3), got %v", coords)
	}
}

func TestHandleToolCall_Contains(t *testing.T) {
	sc := scene.New(nil)
	mustCall(t, sc, "define", map[string]interface{}{
		"name": "plane", "kind": "points",
		"points": []interface{}{
			[]interface{}{"0", "0", "0"}, []interface{}{"1", "0", "0"}, []interface{}{"0", "1", "0"},
		},
	})
	mustCall(t, sc, "define", map[string]interface{}{"name": "on", "coords": []interface{}{"5", "7"}})
	mustCall(t, sc, "define", map[string]interface{}{"name": "off", "coords": []interface{}{"5", "7", "1"}})
	mustCall(t, sc, "define", map[string]interface{}{"name": "any", "coords": []interface{}{"x", "y", "h"}})

	cases := []struct {
		other string
		known bool
		value bool
		str   string
	}{
		{"on", true, true, "true"},
		{"off", true, false, "false"},
		{"any", false, false, "0 == h"},
	}
	for _, tc := range cases {
		resp := mustCall(t, sc, "contains", map[string]interface{}{"space": "plane", "other": tc.other})
		m := resp.Result.(map[string]interface{})
		if m["known"] != tc.known {
			t.Errorf("%s: known = %v, want %v", tc.other, m["known"], tc.known)
		}
		if tc.known && m["value"] != tc.value {
			t.Errorf("%s: value = %v, want %v", tc.other, m["value"], tc.value)
		}
		if resp.String != tc.str {
			t.Errorf("%s: got %s, want %s", tc.other, resp.String, tc.str)
		}
	}
}

func TestHandleToolCall_ContainsUnsupported(t *testing.T) {
	sc := towerScene(t)
	mustCall(t, sc, "define", map[string]interface{}{"name": "p", "coords": []interface{}{"0", "1", "3"}})
	resp := call(t, sc, "contains", map[string]interface{}{"space": "cylinder", "other": "p"})
	if !strings.Contains(resp.Error, "unsupported") {
		t.Errorf("expected unsupported error, got %q", resp.Error)
	}
}

func TestHandleToolCall_IsDescendant(t *testing.T) {
	sc := towerScene(t)
	resp := mustCall(t, sc, "is_descendant", map[string]interface{}{"space": "quarter", "other": "cylinder"})
	if resp.Result != true {
		t.Errorf("quarter should descend from cylinder, got %v", resp.Result)
	}
	resp = mustCall(t, sc, "is_descendant", map[string]interface{}{"space": "cylinder", "other": "quarter"})
	if resp.Result != false {
		t.Errorf("cylinder should not descend from quarter, got %v", resp.Result)
	}
	resp = mustCall(t, sc, "is_descendant", map[string]interface{}{"space": "circle", "other": "root"})
	if resp.String != "true" {
		t.Errorf("everything descends from root, got %s", resp.String)
	}
}

func TestHandleToolCall_Substitute(t *testing.T) {
	sc := towerScene(t)
	resp := mustCall(t, sc, "substitute", map[string]interface{}{
		"space": "circle", "mapping": map[string]interface{}{"a": "1/4"}, "as": "fixed",
	})
	m := resp.Result.(map[string]interface{})
	if m["order"] != 0 {
		t.Errorf("binding the only parameter should give a point, got order %v", m["order"])
	}
	if _, ok := sc.Get("fixed"); !ok {
		t.Error("substitute result should be stored under as")
	}
}

func TestHandleToolCall_Loop(t *testing.T) {
	sc := scene.New(nil)
	mustCall(t, sc, "define", map[string]interface{}{"name": "a", "coords": []interface{}{"0"}})
	mustCall(t, sc, "define", map[string]interface{}{"name": "b", "coords": []interface{}{"1"}})
	resp := mustCall(t, sc, "loop", map[string]interface{}{"members": []interface{}{"a", "b"}})
	if m := resp.Result.(map[string]interface{}); m["members"] != 2 {
		t.Errorf("expected 2 members, got %v", m["members"])
	}
	if resp := call(t, sc, "loop", map[string]interface{}{"members": []interface{}{"a"}}); resp.Error == "" {
		t.Error("a single point is not a loop")
	}
}

func TestHandleToolCall_List(t *testing.T) {
	sc := towerScene(t)
	resp := mustCall(t, sc, "list", map[string]interface{}{})
	spaces, ok := resp.Result.([]map[string]interface{})
	if !ok {
		t.Fatalf("expected list result, got %T", resp.Result)
	}
	if len(spaces) != 3 {
		t.Fatalf("expected 3 spaces, got %d", len(spaces))
	}
	if spaces[0]["name"] != "circle" || spaces[2]["name"] != "quarter" {
		t.Errorf("spaces should be sorted by name: %v", spaces)
	}
}

// ============================================================
// Expression tools
// ============================================================

func TestHandleToolCall_Simplify(t *testing.T) {
	expr := symbolic.AddOf(symbolic.S("x"), symbolic.S("x"))
	j, _ := symbolic.ToJSON(expr)
	var m map[string]interface{}
	json.Unmarshal([]byte(j), &m)

	resp := mustCall(t, scene.New(nil), "simplify", map[string]interface{}{"expr": m})
	if resp.String != "2*x" {
		t.Errorf("expected 2*x, got %s", resp.String)
	}

	resp = mustCall(t, scene.New(nil), "simplify", map[string]interface{}{"expr": "cos(pi/3)"})
	if resp.String != "1/2" {
		t.Errorf("expected 1/2, got %s", resp.String)
	}
}

func TestHandleToolCall_Expand(t *testing.T) {
	resp := mustCall(t, scene.New(nil), "expand", map[string]interface{}{"expr": "(x + 1)*(x - 1)"})
	if resp.String != "x^2 + -1" {
		t.Errorf("expected x^2 + -1, got %s", resp.String)
	}
	resp = mustCall(t, scene.New(nil), "expand", map[string]interface{}{"expr": "(x + 1)^2"})
	if resp.String != "2*x + x^2 + 1" {
		t.Errorf("expected 2*x + x^2 + 1, got %s", resp.String)
	}
}

func TestHandleToolCall_FreeSymbols(t *testing.T) {
	resp := mustCall(t, scene.New(nil), "free_symbols", map[string]interface{}{"expr": "Global10 + Global2*pi + a"})
	syms, ok := resp.Result.([]string)
	if !ok {
		t.Fatalf("expected []string result, got %T", resp.Result)
	}
	if strings.Join(syms, ",") != "Global2,Global10,a" {
		t.Errorf("unexpected symbols %v", syms)
	}
}

func TestHandleToolCall_BadExpr(t *testing.T) {
	sc := scene.New(nil)
	for _, params := range []map[string]interface{}{
		{},
		{"expr": 42.0},
		{"expr": "x +"},
		{"expr": map[string]interface{}{"type": "nope"}},
	} {
		if resp := call(t, sc, "simplify", params); resp.Error == "" {
			t.Errorf("expected error for %v", params)
		}
	}
}

func TestHandleToolCall_UnknownTool(t *testing.T) {
	resp := tool.HandleToolCall(scene.New(nil), tool.ToolRequest{Tool: "nonexistent", Params: map[string]interface{}{}})
	if resp.Error == "" {
		t.Error("expected error for unknown tool")
	}
}

func TestSpec(t *testing.T) {
	spec := tool.Spec()
	var m struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal([]byte(spec), &m); err != nil {
		t.Fatalf("spec should be valid JSON: %v", err)
	}
	names := map[string]bool{}
	for _, tl := range m.Tools {
		names[tl.Name] = true
	}
	for _, want := range []string{"define", "lift", "contains", "is_descendant", "substitute", "loop", "list", "simplify", "free_symbols", "tool_spec"} {
		if !names[want] {
			t.Errorf("spec is missing %s", want)
		}
	}

	resp := mustCall(t, scene.New(nil), "tool_spec", nil)
	if resp.Result != spec {
		t.Error("tool_spec should return Spec()")
	}
}
