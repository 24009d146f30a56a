package tool

import "encoding/json"

// Spec returns the JSON schema of every tool, for agent registration.
func Spec() string {
	tools := []map[string]interface{}{
		ts("define", "Define a named space. kind: subspace (default), cylindrical, vector, points, bound. Expressions are infix strings",
			[]string{"name"}, map[string]string{
				"name": "string", "kind": "string", "parent": "string",
				"coords": "array", "params": "array", "implicit": "string", "inverse": "array",
				"start": "array", "vectors": "array", "points": "array",
				"carrier": "string", "loop": "array",
			}),
		ts("lift", "Re-express a subspace in an ancestor's parameters. levels=0 lifts to the root. Optional as stores the result",
			[]string{"space"}, map[string]string{"space": "string", "levels": "integer", "as": "string"}),
		ts("contains", "Decide whether space contains other: true, false or a residual condition",
			[]string{"space", "other"}, map[string]string{"space": "string", "other": "string"}),
		ts("is_descendant", "Whether space descends from other (root is everyone's ancestor)",
			[]string{"space", "other"}, map[string]string{"space": "string", "other": "string"}),
		ts("substitute", "Apply a symbol mapping {name: expr} to a space and its parent chain",
			[]string{"space", "mapping"}, map[string]string{"space": "string", "mapping": "object", "as": "string"}),
		ts("loop", "Validate named spaces as a closed boundary loop",
			[]string{"members"}, map[string]string{"members": "array"}),
		ts("list", "List every defined space", []string{}, map[string]string{}),
		ts("simplify", "Simplify an expression (infix string or expression tree)", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("expand", "Algebraically expand an expression", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("free_symbols", "Return free symbol names", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
