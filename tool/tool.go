// Package tool exposes a scene through JSON tool calls, the request and
// response shapes agent frameworks use for function calling.
package tool

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/njchilds90/ndspace"
	"github.com/njchilds90/ndspace/scene"
	"github.com/njchilds90/ndspace/symbolic"
)

// ============================================================
// Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall runs req against sc. Failures are reported in the
// response's Error field.
func HandleToolCall(sc *scene.Scene, req ToolRequest) ToolResponse {
	resp := handle(sc, req)
	result := "ok"
	if resp.Error != "" {
		result = "error"
	}
	name := req.Tool
	if !knownTools[name] {
		name = "unknown"
	}
	callsTotal.WithLabelValues(name, result).Inc()
	return resp
}

var knownTools = map[string]bool{
	"define": true, "lift": true, "contains": true, "is_descendant": true,
	"substitute": true, "loop": true, "list": true, "simplify": true,
	"expand": true, "free_symbols": true, "tool_spec": true,
}

func handle(sc *scene.Scene, req ToolRequest) ToolResponse {
	getExpr := func(key string) (symbolic.Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		switch val := v.(type) {
		case string:
			return symbolic.Parse(val)
		case map[string]interface{}:
			return symbolic.FromJSON(val)
		}
		return nil, fmt.Errorf("invalid type for param %s", key)
	}
	respond := func(e symbolic.Expr) ToolResponse {
		return ToolResponse{Result: symbolic.Tree(e), LaTeX: e.LaTeX(), String: e.String()}
	}
	query := func(op string) ToolResponse {
		var q scene.Query
		if err := decodeParams(req.Params, &q); err != nil {
			return ToolResponse{Error: err.Error()}
		}
		q.Op = op
		res, err := sc.Run(q)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respondResult(res)
	}

	switch req.Tool {
	case "define":
		var d scene.Definition
		if err := decodeParams(req.Params, &d); err != nil {
			return ToolResponse{Error: err.Error()}
		}
		sp, err := sc.Define(d)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: describe(sp), String: sp.String()}

	case "lift":
		return query(scene.OpLift)
	case "contains":
		return query(scene.OpContains)
	case "is_descendant":
		return query(scene.OpIsDescendant)
	case "substitute":
		return query(scene.OpSubstitute)
	case "loop":
		return query(scene.OpLoop)

	case "list":
		names := sc.Names()
		spaces := make([]map[string]interface{}, 0, len(names))
		for _, n := range names {
			sp, ok := sc.Get(n)
			if !ok {
				continue
			}
			d := describe(sp)
			d["name"] = n
			spaces = append(spaces, d)
		}
		return ToolResponse{Result: spaces}

	case "simplify":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(e.Simplify())

	case "expand":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(symbolic.Expand(e))

	case "free_symbols":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		names := symbolic.SortedNames(symbolic.FreeSymbols(e))
		return ToolResponse{Result: names, String: fmt.Sprint(names)}

	case "tool_spec":
		return ToolResponse{Result: Spec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// decodeParams round-trips params through JSON into v, rejecting unknown
// fields.
func decodeParams(params map[string]interface{}, v interface{}) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

func respondResult(res scene.Result) ToolResponse {
	switch {
	case res.Space != nil:
		return ToolResponse{Result: describe(res.Space), String: res.Space.String()}
	case res.Pred != nil:
		out := map[string]interface{}{"known": res.Known, "pred": symbolic.PredTree(res.Pred)}
		if res.Known {
			out["value"] = res.Value
		}
		return ToolResponse{Result: out, LaTeX: res.Pred.LaTeX(), String: res.Pred.String()}
	case res.Loop != nil:
		return ToolResponse{
			Result: map[string]interface{}{"order": res.Loop.Order(), "members": len(res.Loop.Members())},
			String: res.Loop.String(),
		}
	}
	return ToolResponse{Result: res.Value, String: res.String()}
}

func describe(sp ndspace.Space) map[string]interface{} {
	out := map[string]interface{}{"order": sp.Order(), "string": sp.String()}
	sub, ok := sp.(*ndspace.Subspace)
	if b, isBound := sp.(*ndspace.Bound); isBound {
		sub, ok = b.Carrier(), true
		out["bound"] = true
	}
	if !ok {
		return out
	}
	out["coords"] = strs(sub.Coords())
	params := make([]string, 0, sub.Order())
	for _, p := range sub.Params() {
		params = append(params, p.Name())
	}
	out["params"] = params
	if imp, ok := sub.Implicit(); ok {
		out["implicit"] = imp.String()
	}
	if inv, ok := sub.Inverse(); ok {
		out["inverse"] = strs(inv)
	}
	return out
}

func strs(es []symbolic.Expr) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.String()
	}
	return out
}
