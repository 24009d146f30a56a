package symbolic

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ============================================================
// JSON Serialization
// ============================================================

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// Tree returns the JSON-ready tree for e.
func Tree(e Expr) map[string]interface{} { return e.toJSON() }

// PredTree returns the JSON-ready tree for p.
func PredTree(p Pred) map[string]interface{} { return p.toJSON() }

func PredToJSON(p Pred) (string, error) {
	b, err := json.Marshal(p.toJSON())
	return string(b), err
}

type decoder struct {
	typ  string
	data map[string]interface{}
}

func newDecoder(data map[string]interface{}) (*decoder, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: expression must be an object", ErrDecode)
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("%w: missing 'type' field", ErrDecode)
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("%w: field 'type' must be a non-empty string", ErrDecode)
	}
	return &decoder{typ: typ, data: data}, nil
}

func (d *decoder) obj(field string) (map[string]interface{}, error) {
	v, ok := d.data[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing %q", ErrDecode, d.typ, field)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s: %q must be an object", ErrDecode, d.typ, field)
	}
	return m, nil
}

func (d *decoder) objArray(field string) ([]map[string]interface{}, error) {
	v, ok := d.data[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing %q", ErrDecode, d.typ, field)
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s: %q must be an array", ErrDecode, d.typ, field)
	}
	out := make([]map[string]interface{}, len(raw))
	for i, it := range raw {
		m, ok := it.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q[%d] must be an object", ErrDecode, d.typ, field, i)
		}
		out[i] = m
	}
	return out, nil
}

func (d *decoder) str(field string) (string, error) {
	v, ok := d.data[field]
	if !ok {
		return "", fmt.Errorf("%w: %s: missing %q", ErrDecode, d.typ, field)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s: %q must be a non-empty string", ErrDecode, d.typ, field)
	}
	return s, nil
}

func (d *decoder) exprs(field string) ([]Expr, error) {
	objs, err := d.objArray(field)
	if err != nil {
		return nil, err
	}
	out := make([]Expr, len(objs))
	for i, o := range objs {
		e, err := FromJSON(o)
		if err != nil {
			return nil, fmt.Errorf("%s: %s[%d]: %w", d.typ, field, i, err)
		}
		out[i] = e
	}
	return out, nil
}

func FromJSON(data map[string]interface{}) (Expr, error) {
	d, err := newDecoder(data)
	if err != nil {
		return nil, err
	}

	switch d.typ {
	case "num":
		val, err := d.str("value")
		if err != nil {
			return nil, err
		}
		r := new(big.Rat)
		if _, ok := r.SetString(val); !ok {
			return nil, fmt.Errorf("%w: invalid num value: %s", ErrDecode, val)
		}
		return &Num{val: r}, nil

	case "sym":
		name, err := d.str("name")
		if err != nil {
			return nil, err
		}
		dummy, _ := data["dummy"].(bool)
		return &Sym{name: name, dummy: dummy}, nil

	case "const":
		name, err := d.str("name")
		if err != nil {
			return nil, err
		}
		c, ok := constByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown constant: %s", ErrDecode, name)
		}
		return c, nil

	case "add":
		terms, err := d.exprs("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := d.exprs("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		baseM, err := d.obj("base")
		if err != nil {
			return nil, err
		}
		expM, err := d.obj("exp")
		if err != nil {
			return nil, err
		}
		base, err := FromJSON(baseM)
		if err != nil {
			return nil, fmt.Errorf("pow: base: %w", err)
		}
		exp, err := FromJSON(expM)
		if err != nil {
			return nil, fmt.Errorf("pow: exp: %w", err)
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := d.str("name")
		if err != nil {
			return nil, err
		}
		var args []Expr
		if _, single := data["arg"]; single {
			argM, err := d.obj("arg")
			if err != nil {
				return nil, err
			}
			arg, err := FromJSON(argM)
			if err != nil {
				return nil, fmt.Errorf("func: arg: %w", err)
			}
			args = []Expr{arg}
		} else if args, err = d.exprs("args"); err != nil {
			return nil, err
		}
		arity, ok := funcArities[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown function: %s", ErrDecode, name)
		}
		if len(args) != arity {
			return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrDecode, name, arity, len(args))
		}
		return funcOf(name, args...).Simplify(), nil
	}
	return nil, fmt.Errorf("%w: unknown expression type: %s", ErrDecode, d.typ)
}

// PredFromJSON decodes a predicate tree produced by PredTree.
func PredFromJSON(data map[string]interface{}) (Pred, error) {
	d, err := newDecoder(data)
	if err != nil {
		return nil, err
	}
	switch d.typ {
	case "bool":
		v, ok := data["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("%w: bool: 'value' must be a boolean", ErrDecode)
		}
		return BoolOf(v), nil
	case "eq":
		lm, err := d.obj("lhs")
		if err != nil {
			return nil, err
		}
		rm, err := d.obj("rhs")
		if err != nil {
			return nil, err
		}
		lhs, err := FromJSON(lm)
		if err != nil {
			return nil, fmt.Errorf("eq: lhs: %w", err)
		}
		rhs, err := FromJSON(rm)
		if err != nil {
			return nil, fmt.Errorf("eq: rhs: %w", err)
		}
		return Eq(lhs, rhs), nil
	case "and":
		objs, err := d.objArray("args")
		if err != nil {
			return nil, err
		}
		args := make([]Pred, len(objs))
		for i, o := range objs {
			p, err := PredFromJSON(o)
			if err != nil {
				return nil, fmt.Errorf("and: args[%d]: %w", i, err)
			}
			args[i] = p
		}
		return Conjoin(args...), nil
	}
	return nil, fmt.Errorf("%w: unknown predicate type: %s", ErrDecode, d.typ)
}
