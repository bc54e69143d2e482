package value

import (
	"fmt"
	"strconv"

	"github.com/cottand/ocl/types"
	"gopkg.in/yaml.v3"
)

// Literal is a value together with the static type it should be checked as
type Literal struct {
	Value Value
	Type  types.Type
}

// DecodeYAML reads a value written as YAML:
//
//	1, 2.5, hello, true, null
//	{bag: [1, 2, 2]}
//	{set: [a, b]}
//	{range: [1, 3, 8, 10]}
//	{undefined: Bag(Integer)}
//
// The element type of a collection is the least common supertype of its elements in h.
func DecodeYAML(src string, h *types.Hierarchy) (Literal, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return Literal{}, fmt.Errorf("could not parse value %q: %w", src, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return Literal{}, fmt.Errorf("expected a single value in %q", src)
	}
	return decodeNode(doc.Content[0], h)
}

func decodeNode(node *yaml.Node, h *types.Hierarchy) (Literal, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		v, err := decodeScalar(node)
		if err != nil {
			return Literal{}, err
		}
		return Literal{Value: v, Type: v.Type()}, nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return Literal{}, fmt.Errorf("line %d: expected a mapping with a single key", node.Line)
		}
		key, body := node.Content[0].Value, node.Content[1]
		switch key {
		case "bag", "set":
			return decodeCollection(key, body, h)
		case "range":
			return decodeRange(body)
		case "undefined":
			t, err := h.Parse(body.Value)
			if err != nil {
				return Literal{}, fmt.Errorf("line %d: %w", body.Line, err)
			}
			return Literal{Value: Undefined, Type: t}, nil
		}
		return Literal{}, fmt.Errorf("line %d: unknown value kind %q (want bag, set, range or undefined)", node.Line, key)
	}
	return Literal{}, fmt.Errorf("line %d: unsupported value", node.Line)
}

func decodeScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Undefined, nil
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Boolean(b), nil
	case "!!int":
		i, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Integer(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Real(f), nil
	}
	return String(node.Value), nil
}

func decodeCollection(kind string, body *yaml.Node, h *types.Hierarchy) (Literal, error) {
	if body.Kind != yaml.SequenceNode {
		return Literal{}, fmt.Errorf("line %d: %s must be a sequence", body.Line, kind)
	}
	var elemType types.Type = types.Void
	elems := make([]Value, 0, len(body.Content))
	for _, item := range body.Content {
		elem, err := decodeNode(item, h)
		if err != nil {
			return Literal{}, err
		}
		joined, ok := h.LeastCommonSupertype(elemType, elem.Type)
		if !ok {
			return Literal{}, fmt.Errorf("line %d: element %v of type %v has no common supertype with %v", item.Line, elem.Value, elem.Type, elemType)
		}
		elemType = joined
		elems = append(elems, elem.Value)
	}
	if kind == "set" {
		set := NewSet(elemType, elems...)
		return Literal{Value: set, Type: set.Type()}, nil
	}
	bag := NewBag(elemType, elems...)
	return Literal{Value: bag, Type: bag.Type()}, nil
}

func decodeRange(body *yaml.Node) (Literal, error) {
	var bounds []int64
	if err := body.Decode(&bounds); err != nil {
		return Literal{}, fmt.Errorf("line %d: range bounds must be integers: %w", body.Line, err)
	}
	if len(bounds) == 0 || len(bounds)%2 != 0 {
		return Literal{}, fmt.Errorf("line %d: range needs a non-empty, even number of bounds, got %d", body.Line, len(bounds))
	}
	if _, err := RangeSize(bounds...); err != nil {
		return Literal{}, fmt.Errorf("line %d: %w", body.Line, err)
	}
	bag := NewBagFromRanges(bounds...)
	return Literal{Value: bag, Type: bag.Type()}, nil
}
