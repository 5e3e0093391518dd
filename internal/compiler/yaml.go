package compiler

import (
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/concerto/pkg/domain"
	"gopkg.in/yaml.v3"
)

// maxYAMLNodes bounds the values produced once aliases are expanded.
const maxYAMLNodes = 1 << 20

var errTooManyNodes = errors.New("document expands to too many values")

// ParseYAML decodes a YAML instance document. Mapping order is preserved,
// so errors point at the same key a JSON rendering of the document would.
func (p *Parser) ParseYAML(data []byte) (domain.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Value{}, domain.NewInputMalformed(err, -1)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return domain.Value{}, domain.NewInputMalformed(fmt.Errorf("empty YAML document"), -1)
	}
	v, err := new(nodeWalker).value(doc.Content[0], 0)
	switch {
	case errors.Is(err, errTooDeep):
		return domain.Value{}, domain.NewNestingTooDeep(domain.Root, MaxNesting)
	case err != nil:
		return domain.Value{}, domain.NewInputMalformed(err, -1)
	}
	return v, nil
}

// nodeWalker converts a yaml.Node tree, counting the values it produces.
type nodeWalker struct {
	nodes int
}

func (w *nodeWalker) value(n *yaml.Node, depth int) (domain.Value, error) {
	if w.nodes++; w.nodes > maxYAMLNodes {
		return domain.Value{}, errTooManyNodes
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return domain.Null(), nil
		}
		return w.value(n.Content[0], depth)
	case yaml.AliasNode:
		return w.value(n.Alias, depth)
	case yaml.MappingNode, yaml.SequenceNode:
		if depth >= MaxNesting {
			return domain.Value{}, errTooDeep
		}
		return w.container(n, depth+1)
	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return domain.Value{}, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

func (w *nodeWalker) container(n *yaml.Node, depth int) (domain.Value, error) {
	switch n.Kind {
	case yaml.MappingNode:
		members := make([]domain.Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return domain.Value{}, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			v, err := w.value(n.Content[i+1], depth)
			if err != nil {
				return domain.Value{}, err
			}
			members = append(members, domain.M(k.Value, v))
		}
		return domain.Object(members...), nil
	default:
		elems := make([]domain.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.value(c, depth)
			if err != nil {
				return domain.Value{}, err
			}
			elems = append(elems, v)
		}
		return domain.Array(elems...), nil
	}
}

func fromScalar(n *yaml.Node) (domain.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return domain.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return domain.Value{}, err
		}
		return domain.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return domain.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return domain.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return domain.Value{}, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return domain.Value{}, fmt.Errorf("line %d: %s has no JSON representation", n.Line, n.Value)
		}
		return domain.Float(f), nil
	}
	return domain.String(n.Value), nil
}
