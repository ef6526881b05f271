package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is a parsed score document.
type Document struct {
	Header string    `yaml:"header"`
	Footer string    `yaml:"footer"`
	Parts  []PartDoc `yaml:"parts"`
}

// PartDoc describes one part. Pointer fields distinguish "absent" from zero.
type PartDoc struct {
	Name          string      `yaml:"name,omitempty"`
	Instrument    *int        `yaml:"instrument"`
	Start         *float64    `yaml:"start"`
	End           *float64    `yaml:"end"`
	MaxStatements int         `yaml:"max_statements,omitempty"`
	Duration      *StreamSpec `yaml:"duration"`
	Delay         *StreamSpec `yaml:"delay"`
	Fields        FieldSpecs  `yaml:"fields,omitempty"`
}

// StreamSpec names a stream and carries its optional payload.
type StreamSpec struct {
	Name    string
	Payload *yaml.Node // nil when the stream was named without a payload
	Line    int
}

// UnmarshalYAML accepts a bare name or a single-key mapping.
func (s *StreamSpec) UnmarshalYAML(n *yaml.Node) error {
	s.Line = n.Line
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return fmt.Errorf("line %d: stream name is empty", n.Line)
		}
		s.Name = n.Value
		return nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return fmt.Errorf("line %d: stream mapping must have exactly one key, got %d", n.Line, len(n.Content)/2)
		}
		key, value := n.Content[0], n.Content[1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return fmt.Errorf("line %d: stream name must be a non-empty string", key.Line)
		}
		s.Name = key.Value
		if !isNull(value) {
			s.Payload = value
		}
		return nil
	default:
		return fmt.Errorf("line %d: stream must be a name or a {name: payload} mapping", n.Line)
	}
}

// FieldSpec binds a p-field key, as written in the document, to a stream.
type FieldSpec struct {
	Key    string
	Stream StreamSpec
}

// FieldSpecs keeps per-field streams in document order.
type FieldSpecs []FieldSpec

// UnmarshalYAML reads a mapping of field key to stream spec. Keys are kept
// as written; the engine decides which ones it accepts.
func (f *FieldSpecs) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping of p-field index to stream", n.Line)
	}
	out := make(FieldSpecs, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		var spec StreamSpec
		if err := value.Decode(&spec); err != nil {
			return fmt.Errorf("fields[%s]: %w", key.Value, err)
		}
		out = append(out, FieldSpec{Key: key.Value, Stream: spec})
	}
	*f = out
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
