package records

import (
	stderrors "errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tablescope/pkg/errors"
)

// ReadYAML reads a YAML sequence of flat mappings. Key order of the
// mappings is preserved.
func ReadYAML(r io.Reader) (*RecordSet, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.InvalidInput("YAML input is empty")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode YAML records")
	}

	seq := &doc
	if seq.Kind == yaml.DocumentNode && len(seq.Content) > 0 {
		seq = seq.Content[0]
	}
	if seq.Kind != yaml.SequenceNode {
		return nil, errors.InvalidInput("YAML records must be a list of mappings (line %d)", seq.Line)
	}

	var b builder
	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return nil, errors.InvalidInput("record %d is not a mapping (line %d)", i+1, item.Line)
		}
		keys := make([]string, 0, len(item.Content)/2)
		values := make([]string, 0, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			k, v := item.Content[j], item.Content[j+1]
			if v.Kind != yaml.ScalarNode {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput,
					fmt.Errorf("nested values are not supported"), "record %d field %q", i+1, k.Value)
			}
			keys = append(keys, k.Value)
			if v.Tag == "!!null" {
				values = append(values, "")
			} else {
				values = append(values, v.Value)
			}
		}
		b.add(keys, values)
	}
	return b.build()
}
