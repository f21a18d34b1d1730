package notemap

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// namedTransforms are the transforms reachable from YAML configs.
var namedTransforms = map[string]Transform{
	"int":         ToInt,
	"float":       ToFloat,
	"bool":        ToBool,
	"time":        ToTime,
	"stringSlice": ToStringSlice,
}

type yamlField struct {
	Name      string `yaml:"name"`
	From      string `yaml:"from"`
	Transform string `yaml:"transform"`
	Default   any    `yaml:"default"`
	Required  bool   `yaml:"required"`
}

type yamlConfig struct {
	Fields []yamlField `yaml:"fields"`
}

// ParseConfig loads a field configuration from YAML. Sources use the
// [ParseSource] shorthand and transforms are referenced by name:
//
//	fields:
//	  - name: slug
//	    from: "#slug"
//	    required: true
//	  - name: wordCount
//	    from: "#wordCount"
//	    transform: int
//	    default: 0
//
// Computed fields cannot be expressed in YAML; add them to the parsed
// Config in code.
func ParseConfig(data []byte) (Config, error) {
	var doc yamlConfig
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("notemap: parse config: %w", err)
	}

	cfg := make(Config, 0, len(doc.Fields))
	for i, f := range doc.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("notemap: field %d: missing name", i)
		}
		if f.From == "" {
			return nil, fmt.Errorf("notemap: field %q: missing from", f.Name)
		}

		field := Field{
			Name:     f.Name,
			From:     ParseSource(f.From),
			Default:  f.Default,
			Required: f.Required,
		}
		if f.Transform != "" {
			t, ok := namedTransforms[f.Transform]
			if !ok {
				return nil, fmt.Errorf("notemap: field %q: unknown transform %q", f.Name, f.Transform)
			}
			field.Transform = t
		}
		cfg = append(cfg, field)
	}

	return cfg, nil
}
