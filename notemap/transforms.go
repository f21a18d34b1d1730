package notemap

import (
	"strings"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"

	trilium "github.com/trilium-community/trilium.go"
	"github.com/trilium-community/trilium.go/internal/codec"
)

// Built-in transforms. Label values arrive from the server as strings,
// so most struct fields want one of these. Each one maps nil to nil and
// unparseable input to nil, letting the field's default take over.

// ToInt parses the value as an int: "1000" becomes 1000.
func ToInt(value any, _ *trilium.Note) any {
	if value == nil {
		return nil
	}
	n, err := cast.ToIntE(value)
	if err != nil {
		return nil
	}
	return n
}

// ToFloat parses the value as a float64.
func ToFloat(value any, _ *trilium.Note) any {
	if value == nil {
		return nil
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return nil
	}
	return f
}

// ToBool parses the value as a bool: "true", "1", "t" and friends.
func ToBool(value any, _ *trilium.Note) any {
	if value == nil {
		return nil
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return nil
	}
	return b
}

// ToTime parses the value as a [time.Time]. It handles the layout
// Trilium emits for date fields ("2021-12-31 20:18:11.939+0100") along
// with most other common layouts.
func ToTime(value any, _ *trilium.Note) any {
	if value == nil {
		return nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}
	return t
}

// ToStringSlice splits the value into a []string. A JSON array literal
// decodes element-wise; anything else splits on commas with surrounding
// whitespace trimmed. An empty value yields nil.
func ToStringSlice(value any, _ *trilium.Note) any {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, cast.ToString(e))
		}
		return out
	}

	s, err := cast.ToStringE(value)
	if err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "[") {
		var out []string
		if err := (codec.JSON{}).Unmarshal([]byte(s), &out); err == nil {
			return out
		}
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Chain composes transforms left to right. A nil result short-circuits
// the rest of the chain.
func Chain(transforms ...Transform) Transform {
	return func(value any, note *trilium.Note) any {
		for _, t := range transforms {
			if value == nil {
				return nil
			}
			value = t(value, note)
		}
		return value
	}
}
