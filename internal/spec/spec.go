// Package spec decodes declarative presentation specifications (YAML or
// JSON) and interprets them against the deck construction engine.
package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the top-level specification. A non-empty Title emits a leading
// title slide before the explicit slide list is processed.
type Document struct {
	Title        string            `yaml:"title" json:"title,omitempty"`
	Subtitle     string            `yaml:"subtitle" json:"subtitle,omitempty"`
	Author       string            `yaml:"author" json:"author,omitempty"`
	Template     string            `yaml:"template" json:"template,omitempty"`
	Replacements map[string]string `yaml:"replacements" json:"replacements,omitempty"`
	Slides       []Slide           `yaml:"slides" json:"slides,omitempty"`
}

// Slide is one entry of the slide list. Type selects which fields apply;
// loosely typed fields stay `any` so coercion failures can be reported with
// the slide position and field name instead of a document-level decode error.
type Slide struct {
	Type     string `yaml:"type" json:"type,omitempty"`
	Title    string `yaml:"title" json:"title,omitempty"`
	Subtitle string `yaml:"subtitle" json:"subtitle,omitempty"`

	// content
	Layout  any   `yaml:"layout" json:"layout,omitempty"` // int index or string name
	Bullets []any `yaml:"bullets" json:"bullets,omitempty"`

	// optional inline image on content slides
	Image       string `yaml:"image" json:"image,omitempty"`
	ImageLeft   any    `yaml:"image_left" json:"image_left,omitempty"`
	ImageTop    any    `yaml:"image_top" json:"image_top,omitempty"`
	ImageWidth  any    `yaml:"image_width" json:"image_width,omitempty"`
	ImageHeight any    `yaml:"image_height" json:"image_height,omitempty"`

	// table
	Headers []any   `yaml:"headers" json:"headers,omitempty"`
	Data    [][]any `yaml:"data" json:"data,omitempty"`

	// chart
	ChartType  string         `yaml:"chart_type" json:"chart_type,omitempty"`
	Categories []any          `yaml:"categories" json:"categories,omitempty"`
	Series     map[string]any `yaml:"series" json:"series,omitempty"`

	// standalone image slides accept "image" or "path"
	Path   string `yaml:"path" json:"path,omitempty"`
	Left   any    `yaml:"left" json:"left,omitempty"`
	Top    any    `yaml:"top" json:"top,omitempty"`
	Width  any    `yaml:"width" json:"width,omitempty"`
	Height any    `yaml:"height" json:"height,omitempty"`

	Note              string            `yaml:"note" json:"note,omitempty"`
	PlaceholderImages map[string]string `yaml:"placeholder_images" json:"placeholder_images,omitempty"`
}

// InterpretationError reports a malformed field on one slide entry, carrying
// the slide's 0-based position in the input list.
type InterpretationError struct {
	SlideIndex int
	Field      string
	Reason     string
}

func (e *InterpretationError) Error() string {
	return fmt.Sprintf("slide %d: field %q: %s", e.SlideIndex, e.Field, e.Reason)
}

// Decode parses a specification from YAML bytes. JSON is a YAML subset, so
// JSON input decodes too.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode specification: %w", err)
	}
	return &doc, nil
}

// DecodeFile reads and parses a specification file. The .json extension
// selects the JSON decoder; everything else is treated as YAML.
func DecodeFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read specification: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode specification %s: %w", path, err)
		}
		return &doc, nil
	}
	return Decode(data)
}

// stringify renders any scalar cell value as display text. Integers keep
// their integer form; floats drop trailing zeros.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func stringifyAll(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = stringify(v)
	}
	return out
}

// toFloat coerces a decoded scalar into a float64. JSON numbers arrive as
// float64; YAML integers arrive as int.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	default:
		return 0, false
	}
}

func toFloats(v any) ([]float64, bool) {
	switch vals := v.(type) {
	case []any:
		out := make([]float64, len(vals))
		for i, item := range vals {
			f, ok := toFloat(item)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	case []float64:
		return vals, true
	default:
		return nil, false
	}
}
