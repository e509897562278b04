// Package options defines the drawing options shared by the toolbar and
// the canvas and keeps each window's copy in step with the shared store.
package options

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/annotate/internal/palette"
	"github.com/example/annotate/internal/shape"
)

// Key is the store key holding the encoded options.
const Key = "toolbarOptions"

const (
	DefaultThickness = 2
	DefaultFadeSpeed = 0.01
)

// Options is the record every window renders and draws from.
type Options struct {
	Tool            shape.Kind `json:"shapeType"`
	Color           string     `json:"color"`
	StrokeThickness int        `json:"strokeThickness"`
	FadeLines       bool       `json:"fadeLines"`
	FadeSpeed       float64    `json:"fadeSpeed"`
	FillShape       bool       `json:"fillShape"`
	RandomColorMode bool       `json:"randomColorMode"`
	MoveShapes      bool       `json:"moveShapes"`
	HighlightCursor bool       `json:"highlightCursor"`
	TransparentMode bool       `json:"transparentMode"`
}

// Default returns the first-launch options.
func Default() Options {
	return Options{
		Tool:            shape.KindFreehand,
		Color:           palette.Default(),
		StrokeThickness: DefaultThickness,
		FadeSpeed:       DefaultFadeSpeed,
	}
}

// Normalize clamps out-of-range values into something drawable.
func (o Options) Normalize() Options {
	if o.StrokeThickness < shape.MinThickness {
		o.StrokeThickness = shape.MinThickness
	}
	if o.StrokeThickness > shape.MaxThickness {
		o.StrokeThickness = shape.MaxThickness
	}
	if _, ok := palette.Index(o.Color); !ok {
		o.Color = palette.Default()
	} else {
		o.Color = strings.ToLower(strings.TrimSpace(o.Color))
	}
	if !(o.FadeSpeed > 0) {
		o.FadeSpeed = DefaultFadeSpeed
	}
	if o.FadeSpeed > 1 {
		o.FadeSpeed = 1
	}
	return o
}

// Decode parses an encoded options record. Missing fields keep their
// defaults.
func Decode(data string) (Options, error) {
	o := Default()
	if err := json.Unmarshal([]byte(data), &o); err != nil {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}
	return o.Normalize(), nil
}

// Encode returns the stored form of o.
func (o Options) Encode() (string, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}
	return string(b), nil
}

// ColorIndex returns the palette slot of the active colour.
func (o Options) ColorIndex() int { return palette.Lookup(o.Color) }

// ActiveTool names the tool pointer presses use: "move" or a shape kind.
func (o Options) ActiveTool() string {
	if o.MoveShapes {
		return "move"
	}
	return o.Tool.String()
}

// setters maps field names, as stored, to parsers for the CLI.
var setters = map[string]func(*Options, string) error{
	"shapeType": func(o *Options, v string) error { return o.Tool.UnmarshalText([]byte(v)) },
	"color": func(o *Options, v string) error {
		if _, ok := palette.Index(v); !ok {
			return fmt.Errorf("unknown color %q", v)
		}
		o.Color = v
		return nil
	},
	"strokeThickness": func(o *Options, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		o.StrokeThickness = n
		return nil
	},
	"fadeSpeed": func(o *Options, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		o.FadeSpeed = f
		return nil
	},
	"fadeLines":       boolSetter(func(o *Options) *bool { return &o.FadeLines }),
	"fillShape":       boolSetter(func(o *Options) *bool { return &o.FillShape }),
	"randomColorMode": boolSetter(func(o *Options) *bool { return &o.RandomColorMode }),
	"moveShapes":      boolSetter(func(o *Options) *bool { return &o.MoveShapes }),
	"highlightCursor": boolSetter(func(o *Options) *bool { return &o.HighlightCursor }),
	"transparentMode": boolSetter(func(o *Options) *bool { return &o.TransparentMode }),
}

func boolSetter(field func(*Options) *bool) func(*Options, string) error {
	return func(o *Options, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(o) = b
		return nil
	}
}

// Fields lists the names Set accepts.
func Fields() []string {
	out := make([]string, 0, len(setters))
	for k := range setters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Set assigns one field by its stored name, case-insensitively.
func (o *Options) Set(name, value string) error {
	for k, fn := range setters {
		if strings.EqualFold(k, name) {
			if err := fn(o, strings.TrimSpace(value)); err != nil {
				return fmt.Errorf("invalid value for %s: %w", k, err)
			}
			*o = o.Normalize()
			return nil
		}
	}
	return fmt.Errorf("unknown option %q", name)
}
