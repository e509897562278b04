package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/annotate/internal/engine"
	"github.com/example/annotate/internal/options"
	"github.com/example/annotate/internal/palette"
	"github.com/example/annotate/internal/shape"
	"github.com/example/annotate/internal/theme"
)

const (
	rowHeight  = 24
	padding    = 4
	minToolbar = 96
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// button is one toolbar control. Buttons sharing a row split its width.
type button struct {
	name   string
	row    int
	label  func(options.Options) string
	swatch int // palette slot, or -1
	active func(options.Options) bool
	press  func(*Toolbar)
	rect   image.Rectangle
}

func (b *button) enabled() bool { return b.press != nil }

// Toolbar is the control panel. It writes option changes through its
// source and board commands through command; it never touches shapes.
type Toolbar struct {
	src     engine.OptionSource
	command func(op string) error
	theme   *theme.Theme

	buttons []*button
	width   int
	hover   int
	pressed int
}

// NewToolbar lays out the controls. A nil theme uses theme.Default.
func NewToolbar(src engine.OptionSource, command func(op string) error, th *theme.Theme) *Toolbar {
	if th == nil {
		th = theme.Default()
	}
	t := &Toolbar{src: src, command: command, theme: th, hover: -1, pressed: -1}
	t.buttons = toolbarButtons()
	t.layout()
	return t
}

func static(s string) func(options.Options) string {
	return func(options.Options) string { return s }
}

func toggle(name, label string, field func(*options.Options) *bool) *button {
	return &button{
		name:   name,
		label:  static(label),
		swatch: -1,
		active: func(o options.Options) bool { return *field(&o) },
		press: func(t *Toolbar) {
			t.update(func(o *options.Options) { *field(o) = !*field(o) })
		},
	}
}

func toolbarButtons() []*button {
	var bs []*button
	tools := []struct {
		label string
		kind  shape.Kind
	}{
		{"P:Pen", shape.KindFreehand},
		{"L:Line", shape.KindLine},
		{"A:Arrow", shape.KindArrow},
		{"R:Rect", shape.KindRectangle},
		{"O:Circle", shape.KindCircle},
	}
	for _, tl := range tools {
		k := tl.kind
		bs = append(bs, &button{
			name:   "tool:" + k.String(),
			label:  static(tl.label),
			swatch: -1,
			active: func(o options.Options) bool { return !o.MoveShapes && o.Tool == k },
			press: func(t *Toolbar) {
				t.update(func(o *options.Options) {
					o.Tool = k
					o.MoveShapes = false
				})
			},
		})
	}
	bs = append(bs, toggle("move", "Move", func(o *options.Options) *bool { return &o.MoveShapes }))

	for i, c := range palette.Colors() {
		name := c.Name
		bs = append(bs, &button{
			name:   "color:" + name,
			label:  static(""),
			swatch: i,
			active: func(o options.Options) bool { return o.Color == name },
			press: func(t *Toolbar) {
				t.update(func(o *options.Options) { o.Color = name })
			},
		})
	}

	bs = append(bs,
		&button{
			name:   "thinner",
			label:  static("-"),
			swatch: -1,
			active: func(options.Options) bool { return false },
			press:  func(t *Toolbar) { t.thickness(-1) },
		},
		&button{
			name:   "width",
			label:  func(o options.Options) string { return strconv.Itoa(o.StrokeThickness) },
			swatch: -1,
			active: func(options.Options) bool { return false },
		},
		&button{
			name:   "thicker",
			label:  static("+"),
			swatch: -1,
			active: func(options.Options) bool { return false },
			press:  func(t *Toolbar) { t.thickness(1) },
		},
	)

	bs = append(bs,
		toggle("fill", "F:Fill", func(o *options.Options) *bool { return &o.FillShape }),
		toggle("fade", "Fade", func(o *options.Options) *bool { return &o.FadeLines }),
		toggle("random", "Random", func(o *options.Options) *bool { return &o.RandomColorMode }),
		toggle("cursor", "Cursor", func(o *options.Options) *bool { return &o.HighlightCursor }),
		toggle("transparent", "Pass-thru", func(o *options.Options) *bool { return &o.TransparentMode }),
		&button{
			name:   "clear",
			label:  static("Clear"),
			swatch: -1,
			active: func(options.Options) bool { return false },
			press: func(t *Toolbar) {
				if err := t.command(options.OpClear); err != nil {
					log.Printf("toolbar: clear: %v", err)
				}
			},
		},
	)

	row := 0
	for i, b := range bs {
		if i > 0 && !sameRow(bs[i-1], b) {
			row++
		}
		b.row = row
	}
	return bs
}

// sameRow groups the colour swatches and the thickness controls.
func sameRow(a, b *button) bool {
	if a.swatch >= 0 && b.swatch >= 0 {
		return true
	}
	thick := func(n string) bool { return n == "thinner" || n == "width" || n == "thicker" }
	return thick(a.name) && thick(b.name)
}

// layout sizes the toolbar so every label fits and assigns button rects.
func (t *Toolbar) layout() {
	d := &font.Drawer{Face: basicfont.Face7x13}
	t.width = max(minToolbar, d.MeasureString("Annotate").Ceil()+2*padding)
	cur := t.src.Options()
	for _, b := range t.buttons {
		if w := d.MeasureString(b.label(cur)).Ceil() + 2*padding; w > t.width {
			t.width = w
		}
	}

	rows := map[int][]*button{}
	for _, b := range t.buttons {
		rows[b.row] = append(rows[b.row], b)
	}
	for row, bs := range rows {
		y := rowHeight + row*rowHeight
		cell := t.width / len(bs)
		for i, b := range bs {
			x0 := i * cell
			x1 := x0 + cell
			if i == len(bs)-1 {
				x1 = t.width
			}
			b.rect = image.Rect(x0, y, x1, y+rowHeight)
		}
	}
}

// Size returns the window size the toolbar needs.
func (t *Toolbar) Size() image.Point {
	last := t.buttons[len(t.buttons)-1]
	return image.Pt(t.width, last.rect.Max.Y+padding)
}

func (t *Toolbar) at(p image.Point) int {
	for i, b := range t.buttons {
		if p.In(b.rect) {
			return i
		}
	}
	return -1
}

// Hover tracks the pointer and reports whether the highlight moved.
func (t *Toolbar) Hover(p image.Point) bool {
	i := t.at(p)
	if i >= 0 && !t.buttons[i].enabled() {
		i = -1
	}
	if i == t.hover {
		return false
	}
	t.hover = i
	return true
}

// Press activates the button under p and reports whether one was hit.
func (t *Toolbar) Press(p image.Point) bool {
	i := t.at(p)
	if i < 0 || !t.buttons[i].enabled() {
		return false
	}
	t.pressed = i
	t.buttons[i].press(t)
	return true
}

// Release ends a press and reports whether the toolbar needs repainting.
func (t *Toolbar) Release() bool {
	if t.pressed < 0 {
		return false
	}
	t.pressed = -1
	return true
}

// Leave clears the hover highlight.
func (t *Toolbar) Leave() bool {
	if t.hover < 0 && t.pressed < 0 {
		return false
	}
	t.hover, t.pressed = -1, -1
	return true
}

func (t *Toolbar) update(fn func(*options.Options)) { t.src.Update(fn) }

func (t *Toolbar) thickness(delta int) {
	t.update(func(o *options.Options) {
		o.StrokeThickness = min(max(o.StrokeThickness+delta, shape.MinThickness), shape.MaxThickness)
	})
}

func (t *Toolbar) state(i int, cur options.Options) ButtonState {
	switch {
	case i == t.pressed || t.buttons[i].active(cur):
		return StatePressed
	case i == t.hover:
		return StateHover
	}
	return StateDefault
}

// Draw paints the toolbar for the current options.
func (t *Toolbar) Draw(dst *image.RGBA) {
	th := t.theme
	cur := t.src.Options()
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	drawLabel(dst, image.Pt(padding, rowHeight-8), "Annotate", th.Foreground)

	for i, b := range t.buttons {
		st := t.state(i, cur)
		if b.swatch >= 0 {
			drawSwatch(dst, b.rect, palette.At(b.swatch).Color, st, th)
			continue
		}
		bg := th.ButtonBackground
		switch st {
		case StateHover:
			bg = th.ButtonHover
		case StatePressed:
			bg = th.ButtonActive
		}
		if !b.enabled() {
			bg = th.Background
		}
		draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
		if b.enabled() {
			strokeRect(dst, b.rect, th.ButtonBorder, 1)
		}
		label := b.label(cur)
		d := &font.Drawer{Face: basicfont.Face7x13}
		x := b.rect.Min.X + (b.rect.Dx()-d.MeasureString(label).Ceil())/2
		drawLabel(dst, image.Pt(x, b.rect.Min.Y+16), label, th.ButtonText)
	}
}

func drawSwatch(dst *image.RGBA, r image.Rectangle, c color.RGBA, st ButtonState, th *theme.Theme) {
	draw.Draw(dst, r, &image.Uniform{th.Background}, image.Point{}, draw.Src)
	inner := r.Inset(padding)
	draw.Draw(dst, inner, &image.Uniform{c}, image.Point{}, draw.Src)
	switch st {
	case StatePressed:
		strokeRect(dst, inner.Inset(-2), th.SwatchRing, 2)
	case StateHover:
		draw.Draw(dst, inner, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
	}
}

func drawLabel(dst *image.RGBA, dot image.Point, s string, c color.RGBA) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13, Dot: fixed.P(dot.X, dot.Y)}
	d.DrawString(s)
}
