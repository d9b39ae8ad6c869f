package display

import (
	"image/color"
)

// Align 文本水平对齐
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Label 单行文本
type Label struct {
	BaseComponent
	text   string
	Color  color.Color
	Size   float64
	Weight FontWeight
	Align  Align
}

// NewLabel 创建文本标签；Align 为 AlignCenter 时在 [x, x+w) 内居中
func NewLabel(x, y, w, h int, text string, c color.Color, size float64) *Label {
	return &Label{
		BaseComponent: BaseComponent{X: x, Y: y, Width: w, Height: h, Visible: true},
		text:          text,
		Color:         c,
		Size:          size,
		Align:         AlignCenter,
	}
}

// Text 当前文本
func (l *Label) Text() string { return l.text }

// SetText 替换文本
func (l *Label) SetText(s string) { l.text = s }

func (l *Label) Render(g *Graphics) error {
	if !l.Visible || l.text == "" {
		return nil
	}
	x := l.X
	if l.Align == AlignCenter {
		x = l.X + (l.Width-g.MeasureText(l.text, l.Size, l.Weight))/2
	}
	return g.DrawTextTTF(l.text, x, l.Y, l.Color, l.Size, l.Weight)
}
