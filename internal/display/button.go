package display

import (
	"image/color"
)

// Button 按钮：按下变暗，在按钮内抬起触发 OnClick
type Button struct {
	BaseComponent
	Text      string
	TextColor color.Color
	TextSize  float64
	OnClick   func()
	Pressed   bool
	Disabled  bool
	Radius    int
}

// NewButton 创建按钮
func NewButton(x, y, w, h int, text string) *Button {
	return &Button{
		BaseComponent: BaseComponent{
			X: x, Y: y, Width: w, Height: h,
			Background: ColorButtonBg,
			Visible:    true,
		},
		Text:      text,
		TextColor: ColorButtonText,
		TextSize:  16,
		Radius:    6,
	}
}

// Render 渲染按钮
func (b *Button) Render(g *Graphics) error {
	if !b.Visible {
		return nil
	}

	bg := b.Background
	if b.Pressed {
		bg = ColorButtonPressed
	}
	g.DrawRectRounded(b.X, b.Y, b.Width, b.Height, b.Radius, bg)

	textWidth := g.MeasureText(b.Text, b.TextSize, FontWeightMedium)
	textX := b.X + (b.Width-textWidth)/2
	textY := b.Y + (b.Height-int(b.TextSize))/2 - 2
	return g.DrawTextTTF(b.Text, textX, textY, b.TextColor, b.TextSize, FontWeightMedium)
}

// HandleTouch 处理触摸事件
func (b *Button) HandleTouch(x, y int, touchType TouchType) bool {
	if !b.Visible || b.Disabled {
		return false
	}

	if b.Contains(x, y) {
		switch touchType {
		case TouchDown:
			b.Pressed = true
			return true
		case TouchUp:
			if b.Pressed {
				b.Pressed = false
				if b.OnClick != nil {
					b.OnClick()
				}
				return true
			}
		case TouchMove:
			return b.Pressed
		}
		return false
	}

	// 移出按钮区域取消按下
	b.Pressed = false
	return false
}

// SetText 设置文本
func (b *Button) SetText(text string) {
	b.Text = text
}
