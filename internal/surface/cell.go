package surface

import (
	"image"
	"image/color"

	"cam-screen/internal/display"
)

// Cell 一个可点击的单元格 = 一个像素；填充状态就是它的底色。
// 底色只能经 SetFilled / Toggle 修改，取值为 ColorCellEmpty 或 ColorCellFilled。
type Cell struct {
	display.BaseComponent
	Row, Col int

	paint color.RGBA

	onTap   func(*Cell)
	pressed bool
}

func newCell(row, col int, r image.Rectangle) *Cell {
	return &Cell{
		BaseComponent: display.BaseComponent{
			X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy(),
			Visible: true,
		},
		Row:   row,
		Col:   col,
		paint: display.ColorCellEmpty,
	}
}

func (c *Cell) Built() bool { return true }

// Filled 底色是否为填充色
func (c *Cell) Filled() bool {
	return c.paint == display.ColorCellFilled
}

// Paint 当前底色
func (c *Cell) Paint() color.RGBA { return c.paint }

// Index 行优先下标
func (c *Cell) Index() int { return c.Row*Cols + c.Col }

// OnTap 绑定点击回调（所有单元格共用一个）
func (c *Cell) OnTap(fn func(*Cell)) { c.onTap = fn }

// SetFilled 设置填充状态
func (c *Cell) SetFilled(filled bool) {
	if filled {
		c.paint = display.ColorCellFilled
	} else {
		c.paint = display.ColorCellEmpty
	}
}

// Toggle 白变黑，其余一律变白
func (c *Cell) Toggle() {
	c.SetFilled(c.paint == display.ColorCellEmpty)
}

func (c *Cell) Render(g *display.Graphics) error {
	if c.Width <= 2 || c.Height <= 2 {
		g.DrawRect(c.X, c.Y, c.Width, c.Height, c.paint)
		return nil
	}
	g.DrawBorder(c.X, c.Y, c.Width, c.Height, 1, display.ColorCellBorder)
	g.DrawRect(c.X+1, c.Y+1, c.Width-2, c.Height-2, c.paint)
	return nil
}

// HandleTouch 在单元格内按下并抬起才算一次点击
func (c *Cell) HandleTouch(x, y int, touchType display.TouchType) bool {
	switch touchType {
	case display.TouchDown:
		c.pressed = c.Contains(x, y)
		return c.pressed
	case display.TouchUp:
		was := c.pressed
		c.pressed = false
		if was && c.Contains(x, y) && c.onTap != nil {
			c.onTap(c)
			return true
		}
		return was
	}
	return c.pressed
}
