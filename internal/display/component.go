package display

import (
	"image/color"
)

// Component 屏幕上的一个对象
type Component interface {
	Render(g *Graphics) error
	HandleTouch(x, y int, touchType TouchType) bool
	GetBounds() (x, y, w, h int)
	SetVisible(visible bool)
	IsVisible() bool
}

// BaseComponent 组件基类
type BaseComponent struct {
	X, Y, Width, Height int
	Background          color.Color
	Visible             bool
}

// GetBounds 获取边界
func (c *BaseComponent) GetBounds() (x, y, w, h int) {
	return c.X, c.Y, c.Width, c.Height
}

// SetVisible 设置可见性
func (c *BaseComponent) SetVisible(visible bool) {
	c.Visible = visible
}

// IsVisible 是否可见
func (c *BaseComponent) IsVisible() bool {
	return c.Visible
}

// Contains 点是否落在组件内
func (c *BaseComponent) Contains(x, y int) bool {
	return x >= c.X && x < c.X+c.Width && y >= c.Y && y < c.Y+c.Height
}

// HandleTouch 默认触摸处理
func (c *BaseComponent) HandleTouch(x, y int, touchType TouchType) bool {
	return false
}

func contains(c Component, x, y int) bool {
	cx, cy, w, h := c.GetBounds()
	return x >= cx && x < cx+w && y >= cy && y < cy+h
}
