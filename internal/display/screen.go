package display

import (
	"errors"
	"image/color"
)

// ErrObjectLimit 屏幕对象已达上限，新对象无法创建
var ErrObjectLimit = errors.New("screen object limit reached")

// Screen 对象容器页面：按添加顺序绘制，后添加的在上层。
// 触摸按下时命中最上层对象，之后的 Move/Up 都交给这个对象直到抬起。
type Screen struct {
	BasePage
	Background color.Color

	max     int
	objects []Component
	pressed Component
}

// NewScreen 创建屏幕；maxObjects <= 0 表示不限制
func NewScreen(name string, bg color.Color, maxObjects int) *Screen {
	return &Screen{
		BasePage:   BasePage{Name: name},
		Background: bg,
		max:        maxObjects,
	}
}

// Add 添加对象，超出上限返回 ErrObjectLimit
func (s *Screen) Add(c Component) error {
	if s.max > 0 && len(s.objects) >= s.max {
		return ErrObjectLimit
	}
	s.objects = append(s.objects, c)
	return nil
}

// Len 当前对象数
func (s *Screen) Len() int { return len(s.objects) }

// Remaining 剩余可添加数量（-1 表示不限制）
func (s *Screen) Remaining() int {
	if s.max <= 0 {
		return -1
	}
	return s.max - len(s.objects)
}

func (s *Screen) Render(g *Graphics) error {
	if s.Background != nil {
		g.Clear(s.Background)
	}
	for _, c := range s.objects {
		if !c.IsVisible() {
			continue
		}
		if err := c.Render(g); err != nil {
			return err
		}
	}
	return nil
}

func (s *Screen) HandleTouch(x, y int, touchType TouchType) bool {
	switch touchType {
	case TouchDown:
		s.pressed = nil
		for i := len(s.objects) - 1; i >= 0; i-- {
			c := s.objects[i]
			if !c.IsVisible() || !contains(c, x, y) {
				continue
			}
			s.pressed = c
			return c.HandleTouch(x, y, TouchDown)
		}
	case TouchMove:
		if s.pressed != nil {
			return s.pressed.HandleTouch(x, y, TouchMove)
		}
	case TouchUp:
		if s.pressed != nil {
			c := s.pressed
			s.pressed = nil
			return c.HandleTouch(x, y, TouchUp)
		}
	}
	return false
}
