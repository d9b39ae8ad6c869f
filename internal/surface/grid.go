// Package surface 是 28×28 手写采集面：单元格、分批建网格、像素编码与交互控制。
package surface

import (
	"errors"
	"fmt"
	"image"
)

const (
	Rows = 28
	Cols = 28
	Size = Rows * Cols

	// titleGap 网格整体下移，避开标题
	titleGap = 40
)

// Handle 网格槽位：已创建的单元格或 Unbuilt
type Handle interface {
	Built() bool
	Filled() bool
}

type unbuilt struct{}

func (unbuilt) Built() bool  { return false }
func (unbuilt) Filled() bool { return false }

// Unbuilt 尚未创建（或创建失败）的槽位，永远不是 nil
var Unbuilt Handle = unbuilt{}

// Grid 固定 784 个槽位，行优先；构建后不再改变大小
type Grid struct {
	slots []Handle
}

func newGrid(slots []Handle) *Grid {
	for i := range slots {
		slots[i] = Unbuilt
	}
	return &Grid{slots: slots}
}

// Len 槽位数
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.slots)
}

// At 第 i 个槽位；越界或空网格返回 Unbuilt
func (g *Grid) At(i int) Handle {
	if g == nil || i < 0 || i >= len(g.slots) {
		return Unbuilt
	}
	return g.slots[i]
}

// Cell 返回 (row, col) 处已创建的单元格
func (g *Grid) Cell(row, col int) (*Cell, bool) {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return nil, false
	}
	c, ok := g.At(row*Cols + col).(*Cell)
	return c, ok
}

// Built 已创建的单元格数量
func (g *Grid) Built() int {
	n := 0
	for i := 0; i < g.Len(); i++ {
		if g.slots[i].Built() {
			n++
		}
	}
	return n
}

// Cells 所有已创建的单元格（行优先）
func (g *Grid) Cells() []*Cell {
	out := make([]*Cell, 0, g.Len())
	for i := 0; i < g.Len(); i++ {
		if c, ok := g.slots[i].(*Cell); ok {
			out = append(out, c)
		}
	}
	return out
}

func (g *Grid) set(i int, h Handle) {
	g.slots[i] = h
}

// Layout 网格在屏幕上的位置
type Layout struct {
	Rows    int
	Cols    int
	Edge    int // 单元格边长
	OriginX int
	OriginY int
}

// ComputeLayout 正方形区域取屏幕短边，水平居中，整体下移 titleGap
func ComputeLayout(width, height int) Layout {
	side := width
	if height < side {
		side = height
	}
	return Layout{
		Rows:    Rows,
		Cols:    Cols,
		Edge:    side / Cols,
		OriginX: (width - side) / 2,
		OriginY: (height-side)/2 + titleGap,
	}
}

// Validate 检查布局能否放下网格
func (l Layout) Validate() error {
	if l.Rows != Rows || l.Cols != Cols {
		return fmt.Errorf("网格必须是 %dx%d，实际 %dx%d", Rows, Cols, l.Rows, l.Cols)
	}
	if l.Edge <= 0 {
		return errors.New("单元格边长必须大于 0")
	}
	return nil
}

// CellRect 单元格矩形
func (l Layout) CellRect(row, col int) image.Rectangle {
	x := l.OriginX + col*l.Edge
	y := l.OriginY + row*l.Edge
	return image.Rect(x, y, x+l.Edge, y+l.Edge)
}

// CellCenter 单元格中心点（模拟点击用）
func (l Layout) CellCenter(row, col int) image.Point {
	r := l.CellRect(row, col)
	return image.Pt(r.Min.X+l.Edge/2, r.Min.Y+l.Edge/2)
}
