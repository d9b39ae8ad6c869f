package display

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	BaseComponent
	got []TouchType
}

func newProbe(x, y, w, h int) *probe {
	return &probe{BaseComponent: BaseComponent{X: x, Y: y, Width: w, Height: h, Visible: true}}
}

func (p *probe) Render(g *Graphics) error {
	g.DrawRect(p.X, p.Y, p.Width, p.Height, color.Black)
	return nil
}

func (p *probe) HandleTouch(x, y int, tt TouchType) bool {
	p.got = append(p.got, tt)
	return true
}

func TestScreen_ObjectLimit(t *testing.T) {
	s := NewScreen("grid", ColorScreenBg, 2)
	require.NoError(t, s.Add(newProbe(0, 0, 1, 1)))
	require.NoError(t, s.Add(newProbe(0, 0, 1, 1)))
	assert.ErrorIs(t, s.Add(newProbe(0, 0, 1, 1)), ErrObjectLimit)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 0, s.Remaining())

	unlimited := NewScreen("any", nil, 0)
	assert.Equal(t, -1, unlimited.Remaining())
}

func TestScreen_TouchGoesToPressedTarget(t *testing.T) {
	s := NewScreen("grid", nil, 0)
	below := newProbe(0, 0, 100, 100)
	top := newProbe(10, 10, 20, 20)
	require.NoError(t, s.Add(below))
	require.NoError(t, s.Add(top))

	s.HandleTouch(15, 15, TouchDown)
	// 移出后 Move/Up 仍交给按下的对象
	s.HandleTouch(80, 80, TouchMove)
	s.HandleTouch(80, 80, TouchUp)

	assert.Equal(t, []TouchType{TouchDown, TouchMove, TouchUp}, top.got)
	assert.Empty(t, below.got)

	// 没有按下目标时 Up 被忽略
	assert.False(t, s.HandleTouch(80, 80, TouchUp))
}

func TestButton_ClickOnlyWhenReleasedInside(t *testing.T) {
	clicks := 0
	b := NewButton(20, 20, 100, 40, "Clear")
	b.OnClick = func() { clicks++ }

	b.HandleTouch(30, 30, TouchDown)
	b.HandleTouch(30, 30, TouchUp)
	assert.Equal(t, 1, clicks)

	b.HandleTouch(30, 30, TouchDown)
	b.HandleTouch(300, 300, TouchUp)
	assert.Equal(t, 1, clicks)
	assert.False(t, b.Pressed)
}

func TestGraphics_DrawBorder(t *testing.T) {
	g := NewGraphics(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	g.Clear(color.White)
	g.DrawBorder(0, 0, 10, 10, 1, ColorCellBorder)

	assert.Equal(t, ColorCellBorder, g.Buffer().RGBAAt(0, 0))
	assert.Equal(t, ColorCellBorder, g.Buffer().RGBAAt(9, 5))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, g.Buffer().RGBAAt(5, 5))
}

func TestGraphics_ClipsOutOfBounds(t *testing.T) {
	g := NewGraphics(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	assert.NotPanics(t, func() {
		g.DrawRect(-5, -5, 100, 100, color.Black)
		g.DrawRectRounded(2, 2, 40, 40, 10, color.Black)
	})
}

func TestLabel_RenderAndMeasure(t *testing.T) {
	g := NewGraphics(image.NewRGBA(image.Rect(0, 0, 200, 40)))
	g.Clear(ColorScreenBg)
	l := NewLabel(0, 5, 200, 20, "Result: 7", ColorTitle, 16)

	require.NoError(t, l.Render(g))
	assert.Greater(t, MeasureText("Result: 7", 16, FontWeightRegular), 0)

	l.SetText("")
	require.NoError(t, l.Render(g))
	assert.Equal(t, "", l.Text())
}

func TestManager_PumpDispatchesTouch(t *testing.T) {
	disp := NewMemoryDisplay(100, 100)
	m := NewManager(disp, time.Millisecond)

	s := NewScreen("main", ColorScreenBg, 0)
	p := newProbe(10, 10, 10, 10)
	require.NoError(t, s.Add(p))

	m.Lock()
	m.SetPage(s)
	m.Unlock()

	disp.Tap(12, 12)
	require.NoError(t, m.Pump())

	assert.Equal(t, []TouchType{TouchDown, TouchUp}, p.got)
	assert.Equal(t, uint64(1), m.Frames())
	assert.Equal(t, 1, disp.Updates())
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, disp.GetBackBuffer().RGBAAt(12, 12))
}

func TestManager_RunStopsOnQuit(t *testing.T) {
	disp := NewMemoryDisplay(10, 10)
	m := NewManager(disp, time.Millisecond)

	hookCalls := 0
	m.OnFrame(func() {
		hookCalls++
		if hookCalls == 3 {
			disp.RequestQuit()
		}
	})

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, 3, hookCalls)
	assert.Equal(t, uint64(3), m.Frames())
}

func TestManager_RunStopsOnContext(t *testing.T) {
	m := NewManager(NewMemoryDisplay(10, 10), time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	m.OnFrame(cancel)

	require.NoError(t, m.Run(ctx))
	assert.Equal(t, uint64(1), m.Frames())
}
