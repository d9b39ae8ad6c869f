package display

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/math/fixed"
)

// Graphics 在后缓冲上绘图，坐标即后缓冲像素
type Graphics struct {
	buffer *image.RGBA
}

// NewGraphics 创建图形库实例
func NewGraphics(buffer *image.RGBA) *Graphics {
	return &Graphics{buffer: buffer}
}

// Buffer 底层后缓冲
func (g *Graphics) Buffer() *image.RGBA { return g.buffer }

// Width 画布宽度
func (g *Graphics) Width() int { return g.buffer.Bounds().Dx() }

// Height 画布高度
func (g *Graphics) Height() int { return g.buffer.Bounds().Dy() }

// Clear 清空画布
func (g *Graphics) Clear(c color.Color) {
	draw.Draw(g.buffer, g.buffer.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
}

// DrawRect 绘制实心矩形
func (g *Graphics) DrawRect(x, y, w, h int, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	rect := image.Rect(x, y, x+w, y+h).Intersect(g.buffer.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(g.buffer, rect, &image.Uniform{c}, image.Point{}, draw.Src)
}

// DrawBorder 绘制 t 像素宽的矩形边框（不填充内部）
func (g *Graphics) DrawBorder(x, y, w, h, t int, c color.Color) {
	if t <= 0 || w <= 0 || h <= 0 {
		return
	}
	if 2*t >= w || 2*t >= h {
		g.DrawRect(x, y, w, h, c)
		return
	}
	g.DrawRect(x, y, w, t, c)
	g.DrawRect(x, y+h-t, w, t, c)
	g.DrawRect(x, y+t, t, h-2*t, c)
	g.DrawRect(x+w-t, y+t, t, h-2*t, c)
}

// DrawRectRounded 绘制圆角矩形
func (g *Graphics) DrawRectRounded(x, y, w, h, radius int, c color.Color) {
	if radius*2 > w {
		radius = w / 2
	}
	if radius*2 > h {
		radius = h / 2
	}
	if radius <= 0 {
		g.DrawRect(x, y, w, h, c)
		return
	}
	// 中心十字
	g.DrawRect(x+radius, y, w-2*radius, h, c)
	g.DrawRect(x, y+radius, w, h-2*radius, c)

	// 四个角
	g.drawQuarter(x+radius, y+radius, radius, -1, -1, c)
	g.drawQuarter(x+w-radius-1, y+radius, radius, 1, -1, c)
	g.drawQuarter(x+radius, y+h-radius-1, radius, -1, 1, c)
	g.drawQuarter(x+w-radius-1, y+h-radius-1, radius, 1, 1, c)
}

func (g *Graphics) drawQuarter(cx, cy, r, sx, sy int, c color.Color) {
	b := g.buffer.Bounds()
	for dy := 0; dy <= r; dy++ {
		for dx := 0; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			px, py := cx+sx*dx, cy+sy*dy
			if image.Pt(px, py).In(b) {
				g.buffer.Set(px, py, c)
			}
		}
	}
}

// DrawTextTTF 使用 TrueType 字体绘制文本，(x, y) 为文本框左上角
func (g *Graphics) DrawTextTTF(text string, x, y int, c color.Color, size float64, weight FontWeight) error {
	ttfFont := GetFontManager().GetFont(weight)
	if ttfFont == nil {
		return nil
	}
	if size < 1 {
		size = 1
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttfFont)
	ctx.SetFontSize(size)
	ctx.SetClip(g.buffer.Bounds())
	ctx.SetDst(g.buffer)
	ctx.SetSrc(&image.Uniform{c})

	pt := freetype.Pt(x, int(math.Round(float64(y)+size)))
	_, err := ctx.DrawString(text, pt)
	return err
}

// MeasureText 测量文本宽度
func (g *Graphics) MeasureText(text string, size float64, weight FontWeight) int {
	return MeasureText(text, size, weight)
}

// MeasureText 不依赖画布的文本宽度测量
func MeasureText(text string, size float64, weight FontWeight) int {
	ttfFont := GetFontManager().GetFont(weight)
	if ttfFont == nil {
		return len(text) * int(size) / 2
	}

	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size: size,
		DPI:  72,
	})
	defer face.Close()

	width := fixed.Int26_6(0)
	for _, ch := range text {
		advance, ok := face.GlyphAdvance(ch)
		if !ok {
			width += fixed.Int26_6(int(size) * 64 / 2) // 估算
			continue
		}
		width += advance
	}
	return int(width >> 6)
}
