package display

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestBlit_RGBA(t *testing.T) {
	src := solid(2, 2, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	dst := make([]byte, 2*2*4)
	blit(dst, 2, 2, fbFormat{bpp: 32}, src)
	assert.Equal(t, src.Pix, dst)
}

func TestBlit_BGRAScaled(t *testing.T) {
	src := solid(2, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetRGBA(1, 1, color.RGBA{R: 200, A: 255})
	dst := make([]byte, 4*4*4)
	blit(dst, 4, 4, fbFormat{bpp: 32, redOffset: 16}, src)

	assert.Equal(t, []byte{30, 20, 10, 255}, dst[0:4])
	// 右下角 2x2 对应源像素 (1,1)
	last := (3*4 + 3) * 4
	assert.Equal(t, []byte{0, 0, 200, 255}, dst[last:last+4])
}

func TestBlit_RGB565(t *testing.T) {
	src := solid(1, 1, color.RGBA{R: 255, G: 0, B: 255, A: 255})
	dst := make([]byte, 2)
	blit(dst, 1, 1, fbFormat{bpp: 16}, src)
	assert.Equal(t, []byte{0x1f, 0xf8}, dst)
}

func TestBlit_UnsupportedOrShortIsNoop(t *testing.T) {
	src := solid(1, 1, color.RGBA{R: 9, A: 255})
	dst := make([]byte, 3)
	blit(dst, 1, 1, fbFormat{bpp: 24}, src)
	assert.Equal(t, []byte{0, 0, 0}, dst)

	short := make([]byte, 2)
	blit(short, 1, 1, fbFormat{bpp: 32}, src)
	assert.Equal(t, []byte{0, 0}, short)
}
