//go:build preview

package display

import (
	"fmt"
	"image"
	"strings"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

type sdlDisplay struct {
	window      *sdl.Window
	renderer    *sdl.Renderer
	texture     *sdl.Texture
	title       string
	width       int
	height      int
	backBuffer  *image.RGBA
	touchEvents []TouchEvent

	mouseDown bool
}

// NewSDL2 创建 SDL2 显示
func NewSDL2(title string, width, height int) Display {
	return &sdlDisplay{
		title:  title,
		width:  width,
		height: height,
	}
}

func (d *sdlDisplay) Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("SDL 初始化失败: %w", err)
	}

	// 创建窗口
	winTitle := d.title
	if strings.TrimSpace(winTitle) == "" {
		winTitle = "cam-screen preview"
	}
	window, err := sdl.CreateWindow(
		winTitle,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(d.width),
		int32(d.height),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return fmt.Errorf("创建窗口失败: %w", err)
	}
	d.window = window

	// 创建渲染器
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return fmt.Errorf("创建渲染器失败: %w", err)
	}
	d.renderer = renderer

	// 创建纹理
	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(d.width),
		int32(d.height),
	)
	if err != nil {
		return fmt.Errorf("创建纹理失败: %w", err)
	}
	d.texture = texture

	// 创建离屏缓冲区
	d.backBuffer = image.NewRGBA(image.Rect(0, 0, d.width, d.height))

	return nil
}

func (d *sdlDisplay) Close() error {
	if d.texture != nil {
		d.texture.Destroy()
	}
	if d.renderer != nil {
		d.renderer.Destroy()
	}
	if d.window != nil {
		d.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (d *sdlDisplay) GetWidth() int {
	return d.width
}

func (d *sdlDisplay) GetHeight() int {
	return d.height
}

func (d *sdlDisplay) GetBackBuffer() *image.RGBA {
	return d.backBuffer
}

func (d *sdlDisplay) Update() error {
	// 将 backBuffer 复制到纹理（使用 unsafe.Pointer）
	pitch := d.backBuffer.Stride
	rect := &sdl.Rect{X: 0, Y: 0, W: int32(d.width), H: int32(d.height)}

	if err := d.texture.Update(rect, unsafe.Pointer(&d.backBuffer.Pix[0]), pitch); err != nil {
		return fmt.Errorf("更新纹理失败: %w", err)
	}

	// 渲染纹理到窗口
	d.renderer.Clear()
	d.renderer.Copy(d.texture, nil, nil)
	d.renderer.Present()

	return nil
}

// PollEvents 鼠标左键模拟单指触摸；关闭窗口或 ESC 退出
func (d *sdlDisplay) PollEvents() (shouldQuit bool) {
	d.touchEvents = d.touchEvents[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				return true
			}
		case *sdl.MouseButtonEvent:
			if e.Button != sdl.BUTTON_LEFT {
				continue
			}
			tt := TouchUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				tt = TouchDown
			}
			d.mouseDown = tt == TouchDown
			d.push(tt, e.X, e.Y, e.Timestamp)
		case *sdl.MouseMotionEvent:
			// 按住左键拖动才算 Move
			if d.mouseDown {
				d.push(TouchMove, e.X, e.Y, e.Timestamp)
			}
		}
	}
	return false
}

func (d *sdlDisplay) push(tt TouchType, x, y int32, ts uint32) {
	d.touchEvents = append(d.touchEvents, TouchEvent{
		Type:      tt,
		X:         int(x),
		Y:         int(y),
		Timestamp: int64(ts),
	})
}

// GetTouchEvents 本帧的触摸事件（返回副本，下一帧会复用缓冲）
func (d *sdlDisplay) GetTouchEvents() []TouchEvent {
	if len(d.touchEvents) == 0 {
		return nil
	}
	return append([]TouchEvent(nil), d.touchEvents...)
}

