package display

import (
	"image"
	"sync"
)

// MemoryDisplay 纯内存显示：无窗口、无设备，用于无屏运行和测试。
// 触摸事件通过 Inject/Tap 注入，下一帧被取走。
type MemoryDisplay struct {
	mu      sync.Mutex
	width   int
	height  int
	buffer  *image.RGBA
	pending []TouchEvent
	quit    bool
	updates int
}

// NewMemoryDisplay 创建内存显示
func NewMemoryDisplay(width, height int) *MemoryDisplay {
	return &MemoryDisplay{
		width:  width,
		height: height,
		buffer: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (d *MemoryDisplay) Init() error  { return nil }
func (d *MemoryDisplay) Close() error { return nil }

func (d *MemoryDisplay) GetWidth() int  { return d.width }
func (d *MemoryDisplay) GetHeight() int { return d.height }

func (d *MemoryDisplay) GetBackBuffer() *image.RGBA { return d.buffer }

func (d *MemoryDisplay) Update() error {
	d.mu.Lock()
	d.updates++
	d.mu.Unlock()
	return nil
}

// Updates 已刷新次数
func (d *MemoryDisplay) Updates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updates
}

func (d *MemoryDisplay) PollEvents() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quit
}

// RequestQuit 下一次 PollEvents 返回退出
func (d *MemoryDisplay) RequestQuit() {
	d.mu.Lock()
	d.quit = true
	d.mu.Unlock()
}

func (d *MemoryDisplay) GetTouchEvents() []TouchEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.pending
	d.pending = nil
	return out
}

// Inject 追加触摸事件
func (d *MemoryDisplay) Inject(evs ...TouchEvent) {
	d.mu.Lock()
	d.pending = append(d.pending, evs...)
	d.mu.Unlock()
}

// Tap 在 (x, y) 按下并抬起
func (d *MemoryDisplay) Tap(x, y int) {
	d.Inject(
		TouchEvent{Type: TouchDown, X: x, Y: y},
		TouchEvent{Type: TouchUp, X: x, Y: y},
	)
}
