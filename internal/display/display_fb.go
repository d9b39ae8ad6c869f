//go:build !preview

package display

import (
	"encoding/binary"
	"fmt"
	"image"
	"os"
	"syscall"
	"unsafe"

	"cam-screen/internal/logger"
)

type fbDisplay struct {
	fbFile *os.File
	fbMem  []byte
	// width/height: UI 后缓冲的逻辑分辨率（为 0 时跟随 fb0）
	width  int
	height int
	// fbWidth/fbHeight: /dev/fb0 的真实分辨率
	fbWidth    int
	fbHeight   int
	format     fbFormat
	backBuffer *image.RGBA

	touch touchReader
}

// fbVarScreenInfoRaw 接收完整的 struct fb_var_screeninfo（内核会整块写入，缓冲必须够大），
// 只解析 xres/yres/bits_per_pixel/red.offset。
type fbVarScreenInfoRaw [160]byte

const (
	FBIOGET_VSCREENINFO = 0x4600
)

func (d *fbDisplay) Init() error {
	// 打开 framebuffer 设备
	fbFile, err := os.OpenFile("/dev/fb0", os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("打开 /dev/fb0 失败: %w", err)
	}
	d.fbFile = fbFile

	// 获取 framebuffer 信息
	var fbInfo fbVarScreenInfoRaw
	_, _, errno := syscall.Syscall(
		syscall.SYS_IOCTL,
		uintptr(fbFile.Fd()),
		uintptr(FBIOGET_VSCREENINFO),
		uintptr(unsafe.Pointer(&fbInfo[0])),
	)
	if errno != 0 {
		return fmt.Errorf("获取 framebuffer 信息失败: %v", errno)
	}

	d.fbWidth = int(binary.LittleEndian.Uint32(fbInfo[0:4]))
	d.fbHeight = int(binary.LittleEndian.Uint32(fbInfo[4:8]))
	d.format = fbFormat{
		bpp:       int(binary.LittleEndian.Uint32(fbInfo[24:28])),
		redOffset: int(binary.LittleEndian.Uint32(fbInfo[32:36])),
	}
	logger.Info("framebuffer %dx%d %dbpp red.offset=%d", d.fbWidth, d.fbHeight, d.format.bpp, d.format.redOffset)

	// 如果外部没有指定逻辑分辨率，则跟随真实 framebuffer
	if d.width <= 0 || d.height <= 0 {
		d.width = d.fbWidth
		d.height = d.fbHeight
	}

	// 映射 framebuffer 内存
	fbSize := int(uint64(d.fbWidth) * uint64(d.fbHeight) * uint64(d.format.bpp) / 8)
	fbMem, err := syscall.Mmap(
		int(fbFile.Fd()),
		0,
		fbSize,
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_SHARED,
	)
	if err != nil {
		return fmt.Errorf("映射 framebuffer 内存失败: %w", err)
	}
	d.fbMem = fbMem

	// 创建离屏缓冲区
	d.backBuffer = image.NewRGBA(image.Rect(0, 0, d.width, d.height))

	// 初始化触摸（linux evdev）
	d.touch = newLinuxEvdevTouch(d.width, d.height)
	if d.touch != nil {
		if err := d.touch.Init(); err != nil {
			logger.Warn("触摸初始化失败: %v", err)
		} else {
			logger.Info("触摸已启用（evdev）")
		}
	}

	return nil
}

func (d *fbDisplay) Close() error {
	if d.touch != nil {
		_ = d.touch.Close()
	}
	if d.fbMem != nil {
		syscall.Munmap(d.fbMem)
	}
	if d.fbFile != nil {
		d.fbFile.Close()
	}
	return nil
}

func (d *fbDisplay) GetWidth() int {
	return d.width
}

func (d *fbDisplay) GetHeight() int {
	return d.height
}

func (d *fbDisplay) GetBackBuffer() *image.RGBA {
	return d.backBuffer
}

// Update 把后缓冲刷到 framebuffer；逻辑分辨率与面板不一致时做最近邻缩放
func (d *fbDisplay) Update() error {
	blit(d.fbMem, d.fbWidth, d.fbHeight, d.format, d.backBuffer)
	return nil
}

// PollEvents 设备端没有退出事件
func (d *fbDisplay) PollEvents() (shouldQuit bool) {
	return false
}

// GetTouchEvents 获取触摸事件
func (d *fbDisplay) GetTouchEvents() []TouchEvent {
	if d.touch == nil {
		return nil
	}
	return d.touch.Poll()
}
