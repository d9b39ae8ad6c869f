package display

import (
	"image"
)

// Display 显示后端（framebuffer / SDL 预览 / 内存）
type Display interface {
	// Init 初始化显示
	Init() error

	// Close 关闭显示
	Close() error

	// GetWidth 逻辑宽度（后缓冲宽度）
	GetWidth() int

	// GetHeight 逻辑高度
	GetHeight() int

	// GetBackBuffer 获取后缓冲区 (用于绘图)
	GetBackBuffer() *image.RGBA

	// Update 将后缓冲区刷新到屏幕
	Update() error

	// PollEvents 轮询事件（返回是否需要退出）
	PollEvents() (shouldQuit bool)

	// GetTouchEvents 取出本帧的触摸事件（坐标为后缓冲坐标）
	GetTouchEvents() []TouchEvent
}
