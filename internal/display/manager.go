package display

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"cam-screen/internal/logger"
)

// ErrQuit 显示后端请求退出（窗口关闭 / ESC）
var ErrQuit = errors.New("display quit")

// Manager 显示管理器：持有显示锁，驱动帧循环。
//
// 所有对页面/组件的读写都必须在显示锁内进行。触摸回调在帧内、锁内执行，
// 回调里不能再次加锁；其它 goroutine 通过 Lock/Unlock 访问界面状态。
type Manager struct {
	mu       sync.Mutex
	display  Display
	graphics *Graphics
	page     Page

	frameInterval time.Duration
	lastTime      time.Time
	frames        atomic.Uint64
	running       atomic.Bool

	hooksMu sync.Mutex
	hooks   []func()
}

// NewManager 创建显示管理器
func NewManager(disp Display, frameInterval time.Duration) *Manager {
	if frameInterval <= 0 {
		frameInterval = 10 * time.Millisecond
	}
	return &Manager{
		display:       disp,
		graphics:      NewGraphics(disp.GetBackBuffer()),
		frameInterval: frameInterval,
		lastTime:      time.Now(),
	}
}

// Lock 获取显示锁
func (m *Manager) Lock() { m.mu.Lock() }

// Unlock 释放显示锁
func (m *Manager) Unlock() { m.mu.Unlock() }

// Width 逻辑宽度
func (m *Manager) Width() int { return m.display.GetWidth() }

// Height 逻辑高度
func (m *Manager) Height() int { return m.display.GetHeight() }

// SetPage 切换页面，调用方需持有显示锁
func (m *Manager) SetPage(p Page) {
	if m.page != nil {
		m.page.OnExit()
	}
	m.page = p
	if p != nil {
		p.OnEnter()
	}
}

// OnFrame 注册每帧结束后（锁外）执行的回调
func (m *Manager) OnFrame(fn func()) {
	m.hooksMu.Lock()
	m.hooks = append(m.hooks, fn)
	m.hooksMu.Unlock()
}

// Frames 已完成的帧数
func (m *Manager) Frames() uint64 { return m.frames.Load() }

// Pump 执行一帧：轮询事件、更新、渲染、刷屏、分发触摸。
// 调用方不能持有显示锁。
func (m *Manager) Pump() error {
	if quit := m.display.PollEvents(); quit {
		return ErrQuit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	delta := now.Sub(m.lastTime).Milliseconds()
	m.lastTime = now

	if m.page != nil {
		m.page.Update(delta)
		if err := m.page.Render(m.graphics); err != nil {
			return fmt.Errorf("渲染失败: %w", err)
		}
	}
	if err := m.display.Update(); err != nil {
		return fmt.Errorf("更新显示失败: %w", err)
	}

	for _, ev := range m.display.GetTouchEvents() {
		if m.page != nil {
			m.page.HandleTouch(ev.X, ev.Y, ev.Type)
		}
	}
	m.frames.Add(1)
	return nil
}

// Run 帧循环，直到 ctx 取消、Stop 或显示后端要求退出
func (m *Manager) Run(ctx context.Context) error {
	m.running.Store(true)
	defer m.running.Store(false)

	ticker := time.NewTicker(m.frameInterval)
	defer ticker.Stop()

	for m.running.Load() {
		if err := m.Pump(); err != nil {
			if errors.Is(err, ErrQuit) {
				logger.Info("收到退出事件（PollEvents=true）")
				return nil
			}
			return err
		}
		m.runHooks()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

func (m *Manager) runHooks() {
	m.hooksMu.Lock()
	hooks := append([]func(){}, m.hooks...)
	m.hooksMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Stop 停止显示循环
func (m *Manager) Stop() {
	m.running.Store(false)
}
