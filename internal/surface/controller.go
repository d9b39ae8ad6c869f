package surface

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"cam-screen/internal/logger"

	"github.com/google/uuid"
)

// 推送事件名
const (
	EventLabel        = "label"
	EventGridProgress = "grid_progress"
)

// NoClassifierLabel 未配置分类器时推理显示的文本
const NoClassifierLabel = "No model loaded"

// DefaultLabelCapacity 标签缓冲容量（含结尾），可显示 49 字节
const DefaultLabelCapacity = 50

// Classifier 读取 784 字节位图，返回要显示的文本
type Classifier interface {
	Classify(pixels *CaptureBuffer) string
}

// ClassifierFunc 函数适配
type ClassifierFunc func(pixels *CaptureBuffer) string

func (f ClassifierFunc) Classify(pixels *CaptureBuffer) string { return f(pixels) }

// Publisher 事件推送目标
type Publisher interface {
	Broadcast(event string, data interface{})
}

// TextSink 可写文本的标签
type TextSink interface {
	Text() string
	SetText(s string)
}

// Controller 点击 / 清空 / 推理。
//
// Handle* 方法在显示锁内调用（触摸回调）；Tap/Clear/Infer 供其它 goroutine 使用，会自己加锁。
type Controller struct {
	lock       sync.Locker
	label      TextSink
	classifier Classifier
	labelCap   int
	pub        Publisher

	grid *Grid
}

// NewController 创建控制器；labelCap <= 1 时使用默认容量，cls 为 nil 时推理固定显示 NoClassifierLabel
func NewController(lock sync.Locker, label TextSink, cls Classifier, labelCap int, pub Publisher) *Controller {
	if labelCap <= 1 {
		labelCap = DefaultLabelCapacity
	}
	if cls == nil {
		cls = ClassifierFunc(func(*CaptureBuffer) string { return NoClassifierLabel })
	}
	return &Controller{
		lock:       lock,
		label:      label,
		classifier: cls,
		labelCap:   labelCap,
		pub:        pub,
	}
}

// Attach 绑定建好的网格，调用方需持有显示锁
func (c *Controller) Attach(g *Grid) { c.grid = g }

// HandleTap 单元格点击：在两种颜色之间翻转
func (c *Controller) HandleTap(cell *Cell) {
	cell.Toggle()
}

// HandleClear 所有已创建的单元格置空
func (c *Controller) HandleClear() {
	for _, cell := range c.grid.Cells() {
		cell.SetFilled(false)
	}
}

// HandleInfer 编码、分类、更新标签；不修改网格
func (c *Controller) HandleInfer() string {
	buf := Encode(c.grid)
	return c.applyLabel(&buf, c.classifier.Classify(&buf))
}

func (c *Controller) applyLabel(buf *CaptureBuffer, raw string) string {
	text := truncate(raw, c.labelCap-1)
	c.label.SetText(text)

	id := uuid.NewString()
	logger.Info("推理[%s] 填充 %d 像素，结果: %s", id, len(buf.Filled()), text)
	if c.pub != nil {
		c.pub.Broadcast(EventLabel, map[string]interface{}{
			"id":     id,
			"label":  text,
			"filled": len(buf.Filled()),
		})
	}
	return text
}

// Tap 按下标点击单元格
func (c *Controller) Tap(index int) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if index < 0 || index >= Size {
		return fmt.Errorf("单元格下标越界: %d", index)
	}
	cell, ok := c.grid.At(index).(*Cell)
	if !ok {
		return fmt.Errorf("单元格 %d 未创建", index)
	}
	c.HandleTap(cell)
	return nil
}

// Clear 清空
func (c *Controller) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.HandleClear()
}

// Snapshot 当前位图
func (c *Controller) Snapshot() CaptureBuffer {
	c.lock.Lock()
	defer c.lock.Unlock()
	return Encode(c.grid)
}

// Infer 锁内取位图，锁外分类，再加锁写标签
func (c *Controller) Infer() string {
	buf := c.Snapshot()
	raw := c.classifier.Classify(&buf)

	c.lock.Lock()
	defer c.lock.Unlock()
	return c.applyLabel(&buf, raw)
}

// Label 当前标签文本
func (c *Controller) Label() string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.label.Text()
}

// truncate 截到 max 字节以内，不切断 UTF-8 字符
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
