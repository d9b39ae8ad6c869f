package surface

import (
	"fmt"
	"image"
	"sync"
	"time"

	"cam-screen/internal/display"
	"cam-screen/internal/logger"
	"cam-screen/internal/memmon"
	"cam-screen/internal/timeutil"
)

// Yielder 让出一帧给显示循环（调用时不能持有显示锁）
type Yielder interface {
	Pump() error
}

// CellFactory 创建单元格并挂到屏幕上；失败表示该单元格不存在
type CellFactory interface {
	NewCell(row, col int, r image.Rectangle) (*Cell, error)
}

// ScreenFactory 把单元格加入 display.Screen，受屏幕对象上限约束。
// Reserve 个对象位置留给网格之后添加的控件，单元格不会占用。
type ScreenFactory struct {
	Screen  *display.Screen
	Reserve int
}

func (f ScreenFactory) NewCell(row, col int, r image.Rectangle) (*Cell, error) {
	if left := f.Screen.Remaining(); left >= 0 && left <= f.Reserve {
		return nil, fmt.Errorf("单元格 [%d][%d]: %w", row, col, display.ErrObjectLimit)
	}
	c := newCell(row, col, r)
	if err := f.Screen.Add(c); err != nil {
		return nil, fmt.Errorf("单元格 [%d][%d]: %w", row, col, err)
	}
	return c, nil
}

// Builder 分批创建 28×28 网格。
//
// 持有显示锁创建单元格；每成功创建 batchSize 个、以及每完成一行，
// 都会释放锁、让显示循环跑一帧、休眠，再重新加锁。
type Builder struct {
	lock    sync.Locker
	yielder Yielder
	factory CellFactory
	pools   []Pool

	clock      timeutil.Clock
	monitor    *memmon.Monitor
	batchSize  int
	batchPause time.Duration
	rowPause   time.Duration
	onTap      func(*Cell)
	progress   func(created, total int)
}

// BuilderOption 配置 Builder
type BuilderOption func(*Builder)

// WithBatch 每批数量与批间停顿
func WithBatch(size int, pause time.Duration) BuilderOption {
	return func(b *Builder) {
		if size > 0 {
			b.batchSize = size
		}
		b.batchPause = pause
	}
}

// WithRowPause 每行之后的停顿
func WithRowPause(d time.Duration) BuilderOption {
	return func(b *Builder) { b.rowPause = d }
}

// WithBuilderClock 替换时钟
func WithBuilderClock(c timeutil.Clock) BuilderOption {
	return func(b *Builder) { b.clock = c }
}

// WithBuildMonitor 每批之后采样内存
func WithBuildMonitor(m *memmon.Monitor) BuilderOption {
	return func(b *Builder) { b.monitor = m }
}

// WithTapHandler 所有单元格共用的点击回调
func WithTapHandler(fn func(*Cell)) BuilderOption {
	return func(b *Builder) { b.onTap = fn }
}

// WithProgress 每批之后回调进度
func WithProgress(fn func(created, total int)) BuilderOption {
	return func(b *Builder) { b.progress = fn }
}

// NewBuilder 创建网格构建器
func NewBuilder(lock sync.Locker, y Yielder, f CellFactory, pools []Pool, opts ...BuilderOption) *Builder {
	b := &Builder{
		lock:       lock,
		yielder:    y,
		factory:    f,
		pools:      pools,
		clock:      timeutil.RealClock{},
		batchSize:  50,
		batchPause: 10 * time.Millisecond,
		rowPause:   20 * time.Millisecond,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build 行外列内逐个创建单元格。
// 槽位存储分配失败返回 ErrGridAlloc（不会留下半个网格）；
// 单个单元格失败只记日志并跳过；一个都没建成返回 ErrNothingBuilt。
func (b *Builder) Build(layout Layout) (*Grid, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	total := layout.Rows * layout.Cols
	logger.Info("开始分批创建 %dx%d 网格，单元格边长 %d", layout.Rows, layout.Cols, layout.Edge)

	b.lock.Lock()
	defer b.lock.Unlock()

	slots, err := allocSlots(b.pools, total)
	if err != nil {
		logger.Error("网格槽位分配失败: %v", err)
		return nil, err
	}
	grid := newGrid(slots)

	created := 0
	for row := 0; row < layout.Rows; row++ {
		for col := 0; col < layout.Cols; col++ {
			c, err := b.factory.NewCell(row, col, layout.CellRect(row, col))
			if err != nil {
				logger.Error("创建单元格 [%d][%d] 失败: %v", row, col, err)
				continue
			}
			c.OnTap(b.onTap)
			grid.set(row*layout.Cols+col, c)
			created++

			if created%b.batchSize == 0 {
				logger.Info("已创建 %d/%d 个单元格", created, total)
				if b.progress != nil {
					b.progress(created, total)
				}
				b.yield(b.batchPause)
				if b.monitor != nil {
					b.monitor.Sample()
				}
			}
		}
		logger.Info("第 %d/%d 行完成", row+1, layout.Rows)
		b.yield(b.rowPause)
	}

	logger.Info("网格创建完成: 共 %d 个单元格", created)
	if created == 0 {
		return grid, ErrNothingBuilt
	}
	return grid, nil
}

// yield 调用时持有锁，返回时重新持有锁
func (b *Builder) yield(d time.Duration) {
	b.lock.Unlock()
	defer b.lock.Lock()

	if err := b.yielder.Pump(); err != nil {
		logger.Warn("建网格期间刷新显示失败: %v", err)
	}
	b.clock.Sleep(d)
}
