package surface

import (
	"fmt"
	"sync"
	"time"

	"cam-screen/internal/display"
	"cam-screen/internal/logger"
	"cam-screen/internal/memmon"
	"cam-screen/internal/timeutil"
)

// 信息标签文案
const (
	InfoCreating      = "Creating grid..."
	InfoCreatingCells = "Creating grid cells..."
	InfoReady         = "Grid ready! Touch cells to color"
	InfoFailed        = "Grid creation failed"
	InfoNoButtons     = "Buttons unavailable"

	DefaultTitle = "Digital recognization from EEPW"
)

const (
	buttonW      = 100
	buttonH      = 40
	buttonMargin = 20
	buttonCount  = 2
)

// Host 显示宿主（display.Manager 实现了它）
type Host interface {
	sync.Locker
	Yielder
	Width() int
	Height() int
	SetPage(p display.Page)
}

// Options 采集面参数
type Options struct {
	Title         string
	MaxObjects    int
	BatchSize     int
	BatchPause    time.Duration
	RowPause      time.Duration
	WarmupFrames  int
	WarmupPause   time.Duration
	LabelCapacity int
}

// DefaultOptions 设备默认参数
func DefaultOptions() Options {
	return Options{
		Title:         DefaultTitle,
		BatchSize:     50,
		BatchPause:    10 * time.Millisecond,
		RowPause:      20 * time.Millisecond,
		WarmupFrames:  10,
		WarmupPause:   10 * time.Millisecond,
		LabelCapacity: DefaultLabelCapacity,
	}
}

// Surface 采集面上下文：屏幕、标签、网格与控制器都归它所有
type Surface struct {
	host  Host
	opts  Options
	clock timeutil.Clock
	pools []Pool
	mon   *memmon.Monitor
	pub   Publisher

	screen *display.Screen
	title  *display.Label
	info   *display.Label
	grid   *Grid
	layout Layout
	ctl    *Controller
}

// Option 配置 Surface
type Option func(*Surface)

// WithPools 替换槽位分配池
func WithPools(p ...Pool) Option { return func(s *Surface) { s.pools = p } }

// WithMonitor 构建期内存采样
func WithMonitor(m *memmon.Monitor) Option { return func(s *Surface) { s.mon = m } }

// WithClock 替换时钟
func WithClock(c timeutil.Clock) Option { return func(s *Surface) { s.clock = c } }

// WithPublisher 推送标签与构建进度
func WithPublisher(p Publisher) Option { return func(s *Surface) { s.pub = p } }

// New 创建采集面，Mount 之前不会碰屏幕
func New(host Host, cls Classifier, opts Options, extra ...Option) *Surface {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	s := &Surface{
		host:  host,
		opts:  opts,
		clock: timeutil.RealClock{},
	}
	for _, o := range extra {
		o(s)
	}
	if s.pools == nil {
		s.pools = DefaultPools(memmon.NewSystemReader())
	}
	w := host.Width()
	s.screen = display.NewScreen("capture", display.ColorScreenBg, opts.MaxObjects)
	s.title = display.NewLabel(0, 10, w, 28, opts.Title, display.ColorTitle, 24)
	s.info = display.NewLabel(0, 50, w, 20, InfoCreating, display.ColorInfo, 16)
	s.layout = ComputeLayout(w, host.Height())
	s.ctl = NewController(host, s.title, cls, opts.LabelCapacity, s.pub)
	return s
}

// Mount 在 UI goroutine 上调用：标签 → 预热帧 → 分批建网格 → 按钮。
// 建网格失败时界面仍可用，返回构建错误。
func (s *Surface) Mount() error {
	s.host.Lock()
	err := s.addAll(s.title, s.info)
	s.host.SetPage(s.screen)
	s.host.Unlock()
	if err != nil {
		return err
	}

	// 让提示文字先显示出来
	for i := 0; i < s.opts.WarmupFrames; i++ {
		s.pump()
		s.clock.Sleep(s.opts.WarmupPause)
	}

	s.host.Lock()
	s.info.SetText(InfoCreatingCells)
	s.host.Unlock()
	s.pump()

	b := NewBuilder(s.host, s.host, ScreenFactory{Screen: s.screen, Reserve: buttonCount}, s.pools,
		WithBatch(s.opts.BatchSize, s.opts.BatchPause),
		WithRowPause(s.opts.RowPause),
		WithBuilderClock(s.clock),
		WithBuildMonitor(s.mon),
		WithTapHandler(s.ctl.HandleTap),
		WithProgress(s.publishProgress),
	)
	grid, buildErr := b.Build(s.layout)

	s.host.Lock()
	defer s.host.Unlock()

	s.grid = grid
	s.ctl.Attach(grid)
	if buildErr != nil {
		s.info.SetText(InfoFailed)
		logger.Error("网格创建失败: %v", buildErr)
	} else {
		s.info.SetText(InfoReady)
		logger.Info("=== 网格就绪，点击单元格涂色 ===")
	}
	s.publishProgress(s.grid.Built(), Size)

	w, h := s.host.Width(), s.host.Height()
	btnClear := display.NewButton(buttonMargin, h-buttonMargin-buttonH, buttonW, buttonH, "Clear")
	btnClear.OnClick = s.ctl.HandleClear
	btnInfer := display.NewButton(w-buttonMargin-buttonW, h-buttonMargin-buttonH, buttonW, buttonH, "Inference")
	btnInfer.OnClick = func() { s.ctl.HandleInfer() }
	if err := s.addAll(btnClear, btnInfer); err != nil {
		s.info.SetText(InfoNoButtons)
		logger.Error("创建按钮失败: %v", err)
	}
	return buildErr
}

func (s *Surface) addAll(cs ...display.Component) error {
	for _, c := range cs {
		if err := s.screen.Add(c); err != nil {
			return fmt.Errorf("添加界面对象失败: %w", err)
		}
	}
	return nil
}

func (s *Surface) pump() {
	if err := s.host.Pump(); err != nil {
		logger.Warn("刷新显示失败: %v", err)
	}
}

func (s *Surface) publishProgress(created, total int) {
	if s.pub == nil {
		return
	}
	s.pub.Broadcast(EventGridProgress, map[string]int{"created": created, "total": total})
}

// Controller 交互控制器
func (s *Surface) Controller() *Controller { return s.ctl }

// Layout 网格布局
func (s *Surface) Layout() Layout { return s.layout }

// Status 界面状态快照
type Status struct {
	Built  int    `json:"built"`
	Filled int    `json:"filled"`
	Title  string `json:"title"`
	Info   string `json:"info"`
}

// Status 加锁读取界面状态
func (s *Surface) Status() Status {
	s.host.Lock()
	defer s.host.Unlock()
	buf := Encode(s.grid)
	return Status{
		Built:  s.grid.Built(),
		Filled: len(buf.Filled()),
		Title:  s.title.Text(),
		Info:   s.info.Text(),
	}
}

// Tap 按下标点击单元格（加锁）
func (s *Surface) Tap(index int) error { return s.ctl.Tap(index) }

// Clear 清空网格（加锁）
func (s *Surface) Clear() { s.ctl.Clear() }

// Infer 推理并把结果写到标题
func (s *Surface) Infer() string { return s.ctl.Infer() }

// Snapshot 当前位图（加锁）
func (s *Surface) Snapshot() CaptureBuffer { return s.ctl.Snapshot() }
