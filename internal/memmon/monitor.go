package memmon

import (
	"sync"
	"time"

	"cam-screen/internal/logger"
	"cam-screen/internal/timeutil"
)

// EventMemorySample 推送到实时通道的事件名
const EventMemorySample = "memory_sample"

// Publisher 采样结果的推送目标（realtime.Hub 实现了它）
type Publisher interface {
	Broadcast(event string, data interface{})
}

// Monitor 按固定间隔限流的内存采样器。
// 每个实例各自记录上次采样时间，构建期与主循环使用不同实例互不影响。
type Monitor struct {
	name     string
	interval time.Duration
	reader   Reader
	clock    timeutil.Clock
	pub      Publisher

	mu      sync.Mutex
	sampled bool
	lastAt  time.Time
	last    Sample
}

// Option 配置 Monitor
type Option func(*Monitor)

// WithClock 替换时钟（测试）
func WithClock(c timeutil.Clock) Option {
	return func(m *Monitor) { m.clock = c }
}

// WithPublisher 每次采样后推送
func WithPublisher(p Publisher) Option {
	return func(m *Monitor) { m.pub = p }
}

// NewMonitor 创建采样器
func NewMonitor(name string, interval time.Duration, r Reader, opts ...Option) *Monitor {
	m := &Monitor{
		name:     name,
		interval: interval,
		reader:   r,
		clock:    timeutil.RealClock{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Sample 距上次采样不足 interval 时什么都不做（不读取、不写日志），返回 false。
// 新建的 Monitor 第一次调用总会采样。
func (m *Monitor) Sample() (Sample, bool) {
	m.mu.Lock()
	now := m.clock.Now()
	if m.sampled && now.Sub(m.lastAt) < m.interval {
		m.mu.Unlock()
		return Sample{}, false
	}
	m.sampled = true
	m.lastAt = now
	m.mu.Unlock()

	s, err := m.reader.Read()
	if err != nil {
		logger.Warn("内存[%s] 采样失败: %v", m.name, err)
		return Sample{}, false
	}
	s.At = now

	m.mu.Lock()
	m.last = s
	m.mu.Unlock()

	logger.Info("内存[%s] 外部空闲: %d KB, 最大块: %d KB, 内部空闲: %d KB",
		m.name, s.ExternalFree/1024, s.ExternalLargest/1024, s.InternalFree/1024)
	if m.pub != nil {
		m.pub.Broadcast(EventMemorySample, map[string]interface{}{
			"monitor": m.name,
			"sample":  s,
		})
	}
	return s, true
}

// Last 最近一次成功的采样
func (m *Monitor) Last() (Sample, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, !m.last.At.IsZero()
}

// Interval 采样间隔
func (m *Monitor) Interval() time.Duration { return m.interval }

// LogStartup 启动时无条件记录一次两层内存
func LogStartup(r Reader) {
	s, err := r.Read()
	if err != nil {
		logger.Warn("启动内存读取失败: %v", err)
		return
	}
	logger.Info("启动内存 外部空闲: %d KB, 内部空闲: %d KB", s.ExternalFree/1024, s.InternalFree/1024)
}
