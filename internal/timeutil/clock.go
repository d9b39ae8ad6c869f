// Package timeutil 提供可在测试中替换的时钟（分批建网格的停顿、内存采样限流都依赖它）。
package timeutil

import (
	"sync"
	"time"
)

// Clock 时间操作抽象
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	// Sleep 阻塞当前 goroutine 至少 d
	Sleep(d time.Duration)
}

// RealClock 基于 time 包的真实时钟
type RealClock struct{}

func (RealClock) Now() time.Time                  { return time.Now() }
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }
func (RealClock) Sleep(d time.Duration)           { time.Sleep(d) }

// MockClock 手动推进的时钟（测试用）
//
// Sleep 不会真正阻塞：记录时长并把当前时间向前推进 d，
// 这样“建网格过程中的停顿”也会推动采样限流的时钟。
type MockClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// NewMockClock 创建指向 t 的 MockClock
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Set 直接设置当前时间
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance 向前推进 d
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *MockClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

// Sleeps 返回记录下来的所有 Sleep 时长
func (c *MockClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}
