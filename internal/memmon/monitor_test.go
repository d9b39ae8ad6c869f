package memmon

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"cam-screen/internal/logger"
	"cam-screen/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu     sync.Mutex
	calls  int
	sample Sample
	err    error
}

func (r *fakeReader) Read() (Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.sample, r.err
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Broadcast(event string, _ interface{}) {
	p.events = append(p.events, event)
}

var epoch = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func TestMonitor_RateLimited(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	r := &fakeReader{sample: Sample{ExternalFree: 4 << 20, ExternalLargest: 1 << 20, InternalFree: 64 << 10}}
	m := NewMonitor("loop", 10*time.Second, r, WithClock(clock))

	_, ok := m.Sample()
	require.True(t, ok, "first call always samples")

	for i := 0; i < 9; i++ {
		clock.Advance(time.Second)
		_, ok = m.Sample()
		assert.False(t, ok)
	}
	assert.Equal(t, 1, r.calls, "no read inside the interval")

	clock.Advance(time.Second)
	s, ok := m.Sample()
	require.True(t, ok)
	assert.Equal(t, 2, r.calls)
	assert.Equal(t, epoch.Add(10*time.Second), s.At)
}

func TestMonitor_SilentWhenSkipped(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(nil)

	clock := timeutil.NewMockClock(epoch)
	m := NewMonitor("build", 5*time.Second, &fakeReader{}, WithClock(clock))

	m.Sample()
	n := buf.Len()
	require.NotZero(t, n)

	clock.Advance(4 * time.Second)
	m.Sample()
	assert.Equal(t, n, buf.Len())
}

func TestMonitor_IndependentClocks(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	r := &fakeReader{}
	build := NewMonitor("build", 5*time.Second, r, WithClock(clock))
	loop := NewMonitor("loop", 10*time.Second, r, WithClock(clock))

	_, ok := build.Sample()
	assert.True(t, ok)
	_, ok = loop.Sample()
	assert.True(t, ok, "loop monitor is not throttled by build monitor")

	clock.Advance(5 * time.Second)
	_, ok = build.Sample()
	assert.True(t, ok)
	_, ok = loop.Sample()
	assert.False(t, ok)
}

func TestMonitor_PublishesAndKeepsLast(t *testing.T) {
	pub := &recordingPublisher{}
	r := &fakeReader{sample: Sample{InternalFree: 1234}}
	m := NewMonitor("loop", time.Second, r, WithClock(timeutil.NewMockClock(epoch)), WithPublisher(pub))

	_, ok := m.Last()
	assert.False(t, ok)

	m.Sample()
	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, uint64(1234), last.InternalFree)
	assert.Equal(t, []string{EventMemorySample}, pub.events)
}

func TestMonitor_ReadErrorStillConsumesInterval(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	r := &fakeReader{err: errors.New("no /proc")}
	m := NewMonitor("loop", 10*time.Second, r, WithClock(clock))

	_, ok := m.Sample()
	assert.False(t, ok)
	m.Sample()
	assert.Equal(t, 1, r.calls)
}

func TestSample_Available(t *testing.T) {
	s := Sample{ExternalFree: 100, ExternalLargest: 40, InternalFree: 10}
	assert.Equal(t, uint64(40), s.Available(TierExternal))
	assert.Equal(t, uint64(10), s.Available(TierInternal))
	assert.Equal(t, "external", TierExternal.String())
}

func TestSystemReader_Read(t *testing.T) {
	s, err := NewSystemReader().Read()
	require.NoError(t, err)
	assert.NotZero(t, s.ExternalFree)
	assert.LessOrEqual(t, s.ExternalLargest, s.ExternalFree)
}
