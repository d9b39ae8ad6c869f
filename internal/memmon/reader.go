// Package memmon 采集两类内存（外部大容量池 / 内部通用堆）的空闲量，并按间隔限流输出。
package memmon

import (
	"errors"
	"fmt"
	"os"
	"runtime/metrics"
	"time"

	"github.com/prometheus/procfs"
	"github.com/shirou/gopsutil/v3/mem"
)

// ErrTierExhausted 某一内存层没有足够空间
var ErrTierExhausted = errors.New("memory tier exhausted")

// Tier 内存层
type Tier int

const (
	// TierExternal 容量大但碎片化的外部内存（系统可用内存）
	TierExternal Tier = iota
	// TierInternal 小而快的内部通用堆（Go 堆空闲）
	TierInternal
)

func (t Tier) String() string {
	switch t {
	case TierExternal:
		return "external"
	case TierInternal:
		return "internal"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Sample 一次内存采样（字节）
type Sample struct {
	At              time.Time `json:"at"`
	ExternalFree    uint64    `json:"external_free"`
	ExternalLargest uint64    `json:"external_largest"`
	InternalFree    uint64    `json:"internal_free"`
}

// Available 返回某层一次性可申请的最大字节数。
// 外部层碎片化，按最大连续块计；内部层按空闲总量计。
func (s Sample) Available(t Tier) uint64 {
	if t == TierExternal {
		return s.ExternalLargest
	}
	return s.InternalFree
}

// Reader 读取当前内存状态（只读）
type Reader interface {
	Read() (Sample, error)
}

// SystemReader 基于 /proc 与 Go runtime 的读取器
type SystemReader struct {
	fs       procfs.FS
	fsErr    error
	pageSize uint64
}

// NewSystemReader 创建系统读取器；/proc 不可用时最大块退化为空闲总量
func NewSystemReader() *SystemReader {
	fs, err := procfs.NewDefaultFS()
	return &SystemReader{fs: fs, fsErr: err, pageSize: uint64(os.Getpagesize())}
}

func (r *SystemReader) Read() (Sample, error) {
	s := Sample{At: time.Now()}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, fmt.Errorf("读取系统内存失败: %w", err)
	}
	s.ExternalFree = vm.Available
	s.ExternalLargest = vm.Available
	if largest, ok := r.largestBlock(); ok && largest < s.ExternalLargest {
		s.ExternalLargest = largest
	}

	s.InternalFree = heapFree()
	return s, nil
}

// largestBlock 从 buddyinfo 找出最高阶的非空空闲块
func (r *SystemReader) largestBlock() (uint64, bool) {
	if r.fsErr != nil {
		return 0, false
	}
	zones, err := r.fs.BuddyInfo()
	if err != nil || len(zones) == 0 {
		return 0, false
	}
	var best uint64
	for _, z := range zones {
		for order := len(z.Sizes) - 1; order >= 0; order-- {
			if z.Sizes[order] > 0 {
				if size := (uint64(1) << uint(order)) * r.pageSize; size > best {
					best = size
				}
				break
			}
		}
	}
	return best, best > 0
}

const heapFreeMetric = "/memory/classes/heap/free:bytes"

func heapFree() uint64 {
	samples := []metrics.Sample{{Name: heapFreeMetric}}
	metrics.Read(samples)
	if samples[0].Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return samples[0].Value.Uint64()
}
