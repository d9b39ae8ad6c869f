package surface

import (
	"errors"
	"fmt"
	"unsafe"

	"cam-screen/internal/logger"
	"cam-screen/internal/memmon"
)

var (
	// ErrGridAlloc 两层内存都无法提供槽位存储
	ErrGridAlloc = errors.New("grid slot allocation failed")
	// ErrNothingBuilt 一个单元格都没建成
	ErrNothingBuilt = errors.New("no grid cell created")
)

var handleSize = uint64(unsafe.Sizeof(Handle(nil)))

// Pool 槽位存储来源
type Pool interface {
	Name() string
	Alloc(n int) ([]Handle, error)
}

// TierPool 按某一内存层的可用量决定能否分配
type TierPool struct {
	tier   memmon.Tier
	reader memmon.Reader
}

// NewTierPool 创建某层的分配池
func NewTierPool(r memmon.Reader, tier memmon.Tier) *TierPool {
	return &TierPool{tier: tier, reader: r}
}

func (p *TierPool) Name() string { return p.tier.String() }

func (p *TierPool) Alloc(n int) ([]Handle, error) {
	need := uint64(n) * handleSize
	s, err := p.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: 读取内存失败: %w", p.Name(), err)
	}
	if have := s.Available(p.tier); have < need {
		return nil, fmt.Errorf("%s: 需要 %d 字节，可用 %d: %w", p.Name(), need, have, memmon.ErrTierExhausted)
	}
	return make([]Handle, n), nil
}

// DefaultPools 先外部层，再内部层
func DefaultPools(r memmon.Reader) []Pool {
	return []Pool{
		NewTierPool(r, memmon.TierExternal),
		NewTierPool(r, memmon.TierInternal),
	}
}

// allocSlots 按顺序尝试各池，全部失败返回 ErrGridAlloc
func allocSlots(pools []Pool, n int) ([]Handle, error) {
	var lastErr error
	for i, p := range pools {
		slots, err := p.Alloc(n)
		if err == nil {
			if i > 0 {
				logger.Warn("网格槽位改用 %s 内存", p.Name())
			}
			return slots, nil
		}
		lastErr = err
		if i+1 < len(pools) {
			logger.Warn("网格槽位在 %s 内存分配失败: %v", p.Name(), err)
		}
	}
	if lastErr == nil {
		return nil, ErrGridAlloc
	}
	return nil, fmt.Errorf("%w: %w", ErrGridAlloc, lastErr)
}
