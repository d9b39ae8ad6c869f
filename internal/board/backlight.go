// Package board 屏幕相关的板级初始化（背光）。
package board

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoBacklight 没有可用的背光节点
var ErrNoBacklight = errors.New("未检测到背光设备")

// SysfsRoot 背光设备目录
const SysfsRoot = "/sys/class/backlight"

// Backlight 基于 sysfs 的背光控制器
type Backlight struct {
	BaseDir        string // <root>/<name>
	BrightnessPath string
	MaxPath        string
}

// DiscoverBacklight 在 root 下取第一个同时有 brightness/max_brightness 的设备
func DiscoverBacklight(root string) (*Backlight, error) {
	ents, err := filepath.Glob(filepath.Join(root, "*"))
	if err != nil || len(ents) == 0 {
		return nil, fmt.Errorf("%w（%s）", ErrNoBacklight, root)
	}
	for _, d := range ents {
		bp := filepath.Join(d, "brightness")
		mp := filepath.Join(d, "max_brightness")
		if _, err := os.Stat(bp); err != nil {
			continue
		}
		if _, err := os.Stat(mp); err != nil {
			continue
		}
		return &Backlight{BaseDir: d, BrightnessPath: bp, MaxPath: mp}, nil
	}
	return nil, fmt.Errorf("%w（%s 下没有 brightness/max_brightness）", ErrNoBacklight, root)
}

func (b *Backlight) Max() (int, error) {
	v, err := readInt(b.MaxPath)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("max_brightness 无效: %d", v)
	}
	return v, nil
}

// SetPercent 设置亮度百分比，超出 0~100 时截断
func (b *Backlight) SetPercent(percent int) error {
	percent = max(0, min(percent, 100))
	maxV, err := b.Max()
	if err != nil {
		return err
	}
	return writeInt(b.BrightnessPath, percent*maxV/100)
}

func (b *Backlight) GetPercent() (int, error) {
	maxV, err := b.Max()
	if err != nil {
		return 0, err
	}
	raw, err := readInt(b.BrightnessPath)
	if err != nil {
		return 0, err
	}
	raw = max(0, min(raw, maxV))
	return raw * 100 / maxV, nil
}

func readInt(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(b)))
}

func writeInt(path string, v int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(v)), 0o644)
}
