package board

import (
	"errors"

	"cam-screen/internal/logger"
)

// Bringup 点亮背光。没有背光设备（桌面预览、无屏板子）只告警不报错。
func Bringup(root string, brightness int) error {
	bl, err := DiscoverBacklight(root)
	if errors.Is(err, ErrNoBacklight) {
		logger.Warn("跳过背光设置: %v", err)
		return nil
	}
	if err != nil {
		return err
	}
	if err := bl.SetPercent(brightness); err != nil {
		return err
	}
	logger.Info("背光已设置为 %d%%（%s）", brightness, bl.BaseDir)
	return nil
}
