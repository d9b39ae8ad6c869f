//go:build !(linux && device_display) && !preview

package main

import (
	"cam-screen/config"
	"cam-screen/internal/display"
	"cam-screen/internal/logger"
)

func openDisplay(cfg *config.Config, enable bool) (display.Display, error) {
	if enable {
		logger.Warn("此版本未编译屏幕支持（需 -tags device_display 或 preview），使用内存显示")
	}
	return display.NewMemoryDisplay(cfg.Display.Width, cfg.Display.Height), nil
}
