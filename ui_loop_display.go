//go:build (linux && device_display) || preview

package main

import (
	"cam-screen/config"
	"cam-screen/internal/display"
	"cam-screen/internal/logger"
)

// openDisplay 打开真实屏幕；enable=false 时退化为内存显示
func openDisplay(cfg *config.Config, enable bool) (display.Display, error) {
	if !enable {
		logger.Warn("屏幕未启用：界面只在内存中运行")
		return display.NewMemoryDisplay(cfg.Display.Width, cfg.Display.Height), nil
	}
	return display.NewDisplay(cfg.Device.Name, cfg.Display.Width, cfg.Display.Height)
}
