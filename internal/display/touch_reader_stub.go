//go:build !linux || preview

package display

// 非 Linux 设备端没有 evdev
func newLinuxEvdevTouch(screenW, screenH int) touchReader { return nil }
