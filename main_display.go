//go:build (linux && device_display) || preview

package main

import "runtime"

// Display 版本：带屏幕（设备 framebuffer；macOS 预览用 -tags preview）。
func main() {
	// SDL 在 macOS 必须占用主线程
	if runtime.GOOS == "darwin" {
		runtime.LockOSThread()
	}
	runApp(runtime.GOOS == "linux" || runtime.GOOS == "darwin")
}
