//go:build !(linux && device_display) && !preview

package main

// Headless 版本：不编译屏幕驱动，界面只存在于内存，通过 API 操作。
func main() {
	runApp(false)
}
