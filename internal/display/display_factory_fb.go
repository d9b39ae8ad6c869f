//go:build !preview

package display

// NewDisplay 创建显示实例（设备端 framebuffer + evdev 触摸）；width/height 为 0 时跟随面板分辨率
func NewDisplay(title string, width, height int) (Display, error) {
	disp := &fbDisplay{
		width:  width,
		height: height,
	}
	if err := disp.Init(); err != nil {
		return nil, err
	}
	return disp, nil
}

