//go:build preview

package display

// NewDisplay 创建显示实例（桌面 SDL2 窗口，鼠标模拟触摸）
func NewDisplay(title string, width, height int) (Display, error) {
	disp := NewSDL2(title, width, height)
	if err := disp.Init(); err != nil {
		return nil, err
	}
	return disp, nil
}

