package display

// TouchType 触摸事件类型
type TouchType int

const (
	TouchDown TouchType = iota
	TouchUp
	TouchMove
)

func (t TouchType) String() string {
	switch t {
	case TouchDown:
		return "down"
	case TouchUp:
		return "up"
	case TouchMove:
		return "move"
	}
	return "unknown"
}

// TouchEvent 触摸事件
type TouchEvent struct {
	Type      TouchType
	X         int
	Y         int
	Timestamp int64
}

// Page 一整屏内容，Manager 每帧调用
type Page interface {
	Render(g *Graphics) error
	HandleTouch(x, y int, touchType TouchType) bool
	Update(deltaTime int64)
	OnEnter()
	OnExit()
	GetName() string
}

// BasePage 页面基类
type BasePage struct {
	Name string
}

// GetName 获取页面名称
func (p *BasePage) GetName() string {
	return p.Name
}

func (p *BasePage) OnEnter() {}

func (p *BasePage) OnExit() {}

func (p *BasePage) Update(deltaTime int64) {}

func (p *BasePage) HandleTouch(x, y int, touchType TouchType) bool {
	return false
}
