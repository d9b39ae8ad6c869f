package display

// linux/input-event-codes.h 中用到的部分
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0

	btnTouch = 0x014a

	absX            = 0x00
	absY            = 0x01
	absMTPositionX  = 0x35
	absMTPositionY  = 0x36
	absMTTrackingID = 0x39
)

// touchDecoder 把单指 evdev 事件流还原成 Down/Move/Up。
// 兼容 ABS_X/Y 与 ABS_MT_POSITION_X/Y；按下状态取 BTN_TOUCH 或 tracking id；
// SYN_REPORT 为一帧的提交点。
type touchDecoder struct {
	screenW, screenH int

	minX, maxX int32
	minY, maxY int32

	curX, curY   int
	isDown       bool
	lastDown     bool
	lastX, lastY int
	hasPos       bool

	out []TouchEvent
}

func newTouchDecoder(screenW, screenH int) *touchDecoder {
	d := &touchDecoder{screenW: screenW, screenH: screenH}
	d.setRange(0, int32(screenW-1), 0, int32(screenH-1))
	return d
}

// setRange 设置触摸面板坐标范围
func (d *touchDecoder) setRange(minX, maxX, minY, maxY int32) {
	if maxX <= minX {
		maxX = minX + 1
	}
	if maxY <= minY {
		maxY = minY + 1
	}
	d.minX, d.maxX, d.minY, d.maxY = minX, maxX, minY, maxY
}

func (d *touchDecoder) feed(typ, code uint16, value int32) {
	switch typ {
	case evAbs:
		switch code {
		case absX, absMTPositionX:
			d.curX = mapAxis(value, d.minX, d.maxX, d.screenW)
			d.hasPos = true
		case absY, absMTPositionY:
			d.curY = mapAxis(value, d.minY, d.maxY, d.screenH)
			d.hasPos = true
		case absMTTrackingID:
			// -1 表示手指离开
			d.isDown = value >= 0
		}
	case evKey:
		if code == btnTouch {
			d.isDown = value != 0
		}
	case evSyn:
		if code == synReport {
			d.commit()
		}
	}
}

func (d *touchDecoder) commit() {
	if !d.hasPos && d.isDown == d.lastDown {
		return
	}
	x, y := d.curX, d.curY
	tt := TouchMove
	switch {
	case d.isDown && !d.lastDown:
		tt = TouchDown
	case !d.isDown && d.lastDown:
		tt = TouchUp
	case !d.isDown:
		// 悬停坐标不产生事件
		d.hasPos = false
		return
	}
	if tt == TouchMove && x == d.lastX && y == d.lastY {
		d.hasPos = false
		return
	}
	d.out = append(d.out, TouchEvent{Type: tt, X: x, Y: y})
	d.lastDown = d.isDown
	d.lastX, d.lastY = x, y
	d.hasPos = false
}

// drain 取出已提交的事件
func (d *touchDecoder) drain() []TouchEvent {
	if len(d.out) == 0 {
		return nil
	}
	out := d.out
	d.out = nil
	return out
}

func mapAxis(v, lo, hi int32, out int) int {
	if out <= 1 || hi <= lo {
		return 0
	}
	v = max(lo, min(v, hi))
	return int(int64(v-lo) * int64(out-1) / int64(hi-lo))
}
