//go:build linux && !preview

package display

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// evdevTouch 从 /dev/input/event* 非阻塞读取单指触摸
type evdevTouch struct {
	fd      int
	devPath string
	dec     *touchDecoder
}

func newLinuxEvdevTouch(screenW, screenH int) touchReader {
	return &evdevTouch{fd: -1, dec: newTouchDecoder(screenW, screenH)}
}

func (t *evdevTouch) Init() error {
	path, err := findTouchDevice()
	if err != nil {
		return err
	}
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("打开触摸设备失败: %s: %w", path, err)
	}
	t.fd = fd
	t.devPath = path

	// ABS 范围用于映射到屏幕坐标；MT 轴优先
	r := func(mt, single int, lo, hi int32) (int32, int32) {
		if a, err := ioctlGetAbs(fd, mt); err == nil {
			return a.Minimum, a.Maximum
		}
		if a, err := ioctlGetAbs(fd, single); err == nil {
			return a.Minimum, a.Maximum
		}
		return lo, hi
	}
	minX, maxX := r(absMTPositionX, absX, t.dec.minX, t.dec.maxX)
	minY, maxY := r(absMTPositionY, absY, t.dec.minY, t.dec.maxY)
	t.dec.setRange(minX, maxX, minY, maxY)
	return nil
}

func (t *evdevTouch) Close() error {
	if t.fd >= 0 {
		_ = unix.Close(t.fd)
		t.fd = -1
	}
	return nil
}

// Poll 读空内核队列，返回本次读到的所有完整帧
func (t *evdevTouch) Poll() []TouchEvent {
	if t.fd < 0 {
		return nil
	}
	const size = int(unsafe.Sizeof(inputEvent{}))
	for {
		var ev inputEvent
		n, err := unix.Read(t.fd, (*(*[size]byte)(unsafe.Pointer(&ev)))[:])
		if err != nil || n != size {
			if err != nil && !errors.Is(err, unix.EAGAIN) {
				t.Close()
			}
			break
		}
		t.dec.feed(ev.Type, ev.Code, ev.Value)
	}
	return t.dec.drain()
}

func findTouchDevice() (string, error) {
	cands, _ := filepath.Glob("/dev/input/event*")
	// 优先找名字像触摸屏（Goodix/GT911 等）的
	best := ""
	for _, p := range cands {
		name := ""
		if fd, err := unix.Open(p, unix.O_RDONLY|unix.O_NONBLOCK, 0); err == nil {
			if n, e := ioctlGetName(fd); e == nil {
				name = n
			}
			_ = unix.Close(fd)
		}
		low := strings.ToLower(name)
		if strings.Contains(low, "goodix") || strings.Contains(low, "gt911") || strings.Contains(low, "touch") {
			return p, nil
		}
		if best == "" && name != "" {
			best = p
		}
	}
	if best != "" {
		return best, nil
	}
	if len(cands) > 0 {
		return cands[0], nil
	}
	return "", fmt.Errorf("未找到触摸设备（/dev/input/event*）")
}

type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type inputAbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// ioc 展开 linux/ioctl.h 的 _IOC 宏
func ioc(dir, typ, nr, size uintptr) uintptr {
	const (
		nrShift   = 0
		typeShift = nrShift + 8
		sizeShift = typeShift + 8
		dirShift  = sizeShift + 14
	)
	return dir<<dirShift | typ<<typeShift | nr<<nrShift | size<<sizeShift
}

const iocRead = 2

func evioCGName(n int) uintptr { return ioc(iocRead, 'E', 0x06, uintptr(n)) }
func evioCGAbs(axis int) uintptr {
	return ioc(iocRead, 'E', 0x40+uintptr(axis), unsafe.Sizeof(inputAbsInfo{}))
}

func ioctlGetName(fd int) (string, error) {
	buf := make([]byte, 256)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), evioCGName(len(buf)), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", errno
	}
	return unix.ByteSliceToString(buf), nil
}

func ioctlGetAbs(fd int, axis int) (*inputAbsInfo, error) {
	var info inputAbsInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), evioCGAbs(axis), uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return nil, errno
	}
	return &info, nil
}
