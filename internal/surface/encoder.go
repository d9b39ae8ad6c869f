package surface

import (
	"bytes"
	"fmt"
)

const (
	PixelEmpty  byte = 0
	PixelFilled byte = 255
)

// CaptureBuffer 784 字节行优先位图，每次推理重新生成
type CaptureBuffer [Size]byte

// Encode 把网格当前底色转成位图；未创建的槽位按空白处理。
// 只读网格，调用方需持有显示锁。
func Encode(g *Grid) CaptureBuffer {
	var buf CaptureBuffer
	for i := 0; i < Size; i++ {
		if g.At(i).Filled() {
			buf[i] = PixelFilled
		}
	}
	return buf
}

// Bytes 切片视图
func (b *CaptureBuffer) Bytes() []byte { return b[:] }

// Filled 填充像素的下标
func (b *CaptureBuffer) Filled() []int {
	var out []int
	for i, v := range b {
		if v == PixelFilled {
			out = append(out, i)
		}
	}
	return out
}

// PGM 二进制 PGM（P5）图像
func (b *CaptureBuffer) PGM() []byte {
	var out bytes.Buffer
	fmt.Fprintf(&out, "P5\n%d %d\n255\n", Cols, Rows)
	out.Write(b[:])
	return out.Bytes()
}
