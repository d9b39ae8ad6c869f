package display

import "image"

// fbFormat framebuffer 像素格式
type fbFormat struct {
	bpp       int
	redOffset int // 32bpp 时 16 表示 BGRA 字节序
}

// blit 把 RGBA 后缓冲按最近邻缩放写入 framebuffer 内存。
// 支持 32bpp（RGBA/BGRA）与 16bpp（RGB565）；其它格式不写。
func blit(dst []byte, dstW, dstH int, f fbFormat, src *image.RGBA) {
	srcW, srcH := src.Rect.Dx(), src.Rect.Dy()
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return
	}
	bytesPP := f.bpp / 8
	if (bytesPP != 4 && bytesPP != 2) || len(dst) < dstW*dstH*bytesPP {
		return
	}
	swap := bytesPP == 4 && f.redOffset == 16

	// 尺寸与格式一致时整块拷贝
	if srcW == dstW && srcH == dstH && bytesPP == 4 && !swap && src.Stride == srcW*4 {
		copy(dst, src.Pix)
		return
	}

	for dy := 0; dy < dstH; dy++ {
		sy := dy * srcH / dstH
		srcRow := sy * src.Stride
		dstRow := dy * dstW * bytesPP
		for dx := 0; dx < dstW; dx++ {
			si := srcRow + (dx*srcW/dstW)*4
			r, g, b, a := src.Pix[si], src.Pix[si+1], src.Pix[si+2], src.Pix[si+3]
			di := dstRow + dx*bytesPP
			switch {
			case bytesPP == 2:
				v := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
				dst[di] = byte(v)
				dst[di+1] = byte(v >> 8)
			case swap:
				dst[di], dst[di+1], dst[di+2], dst[di+3] = b, g, r, a
			default:
				dst[di], dst[di+1], dst[di+2], dst[di+3] = r, g, b, a
			}
		}
	}
}
