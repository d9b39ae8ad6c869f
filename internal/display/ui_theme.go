package display

import "image/color"

// 采集界面配色（深色底 + 黑白单元格）
var (
	ColorScreenBg = color.RGBA{0x20, 0x20, 0x20, 0xff}

	// 单元格只允许这两种底色
	ColorCellFilled = color.RGBA{0x00, 0x00, 0x00, 0xff}
	ColorCellEmpty  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ColorCellBorder = color.RGBA{0x88, 0x88, 0x88, 0xff}

	ColorTitle = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ColorInfo  = color.RGBA{0xaa, 0xaa, 0xaa, 0xff}

	ColorButtonBg      = color.RGBA{0x21, 0x96, 0xf3, 0xff}
	ColorButtonText    = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ColorButtonPressed = color.RGBA{0x19, 0x76, 0xd2, 0xff}
)
