package display

import (
	"sync"

	"cam-screen/internal/logger"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontManager     *FontManager
	fontManagerOnce sync.Once
)

// FontManager 字体管理器（Go 字体族，界面只有英文和数字）
type FontManager struct {
	regular *truetype.Font
	medium  *truetype.Font
	bold    *truetype.Font
}

// GetFontManager 获取字体管理器单例
func GetFontManager() *FontManager {
	fontManagerOnce.Do(func() {
		fontManager = &FontManager{}
		fontManager.loadFonts()
	})
	return fontManager
}

func (fm *FontManager) loadFonts() {
	fm.regular = parseFont("Go Regular", goregular.TTF)
	fm.medium = parseFont("Go Medium", gomedium.TTF)
	fm.bold = parseFont("Go Bold", gobold.TTF)
	// 粗体缺失时退回常规体
	if fm.medium == nil {
		fm.medium = fm.regular
	}
	if fm.bold == nil {
		fm.bold = fm.medium
	}
}

func parseFont(name string, data []byte) *truetype.Font {
	f, err := truetype.Parse(data)
	if err != nil {
		logger.Error("字体 %s 加载失败: %v", name, err)
		return nil
	}
	return f
}

// GetFont 获取字体
func (fm *FontManager) GetFont(weight FontWeight) *truetype.Font {
	switch weight {
	case FontWeightMedium:
		return fm.medium
	case FontWeightBold:
		return fm.bold
	default:
		return fm.regular
	}
}

// FontWeight 字体粗细
type FontWeight int

const (
	FontWeightRegular FontWeight = iota
	FontWeightMedium
	FontWeightBold
)
