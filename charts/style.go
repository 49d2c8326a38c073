package charts

import (
	"image/color"

	"gonum.org/v1/plot/vg"
)

// Style 绘图配置，按调用显式传入，不走包级全局状态
type Style struct {
	Before    color.Color
	After     color.Color
	Reference color.Color
	Width     vg.Length
	Height    vg.Length
}

// DefaultStyle 红前绿后的默认配色
func DefaultStyle() Style {
	return Style{
		Before:    color.RGBA{R: 214, G: 69, B: 65, A: 255},
		After:     color.RGBA{R: 38, G: 166, B: 91, A: 255},
		Reference: color.RGBA{R: 68, G: 108, B: 179, A: 255},
		Width:     16 * vg.Inch,
		Height:    10 * vg.Inch,
	}
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
