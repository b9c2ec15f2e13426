package texspec

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// 该文件定义渲染样式的值类型。StyleSpec 在每次渲染前由调用方重新构建，
// 传入渲染管线后不再修改，保证预览与导出使用同一份不可变输入。

// RGBA 采用 0-255 的 RGBA 数值。
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Std 转换为标准库的 color.RGBA。
func (c RGBA) Std() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Hex 返回 #RRGGBB 或 #RRGGBBAA 形式的字符串。
func (c RGBA) Hex() string {
	if c.A != 0xFF {
		return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// 常用颜色默认值：填充白、描边黑。
var (
	White = RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	Black = RGBA{0x00, 0x00, 0x00, 0xFF}
)

// ParseColor 解析 #RGB/#RRGGBB/#RRGGBBAA 颜色值。
func ParseColor(value string) (RGBA, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(v) == 3 {
		v = strings.Repeat(string(v[0]), 2) +
			strings.Repeat(string(v[1]), 2) +
			strings.Repeat(string(v[2]), 2)
	}

	var channels [4]uint8
	switch len(v) {
	case 6:
		channels[3] = 0xFF
	case 8:
	default:
		return RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	for i := 0; i*2 < len(v); i++ {
		n, err := strconv.ParseUint(v[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("颜色值 %s 含非法的十六进制位", value)
		}
		channels[i] = uint8(n)
	}
	return RGBA{channels[0], channels[1], channels[2], channels[3]}, nil
}

// Alignment 表示文本的水平对齐方式。
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// String returns the canonical lowercase name of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlignment 解析 left/center/right 对齐关键字。
func ParseAlignment(value string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre", "middle":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	default:
		return AlignLeft, fmt.Errorf("未知的对齐方式：%s", value)
	}
}

// VAlignment 表示固定尺寸画布内的垂直放置方式。紧贴画布没有富余
// 高度，垂直放置与水平对齐一样不产生可见效果。
type VAlignment int

const (
	VAlignMiddle VAlignment = iota
	VAlignTop
	VAlignBottom
)

// String returns the canonical lowercase name of the vertical placement.
func (v VAlignment) String() string {
	switch v {
	case VAlignTop:
		return "top"
	case VAlignBottom:
		return "bottom"
	default:
		return "middle"
	}
}

// ParseVAlignment 解析 top/middle/bottom 垂直放置关键字。
func ParseVAlignment(value string) (VAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "middle", "center", "centre":
		return VAlignMiddle, nil
	case "top":
		return VAlignTop, nil
	case "bottom":
		return VAlignBottom, nil
	default:
		return VAlignMiddle, fmt.Errorf("未知的垂直放置方式：%s", value)
	}
}

// StyleSpec 描述一次渲染的全部输入。字段只在构建时写入，渲染期间只读。
type StyleSpec struct {
	Text         string     `json:"text"`
	FontName     string     `json:"fontName"`
	FontSize     int        `json:"fontSize"` // 像素
	Fill         RGBA       `json:"fill"`
	Outline      RGBA       `json:"outline"`
	OutlineWidth int        `json:"outlineWidth"` // 像素，0 表示无描边
	Padding      int        `json:"padding"`      // 四周透明留白（像素）
	Align        Alignment  `json:"align"`
	VAlign       VAlignment `json:"valign"`
	LineSpacing  int        `json:"lineSpacing"` // 行间距（像素），可为负
}

// Default 返回与交互界面初始状态一致的样式。
func Default() StyleSpec {
	return StyleSpec{
		Text:        "SAMPLE TEXT",
		FontSize:    50,
		Fill:        White,
		Outline:     Black,
		Padding:     20,
		Align:       AlignCenter,
		LineSpacing: 4,
	}
}

// Validate 校验数值范围。字体名为空是合法的：解析方会回退到内置字体。
func (s StyleSpec) Validate() error {
	if s.FontSize <= 0 {
		return fmt.Errorf("字号必须为正数，当前为 %d", s.FontSize)
	}
	if s.OutlineWidth < 0 {
		return fmt.Errorf("描边宽度不能为负数，当前为 %d", s.OutlineWidth)
	}
	if s.Padding < 0 {
		return fmt.Errorf("留白不能为负数，当前为 %d", s.Padding)
	}
	return nil
}

// WithText 派生一个仅替换文本的副本，其余字段保持不变。批量渲染用它为
// 每个符号构造样式。
func (s StyleSpec) WithText(text string) StyleSpec {
	s.Text = text
	return s
}
