package fontcat

import (
	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/sfnt"
)

// Face 绑定一个 (字体名, 像素字号) 组合。度量与轮廓均以画布单位（像素）
// 返回；pt 换算在构造时完成。
type Face struct {
	Name   string
	SizePx int

	ff *canvas.FontFace
	sf *sfnt.Font
}

func newFace(name string, sizePx int, entry *familyEntry) *Face {
	return &Face{
		Name:   name,
		SizePx: sizePx,
		ff:     entry.family.Face(float64(sizePx)*UnitToPt, canvas.Black, canvas.FontRegular, canvas.FontNormal),
		sf:     entry.sfnt,
	}
}

// ToPath 把整串文本转换为字形轮廓路径，返回路径与横向前进宽度。
// 路径原点位于首字形的基线起点，字距调整由底层排版实现处理。
func (f *Face) ToPath(text string) (*canvas.Path, float64, error) {
	return f.ff.ToPath(text)
}

// TextWidth 返回文本的前进宽度（像素）。
func (f *Face) TextWidth(text string) float64 {
	return f.ff.TextWidth(text)
}

// Metrics 返回字体度量（像素）。
func (f *Face) Metrics() canvas.FontMetrics {
	return f.ff.Metrics()
}

// HasGlyph 判断字体是否包含指定符号的字形。缺字时渲染方可以用空白帧
// 替代并记录警告。
func (f *Face) HasGlyph(r rune) bool {
	if f.sf == nil {
		return false
	}
	var buf sfnt.Buffer
	idx, err := f.sf.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}
