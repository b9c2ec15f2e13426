// Package render 实现核心渲染管线：字形布局、描边与填充的合成、批量序列
// 渲染。布局与合成都是纯函数：同样的样式与字体面输入必然产出同样的结果。
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/textex/fontcat"
	"github.com/ByLCY/textex/texspec"
)

// Layout 记录画布尺寸与字形运行区的落点。坐标使用画布单位（像素），
// 原点在左下角、Y 轴向上，与底层画布库一致。
type Layout struct {
	CanvasW int `json:"canvasWidth"`
	CanvasH int `json:"canvasHeight"`
	// OriginX/OriginY 是首行基线起点在画布内的位置。
	OriginX float64 `json:"originX"`
	OriginY float64 `json:"originY"`

	lines []linePlacement
}

// linePlacement 保存单行文本的基线落点。
type linePlacement struct {
	text string
	x, y float64
}

// Options 约束布局的目标画布尺寸。为零表示紧贴文本（最小画布）；
// 大于计算出的最小尺寸时画布扩展到目标值，水平方向按对齐方式放置，
// 垂直方向居中。批量模式用它保证所有帧共享同一画布尺寸。
type Options struct {
	TargetWidth  int
	TargetHeight int
}

// LayoutSpec 测量文本并计算画布尺寸与字形落点。
//
// 文本按 \n 拆行；每行的墨迹包围盒来自字形轮廓，行与行之间按字体行高
// 加上样式的行间距堆叠。包围盒先向四周对称扩展描边宽度（描边向轮廓
// 外侧延伸），再扩展留白。空文本退化为 2*(padding+outlineWidth) 的
// 画布，这是合法结果而非错误。
func LayoutSpec(spec texspec.StyleSpec, face *fontcat.Face, opts Options) (Layout, error) {
	if err := spec.Validate(); err != nil {
		return Layout{}, err
	}
	if face == nil {
		return Layout{}, fmt.Errorf("render: 缺少字体面")
	}

	var texts []string
	if spec.Text != "" {
		texts = strings.Split(strings.ReplaceAll(spec.Text, "\r\n", "\n"), "\n")
	}

	type lineBox struct {
		text           string
		w              float64 // 墨迹宽度
		x0             float64 // 墨迹左缘相对基线起点的偏移
		top, bottom    float64 // 墨迹上下缘相对基线的偏移（Y 轴向上）
	}
	boxes := make([]lineBox, 0, len(texts))
	for _, text := range texts {
		box := lineBox{text: text}
		if text != "" {
			path, _, err := face.ToPath(text)
			if err != nil {
				return Layout{}, fmt.Errorf("测量文本 %q 失败: %w", text, err)
			}
			b := path.Bounds()
			box.w = b.W()
			box.x0 = b.X0
			box.top = b.Y1
			box.bottom = b.Y0
		}
		boxes = append(boxes, box)
	}

	advance := lineAdvance(face, spec)

	// 字形运行区的墨迹包围盒。上下缘取所有行的极值：行距为负或首行为
	// 空行时，后续行的墨迹可能高过首行。
	var runW, runTop, runBottom float64
	for i, box := range boxes {
		if box.w > runW {
			runW = box.w
		}
		baseline := -float64(i) * advance
		if top := baseline + box.top; i == 0 || top > runTop {
			runTop = top
		}
		if bottom := baseline + box.bottom; i == 0 || bottom < runBottom {
			runBottom = bottom
		}
	}
	runH := runTop - runBottom
	if runH < 0 {
		runH = 0
	}

	margin := float64(spec.OutlineWidth + spec.Padding)
	canvasW := int(math.Ceil(runW)) + 2*(spec.OutlineWidth+spec.Padding)
	canvasH := int(math.Ceil(runH)) + 2*(spec.OutlineWidth+spec.Padding)
	if opts.TargetWidth > canvasW {
		canvasW = opts.TargetWidth
	}
	if opts.TargetHeight > canvasH {
		canvasH = opts.TargetHeight
	}

	// 水平放置：目标画布富余的宽度按对齐方式分配；紧贴画布时富余为 0，
	// 对齐不产生可见效果（单项导出接受这一点）。
	spareW := float64(canvasW) - 2*margin - runW
	if spareW < 0 {
		spareW = 0
	}
	runLeft := margin + alignOffset(spec.Align, spareW)

	// 垂直放置：富余高度按垂直放置方式分配（Y 轴向上，顶部富余为
	// spareH 减去落点偏移）
	spareH := float64(canvasH) - 2*margin - runH
	if spareH < 0 {
		spareH = 0
	}
	runTopY := float64(canvasH) - margin - valignOffset(spec.VAlign, spareH)

	lay := Layout{CanvasW: canvasW, CanvasH: canvasH}
	for i, box := range boxes {
		baseline := runTopY - runTop - float64(i)*advance
		x := runLeft + alignOffset(spec.Align, runW-box.w) - box.x0
		if i == 0 {
			lay.OriginX = x
			lay.OriginY = baseline
		}
		lay.lines = append(lay.lines, linePlacement{text: box.text, x: x, y: baseline})
	}
	return lay, nil
}

// lineAdvance 返回相邻两行基线的距离。
func lineAdvance(face *fontcat.Face, spec texspec.StyleSpec) float64 {
	m := face.Metrics()
	h := m.LineHeight
	if h <= 0 {
		h = m.Ascent + m.Descent
	}
	if h <= 0 {
		h = float64(spec.FontSize)
	}
	return h + float64(spec.LineSpacing)
}

// valignOffset 返回运行区上缘距画布顶部留白的距离。
func valignOffset(valign texspec.VAlignment, spare float64) float64 {
	if spare <= 0 {
		return 0
	}
	switch valign {
	case texspec.VAlignTop:
		return 0
	case texspec.VAlignBottom:
		return spare
	default:
		return spare / 2
	}
}

func alignOffset(align texspec.Alignment, spare float64) float64 {
	if spare <= 0 {
		return 0
	}
	switch align {
	case texspec.AlignCenter:
		return spare / 2
	case texspec.AlignRight:
		return spare
	default:
		return 0
	}
}
