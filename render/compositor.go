package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/textex/fontcat"
	"github.com/ByLCY/textex/texspec"
)

// ErrInvalidLayout 表示画布尺寸计算为零或负数。按 LayoutSpec 的不变量
// 这不应该发生，命中即说明布局存在缺陷。
var ErrInvalidLayout = errors.New("render: 画布尺寸非法")

// Pair 是一次合成的输出：颜色贴图与透明贴图，尺寸逐像素对齐。
// Alpha 是描边与填充覆盖区域的并集掩码，单通道灰度，而不是颜色图
// 自带的 alpha 通道——引擎按坐标合成两张贴图，尺寸必须一致。
type Pair struct {
	Color *image.RGBA
	Alpha *image.Gray
}

// Render 在透明画布上合成文本：先以 2×描边宽度沿字形轮廓描边（描边向
// 外延伸 outlineWidth 像素），再在同一落点叠加填充字形，最后分别栅格化
// 出颜色图与覆盖掩码。
func Render(spec texspec.StyleSpec, face *fontcat.Face, lay Layout) (Pair, error) {
	if lay.CanvasW <= 0 || lay.CanvasH <= 0 {
		return Pair{}, fmt.Errorf("%w: %dx%d", ErrInvalidLayout, lay.CanvasW, lay.CanvasH)
	}
	if face == nil {
		return Pair{}, fmt.Errorf("render: 缺少字体面")
	}

	paths := make([]*canvas.Path, len(lay.lines))
	for i, line := range lay.lines {
		if line.text == "" {
			continue
		}
		path, _, err := face.ToPath(line.text)
		if err != nil {
			return Pair{}, fmt.Errorf("转换字形轮廓失败: %w", err)
		}
		paths[i] = path
	}

	colorImg := compose(spec, lay, paths, spec.Fill.Std(), spec.Outline.Std())
	// 掩码用纯白重绘一遍，取覆盖率作为单通道透明贴图
	white := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	maskImg := compose(spec, lay, paths, white, white)

	alpha := image.NewGray(maskImg.Bounds())
	for i := 0; i < len(alpha.Pix); i++ {
		alpha.Pix[i] = maskImg.Pix[i*4+3]
	}
	return Pair{Color: colorImg, Alpha: alpha}, nil
}

// compose 执行描边与填充两趟绘制并栅格化。画布单位与像素 1:1。
func compose(spec texspec.StyleSpec, lay Layout, paths []*canvas.Path, fill, outline color.RGBA) *image.RGBA {
	c := canvas.New(float64(lay.CanvasW), float64(lay.CanvasH))
	ctx := canvas.NewContext(c)

	if spec.OutlineWidth > 0 {
		ctx.SetFillColor(outline)
		ctx.SetStrokeColor(outline)
		ctx.SetStrokeWidth(2 * float64(spec.OutlineWidth))
		ctx.SetStrokeCapper(canvas.RoundCap)
		ctx.SetStrokeJoiner(canvas.RoundJoin)
		drawLines(ctx, lay, paths)
	}

	ctx.SetFillColor(fill)
	ctx.SetStrokeWidth(0)
	drawLines(ctx, lay, paths)

	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
}

func drawLines(ctx *canvas.Context, lay Layout, paths []*canvas.Path) {
	for i, line := range lay.lines {
		if paths[i] == nil {
			continue
		}
		ctx.DrawPath(line.x, line.y, paths[i])
	}
}

// BlankPair 返回一对全透明的空帧，批量渲染用它替代失败的符号。
func BlankPair(w, h int) Pair {
	return Pair{
		Color: image.NewRGBA(image.Rect(0, 0, w, h)),
		Alpha: image.NewGray(image.Rect(0, 0, w, h)),
	}
}
