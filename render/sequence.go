package render

import (
	"fmt"

	"github.com/ByLCY/textex/fontcat"
	"github.com/ByLCY/textex/texspec"
)

// DefaultSymbols 是批量模式的默认符号序列。
func DefaultSymbols() []rune { return []rune("0123456789") }

// BatchItem 是批量渲染中单个符号的结果。Warn 非空表示该符号渲染失败，
// 已用空白透明帧替代。
type BatchItem struct {
	Symbol rune
	Pair   Pair
	Warn   error
}

// Sequence 按序列逐符号渲染。所有帧共享同一画布尺寸（取序列中最宽、
// 最高符号的布局），保证导出的数字贴图可以整齐平铺。单个符号失败
// （例如字体缺字）不会中断批量：该符号以空白帧替代并记录警告。
func Sequence(baseSpec texspec.StyleSpec, face *fontcat.Face, symbols []rune, opts Options) ([]BatchItem, error) {
	if err := baseSpec.Validate(); err != nil {
		return nil, err
	}
	if face == nil {
		return nil, fmt.Errorf("render: 缺少字体面")
	}
	if len(symbols) == 0 {
		symbols = DefaultSymbols()
	}

	// 第一趟：求各符号紧贴布局的最大尺寸，得到共享画布
	shared := opts
	for _, sym := range symbols {
		if !face.HasGlyph(sym) {
			continue
		}
		lay, err := LayoutSpec(baseSpec.WithText(string(sym)), face, Options{})
		if err != nil {
			return nil, err
		}
		if lay.CanvasW > shared.TargetWidth {
			shared.TargetWidth = lay.CanvasW
		}
		if lay.CanvasH > shared.TargetHeight {
			shared.TargetHeight = lay.CanvasH
		}
	}
	if shared.TargetWidth <= 0 || shared.TargetHeight <= 0 {
		return nil, fmt.Errorf("%w: 序列中没有可渲染的符号", ErrInvalidLayout)
	}

	// 第二趟：逐符号渲染到共享画布
	items := make([]BatchItem, 0, len(symbols))
	for _, sym := range symbols {
		item := BatchItem{Symbol: sym}
		switch {
		case !face.HasGlyph(sym):
			item.Pair = BlankPair(shared.TargetWidth, shared.TargetHeight)
			item.Warn = fmt.Errorf("字体 %s 缺少符号 %q 的字形，已用空白帧替代", face.Name, sym)
		default:
			spec := baseSpec.WithText(string(sym))
			lay, err := LayoutSpec(spec, face, shared)
			if err == nil {
				item.Pair, err = Render(spec, face, lay)
			}
			if err != nil {
				item.Pair = BlankPair(shared.TargetWidth, shared.TargetHeight)
				item.Warn = fmt.Errorf("渲染符号 %q 失败，已用空白帧替代: %w", sym, err)
			}
		}
		items = append(items, item)
	}
	return items, nil
}
