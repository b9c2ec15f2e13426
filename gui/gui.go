// Package gui 是 textex 的交互前端：实时预览窗口、键盘驱动的样式
// 调整与导出触发。渲染在后台工作者中进行，界面线程只提交最新的
// 样式快照并取回最新的结果，调参时不会卡顿。
package gui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ByLCY/textex/export"
	"github.com/ByLCY/textex/fontcat"
	"github.com/ByLCY/textex/logging"
	"github.com/ByLCY/textex/preview"
	"github.com/ByLCY/textex/render"
	"github.com/ByLCY/textex/texspec"
)

const (
	windowW = 960
	windowH = 640
	cellPx  = 8 // 棋盘格边长
)

// 填充与描边的预设色环，C/O 键循环切换。
var colorPresets = []texspec.RGBA{
	texspec.White,
	texspec.Black,
	{R: 0xFF, G: 0xCC, B: 0x00, A: 0xFF},
	{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF},
	{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF},
}

// Config 是窗口启动参数。
type Config struct {
	Spec     texspec.StyleSpec
	OutDir   string
	Base     string
	Material export.MaterialOptions
}

// App 实现 ebiten.Game。所有可变状态归界面线程所有；
// 每次调整都会生成新的 StyleSpec 快照提交给预览工作者。
type App struct {
	catalog *fontcat.Catalog
	worker  *preview.Worker

	spec    texspec.StyleSpec
	fonts   []string
	fontIdx int
	editing bool

	outDir   string
	base     string
	material export.MaterialOptions

	previewed *ebiten.Image
	status    string

	checker  *ebiten.Image
	checkerW int
	checkerH int

	runes []rune
}

// NewApp 构建界面并提交首帧预览。
func NewApp(catalog *fontcat.Catalog, cfg Config) (*App, error) {
	if catalog == nil {
		return nil, fmt.Errorf("gui: 缺少字体目录")
	}
	if err := cfg.Spec.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		catalog:  catalog,
		spec:     cfg.Spec,
		fonts:    catalog.Names(),
		outDir:   cfg.OutDir,
		base:     cfg.Base,
		material: cfg.Material,
		status:   "渲染中…",
	}
	if app.outDir == "" {
		app.outDir = "."
	}
	for i, name := range app.fonts {
		if name == cfg.Spec.FontName {
			app.fontIdx = i
			break
		}
	}

	app.worker = preview.NewWorker(func(spec texspec.StyleSpec) (render.Pair, error) {
		return renderSpec(catalog, spec)
	})
	app.submit()
	return app, nil
}

// renderSpec 对样式快照执行一次完整渲染，预览与导出共用。
func renderSpec(catalog *fontcat.Catalog, spec texspec.StyleSpec) (render.Pair, error) {
	face, _, err := catalog.ResolveWithFallback(spec.FontName, spec.FontSize)
	if err != nil {
		return render.Pair{}, err
	}
	lay, err := render.LayoutSpec(spec, face, render.Options{})
	if err != nil {
		return render.Pair{}, err
	}
	return render.Render(spec, face, lay)
}

// Run 打开窗口并阻塞到退出。
func (a *App) Run() error {
	defer a.worker.Close()
	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("textex — 文字贴图生成器")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(a)
}

// Update 实现 ebiten.Game：取回最新预览结果并处理按键。
func (a *App) Update() error {
	select {
	case res := <-a.worker.Results():
		if res.ID == a.worker.Latest() {
			a.apply(res)
		}
	default:
	}

	if a.editing {
		a.updateTextInput()
		return nil
	}
	return a.updateHotkeys()
}

func (a *App) apply(res preview.Result) {
	if res.Err != nil {
		a.status = fmt.Sprintf("渲染失败: %v", res.Err)
		return
	}
	a.previewed = ebiten.NewImageFromImage(res.Pair.Color)
	w, h := res.Pair.Color.Bounds().Dx(), res.Pair.Color.Bounds().Dy()
	a.status = fmt.Sprintf("画布 %d×%d", w, h)
	if a.spec.FontName != "" && a.spec.FontName != fontcat.FallbackName && !a.catalog.Has(a.spec.FontName) {
		a.status += fmt.Sprintf("（字体 %q 未找到，已用 %s 替代）", a.spec.FontName, fontcat.FallbackName)
	}
}

// submit 把当前样式快照交给后台工作者。
func (a *App) submit() {
	a.worker.Request(a.spec)
}

func (a *App) updateTextInput() {
	a.runes = ebiten.AppendInputChars(a.runes[:0])
	changed := false
	for _, r := range a.runes {
		a.spec.Text += string(r)
		changed = true
	}
	if repeatKey(ebiten.KeyBackspace) && a.spec.Text != "" {
		rs := []rune(a.spec.Text)
		a.spec.Text = string(rs[:len(rs)-1])
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.spec.Text += "\n"
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.editing = false
	}
	if changed {
		a.submit()
	}
}

func (a *App) updateHotkeys() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		a.editing = true
		return nil
	}

	changed := false
	switch {
	case repeatKey(ebiten.KeyArrowUp):
		a.spec.FontSize += 2
		changed = true
	case repeatKey(ebiten.KeyArrowDown) && a.spec.FontSize > 2:
		a.spec.FontSize -= 2
		changed = true
	case repeatKey(ebiten.KeyArrowRight):
		a.spec.OutlineWidth++
		changed = true
	case repeatKey(ebiten.KeyArrowLeft) && a.spec.OutlineWidth > 0:
		a.spec.OutlineWidth--
		changed = true
	case repeatKey(ebiten.KeyEqual):
		a.spec.Padding += 2
		changed = true
	case repeatKey(ebiten.KeyMinus) && a.spec.Padding >= 2:
		a.spec.Padding -= 2
		changed = true
	case repeatKey(ebiten.KeyPeriod):
		a.spec.LineSpacing += 2
		changed = true
	case repeatKey(ebiten.KeyComma) && a.spec.LineSpacing >= 2:
		a.spec.LineSpacing -= 2
		changed = true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF) && len(a.fonts) > 0 {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			a.fontIdx = (a.fontIdx + len(a.fonts) - 1) % len(a.fonts)
		} else {
			a.fontIdx = (a.fontIdx + 1) % len(a.fonts)
		}
		a.spec.FontName = a.fonts[a.fontIdx]
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		a.spec.Align = (a.spec.Align + 1) % 3
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		a.spec.VAlign = (a.spec.VAlign + 1) % 3
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.spec.Fill = nextPreset(a.spec.Fill)
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		a.spec.Outline = nextPreset(a.spec.Outline)
		changed = true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.exportSingle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		a.exportBatch()
	}

	if changed {
		a.submit()
	}
	return nil
}

func (a *App) exportSingle() {
	// 导出前按当前样式同步重渲染：预览结果可能落后于刚调整过的参数
	pair, err := renderSpec(a.catalog, a.spec)
	if err != nil {
		a.status = fmt.Sprintf("导出渲染失败: %v", err)
		logging.Error("EXPORT", "%v", err)
		return
	}
	files, err := export.Single(a.outDir, a.base, pair, a.material)
	if err != nil {
		a.status = fmt.Sprintf("导出失败: %v", err)
		logging.Error("EXPORT", "%v", err)
		return
	}
	a.status = fmt.Sprintf("已导出 %d 个文件到 %s", len(files), a.outDir)
	logging.Success("EXPORT", "已写出 %d 个文件到 %s", len(files), a.outDir)
}

func (a *App) exportBatch() {
	face, warn, err := a.catalog.ResolveWithFallback(a.spec.FontName, a.spec.FontSize)
	if err != nil {
		a.status = fmt.Sprintf("批量导出失败: %v", err)
		return
	}
	if warn != nil {
		logging.Warn("BATCH", "%v", warn)
	}
	items, err := render.Sequence(a.spec, face, render.DefaultSymbols(), render.Options{})
	if err != nil {
		a.status = fmt.Sprintf("批量渲染失败: %v", err)
		logging.Error("BATCH", "%v", err)
		return
	}
	for _, item := range items {
		if item.Warn != nil {
			logging.Warn("BATCH", "%v", item.Warn)
		}
	}
	files, err := export.Batch(a.outDir, a.base, items, a.material)
	if err != nil {
		a.status = fmt.Sprintf("批量导出失败: %v", err)
		logging.Error("BATCH", "%v", err)
		return
	}
	a.status = fmt.Sprintf("批量导出 %d 个文件到 %s", len(files), a.outDir)
	logging.Success("BATCH", "已写出 %d 个文件到 %s", len(files), a.outDir)
}

// Draw 实现 ebiten.Game：棋盘格衬底 + 居中预览 + 状态行。
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x2B, G: 0x2B, B: 0x2B, A: 0xFF})

	if a.previewed != nil {
		pw, ph := a.previewed.Bounds().Dx(), a.previewed.Bounds().Dy()
		sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
		ox := float64(sw-pw) / 2
		oy := float64(sh-ph) / 2

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(ox, oy)
		screen.DrawImage(a.checkerboard(pw, ph), op)
		screen.DrawImage(a.previewed, op)
	}

	ebitenutil.DebugPrint(screen, a.hud())
}

func (a *App) hud() string {
	mode := "快捷键"
	if a.editing {
		mode = "文本输入（Tab 结束）"
	}
	fontName := a.spec.FontName
	if fontName == "" {
		fontName = fontcat.FallbackName
	}
	return fmt.Sprintf(
		"%s | 字体 %s  字号 %d  描边 %d  留白 %d  行距 %d  对齐 %s/%s  填充 %s  描边色 %s\n"+
			"Tab 编辑文本  ↑↓ 字号  ←→ 描边  -/= 留白  ,/. 行距  F 字体  A/V 对齐  C/O 颜色  S 导出  B 批量  Esc 退出\n%s",
		mode, fontName, a.spec.FontSize, a.spec.OutlineWidth,
		a.spec.Padding, a.spec.LineSpacing, a.spec.Align, a.spec.VAlign,
		a.spec.Fill.Hex(), a.spec.Outline.Hex(), a.status)
}

// checkerboard 返回衬底棋盘格，尺寸不变时复用缓存。
func (a *App) checkerboard(w, h int) *ebiten.Image {
	if a.checker != nil && a.checkerW == w && a.checkerH == h {
		return a.checker
	}
	img := ebiten.NewImage(w, h)
	light := color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}
	dark := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
	cell := ebiten.NewImage(cellPx, cellPx)
	for y := 0; y*cellPx < h; y++ {
		for x := 0; x*cellPx < w; x++ {
			if (x+y)%2 == 0 {
				cell.Fill(light)
			} else {
				cell.Fill(dark)
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x*cellPx), float64(y*cellPx))
			img.DrawImage(cell, op)
		}
	}
	a.checker, a.checkerW, a.checkerH = img, w, h
	return img
}

// Layout 实现 ebiten.Game。
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// repeatKey 在按下瞬间与长按重复时都返回真，调参时可以按住不放。
func repeatKey(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= 20 && d%4 == 0
}

func nextPreset(cur texspec.RGBA) texspec.RGBA {
	for i, p := range colorPresets {
		if p == cur {
			return colorPresets[(i+1)%len(colorPresets)]
		}
	}
	return colorPresets[0]
}
