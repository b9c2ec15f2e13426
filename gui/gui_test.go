package gui

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/textex/fontcat"
	"github.com/ByLCY/textex/texspec"
)

func TestNextPresetCycles(t *testing.T) {
	seen := map[texspec.RGBA]bool{}
	cur := colorPresets[0]
	for range colorPresets {
		seen[cur] = true
		cur = nextPreset(cur)
	}
	if len(seen) != len(colorPresets) {
		t.Fatalf("色环应遍历全部 %d 个预设，实际 %d 个", len(colorPresets), len(seen))
	}
	if cur != colorPresets[0] {
		t.Fatalf("色环应回到起点，得到 %+v", cur)
	}
}

func TestNextPresetUnknownColor(t *testing.T) {
	got := nextPreset(texspec.RGBA{R: 1, G: 2, B: 3, A: 4})
	if got != colorPresets[0] {
		t.Fatalf("未知颜色应回到色环起点，得到 %+v", got)
	}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("打开贴图失败: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("解码贴图失败: %v", err)
	}
	return img
}

// 导出必须按当前样式同步重渲染，而不是落盘上一次完成的预览帧。
func TestExportSingleRendersCurrentSpec(t *testing.T) {
	cat := fontcat.New(fontcat.Options{
		Dirs:      []string{t.TempDir()},
		CachePath: filepath.Join(t.TempDir(), "index.json"),
	})
	dir := t.TempDir()

	spec := texspec.Default()
	spec.Text = "7"
	spec.FontSize = 24
	spec.Padding = 0
	spec.OutlineWidth = 0
	app := &App{catalog: cat, spec: spec, outDir: dir, base: "digit"}

	app.exportSingle()
	first := decodePNG(t, filepath.Join(dir, "digit_color.png"))

	// 调整参数后立刻导出：预览帧尚未更新，结果必须反映新样式
	app.spec.Padding = 30
	app.exportSingle()
	second := decodePNG(t, filepath.Join(dir, "digit_color.png"))

	wantW := first.Bounds().Dx() + 60
	wantH := first.Bounds().Dy() + 60
	if second.Bounds().Dx() != wantW || second.Bounds().Dy() != wantH {
		t.Fatalf("导出未按当前样式渲染: %v, 期望 %dx%d", second.Bounds(), wantW, wantH)
	}
	if !strings.Contains(app.status, "已导出") {
		t.Fatalf("状态行应报告导出结果: %q", app.status)
	}
}

func TestHUDShowsCurrentStyle(t *testing.T) {
	spec := texspec.Default()
	spec.FontName = "Verdana"
	app := &App{spec: spec, status: "画布 128×64"}
	hud := app.hud()
	if !strings.Contains(hud, "Verdana") {
		t.Fatalf("状态行缺少字体名: %q", hud)
	}
	if !strings.Contains(hud, "画布 128×64") {
		t.Fatalf("状态行缺少渲染状态: %q", hud)
	}

	app.editing = true
	if !strings.Contains(app.hud(), "文本输入") {
		t.Fatalf("编辑模式应在状态行中标明")
	}
}
