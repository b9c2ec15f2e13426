package export_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/textex/export"
	"github.com/ByLCY/textex/render"
	"github.com/ByLCY/textex/vmat"
)

func fakeItems(symbols string) []render.BatchItem {
	items := make([]render.BatchItem, 0, len(symbols))
	for _, sym := range symbols {
		items = append(items, render.BatchItem{Symbol: sym, Pair: render.BlankPair(8, 8)})
	}
	return items
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s: %v", path, err)
	}
}

func TestSingleWritesPairAndMaterial(t *testing.T) {
	dir := t.TempDir()
	written, err := export.Single(dir, "sign", render.BlankPair(8, 8), export.MaterialOptions{
		Enabled: true,
		Shader:  vmat.ShaderStaticOverlay,
	})
	if err != nil {
		t.Fatalf("Single error: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("expected 3 files, got %v", written)
	}
	mustExist(t, filepath.Join(dir, "sign_color.png"))
	mustExist(t, filepath.Join(dir, "sign_trans.png"))
	mustExist(t, filepath.Join(dir, "sign.vmat"))

	content, err := os.ReadFile(filepath.Join(dir, "sign.vmat"))
	if err != nil {
		t.Fatalf("read material: %v", err)
	}
	if !strings.Contains(string(content), "sign_color.png") {
		t.Fatalf("material does not reference the color map:\n%s", content)
	}
}

func TestSingleWithoutMaterial(t *testing.T) {
	dir := t.TempDir()
	written, err := export.Single(dir, "plain", render.BlankPair(4, 4), export.MaterialOptions{})
	if err != nil {
		t.Fatalf("Single error: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 files, got %v", written)
	}
	if _, err := os.Stat(filepath.Join(dir, "plain.vmat")); !os.IsNotExist(err) {
		t.Fatalf("material must not be written when disabled")
	}
}

// 非法着色器在写出任何文件之前就被拒绝。
func TestSingleRejectsUnknownShaderBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	_, err := export.Single(dir, "sign", render.BlankPair(4, 4), export.MaterialOptions{
		Enabled: true,
		Shader:  "foo_shader",
	})
	if !errors.Is(err, vmat.ErrUnsupportedShader) {
		t.Fatalf("expected ErrUnsupportedShader, got %v", err)
	}
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("read dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("no files may be written for an unsupported shader, got %v", entries)
	}
}

func TestBatchNamesFilesBySymbol(t *testing.T) {
	dir := t.TempDir()
	written, err := export.Batch(dir, "counter", fakeItems("012"), export.MaterialOptions{
		Enabled: true,
		Shader:  vmat.ShaderComplex,
	})
	if err != nil {
		t.Fatalf("Batch error: %v", err)
	}
	// 每个符号：color + trans + vmat
	if len(written) != 9 {
		t.Fatalf("expected 9 files, got %d: %v", len(written), written)
	}
	for _, name := range []string{
		"counter_0_color.png", "counter_0_trans.png", "counter_0.vmat",
		"counter_1_color.png", "counter_2_trans.png",
	} {
		mustExist(t, filepath.Join(dir, name))
	}
}

func TestBatchSharedMaterial(t *testing.T) {
	dir := t.TempDir()
	written, err := export.Batch(dir, "digits", fakeItems("01"), export.MaterialOptions{
		Enabled: true,
		Shader:  vmat.ShaderStaticOverlay,
		Shared:  true,
	})
	if err != nil {
		t.Fatalf("Batch error: %v", err)
	}
	// 2 符号 × 2 贴图 + 1 份共享材质
	if len(written) != 5 {
		t.Fatalf("expected 5 files, got %d: %v", len(written), written)
	}
	mustExist(t, filepath.Join(dir, "digits.vmat"))
	if _, err := os.Stat(filepath.Join(dir, "digits_0.vmat")); !os.IsNotExist(err) {
		t.Fatalf("per-symbol material must not exist in shared mode")
	}
}

func TestBatchEmptyBaseUsesSymbol(t *testing.T) {
	dir := t.TempDir()
	if _, err := export.Batch(dir, "", fakeItems("7"), export.MaterialOptions{}); err != nil {
		t.Fatalf("Batch error: %v", err)
	}
	mustExist(t, filepath.Join(dir, "7_color.png"))
	mustExist(t, filepath.Join(dir, "7_trans.png"))
}

func TestBatchSymbolPlaceholder(t *testing.T) {
	dir := t.TempDir()
	written, err := export.Batch(dir, "score_${n}_big", fakeItems("12"), export.MaterialOptions{
		Enabled: true,
		Shader:  vmat.ShaderStaticOverlay,
		Shared:  true,
	})
	if err != nil {
		t.Fatalf("Batch error: %v", err)
	}
	if len(written) != 5 {
		t.Fatalf("expected 5 files, got %d: %v", len(written), written)
	}
	// 占位符逐帧替换，而不是追加 _<symbol> 后缀
	mustExist(t, filepath.Join(dir, "score_1_big_color.png"))
	mustExist(t, filepath.Join(dir, "score_2_big_trans.png"))
	// 共享材质的文件名不能保留占位符
	mustExist(t, filepath.Join(dir, "score_all_big.vmat"))
}
