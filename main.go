package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ByLCY/textex/dsl"
	"github.com/ByLCY/textex/export"
	"github.com/ByLCY/textex/fontcat"
	"github.com/ByLCY/textex/gui"
	"github.com/ByLCY/textex/logging"
	"github.com/ByLCY/textex/render"
	"github.com/ByLCY/textex/texspec"
	"github.com/ByLCY/textex/vmat"
)

func main() {
	jobFile := flag.String("job", "", ".textjob 任务文件路径（无界面批处理）")
	dataJSON := flag.String("data", "", "注入任务文件插值变量的 JSON 对象")
	headless := flag.Bool("export", false, "不开窗口，按命令行参数直接导出")

	text := flag.String("text", "", "要渲染的文本（\\n 换行）")
	fontName := flag.String("font", "", "字体名（留空使用内置 Go Regular）")
	size := flag.Int("size", 0, "字号（像素）")
	fill := flag.String("fill", "", "填充色，如 #FFFFFF")
	outline := flag.String("outline", "", "描边色，如 #000000")
	outlineWidth := flag.Int("outline-width", -1, "描边宽度（像素）")
	padding := flag.Int("padding", -1, "四周留白（像素）")
	align := flag.String("align", "", "多行对齐：left/center/right")
	valign := flag.String("valign", "", "固定画布内的垂直放置：top/middle/bottom")
	lineSpacing := flag.Int("line-spacing", -1, "行间距（像素）")

	batch := flag.Bool("batch", false, "批量模式：逐符号渲染序列")
	sequence := flag.String("sequence", "", "批量符号序列（默认 0123456789）")
	target := flag.Int("target", 0, "目标画布边长（0 表示紧贴内容）")

	outDir := flag.String("out", ".", "输出目录")
	name := flag.String("name", "", "输出文件名前缀（默认 text_layer）")
	shader := flag.String("shader", string(vmat.ShaderStaticOverlay), "材质着色器")
	withVmat := flag.Bool("vmat", false, "随贴图生成 .vmat 材质")
	sharedVmat := flag.Bool("vmat-shared", false, "批量模式下只生成一份共享材质")
	fontDir := flag.String("font-dir", "", "额外的字体扫描目录")
	rescan := flag.Bool("rescan", false, "忽略字体缓存，重新扫描系统字体")
	flag.Parse()

	catalog, err := openCatalog(*fontDir, *rescan)
	if err != nil {
		log.Fatalf("字体目录初始化失败: %v", err)
	}

	if *jobFile != "" {
		vars, err := parseDataVars(*dataJSON)
		if err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
		if err := runJobFile(catalog, *jobFile, vars); err != nil {
			log.Fatalf("任务文件执行失败: %v", err)
		}
		return
	}

	spec := buildSpec(*text, *fontName, *size, *fill, *outline,
		*outlineWidth, *padding, *align, *valign, *lineSpacing)
	mat := export.MaterialOptions{
		Enabled: *withVmat,
		Shader:  vmat.Shader(*shader),
		Shared:  *sharedVmat,
	}

	if *headless {
		job := dsl.Job{
			Name:     "cli",
			Spec:     spec,
			Batch:    *batch,
			Sequence: []rune(*sequence),
			Target:   *target,
			OutDir:   *outDir,
			Base:     *name,
			Material: mat,
		}
		if err := runJob(catalog, job); err != nil {
			log.Fatalf("导出失败: %v", err)
		}
		return
	}

	app, err := gui.NewApp(catalog, gui.Config{
		Spec:     spec,
		OutDir:   *outDir,
		Base:     *name,
		Material: mat,
	})
	if err != nil {
		log.Fatalf("界面初始化失败: %v", err)
	}
	if err := app.Run(); err != nil {
		log.Fatalf("界面运行失败: %v", err)
	}
}

// openCatalog 建立字体索引：优先读缓存，-rescan 时强制重扫。
func openCatalog(extraDir string, rescan bool) (*fontcat.Catalog, error) {
	var opts fontcat.Options
	if extraDir != "" {
		opts.Dirs = []string{extraDir}
	}
	catalog := fontcat.New(opts)

	var count int
	var err error
	if rescan {
		count, err = catalog.Rescan()
	} else {
		count, err = catalog.Scan()
	}
	if err != nil {
		return nil, err
	}
	logging.Info("FONT", "字体目录就绪，共 %d 个字体", count)
	return catalog, nil
}

// buildSpec 把命令行参数覆盖到默认样式上，零值参数保持默认。
func buildSpec(text, fontName string, size int, fill, outline string,
	outlineWidth, padding int, align, valign string, lineSpacing int) texspec.StyleSpec {

	spec := texspec.Default()
	if text != "" {
		spec.Text = strings.ReplaceAll(text, `\n`, "\n")
	}
	if fontName != "" {
		spec.FontName = fontName
	}
	if size > 0 {
		spec.FontSize = size
	}
	if fill != "" {
		c, err := texspec.ParseColor(fill)
		if err != nil {
			log.Fatalf("填充色无效: %v", err)
		}
		spec.Fill = c
	}
	if outline != "" {
		c, err := texspec.ParseColor(outline)
		if err != nil {
			log.Fatalf("描边色无效: %v", err)
		}
		spec.Outline = c
	}
	if outlineWidth >= 0 {
		spec.OutlineWidth = outlineWidth
	}
	if padding >= 0 {
		spec.Padding = padding
	}
	if align != "" {
		a, err := texspec.ParseAlignment(align)
		if err != nil {
			log.Fatalf("对齐方式无效: %v", err)
		}
		spec.Align = a
	}
	if valign != "" {
		v, err := texspec.ParseVAlignment(valign)
		if err != nil {
			log.Fatalf("垂直放置方式无效: %v", err)
		}
		spec.VAlign = v
	}
	if lineSpacing >= 0 {
		spec.LineSpacing = lineSpacing
	}
	return spec
}

// parseDataVars 把 -data 的 JSON 对象拍平成字符串变量表。
func parseDataVars(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, err
	}
	vars := make(map[string]string, len(obj))
	for k, v := range obj {
		vars[k] = fmt.Sprint(v)
	}
	return vars, nil
}

// runJobFile 解析 .textjob 文件并依次执行其中的任务。
func runJobFile(catalog *fontcat.Catalog, path string, vars map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("无法打开任务文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析任务文件失败: %w", err)
	}
	jobs, err := dsl.BindWith(doc, vars)
	if err != nil {
		return err
	}

	var errs []error
	for _, job := range jobs {
		logging.Section("JOB " + job.Name)
		if err := runJob(catalog, job); err != nil {
			logging.Error("JOB", "%s 失败: %v", job.Name, err)
			errs = append(errs, fmt.Errorf("任务 %s: %w", job.Name, err))
			continue
		}
	}
	return errors.Join(errs...)
}

// runJob 渲染并导出单个任务。
func runJob(catalog *fontcat.Catalog, job dsl.Job) error {
	start := time.Now()
	face, warn, err := catalog.ResolveWithFallback(job.Spec.FontName, job.Spec.FontSize)
	if err != nil {
		return err
	}
	if warn != nil {
		logging.Warn("FONT", "%v", warn)
	}

	opts := render.Options{TargetWidth: job.Target, TargetHeight: job.Target}
	outDir := job.OutDir
	if outDir == "" {
		outDir = "."
	}

	if job.Batch {
		items, err := render.Sequence(job.Spec, face, job.Sequence, opts)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Warn != nil {
				logging.Warn("BATCH", "%v", item.Warn)
			}
		}
		files, err := export.Batch(outDir, job.Base, items, job.Material)
		if err != nil {
			return err
		}
		logging.Success("BATCH", "已写出 %d 个文件到 %s%s", len(files), outDir, logging.Elapsed(start))
		return nil
	}

	lay, err := render.LayoutSpec(job.Spec, face, opts)
	if err != nil {
		return err
	}
	pair, err := render.Render(job.Spec, face, lay)
	if err != nil {
		return err
	}
	files, err := export.Single(outDir, job.Base, pair, job.Material)
	if err != nil {
		return err
	}
	logging.Success("EXPORT", "已写出 %d 个文件到 %s%s", len(files), outDir, logging.Elapsed(start))
	return nil
}
