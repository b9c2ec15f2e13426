package dsl

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/textex/export"
	"github.com/ByLCY/textex/texspec"
	"github.com/ByLCY/textex/vmat"
)

// Version 是当前支持的文档版本标识。
const Version = "v1"

// Job 是绑定后的渲染任务：样式、序列与导出目标都已解析为具体值。
type Job struct {
	Name     string
	Spec     texspec.StyleSpec
	Batch    bool
	Sequence []rune
	Target   int
	OutDir   string
	Base     string
	Material export.MaterialOptions
}

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${key} 替换为 vars 中的值。未知键保留原占位符，
// 由下游（例如批量导出的符号替换）继续处理。
func Interpolate(text string, vars map[string]string) string {
	if len(vars) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		key := strings.TrimSpace(groups[1])
		if val, ok := vars[key]; ok {
			return val
		}
		return match
	})
}

// Bind 把解析出的文档绑定为可执行的任务列表。
func Bind(doc *Document) ([]Job, error) {
	return BindWith(doc, nil)
}

// BindWith 在绑定时注入额外的插值变量（例如命令行 -data 传入的键值）。
// 内置变量 job（任务名）始终可用，外部变量不能覆盖它。
func BindWith(doc *Document, vars map[string]string) ([]Job, error) {
	if doc == nil {
		return nil, fmt.Errorf("dsl: 文档为空")
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("dsl: 不支持的文档版本 %q（当前仅支持 %s）", doc.Version, Version)
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("dsl: 文档中没有任何 job")
	}

	seen := make(map[string]struct{}, len(doc.Sections))
	jobs := make([]Job, 0, len(doc.Sections))
	for _, section := range doc.Sections {
		if _, dup := seen[section.Name]; dup {
			return nil, fmt.Errorf("dsl: %s: 重复的 job 名称 %q", section.Pos, section.Name)
		}
		seen[section.Name] = struct{}{}

		job, err := bindJob(section, vars)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func bindJob(section *JobSection, extra map[string]string) (Job, error) {
	job := Job{
		Name: section.Name,
		Spec: texspec.Default(),
		Base: section.Name,
	}
	if section.Block == nil {
		return job, nil
	}

	vars := make(map[string]string, len(extra)+1)
	for k, v := range extra {
		vars[k] = v
	}
	vars["job"] = section.Name
	for _, a := range section.Block.Assignments {
		if err := applyAssignment(&job, a, vars); err != nil {
			return Job{}, fmt.Errorf("dsl: %s: %w", a.Pos, err)
		}
	}
	if job.Material.Enabled && job.Material.Shader == "" {
		job.Material.Shader = vmat.ShaderStaticOverlay
	}
	if err := job.Spec.Validate(); err != nil {
		return Job{}, fmt.Errorf("dsl: job %s: %w", section.Name, err)
	}
	return job, nil
}

func applyAssignment(job *Job, a *Assignment, vars map[string]string) error {
	raw := a.Value.Text()
	switch a.Key {
	case "text":
		job.Spec.Text = Interpolate(raw, vars)
	case "font":
		job.Spec.FontName = raw
	case "size":
		n, err := bindInt(a, 1)
		if err != nil {
			return err
		}
		job.Spec.FontSize = n
	case "fill":
		c, err := bindColor(a)
		if err != nil {
			return err
		}
		job.Spec.Fill = c
	case "outline":
		c, err := bindColor(a)
		if err != nil {
			return err
		}
		job.Spec.Outline = c
	case "outline-width":
		n, err := bindInt(a, 0)
		if err != nil {
			return err
		}
		job.Spec.OutlineWidth = n
	case "padding":
		n, err := bindInt(a, 0)
		if err != nil {
			return err
		}
		job.Spec.Padding = n
	case "align":
		align, err := texspec.ParseAlignment(raw)
		if err != nil {
			return err
		}
		job.Spec.Align = align
	case "valign":
		valign, err := texspec.ParseVAlignment(raw)
		if err != nil {
			return err
		}
		job.Spec.VAlign = valign
	case "line-spacing":
		// 行距允许为负（压缩行间）
		n, err := bindInt(a, math.MinInt)
		if err != nil {
			return err
		}
		job.Spec.LineSpacing = n
	case "sequence":
		job.Batch = true
		if raw != "" {
			job.Sequence = []rune(raw)
		}
	case "target":
		n, err := bindInt(a, 1)
		if err != nil {
			return err
		}
		job.Target = n
	case "out":
		job.OutDir = Interpolate(raw, vars)
	case "name":
		job.Base = Interpolate(raw, vars)
	case "shader":
		shader, err := vmat.ParseShader(raw)
		if err != nil {
			return err
		}
		job.Material.Shader = shader
		job.Material.Enabled = true
	case "material":
		switch raw {
		case "off", "none":
			job.Material.Enabled = false
		case "per-symbol":
			job.Material.Enabled = true
			job.Material.Shared = false
		case "shared":
			job.Material.Enabled = true
			job.Material.Shared = true
		default:
			return fmt.Errorf("非法 material 取值 %q（可选 off/per-symbol/shared）", raw)
		}
	default:
		return fmt.Errorf("未知属性 %q", a.Key)
	}
	return nil
}

func bindInt(a *Assignment, min int) (int, error) {
	if a.Value == nil || a.Value.Number == nil {
		return 0, fmt.Errorf("属性 %s 需要数值，得到 %q", a.Key, a.Value.Text())
	}
	n, err := strconv.Atoi(*a.Value.Number)
	if err != nil {
		// 容忍写成小数的整数值
		f, ferr := strconv.ParseFloat(*a.Value.Number, 64)
		if ferr != nil {
			return 0, fmt.Errorf("属性 %s 的值 %q 不是整数", a.Key, *a.Value.Number)
		}
		n = int(f)
	}
	if n < min {
		return 0, fmt.Errorf("属性 %s 的值 %d 小于下限 %d", a.Key, n, min)
	}
	return n, nil
}

func bindColor(a *Assignment) (texspec.RGBA, error) {
	if a.Value == nil || a.Value.Color == nil {
		return texspec.RGBA{}, fmt.Errorf("属性 %s 需要颜色字面量（如 #RRGGBB），得到 %q", a.Key, a.Value.Text())
	}
	return texspec.ParseColor(*a.Value.Color)
}
