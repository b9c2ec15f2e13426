// Package vmat 按选定的着色器模板生成 Source 2 风格的材质文件文本。
// 只做模板替换，不校验材质在引擎内是否可用。
package vmat

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

// ErrUnsupportedShader 表示着色器名不在两个受支持的取值范围内。
var ErrUnsupportedShader = errors.New("vmat: 不支持的着色器")

// Shader 枚举受支持的着色器。
type Shader string

const (
	ShaderStaticOverlay Shader = "csgo_static_overlay"
	ShaderComplex       Shader = "csgo_complex"
)

// VFX 返回材质文件内引用的着色器文件名。
func (s Shader) VFX() string { return string(s) + ".vfx" }

// ParseShader 解析着色器名，接受带或不带 .vfx 后缀的写法。
func ParseShader(name string) (Shader, error) {
	trimmed := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".vfx")
	switch Shader(trimmed) {
	case ShaderStaticOverlay:
		return ShaderStaticOverlay, nil
	case ShaderComplex:
		return ShaderComplex, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedShader, name)
	}
}

// Params 描述一次材质生成所需的全部输入，写出文件后即可丢弃。
type Params struct {
	Shader   Shader
	ColorMap string // 颜色贴图的引擎相对路径
	TransMap string // 透明贴图的引擎相对路径
}

// 两个模板共享同一骨架：混合模式、颜色贴图、雾效与透明贴图。
// csgo_complex 额外声明半透明标志。
var materialTemplates = map[Shader]*template.Template{
	ShaderStaticOverlay: template.Must(template.New("static_overlay").Parse(overlayTemplate)),
	ShaderComplex:       template.Must(template.New("complex").Parse(complexTemplate)),
}

const overlayTemplate = `// THIS FILE IS AUTO-GENERATED

Layer0
{
	shader "{{.Shader.VFX}}"

	//---- Blend Mode ----
	F_BLEND_MODE 1 // Translucent

	//---- Color ----
	g_flModelTintAmount "1.000"
	g_vColorTint "[1.000000 1.000000 1.000000 0.000000]"
	TextureColor "{{.ColorMap}}"

	//---- Fog ----
	g_bFogEnabled "1"

	//---- Translucent ----
	g_flOpacityScale "1.000"
	TextureTranslucency "{{.TransMap}}"
}
`

const complexTemplate = `// THIS FILE IS AUTO-GENERATED

Layer0
{
	shader "{{.Shader.VFX}}"

	//---- Translucent ----
	F_TRANSLUCENT 1

	//---- Color ----
	g_flModelTintAmount "1.000"
	g_vColorTint "[1.000000 1.000000 1.000000 0.000000]"
	TextureColor "{{.ColorMap}}"

	//---- Fog ----
	g_bFogEnabled "1"

	//---- Translucent ----
	g_flOpacityScale "1.000"
	TextureTranslucency "{{.TransMap}}"
}
`

// Emit 把参数代入模板并返回材质文本。着色器不受支持时返回
// ErrUnsupportedShader，调用方不应写出任何文件。
func Emit(params Params) (string, error) {
	tmpl, ok := materialTemplates[params.Shader]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedShader, params.Shader)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, params); err != nil {
		return "", fmt.Errorf("填充材质模板失败: %w", err)
	}
	return sb.String(), nil
}

// TexturePath 把绝对路径换算成引擎相对的 materials/... 路径。路径中
// 含有 materials 目录时从该处截断；否则取父目录名与文件名拼接。
func TexturePath(absPath string) string {
	normalized := filepath.ToSlash(absPath)
	if i := strings.Index(normalized, "/materials/"); i != -1 {
		return "materials/" + normalized[i+len("/materials/"):]
	}
	parent := filepath.Base(filepath.Dir(normalized))
	return "materials/" + parent + "/" + filepath.Base(normalized)
}
