// Package export 负责把渲染结果落盘：命名贴图文件、编码 PNG、生成并
// 写出材质文件。导出是同步操作，没有事务回滚——失败时已写出的文件
// 原样保留，错误中会指明是哪个文件出了问题。
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/textex/render"
	"github.com/ByLCY/textex/vmat"
)

// MaterialOptions 控制是否随贴图生成材质文件。
type MaterialOptions struct {
	Enabled bool
	Shader  vmat.Shader
	// Shared 为真时批量导出只生成一份材质（引用首帧贴图）；
	// 默认每个符号一份。
	Shared bool
}

// Single 导出单个贴图对：<base>_color.png 与 <base>_trans.png，按需附带
// <base>.vmat。返回写出的文件路径列表。
func Single(dir, base string, pair render.Pair, mat MaterialOptions) ([]string, error) {
	if base == "" {
		base = "text_layer"
	}
	if mat.Enabled {
		// 在写任何文件之前拒绝非法着色器
		if _, err := vmat.ParseShader(string(mat.Shader)); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录 %s 失败: %w", dir, err)
	}

	written, err := writePair(dir, base, pair)
	if err != nil {
		return written, err
	}
	if mat.Enabled {
		matPath, err := writeMaterial(dir, base, base, mat.Shader)
		if err != nil {
			return written, err
		}
		written = append(written, matPath)
	}
	return written, nil
}

// Batch 逐符号导出贴图对：<base>_<symbol>_color.png 等。单个符号写盘
// 失败不会中断批量，错误汇总后一并返回。
func Batch(dir, base string, items []render.BatchItem, mat MaterialOptions) ([]string, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("批量导出缺少渲染结果")
	}
	if mat.Enabled {
		if _, err := vmat.ParseShader(string(mat.Shader)); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录 %s 失败: %w", dir, err)
	}

	var written []string
	var errs []error
	for _, item := range items {
		itemBase := itemBaseName(base, item.Symbol)
		files, err := writePair(dir, itemBase, item.Pair)
		written = append(written, files...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if mat.Enabled && !mat.Shared {
			matPath, err := writeMaterial(dir, itemBase, itemBase, mat.Shader)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			written = append(written, matPath)
		}
	}

	if mat.Enabled && mat.Shared {
		// 共享材质引用首帧贴图
		firstBase := itemBaseName(base, items[0].Symbol)
		matPath, err := writeMaterial(dir, sharedBaseName(base), firstBase, mat.Shader)
		if err != nil {
			errs = append(errs, err)
		} else {
			written = append(written, matPath)
		}
	}
	return written, errors.Join(errs...)
}

// symbolToken 是文件名中的符号占位符，批量导出时逐帧替换。
const symbolToken = "${n}"

func itemBaseName(base string, symbol rune) string {
	if base == "" {
		return string(symbol)
	}
	if strings.Contains(base, symbolToken) {
		return strings.ReplaceAll(base, symbolToken, string(symbol))
	}
	return fmt.Sprintf("%s_%c", base, symbol)
}

// sharedBaseName 去掉符号占位符，得到共享材质的文件名。
func sharedBaseName(base string) string {
	if base == "" {
		return "batch"
	}
	return strings.ReplaceAll(base, symbolToken, "all")
}

// writePair 写出颜色与透明贴图。返回已成功写出的文件。
func writePair(dir, base string, pair render.Pair) ([]string, error) {
	colorPath := filepath.Join(dir, base+"_color.png")
	transPath := filepath.Join(dir, base+"_trans.png")

	var written []string
	if err := writePNG(colorPath, pair.Color); err != nil {
		return written, err
	}
	written = append(written, colorPath)
	if err := writePNG(transPath, pair.Alpha); err != nil {
		return written, err
	}
	return append(written, transPath), nil
}

// writeMaterial 生成 <matBase>.vmat，贴图路径取 <texBase> 对应的文件。
func writeMaterial(dir, matBase, texBase string, shader vmat.Shader) (string, error) {
	colorAbs, err := filepath.Abs(filepath.Join(dir, texBase+"_color.png"))
	if err != nil {
		return "", fmt.Errorf("解析贴图路径失败: %w", err)
	}
	transAbs, err := filepath.Abs(filepath.Join(dir, texBase+"_trans.png"))
	if err != nil {
		return "", fmt.Errorf("解析贴图路径失败: %w", err)
	}

	content, err := vmat.Emit(vmat.Params{
		Shader:   shader,
		ColorMap: vmat.TexturePath(colorAbs),
		TransMap: vmat.TexturePath(transAbs),
	})
	if err != nil {
		return "", err
	}

	matPath := filepath.Join(dir, matBase+".vmat")
	if err := os.WriteFile(matPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("写入材质文件 %s 失败: %w", matPath, err)
	}
	return matPath, nil
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("编码 PNG %s 失败: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入贴图文件 %s 失败: %w", path, err)
	}
	return nil
}
