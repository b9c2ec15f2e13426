// Package fontcat 负责枚举系统字体、缓存扫描结果并按 (字体名, 字号)
// 解析出可用于渲染的字体面。目录扫描结果会持久化为 JSON，避免每次启动
// 重新遍历字体目录。
package fontcat

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// ErrFontNotFound 表示请求的字体名不在系统字体索引中。调用方应回退到
// Fallback 并给出警告，而不是中断。
var ErrFontNotFound = errors.New("fontcat: 字体未找到")

// FallbackName 是内置回退字体的名字。
const FallbackName = "Go Regular"

// 画布单位与 pt 的换算。渲染管线把画布单位当作像素使用，创建字体面
// 时需要按 pt 传入字号，换算只发生在这一处边界上。
const (
	PtPerUnit = 0.352777
	UnitToPt  = 1.0 / PtPerUnit
)

// Options 配置字体目录与缓存文件位置，两者为空时使用平台默认值。
type Options struct {
	Dirs      []string
	CachePath string
}

// Catalog 拥有字体索引与字体面缓存，生命周期与应用上下文一致。
type Catalog struct {
	dirs      []string
	cachePath string

	mu       sync.Mutex
	index    map[string]string // 字体名 → 文件路径
	names    []string
	families map[string]*familyEntry
	faces    map[string]*Face
	fallback *familyEntry
}

type familyEntry struct {
	family *canvas.FontFamily
	sfnt   *sfnt.Font
}

// indexFile 是缓存文件的 JSON 结构，与原始扫描结果一一对应。
type indexFile struct {
	Names []string          `json:"names"`
	Paths map[string]string `json:"paths"`
}

// New 创建字体目录。不做任何 IO；索引在 Scan 时建立。
func New(opts Options) *Catalog {
	return &Catalog{
		dirs:      opts.Dirs,
		cachePath: opts.CachePath,
		index:     map[string]string{},
		families:  map[string]*familyEntry{},
		faces:     map[string]*Face{},
	}
}

// Scan 建立字体索引：优先读取缓存文件，缓存缺失或损坏时遍历字体目录并
// 重新写入缓存。返回索引到的字体数量。
func (c *Catalog) Scan() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cachePath, err := c.resolveCachePath()
	if err == nil {
		if loaded, ok := readIndexFile(cachePath); ok {
			c.names = loaded.Names
			c.index = loaded.Paths
			return len(c.names), nil
		}
	}

	if err := c.scanDirsLocked(); err != nil {
		return 0, err
	}
	if cachePath != "" {
		// 缓存写入失败不致命，下次启动会重新扫描
		writeIndexFile(cachePath, indexFile{Names: c.names, Paths: c.index})
	}
	return len(c.names), nil
}

// Rescan 丢弃缓存文件与内存索引后重新扫描。
func (c *Catalog) Rescan() (int, error) {
	c.mu.Lock()
	if cachePath, err := c.resolveCachePath(); err == nil {
		os.Remove(cachePath)
	}
	c.index = map[string]string{}
	c.names = nil
	c.mu.Unlock()
	return c.Scan()
}

// Names 返回排序后的字体名列表。
func (c *Catalog) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Has 判断字体名是否在索引中。
func (c *Catalog) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.index[name]
	return ok
}

// Resolve 按 (字体名, 像素字号) 返回字体面，结果在进程内缓存。
// 字体名不在索引中时返回 ErrFontNotFound。
func (c *Catalog) Resolve(name string, sizePx int) (*Face, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("fontcat: 字号必须为正数，当前为 %d", sizePx)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := faceCacheKey(name, sizePx)
	if face, ok := c.faces[key]; ok {
		return face, nil
	}

	entry, err := c.ensureFamilyLocked(name)
	if err != nil {
		return nil, err
	}
	face := newFace(name, sizePx, entry)
	c.faces[key] = face
	return face, nil
}

// Fallback 返回内置回退字体（Go Regular）的字体面。
func (c *Catalog) Fallback(sizePx int) (*Face, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("fontcat: 字号必须为正数，当前为 %d", sizePx)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := faceCacheKey(FallbackName, sizePx)
	if face, ok := c.faces[key]; ok {
		return face, nil
	}
	if c.fallback == nil {
		entry, err := loadFamily(FallbackName, goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("加载内置回退字体失败: %w", err)
		}
		c.fallback = entry
	}
	face := newFace(FallbackName, sizePx, c.fallback)
	c.faces[key] = face
	return face, nil
}

// ResolveWithFallback 解析字体，失败时回退到内置字体。第二个返回值为
// 警告（例如 ErrFontNotFound），回退本身不算失败。
func (c *Catalog) ResolveWithFallback(name string, sizePx int) (*Face, error, error) {
	if name == "" || name == FallbackName {
		face, err := c.Fallback(sizePx)
		return face, nil, err
	}
	face, err := c.Resolve(name, sizePx)
	if err == nil {
		return face, nil, nil
	}
	fallback, fbErr := c.Fallback(sizePx)
	if fbErr != nil {
		return nil, nil, fbErr
	}
	return fallback, fmt.Errorf("字体 %s 不可用，已回退到 %s: %w", name, FallbackName, err), nil
}

func (c *Catalog) ensureFamilyLocked(name string) (*familyEntry, error) {
	if entry, ok := c.families[name]; ok {
		return entry, nil
	}
	path, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFontNotFound, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件 %s 失败: %w", path, err)
	}
	entry, err := loadFamily(name, data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", name, err)
	}
	c.families[name] = entry
	return entry, nil
}

func loadFamily(name string, data []byte) (*familyEntry, error) {
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	return &familyEntry{family: family, sfnt: sf}, nil
}

func (c *Catalog) resolveCachePath() (string, error) {
	if c.cachePath != "" {
		return c.cachePath, nil
	}
	return xdg.DataFile("textex/font_index.json")
}

func (c *Catalog) scanDirsLocked() error {
	dirs := c.dirs
	if len(dirs) == 0 {
		dirs = platformFontDirs()
	}

	index := map[string]string{}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil // 跳过无法访问的子目录
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}
			name := cleanFontName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			if name == "" {
				return nil
			}
			if _, exists := index[name]; !exists {
				index[name] = path
			}
			return nil
		})
	}

	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)

	c.index = index
	c.names = names
	return nil
}

// cleanFontName 去掉常见的字重后缀，使下拉列表更干净。
func cleanFontName(name string) string {
	for _, suffix := range []string{"-Regular", "-Bold", "-Italic", "Regular", "Bold", "Italic"} {
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

func platformFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		if local == "" {
			local = filepath.Join(home, "AppData", "Local")
		}
		return []string{
			`C:\Windows\Fonts`,
			filepath.Join(local, "Microsoft", "Windows", "Fonts"),
		}
	case "darwin":
		return []string{
			"/Library/Fonts",
			"/System/Library/Fonts",
			filepath.Join(home, "Library", "Fonts"),
		}
	default:
		return []string{
			"/usr/share/fonts",
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
		}
	}
}

func readIndexFile(path string) (indexFile, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return indexFile{}, false
	}
	var idx indexFile
	if err := json.Unmarshal(data, &idx); err != nil || idx.Paths == nil {
		return indexFile{}, false
	}
	return idx, true
}

func writeIndexFile(path string, idx indexFile) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func faceCacheKey(name string, sizePx int) string {
	return fmt.Sprintf("%s|%d", name, sizePx)
}
