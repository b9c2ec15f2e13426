package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func capture(fn func()) string {
	var buf bytes.Buffer
	old := Output
	Output = &buf
	defer func() { Output = old }()
	fn()
	return buf.String()
}

func TestEmitFormat(t *testing.T) {
	out := capture(func() { Info("FONT", "已加载 %d 个字体", 12) })
	if !strings.Contains(out, "[FONT]") {
		t.Fatalf("缺少标签: %q", out)
	}
	if !strings.Contains(out, "已加载 12 个字体") {
		t.Fatalf("消息格式化错误: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("日志行应以换行结尾")
	}
}

func TestLevels(t *testing.T) {
	for name, fn := range map[string]func(string, string, ...any){
		"info":    Info,
		"success": Success,
		"warn":    Warn,
		"error":   Error,
	} {
		out := capture(func() { fn("SYS", "msg") })
		if !strings.Contains(out, "[SYS]") || !strings.Contains(out, "msg") {
			t.Fatalf("%s 输出异常: %q", name, out)
		}
	}
}

func TestElapsed(t *testing.T) {
	got := Elapsed(time.Now().Add(-1500 * time.Millisecond))
	if !strings.HasPrefix(got, "（耗时 ") || !strings.HasSuffix(got, "s）") {
		t.Fatalf("耗时格式异常: %q", got)
	}
	if !strings.Contains(got, "1.5") {
		t.Fatalf("耗时数值异常: %q", got)
	}
}

func TestSection(t *testing.T) {
	out := capture(func() { Section("BATCH EXPORT") })
	if !strings.Contains(out, "BATCH EXPORT") || !strings.Contains(out, "=") {
		t.Fatalf("分节横幅异常: %q", out)
	}
}
