// Package logging 提供带时间戳与标签的彩色终端日志。
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	// Output 是日志写入目标，测试可替换。
	Output io.Writer = os.Stderr

	stamp   = color.New(color.FgHiBlack)
	infoTag = color.New(color.FgBlue)
	okTag   = color.New(color.FgGreen)
	warnTag = color.New(color.FgYellow)
	errTag  = color.New(color.FgRed)
)

func emit(tagColor *color.Color, tag, format string, args ...any) {
	ts := stamp.Sprintf("[%s]", time.Now().Format("15:04:05"))
	label := tagColor.Sprintf("[%s]", tag)
	fmt.Fprintf(Output, "%s %s %s\n", ts, label, fmt.Sprintf(format, args...))
}

// Info 输出普通进度信息。
func Info(tag, format string, args ...any) { emit(infoTag, tag, format, args...) }

// Success 输出成功信息。
func Success(tag, format string, args ...any) { emit(okTag, tag, format, args...) }

// Warn 输出警告。
func Warn(tag, format string, args ...any) { emit(warnTag, tag, format, args...) }

// Error 输出错误。
func Error(tag, format string, args ...any) { emit(errTag, tag, format, args...) }

// Section 输出分节横幅，便于在批量任务的日志中定位阶段。
func Section(title string) {
	line := strings.Repeat("=", 50)
	fmt.Fprintf(Output, "\n%s\n %s\n%s\n", stamp.Sprint(line), title, stamp.Sprint(line))
}

// Elapsed 格式化耗时后缀，供 Success 使用。
func Elapsed(start time.Time) string {
	return fmt.Sprintf("（耗时 %.2fs）", time.Since(start).Seconds())
}
