package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen = lipgloss.Color("35")
	colorCyan  = lipgloss.Color("36")
	colorDim   = lipgloss.Color("240")
	colorWhite = lipgloss.Color("255")

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleName        = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim         = lipgloss.NewStyle().Foreground(colorDim)
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
)

const (
	iconSuccess = "✓"
	iconArrow   = "→"
)

// printSuccess 输出一行成功信息。
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printFile 输出一个生成的文件路径。
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printItem 输出列表中的一项及其说明。
func printItem(w io.Writer, name, detail string) {
	fmt.Fprintln(w, styleName.Render(name)+"  "+styleDim.Render(detail))
}
