package renderer

import "github.com/allisonrosefund/rosepdf/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF 或 PNG 预览图。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Format 是渲染输出格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// Extension 返回格式对应的文件扩展名。
func (f Format) Extension() string { return "." + string(f) }
