// Package fpdfrenderer 使用 PDF 基础字体（Helvetica 系列）排版与输出，
// 文本宽度来自核心字体的字宽表，不需要嵌入字体文件。
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/allisonrosefund/rosepdf/layout"
	"github.com/allisonrosefund/rosepdf/renderer"
)

// Helvetica AFM 中的 Ascender / Descender（千分之一字号）。
const (
	helveticaAscender  = 718
	helveticaDescender = 207
)

// Renderer 以 pt 为单位直接绘制，坐标系与布局一致（左上角为原点）。
type Renderer struct {
	baseDir string
	images  map[string][]byte

	mu      sync.Mutex
	measure *fpdf.Fpdf
	tr      func(string) string
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// NewRenderer 创建渲染器；images 提供 built-in:<name> 图片的 PNG 数据。
func NewRenderer(baseDir string, images map[string][]byte) *Renderer {
	m := fpdf.New("P", "pt", "A4", "")
	return &Renderer{
		baseDir: baseDir,
		images:  images,
		measure: m,
		tr:      m.UnicodeTranslatorFromDescriptor(""),
	}
}

// TextWidth 实现 layout.Measurer。
func (r *Renderer) TextWidth(content string, font layout.FontResource, size float64) (float64, error) {
	if content == "" {
		return 0, nil
	}
	family, style := coreFont(font)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.measure.SetFont(family, style, size)
	w := r.measure.GetStringWidth(r.tr(content))
	if err := r.measure.Error(); err != nil {
		return 0, fmt.Errorf("度量文本失败: %w", err)
	}
	return w, nil
}

// LineHeight 实现 layout.Measurer。
func (r *Renderer) LineHeight(font layout.FontResource, size float64) (float64, error) {
	if size <= 0 {
		return 0, fmt.Errorf("字号无效: %g", size)
	}
	return size * (helveticaAscender + helveticaDescender) / 1000, nil
}

// WrapText 实现 layout.Measurer。
func (r *Renderer) WrapText(content string, width float64, font layout.FontResource, size float64) ([]layout.TextLine, error) {
	var measureErr error
	lines := layout.GreedyWrap(content, width, func(s string) float64 {
		w, err := r.TextWidth(s, font, size)
		if err != nil && measureErr == nil {
			measureErr = err
		}
		return w
	})
	if measureErr != nil {
		return nil, measureErr
	}
	return lines, nil
}

// Render 输出单页 PDF。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	page := result.Page
	if page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %g x %g", page.Width, page.Height)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	applyMeta(pdf, result.Meta)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, ln := range page.Lines {
		setDrawColor(pdf, ln.Color)
		pdf.SetLineWidth(strokeWidth(ln.Width))
		pdf.Line(ln.X1, ln.Y1, ln.X2, ln.Y2)
	}
	for _, rc := range page.Rects {
		setDrawColor(pdf, rc.StrokeColor)
		pdf.SetLineWidth(strokeWidth(rc.StrokeWidth))
		style := "D"
		if rc.FillColor != nil {
			pdf.SetFillColor(rc.FillColor.R, rc.FillColor.G, rc.FillColor.B)
			style = "FD"
		}
		pdf.Rect(rc.X, rc.Y, rc.Width, rc.Height, style)
	}
	for _, w := range page.Widgets {
		if w.Border == nil {
			continue
		}
		setDrawColor(pdf, w.Border.Color)
		pdf.SetLineWidth(strokeWidth(w.Border.Width))
		pdf.Rect(w.X, w.Y, w.Width, w.Height, "D")
	}
	for _, tb := range page.Texts {
		if tb.Content == "" {
			continue
		}
		font, err := layout.LookupFont(tb.Font)
		if err != nil {
			return nil, err
		}
		family, style := coreFont(font)
		pdf.SetFont(family, style, tb.FontSize)
		pdf.SetTextColor(tb.Color.R, tb.Color.G, tb.Color.B)
		pdf.Text(tb.X, tb.Y, tr(tb.Content))
	}
	for _, img := range page.Images {
		if err := r.drawImage(pdf, img); err != nil {
			return nil, err
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("生成 PDF 失败: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawImage(pdf *fpdf.Fpdf, img layout.ImageBox) error {
	if img.Path == "" {
		return nil
	}
	opts := fpdf.ImageOptions{}
	name := img.Path
	if strings.HasPrefix(name, "built-in:") || strings.HasPrefix(name, "builtin:") {
		key := strings.TrimPrefix(strings.TrimPrefix(name, "built-in:"), "builtin:")
		blob, ok := r.images[key]
		if !ok {
			return fmt.Errorf("找不到内置图片资源 built-in:%s", key)
		}
		opts.ImageType = "PNG"
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(blob))
	} else {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.baseDir, path)
		}
		// fpdf 读取失败时只记录内部错误，这里提前给出带路径的错误
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("读取图片 %s 失败: %w", img.Path, err)
		}
		name = path
	}
	pdf.ImageOptions(name, img.X, img.Y, img.Width, img.Height, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("绘制图片 %s 失败: %w", img.Path, err)
	}
	return nil
}

func applyMeta(pdf *fpdf.Fpdf, meta layout.DocumentMeta) {
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator(meta.Creator, true)
	if len(meta.Keywords) > 0 {
		pdf.SetKeywords(strings.Join(meta.Keywords, ", "), true)
	}
}

// coreFont 把字体资源映射为 fpdf 的核心字体族与样式。
func coreFont(font layout.FontResource) (family, style string) {
	s := strings.ToLower(font.Style)
	if strings.Contains(s, "bold") {
		style += "B"
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		style += "I"
	}
	return "Helvetica", style
}

func setDrawColor(pdf *fpdf.Fpdf, c layout.Color) {
	pdf.SetDrawColor(c.R, c.G, c.B)
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}
