package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/allisonrosefund/rosepdf/fonts"
	"github.com/allisonrosefund/rosepdf/layout"
	"github.com/allisonrosefund/rosepdf/renderer"
)

const defaultStrokeWidth = 1.0 // pt

// Renderer draws layout results via github.com/tdewolff/canvas.
// All layout coordinates are points; canvas works in millimeters.
type Renderer struct {
	baseDir string
	format  renderer.Format
	dpmm    float64

	imageBlobs map[string][]byte // by unique name
	imageErrs  map[string]error  // 构造时读取失败的内置图片

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Format  renderer.Format     // pdf (default) or png
	DPMM    float64             // raster resolution for png, dots per millimeter
	Images  map[string]Resource // built-in images accessible via built-in:<name>
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a PDF renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		format:       opts.Format,
		dpmm:         opts.DPMM,
		imageBlobs:   map[string][]byte{},
		imageErrs:    map[string]error{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if r.format == "" {
		r.format = renderer.FormatPDF
	}
	if r.dpmm <= 0 {
		r.dpmm = 4
	}
	for name, res := range opts.Images {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.imageBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				r.imageErrs[name] = fmt.Errorf("读取内置图片 built-in:%s（%s）失败: %w", name, res.Path, err)
				continue
			}
			r.imageBlobs[name] = data
		}
	}
	return r
}

// Render renders the result into PDF or PNG bytes depending on the configured format.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	page := result.Page
	if page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %g x %g", page.Width, page.Height)
	}

	wmm, hmm := toMm(page.Width), toMm(page.Height)
	c := canvas.New(wmm, hmm)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	if err := r.drawPage(ctx, page); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch r.format {
	case renderer.FormatPDF:
		writer := pdf.New(&buf, wmm, hmm, nil)
		r.applyMeta(writer, result.Meta)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case renderer.FormatPNG:
		img := rasterizer.Draw(c, canvas.DPMM(r.dpmm), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", r.format)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// TextWidth 实现 layout.Measurer：返回文本宽度（pt）。
func (r *Renderer) TextWidth(content string, font layout.FontResource, size float64) (float64, error) {
	if content == "" {
		return 0, nil
	}
	face, err := r.fontFace(font, size, layout.Black)
	if err != nil {
		return 0, err
	}
	return toPt(face.TextWidth(content)), nil
}

// LineHeight 实现 layout.Measurer：上升部与下降部之和（pt）。
func (r *Renderer) LineHeight(font layout.FontResource, size float64) (float64, error) {
	face, err := r.fontFace(font, size, layout.Black)
	if err != nil {
		return 0, err
	}
	m := face.Metrics()
	return toPt(m.Ascent + m.Descent), nil
}

// WrapText 实现 layout.Measurer。
func (r *Renderer) WrapText(content string, width float64, font layout.FontResource, size float64) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, size, layout.Black)
	if err != nil {
		return nil, err
	}
	return layout.GreedyWrap(content, width, func(s string) float64 {
		return toPt(face.TextWidth(s))
	}), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	// 线与矩形作为背景先绘制
	r.drawLines(ctx, page.Lines)
	r.drawRects(ctx, page.Rects)
	r.drawWidgets(ctx, page.Widgets)

	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	return r.drawImages(ctx, page.Images)
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	if tb.Content == "" {
		return nil
	}
	font, err := layout.LookupFont(tb.Font)
	if err != nil {
		return err
	}
	face, err := r.fontFace(font, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}
	// TextBox.Y 即基线
	ctx.DrawText(toMm(tb.X), toMm(tb.Y), canvas.NewTextLine(face, tb.Content, canvas.Left))
	return nil
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) error {
	for _, img := range images {
		if img.Path == "" {
			continue
		}
		imgData, err := r.loadImage(img.Path)
		if err != nil {
			return err
		}
		width := toMm(img.Width)
		if width <= 0 {
			width = float64(imgData.Bounds().Dx()) / 4.0
		}
		dpmm := float64(imgData.Bounds().Dx()) / width
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(toMm(img.X), toMm(img.Y), imgData, canvas.DPMM(dpmm))
	}
	return nil
}

func (r *Renderer) loadImage(orig string) (image.Image, error) {
	if strings.HasPrefix(orig, "built-in:") || strings.HasPrefix(orig, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(orig, "built-in:"), "builtin:")
		if err := r.imageErrs[name]; err != nil {
			return nil, err
		}
		blob, ok := r.imageBlobs[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		img, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", name, err)
		}
		return img, nil
	}

	path := orig
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", orig, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", orig, err)
	}
	return img, nil
}

// drawLines 绘制直线列表
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(toMm(w))
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(toMm(ln.X2-ln.X1), toMm(ln.Y2-ln.Y1))
		ctx.DrawPath(toMm(ln.X1), toMm(ln.Y1), p)
	}
}

// drawRects 绘制矩形
func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		r.strokeRect(ctx, rc.X, rc.Y, rc.Width, rc.Height, rc.StrokeColor, rc.StrokeWidth, rc.FillColor)
	}
}

// drawWidgets 绘制控件外观：带边框的控件画出边框，其余交给表单层。
func (r *Renderer) drawWidgets(ctx *canvas.Context, widgets []layout.Widget) {
	for _, w := range widgets {
		if w.Border == nil {
			continue
		}
		r.strokeRect(ctx, w.X, w.Y, w.Width, w.Height, w.Border.Color, w.Border.Width, nil)
	}
}

func (r *Renderer) strokeRect(ctx *canvas.Context, x, y, w, h float64, stroke layout.Color, width float64, fill *layout.Color) {
	if width <= 0 {
		width = defaultStrokeWidth
	}
	if fill != nil {
		ctx.SetFillColor(colorFromLayout(*fill))
	} else {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	}
	ctx.SetStrokeColor(colorFromLayout(stroke))
	ctx.SetStrokeWidth(toMm(width))
	ctx.DrawPath(toMm(x), toMm(y), canvas.Rectangle(toMm(w), toMm(h)))
}

// fontFace 创建字号为 size（pt）的字体面。
func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	name := font.Name
	if name == "" {
		name = layout.DefaultFont
	}
	family := canvas.NewFontFamily(name)
	data, err := r.loadFontBytes(font)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	src := font.Src
	if src == "" {
		src = "builtin:regular"
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		return fonts.Load(src)
	}
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	if strings.Contains(s, "bold") {
		result = canvas.FontBold
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
