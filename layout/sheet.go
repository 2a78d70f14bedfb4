package layout

import (
	"fmt"
	"strings"
)

// 标准字体名称到内建字体的映射，名称沿用 PDF 基础字体的叫法。
var standardFonts = map[string]FontResource{
	"Helvetica":             {Name: "Helvetica", Src: "builtin:regular"},
	"Helvetica-Bold":        {Name: "Helvetica-Bold", Src: "builtin:bold", Style: "bold"},
	"Helvetica-Oblique":     {Name: "Helvetica-Oblique", Src: "builtin:italic", Style: "italic"},
	"Helvetica-BoldOblique": {Name: "Helvetica-BoldOblique", Src: "builtin:bolditalic", Style: "bold italic"},
}

// DefaultFont 是未指定字体时使用的字体名称。
const DefaultFont = "Helvetica"

// LookupFont 返回标准字体名称对应的字体资源。
func LookupFont(name string) (FontResource, error) {
	if name == "" {
		name = DefaultFont
	}
	if f, ok := standardFonts[name]; ok {
		return f, nil
	}
	return FontResource{}, fmt.Errorf("未知字体 %q", name)
}

// Sheet 是单页绘制面，只追加元素，不保存纵向游标。
type Sheet struct {
	page     Page
	measurer Measurer
	fonts    map[string]FontResource
	images   map[string]ImageResource
}

// NewSheet 创建给定尺寸（pt）的页面。
func NewSheet(width, height float64, m Measurer) (*Sheet, error) {
	if m == nil {
		return nil, fmt.Errorf("layout: 缺少文本度量后端 Measurer")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %g x %g", width, height)
	}
	return &Sheet{
		page:     Page{Width: width, Height: height},
		measurer: m,
		fonts:    map[string]FontResource{},
		images:   map[string]ImageResource{},
	}, nil
}

// Width 返回页面宽度。
func (s *Sheet) Width() float64 { return s.page.Width }

// Height 返回页面高度。
func (s *Sheet) Height() float64 { return s.page.Height }

// Result 返回当前页面的布局结果。页面元素被复制，后续绘制不影响已返回的结果。
func (s *Sheet) Result(meta DocumentMeta) *Result {
	page := s.page
	page.Texts = append([]TextBox(nil), s.page.Texts...)
	page.Lines = append([]Line(nil), s.page.Lines...)
	page.Rects = append([]Rect(nil), s.page.Rects...)
	page.Images = append([]ImageBox(nil), s.page.Images...)
	page.Widgets = append([]Widget(nil), s.page.Widgets...)

	res := ResourceSet{
		Fonts:  make(map[string]FontResource, len(s.fonts)),
		Images: make(map[string]ImageResource, len(s.images)),
	}
	for k, v := range s.fonts {
		res.Fonts[k] = v
	}
	for k, v := range s.images {
		res.Images[k] = v
	}
	return &Result{Page: page, Resources: res, Meta: meta}
}

func (s *Sheet) font(name string) (FontResource, error) {
	f, err := LookupFont(name)
	if err != nil {
		return FontResource{}, err
	}
	s.fonts[f.Name] = f
	return f, nil
}

// Measure 返回文本在给定字体字号下的宽度。
func (s *Sheet) Measure(content, font string, size float64) (float64, error) {
	f, err := s.font(font)
	if err != nil {
		return 0, err
	}
	w, err := s.measurer.TextWidth(content, f, size)
	if err != nil {
		return 0, fmt.Errorf("测量文本 %q 失败: %w", content, err)
	}
	return w, nil
}

// LineHeight 返回字体在给定字号下的行高（上升部 + 下降部）。
func (s *Sheet) LineHeight(font string, size float64) (float64, error) {
	f, err := s.font(font)
	if err != nil {
		return 0, err
	}
	h, err := s.measurer.LineHeight(f, size)
	if err != nil {
		return 0, fmt.Errorf("计算字体 %s 行高失败: %w", f.Name, err)
	}
	return h, nil
}

// Text 以 (x, y) 为基线起点绘制单行文本。
func (s *Sheet) Text(x, y float64, content string, st Style) error {
	st = st.withDefaults()
	w, err := s.Measure(content, st.Font, st.Size)
	if err != nil {
		return err
	}
	s.page.Texts = append(s.page.Texts, TextBox{
		Content:  content,
		X:        x,
		Y:        y,
		Width:    w,
		Font:     st.Font,
		FontSize: st.Size,
		Color:    st.Color,
	})
	return nil
}

// RightAligned 绘制右边缘对齐到 xmax 的文本。
func (s *Sheet) RightAligned(xmax, y float64, content string, st Style) error {
	st = st.withDefaults()
	w, err := s.Measure(content, st.Font, st.Size)
	if err != nil {
		return err
	}
	return s.Text(xmax-w, y, content, st)
}

// Centered 在 [0, xmax] 内居中绘制文本，基线位于 y + 行高。
// 带下划线时下划线位于基线下方 8pt，返回 y + 行高 + 1；否则返回 y + 行高。
func (s *Sheet) Centered(y, xmax float64, content string, st Style, underline bool) (float64, error) {
	st = st.withDefaults()
	w, err := s.Measure(content, st.Font, st.Size)
	if err != nil {
		return 0, err
	}
	h, err := s.LineHeight(st.Font, st.Size)
	if err != nil {
		return 0, err
	}
	x := (xmax - w) / 2
	if err := s.Text(x, y+h, content, st); err != nil {
		return 0, err
	}
	if underline {
		s.Rule(x, y+h+8, x+w, y+h+8, st.Color, 1)
		return y + h + 1, nil
	}
	return y + h, nil
}

// Rule 绘制一条直线。
func (s *Sheet) Rule(x1, y1, x2, y2 float64, col Color, width float64) {
	s.page.Lines = append(s.page.Lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: col, Width: width})
}

// Frame 绘制一个不填充的矩形边框。
func (s *Sheet) Frame(x, y, w, h float64, col Color, width float64) {
	s.page.Rects = append(s.page.Rects, Rect{X: x, Y: y, Width: w, Height: h, StrokeColor: col, StrokeWidth: width})
}

// Image 在矩形 (x, y, w, h) 内放置图片；图片是否存在由渲染器检查。
func (s *Sheet) Image(path string, x, y, w, h float64) {
	s.page.Images = append(s.page.Images, ImageBox{Path: path, X: x, Y: y, Width: w, Height: h})
	s.images[path] = ImageResource{Name: imageName(path), Src: path}
}

// AddWidget 追加一个交互控件。
func (s *Sheet) AddWidget(w Widget) {
	s.page.Widgets = append(s.page.Widgets, w)
}

// Paragraph 在给定宽度内折行绘制文本，首行基线位于 y + 字号，返回最后一行之后的位置。
func (s *Sheet) Paragraph(x, y, width float64, content string, st Style) (float64, error) {
	st = st.withDefaults()
	f, err := s.font(st.Font)
	if err != nil {
		return 0, err
	}
	lines, err := s.measurer.WrapText(content, width, f, st.Size)
	if err != nil {
		return 0, fmt.Errorf("折行失败: %w", err)
	}
	h, err := s.LineHeight(st.Font, st.Size)
	if err != nil {
		return 0, err
	}
	baseline := y + st.Size
	for _, ln := range lines {
		s.page.Texts = append(s.page.Texts, TextBox{
			Content:  ln.Content,
			X:        x,
			Y:        baseline,
			Width:    ln.Width,
			Font:     st.Font,
			FontSize: st.Size,
			Color:    st.Color,
		})
		baseline += h
	}
	return y + float64(len(lines))*h, nil
}

func (st Style) withDefaults() Style {
	if st.Font == "" {
		st.Font = DefaultFont
	}
	if st.Size <= 0 {
		st.Size = 10
	}
	return st
}

func imageName(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\:`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".png")
}
