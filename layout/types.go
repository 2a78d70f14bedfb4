package layout

// 该文件定义布局结果与资源描述，供布局计算、渲染、表单字段与调试 JSON 共用。
// 所有坐标单位为 pt，原点位于页面左上角，y 轴向下。

// Result 保存单页布局结果与资源信息。
type Result struct {
	Page      Page         `json:"page"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录页面用到的字体与图片。
type ResourceSet struct {
	Fonts  map[string]FontResource  `json:"fonts"`
	Images map[string]ImageResource `json:"images"`
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:* 形式。
type FontResource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Style string `json:"style"`
}

// ImageResource 记录页面引用过的图片资源。
type ImageResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Gray 根据 0-1 的灰度生成颜色，0 为黑色。
func Gray(level float64) Color {
	v := int(level*255 + 0.5)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return Color{R: v, G: v, B: v}
}

var Black = Color{}

// Page 记录页面尺寸与最终可以直接渲染的元素。
type Page struct {
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
	Texts   []TextBox  `json:"texts"`
	Lines   []Line     `json:"lines,omitempty"`
	Rects   []Rect     `json:"rects,omitempty"`
	Images  []ImageBox `json:"images,omitempty"`
	Widgets []Widget   `json:"widgets,omitempty"`
}

// TextBox 表示一段已定位的单行文本，Y 为基线位置。
type TextBox struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Font     string  `json:"font"`
	FontSize float64 `json:"fontSize"`
	Color    Color   `json:"color"`
}

// TextLine 表示折行后的一行文本内容及其宽度。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// ImageBox 用于描述图片位置与尺寸。
type ImageBox struct {
	Path   string  `json:"path"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽，<=0 时由渲染器给默认值
}

// Rect 表示一个矩形（不包含圆角）。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// WidgetType 区分交互控件的种类。
type WidgetType int

const (
	WidgetText WidgetType = iota
	WidgetCheckbox
)

func (t WidgetType) String() string {
	switch t {
	case WidgetCheckbox:
		return "checkbox"
	default:
		return "text"
	}
}

// MarshalText 让调试 JSON 输出可读的控件类型。
func (t WidgetType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Border 描述控件边框。
type Border struct {
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Widget 是一个可填写的表单控件，X/Y 为外接矩形左上角。
type Widget struct {
	Name     string     `json:"name"`
	Type     WidgetType `json:"type"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Font     string     `json:"font,omitempty"`
	FontSize float64    `json:"fontSize,omitempty"`
	Border   *Border    `json:"border,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
