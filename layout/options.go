package layout

// Measurer 负责文本度量与折行，由渲染后端实现。
// 约定：size 与返回的宽高均为 pt。
type Measurer interface {
	TextWidth(content string, font FontResource, size float64) (float64, error)
	// LineHeight 返回字体在给定字号下上升部与下降部之和。
	LineHeight(font FontResource, size float64) (float64, error)
	WrapText(content string, width float64, font FontResource, size float64) ([]TextLine, error)
}

// Style 描述一次文本绘制使用的字体、字号与颜色。
type Style struct {
	Font  string
	Size  float64
	Color Color
}
