package layout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNegativeFill 表示填充宽度的控件在到达时已经越过右边距。
	ErrNegativeFill = errors.New("fill field starts beyond the right margin")
	// ErrNoColumn 表示对齐模式下没有任何非空行可用于计算首列宽度。
	ErrNoColumn = errors.New("column alignment needs at least one non-empty row")
)

// Size 是控件宽度（pt）。零值 Fill 表示一直延伸到右边距。
type Size float64

// Fill 让控件占满当前位置到右边距的剩余宽度。
const Fill Size = 0

// Field 是一行中的一个条目。Name 为空时只是静态标签。
type Field struct {
	Name    string
	Label   string
	Size    Size
	Type    WidgetType
	Reverse bool // 标签画在控件之后
}

// Row 是同一水平线上从左到右排列的条目；空行只占用一个行高。
type Row []Field

// FieldConfig 汇总字段排版用到的常量，按值传递。
type FieldConfig struct {
	LeftMargin   float64
	RightMargin  float64 // 右边距所在的 x 坐标
	Font         string
	FontSize     float64
	RowHeight    float64
	LabelGap     float64 // 标签与其后内容的间距
	WidgetGap    float64 // 控件与其后内容的间距
	FieldPadding float64 // 相邻条目之间的额外间距
	WidgetAbove  float64 // 控件上沿距基线的距离
	WidgetBelow  float64 // 控件下沿距基线的距离
	RuleOffset   float64 // 文本控件下划线距基线的距离
	RuleColor    Color
	RuleWidth    float64

	CheckboxBorder   bool
	AlignFirstColumn bool
}

// DefaultFieldConfig 返回给定页宽下的默认配置：左右各留 20pt 边距。
func DefaultFieldConfig(pageWidth float64) FieldConfig {
	return FieldConfig{
		LeftMargin:     20,
		RightMargin:    pageWidth - 20,
		Font:           DefaultFont,
		FontSize:       10,
		RowHeight:      20,
		LabelGap:       6,
		WidgetGap:      4,
		FieldPadding:   20,
		WidgetAbove:    12,
		WidgetBelow:    5,
		RuleOffset:     4,
		RuleColor:      Gray(0.75),
		RuleWidth:      1,
		CheckboxBorder: true,
	}
}

// terminalPunct 结尾为这些字符的标签不再自动补冒号。
const terminalPunct = ",:;?!."

// Fields 从 startY 开始逐行排版 rows，返回下一块内容的纵向位置。
// 填充宽度在到达该条目时按当前横向位置计算，因此依赖同一行中前面已放置的内容。
func (s *Sheet) Fields(cfg FieldConfig, rows []Row, startY float64) (float64, error) {
	st := Style{Font: cfg.Font, Size: cfg.FontSize}.withDefaults()

	col1 := 0.0
	if cfg.AlignFirstColumn {
		seen := false
		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			w, err := s.Measure(row[0].Label, st.Font, st.Size)
			if err != nil {
				return 0, err
			}
			if !seen || w > col1 {
				col1 = w
			}
			seen = true
		}
		if !seen {
			return 0, ErrNoColumn
		}
	}

	y := startY
	for r, row := range rows {
		x := cfg.LeftMargin
		for i, field := range row {
			label := field.Label
			labelW, err := s.Measure(label, st.Font, st.Size)
			if err != nil {
				return 0, err
			}
			if i == 0 && cfg.AlignFirstColumn && labelW < col1 {
				labelW = col1
			}
			if label != "" && field.Name != "" && !field.Reverse && !strings.ContainsAny(label[len(label)-1:], terminalPunct) {
				label += ":"
				labelW++
			}
			if label != "" && !field.Reverse {
				if err := s.Text(x, y, label, st); err != nil {
					return 0, err
				}
				x += labelW + cfg.LabelGap
			}
			if field.Name != "" {
				size, err := resolveSize(field.Size, x, cfg.RightMargin)
				if err != nil {
					return 0, fmt.Errorf("第 %d 行字段 %s: %w", r+1, field.Name, err)
				}
				s.placeWidget(cfg, st, field, x, y, size)
				x += size + cfg.WidgetGap
			}
			if label != "" && field.Reverse {
				if err := s.Text(x, y, label, st); err != nil {
					return 0, err
				}
				x += labelW + cfg.LabelGap
			}
			x += cfg.FieldPadding
		}
		y += cfg.RowHeight
	}
	return y, nil
}

func resolveSize(size Size, x, rightMargin float64) (float64, error) {
	if size < 0 {
		return 0, fmt.Errorf("控件宽度不能为负数: %g", float64(size))
	}
	if size != Fill {
		return float64(size), nil
	}
	w := rightMargin - x
	if w < 0 {
		return 0, fmt.Errorf("%w (x=%g, margin=%g)", ErrNegativeFill, x, rightMargin)
	}
	return w, nil
}

func (s *Sheet) placeWidget(cfg FieldConfig, st Style, field Field, x, y, size float64) {
	w := Widget{
		Name:   field.Name,
		Type:   field.Type,
		X:      x,
		Y:      y - cfg.WidgetAbove,
		Width:  size,
		Height: cfg.WidgetAbove + cfg.WidgetBelow,
	}
	switch field.Type {
	case WidgetCheckbox:
		if cfg.CheckboxBorder {
			w.Border = &Border{Color: Black, Width: 1}
		}
	default:
		w.Font = st.Font
		w.FontSize = st.Size
	}
	s.AddWidget(w)

	if field.Type != WidgetCheckbox {
		s.Rule(x, y+cfg.RuleOffset, x+size, y+cfg.RuleOffset, cfg.RuleColor, cfg.RuleWidth)
	}
}
