package layout

// LineGap 是 LabeledField 与 Checkbox 在行高之外追加的行间距。
const LineGap = 6.0

// LabeledFieldOptions 配置带标签的单个文本控件。
type LabeledFieldOptions struct {
	Name      string  // 控件名称，默认使用标签文本
	Width     float64 // 控件宽度，默认 200
	Gap       float64 // 标签与控件的间距，默认 6
	Signature bool    // 签名栏只画横线，不放控件
	Font      string
	FontSize  float64
}

// LabeledField 在 (x, y) 绘制标签，其后放一个文本控件与浅灰横线，返回下一行位置。
func (s *Sheet) LabeledField(x, y float64, label string, opts LabeledFieldOptions) (float64, error) {
	st := Style{Font: opts.Font, Size: opts.FontSize}.withDefaults()
	if opts.Width <= 0 {
		opts.Width = 200
	}
	if opts.Gap <= 0 {
		opts.Gap = 6
	}
	if opts.Name == "" {
		opts.Name = label
	}
	h, err := s.LineHeight(st.Font, st.Size)
	if err != nil {
		return 0, err
	}
	labelW, err := s.Measure(label, st.Font, st.Size)
	if err != nil {
		return 0, err
	}
	if err := s.Text(x, y, label, st); err != nil {
		return 0, err
	}

	fx := x + labelW + opts.Gap
	if !opts.Signature {
		s.AddWidget(Widget{
			Name:     opts.Name,
			Type:     WidgetText,
			X:        fx,
			Y:        y - 12,
			Width:    opts.Width,
			Height:   17,
			Font:     st.Font,
			FontSize: st.Size,
		})
	}
	s.Rule(fx, y+4, fx+opts.Width, y+4, Gray(0.75), 1)
	return y + h + LineGap, nil
}

// Checkbox 在 (x, y) 放置边长为一个行高的复选框，标签画在其右侧，返回下一行位置。
func (s *Sheet) Checkbox(x, y float64, label, name string, size float64) (float64, error) {
	st := Style{Size: size}.withDefaults()
	h, err := s.LineHeight(st.Font, st.Size)
	if err != nil {
		return 0, err
	}
	if err := s.Text(x+h+5, y, label, st); err != nil {
		return 0, err
	}
	s.AddWidget(Widget{
		Name:   name,
		Type:   WidgetCheckbox,
		X:      x,
		Y:      y - h + 3,
		Width:  h,
		Height: h,
		Border: &Border{Color: Black, Width: 1},
	})
	return y + h + LineGap, nil
}

// SectionHeader 绘制两条灰线夹住的小节标题，返回标题之下的内容起点。
func (s *Sheet) SectionHeader(left, right, y float64, title string) (float64, error) {
	gray := Gray(0.6)
	s.Rule(left, y, right, y, gray, 1)
	if err := s.Text(left, y+15, title, Style{Size: 12}); err != nil {
		return 0, err
	}
	s.Rule(left, y+22, right, y+22, gray, 1)
	return y + 45, nil
}
