package layout

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

// stubMeasurer 是一个等宽度量实现，仅用于测试，避免引入 renderer 造成循环依赖。
// 每个字符宽度为字号的一半，行高为字号的 1.2 倍。
type stubMeasurer struct{}

func (stubMeasurer) TextWidth(content string, font FontResource, size float64) (float64, error) {
	return float64(utf8.RuneCountInString(content)) * size / 2, nil
}

func (stubMeasurer) LineHeight(font FontResource, size float64) (float64, error) {
	return size * 6 / 5, nil
}

func (m stubMeasurer) WrapText(content string, width float64, font FontResource, size float64) ([]TextLine, error) {
	w, _ := m.TextWidth(content, font, size)
	return []TextLine{{Content: content, Width: w}}, nil
}

func newTestSheet(t *testing.T) *Sheet {
	t.Helper()
	s, err := NewSheet(595, 842, stubMeasurer{})
	if err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	return s
}

func TestFieldsCityZipRow(t *testing.T) {
	s := newTestSheet(t)
	cfg := DefaultFieldConfig(595)
	rows := []Row{{
		{Name: "city_field", Label: "City", Size: 180},
		{Name: "zip_field", Label: "Zip", Size: Fill},
	}}

	y, err := s.Fields(cfg, rows, 100)
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if y != 120 {
		t.Fatalf("游标期望 120，实际 %g", y)
	}

	page := s.Result(DocumentMeta{}).Page
	// "City" = 20pt，补冒号 +1，标签间距 6
	wantWidgets := []Widget{
		{Name: "city_field", Type: WidgetText, X: 47, Y: 88, Width: 180, Height: 17, Font: "Helvetica", FontSize: 10},
		// 47 + 180 + 4 + 20 = 251；"Zip:" 宽 16，控件从 273 开始
		{Name: "zip_field", Type: WidgetText, X: 273, Y: 88, Width: 302, Height: 17, Font: "Helvetica", FontSize: 10},
	}
	if diff := cmp.Diff(wantWidgets, page.Widgets); diff != "" {
		t.Fatalf("控件位置不符 (-want +got):\n%s", diff)
	}
	if got := page.Widgets[1].X + page.Widgets[1].Width; got != cfg.RightMargin {
		t.Fatalf("填充控件应延伸到右边距 %g，实际 %g", cfg.RightMargin, got)
	}

	gotLabels := []struct {
		Content string
		X, Y    float64
	}{}
	for _, tb := range page.Texts {
		gotLabels = append(gotLabels, struct {
			Content string
			X, Y    float64
		}{tb.Content, tb.X, tb.Y})
	}
	wantLabels := []struct {
		Content string
		X, Y    float64
	}{{"City:", 20, 100}, {"Zip:", 251, 100}}
	if diff := cmp.Diff(wantLabels, gotLabels); diff != "" {
		t.Fatalf("标签不符 (-want +got):\n%s", diff)
	}

	wantLines := []Line{
		{X1: 47, Y1: 104, X2: 227, Y2: 104, Color: Gray(0.75), Width: 1},
		{X1: 273, Y1: 104, X2: 575, Y2: 104, Color: Gray(0.75), Width: 1},
	}
	if diff := cmp.Diff(wantLines, page.Lines); diff != "" {
		t.Fatalf("下划线不符 (-want +got):\n%s", diff)
	}
}

func TestFieldsEmptyRowIsSpacer(t *testing.T) {
	s := newTestSheet(t)
	y, err := s.Fields(DefaultFieldConfig(595), []Row{{}}, 100)
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if y != 120 {
		t.Fatalf("空行应只前进一个行高，得到 %g", y)
	}
	page := s.Result(DocumentMeta{}).Page
	if len(page.Texts)+len(page.Lines)+len(page.Widgets)+len(page.Rects) != 0 {
		t.Fatalf("空行不应产生任何绘制: %+v", page)
	}
}

func TestFieldsReverseCheckbox(t *testing.T) {
	s := newTestSheet(t)
	rows := []Row{{{Name: "fulltime_field", Label: "Full-time", Size: 20, Type: WidgetCheckbox, Reverse: true}}}
	if _, err := s.Fields(DefaultFieldConfig(595), rows, 50); err != nil {
		t.Fatalf("Fields: %v", err)
	}
	page := s.Result(DocumentMeta{}).Page
	if len(page.Widgets) != 1 {
		t.Fatalf("期望 1 个控件，得到 %d", len(page.Widgets))
	}
	w := page.Widgets[0]
	if w.Type != WidgetCheckbox || w.X != 20 || w.Width != 20 {
		t.Fatalf("复选框位置错误: %+v", w)
	}
	if w.Border == nil {
		t.Fatalf("默认配置下复选框应带边框")
	}
	if len(page.Lines) != 0 {
		t.Fatalf("复选框不应有下划线: %+v", page.Lines)
	}
	if len(page.Texts) != 1 || page.Texts[0].Content != "Full-time" || page.Texts[0].X != 44 {
		t.Fatalf("反向标签应紧跟在控件右侧且不补冒号: %+v", page.Texts)
	}
}

func TestFieldsCheckboxBorderDisabled(t *testing.T) {
	s := newTestSheet(t)
	cfg := DefaultFieldConfig(595)
	cfg.CheckboxBorder = false
	rows := []Row{{{Name: "cb", Label: "Yes", Size: 20, Type: WidgetCheckbox, Reverse: true}}}
	if _, err := s.Fields(cfg, rows, 50); err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if b := s.Result(DocumentMeta{}).Page.Widgets[0].Border; b != nil {
		t.Fatalf("关闭边框后不应有边框: %+v", b)
	}
}

func TestFieldsAlignFirstColumn(t *testing.T) {
	s := newTestSheet(t)
	cfg := DefaultFieldConfig(595)
	cfg.AlignFirstColumn = true
	rows := []Row{
		{{Name: "fullname_field", Label: "Name (last, first)"}},
		{{Name: "addr_field", Label: "Address"}},
		{},
		{
			{Name: "city_field", Label: "City", Size: 180},
			{Name: "state_field", Label: "State", Size: 85},
			{Name: "zip_field", Label: "Zip Code"},
		},
	}
	y, err := s.Fields(cfg, rows, 200)
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if y != 280 {
		t.Fatalf("游标期望 280，实际 %g", y)
	}

	col1 := float64(len("Name (last, first)")) * 5
	want := cfg.LeftMargin + col1 + 1 + cfg.LabelGap
	firsts := map[string]bool{"fullname_field": true, "addr_field": true, "city_field": true}
	for _, w := range s.Result(DocumentMeta{}).Page.Widgets {
		if !firsts[w.Name] {
			continue
		}
		if w.X != want {
			t.Fatalf("首列控件 %s 起点 %g，期望 %g", w.Name, w.X, want)
		}
	}
}

func TestFieldsAlignWithoutRowsFails(t *testing.T) {
	s := newTestSheet(t)
	cfg := DefaultFieldConfig(595)
	cfg.AlignFirstColumn = true
	if _, err := s.Fields(cfg, []Row{{}, {}}, 0); !errors.Is(err, ErrNoColumn) {
		t.Fatalf("期望 ErrNoColumn，得到 %v", err)
	}
	if _, err := s.Fields(cfg, nil, 0); !errors.Is(err, ErrNoColumn) {
		t.Fatalf("期望 ErrNoColumn，得到 %v", err)
	}

	cfg.AlignFirstColumn = false
	y, err := s.Fields(cfg, nil, 10)
	if err != nil || y != 10 {
		t.Fatalf("非对齐模式下空输入应原样返回: y=%g err=%v", y, err)
	}
}

func TestFieldsColonPolicy(t *testing.T) {
	s := newTestSheet(t)
	rows := []Row{
		{{Name: "a", Label: "Email", Size: 50}},
		{{Name: "b", Label: "Phone / Ext #", Size: 50}},
		{{Name: "c", Label: "Questions?", Size: 50}},
		{{Name: "d", Label: "Total:", Size: 50}},
		{{Label: "Planned enrollment status"}},
		{{Name: "e", Label: "Other", Size: 20, Type: WidgetCheckbox, Reverse: true}},
	}
	if _, err := s.Fields(DefaultFieldConfig(595), rows, 0); err != nil {
		t.Fatalf("Fields: %v", err)
	}
	var got []string
	for _, tb := range s.Result(DocumentMeta{}).Page.Texts {
		got = append(got, tb.Content)
	}
	want := []string{"Email:", "Phone / Ext #:", "Questions?", "Total:", "Planned enrollment status", "Other"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("冒号补全不符 (-want +got):\n%s", diff)
	}
}

// 同一行的第二个填充字段在到达时已越过右边距：保持按顺序解析，直接报错而不是静默缩小。
func TestFieldsSecondFillInRowFails(t *testing.T) {
	s := newTestSheet(t)
	rows := []Row{{{Name: "a", Label: "A"}, {Name: "b", Label: "B"}}}
	_, err := s.Fields(DefaultFieldConfig(595), rows, 0)
	if !errors.Is(err, ErrNegativeFill) {
		t.Fatalf("期望 ErrNegativeFill，得到 %v", err)
	}
}

func TestFieldsNegativeSizeRejected(t *testing.T) {
	s := newTestSheet(t)
	if _, err := s.Fields(DefaultFieldConfig(595), []Row{{{Name: "a", Size: -1}}}, 0); err == nil {
		t.Fatalf("负宽度应报错")
	}
}

func TestFieldsIdempotent(t *testing.T) {
	cfg := DefaultFieldConfig(595)
	cfg.AlignFirstColumn = true
	rows := []Row{
		{{Name: "phone_field", Label: "Phone", Size: 180}, {Name: "email_field", Label: "Email"}},
		{{Name: "addr_field", Label: "Address"}},
	}

	run := func() (*Result, float64) {
		s := newTestSheet(t)
		y, err := s.Fields(cfg, rows, 300)
		if err != nil {
			t.Fatalf("Fields: %v", err)
		}
		return s.Result(DocumentMeta{}), y
	}
	first, y1 := run()
	second, y2 := run()
	if y1 != y2 || y1 <= 300 {
		t.Fatalf("游标不一致或未前进: %g vs %g", y1, y2)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("两次排版结果不同 (-first +second):\n%s", diff)
	}
	if rows[0][1].Size != Fill {
		t.Fatalf("排版不应修改输入行: %+v", rows[0][1])
	}
}
