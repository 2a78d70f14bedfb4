package forms_test

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/allisonrosefund/rosepdf/binding"
	"github.com/allisonrosefund/rosepdf/dsl"
	"github.com/allisonrosefund/rosepdf/forms"
	"github.com/allisonrosefund/rosepdf/layout"
)

// stubMeasurer 每个字符宽 size/2，行高 size*1.2。
type stubMeasurer struct{}

func (stubMeasurer) TextWidth(content string, _ layout.FontResource, size float64) (float64, error) {
	return float64(len([]rune(content))) * size / 2, nil
}

func (stubMeasurer) LineHeight(_ layout.FontResource, size float64) (float64, error) {
	return size * 6 / 5, nil
}

func (m stubMeasurer) WrapText(content string, width float64, font layout.FontResource, size float64) ([]layout.TextLine, error) {
	return layout.GreedyWrap(content, width, func(s string) float64 {
		w, _ := m.TextWidth(s, font, size)
		return w
	}), nil
}

func newGenerator() forms.Generator {
	return forms.Generator{Measurer: stubMeasurer{}}
}

var applicationWidgets = []string{
	"fullname_field", "addr_field", "addr2_field",
	"city_field", "state_field", "zip_field",
	"phone_field", "email_field",
	"program_field",
	"current_fulltime_check", "current_parttime_check",
	"applying_fulltime_check", "applying_parttime_check", "applying_other_check",
	"applying_other_field1", "applying_other_field2",
	"start_date_field", "fulltime_field", "parttime_field",
	"parttime_details_year1_field", "parttime_details_year2_field", "parttime_details_year3_field",
}

func widgetNames(res *layout.Result) []string {
	names := make([]string, 0, len(res.Page.Widgets))
	for _, w := range res.Page.Widgets {
		names = append(names, w.Name)
	}
	return names
}

func findWidget(t *testing.T, res *layout.Result, name string) layout.Widget {
	t.Helper()
	for _, w := range res.Page.Widgets {
		if w.Name == name {
			return w
		}
	}
	t.Fatalf("widget %s not found", name)
	return layout.Widget{}
}

func hasText(res *layout.Result, content string) bool {
	for _, tb := range res.Page.Texts {
		if tb.Content == content {
			return true
		}
	}
	return false
}

func TestApplicationVariantsShareFields(t *testing.T) {
	g := newGenerator()
	v1, err := g.Application(forms.VariantV1)
	if err != nil {
		t.Fatalf("v1: %v", err)
	}
	v2, err := g.Application(forms.VariantV2)
	if err != nil {
		t.Fatalf("v2: %v", err)
	}

	if diff := cmp.Diff(applicationWidgets, widgetNames(v1)); diff != "" {
		t.Fatalf("v1 widgets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(applicationWidgets, widgetNames(v2)); diff != "" {
		t.Fatalf("v2 widgets mismatch (-want +got):\n%s", diff)
	}

	// 两个版本的个人信息从同一位置开始
	if a, b := findWidget(t, v1, "fullname_field"), findWidget(t, v2, "fullname_field"); a.Y != b.Y {
		t.Fatalf("fullname_field y differs: v1 %g, v2 %g", a.Y, b.Y)
	}
	for _, name := range []string{"city_field", "state_field"} {
		a, b := findWidget(t, v1, name), findWidget(t, v2, name)
		if a.Width != b.Width {
			t.Fatalf("%s width differs: v1 %g, v2 %g", name, a.Width, b.Width)
		}
	}
}

func TestApplicationCheckboxBorders(t *testing.T) {
	g := newGenerator()
	v1, err := g.Application(forms.VariantV1)
	if err != nil {
		t.Fatalf("v1: %v", err)
	}
	v2, err := g.Application(forms.VariantV2)
	if err != nil {
		t.Fatalf("v2: %v", err)
	}

	for _, name := range []string{"current_fulltime_check", "fulltime_field"} {
		if w := findWidget(t, v1, name); w.Type != layout.WidgetCheckbox || w.Border == nil {
			t.Fatalf("v1 %s should be a bordered checkbox: %+v", name, w)
		}
		if w := findWidget(t, v2, name); w.Type != layout.WidgetCheckbox || w.Border != nil {
			t.Fatalf("v2 %s should be a borderless checkbox: %+v", name, w)
		}
	}
}

func TestApplicationV2Text(t *testing.T) {
	res, err := newGenerator().Application(forms.VariantV2)
	if err != nil {
		t.Fatalf("v2: %v", err)
	}
	fund := forms.DefaultFund()
	for _, want := range []string{
		"Full name (last, first):",
		"E-mail:",
		"  3. Visit " + fund.ApplyURL + " to submit and view next steps.",
		fund.Email,
		fund.FullName() + " - https://" + fund.Site,
	} {
		if !hasText(res, want) {
			t.Fatalf("missing text %q", want)
		}
	}
	if res.Meta.Title != "Application Form" {
		t.Fatalf("unexpected title %q", res.Meta.Title)
	}
	if !slices.Contains(res.Meta.Keywords, fund.AcademicYear) {
		t.Fatalf("keywords should contain academic year: %v", res.Meta.Keywords)
	}
}

func TestApplicationUsesConfiguredFund(t *testing.T) {
	g := newGenerator()
	g.Fund = forms.Fund{Email: "office@example.org"}
	for _, v := range []forms.Variant{forms.VariantV1, forms.VariantV2} {
		res, err := g.Application(v)
		if err != nil {
			t.Fatalf("%s: %v", v, err)
		}
		if !hasText(res, "office@example.org") {
			t.Fatalf("%s footer should use configured email", v)
		}
		if res.Meta.Author != forms.DefaultFund().FullName() {
			t.Fatalf("%s author %q", v, res.Meta.Author)
		}
	}
}

func TestParseVariant(t *testing.T) {
	if v, err := forms.ParseVariant(""); err != nil || v != forms.VariantV1 {
		t.Fatalf("empty variant should be v1, got %q %v", v, err)
	}
	if _, err := forms.ParseVariant("v3"); err == nil {
		t.Fatalf("expected error for v3")
	}
}

func TestFinancialAidWidgets(t *testing.T) {
	res, err := newGenerator().FinancialAid()
	if err != nil {
		t.Fatalf("financial aid: %v", err)
	}
	var checks []string
	for _, w := range res.Page.Widgets {
		if w.Type == layout.WidgetCheckbox {
			checks = append(checks, w.Name)
		}
	}
	want := []string{"estimated", "actual", "fafsa_yes", "fafsa_no", "citizen_yes", "citizen_no"}
	if diff := cmp.Diff(want, checks); diff != "" {
		t.Fatalf("checkboxes mismatch (-want +got):\n%s", diff)
	}

	names := widgetNames(res)
	if !slices.Contains(names, "Student Name:") || !slices.Contains(names, "School") {
		t.Fatalf("text fields missing: %v", names)
	}
	// 签名栏只有横线
	for _, sig := range []string{"Signature", "Student Signature to release information:"} {
		if slices.Contains(names, sig) {
			t.Fatalf("signature %q should not carry a widget", sig)
		}
	}
	if !hasText(res, "Thank you for completing this form!") {
		t.Fatalf("closing line missing")
	}
}

func TestFlierPlacesQR(t *testing.T) {
	res, err := newGenerator().Flier("built-in:qr")
	if err != nil {
		t.Fatalf("flier: %v", err)
	}
	var qr *layout.ImageBox
	for i := range res.Page.Images {
		if res.Page.Images[i].Path == "built-in:qr" {
			qr = &res.Page.Images[i]
		}
	}
	if qr == nil {
		t.Fatalf("qr image missing: %+v", res.Page.Images)
	}
	// A4：xmax = 565，ymax = 812
	if math.Abs(qr.X-157.5) > 1e-9 || math.Abs(qr.Y-(812*0.65-125)) > 1e-9 || qr.Width != 250 {
		t.Fatalf("unexpected qr box: %+v", *qr)
	}
	if len(res.Page.Widgets) != 0 {
		t.Fatalf("flier should not contain widgets")
	}
	if !hasText(res, forms.DefaultFund().LegalName) {
		t.Fatalf("legal name missing")
	}
}

func TestFlierDefaultsToAssetQR(t *testing.T) {
	res, err := newGenerator().Flier("")
	if err != nil {
		t.Fatalf("flier: %v", err)
	}
	if _, ok := res.Resources.Images[forms.DefaultAssets().QR]; !ok {
		t.Fatalf("expected %s in resources: %v", forms.DefaultAssets().QR, res.Resources.Images)
	}
}

func TestTemplates(t *testing.T) {
	if !slices.Contains(forms.Templates(), "application_v2") {
		t.Fatalf("application_v2 not listed: %v", forms.Templates())
	}
	if _, err := forms.Template("missing"); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func compile(t *testing.T, src string) (*layout.Result, error) {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return newGenerator().Compile(doc)
}

func TestCompileCursor(t *testing.T) {
	res, err := compile(t, `form demo v1 {
  page a4 {
    text "a" y=100
    spacer 5
    text "b"
    text "c" align=right
  }
}`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	texts := res.Page.Texts
	if len(texts) != 3 {
		t.Fatalf("expected 3 texts, got %d", len(texts))
	}
	if texts[0].Y != 100 || texts[1].Y != 120 || texts[2].Y != 135 {
		t.Fatalf("unexpected baselines: %g %g %g", texts[0].Y, texts[1].Y, texts[2].Y)
	}
	// "c" 宽 5pt，右对齐到 575
	if texts[2].X != 570 {
		t.Fatalf("right aligned x = %g", texts[2].X)
	}
	if res.Meta.Title != "demo" {
		t.Fatalf("title should default to form name, got %q", res.Meta.Title)
	}
}

func TestCompileFrame(t *testing.T) {
	res, err := compile(t, `form demo v1 {
  page a4 {
    text "a" y=100
    frame x=10 y=20 w=100 h=50
    frame x=1cm y=0 w=1in h=72 color=#c0c0c0 width=2
    text "b"
  }
}`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	want := []layout.Rect{
		{X: 10, Y: 20, Width: 100, Height: 50, StrokeColor: layout.Black, StrokeWidth: 1},
		{X: 10 * layout.MmToPt, Y: 0, Width: 72, Height: 72, StrokeColor: layout.Color{R: 192, G: 192, B: 192}, StrokeWidth: 2},
	}
	if diff := cmp.Diff(want, res.Page.Rects, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("frames mismatch (-want +got):\n%s", diff)
	}
	// 边框不推进光标
	if texts := res.Page.Texts; texts[1].Y != 115 {
		t.Fatalf("frame should not move the cursor, b at %g", texts[1].Y)
	}
}

func TestCompileRows(t *testing.T) {
	res, err := compile(t, `form demo v1 {
  page letter margin=30 {
    rows y=50 {
      row { field "Name" name=name_field; checkbox "Yes" name=yes_check }
    }
    input "Extra" name=extra_field width=100
  }
}`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if res.Page.Width != 612 {
		t.Fatalf("expected letter width, got %g", res.Page.Width)
	}
	name := findWidget(t, res, "name_field")
	// "Name" 宽 20pt，冒号计 1pt，标签间距 6
	if name.X != 57 || name.Y != 38 {
		t.Fatalf("unexpected name widget: %+v", name)
	}
	// 填充宽度到右边距 582；其后的复选框宽度固定，越界也不报错
	if name.Width != 582-57 {
		t.Fatalf("unexpected fill width %g", name.Width)
	}
	yes := findWidget(t, res, "yes_check")
	if yes.Type != layout.WidgetCheckbox || yes.Width != 20 || yes.Border == nil {
		t.Fatalf("unexpected checkbox: %+v", yes)
	}
	extra := findWidget(t, res, "extra_field")
	if extra.Y != 70-12 || extra.Width != 100 {
		t.Fatalf("input should start at next row: %+v", extra)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := map[string]string{
		"unknown option":   `text "x" bogus=1`,
		"label with name":  `rows { row { label "x" name=a } }`,
		"field no name":    `rows { row { field "x" } }`,
		"image no size":    `image "img/a.png" x=1 y=1`,
		"frame no size":    `frame x=1 y=1 w=10`,
		"bad color":        `rule color=hello`,
		"unknown font":     `text "x" font=Comic`,
		"unknown paper":    ``,
		"check without id": `check "Yes"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			page := "a4"
			if name == "unknown paper" {
				page = "b5"
			}
			_, err := compile(t, "form demo v1 {\n  page "+page+" {\n    "+body+"\n  }\n}")
			if err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestCompileUnresolvedPlaceholder(t *testing.T) {
	_, err := compile(t, `form demo v1 {
  page a4 {
    footer "${fund.nope}"
  }
}`)
	var unresolved *binding.UnresolvedError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedError, got %v", err)
	}
	if diff := cmp.Diff([]string{"fund.nope"}, unresolved.Paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), "footer") {
		t.Fatalf("error should name the statement: %v", err)
	}
}
