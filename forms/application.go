package forms

import (
	"fmt"

	"github.com/allisonrosefund/rosepdf/layout"
)

// Variant 选择申请表的版本。
type Variant string

const (
	VariantV1 Variant = "v1"
	VariantV2 Variant = "v2"
)

// ParseVariant 校验版本名称，空串视为 v1。
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "", VariantV1:
		return VariantV1, nil
	case VariantV2:
		return VariantV2, nil
	default:
		return "", fmt.Errorf("未知申请表版本 %q（可选 v1、v2）", s)
	}
}

// Application 生成奖学金申请表。v1 由代码描述；v2 来自内置的表单模板，
// 两者共用同一套行排版。
func (g Generator) Application(v Variant) (*layout.Result, error) {
	switch v {
	case "", VariantV1:
		return g.applicationV1()
	case VariantV2:
		doc, err := Template("application_v2")
		if err != nil {
			return nil, err
		}
		return g.Compile(doc)
	default:
		return nil, fmt.Errorf("未知申请表版本 %q", v)
	}
}

func personalRows() []layout.Row {
	return []layout.Row{
		{{Name: "fullname_field", Label: "Name (last, first)"}},
		{{Name: "addr_field", Label: "Address"}},
		{{Name: "addr2_field", Label: "Address (line 2)"}},
		{
			{Name: "city_field", Label: "City", Size: 180},
			{Name: "state_field", Label: "State", Size: 85},
			{Name: "zip_field", Label: "Zip Code"},
		},
		{
			{Name: "phone_field", Label: "Phone", Size: 180},
			{Name: "email_field", Label: "Email"},
		},
	}
}

func checkRow(name, label string) layout.Row {
	return layout.Row{{Name: name, Label: label, Size: 20, Type: layout.WidgetCheckbox, Reverse: true}}
}

func academicRows() []layout.Row {
	return []layout.Row{
		{{Label: "NNP degree-granting program(s) you currently attend or are applying to for admission:"}},
		{{Name: "program_field"}},
		{{Label: "Please check exactly one (1) of the following:"}},
		checkRow("current_fulltime_check", "I am already enrolled in the FULL-time NNP program listed above."),
		checkRow("current_parttime_check", "I am already enrolled in the PART-time NNP program listed above."),
		checkRow("applying_fulltime_check", "I am currently applying to the FULL-time NNP program(s) listed above."),
		checkRow("applying_parttime_check", "I am currently applying to the PART-time NNP program(s) listed above."),
		checkRow("applying_other_check", "Other (please explain below):"),
		{{Name: "applying_other_field1"}},
		{{Name: "applying_other_field2"}},
		{},
		{
			{Name: "start_date_field", Label: "Intended start date", Size: 100},
			{Label: "          Planned enrollment status:"},
			{Name: "fulltime_field", Label: "Full-time", Size: 20, Type: layout.WidgetCheckbox, Reverse: true},
			{Name: "parttime_field", Label: "Part-time", Size: 20, Type: layout.WidgetCheckbox, Reverse: true},
		},
		{{Label: "If part-time, please list your anticipated course of study, including credit-hours per semester."}},
		{{Name: "parttime_details_year1_field"}},
		{{Name: "parttime_details_year2_field"}},
		{{Name: "parttime_details_year3_field"}},
	}
}

func (g Generator) applicationV1() (*layout.Result, error) {
	fund, assets, logger := g.fund(), g.assets(), g.logger()
	s, err := g.newSheet()
	if err != nil {
		return nil, err
	}
	xmax := s.Width() - margin
	body := layout.Style{Size: defFontSize}

	if err := masthead(s, assets.Logo, fund.Name, fund.Suffix, fund.Tagline); err != nil {
		return nil, err
	}
	if _, err := s.Centered(margin, xmax, "Application Form", layout.Style{Font: "Helvetica-Bold", Size: defFontSize + 8}, true); err != nil {
		return nil, err
	}

	ypos := 90.0
	instructions := []string{
		"  1. Please complete all sections of this form.  Typed responses are preferred.",
		"  2. Sign and date the form at the bottom.",
		"  3. Visit " + fund.ApplyURL + " to submit and view next steps.",
		"  4. Questions?  Please e-mail " + fund.Email,
	}
	for i, line := range instructions {
		if err := s.Text(margin, ypos+15*float64(i), line, body); err != nil {
			return nil, err
		}
	}
	ypos += 10 + 15*float64(len(instructions))

	cfg := layout.DefaultFieldConfig(s.Width())
	cfg.LeftMargin, cfg.RightMargin = margin, xmax

	if ypos, err = s.SectionHeader(margin, xmax, ypos, "  I. Personal Information"); err != nil {
		return nil, err
	}
	aligned := cfg
	aligned.AlignFirstColumn = true
	if ypos, err = s.Fields(aligned, personalRows(), ypos); err != nil {
		return nil, fmt.Errorf("个人信息: %w", err)
	}
	logger.Debug("personal information placed", "y", ypos)

	if ypos, err = s.SectionHeader(margin, xmax, ypos, "  II. Academic Information"); err != nil {
		return nil, err
	}
	if ypos, err = s.Fields(cfg, academicRows(), ypos); err != nil {
		return nil, fmt.Errorf("学业信息: %w", err)
	}
	logger.Debug("academic information placed", "y", ypos)

	ypos += 20
	s.Rule(margin, ypos, xmax, ypos, layout.Gray(0.6), 1)
	ypos += 18
	if err := s.Text(margin, ypos, "Applicant Certification", layout.Style{Size: defFontSize + 2}); err != nil {
		return nil, err
	}
	ypos += 20
	certification := []struct {
		text    string
		advance float64
	}{
		{"I certify that the information provided in this application is accurate and complete to the best of my knowledge,", 13},
		{"and I understand that providing false information may affect my eligibility for this scholarship.", 35},
	}
	for _, c := range certification {
		if err := s.Text(margin+10, ypos, c.text, body); err != nil {
			return nil, err
		}
		ypos += c.advance
	}

	x := margin + 10
	if x, err = signatureLine(s, x, ypos, "Applicant Signature:", 250); err != nil {
		return nil, err
	}
	if _, err = signatureLine(s, x+10, ypos, "Date:", 90); err != nil {
		return nil, err
	}

	if err := footer(s, layout.Style{},
		fund.Email,
		fund.FullName()+" - https://"+fund.Site,
	); err != nil {
		return nil, err
	}
	return s.Result(g.meta("Application Form", fund.FullName()+" scholarship application")), nil
}

// signatureLine 绘制标签和其后长度为 width 的黑色横线，返回横线末端的 x。
func signatureLine(s *layout.Sheet, x, y float64, label string, width float64) (float64, error) {
	st := layout.Style{Size: defFontSize}
	if err := s.Text(x, y, label, st); err != nil {
		return 0, err
	}
	w, err := s.Measure(label, st.Font, st.Size)
	if err != nil {
		return 0, err
	}
	x += w + 5
	s.Rule(x, y+1, x+width, y+1, layout.Black, 1)
	return x + width, nil
}
