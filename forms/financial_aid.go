package forms

import (
	"github.com/allisonrosefund/rosepdf/layout"
)

// FinancialAid 生成由学校助学金办公室填写的费用证明表。
func (g Generator) FinancialAid() (*layout.Result, error) {
	fund, assets, logger := g.fund(), g.assets(), g.logger()
	s, err := g.newSheet()
	if err != nil {
		return nil, err
	}
	xmax := s.Width() - margin
	body := layout.Style{Size: defFontSize}
	bold := layout.Style{Font: "Helvetica-Bold", Size: defFontSize}
	h, err := s.LineHeight(body.Font, body.Size)
	if err != nil {
		return nil, err
	}

	if err := masthead(s, assets.AidLogo, fund.FormalName, fund.Suffix, fund.Tagline); err != nil {
		return nil, err
	}
	if _, err := s.Centered(margin, xmax, "Financial Aid Certification", layout.Style{Size: defFontSize + 8}, true); err != nil {
		return nil, err
	}

	// 每一步都返回下一行的 y；w 记录第一个错误，之后的调用直接跳过
	w := &writer{s: s}

	ypos := 85.0
	w.paragraph(ypos, "This form is required for nursing students to apply for funding through the "+
		"Allison Rose Memorial Fund scholarship program. The information the school of "+
		"nursing provides is strictly confidential and only used to verify cost of attendance.", body)
	ypos += 60

	// 学生部分
	ypos = w.field(margin, ypos, "Student Name:", layout.LabeledFieldOptions{Width: 260, Font: bold.Font})
	ypos += 5
	ypos = w.field(margin, ypos, "Student Signature to release information:", layout.LabeledFieldOptions{Width: 200, Signature: true, Font: bold.Font})
	s.Rule(margin, ypos, xmax, ypos, layout.Black, 3)
	ypos += 10

	// 助学金办公室部分
	w.text(margin, ypos+h, "To be completed by Financial Aid Administrator Only", bold)
	ypos += 20
	w.paragraph(ypos, "Please provide us with the most current information available at the school of nursing.  "+
		"Completed forms may be emailed to "+fund.Email, body)
	ypos += 60

	w.check(margin+300, ypos, "Estimated", "estimated")
	w.check(margin+400, ypos, "Actual", "actual")
	ypos = w.field(margin, ypos, "Total Cost of Attendance $", layout.LabeledFieldOptions{Width: 120, Gap: 2})
	ypos = w.field(margin, ypos, "For which academic year?", layout.LabeledFieldOptions{Width: 120})
	w.field(margin, ypos, "Tuition / Fees $", layout.LabeledFieldOptions{Width: 120, Gap: 2})
	ypos = w.field(margin+260, ypos, "Books $", layout.LabeledFieldOptions{Width: 120, Gap: 2})
	w.field(margin, ypos, "Loan Fees $", layout.LabeledFieldOptions{Width: 120, Gap: 2})
	ypos = w.field(margin+260, ypos, "Room & Board $", layout.LabeledFieldOptions{Width: 120, Gap: 2})

	ypos += 10
	ypos = w.field(margin, ypos, "1. What is the per credit tuition rate for "+fund.AcademicYear+" at your school?  $",
		layout.LabeledFieldOptions{Width: 150, Gap: 2})

	w.text(margin, ypos, "2. Has the student completed a FAFSA form?", body)
	w.check(margin+220, ypos, "Yes", "fafsa_yes")
	w.check(margin+280, ypos, "No", "fafsa_no")
	ypos += 20

	ypos = w.field(margin, ypos, "3. Student Aid Index (SAI) from FAFSA", layout.LabeledFieldOptions{Width: 120, Gap: 2})
	ypos = w.field(margin, ypos, "4. Student ID#", layout.LabeledFieldOptions{Width: 200})
	ypos = w.field(margin, ypos, "5. Cumulative GPA (4.0 scale)", layout.LabeledFieldOptions{Width: 200})

	w.text(margin, ypos, "6. Is the student a U.S. citizen or eligible non-citizen (per FAFSA)?", body)
	w.check(margin+310, ypos, "Yes", "citizen_yes")
	ypos = w.check(margin+370, ypos, "No", "citizen_no")
	logger.Debug("administrator questions placed", "y", ypos)

	// 办公室签字
	ypos += 30
	w.field(margin, ypos, "FAA Name", layout.LabeledFieldOptions{Width: 240})
	ypos = w.field(350, ypos, "Title", layout.LabeledFieldOptions{Width: 100})
	ypos = w.field(margin, ypos, "E-Mail", layout.LabeledFieldOptions{Width: 280})
	ypos = w.field(margin, ypos, "Phone / Ext #", layout.LabeledFieldOptions{Width: 200})
	ypos = w.field(margin, ypos, "School", layout.LabeledFieldOptions{Width: 400})
	w.field(margin, ypos, "Signature", layout.LabeledFieldOptions{Width: 300, Signature: true})
	ypos = w.field(400, ypos, "Date", layout.LabeledFieldOptions{Width: 100})

	// 支票寄送地址
	ypos += 20
	w.paragraph(ypos, "If this student is awarded a scholarship, checks are sent to the financial aid or bursar's office "+
		"for deposit in the student's tuition account. Please indicate the mailing address where the check is to be mailed:", body)
	ypos += 50
	ypos = w.field(margin, ypos, "Send to attention of:", layout.LabeledFieldOptions{Width: 300})
	ypos = w.field(margin, ypos, "Mailing Address", layout.LabeledFieldOptions{Width: 380})
	w.field(margin, ypos, "City", layout.LabeledFieldOptions{Width: 200})
	w.field(margin+250, ypos, "State", layout.LabeledFieldOptions{Width: 80})
	ypos = w.field(margin+380, ypos, "Zip", layout.LabeledFieldOptions{Width: 80})

	ypos += 10
	w.centered(ypos, xmax, "Thank you for completing this form!", layout.Style{Font: "Helvetica-Oblique", Size: defFontSize + 2})
	if w.err != nil {
		return nil, w.err
	}
	logger.Debug("financial aid form placed", "y", ypos)

	if err := footer(s, layout.Style{},
		fund.Email,
		fund.FormalName+" "+fund.Suffix+" | "+fund.Site,
	); err != nil {
		return nil, err
	}
	return s.Result(g.meta("Financial Aid Certification", fund.FullName()+" financial aid certification")), nil
}

// writer 包装 Sheet，在出错后让后续绘制成为空操作，调用方最后检查 err。
type writer struct {
	s   *layout.Sheet
	err error
}

func (w *writer) field(x, y float64, label string, opts layout.LabeledFieldOptions) float64 {
	if w.err != nil {
		return y
	}
	next, err := w.s.LabeledField(x, y, label, opts)
	w.err = err
	return next
}

func (w *writer) check(x, y float64, label, name string) float64 {
	if w.err != nil {
		return y
	}
	next, err := w.s.Checkbox(x, y, label, name, defFontSize)
	w.err = err
	return next
}

func (w *writer) text(x, y float64, content string, st layout.Style) {
	if w.err != nil {
		return
	}
	w.err = w.s.Text(x, y, content, st)
}

func (w *writer) paragraph(y float64, content string, st layout.Style) {
	if w.err != nil {
		return
	}
	_, w.err = w.s.Paragraph(margin, y, w.s.Width()-2*margin, content, st)
}

func (w *writer) centered(y, xmax float64, content string, st layout.Style) float64 {
	if w.err != nil {
		return y
	}
	next, err := w.s.Centered(y, xmax, content, st, false)
	w.err = err
	return next
}
