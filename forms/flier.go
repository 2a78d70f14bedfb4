package forms

import (
	"github.com/allisonrosefund/rosepdf/layout"
)

const (
	flierMargin   = 30.0
	flierFontSize = 14.0
	flierIcon     = 80.0
	flierQRSide   = 250.0
)

// Flier 生成宣传传单。qrPath 为空时使用 Assets.QR；传入 "built-in:qr"
// 可以引用渲染器中注入的二维码数据。
func (g Generator) Flier(qrPath string) (*layout.Result, error) {
	fund, assets := g.fund(), g.assets()
	if qrPath == "" {
		qrPath = assets.QR
	}
	s, err := g.newSheet()
	if err != nil {
		return nil, err
	}
	xmax := s.Width() - flierMargin
	ymax := s.Height() - flierMargin
	w := &writer{s: s}

	s.Image(assets.Stethoscope, flierMargin/2, flierMargin, flierIcon, flierIcon)
	s.Image(assets.Mortarboard, xmax-flierMargin/2-flierIcon, flierMargin, flierIcon, flierIcon)

	headline := layout.Style{Size: flierFontSize + 24}
	ypos := w.centered(flierMargin, xmax, "Ready to Elevate", headline)
	ypos = w.centered(ypos, xmax, "Your Career?", headline)
	ypos += 60

	pitch := []string{
		"If you're a NICU nurse, NNP school may be",
		"closer than you think...",
		"",
		"Scholarships are available now through",
		"the " + fund.Name + " " + fund.Suffix + ".",
	}
	for _, line := range pitch {
		ypos = w.centered(ypos, xmax, line, layout.Style{Size: flierFontSize + 10})
	}

	// 二维码水平居中，中心位于页面 65% 高度处
	qrX := xmax/2 - flierQRSide/2
	qrY := ymax*0.65 - flierQRSide/2
	s.Image(qrPath, qrX, qrY, flierQRSide, flierQRSide)

	ypos = w.centered(qrY+flierQRSide-10, xmax, "Scan for eligibility & application details", layout.Style{Size: flierFontSize + 6})
	ypos = w.centered(ypos, xmax, fund.URL, layout.Style{Size: flierFontSize + 6})
	ypos += 40

	small := layout.Style{Size: flierFontSize - 2, Color: layout.Gray(0.4)}
	ypos = w.centered(ypos, xmax, fund.LegalName, small)
	w.centered(ypos, xmax, fund.Status, small)
	if w.err != nil {
		return nil, w.err
	}
	g.logger().Debug("flier placed", "qr", qrPath)
	return s.Result(g.meta(fund.FullName(), "Scholarship flier")), nil
}
