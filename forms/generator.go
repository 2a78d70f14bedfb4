package forms

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/allisonrosefund/rosepdf/layout"
)

const (
	margin      = 20.0
	defFontSize = 10.0
)

// Generator 持有生成文档所需的依赖。零值字段使用默认值。
type Generator struct {
	Measurer layout.Measurer
	Fund     Fund
	Assets   Assets
	Paper    string // 纸张名称，默认 a4
	Creator  string
	Logger   *log.Logger
}

func (g Generator) logger() *log.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return log.Default()
}

func (g Generator) fund() Fund     { return g.Fund.WithDefaults() }
func (g Generator) assets() Assets { return g.Assets.WithDefaults() }

func (g Generator) newSheet() (*layout.Sheet, error) {
	paper := g.Paper
	if paper == "" {
		paper = "a4"
	}
	w, h, ok := layout.PaperSize(paper)
	if !ok {
		return nil, fmt.Errorf("未知纸张 %q", paper)
	}
	return layout.NewSheet(w, h, g.Measurer)
}

func (g Generator) meta(title, subject string) layout.DocumentMeta {
	creator := g.Creator
	if creator == "" {
		creator = "rosepdf"
	}
	return layout.DocumentMeta{
		Title:   title,
		Author:  g.fund().FullName(),
		Subject: subject,
		Creator: creator,
	}
}

// masthead 在左上角放置标志，右上角三行右对齐的基金会名称。
func masthead(s *layout.Sheet, logo, name, suffix, tagline string) error {
	xmax := s.Width() - margin
	h, err := s.LineHeight(layout.DefaultFont, defFontSize)
	if err != nil {
		return err
	}
	s.Image(logo, margin, margin, 60-margin, 60-margin)
	if err := s.RightAligned(xmax, h+margin, name, layout.Style{Size: defFontSize}); err != nil {
		return err
	}
	if err := s.RightAligned(xmax, 2*h+margin, suffix, layout.Style{Size: defFontSize}); err != nil {
		return err
	}
	return s.RightAligned(xmax, 3*h+margin, tagline, layout.Style{Size: defFontSize - 2})
}

// footer 把 lines 自下而上贴着下边距居中排列，最后一行紧靠下边距。
func footer(s *layout.Sheet, st layout.Style, lines ...string) error {
	if st.Size <= 0 {
		st.Size = defFontSize - 2
	}
	xmax := s.Width() - margin
	ymax := s.Height() - margin
	h, err := s.LineHeight(st.Font, st.Size)
	if err != nil {
		return err
	}
	for i, line := range lines {
		y := ymax - float64(len(lines)-i)*h
		if _, err := s.Centered(y, xmax, line, st, false); err != nil {
			return err
		}
	}
	return nil
}
