package forms

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/allisonrosefund/rosepdf/binding"
	"github.com/allisonrosefund/rosepdf/dsl"
	"github.com/allisonrosefund/rosepdf/layout"
)

//go:embed templates/*.form
var templateFS embed.FS

// Template 解析名为 name 的内置表单模板。
func Template(name string) (*dsl.Document, error) {
	file := "templates/" + name + ".form"
	data, err := templateFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("找不到内置模板 %q", name)
	}
	return dsl.ParseBytes(file, data)
}

// Templates 返回内置模板名称。
func Templates() []string {
	matches, _ := fs.Glob(templateFS, "templates/*.form")
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".form"))
	}
	return names
}

// Compile 按表单描述绘制一页。字符串中的 ${fund.*} 占位符用基金会信息替换，
// 无法解析的占位符、未知选项与缺失的控件名称都会报错。
func (g Generator) Compile(doc *dsl.Document) (*layout.Result, error) {
	if doc == nil || doc.Page == nil {
		return nil, fmt.Errorf("表单描述为空")
	}
	page := doc.Page
	w, h, ok := layout.PaperSize(page.Size)
	if !ok {
		return nil, fmt.Errorf("%s: 未知纸张 %q", page.Pos, page.Size)
	}
	s, err := layout.NewSheet(w, h, g.Measurer)
	if err != nil {
		return nil, err
	}

	fund := g.fund()
	c := &compiler{g: g, s: s, fund: fund, assets: g.assets(), data: fund.Data()}
	if err := c.allow(page.Options, "margin", "top"); err != nil {
		return nil, fmt.Errorf("%s: %w", page.Pos, err)
	}
	if c.margin, err = c.num(page.Options, "margin", margin); err != nil {
		return nil, fmt.Errorf("%s: %w", page.Pos, err)
	}
	if c.y, err = c.num(page.Options, "top", c.margin); err != nil {
		return nil, fmt.Errorf("%s: %w", page.Pos, err)
	}

	for _, st := range page.Statements {
		if err := c.statement(st); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", st.Pos, st.Kind(), err)
		}
	}
	if err := c.drawFooters(); err != nil {
		return nil, err
	}
	meta, err := c.meta(doc)
	if err != nil {
		return nil, err
	}
	g.logger().Debug("form compiled", "form", doc.Name, "version", doc.Version, "y", c.y)
	return s.Result(meta), nil
}

type footerLine struct {
	content string
	style   layout.Style
}

type compiler struct {
	g      Generator
	s      *layout.Sheet
	fund   Fund
	assets Assets
	data   map[string]any

	margin float64
	y      float64
	sigEnd float64 // 上一条签名线末端的 x

	footers []footerLine
}

func (c *compiler) xmax() float64 { return c.s.Width() - c.margin }

func (c *compiler) statement(st *dsl.Statement) error {
	switch {
	case st.Spacer != nil:
		l, err := layout.ParseLength(st.Spacer.Amount)
		if err != nil {
			return err
		}
		c.y += l.Points()
		return nil
	case st.Rows != nil:
		return c.rows(st.Rows)
	case st.Command != nil:
		return c.command(st.Command)
	}
	return fmt.Errorf("空语句")
}

func (c *compiler) command(cmd *dsl.Command) error {
	content, err := binding.Resolve(cmd.Content.String(), c.data)
	if err != nil {
		return err
	}
	o := cmd.Options

	switch cmd.Name {
	case "title":
		if err := c.allow(o, "y", "size", "font", "color", "underline"); err != nil {
			return err
		}
		st, err := c.style(o, layout.Style{Font: "Helvetica-Bold", Size: defFontSize + 8})
		if err != nil {
			return err
		}
		underline, err := c.flag(o, "underline")
		if err != nil {
			return err
		}
		if err := c.moveTo(o); err != nil {
			return err
		}
		c.y, err = c.s.Centered(c.y, c.xmax(), content, st, underline)
		return err

	case "section":
		if err := c.allow(o, "y"); err != nil {
			return err
		}
		if err := c.moveTo(o); err != nil {
			return err
		}
		c.y, err = c.s.SectionHeader(c.margin, c.xmax(), c.y, content)
		return err

	case "text":
		return c.text(content, o)

	case "paragraph":
		if err := c.allow(o, "y", "size", "font", "color", "height"); err != nil {
			return err
		}
		st, err := c.style(o, layout.Style{Size: defFontSize})
		if err != nil {
			return err
		}
		if err := c.moveTo(o); err != nil {
			return err
		}
		end, err := c.s.Paragraph(c.margin, c.y, c.xmax()-c.margin, content, st)
		if err != nil {
			return err
		}
		height, err := c.num(o, "height", end-c.y)
		if err != nil {
			return err
		}
		c.y += height
		return nil

	case "image":
		if err := c.allow(o, "x", "y", "w", "h", "advance"); err != nil {
			return err
		}
		var x, y, w, h float64
		for _, p := range []struct {
			key string
			dst *float64
		}{{"x", &x}, {"y", &y}, {"w", &w}, {"h", &h}} {
			if _, ok := dsl.Find(o, p.key); !ok {
				return fmt.Errorf("图片缺少选项 %s", p.key)
			}
			if *p.dst, err = c.num(o, p.key, 0); err != nil {
				return err
			}
		}
		c.s.Image(c.assetPath(content), x, y, w, h)
		return c.advance(o, 0)

	case "frame":
		if err := c.allow(o, "x", "y", "w", "h", "color", "width"); err != nil {
			return err
		}
		var x, y, w, h float64
		for _, p := range []struct {
			key string
			dst *float64
		}{{"x", &x}, {"y", &y}, {"w", &w}, {"h", &h}} {
			if _, ok := dsl.Find(o, p.key); !ok {
				return fmt.Errorf("边框缺少选项 %s", p.key)
			}
			if *p.dst, err = c.num(o, p.key, 0); err != nil {
				return err
			}
		}
		col, err := c.color(o, "color", layout.Black)
		if err != nil {
			return err
		}
		width, err := c.num(o, "width", 1)
		if err != nil {
			return err
		}
		c.s.Frame(x, y, w, h, col, width)
		return nil

	case "masthead":
		if err := c.allow(o, "logo", "formal"); err != nil {
			return err
		}
		logo, err := c.str(o, "logo", "asset:logo")
		if err != nil {
			return err
		}
		formal, err := c.flag(o, "formal")
		if err != nil {
			return err
		}
		name := c.fund.Name
		if formal {
			name = c.fund.FormalName
		}
		return masthead(c.s, c.assetPath(logo), name, c.fund.Suffix, c.fund.Tagline)

	case "rule":
		if err := c.allow(o, "y", "x1", "x2", "color", "width", "advance"); err != nil {
			return err
		}
		x1, err := c.num(o, "x1", c.margin)
		if err != nil {
			return err
		}
		x2, err := c.num(o, "x2", c.xmax())
		if err != nil {
			return err
		}
		col, err := c.color(o, "color", layout.Gray(0.6))
		if err != nil {
			return err
		}
		width, err := c.num(o, "width", 1)
		if err != nil {
			return err
		}
		if err := c.moveTo(o); err != nil {
			return err
		}
		c.s.Rule(x1, c.y, x2, c.y, col, width)
		return c.advance(o, 0)

	case "input":
		if err := c.allow(o, "y", "x", "name", "width", "gap", "font", "size", "signature", "keep"); err != nil {
			return err
		}
		x, err := c.num(o, "x", c.margin)
		if err != nil {
			return err
		}
		opts := layout.LabeledFieldOptions{}
		if opts.Name, err = c.str(o, "name", ""); err != nil {
			return err
		}
		if opts.Width, err = c.num(o, "width", 200); err != nil {
			return err
		}
		if opts.Gap, err = c.num(o, "gap", 6); err != nil {
			return err
		}
		if opts.Signature, err = c.flag(o, "signature"); err != nil {
			return err
		}
		st, err := c.style(o, layout.Style{Size: defFontSize})
		if err != nil {
			return err
		}
		opts.Font, opts.FontSize = st.Font, st.Size
		if err := c.moveTo(o); err != nil {
			return err
		}
		next, err := c.s.LabeledField(x, c.y, content, opts)
		if err != nil {
			return err
		}
		return c.keepOr(o, next)

	case "check":
		if err := c.allow(o, "y", "x", "name", "size", "keep"); err != nil {
			return err
		}
		x, err := c.num(o, "x", c.margin)
		if err != nil {
			return err
		}
		name, err := c.str(o, "name", "")
		if err != nil {
			return err
		}
		if name == "" {
			return fmt.Errorf("复选框缺少 name")
		}
		size, err := c.num(o, "size", defFontSize)
		if err != nil {
			return err
		}
		if err := c.moveTo(o); err != nil {
			return err
		}
		next, err := c.s.Checkbox(x, c.y, content, name, size)
		if err != nil {
			return err
		}
		return c.keepOr(o, next)

	case "signature":
		if err := c.allow(o, "y", "x", "width", "inline", "advance"); err != nil {
			return err
		}
		inline, err := c.flag(o, "inline")
		if err != nil {
			return err
		}
		start := c.margin + 10
		if inline {
			start = c.sigEnd + 10
		}
		x, err := c.num(o, "x", start)
		if err != nil {
			return err
		}
		width, err := c.num(o, "width", 200)
		if err != nil {
			return err
		}
		if err := c.moveTo(o); err != nil {
			return err
		}
		if c.sigEnd, err = signatureLine(c.s, x, c.y, content, width); err != nil {
			return err
		}
		return c.advance(o, 0)

	case "footer":
		if err := c.allow(o, "size", "font", "color"); err != nil {
			return err
		}
		st, err := c.style(o, layout.Style{Size: defFontSize - 2})
		if err != nil {
			return err
		}
		c.footers = append(c.footers, footerLine{content: content, style: st})
		return nil
	}
	return fmt.Errorf("未知命令 %q", cmd.Name)
}

// text 在游标处绘制一行文本，之后游标前进 advance（默认 15）。
func (c *compiler) text(content string, o []*dsl.Option) error {
	if err := c.allow(o, "y", "x", "size", "font", "color", "align", "advance"); err != nil {
		return err
	}
	st, err := c.style(o, layout.Style{Size: defFontSize})
	if err != nil {
		return err
	}
	align, err := c.str(o, "align", "left")
	if err != nil {
		return err
	}
	if err := c.moveTo(o); err != nil {
		return err
	}
	switch align {
	case "left":
		x, err := c.num(o, "x", c.margin)
		if err != nil {
			return err
		}
		err = c.s.Text(x, c.y, content, st)
		if err != nil {
			return err
		}
	case "right":
		if err := c.s.RightAligned(c.xmax(), c.y, content, st); err != nil {
			return err
		}
	case "center":
		w, err := c.s.Measure(content, st.Font, st.Size)
		if err != nil {
			return err
		}
		if err := c.s.Text((c.xmax()-w)/2, c.y, content, st); err != nil {
			return err
		}
	default:
		return fmt.Errorf("未知对齐方式 %q", align)
	}
	return c.advance(o, 15)
}

func (c *compiler) rows(r *dsl.Rows) error {
	o := r.Options
	if err := c.allow(o, "y", "align", "border", "font", "size", "rowheight", "labelgap", "widgetgap", "padding"); err != nil {
		return err
	}
	cfg := layout.DefaultFieldConfig(c.s.Width())
	cfg.LeftMargin, cfg.RightMargin = c.margin, c.xmax()

	var err error
	if cfg.AlignFirstColumn, err = c.flag(o, "align"); err != nil {
		return err
	}
	if _, ok := dsl.Find(o, "border"); ok {
		if cfg.CheckboxBorder, err = c.flag(o, "border"); err != nil {
			return err
		}
	}
	st, err := c.style(o, layout.Style{Font: cfg.Font, Size: cfg.FontSize})
	if err != nil {
		return err
	}
	cfg.Font, cfg.FontSize = st.Font, st.Size
	for _, p := range []struct {
		key string
		dst *float64
	}{{"rowheight", &cfg.RowHeight}, {"labelgap", &cfg.LabelGap}, {"widgetgap", &cfg.WidgetGap}, {"padding", &cfg.FieldPadding}} {
		if *p.dst, err = c.num(o, p.key, *p.dst); err != nil {
			return err
		}
	}

	rows := make([]layout.Row, 0, len(r.Rows))
	for _, row := range r.Rows {
		fields := make(layout.Row, 0, len(row.Fields))
		for _, f := range row.Fields {
			field, err := c.field(f)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Pos, err)
			}
			fields = append(fields, field)
		}
		rows = append(rows, fields)
	}
	if err := c.moveTo(o); err != nil {
		return err
	}
	c.y, err = c.s.Fields(cfg, rows, c.y)
	return err
}

func (c *compiler) field(f *dsl.Field) (layout.Field, error) {
	label, err := binding.Resolve(f.Label.String(), c.data)
	if err != nil {
		return layout.Field{}, err
	}
	out := layout.Field{Label: label}
	if f.Kind == "label" {
		if err := c.allow(f.Options); err != nil {
			return layout.Field{}, err
		}
		return out, nil
	}

	if err := c.allow(f.Options, "name", "size", "reverse"); err != nil {
		return layout.Field{}, err
	}
	if out.Name, err = c.str(f.Options, "name", ""); err != nil {
		return layout.Field{}, err
	}
	if out.Name == "" {
		return layout.Field{}, fmt.Errorf("%s 缺少 name", f.Kind)
	}
	size, err := c.num(f.Options, "size", 0)
	if err != nil {
		return layout.Field{}, err
	}
	out.Size = layout.Size(size)
	if f.Kind == "checkbox" {
		out.Type = layout.WidgetCheckbox
		if _, ok := dsl.Find(f.Options, "size"); !ok {
			out.Size = 20
		}
		out.Reverse = true
	}
	if _, ok := dsl.Find(f.Options, "reverse"); ok {
		if out.Reverse, err = c.flag(f.Options, "reverse"); err != nil {
			return layout.Field{}, err
		}
	}
	return out, nil
}

func (c *compiler) drawFooters() error {
	xmax := c.xmax()
	ymax := c.s.Height() - c.margin
	for i, f := range c.footers {
		h, err := c.s.LineHeight(f.style.Font, f.style.Size)
		if err != nil {
			return err
		}
		y := ymax - float64(len(c.footers)-i)*h
		if _, err := c.s.Centered(y, xmax, f.content, f.style, false); err != nil {
			return fmt.Errorf("footer: %w", err)
		}
	}
	return nil
}

func (c *compiler) meta(doc *dsl.Document) (layout.DocumentMeta, error) {
	meta := c.g.meta(doc.Name, "")
	if doc.Meta == nil {
		return meta, nil
	}
	for _, a := range doc.Meta.Entries {
		if a.Key == "keywords" {
			for _, k := range a.Value.Strings() {
				v, err := binding.Resolve(k, c.data)
				if err != nil {
					return meta, fmt.Errorf("%s: %w", a.Pos, err)
				}
				meta.Keywords = append(meta.Keywords, v)
			}
			continue
		}
		v, err := binding.Resolve(a.Value.Text(), c.data)
		if err != nil {
			return meta, fmt.Errorf("%s: %w", a.Pos, err)
		}
		switch a.Key {
		case "title":
			meta.Title = v
		case "author":
			meta.Author = v
		case "subject":
			meta.Subject = v
		case "creator":
			meta.Creator = v
		default:
			return meta, fmt.Errorf("%s: 未知元数据 %q", a.Pos, a.Key)
		}
	}
	return meta, nil
}

// assetPath 把 asset:<name> 映射到 Assets 中配置的图片路径。
func (c *compiler) assetPath(p string) string {
	name, ok := strings.CutPrefix(p, "asset:")
	if !ok {
		return p
	}
	switch name {
	case "logo":
		return c.assets.Logo
	case "aid_logo":
		return c.assets.AidLogo
	case "stethoscope":
		return c.assets.Stethoscope
	case "mortarboard":
		return c.assets.Mortarboard
	case "qr":
		return c.assets.QR
	}
	return p
}

func (c *compiler) moveTo(o []*dsl.Option) error {
	if _, ok := dsl.Find(o, "y"); !ok {
		return nil
	}
	y, err := c.num(o, "y", c.y)
	if err != nil {
		return err
	}
	c.y = y
	return nil
}

func (c *compiler) advance(o []*dsl.Option, def float64) error {
	d, err := c.num(o, "advance", def)
	if err != nil {
		return err
	}
	c.y += d
	return nil
}

func (c *compiler) keepOr(o []*dsl.Option, next float64) error {
	keep, err := c.flag(o, "keep")
	if err != nil {
		return err
	}
	if !keep {
		c.y = next
	}
	return nil
}

func (c *compiler) allow(o []*dsl.Option, keys ...string) error {
	for _, opt := range o {
		known := false
		for _, k := range keys {
			if opt.Key == k {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%s: 未知选项 %q", opt.Pos, opt.Key)
		}
	}
	return nil
}

func (c *compiler) num(o []*dsl.Option, key string, def float64) (float64, error) {
	opt, ok := dsl.Find(o, key)
	if !ok {
		return def, nil
	}
	if opt.Value == nil || opt.Value.Number == nil {
		return 0, fmt.Errorf("%s: 选项 %s 需要数值", opt.Pos, key)
	}
	l, err := layout.ParseLength(*opt.Value.Number)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opt.Pos, err)
	}
	return l.Points(), nil
}

func (c *compiler) str(o []*dsl.Option, key, def string) (string, error) {
	opt, ok := dsl.Find(o, key)
	if !ok {
		return def, nil
	}
	if opt.Value == nil {
		return "", fmt.Errorf("%s: 选项 %s 需要取值", opt.Pos, key)
	}
	return binding.Resolve(opt.Value.Text(), c.data)
}

func (c *compiler) flag(o []*dsl.Option, key string) (bool, error) {
	opt, ok := dsl.Find(o, key)
	if !ok {
		return false, nil
	}
	if opt.Value == nil {
		return true, nil
	}
	b, err := strconv.ParseBool(opt.Value.Text())
	if err != nil {
		return false, fmt.Errorf("%s: 选项 %s 需要 true 或 false", opt.Pos, key)
	}
	return b, nil
}

func (c *compiler) style(o []*dsl.Option, def layout.Style) (layout.Style, error) {
	st := def
	var err error
	if st.Font, err = c.str(o, "font", def.Font); err != nil {
		return st, err
	}
	if st.Font != "" {
		if _, err := layout.LookupFont(st.Font); err != nil {
			return st, err
		}
	}
	if st.Size, err = c.num(o, "size", def.Size); err != nil {
		return st, err
	}
	if st.Color, err = c.color(o, "color", def.Color); err != nil {
		return st, err
	}
	return st, nil
}

// color 接受 #rgb / #rrggbb，或 0~1 之间的灰度值。
func (c *compiler) color(o []*dsl.Option, key string, def layout.Color) (layout.Color, error) {
	opt, ok := dsl.Find(o, key)
	if !ok {
		return def, nil
	}
	switch {
	case opt.Value != nil && opt.Value.Color != nil:
		return parseHexColor(*opt.Value.Color)
	case opt.Value != nil && opt.Value.Number != nil:
		level, err := strconv.ParseFloat(*opt.Value.Number, 64)
		if err != nil || level < 0 || level > 1 {
			return def, fmt.Errorf("%s: 灰度需在 0~1 之间", opt.Pos)
		}
		return layout.Gray(level), nil
	}
	return def, fmt.Errorf("%s: 选项 %s 需要颜色", opt.Pos, key)
}

func parseHexColor(v string) (layout.Color, error) {
	hex := strings.TrimPrefix(v, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return layout.Color{}, fmt.Errorf("颜色格式无效: %s", v)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("颜色格式无效: %s", v)
	}
	return layout.Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}
