// Package acroform 把布局中的控件写成 PDF 交互表单字段。
//
// 页面内容由渲染器输出；这里根据 layout.Widget 生成 pdfcpu 的 create 描述，
// 再叠加到已渲染的第一页上。
package acroform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/allisonrosefund/rosepdf/layout"
)

// Form 是 pdfcpu create 接口接受的文档描述（只用到表单相关部分）。
type Form struct {
	Paper  string          `json:"paper,omitempty"`
	Origin string          `json:"origin"`
	Pages  map[string]Page `json:"pages"`
}

// Page 是单页的内容描述。
type Page struct {
	Content Content `json:"content"`
}

// Content 收集一页上的文本框与复选框。
type Content struct {
	TextFields []TextField `json:"textfield,omitempty"`
	CheckBoxes []CheckBox  `json:"checkbox,omitempty"`
}

// TextField 是单行文本输入框，Pos 为左下角坐标。
type TextField struct {
	ID     string     `json:"id"`
	Pos    [2]float64 `json:"pos"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Font   *Font      `json:"font,omitempty"`
}

// CheckBox 是方形复选框，边长为 Width。
type CheckBox struct {
	ID     string     `json:"id"`
	Pos    [2]float64 `json:"pos"`
	Width  float64    `json:"width"`
	Border *Border    `json:"border,omitempty"`
}

// Font 描述文本框使用的核心字体。
type Font struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Border 描述控件边框。
type Border struct {
	Width int    `json:"width"`
	Color string `json:"col"`
}

// Declarations 把控件转换为表单描述：坐标从左上角原点换算为 PDF 的左下角原点。
// 控件名必须唯一且非空。
func Declarations(res *layout.Result) (*Form, error) {
	if res == nil {
		return nil, fmt.Errorf("布局结果为空")
	}
	page := res.Page
	seen := make(map[string]struct{}, len(page.Widgets))
	var content Content
	for _, w := range page.Widgets {
		if w.Name == "" {
			return nil, fmt.Errorf("控件缺少名称: %+v", w)
		}
		if _, dup := seen[w.Name]; dup {
			return nil, fmt.Errorf("控件名称重复: %s", w.Name)
		}
		seen[w.Name] = struct{}{}

		pos := [2]float64{w.X, page.Height - (w.Y + w.Height)}
		switch w.Type {
		case layout.WidgetCheckbox:
			// pdfcpu 的复选框是正方形：边长取控件宽度，与行内垂直居中
			cb := CheckBox{ID: w.Name, Pos: [2]float64{w.X, page.Height - (w.Y + w.Height/2 + w.Width/2)}, Width: w.Width}
			if w.Border != nil {
				cb.Border = &Border{Width: int(math.Max(1, math.Round(w.Border.Width))), Color: hexColor(w.Border.Color)}
			}
			content.CheckBoxes = append(content.CheckBoxes, cb)
		default:
			tf := TextField{ID: w.Name, Pos: pos, Width: w.Width, Height: w.Height}
			if w.FontSize > 0 {
				tf.Font = &Font{Name: coreFontName(w.Font), Size: int(math.Round(w.FontSize))}
			}
			content.TextFields = append(content.TextFields, tf)
		}
	}
	return &Form{
		Paper:  paperName(page.Width, page.Height),
		Origin: "LowerLeft",
		Pages:  map[string]Page{"1": {Content: content}},
	}, nil
}

// Apply 在已渲染的 PDF 上添加交互字段。没有控件时原样返回。
func Apply(pdf []byte, res *layout.Result) ([]byte, error) {
	if res == nil || len(res.Page.Widgets) == 0 {
		return pdf, nil
	}
	form, err := Declarations(res)
	if err != nil {
		return nil, err
	}
	var desc bytes.Buffer
	if err := json.NewEncoder(&desc).Encode(form); err != nil {
		return nil, fmt.Errorf("编码表单描述失败: %w", err)
	}
	var out bytes.Buffer
	if err := create(bytes.NewReader(pdf), &desc, &out); err != nil {
		return nil, fmt.Errorf("添加表单字段失败: %w", err)
	}
	return out.Bytes(), nil
}

func create(rs io.ReadSeeker, desc io.Reader, w io.Writer) error {
	conf := model.NewDefaultConfiguration()
	return api.Create(rs, desc, w, conf)
}

func hexColor(c layout.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.R), clamp(c.G), clamp(c.B))
}

func clamp(v int) int {
	return max(0, min(255, v))
}

// coreFontName 保留 Helvetica 系列名称，其余回退到 Helvetica。
func coreFontName(name string) string {
	switch name {
	case "Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique":
		return name
	default:
		return "Helvetica"
	}
}

func paperName(w, h float64) string {
	for _, p := range []struct {
		name string
		w, h float64
	}{{"A4P", 595, 842}, {"LetterP", 612, 792}, {"LegalP", 612, 1008}, {"A5P", 420, 595}} {
		if math.Abs(w-p.w) < 1 && math.Abs(h-p.h) < 1 {
			return p.name
		}
	}
	return ""
}
